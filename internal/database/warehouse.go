package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"go-lms/internal/config"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/fx"
)

// Warehouse is the read-only analytics store behind widget data sources.
type Warehouse struct {
	DB      *sql.DB
	Dialect string
}

// DriverName maps the configured warehouse kind to its database/sql driver.
func DriverName(kind string) (string, error) {
	switch kind {
	case "postgres", "postgresql":
		return "postgres", nil
	case "mysql":
		return "mysql", nil
	case "clickhouse":
		return "clickhouse", nil
	default:
		return "", fmt.Errorf("unsupported warehouse driver: %s", kind)
	}
}

// NewWarehouse opens the analytics warehouse. A failed ping is logged rather than fatal:
// widgets surface fetch errors until the warehouse is reachable.
func NewWarehouse(lc fx.Lifecycle, cfg *config.Config) (*Warehouse, error) {
	driver, err := DriverName(cfg.WarehouseDriver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, cfg.WarehouseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Printf("Analytics warehouse not reachable yet: %v", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	return &Warehouse{DB: db, Dialect: driver}, nil
}
