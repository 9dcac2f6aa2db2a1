package logger

import (
	"context"

	common_models "go-lms/internal/common/models"
	"go-lms/internal/config"
	"go-lms/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type mongoSink struct {
	collection *mongo.Collection
}

func (s *mongoSink) InsertLog(ctx context.Context, rec common_models.ServiceLog) error {
	_, err := s.collection.InsertOne(ctx, rec)
	return err
}

// NewLogger builds the zap logger and tees warnings into the service_logs collection
func NewLogger(lc fx.Lifecycle, cfg *config.Config, mongodb *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Important: Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	writer := NewLogWriter(&mongoSink{collection: mongodb.DB.Collection("service_logs")}, cfg.AppId, 1000)
	logger := zap.New(NewMongoCore(baseLogger.Core(), writer), zap.AddCaller())

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = logger.Sync()
			writer.Close()
			return nil
		},
	})

	return logger, nil
}
