package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	TenantIDKey ContextKey = "tenant_id"
)

type AuditAction string

const (
	AuditActionCreate    AuditAction = "CREATE"
	AuditActionUpdate    AuditAction = "UPDATE"
	AuditActionDelete    AuditAction = "DELETE"
	AuditActionClone     AuditAction = "CLONE"
	AuditActionShare     AuditAction = "SHARE"
	AuditActionDefault   AuditAction = "SET_DEFAULT"
	AuditActionDashboard AuditAction = "DASHBOARD"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Module    string             `bson:"module" json:"module"`       // collection name
	RecordID  string             `bson:"record_id" json:"record_id"` // dashboard id
	ActorID   string             `bson:"actor_id" json:"actor_id"`
	TenantID  string             `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// ServiceLog is a persisted warn-or-worse log entry.
type ServiceLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AppID       string             `bson:"app_id" json:"app_id"`
	Level       string             `bson:"level" json:"level"`
	Message     string             `bson:"message" json:"message"`
	DashboardID string             `bson:"dashboard_id,omitempty" json:"dashboard_id,omitempty"`
	WidgetID    string             `bson:"widget_id,omitempty" json:"widget_id,omitempty"`
	Caller      string             `bson:"caller,omitempty" json:"caller,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
