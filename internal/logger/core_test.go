package logger

import (
	"context"
	"sync"
	"testing"

	common_models "go-lms/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockSink struct {
	mu      sync.Mutex
	Records []common_models.ServiceLog
}

func (m *MockSink) InsertLog(ctx context.Context, rec common_models.ServiceLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, rec)
	return nil
}

func TestMongoCorePersistsWarnings(t *testing.T) {
	base, observed := observer.New(zapcore.DebugLevel)
	sink := &MockSink{}
	writer := NewLogWriter(sink, "test-app", 10)

	log := zap.New(NewMongoCore(base, writer)).With(zap.String("dashboard_id", "d1"))
	log.Info("widget rendered", zap.String("widget_id", "w1"))
	log.Warn("widget fetch failed", zap.String("widget_id", "w2"))

	writer.Close()

	assert.Equal(t, 2, observed.Len(), "base core still receives every entry")
	require.Len(t, sink.Records, 1)
	assert.Equal(t, "widget fetch failed", sink.Records[0].Message)
	assert.Equal(t, "d1", sink.Records[0].DashboardID)
	assert.Equal(t, "w2", sink.Records[0].WidgetID)
	assert.Equal(t, "warn", sink.Records[0].Level)
	assert.Equal(t, "test-app", sink.Records[0].AppID)
}

func TestAddLogDropsWhenFull(t *testing.T) {
	w := &LogWriter{logChan: make(chan LogEntry, 1)}
	w.AddLog(LogEntry{Message: "first"})
	w.AddLog(LogEntry{Message: "second"})
	assert.Len(t, w.logChan, 1)
}
