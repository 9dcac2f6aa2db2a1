package audit

import (
	"context"
	"testing"
	"time"

	common_models "go-lms/internal/common/models"
	"go-lms/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockRepo struct {
	Created      []common_models.AuditLog
	CapturedLim  int64
	CapturedSkip int64
}

func (m *MockRepo) Create(ctx context.Context, log common_models.AuditLog) error {
	m.Created = append(m.Created, log)
	return nil
}

func (m *MockRepo) List(ctx context.Context, filters map[string]interface{}, limit, offset int64) ([]common_models.AuditLog, error) {
	m.CapturedLim = limit
	m.CapturedSkip = offset
	return m.Created, nil
}

func TestLogChangeActor(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name  string
		ctx   context.Context
		actor string
	}{
		{"anonymous context", context.Background(), "system"},
		{"authenticated", context.WithValue(context.Background(), utils.UserClaimsKey, &utils.UserClaims{UserID: "u1"}), "u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepo{}
			svc := &AuditServiceImpl{Repo: repo, now: func() time.Time { return fixed }}

			err := svc.LogChange(tt.ctx, common_models.AuditActionShare, "dashboards", "d1", map[string]common_models.Change{
				"is_shared": {Old: false, New: true},
			})
			require.NoError(t, err)
			require.Len(t, repo.Created, 1)
			assert.Equal(t, tt.actor, repo.Created[0].ActorID)
			assert.Equal(t, fixed, repo.Created[0].Timestamp)
			assert.Equal(t, "d1", repo.Created[0].RecordID)
		})
	}
}

func TestListLogsPaging(t *testing.T) {
	repo := &MockRepo{}
	svc := NewAuditService(repo)

	_, err := svc.ListLogs(context.Background(), nil, 3, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(20), repo.CapturedLim)
	assert.Equal(t, int64(40), repo.CapturedSkip)

	_, _ = svc.ListLogs(context.Background(), nil, 0, 500)
	assert.Equal(t, int64(100), repo.CapturedLim)
	assert.Equal(t, int64(0), repo.CapturedSkip)
}
