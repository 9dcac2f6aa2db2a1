package dashboard

import (
	"context"
	"errors"
	"testing"

	"go-lms/internal/common/errs"
	common_models "go-lms/internal/common/models"
	"go-lms/internal/features/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	owner = "65f0a0a0a0a0a0a0a0a0a0a1"
	other = "65f0a0a0a0a0a0a0a0a0a0a2"
)

// MockRepo keeps documents in memory and records default/sharing calls.
type MockRepo struct {
	Docs            map[string]*Dashboard
	CapturedDefault []string
	FailCreate      error
}

func NewMockRepo() *MockRepo {
	return &MockRepo{Docs: map[string]*Dashboard{}}
}

func (m *MockRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (m *MockRepo) Create(ctx context.Context, d *Dashboard) error {
	if m.FailCreate != nil {
		return m.FailCreate
	}
	d.ID = primitive.NewObjectID().Hex()
	m.Docs[d.ID] = d.Copy()
	return nil
}

func (m *MockRepo) Get(ctx context.Context, id string) (*Dashboard, error) {
	d, ok := m.Docs[id]
	if !ok {
		return nil, errs.NotFound("dashboard", id)
	}
	return d.Copy(), nil
}

func (m *MockRepo) List(ctx context.Context, ownerID string, filter ListFilter) ([]Dashboard, error) {
	var out []Dashboard
	for _, d := range m.Docs {
		if d.OwnerID == ownerID || d.IsShared {
			out = append(out, *d.Copy())
		}
	}
	return out, nil
}

func (m *MockRepo) Update(ctx context.Context, id string, d *Dashboard) error {
	if _, ok := m.Docs[id]; !ok {
		return errs.NotFound("dashboard", id)
	}
	m.Docs[id] = d.Copy()
	return nil
}

func (m *MockRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.Docs[id]; !ok {
		return errs.NotFound("dashboard", id)
	}
	delete(m.Docs, id)
	return nil
}

func (m *MockRepo) SetDefault(ctx context.Context, ownerID string, id string) error {
	m.CapturedDefault = append(m.CapturedDefault, id)
	for _, d := range m.Docs {
		if d.OwnerID == ownerID {
			d.IsDefault = d.ID == id
		}
	}
	return nil
}

func (m *MockRepo) SetShared(ctx context.Context, id string, shared bool) error {
	m.Docs[id].IsShared = shared
	return nil
}

type MockAudit struct {
	Actions []common_models.AuditAction
}

func (m *MockAudit) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	m.Actions = append(m.Actions, action)
	return nil
}

func (m *MockAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func sampleDashboard() *Dashboard {
	return &Dashboard{
		Name: "Platform Overview",
		Widgets: []Widget{
			{ID: NewDraftID(), Type: widget.TypeLineChart, Title: "Growth", DataSource: widget.SourceUserGrowth, PositionX: 0, PositionY: 0, Width: 6, Height: 4, Order: 7},
			{ID: NewDraftID(), Type: widget.TypeStatCard, Title: "Active", DataSource: widget.SourceActiveUsers, PositionX: 0, PositionY: 4, Width: 3, Height: 2, Order: 7},
		},
	}
}

func newService() (*DashboardServiceImpl, *MockRepo, *MockAudit) {
	repo := NewMockRepo()
	aud := &MockAudit{}
	return &DashboardServiceImpl{DashboardRepo: repo, AuditService: aud}, repo, aud
}

func TestCreateAssignsIdentitiesAndOrder(t *testing.T) {
	svc, repo, aud := newService()

	created, err := svc.Create(context.Background(), owner, sampleDashboard())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, owner, created.OwnerID)
	assert.Equal(t, Range30Days, created.DefaultTimeRange)
	for i, w := range created.Widgets {
		assert.False(t, IsDraftID(w.ID))
		assert.Equal(t, i, w.Order)
	}
	assert.Contains(t, repo.Docs, created.ID)
	assert.Equal(t, []common_models.AuditAction{common_models.AuditActionCreate}, aud.Actions)
}

func TestCreateRejectsIncompatibleWidget(t *testing.T) {
	svc, repo, _ := newService()
	doc := sampleDashboard()
	doc.Widgets[0].Type = widget.TypePieChart
	doc.Widgets[0].DataSource = widget.SourceLoginFrequency

	_, err := svc.Create(context.Background(), owner, doc)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Empty(t, repo.Docs)
}

func TestCreateDefaultIsExclusive(t *testing.T) {
	svc, repo, _ := newService()
	first := sampleDashboard()
	first.IsDefault = true
	a, err := svc.Create(context.Background(), owner, first)
	require.NoError(t, err)

	second := sampleDashboard()
	second.IsDefault = true
	b, err := svc.Create(context.Background(), owner, second)
	require.NoError(t, err)

	assert.False(t, repo.Docs[a.ID].IsDefault)
	assert.True(t, repo.Docs[b.ID].IsDefault)
}

func TestCreateCompactsOverlappingWidgets(t *testing.T) {
	svc, _, _ := newService()
	doc := sampleDashboard()
	doc.Widgets[1].PositionY = 1

	created, err := svc.Create(context.Background(), owner, doc)
	require.NoError(t, err)
	assert.Equal(t, 4, created.Widgets[1].PositionY)
}

func TestAccessRules(t *testing.T) {
	svc, _, _ := newService()
	private, err := svc.Create(context.Background(), owner, sampleDashboard())
	require.NoError(t, err)

	shared := sampleDashboard()
	shared.IsShared = true
	public, err := svc.Create(context.Background(), owner, shared)
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"read private of other", func() error { _, err := svc.Get(context.Background(), other, private.ID); return err }, errs.ErrAccessDenied},
		{"read shared of other", func() error { _, err := svc.Get(context.Background(), other, public.ID); return err }, nil},
		{"update shared of other", func() error {
			_, err := svc.Update(context.Background(), other, public.ID, sampleDashboard())
			return err
		}, errs.ErrAccessDenied},
		{"delete of other", func() error { return svc.Delete(context.Background(), other, public.ID) }, errs.ErrAccessDenied},
		{"share of other", func() error { return svc.SetShared(context.Background(), other, private.ID, true) }, errs.ErrAccessDenied},
		{"default of other", func() error { return svc.SetDefault(context.Background(), other, public.ID) }, errs.ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetMissing(t *testing.T) {
	svc, _, _ := newService()
	_, err := svc.Get(context.Background(), owner, "nope")
	assert.True(t, errs.IsNotFound(err))
}

func TestUpdateReplacesWidgetSet(t *testing.T) {
	svc, repo, _ := newService()
	created, err := svc.Create(context.Background(), owner, sampleDashboard())
	require.NoError(t, err)

	replacement := created.Copy()
	replacement.Widgets = replacement.Widgets[1:]
	replacement.Widgets = append(replacement.Widgets, Widget{
		ID: NewDraftID(), Type: widget.TypeTable, Title: "Recent", DataSource: widget.SourceRecentActivity,
		PositionY: 6, Width: 6, Height: 4,
	})

	updated, err := svc.Update(context.Background(), owner, created.ID, replacement)
	require.NoError(t, err)
	require.Len(t, updated.Widgets, 2)
	assert.Equal(t, created.Widgets[1].ID, updated.Widgets[0].ID)
	assert.False(t, IsDraftID(updated.Widgets[1].ID))
	assert.Equal(t, 1, updated.Widgets[1].Order)
	assert.Len(t, repo.Docs[created.ID].Widgets, 2)
}

func TestCloneIsPrivateCopy(t *testing.T) {
	svc, repo, aud := newService()
	doc := sampleDashboard()
	doc.IsShared = true
	doc.IsDefault = true
	source, err := svc.Create(context.Background(), owner, doc)
	require.NoError(t, err)

	clone, err := svc.Clone(context.Background(), other, source.ID)
	require.NoError(t, err)

	assert.NotEqual(t, source.ID, clone.ID)
	assert.Equal(t, other, clone.OwnerID)
	assert.Equal(t, "Platform Overview (Copy)", clone.Name)
	assert.False(t, clone.IsShared)
	assert.False(t, clone.IsDefault)
	require.Len(t, clone.Widgets, 2)
	assert.NotEqual(t, source.Widgets[0].ID, clone.Widgets[0].ID)
	assert.Equal(t, source.Widgets[0].DataSource, clone.Widgets[0].DataSource)
	assert.Len(t, repo.Docs, 2)
	assert.Contains(t, aud.Actions, common_models.AuditActionClone)
}

func TestCreatePropagatesRepositoryFailure(t *testing.T) {
	svc, repo, aud := newService()
	repo.FailCreate = errors.New("connection reset")

	_, err := svc.Create(context.Background(), owner, sampleDashboard())
	assert.EqualError(t, err, "connection reset")
	assert.Empty(t, aud.Actions)
}
