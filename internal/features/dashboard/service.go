package dashboard

import (
	"context"

	"go-lms/internal/common/errs"
	common_models "go-lms/internal/common/models"
	"go-lms/internal/features/audit"
	"go-lms/internal/features/layout"
	"go-lms/internal/features/widget"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const auditModule = "dashboards"

// DashboardService is the persistence collaborator used by editor sessions, the viewer and
// the REST API. Every call is scoped to the acting user.
type DashboardService interface {
	Create(ctx context.Context, userID string, dashboard *Dashboard) (*Dashboard, error)
	Update(ctx context.Context, userID string, id string, dashboard *Dashboard) (*Dashboard, error)
	Delete(ctx context.Context, userID string, id string) error
	Get(ctx context.Context, userID string, id string) (*Dashboard, error)
	List(ctx context.Context, userID string, filter ListFilter) ([]Dashboard, error)
	Clone(ctx context.Context, userID string, id string) (*Dashboard, error)
	SetDefault(ctx context.Context, userID string, id string) error
	SetShared(ctx context.Context, userID string, id string, shared bool) error
}

type DashboardServiceImpl struct {
	DashboardRepo DashboardRepository
	AuditService  audit.AuditService
	Logger        *zap.Logger
}

func NewDashboardService(dashboardRepo DashboardRepository, auditService audit.AuditService, logger *zap.Logger) DashboardService {
	return &DashboardServiceImpl{
		DashboardRepo: dashboardRepo,
		AuditService:  auditService,
		Logger:        logger,
	}
}

func (s *DashboardServiceImpl) Create(ctx context.Context, userID string, dashboard *Dashboard) (*Dashboard, error) {
	doc := dashboard.Copy()
	doc.OwnerID = userID
	if doc.DefaultTimeRange == "" {
		doc.DefaultTimeRange = Range30Days
	}
	prepareWidgets(doc)

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if err := s.DashboardRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	if doc.IsDefault {
		if err := s.DashboardRepo.SetDefault(ctx, userID, doc.ID); err != nil {
			return nil, err
		}
	}

	s.audit(ctx, common_models.AuditActionCreate, doc.ID, map[string]common_models.Change{
		"dashboard": {New: doc},
	})
	return doc, nil
}

// Get returns the dashboard if the user owns it or it is shared.
func (s *DashboardServiceImpl) Get(ctx context.Context, userID string, id string) (*Dashboard, error) {
	dashboard, err := s.DashboardRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if dashboard.OwnerID != userID && !dashboard.IsShared {
		return nil, errs.ErrAccessDenied
	}

	return dashboard, nil
}

func (s *DashboardServiceImpl) List(ctx context.Context, userID string, filter ListFilter) ([]Dashboard, error) {
	return s.DashboardRepo.List(ctx, userID, filter)
}

// Update replaces the persisted widget set wholesale.
func (s *DashboardServiceImpl) Update(ctx context.Context, userID string, id string, dashboard *Dashboard) (*Dashboard, error) {
	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	doc := dashboard.Copy()
	doc.ID = existing.ID
	doc.OwnerID = existing.OwnerID
	doc.IsDefault = existing.IsDefault
	doc.CreatedAt = existing.CreatedAt
	if doc.DefaultTimeRange == "" {
		doc.DefaultTimeRange = existing.DefaultTimeRange
	}
	prepareWidgets(doc)

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if err := s.DashboardRepo.Update(ctx, id, doc); err != nil {
		return nil, err
	}

	s.audit(ctx, common_models.AuditActionUpdate, id, map[string]common_models.Change{
		"dashboard": {Old: existing, New: doc},
	})
	return doc, nil
}

func (s *DashboardServiceImpl) Delete(ctx context.Context, userID string, id string) error {
	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.DashboardRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit(ctx, common_models.AuditActionDelete, id, map[string]common_models.Change{
		"dashboard": {Old: existing, New: "DELETED"},
	})
	return nil
}

// Clone copies a readable dashboard into a new one owned by the caller. The copy is neither
// default nor shared and its widgets get fresh identities.
func (s *DashboardServiceImpl) Clone(ctx context.Context, userID string, id string) (*Dashboard, error) {
	source, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	doc := source.Copy()
	doc.ID = ""
	doc.OwnerID = userID
	doc.Name = source.Name + " (Copy)"
	doc.IsDefault = false
	doc.IsShared = false
	for i := range doc.Widgets {
		doc.Widgets[i].ID = ""
	}
	prepareWidgets(doc)

	if err := s.DashboardRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.audit(ctx, common_models.AuditActionClone, doc.ID, map[string]common_models.Change{
		"source": {Old: source.ID, New: doc.ID},
	})
	return doc, nil
}

func (s *DashboardServiceImpl) SetDefault(ctx context.Context, userID string, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.DashboardRepo.SetDefault(ctx, userID, id); err != nil {
		return err
	}
	s.audit(ctx, common_models.AuditActionDefault, id, nil)
	return nil
}

func (s *DashboardServiceImpl) SetShared(ctx context.Context, userID string, id string, shared bool) error {
	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.DashboardRepo.SetShared(ctx, id, shared); err != nil {
		return err
	}
	s.audit(ctx, common_models.AuditActionShare, id, map[string]common_models.Change{
		"is_shared": {Old: existing.IsShared, New: shared},
	})
	return nil
}

func (s *DashboardServiceImpl) owned(ctx context.Context, userID string, id string) (*Dashboard, error) {
	existing, err := s.DashboardRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != userID {
		return nil, errs.ErrAccessDenied
	}
	return existing, nil
}

func (s *DashboardServiceImpl) audit(ctx context.Context, action common_models.AuditAction, id string, changes map[string]common_models.Change) {
	if s.AuditService == nil {
		return
	}
	if err := s.AuditService.LogChange(ctx, action, auditModule, id, changes); err != nil && s.Logger != nil {
		s.Logger.Warn("audit log failed", zap.String("dashboard_id", id), zap.Error(err))
	}
}

// prepareWidgets gives draft widgets permanent ids, compacts the stored layout and makes
// order dense.
func prepareWidgets(doc *Dashboard) {
	if doc.Widgets == nil {
		doc.Widgets = []Widget{}
	}
	for i := range doc.Widgets {
		w := &doc.Widgets[i]
		if IsDraftID(w.ID) {
			w.ID = primitive.NewObjectID().Hex()
		}
		if _, err := widget.ParseType(string(w.Type)); err == nil && (w.Width <= 0 || w.Height <= 0) {
			d := widget.Describe(w.Type)
			w.Width, w.Height = d.DefaultWidth, d.DefaultHeight
		}
		w.Width = min(max(w.Width, layout.MinW), layout.MaxW)
		w.Height = min(max(w.Height, layout.MinH), layout.MaxH)
		w.PositionX = min(max(w.PositionX, 0), layout.Columns-w.Width)
		w.PositionY = max(w.PositionY, 0)
	}
	if _, _, overlap := layout.Overlaps(doc.Layout()); overlap {
		doc.ApplyLayout(layout.Compact(doc.Layout()))
	}
	doc.NormalizeOrder()
}
