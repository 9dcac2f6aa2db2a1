package dashboard

import (
	"context"
	"errors"
	"time"

	"go-lms/internal/common/errs"
	"go-lms/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DashboardRepository interface {
	Create(ctx context.Context, dashboard *Dashboard) error
	Get(ctx context.Context, id string) (*Dashboard, error)
	List(ctx context.Context, ownerID string, filter ListFilter) ([]Dashboard, error)
	Update(ctx context.Context, id string, dashboard *Dashboard) error
	Delete(ctx context.Context, id string) error
	SetDefault(ctx context.Context, ownerID string, dashboardID string) error
	SetShared(ctx context.Context, dashboardID string, shared bool) error
	EnsureIndexes(ctx context.Context) error
}

// record is the stored shape; ids are ObjectIDs in the collection.
type record struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID          primitive.ObjectID `bson:"user_id"`
	Name             string             `bson:"name"`
	Description      string             `bson:"description,omitempty"`
	IsShared         bool               `bson:"is_shared"`
	IsDefault        bool               `bson:"is_default"`
	DefaultTimeRange TimeRange          `bson:"default_time_range"`
	RefreshInterval  int                `bson:"refresh_interval"`
	Widgets          []Widget           `bson:"widgets"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

func (r record) toDashboard() *Dashboard {
	widgets := r.Widgets
	if widgets == nil {
		widgets = []Widget{}
	}
	return &Dashboard{
		ID:               r.ID.Hex(),
		OwnerID:          r.OwnerID.Hex(),
		Name:             r.Name,
		Description:      r.Description,
		IsShared:         r.IsShared,
		IsDefault:        r.IsDefault,
		DefaultTimeRange: r.DefaultTimeRange,
		RefreshInterval:  r.RefreshInterval,
		Widgets:          widgets,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

type DashboardRepositoryImpl struct {
	collection *mongo.Collection
}

func NewDashboardRepository(db *database.MongodbDB) DashboardRepository {
	return &DashboardRepositoryImpl{
		collection: db.DB.Collection("dashboards"),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errs.NotFound("dashboard", id)
	}
	return oid, nil
}

func (r *DashboardRepositoryImpl) Create(ctx context.Context, dashboard *Dashboard) error {
	owner, err := primitive.ObjectIDFromHex(dashboard.OwnerID)
	if err != nil {
		return errs.Invalid("", "owner_id", "invalid owner id")
	}

	now := time.Now()
	rec := record{
		ID:               primitive.NewObjectID(),
		OwnerID:          owner,
		Name:             dashboard.Name,
		Description:      dashboard.Description,
		IsShared:         dashboard.IsShared,
		IsDefault:        dashboard.IsDefault,
		DefaultTimeRange: dashboard.DefaultTimeRange,
		RefreshInterval:  dashboard.RefreshInterval,
		Widgets:          dashboard.Widgets,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := r.collection.InsertOne(ctx, rec); err != nil {
		return err
	}

	dashboard.ID = rec.ID.Hex()
	dashboard.CreatedAt = now
	dashboard.UpdatedAt = now
	return nil
}

func (r *DashboardRepositoryImpl) Get(ctx context.Context, id string) (*Dashboard, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var rec record
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("dashboard", id)
		}
		return nil, err
	}
	return rec.toDashboard(), nil
}

func (r *DashboardRepositoryImpl) List(ctx context.Context, ownerID string, filter ListFilter) ([]Dashboard, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, errs.Invalid("", "owner_id", "invalid owner id")
	}

	query := listQuery(oid, filter)

	opts := options.Find().SetSort(bson.D{{Key: "is_default", Value: -1}, {Key: "updated_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []record
	if err = cursor.All(ctx, &recs); err != nil {
		return nil, err
	}

	dashboards := make([]Dashboard, 0, len(recs))
	for _, rec := range recs {
		dashboards = append(dashboards, *rec.toDashboard())
	}
	return dashboards, nil
}

// listQuery matches the owner's dashboards plus dashboards other users share. is_default
// belongs to the owner, so another user's default never counts as one here.
func listQuery(ownerID primitive.ObjectID, filter ListFilter) bson.M {
	own := bson.M{"user_id": ownerID}
	others := bson.M{"user_id": bson.M{"$ne": ownerID}, "is_shared": true}
	includeOthers := true

	if filter.Default != nil {
		own["is_default"] = *filter.Default
		includeOthers = !*filter.Default
	}
	if filter.Shared != nil {
		own["is_shared"] = *filter.Shared
		includeOthers = includeOthers && *filter.Shared
	}
	if !includeOthers {
		return own
	}
	return bson.M{"$or": []bson.M{own, others}}
}

// Update replaces the metadata and the whole widget set. is_default is only changed by SetDefault.
func (r *DashboardRepositoryImpl) Update(ctx context.Context, id string, dashboard *Dashboard) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	dashboard.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":               dashboard.Name,
			"description":        dashboard.Description,
			"is_shared":          dashboard.IsShared,
			"default_time_range": dashboard.DefaultTimeRange,
			"refresh_interval":   dashboard.RefreshInterval,
			"widgets":            dashboard.Widgets,
			"updated_at":         dashboard.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return errs.NotFound("dashboard", id)
	}

	return nil
}

func (r *DashboardRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return errs.NotFound("dashboard", id)
	}

	return nil
}

// SetDefault unsets every default of the owner, then marks dashboardID.
func (r *DashboardRepositoryImpl) SetDefault(ctx context.Context, ownerID string, dashboardID string) error {
	ownerOID, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return errs.Invalid("", "owner_id", "invalid owner id")
	}

	dashboardOID, err := objectID(dashboardID)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateMany(ctx,
		bson.M{"user_id": ownerOID, "is_default": true},
		bson.M{"$set": bson.M{"is_default": false}},
	)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": dashboardOID, "user_id": ownerOID},
		bson.M{"$set": bson.M{"is_default": true}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return errs.NotFound("dashboard", dashboardID)
	}

	return nil
}

func (r *DashboardRepositoryImpl) SetShared(ctx context.Context, dashboardID string, shared bool) error {
	oid, err := objectID(dashboardID)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"is_shared": shared, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return errs.NotFound("dashboard", dashboardID)
	}

	return nil
}

func (r *DashboardRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_default", Value: -1},
				{Key: "updated_at", Value: -1},
			},
			Options: options.Index().SetName("idx_owner_default_updated"),
		},
		{
			Keys:    bson.D{{Key: "is_shared", Value: 1}},
			Options: options.Index().SetName("idx_shared"),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
