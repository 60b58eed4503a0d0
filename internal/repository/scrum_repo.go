package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hrms-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const scrumCollection = "daily_scrums"

type ScrumRepository struct {
	col *mongo.Collection
}

func NewScrumRepo(db *mongo.Database) *ScrumRepository {
	return &ScrumRepository{col: db.Collection(scrumCollection)}
}

// ScrumFilter narrows List; nil fields are ignored
type ScrumFilter struct {
	SubProjectID *uint
	UserID       *uint
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// ScrumPatch holds the fields to $set on a scrum; nil fields are left alone
type ScrumPatch struct {
	TodayTask    *string
	EtaDate      *time.Time
	Dependencies []models.ScrumDependency
	SetDeps      bool
	Concern      *string
	ClearConcern bool
}

// EnsureIndexes creates the lookup indexes used by the scrum queries
func (r *ScrumRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "subproject_id", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "dependencies.user_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create scrum indexes: %w", err)
	}
	return nil
}

// List returns scrums newest first
func (r *ScrumRepository) List(ctx context.Context, f ScrumFilter) ([]models.Scrum, error) {
	filter := bson.M{}
	if f.SubProjectID != nil {
		filter["subproject_id"] = int64(*f.SubProjectID)
	}
	if f.UserID != nil {
		filter["user_id"] = int64(*f.UserID)
	}
	if f.From != nil || f.To != nil {
		rng := bson.M{}
		if f.From != nil {
			rng["$gte"] = *f.From
		}
		if f.To != nil {
			rng["$lte"] = *f.To
		}
		filter["created_at"] = rng
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(f.Offset)).
		SetLimit(int64(f.Limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query scrums: %w", err)
	}

	scrums := []models.Scrum{}
	if err := cur.All(ctx, &scrums); err != nil {
		return nil, fmt.Errorf("failed to decode scrums: %w", err)
	}
	return scrums, nil
}

// Create inserts a scrum and sets its ID
func (r *ScrumRepository) Create(ctx context.Context, scrum *models.Scrum) error {
	if scrum.Dependencies == nil {
		scrum.Dependencies = []models.ScrumDependency{}
	}
	res, err := r.col.InsertOne(ctx, scrum)
	if err != nil {
		return fmt.Errorf("failed to insert scrum: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		scrum.ID = id
	}
	return nil
}

// LatestForUser returns the newest scrum the user owns or is listed as a dependency on
func (r *ScrumRepository) LatestForUser(ctx context.Context, userID uint) (*models.Scrum, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"user_id": int64(userID)},
		bson.M{"dependencies": bson.M{"$elemMatch": bson.M{"user_id": int64(userID)}}},
	}}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var scrum models.Scrum
	if err := r.col.FindOne(ctx, filter, opts).Decode(&scrum); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find scrum: %w", err)
	}
	return &scrum, nil
}

// Update applies patch to the scrum with the given id and returns the stored document
func (r *ScrumRepository) Update(ctx context.Context, id bson.ObjectID, patch ScrumPatch) (*models.Scrum, error) {
	set := bson.M{}
	unset := bson.M{}
	if patch.TodayTask != nil {
		set["today_task"] = *patch.TodayTask
	}
	if patch.EtaDate != nil {
		set["eta_date"] = *patch.EtaDate
	}
	if patch.SetDeps {
		deps := patch.Dependencies
		if deps == nil {
			deps = []models.ScrumDependency{}
		}
		set["dependencies"] = deps
	}
	if patch.Concern != nil {
		set["concern"] = *patch.Concern
	} else if patch.ClearConcern {
		unset["concern"] = ""
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if len(update) > 0 {
		if _, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
			return nil, fmt.Errorf("failed to update scrum: %w", err)
		}
	}

	var scrum models.Scrum
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&scrum); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to reload scrum: %w", err)
	}
	return &scrum, nil
}
