package opportunityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"policyangel/database"
	"policyangel/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoSnapshot is returned when no opportunity snapshot has been stored yet.
var ErrNoSnapshot = errors.New("no opportunity snapshot stored")

// OpportunityRepository stores opportunity snapshots supplied by the
// upstream data source and serves the latest one to the scheduler.
type OpportunityRepository interface {
	SaveSnapshot(ctx context.Context, data models.OpportunityData) error
	GetLatest(ctx context.Context) (*models.OpportunitySnapshot, error)
}

// MongoOpportunityRepo implements OpportunityRepository using MongoDB.
type MongoOpportunityRepo struct {
	coll *mongo.Collection
}

// NewMongoOpportunityRepo creates a new OpportunityRepository using MongoDB.
func NewMongoOpportunityRepo() OpportunityRepository {
	coll := database.Collection("opportunity_snapshots")
	repo := &MongoOpportunityRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoOpportunityRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "fetchedAt", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// SaveSnapshot appends a new snapshot stamped with the current time.
func (r *MongoOpportunityRepo) SaveSnapshot(ctx context.Context, data models.OpportunityData) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snap := models.OpportunitySnapshot{
		Data:      data,
		FetchedAt: time.Now(),
	}
	if _, err := r.coll.InsertOne(ctx, snap); err != nil {
		return fmt.Errorf("failed to save opportunity snapshot: %w", err)
	}
	return nil
}

// GetLatest returns the most recently stored snapshot.
func (r *MongoOpportunityRepo) GetLatest(ctx context.Context) (*models.OpportunitySnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "fetchedAt", Value: -1}})
	var snap models.OpportunitySnapshot
	err := r.coll.FindOne(ctx, bson.M{}, opts).Decode(&snap)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load opportunity snapshot: %w", err)
	}
	return &snap, nil
}
