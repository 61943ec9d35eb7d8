package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/davuth/shopledger/internal/domain/models"
)

// RecentActivities returns the newest feed entries, capped at limit.
func (r *Repository) RecentActivities(ctx context.Context, limit int64) ([]models.RecentActivity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "time", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.db.Collection(collActivities).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	var activities []models.RecentActivity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return activities, nil
}

// AppendActivity writes one feed entry outside any ledger transaction, used
// for client and product lifecycle events.
func (r *Repository) AppendActivity(ctx context.Context, activity models.RecentActivity) error {
	activity.ID = primitive.NewObjectID()
	if _, err := r.db.Collection(collActivities).InsertOne(ctx, activity); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// SaveDailySummary stores a nightly ledger rollup.
func (r *Repository) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	if _, err := r.db.Collection(collSummaries).InsertOne(ctx, summary); err != nil {
		return fmt.Errorf("insert daily summary: %w", err)
	}
	return nil
}
