package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names are the wire contract shared with earlier versions of
// the bookkeeping app; do not rename them.
const (
	collProducts   = "products"
	collClients    = "clients"
	collVendors    = "vendors"
	collSales      = "sales"
	collPurchases  = "purchases"
	collExpenses   = "expenses"
	collActivities = "recentActivities"
	collCounters   = "counters"
	collSummaries  = "dailySummaries"
)

// ErrNotFound is returned when a referenced document does not exist. It
// aliases the driver's sentinel so FindOne errors match it directly.
var ErrNotFound = mongo.ErrNoDocuments

// Repository is the MongoDB adapter for every collection the app owns.
type Repository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, uri, dbName string) (*Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{client: client, db: client.Database(dbName)}, nil
}

// EnsureIndexes creates the indexes the app relies on: the unique client
// phone constraint and the activity-feed sort index.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(collClients).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create clients phone index: %w", err)
	}

	_, err = r.db.Collection(collActivities).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "time", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create activities time index: %w", err)
	}

	return nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
