package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/davuth/shopledger/internal/domain/models"
)

// ListClients returns all clients sorted by name.
func (r *Repository) ListClients(ctx context.Context) ([]models.Client, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.db.Collection(collClients).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	var clients []models.Client
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}
	return clients, nil
}

// CountClientsByPhone reports how many clients carry the given phone.
func (r *Repository) CountClientsByPhone(ctx context.Context, phone string) (int64, error) {
	count, err := r.db.Collection(collClients).CountDocuments(ctx, bson.M{"phone": phone})
	if err != nil {
		return 0, fmt.Errorf("count clients by phone: %w", err)
	}
	return count, nil
}

// CreateClient inserts a new client. The unique phone index rejects
// duplicates that slip past the caller's pre-check.
func (r *Repository) CreateClient(ctx context.Context, client *models.Client) error {
	client.ID = primitive.NewObjectID()
	if _, err := r.db.Collection(collClients).InsertOne(ctx, client); err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// UpdateClient rewrites the editable client fields.
func (r *Repository) UpdateClient(ctx context.Context, client *models.Client) error {
	update := bson.M{"$set": bson.M{
		"name":     client.Name,
		"phone":    client.Phone,
		"province": client.Province,
		"location": client.Location,
	}}
	res, err := r.db.Collection(collClients).UpdateByID(ctx, client.ID, update)
	if err != nil {
		return fmt.Errorf("update client %s: %w", client.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update client %s: %w", client.ID.Hex(), ErrNotFound)
	}
	return nil
}

// DeleteClient removes a client.
func (r *Repository) DeleteClient(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.db.Collection(collClients).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete client %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete client %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}
