package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/davuth/shopledger/internal/domain/models"
)

// ListVendors returns all vendors sorted by name.
func (r *Repository) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.db.Collection(collVendors).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}

	var vendors []models.Vendor
	if err := cursor.All(ctx, &vendors); err != nil {
		return nil, fmt.Errorf("decode vendors: %w", err)
	}
	return vendors, nil
}

// CreateVendor inserts a new vendor with zeroed purchase aggregates.
func (r *Repository) CreateVendor(ctx context.Context, vendor *models.Vendor) error {
	vendor.ID = primitive.NewObjectID()
	if _, err := r.db.Collection(collVendors).InsertOne(ctx, vendor); err != nil {
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// UpdateVendor rewrites the editable vendor fields, leaving the purchase
// aggregates to the ledger poster.
func (r *Repository) UpdateVendor(ctx context.Context, vendor *models.Vendor) error {
	update := bson.M{"$set": bson.M{
		"name":          vendor.Name,
		"contactPerson": vendor.ContactPerson,
		"email":         vendor.Email,
		"category":      vendor.Category,
		"phone":         vendor.Phone,
		"location":      vendor.Location,
	}}
	res, err := r.db.Collection(collVendors).UpdateByID(ctx, vendor.ID, update)
	if err != nil {
		return fmt.Errorf("update vendor %s: %w", vendor.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update vendor %s: %w", vendor.ID.Hex(), ErrNotFound)
	}
	return nil
}

// DeleteVendor removes a vendor.
func (r *Repository) DeleteVendor(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.db.Collection(collVendors).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete vendor %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete vendor %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}
