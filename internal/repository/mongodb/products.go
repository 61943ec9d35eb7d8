package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/davuth/shopledger/internal/domain/models"
)

// ListProducts returns the catalog sorted by name.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.db.Collection(collProducts).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// GetProduct fetches one product by id.
func (r *Repository) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.db.Collection(collProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id.Hex(), err)
	}
	return &product, nil
}

// CreateProduct inserts a new catalog entry and returns it with its id set.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	if _, err := r.db.Collection(collProducts).InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// UpdateProduct rewrites the mutable catalog fields. Stock is deliberately
// excluded; only posted transactions move stock.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	update := bson.M{"$set": bson.M{
		"name":     product.Name,
		"price":    product.Price,
		"cost":     product.Cost,
		"lowStock": product.LowStock,
	}}
	res, err := r.db.Collection(collProducts).UpdateByID(ctx, product.ID, update)
	if err != nil {
		return fmt.Errorf("update product %s: %w", product.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update product %s: %w", product.ID.Hex(), ErrNotFound)
	}
	return nil
}

// DeleteProduct removes a catalog entry.
func (r *Repository) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.db.Collection(collProducts).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete product %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}
