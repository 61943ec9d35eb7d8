package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/davuth/shopledger/internal/domain/models"
)

// ListSales returns posted sales, optionally restricted to a date range.
func (r *Repository) ListSales(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	cursor, err := r.db.Collection(collSales).Find(ctx, dateFilter(from, to))
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	var sales []models.Sale
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	return sales, nil
}

// ListPurchases returns posted purchases, optionally restricted to a range.
func (r *Repository) ListPurchases(ctx context.Context, from, to time.Time) ([]models.Purchase, error) {
	cursor, err := r.db.Collection(collPurchases).Find(ctx, dateFilter(from, to))
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}

	var purchases []models.Purchase
	if err := cursor.All(ctx, &purchases); err != nil {
		return nil, fmt.Errorf("decode purchases: %w", err)
	}
	return purchases, nil
}

// ListExpenses returns posted expenses, optionally restricted to a range.
func (r *Repository) ListExpenses(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	cursor, err := r.db.Collection(collExpenses).Find(ctx, dateFilter(from, to))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	var expenses []models.Expense
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	return expenses, nil
}

// dateFilter builds a bson filter on the date field. Zero times leave the
// corresponding bound open.
func dateFilter(from, to time.Time) bson.M {
	bounds := bson.M{}
	if !from.IsZero() {
		bounds["$gte"] = from
	}
	if !to.IsZero() {
		bounds["$lte"] = to
	}
	if len(bounds) == 0 {
		return bson.M{}
	}
	return bson.M{"date": bounds}
}
