package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product is a catalog entry. Stock is only mutated by posted ledger
// transactions and their edits/deletions.
type Product struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Cost     float64            `bson:"cost" json:"cost"`
	Stock    int                `bson:"stock" json:"stock"`
	LowStock int                `bson:"lowStock,omitempty" json:"lowStock,omitempty"`
}

// LowOnStock reports whether the product sits at or below its low-stock mark.
func (p Product) LowOnStock() bool {
	return p.LowStock > 0 && p.Stock <= p.LowStock
}
