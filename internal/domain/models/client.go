package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Client is a buyer. TotalSpent and Orders are stored for wire
// compatibility but views recompute them from the sales ledger.
type Client struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Phone      string             `bson:"phone" json:"phone"`
	Province   string             `bson:"province" json:"province"`
	Location   string             `bson:"location" json:"location"`
	TotalSpent float64            `bson:"totalSpent" json:"totalSpent"`
	Orders     int                `bson:"orders" json:"orders"`
}

// Vendor is a supplier. Orders and TotalAmount are denormalized aggregates
// bumped by each posted purchase.
type Vendor struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	ContactPerson string             `bson:"contactPerson" json:"contactPerson"`
	Email         string             `bson:"email" json:"email"`
	Category      string             `bson:"category" json:"category"`
	Phone         string             `bson:"phone" json:"phone"`
	Location      string             `bson:"location" json:"location"`
	Orders        int                `bson:"orders" json:"orders"`
	TotalAmount   float64            `bson:"totalAmount" json:"totalAmount"`
}
