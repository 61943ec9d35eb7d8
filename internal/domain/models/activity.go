package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityType classifies feed entries.
type ActivityType string

const (
	ActivitySale     ActivityType = "sale"
	ActivityPurchase ActivityType = "purchase"
	ActivityExpense  ActivityType = "expense"
	ActivityClient   ActivityType = "client"
	ActivityProduct  ActivityType = "product"
)

// RecentActivity is one append-only feed entry. Readers cap the feed with a
// limited, time-descending query rather than trimming the collection.
type RecentActivity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type        ActivityType       `bson:"type" json:"type"`
	Description string             `bson:"description" json:"description"`
	Time        time.Time          `bson:"time" json:"time"`
	Person      string             `bson:"person" json:"person"`
}

// Counter is the per-day sequence document behind human-readable display
// ids. Keyed by the transaction date formatted as yyyy-MM-dd.
type Counter struct {
	ID    string `bson:"_id" json:"id"`
	Count int    `bson:"count" json:"count"`
}
