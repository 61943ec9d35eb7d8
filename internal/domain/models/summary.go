package models

import "time"

// DailySummary is the nightly rollup of one day's ledger, stored for
// dashboards. Derived data; it can always be rebuilt from the ledger.
type DailySummary struct {
	Date             time.Time `bson:"date" json:"date"`
	TotalSales       float64   `bson:"total_sales" json:"total_sales"`
	TotalPurchases   float64   `bson:"total_purchases" json:"total_purchases"`
	TotalExpenses    float64   `bson:"total_expenses" json:"total_expenses"`
	COGS             float64   `bson:"cogs" json:"cogs"`
	Profit           float64   `bson:"profit" json:"profit"`
	TransactionCount int       `bson:"transaction_count" json:"transaction_count"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}
