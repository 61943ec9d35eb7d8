package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Short reference codes shown in tables, derived from the document id hex.

// ClientDisplayID returns the CN-XXXX reference for a client.
func ClientDisplayID(id primitive.ObjectID) string {
	return "CN-" + idPrefix(id, 4)
}

// VendorDisplayID returns the VD-XXXX reference for a vendor.
func VendorDisplayID(id primitive.ObjectID) string {
	return "VD-" + idPrefix(id, 4)
}

// ProductDisplayID returns the PD-XXX reference for a product.
func ProductDisplayID(id primitive.ObjectID) string {
	return "PD-" + fmt.Sprintf("%03s", idPrefix(id, 3))
}

// TransactionDisplayID builds the MM-DD-NN id for the nth post of a day.
func TransactionDisplayID(date time.Time, count int) string {
	return fmt.Sprintf("%s-%02d", date.Format("01-02"), count)
}

// CounterKey returns the per-day counter document id for a date.
func CounterKey(date time.Time) string {
	return date.Format("2006-01-02")
}

func idPrefix(id primitive.ObjectID, n int) string {
	hex := id.Hex()
	if len(hex) > n {
		hex = hex[:n]
	}
	return strings.ToUpper(hex)
}
