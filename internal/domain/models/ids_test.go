package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func objectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err)
	return id
}

func TestClientDisplayID(t *testing.T) {
	id := objectID(t, "64af3e2b9c1d4f0012345678")
	assert.Equal(t, "CN-64AF", ClientDisplayID(id))
}

func TestVendorDisplayID(t *testing.T) {
	id := objectID(t, "a1b2c3d4e5f6a7b8c9d0e1f2")
	assert.Equal(t, "VD-A1B2", VendorDisplayID(id))
}

func TestProductDisplayID(t *testing.T) {
	id := objectID(t, "7f8e9dab0012345678901234")
	assert.Equal(t, "PD-7F8", ProductDisplayID(id))
}

func TestTransactionDisplayID(t *testing.T) {
	date := time.Date(2026, 8, 14, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "08-14-01", TransactionDisplayID(date, 1))
	assert.Equal(t, "08-14-12", TransactionDisplayID(date, 12))
	assert.Equal(t, "12-03-05", TransactionDisplayID(time.Date(2026, 12, 3, 0, 0, 0, 0, time.UTC), 5))
}

func TestCounterKey(t *testing.T) {
	date := time.Date(2026, 8, 14, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-14", CounterKey(date))
}

func TestTransactionTypeValid(t *testing.T) {
	assert.True(t, TypeSale.Valid())
	assert.True(t, TypePurchase.Valid())
	assert.True(t, TypeExpense.Valid())
	assert.False(t, TransactionType("Refund").Valid())
	assert.False(t, TransactionType("").Valid())
}

func TestLowOnStock(t *testing.T) {
	assert.True(t, Product{Stock: 3, LowStock: 5}.LowOnStock())
	assert.True(t, Product{Stock: 5, LowStock: 5}.LowOnStock())
	assert.False(t, Product{Stock: 6, LowStock: 5}.LowOnStock())
	assert.False(t, Product{Stock: 0, LowStock: 0}.LowOnStock(), "zero threshold disables the alert")
}
