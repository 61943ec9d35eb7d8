package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/davuth/shopledger/internal/domain/models"
)

func TestSaleTotals(t *testing.T) {
	items := []models.SaleItem{
		{ProductName: "Rice", Quantity: 2, Price: 10, Discount: 1},
		{ProductName: "Oil", Quantity: 3, Price: 4, Discount: 0.5},
	}

	amount, quantity, discount := saleTotals(items, 3)

	// (2*10 - 1) + (3*4 - 0.5) + 3 delivery.
	assert.Equal(t, 33.5, amount)
	assert.Equal(t, 5, quantity)
	assert.Equal(t, 1.5, discount)
}

func TestSaleTotalsEmpty(t *testing.T) {
	amount, quantity, discount := saleTotals(nil, 0)
	assert.Zero(t, amount)
	assert.Zero(t, quantity)
	assert.Zero(t, discount)
}

func TestPurchaseTotals(t *testing.T) {
	items := []models.PurchaseItem{
		{ItemName: "Rice", Quantity: 10, Cost: 6},
		{ItemName: "Oil", Quantity: 5, Cost: 2},
	}

	amount, quantity := purchaseTotals(items)

	assert.Equal(t, 70.0, amount)
	assert.Equal(t, 15, quantity)
}

func TestStockDeltas(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	tests := []struct {
		name string
		prev lines
		next lines
		want map[primitive.ObjectID]int
	}{
		{
			name: "new sale subtracts",
			next: lines{typ: models.TypeSale, sales: []models.SaleItem{{ProductID: a, Quantity: 2}}},
			want: map[primitive.ObjectID]int{a: -2},
		},
		{
			name: "new purchase adds",
			next: lines{typ: models.TypePurchase, purchases: []models.PurchaseItem{{ProductID: a, Quantity: 5}}},
			want: map[primitive.ObjectID]int{a: 5},
		},
		{
			name: "deleted sale restores",
			prev: lines{typ: models.TypeSale, sales: []models.SaleItem{{ProductID: a, Quantity: 2}}},
			want: map[primitive.ObjectID]int{a: 2},
		},
		{
			name: "deleted purchase removes",
			prev: lines{typ: models.TypePurchase, purchases: []models.PurchaseItem{{ProductID: a, Quantity: 5}}},
			want: map[primitive.ObjectID]int{a: -5},
		},
		{
			name: "edit only moves the difference",
			prev: lines{typ: models.TypeSale, sales: []models.SaleItem{{ProductID: a, Quantity: 2}}},
			next: lines{typ: models.TypeSale, sales: []models.SaleItem{{ProductID: a, Quantity: 5}}},
			want: map[primitive.ObjectID]int{a: -3},
		},
		{
			name: "unchanged lines cancel out",
			prev: lines{typ: models.TypeSale, sales: []models.SaleItem{{ProductID: a, Quantity: 2}}},
			next: lines{typ: models.TypeSale, sales: []models.SaleItem{{ProductID: a, Quantity: 2}}},
			want: map[primitive.ObjectID]int{},
		},
		{
			name: "edit swapping products",
			prev: lines{typ: models.TypeSale, sales: []models.SaleItem{{ProductID: a, Quantity: 2}}},
			next: lines{typ: models.TypeSale, sales: []models.SaleItem{{ProductID: b, Quantity: 4}}},
			want: map[primitive.ObjectID]int{a: 2, b: -4},
		},
		{
			name: "expenses never move stock",
			prev: lines{typ: models.TypeExpense},
			next: lines{typ: models.TypeExpense},
			want: map[primitive.ObjectID]int{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stockDeltas(tc.prev, tc.next))
		})
	}
}

func TestJoinNames(t *testing.T) {
	sales := []models.SaleItem{{ProductName: "Rice"}, {ProductName: "Oil"}}
	assert.Equal(t, "Rice, Oil", joinSaleNames(sales))

	purchases := []models.PurchaseItem{{ItemName: "Rice"}}
	assert.Equal(t, "Rice", joinPurchaseNames(purchases))
}
