package ledger

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/davuth/shopledger/internal/domain/models"
)

// saleTotals rolls sale lines up into the stored document aggregates.
// amount = Σ(price·quantity − discount) + deliveryFee.
func saleTotals(items []models.SaleItem, deliveryFee float64) (amount float64, quantity int, discount float64) {
	for _, item := range items {
		amount += item.Price*float64(item.Quantity) - item.Discount
		quantity += item.Quantity
		discount += item.Discount
	}
	amount += deliveryFee
	return amount, quantity, discount
}

// purchaseTotals rolls purchase lines up. amount = Σ(cost·quantity).
func purchaseTotals(items []models.PurchaseItem) (amount float64, quantity int) {
	for _, item := range items {
		amount += item.Cost * float64(item.Quantity)
		quantity += item.Quantity
	}
	return amount, quantity
}

// lines is the stock-relevant part of a ledger document: which direction it
// moves stock and by how much per product. Expenses have no lines.
type lines struct {
	typ       models.TransactionType
	sales     []models.SaleItem
	purchases []models.PurchaseItem
}

// stockDeltas computes the net per-product stock change of replacing prev
// with next: the previous effect reversed, then the next effect applied.
// A post passes an empty prev; a delete passes an empty next.
func stockDeltas(prev, next lines) map[primitive.ObjectID]int {
	deltas := make(map[primitive.ObjectID]int)

	switch prev.typ {
	case models.TypeSale:
		for _, item := range prev.sales {
			deltas[item.ProductID] += item.Quantity
		}
	case models.TypePurchase:
		for _, item := range prev.purchases {
			deltas[item.ProductID] -= item.Quantity
		}
	}

	switch next.typ {
	case models.TypeSale:
		for _, item := range next.sales {
			deltas[item.ProductID] -= item.Quantity
		}
	case models.TypePurchase:
		for _, item := range next.purchases {
			deltas[item.ProductID] += item.Quantity
		}
	}

	for id, d := range deltas {
		if d == 0 {
			delete(deltas, id)
		}
	}
	return deltas
}

func joinSaleNames(items []models.SaleItem) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.ProductName)
	}
	return strings.Join(names, ", ")
}

func joinPurchaseNames(items []models.PurchaseItem) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.ItemName)
	}
	return strings.Join(names, ", ")
}
