package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType discriminates ledger records.
type TransactionType string

const (
	TypeSale     TransactionType = "Sale"
	TypePurchase TransactionType = "Purchase"
	TypeExpense  TransactionType = "Expense"
)

// Valid reports whether t is one of the known ledger types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeSale, TypePurchase, TypeExpense:
		return true
	}
	return false
}

// Payment methods accepted on a sale.
const (
	PaymentCOD  = "COD"
	PaymentBank = "BANK"
	PaymentWing = "WING"
)

// SaleItem is one sold line on a sale.
type SaleItem struct {
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	ProductName string             `bson:"productName" json:"productName"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Price       float64            `bson:"price" json:"price"`
	Discount    float64            `bson:"discount" json:"discount"`
}

// PurchaseItem is one restocked line on a purchase.
type PurchaseItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	ItemName  string             `bson:"itemName" json:"itemName"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Cost      float64            `bson:"cost" json:"cost"`
}

// Sale is a posted sale. Amount, Quantity and Discount are line-item
// rollups; ProductName is the comma-joined item names kept for listings.
type Sale struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DisplayID     string             `bson:"displayId" json:"displayId"`
	ClientName    string             `bson:"clientName" json:"clientName"`
	ProductName   string             `bson:"productName" json:"productName"`
	Date          time.Time          `bson:"date" json:"date"`
	Amount        float64            `bson:"amount" json:"amount"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	Discount      float64            `bson:"discount" json:"discount"`
	Items         []SaleItem         `bson:"items" json:"items"`
	DeliveryFee   float64            `bson:"deliveryFee" json:"deliveryFee"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	Type          TransactionType    `bson:"transactionType" json:"transactionType"`
}

// Purchase is a posted restock. Item is the comma-joined item names.
type Purchase struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DisplayID  string             `bson:"displayId" json:"displayId"`
	VendorName string             `bson:"vendorName" json:"vendorName"`
	Item       string             `bson:"item" json:"item"`
	Date       time.Time          `bson:"date" json:"date"`
	Amount     float64            `bson:"amount" json:"amount"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Items      []PurchaseItem     `bson:"items" json:"items"`
	Type       TransactionType    `bson:"transactionType" json:"transactionType"`
}

// Expense is a posted operating expense. VendorName is optional.
type Expense struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DisplayID   string             `bson:"displayId" json:"displayId"`
	Description string             `bson:"description" json:"description"`
	VendorName  string             `bson:"vendorName,omitempty" json:"vendorName,omitempty"`
	Date        time.Time          `bson:"date" json:"date"`
	Amount      float64            `bson:"amount" json:"amount"`
	Type        TransactionType    `bson:"transactionType" json:"transactionType"`
}

// Row converts a sale to its merged ledger representation.
func (s Sale) Row() Transaction {
	return Transaction{
		ID:            s.ID,
		DisplayID:     s.DisplayID,
		Type:          TypeSale,
		Date:          s.Date,
		Amount:        s.Amount,
		Quantity:      s.Quantity,
		ClientName:    s.ClientName,
		ProductName:   s.ProductName,
		Discount:      s.Discount,
		DeliveryFee:   s.DeliveryFee,
		PaymentMethod: s.PaymentMethod,
		SaleItems:     s.Items,
	}
}

// Row converts a purchase to its merged ledger representation.
func (p Purchase) Row() Transaction {
	return Transaction{
		ID:            p.ID,
		DisplayID:     p.DisplayID,
		Type:          TypePurchase,
		Date:          p.Date,
		Amount:        p.Amount,
		Quantity:      p.Quantity,
		VendorName:    p.VendorName,
		ProductName:   p.Item,
		PurchaseItems: p.Items,
	}
}

// Row converts an expense to its merged ledger representation.
func (e Expense) Row() Transaction {
	return Transaction{
		ID:          e.ID,
		DisplayID:   e.DisplayID,
		Type:        TypeExpense,
		Date:        e.Date,
		Amount:      e.Amount,
		VendorName:  e.VendorName,
		Description: e.Description,
	}
}

// Transaction is the merged ledger row returned by listings; exactly one of
// the type-specific field groups is populated depending on Type.
type Transaction struct {
	ID            primitive.ObjectID `json:"id"`
	DisplayID     string             `json:"displayId"`
	Type          TransactionType    `json:"transactionType"`
	Date          time.Time          `json:"date"`
	Amount        float64            `json:"amount"`
	Quantity      int                `json:"quantity,omitempty"`
	ClientName    string             `json:"clientName,omitempty"`
	VendorName    string             `json:"vendorName,omitempty"`
	Description   string             `json:"description,omitempty"`
	ProductName   string             `json:"productName,omitempty"`
	Discount      float64            `json:"discount,omitempty"`
	DeliveryFee   float64            `json:"deliveryFee,omitempty"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
	SaleItems     []SaleItem         `json:"saleItems,omitempty"`
	PurchaseItems []PurchaseItem     `json:"purchaseItems,omitempty"`
}
