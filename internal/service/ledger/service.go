package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/davuth/shopledger/internal/domain/models"
)

// ErrInvalidInput indicates the posting payload is structurally unusable.
var ErrInvalidInput = errors.New("invalid transaction data")

// ErrNotFound indicates the referenced ledger document does not exist.
var ErrNotFound = errors.New("transaction not found")

// ErrProductNotFound indicates a line references a missing product.
var ErrProductNotFound = errors.New("product not found")

// ErrClientNotFound indicates the sale references a missing client.
var ErrClientNotFound = errors.New("client not found")

// ErrVendorNotFound indicates the purchase references a missing vendor.
var ErrVendorNotFound = errors.New("vendor not found")

// InsufficientStockError reports a write that would drive stock negative.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: only %d left", e.ProductName, e.Available)
}

// Store runs a function inside one atomic transaction against the document
// store. Either every write issued through the Tx commits, or none do; a
// conflicting concurrent commit aborts and surfaces as an error.
type Store interface {
	RunAtomic(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of reads and writes a posting workflow may issue inside one
// atomic transaction.
type Tx interface {
	CounterCount(key string) (int, error)
	SetCounter(key string, count int) error

	Product(id primitive.ObjectID) (*models.Product, error)
	SetProductStock(id primitive.ObjectID, stock int) error

	Client(id primitive.ObjectID) (*models.Client, error)
	Vendor(id primitive.ObjectID) (*models.Vendor, error)
	BumpVendorTotals(id primitive.ObjectID, orders int, amount float64) error

	Sale(id primitive.ObjectID) (*models.Sale, error)
	Purchase(id primitive.ObjectID) (*models.Purchase, error)
	Expense(id primitive.ObjectID) (*models.Expense, error)

	InsertSale(s *models.Sale) error
	InsertPurchase(p *models.Purchase) error
	InsertExpense(e *models.Expense) error

	UpdateSale(s *models.Sale) error
	UpdatePurchase(p *models.Purchase) error
	UpdateExpense(e *models.Expense) error

	DeleteSale(id primitive.ObjectID) error
	DeletePurchase(id primitive.ObjectID) error
	DeleteExpense(id primitive.ObjectID) error

	AppendActivity(a models.RecentActivity) error
}

// Notifier pushes low-stock alerts after a committed sale.
type Notifier interface {
	NotifyLowStock(ctx context.Context, product models.Product)
}

// PostInput carries everything a post or edit needs. The fields that matter
// depend on Type; the rest are ignored.
type PostInput struct {
	Type models.TransactionType
	Date time.Time

	// Sale
	ClientID      primitive.ObjectID
	SaleItems     []models.SaleItem
	DeliveryFee   float64
	PaymentMethod string

	// Purchase
	VendorID      primitive.ObjectID
	PurchaseItems []models.PurchaseItem

	// Expense
	Description string
	Amount      float64
	// Optional expense vendor.
	ExpenseVendorID primitive.ObjectID
}

// Service implements the transaction-posting workflow: every post, edit or
// delete keeps product stock, the per-day counter and the activity feed
// consistent inside a single atomic store transaction.
type Service struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a posting service. The notifier may be nil.
func NewService(store Store, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, notifier: notifier, logger: logger, now: time.Now}
}

// Post atomically appends a ledger record, adjusts stock, advances the
// per-day counter and appends an activity entry. It returns the stored
// record as a merged transaction row.
func (s *Service) Post(ctx context.Context, in PostInput) (*models.Transaction, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	var (
		posted   models.Transaction
		lowStock []models.Product
	)

	err := s.store.RunAtomic(ctx, func(tx Tx) error {
		lowStock = lowStock[:0]

		counterKey := models.CounterKey(date)
		count, err := tx.CounterCount(counterKey)
		if err != nil {
			return fmt.Errorf("read counter %s: %w", counterKey, err)
		}
		newCount := count + 1
		displayID := models.TransactionDisplayID(date, newCount)

		switch in.Type {
		case models.TypeSale:
			client, err := tx.Client(in.ClientID)
			if err != nil {
				return err
			}

			for i, item := range in.SaleItems {
				product, err := tx.Product(item.ProductID)
				if err != nil {
					return err
				}
				if item.Quantity > product.Stock {
					return &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
				}
				in.SaleItems[i].ProductName = product.Name
				product.Stock -= item.Quantity
				if err := tx.SetProductStock(product.ID, product.Stock); err != nil {
					return fmt.Errorf("update stock for %s: %w", product.Name, err)
				}
				if product.LowOnStock() {
					lowStock = append(lowStock, *product)
				}
			}

			amount, quantity, discount := saleTotals(in.SaleItems, in.DeliveryFee)
			sale := &models.Sale{
				DisplayID:     displayID,
				ClientName:    client.Name,
				ProductName:   joinSaleNames(in.SaleItems),
				Date:          date,
				Amount:        amount,
				Quantity:      quantity,
				Discount:      discount,
				Items:         in.SaleItems,
				DeliveryFee:   in.DeliveryFee,
				PaymentMethod: in.PaymentMethod,
				Type:          models.TypeSale,
			}
			if err := tx.InsertSale(sale); err != nil {
				return fmt.Errorf("insert sale: %w", err)
			}
			if err := tx.AppendActivity(models.RecentActivity{
				Type:        models.ActivitySale,
				Description: fmt.Sprintf("New sale of $%.2f to %s", amount, client.Name),
				Time:        s.now(),
				Person:      client.Name,
			}); err != nil {
				return fmt.Errorf("append activity: %w", err)
			}
			posted = sale.Row()

		case models.TypePurchase:
			vendor, err := tx.Vendor(in.VendorID)
			if err != nil {
				return err
			}

			for i, item := range in.PurchaseItems {
				product, err := tx.Product(item.ProductID)
				if err != nil {
					return err
				}
				in.PurchaseItems[i].ItemName = product.Name
				product.Stock += item.Quantity
				if err := tx.SetProductStock(product.ID, product.Stock); err != nil {
					return fmt.Errorf("update stock for %s: %w", product.Name, err)
				}
			}

			amount, quantity := purchaseTotals(in.PurchaseItems)
			if err := tx.BumpVendorTotals(vendor.ID, 1, amount); err != nil {
				return fmt.Errorf("update vendor totals: %w", err)
			}

			purchase := &models.Purchase{
				DisplayID:  displayID,
				VendorName: vendor.Name,
				Item:       joinPurchaseNames(in.PurchaseItems),
				Date:       date,
				Amount:     amount,
				Quantity:   quantity,
				Items:      in.PurchaseItems,
				Type:       models.TypePurchase,
			}
			if err := tx.InsertPurchase(purchase); err != nil {
				return fmt.Errorf("insert purchase: %w", err)
			}
			if err := tx.AppendActivity(models.RecentActivity{
				Type:        models.ActivityPurchase,
				Description: fmt.Sprintf("New purchase of $%.2f from %s", amount, vendor.Name),
				Time:        s.now(),
				Person:      vendor.Name,
			}); err != nil {
				return fmt.Errorf("append activity: %w", err)
			}
			posted = purchase.Row()

		case models.TypeExpense:
			vendorName := ""
			if !in.ExpenseVendorID.IsZero() {
				vendor, err := tx.Vendor(in.ExpenseVendorID)
				if err != nil {
					return err
				}
				vendorName = vendor.Name
			}

			expense := &models.Expense{
				DisplayID:   displayID,
				Description: in.Description,
				VendorName:  vendorName,
				Date:        date,
				Amount:      in.Amount,
				Type:        models.TypeExpense,
			}
			if err := tx.InsertExpense(expense); err != nil {
				return fmt.Errorf("insert expense: %w", err)
			}
			if err := tx.AppendActivity(models.RecentActivity{
				Type:        models.ActivityExpense,
				Description: fmt.Sprintf("Expense: %s for $%.2f", in.Description, in.Amount),
				Time:        s.now(),
				Person:      "Internal",
			}); err != nil {
				return fmt.Errorf("append activity: %w", err)
			}
			posted = expense.Row()
		}

		return tx.SetCounter(counterKey, newCount)
	})
	if err != nil {
		return nil, err
	}

	s.notifyLowStock(ctx, lowStock)
	return &posted, nil
}

// Edit reconciles stock between the stored and the submitted line items and
// rewrites the ledger document, atomically. The transaction keeps its type
// and display id.
func (s *Service) Edit(ctx context.Context, id primitive.ObjectID, in PostInput) error {
	if err := validateInput(in); err != nil {
		return err
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	var lowStock []models.Product

	err := s.store.RunAtomic(ctx, func(tx Tx) error {
		lowStock = lowStock[:0]

		prev, displayID, err := loadLines(tx, id, in.Type)
		if err != nil {
			return err
		}

		next := lines{typ: in.Type, sales: in.SaleItems, purchases: in.PurchaseItems}
		if err := s.applyDeltas(tx, stockDeltas(prev, next), &lowStock); err != nil {
			return err
		}

		switch in.Type {
		case models.TypeSale:
			client, err := tx.Client(in.ClientID)
			if err != nil {
				return err
			}
			for i, item := range in.SaleItems {
				if item.ProductName != "" {
					continue
				}
				product, err := tx.Product(item.ProductID)
				if err != nil {
					return err
				}
				in.SaleItems[i].ProductName = product.Name
			}
			amount, quantity, discount := saleTotals(in.SaleItems, in.DeliveryFee)
			return tx.UpdateSale(&models.Sale{
				ID:            id,
				DisplayID:     displayID,
				ClientName:    client.Name,
				ProductName:   joinSaleNames(in.SaleItems),
				Date:          date,
				Amount:        amount,
				Quantity:      quantity,
				Discount:      discount,
				Items:         in.SaleItems,
				DeliveryFee:   in.DeliveryFee,
				PaymentMethod: in.PaymentMethod,
				Type:          models.TypeSale,
			})

		case models.TypePurchase:
			vendor, err := tx.Vendor(in.VendorID)
			if err != nil {
				return err
			}
			for i, item := range in.PurchaseItems {
				if item.ItemName != "" {
					continue
				}
				product, err := tx.Product(item.ProductID)
				if err != nil {
					return err
				}
				in.PurchaseItems[i].ItemName = product.Name
			}
			amount, quantity := purchaseTotals(in.PurchaseItems)
			return tx.UpdatePurchase(&models.Purchase{
				ID:         id,
				DisplayID:  displayID,
				VendorName: vendor.Name,
				Item:       joinPurchaseNames(in.PurchaseItems),
				Date:       date,
				Amount:     amount,
				Quantity:   quantity,
				Items:      in.PurchaseItems,
				Type:       models.TypePurchase,
			})

		default:
			vendorName := ""
			if !in.ExpenseVendorID.IsZero() {
				vendor, err := tx.Vendor(in.ExpenseVendorID)
				if err != nil {
					return err
				}
				vendorName = vendor.Name
			}
			return tx.UpdateExpense(&models.Expense{
				ID:          id,
				DisplayID:   displayID,
				Description: in.Description,
				VendorName:  vendorName,
				Date:        date,
				Amount:      in.Amount,
				Type:        models.TypeExpense,
			})
		}
	})
	if err != nil {
		return err
	}

	s.notifyLowStock(ctx, lowStock)
	return nil
}

// Delete reverses the stored transaction's stock effect and removes the
// ledger document, atomically.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID, typ models.TransactionType) error {
	if !typ.Valid() {
		return ErrInvalidInput
	}

	return s.store.RunAtomic(ctx, func(tx Tx) error {
		prev, _, err := loadLines(tx, id, typ)
		if err != nil {
			return err
		}

		if err := s.applyDeltas(tx, stockDeltas(prev, lines{}), nil); err != nil {
			return err
		}

		switch typ {
		case models.TypeSale:
			return tx.DeleteSale(id)
		case models.TypePurchase:
			return tx.DeletePurchase(id)
		default:
			return tx.DeleteExpense(id)
		}
	})
}

// applyDeltas validates and writes per-product stock changes. Every
// affected product must stay non-negative or the whole transaction aborts.
func (s *Service) applyDeltas(tx Tx, deltas map[primitive.ObjectID]int, lowStock *[]models.Product) error {
	for productID, delta := range deltas {
		product, err := tx.Product(productID)
		if err != nil {
			return err
		}
		newStock := product.Stock + delta
		if newStock < 0 {
			return &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
		}
		if err := tx.SetProductStock(productID, newStock); err != nil {
			return fmt.Errorf("update stock for %s: %w", product.Name, err)
		}
		product.Stock = newStock
		if lowStock != nil && delta < 0 && product.LowOnStock() {
			*lowStock = append(*lowStock, *product)
		}
	}
	return nil
}

func (s *Service) notifyLowStock(ctx context.Context, products []models.Product) {
	if s.notifier == nil || len(products) == 0 {
		return
	}
	for _, product := range products {
		s.logger.Info("product low on stock",
			zap.String("product", product.Name),
			zap.Int("stock", product.Stock),
			zap.Int("low_stock", product.LowStock))
		go s.notifier.NotifyLowStock(context.WithoutCancel(ctx), product)
	}
}

// loadLines reads the stored document of the given type and returns its
// stock-relevant lines plus its display id.
func loadLines(tx Tx, id primitive.ObjectID, typ models.TransactionType) (lines, string, error) {
	switch typ {
	case models.TypeSale:
		sale, err := tx.Sale(id)
		if err != nil {
			return lines{}, "", err
		}
		return lines{typ: models.TypeSale, sales: sale.Items}, sale.DisplayID, nil
	case models.TypePurchase:
		purchase, err := tx.Purchase(id)
		if err != nil {
			return lines{}, "", err
		}
		return lines{typ: models.TypePurchase, purchases: purchase.Items}, purchase.DisplayID, nil
	default:
		expense, err := tx.Expense(id)
		if err != nil {
			return lines{}, "", err
		}
		return lines{typ: models.TypeExpense}, expense.DisplayID, nil
	}
}

func validateInput(in PostInput) error {
	switch in.Type {
	case models.TypeSale:
		if in.ClientID.IsZero() || len(in.SaleItems) == 0 {
			return ErrInvalidInput
		}
		for _, item := range in.SaleItems {
			if item.Quantity <= 0 || item.ProductID.IsZero() {
				return ErrInvalidInput
			}
		}
	case models.TypePurchase:
		if in.VendorID.IsZero() || len(in.PurchaseItems) == 0 {
			return ErrInvalidInput
		}
		for _, item := range in.PurchaseItems {
			if item.Quantity <= 0 || item.ProductID.IsZero() {
				return ErrInvalidInput
			}
		}
	case models.TypeExpense:
		if in.Description == "" || in.Amount <= 0 {
			return ErrInvalidInput
		}
	default:
		return ErrInvalidInput
	}
	return nil
}
