package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/davuth/shopledger/internal/domain/models"
	"github.com/davuth/shopledger/internal/service/ledger"
)

// memStore is an in-memory stand-in for the document store. RunAtomic hands
// the callback a working copy and only publishes it when the callback
// succeeds, mirroring commit-on-success transaction semantics.
type memStore struct {
	products   map[primitive.ObjectID]models.Product
	clients    map[primitive.ObjectID]models.Client
	vendors    map[primitive.ObjectID]models.Vendor
	sales      map[primitive.ObjectID]models.Sale
	purchases  map[primitive.ObjectID]models.Purchase
	expenses   map[primitive.ObjectID]models.Expense
	counters   map[string]int
	activities []models.RecentActivity
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[primitive.ObjectID]models.Product{},
		clients:   map[primitive.ObjectID]models.Client{},
		vendors:   map[primitive.ObjectID]models.Vendor{},
		sales:     map[primitive.ObjectID]models.Sale{},
		purchases: map[primitive.ObjectID]models.Purchase{},
		expenses:  map[primitive.ObjectID]models.Expense{},
		counters:  map[string]int{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.vendors {
		c.vendors[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.purchases {
		c.purchases[k] = v
	}
	for k, v := range s.expenses {
		c.expenses[k] = v
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	c.activities = append(c.activities, s.activities...)
	return c
}

func (s *memStore) RunAtomic(ctx context.Context, fn func(tx ledger.Tx) error) error {
	work := s.clone()
	if err := fn(&memTx{store: work}); err != nil {
		return err
	}
	*s = *work
	return nil
}

type memTx struct {
	store *memStore
}

func (t *memTx) CounterCount(key string) (int, error) {
	return t.store.counters[key], nil
}

func (t *memTx) SetCounter(key string, count int) error {
	t.store.counters[key] = count
	return nil
}

func (t *memTx) Product(id primitive.ObjectID) (*models.Product, error) {
	p, ok := t.store.products[id]
	if !ok {
		return nil, ledger.ErrProductNotFound
	}
	return &p, nil
}

func (t *memTx) SetProductStock(id primitive.ObjectID, stock int) error {
	p, ok := t.store.products[id]
	if !ok {
		return ledger.ErrProductNotFound
	}
	p.Stock = stock
	t.store.products[id] = p
	return nil
}

func (t *memTx) Client(id primitive.ObjectID) (*models.Client, error) {
	c, ok := t.store.clients[id]
	if !ok {
		return nil, ledger.ErrClientNotFound
	}
	return &c, nil
}

func (t *memTx) Vendor(id primitive.ObjectID) (*models.Vendor, error) {
	v, ok := t.store.vendors[id]
	if !ok {
		return nil, ledger.ErrVendorNotFound
	}
	return &v, nil
}

func (t *memTx) BumpVendorTotals(id primitive.ObjectID, orders int, amount float64) error {
	v, ok := t.store.vendors[id]
	if !ok {
		return ledger.ErrVendorNotFound
	}
	v.Orders += orders
	v.TotalAmount += amount
	t.store.vendors[id] = v
	return nil
}

func (t *memTx) Sale(id primitive.ObjectID) (*models.Sale, error) {
	s, ok := t.store.sales[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return &s, nil
}

func (t *memTx) Purchase(id primitive.ObjectID) (*models.Purchase, error) {
	p, ok := t.store.purchases[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return &p, nil
}

func (t *memTx) Expense(id primitive.ObjectID) (*models.Expense, error) {
	e, ok := t.store.expenses[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return &e, nil
}

func (t *memTx) InsertSale(s *models.Sale) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	t.store.sales[s.ID] = *s
	return nil
}

func (t *memTx) InsertPurchase(p *models.Purchase) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	t.store.purchases[p.ID] = *p
	return nil
}

func (t *memTx) InsertExpense(e *models.Expense) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	t.store.expenses[e.ID] = *e
	return nil
}

func (t *memTx) UpdateSale(s *models.Sale) error {
	if _, ok := t.store.sales[s.ID]; !ok {
		return ledger.ErrNotFound
	}
	t.store.sales[s.ID] = *s
	return nil
}

func (t *memTx) UpdatePurchase(p *models.Purchase) error {
	if _, ok := t.store.purchases[p.ID]; !ok {
		return ledger.ErrNotFound
	}
	t.store.purchases[p.ID] = *p
	return nil
}

func (t *memTx) UpdateExpense(e *models.Expense) error {
	if _, ok := t.store.expenses[e.ID]; !ok {
		return ledger.ErrNotFound
	}
	t.store.expenses[e.ID] = *e
	return nil
}

func (t *memTx) DeleteSale(id primitive.ObjectID) error {
	if _, ok := t.store.sales[id]; !ok {
		return ledger.ErrNotFound
	}
	delete(t.store.sales, id)
	return nil
}

func (t *memTx) DeletePurchase(id primitive.ObjectID) error {
	if _, ok := t.store.purchases[id]; !ok {
		return ledger.ErrNotFound
	}
	delete(t.store.purchases, id)
	return nil
}

func (t *memTx) DeleteExpense(id primitive.ObjectID) error {
	if _, ok := t.store.expenses[id]; !ok {
		return ledger.ErrNotFound
	}
	delete(t.store.expenses, id)
	return nil
}

func (t *memTx) AppendActivity(a models.RecentActivity) error {
	t.store.activities = append(t.store.activities, a)
	return nil
}

type capturedAlert struct {
	product models.Product
}

type chanNotifier struct {
	alerts chan capturedAlert
}

func (n *chanNotifier) NotifyLowStock(ctx context.Context, product models.Product) {
	n.alerts <- capturedAlert{product: product}
}

type fixture struct {
	store   *memStore
	svc     *ledger.Service
	product models.Product
	client  models.Client
	vendor  models.Vendor
}

func newFixture(t *testing.T, stock int) *fixture {
	t.Helper()

	store := newMemStore()
	product := models.Product{ID: primitive.NewObjectID(), Name: "Jasmine Rice 25kg", Price: 10, Cost: 6, Stock: stock}
	client := models.Client{ID: primitive.NewObjectID(), Name: "Dara", Phone: "012345678"}
	vendor := models.Vendor{ID: primitive.NewObjectID(), Name: "Mekong Supply"}
	store.products[product.ID] = product
	store.clients[client.ID] = client
	store.vendors[vendor.ID] = vendor

	return &fixture{
		store:   store,
		svc:     ledger.NewService(store, nil, nil),
		product: product,
		client:  client,
		vendor:  vendor,
	}
}

func saleInput(f *fixture, qty int, date time.Time) ledger.PostInput {
	return ledger.PostInput{
		Type:          models.TypeSale,
		Date:          date,
		ClientID:      f.client.ID,
		PaymentMethod: models.PaymentCOD,
		DeliveryFee:   3,
		SaleItems: []models.SaleItem{
			{ProductID: f.product.ID, Quantity: qty, Price: 10, Discount: 1},
		},
	}
}

var testDay = time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)

func TestPostSale(t *testing.T) {
	f := newFixture(t, 10)

	row, err := f.svc.Post(context.Background(), saleInput(f, 2, testDay))
	require.NoError(t, err)

	// (10*2 - 1) + 3 delivery.
	assert.Equal(t, 22.0, row.Amount)
	assert.Equal(t, 2, row.Quantity)
	assert.Equal(t, "08-14-01", row.DisplayID)
	assert.Equal(t, "Dara", row.ClientName)
	assert.Equal(t, "Jasmine Rice 25kg", row.ProductName)

	assert.Equal(t, 8, f.store.products[f.product.ID].Stock)
	assert.Equal(t, 1, f.store.counters["2026-08-14"])

	require.Len(t, f.store.activities, 1)
	assert.Equal(t, models.ActivitySale, f.store.activities[0].Type)
	assert.Equal(t, "New sale of $22.00 to Dara", f.store.activities[0].Description)
}

func TestPostSaleInsufficientStock(t *testing.T) {
	f := newFixture(t, 5)

	_, err := f.svc.Post(context.Background(), saleInput(f, 6, testDay))

	var stockErr *ledger.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Jasmine Rice 25kg", stockErr.ProductName)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, "not enough stock for Jasmine Rice 25kg: only 5 left", stockErr.Error())

	// Nothing committed.
	assert.Equal(t, 5, f.store.products[f.product.ID].Stock)
	assert.Empty(t, f.store.sales)
	assert.Empty(t, f.store.activities)
	assert.Zero(t, f.store.counters["2026-08-14"])
}

func TestPostPurchase(t *testing.T) {
	f := newFixture(t, 3)

	row, err := f.svc.Post(context.Background(), ledger.PostInput{
		Type:     models.TypePurchase,
		Date:     testDay,
		VendorID: f.vendor.ID,
		PurchaseItems: []models.PurchaseItem{
			{ProductID: f.product.ID, Quantity: 10, Cost: 6},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 60.0, row.Amount)
	assert.Equal(t, 13, f.store.products[f.product.ID].Stock)

	vendor := f.store.vendors[f.vendor.ID]
	assert.Equal(t, 1, vendor.Orders)
	assert.Equal(t, 60.0, vendor.TotalAmount)

	require.Len(t, f.store.activities, 1)
	assert.Equal(t, "New purchase of $60.00 from Mekong Supply", f.store.activities[0].Description)
}

func TestPostExpense(t *testing.T) {
	f := newFixture(t, 0)

	row, err := f.svc.Post(context.Background(), ledger.PostInput{
		Type:        models.TypeExpense,
		Date:        testDay,
		Description: "Electricity",
		Amount:      45.5,
	})
	require.NoError(t, err)

	assert.Equal(t, "08-14-01", row.DisplayID)
	assert.Equal(t, 45.5, row.Amount)

	require.Len(t, f.store.activities, 1)
	assert.Equal(t, "Expense: Electricity for $45.50", f.store.activities[0].Description)
	assert.Equal(t, "Internal", f.store.activities[0].Person)
}

func TestPostExpenseWithVendorTag(t *testing.T) {
	f := newFixture(t, 0)

	row, err := f.svc.Post(context.Background(), ledger.PostInput{
		Type:            models.TypeExpense,
		Date:            testDay,
		Description:     "Packaging material",
		Amount:          12,
		ExpenseVendorID: f.vendor.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Mekong Supply", row.VendorName)

	// Expenses never bump the vendor purchase aggregates.
	assert.Zero(t, f.store.vendors[f.vendor.ID].Orders)
}

func TestCounterAdvancesPerDayAndResets(t *testing.T) {
	f := newFixture(t, 100)

	for i, want := range []string{"08-14-01", "08-14-02", "08-14-03"} {
		row, err := f.svc.Post(context.Background(), saleInput(f, 1, testDay))
		require.NoError(t, err, "post %d", i+1)
		assert.Equal(t, want, row.DisplayID)
	}

	nextDay := testDay.AddDate(0, 0, 1)
	row, err := f.svc.Post(context.Background(), saleInput(f, 1, nextDay))
	require.NoError(t, err)
	assert.Equal(t, "08-15-01", row.DisplayID)
}

func TestPostValidation(t *testing.T) {
	f := newFixture(t, 10)

	tests := []struct {
		name string
		in   ledger.PostInput
	}{
		{"unknown type", ledger.PostInput{Type: "Refund"}},
		{"sale without client", ledger.PostInput{
			Type:      models.TypeSale,
			SaleItems: []models.SaleItem{{ProductID: f.product.ID, Quantity: 1}},
		}},
		{"sale without items", ledger.PostInput{Type: models.TypeSale, ClientID: f.client.ID}},
		{"sale with zero quantity", ledger.PostInput{
			Type:      models.TypeSale,
			ClientID:  f.client.ID,
			SaleItems: []models.SaleItem{{ProductID: f.product.ID, Quantity: 0}},
		}},
		{"purchase without vendor", ledger.PostInput{
			Type:          models.TypePurchase,
			PurchaseItems: []models.PurchaseItem{{ProductID: f.product.ID, Quantity: 1}},
		}},
		{"expense without description", ledger.PostInput{Type: models.TypeExpense, Amount: 5}},
		{"expense with non-positive amount", ledger.PostInput{Type: models.TypeExpense, Description: "x"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Post(context.Background(), tc.in)
			assert.ErrorIs(t, err, ledger.ErrInvalidInput)
		})
	}
}

func TestPostSaleUnknownClient(t *testing.T) {
	f := newFixture(t, 10)

	in := saleInput(f, 1, testDay)
	in.ClientID = primitive.NewObjectID()

	_, err := f.svc.Post(context.Background(), in)
	assert.ErrorIs(t, err, ledger.ErrClientNotFound)
	assert.Equal(t, 10, f.store.products[f.product.ID].Stock)
}

func TestEditSaleReconcilesStock(t *testing.T) {
	f := newFixture(t, 10)

	row, err := f.svc.Post(context.Background(), saleInput(f, 2, testDay))
	require.NoError(t, err)
	require.Equal(t, 8, f.store.products[f.product.ID].Stock)

	in := saleInput(f, 5, testDay)
	require.NoError(t, f.svc.Edit(context.Background(), row.ID, in))

	assert.Equal(t, 5, f.store.products[f.product.ID].Stock)

	stored := f.store.sales[row.ID]
	assert.Equal(t, "08-14-01", stored.DisplayID, "edits keep the display id")
	assert.Equal(t, 5, stored.Quantity)
	assert.Equal(t, 52.0, stored.Amount)
}

func TestEditWithIdenticalValuesChangesNothing(t *testing.T) {
	f := newFixture(t, 10)

	row, err := f.svc.Post(context.Background(), saleInput(f, 2, testDay))
	require.NoError(t, err)

	require.NoError(t, f.svc.Edit(context.Background(), row.ID, saleInput(f, 2, testDay)))

	assert.Equal(t, 8, f.store.products[f.product.ID].Stock)
	stored := f.store.sales[row.ID]
	assert.Equal(t, 22.0, stored.Amount)
	assert.Equal(t, "08-14-01", stored.DisplayID)
}

func TestEditSaleRejectedWhenStockWouldGoNegative(t *testing.T) {
	f := newFixture(t, 10)

	row, err := f.svc.Post(context.Background(), saleInput(f, 2, testDay))
	require.NoError(t, err)

	in := saleInput(f, 13, testDay)
	err = f.svc.Edit(context.Background(), row.ID, in)

	var stockErr *ledger.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	// State untouched by the failed edit.
	assert.Equal(t, 8, f.store.products[f.product.ID].Stock)
	assert.Equal(t, 2, f.store.sales[row.ID].Quantity)
}

func TestEditUnknownTransaction(t *testing.T) {
	f := newFixture(t, 10)

	err := f.svc.Edit(context.Background(), primitive.NewObjectID(), saleInput(f, 1, testDay))
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	f := newFixture(t, 10)

	row, err := f.svc.Post(context.Background(), saleInput(f, 4, testDay))
	require.NoError(t, err)
	require.Equal(t, 6, f.store.products[f.product.ID].Stock)

	require.NoError(t, f.svc.Delete(context.Background(), row.ID, models.TypeSale))

	assert.Equal(t, 10, f.store.products[f.product.ID].Stock)
	assert.Empty(t, f.store.sales)
}

func TestDeletePurchaseRejectedWhenStockAlreadySold(t *testing.T) {
	f := newFixture(t, 0)

	row, err := f.svc.Post(context.Background(), ledger.PostInput{
		Type:     models.TypePurchase,
		Date:     testDay,
		VendorID: f.vendor.ID,
		PurchaseItems: []models.PurchaseItem{
			{ProductID: f.product.ID, Quantity: 10, Cost: 6},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 10, f.store.products[f.product.ID].Stock)

	_, err = f.svc.Post(context.Background(), saleInput(f, 7, testDay))
	require.NoError(t, err)
	require.Equal(t, 3, f.store.products[f.product.ID].Stock)

	err = f.svc.Delete(context.Background(), row.ID, models.TypePurchase)
	var stockErr *ledger.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	// The purchase and its stock stay in place.
	assert.Equal(t, 3, f.store.products[f.product.ID].Stock)
	assert.Len(t, f.store.purchases, 1)
}

func TestDeleteThenRepostRoundTrip(t *testing.T) {
	f := newFixture(t, 10)

	row, err := f.svc.Post(context.Background(), saleInput(f, 3, testDay))
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(context.Background(), row.ID, models.TypeSale))

	again, err := f.svc.Post(context.Background(), saleInput(f, 3, testDay))
	require.NoError(t, err)

	assert.Equal(t, 7, f.store.products[f.product.ID].Stock)
	// The counter never rolls back, so the repost gets the next number.
	assert.Equal(t, "08-14-02", again.DisplayID)
}

func TestDeleteInvalidType(t *testing.T) {
	f := newFixture(t, 10)

	err := f.svc.Delete(context.Background(), primitive.NewObjectID(), "Refund")
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
}

func TestLowStockNotification(t *testing.T) {
	store := newMemStore()
	product := models.Product{ID: primitive.NewObjectID(), Name: "Fish Sauce 1L", Price: 3, Stock: 6, LowStock: 5}
	client := models.Client{ID: primitive.NewObjectID(), Name: "Sokha"}
	store.products[product.ID] = product
	store.clients[client.ID] = client

	notifier := &chanNotifier{alerts: make(chan capturedAlert, 1)}
	svc := ledger.NewService(store, notifier, nil)

	_, err := svc.Post(context.Background(), ledger.PostInput{
		Type:     models.TypeSale,
		Date:     testDay,
		ClientID: client.ID,
		SaleItems: []models.SaleItem{
			{ProductID: product.ID, Quantity: 2, Price: 3},
		},
	})
	require.NoError(t, err)

	select {
	case alert := <-notifier.alerts:
		assert.Equal(t, "Fish Sauce 1L", alert.product.Name)
		assert.Equal(t, 4, alert.product.Stock)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a low stock alert")
	}
}

func TestStoreErrorPropagates(t *testing.T) {
	f := newFixture(t, 10)

	boom := errors.New("session aborted")
	svc := ledger.NewService(failingStore{err: boom}, nil, nil)

	_, err := svc.Post(context.Background(), saleInput(f, 1, testDay))
	assert.ErrorIs(t, err, boom)
}

type failingStore struct {
	err error
}

func (s failingStore) RunAtomic(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return s.err
}
