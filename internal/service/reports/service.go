package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/davuth/shopledger/internal/domain/models"
)

// SnapshotLoader supplies the collection reads a report needs.
type SnapshotLoader interface {
	ListSales(ctx context.Context, from, to time.Time) ([]models.Sale, error)
	ListPurchases(ctx context.Context, from, to time.Time) ([]models.Purchase, error)
	ListExpenses(ctx context.Context, from, to time.Time) ([]models.Expense, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	ListVendors(ctx context.Context) ([]models.Vendor, error)
}

// Service derives dashboards, reports and merged ledger listings from
// snapshots of the collections.
type Service struct {
	loader SnapshotLoader
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a reporting service instance.
func NewService(loader SnapshotLoader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{loader: loader, logger: logger, now: time.Now}
}

// Load reads a fresh snapshot of every collection the views consume.
func (s *Service) Load(ctx context.Context, from, to time.Time) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Sales, err = s.loader.ListSales(ctx, from, to); err != nil {
		return Snapshot{}, fmt.Errorf("load sales: %w", err)
	}
	if snap.Purchases, err = s.loader.ListPurchases(ctx, from, to); err != nil {
		return Snapshot{}, fmt.Errorf("load purchases: %w", err)
	}
	if snap.Expenses, err = s.loader.ListExpenses(ctx, from, to); err != nil {
		return Snapshot{}, fmt.Errorf("load expenses: %w", err)
	}
	if snap.Products, err = s.loader.ListProducts(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load products: %w", err)
	}
	if snap.Clients, err = s.loader.ListClients(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load clients: %w", err)
	}
	if snap.Vendors, err = s.loader.ListVendors(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load vendors: %w", err)
	}
	return snap, nil
}

// MergedLedger flattens sales, purchases and expenses into one list,
// newest first, optionally restricted to a single type.
func MergedLedger(snap Snapshot, typ models.TransactionType) []models.Transaction {
	rows := make([]models.Transaction, 0, len(snap.Sales)+len(snap.Purchases)+len(snap.Expenses))
	if typ == "" || typ == models.TypeSale {
		for _, sale := range snap.Sales {
			rows = append(rows, sale.Row())
		}
	}
	if typ == "" || typ == models.TypePurchase {
		for _, purchase := range snap.Purchases {
			rows = append(rows, purchase.Row())
		}
	}
	if typ == "" || typ == models.TypeExpense {
		for _, expense := range snap.Expenses {
			rows = append(rows, expense.Row())
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.After(rows[j].Date) })
	return rows
}

// Dashboard is the aggregate payload behind the dashboard page.
type Dashboard struct {
	TotalSales     float64        `json:"totalSales"`
	DailySales     float64        `json:"dailySales"`
	MonthlySales   float64        `json:"monthlySales"`
	TotalClients   int            `json:"totalClients"`
	ProfitLoss     ProfitLoss     `json:"profitLoss"`
	TopClients     []ClientSpend  `json:"topClients"`
	SalesChart     []DailyPoint   `json:"salesChart"`
	StockValuation StockValuation `json:"stockValuation"`
	CashFlow       CashFlow       `json:"cashFlow"`
}

// BuildDashboard assembles the dashboard aggregates from one snapshot.
func (s *Service) BuildDashboard(ctx context.Context) (Dashboard, error) {
	snap, err := s.Load(ctx, time.Time{}, time.Time{})
	if err != nil {
		return Dashboard{}, err
	}

	today := s.now()
	return Dashboard{
		TotalSales:     TotalSales(snap.Sales),
		DailySales:     SalesOn(snap.Sales, today),
		MonthlySales:   SalesInMonth(snap.Sales, today),
		TotalClients:   len(snap.Clients),
		ProfitLoss:     ComputeProfitLoss(snap.Sales, snap.Expenses, snap.Products),
		TopClients:     TopClients(snap.Sales, snap.Clients, 5),
		SalesChart:     DailySeries(snap.Sales, today),
		StockValuation: ComputeStockValuation(snap.Products),
		CashFlow:       ComputeCashFlow(snap.Sales, snap.Purchases, snap.Expenses),
	}, nil
}

// BuildDailySummary rolls one day's ledger into a DailySummary document.
func (s *Service) BuildDailySummary(ctx context.Context, day time.Time) (models.DailySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)

	snap, err := s.Load(ctx, start, end)
	if err != nil {
		return models.DailySummary{}, err
	}

	pnl := ComputeProfitLoss(snap.Sales, snap.Expenses, snap.Products)
	var purchases float64
	for _, purchase := range snap.Purchases {
		purchases += purchase.Amount
	}

	return models.DailySummary{
		Date:             start,
		TotalSales:       pnl.TotalSales,
		TotalPurchases:   purchases,
		TotalExpenses:    pnl.TotalExpenses,
		COGS:             pnl.COGS,
		Profit:           pnl.NetProfit,
		TransactionCount: len(snap.Sales) + len(snap.Purchases) + len(snap.Expenses),
		CreatedAt:        s.now(),
	}, nil
}
