package reports

import (
	"sort"
	"time"

	"github.com/davuth/shopledger/internal/domain/models"
)

// Snapshot is the in-memory view of the collections a report reads. Views
// never persist anything; they recompute from a fresh snapshot per request.
type Snapshot struct {
	Sales     []models.Sale
	Purchases []models.Purchase
	Expenses  []models.Expense
	Products  []models.Product
	Clients   []models.Client
	Vendors   []models.Vendor
}

// ProfitLoss is the P&L breakdown shown on the reports page.
type ProfitLoss struct {
	TotalSales    float64 `json:"totalSales"`
	COGS          float64 `json:"cogs"`
	TotalExpenses float64 `json:"totalExpenses"`
	GrossProfit   float64 `json:"grossProfit"`
	NetProfit     float64 `json:"netProfit"`
}

// SoldItem is one row of the items-sold summary, grouped by product name.
type SoldItem struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	TotalSales float64 `json:"totalSales"`
}

// ClientSpend is one top-clients row.
type ClientSpend struct {
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Total float64 `json:"total"`
}

// CashFlow sums money moving in and out of the ledger.
type CashFlow struct {
	In  float64 `json:"cashIn"`
	Out float64 `json:"cashOut"`
	Net float64 `json:"netCashFlow"`
}

// StockValuation prices the current stock at cost and at retail.
type StockValuation struct {
	AtCost   float64 `json:"atCost"`
	AtRetail float64 `json:"atRetail"`
}

// DailyPoint is one day of the current-month sales chart series.
type DailyPoint struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

// TotalSales sums all sale amounts.
func TotalSales(sales []models.Sale) float64 {
	var total float64
	for _, sale := range sales {
		total += sale.Amount
	}
	return total
}

// SalesOn sums the sale amounts of one calendar day.
func SalesOn(sales []models.Sale, day time.Time) float64 {
	var total float64
	for _, sale := range sales {
		if sameDay(sale.Date, day) {
			total += sale.Amount
		}
	}
	return total
}

// SalesInMonth sums the sale amounts of one calendar month.
func SalesInMonth(sales []models.Sale, month time.Time) float64 {
	var total float64
	for _, sale := range sales {
		if sale.Date.Year() == month.Year() && sale.Date.Month() == month.Month() {
			total += sale.Amount
		}
	}
	return total
}

// COGS computes cost of goods sold: Σ item.quantity · product.cost across
// all sale line items. Products are matched by name, as the items store the
// product name they were sold under.
func COGS(sales []models.Sale, products []models.Product) float64 {
	costByName := make(map[string]float64, len(products))
	for _, product := range products {
		costByName[product.Name] = product.Cost
	}

	var total float64
	for _, sale := range sales {
		for _, item := range sale.Items {
			total += costByName[item.ProductName] * float64(item.Quantity)
		}
	}
	return total
}

// ComputeProfitLoss assembles the P&L view: gross = sales − COGS,
// net = gross − expenses.
func ComputeProfitLoss(sales []models.Sale, expenses []models.Expense, products []models.Product) ProfitLoss {
	totalSales := TotalSales(sales)
	cogs := COGS(sales, products)

	var totalExpenses float64
	for _, expense := range expenses {
		totalExpenses += expense.Amount
	}

	gross := totalSales - cogs
	return ProfitLoss{
		TotalSales:    totalSales,
		COGS:          cogs,
		TotalExpenses: totalExpenses,
		GrossProfit:   gross,
		NetProfit:     gross - totalExpenses,
	}
}

// TopClients ranks clients by total spend across the sales ledger and
// returns the first n.
func TopClients(sales []models.Sale, clients []models.Client, n int) []ClientSpend {
	totals := make(map[string]float64)
	for _, sale := range sales {
		totals[sale.ClientName] += sale.Amount
	}

	phones := make(map[string]string, len(clients))
	for _, client := range clients {
		phones[client.Name] = client.Phone
	}

	ranked := make([]ClientSpend, 0, len(totals))
	for name, total := range totals {
		ranked = append(ranked, ClientSpend{Name: name, Phone: phones[name], Total: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// SoldItems groups sale line items by product name, summing quantity and
// net line revenue (price·quantity − discount).
func SoldItems(sales []models.Sale) []SoldItem {
	grouped := make(map[string]*SoldItem)
	for _, sale := range sales {
		for _, item := range sale.Items {
			row, ok := grouped[item.ProductName]
			if !ok {
				row = &SoldItem{Name: item.ProductName}
				grouped[item.ProductName] = row
			}
			row.Quantity += item.Quantity
			row.TotalSales += item.Price*float64(item.Quantity) - item.Discount
		}
	}

	items := make([]SoldItem, 0, len(grouped))
	for _, row := range grouped {
		items = append(items, *row)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

// ComputeCashFlow treats sales as cash in and purchases plus expenses as
// cash out.
func ComputeCashFlow(sales []models.Sale, purchases []models.Purchase, expenses []models.Expense) CashFlow {
	var flow CashFlow
	for _, sale := range sales {
		flow.In += sale.Amount
	}
	for _, purchase := range purchases {
		flow.Out += purchase.Amount
	}
	for _, expense := range expenses {
		flow.Out += expense.Amount
	}
	flow.Net = flow.In - flow.Out
	return flow
}

// ComputeStockValuation prices the current stock levels.
func ComputeStockValuation(products []models.Product) StockValuation {
	var valuation StockValuation
	for _, product := range products {
		valuation.AtCost += float64(product.Stock) * product.Cost
		valuation.AtRetail += float64(product.Stock) * product.Price
	}
	return valuation
}

// DailySeries returns one point per day of the given month, in order.
func DailySeries(sales []models.Sale, month time.Time) []DailyPoint {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	days := first.AddDate(0, 1, -1).Day()

	series := make([]DailyPoint, days)
	for i := range series {
		series[i].Date = first.AddDate(0, 0, i).Format("02")
	}
	for _, sale := range sales {
		if sale.Date.Year() == month.Year() && sale.Date.Month() == month.Month() {
			series[sale.Date.Day()-1].Sales += sale.Amount
		}
	}
	return series
}

// ClientsWithTotals fills each client's spent/orders aggregates from the
// sales ledger instead of trusting the stored copies.
func ClientsWithTotals(clients []models.Client, sales []models.Sale) []models.Client {
	spent := make(map[string]float64)
	orders := make(map[string]int)
	for _, sale := range sales {
		spent[sale.ClientName] += sale.Amount
		orders[sale.ClientName]++
	}

	out := make([]models.Client, len(clients))
	for i, client := range clients {
		client.TotalSpent = spent[client.Name]
		client.Orders = orders[client.Name]
		out[i] = client
	}
	return out
}

// VendorsWithTotals recomputes each vendor's order count and total amount
// from purchases and vendor-tagged expenses.
func VendorsWithTotals(vendors []models.Vendor, purchases []models.Purchase, expenses []models.Expense) []models.Vendor {
	amounts := make(map[string]float64)
	orders := make(map[string]int)
	for _, purchase := range purchases {
		amounts[purchase.VendorName] += purchase.Amount
		orders[purchase.VendorName]++
	}
	for _, expense := range expenses {
		if expense.VendorName == "" {
			continue
		}
		amounts[expense.VendorName] += expense.Amount
		orders[expense.VendorName]++
	}

	out := make([]models.Vendor, len(vendors))
	for i, vendor := range vendors {
		vendor.TotalAmount = amounts[vendor.Name]
		vendor.Orders = orders[vendor.Name]
		out[i] = vendor
	}
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
