package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/davuth/shopledger/internal/domain/models"
)

func TestTransactionsWorkbook(t *testing.T) {
	rows := []models.Transaction{
		{
			DisplayID:     "08-14-01",
			Type:          models.TypeSale,
			Date:          time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
			Amount:        22,
			Quantity:      2,
			ClientName:    "Dara",
			ProductName:   "Rice",
			Discount:      1,
			PaymentMethod: models.PaymentCOD,
		},
		{
			DisplayID:  "08-14-02",
			Type:       models.TypeExpense,
			Date:       time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
			Amount:     30,
			VendorName: "Mekong Supply",
			Description: "Electricity",
		},
	}

	buf, err := TransactionsWorkbook(rows)
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(transactionsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Display ID", header)

	firstID, err := f.GetCellValue(transactionsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "08-14-01", firstID)

	party, err := f.GetCellValue(transactionsSheet, "D3")
	require.NoError(t, err)
	assert.Equal(t, "Mekong Supply", party)

	items, err := f.GetCellValue(transactionsSheet, "E3")
	require.NoError(t, err)
	assert.Equal(t, "Electricity", items)
}

func TestTransactionsWorkbookEmpty(t *testing.T) {
	buf, err := TransactionsWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(transactionsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
