// Package export renders ledger data as downloadable Excel workbooks.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/davuth/shopledger/internal/domain/models"
)

const transactionsSheet = "Transactions"

var transactionColumns = []string{
	"Display ID", "Date", "Type", "Party", "Items", "Quantity", "Discount", "Payment", "Amount",
}

// TransactionsWorkbook builds an xlsx file listing the given ledger rows in
// the order provided. The caller owns the returned buffer.
func TransactionsWorkbook(rows []models.Transaction) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(transactionsSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, title := range transactionColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(transactionsSheet, cell, title); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for r, row := range rows {
		party := row.ClientName
		if party == "" {
			party = row.VendorName
		}
		items := row.ProductName
		if items == "" {
			items = row.Description
		}
		values := []interface{}{
			row.DisplayID,
			row.Date.Format("2006-01-02"),
			string(row.Type),
			party,
			items,
			row.Quantity,
			row.Discount,
			row.PaymentMethod,
			row.Amount,
		}
		for c, value := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(transactionsSheet, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", r+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf, nil
}
