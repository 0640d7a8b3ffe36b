package importer

import (
	"fmt"
	"strings"

	"github.com/settled-dev/settled/internal/model"
)

// Required columns of the transaction-detail table. Extra columns are
// preserved and echoed into the output.
const (
	colAmount   = "Extended Partner Share"
	colCurrency = "Partner Share Currency"
	colSKU      = "SKU"
)

// txHeaderScan is how many leading rows are searched for the header.
const txHeaderScan = 4

// TransactionFile is a parsed transaction-detail table.
type TransactionFile struct {
	Header       []string
	Transactions []model.Transaction
	Warnings     []Warning
}

// ReadTransactions parses a transaction-detail CSV or XLSX file. Rows
// with unparseable amounts are kept with a zero amount and a warning so
// they stay visible downstream.
func ReadTransactions(path string) (*TransactionFile, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	required := []string{colAmount, colCurrency, colSKU}
	headerIdx, cols, ok := findHeader(rows, required, txHeaderScan)
	if !ok {
		return nil, fmt.Errorf("transaction table %s: required columns %v not found in the first %d rows", path, required, txHeaderScan)
	}

	header := make([]string, len(rows[headerIdx]))
	for i, name := range rows[headerIdx] {
		header[i] = strings.TrimSpace(name)
	}

	file := &TransactionFile{Header: header}
	for i, row := range rows[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		line := headerIdx + i + 2 // 1-based source line

		txn := model.Transaction{
			SKU:      cell(row, cols[colSKU]),
			Currency: strings.ToUpper(cell(row, cols[colCurrency])),
			Line:     line,
			Raw:      row,
		}

		amount, err := parseAmount(cell(row, cols[colAmount]))
		if err != nil {
			file.Warnings = append(file.Warnings, Warning{
				Line:    line,
				Message: fmt.Sprintf("unparseable partner share: %v", err),
			})
		} else {
			txn.Amount = amount
		}

		file.Transactions = append(file.Transactions, txn)
	}
	return file, nil
}
