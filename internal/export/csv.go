// Package export writes transactions in downloadable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"fintrack/internal/models"
)

// ContentType is the MIME type of WriteCSV output.
const ContentType = "text/csv"

var header = []string{"Date", "Type", "Category", "Description", "Amount", "Currency"}

// WriteCSV writes one row per transaction after a header row.
func WriteCSV(w io.Writer, txs []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range txs {
		t := &txs[i]
		currency := t.Currency
		if currency == "" {
			currency = "INR"
		}
		row := []string{
			t.Date.UTC().Format("2006-01-02"),
			string(t.Type),
			t.Category,
			t.Description,
			t.Amount.String(),
			currency,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName is the download name for an export made at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("transactions_%s.csv", now.Format("2006-01-02"))
}
