package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/retaildash/retaildash/internal/insights"
	"github.com/retaildash/retaildash/internal/record"
)

// Filename is the download name offered to the browser.
const Filename = "filtered_sales.csv"

// Service writes the currently filtered record set as a comma-separated file
// the loader can read back.
type Service struct {
	insights *insights.Service
}

func NewService(insightsSvc *insights.Service) *Service {
	return &Service{insights: insightsSvc}
}

// Export fetches the records matching the filter and writes them to w.
func (s *Service) Export(w io.Writer, f insights.Filter) error {
	records, err := s.insights.Filtered(f)
	if err != nil {
		return fmt.Errorf("listing filtered records: %w", err)
	}

	return Write(w, records)
}

// Write emits a header row of the source columns plus the derived profit
// column, then one row per record. Timestamps use the canonical layout, so a
// re-load through the loader reproduces the same values.
func Write(w io.Writer, records []record.Record) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(record.Columns)+1)
	header = append(header, record.Columns...)
	header = append(header, record.ProfitColumn)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Invoice,
			r.StockCode,
			r.Description,
			strconv.FormatInt(r.Quantity, 10),
			r.InvoiceDate.Format(record.TimeLayout),
			r.UnitPrice.String(),
			r.CustomerID,
			r.Country,
			r.Profit.String(),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}
