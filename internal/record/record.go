package record

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is the canonical timestamp format written by the exporter and
// accepted by the loader.
const TimeLayout = "2006-01-02 15:04:05"

// Columns is the fixed header of the source file, in order. The loader skips
// the header row but relies on this layout; the exporter writes it back out.
var Columns = []string{
	"invoice",
	"stockcode",
	"description",
	"quantity",
	"invoicedate",
	"unitprice",
	"customerid",
	"country",
}

// ProfitColumn is the derived column appended by the exporter.
const ProfitColumn = "profit"

// Record is one parsed transaction row. Description and CustomerID may be
// empty when the source cell is blank; all other fields are guaranteed present
// once a record survives loading.
type Record struct {
	Invoice     string
	StockCode   string
	Description string
	Quantity    int64
	InvoiceDate time.Time
	UnitPrice   decimal.Decimal
	CustomerID  string
	Country     string
	Profit      decimal.Decimal
}

// Amount is the line total: quantity times unit price. Negative for returns.
func (r Record) Amount() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(r.Quantity))
}

// Enrich returns a copy of the record with Profit derived from the line total
// and the given margin. Total over loader output; no rows are rejected here.
func (r Record) Enrich(margin decimal.Decimal) Record {
	r.Profit = r.Amount().Mul(margin)
	return r
}

// DefaultMargin is the heuristic profit margin applied per line. It is an
// estimate, not a measured cost.
var DefaultMargin = decimal.New(2, -1)
