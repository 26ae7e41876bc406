package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	enc "github.com/retaildash/retaildash/internal/encoding"
	"github.com/retaildash/retaildash/internal/record"
)

// ErrNotFound is returned when the dataset file does not exist.
var ErrNotFound = errors.New("dataset file not found")

// Dataset is one immutable snapshot of the loaded file. It is the handle the
// rest of the pipeline works against; Records is never mutated after Load.
type Dataset struct {
	ID       uuid.UUID
	Path     string
	LoadedAt time.Time
	Records  []record.Record
	Dropped  int
}

// Column positions in the source file, header order.
const (
	colInvoice = iota
	colStockCode
	colDescription
	colQuantity
	colInvoiceDate
	colUnitPrice
	colCustomerID
	colCountry
)

// invoiceDateLayouts are the accepted timestamp formats: the canonical layout
// the exporter writes, the source file's month-first style, and a couple of
// common variants. Anything else counts as a malformed row.
var invoiceDateLayouts = []string{
	record.TimeLayout,
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// Load reads the transaction file at path and returns an enriched snapshot.
// A missing file maps to ErrNotFound; rows whose invoice date, quantity, or
// unit price fail to parse are dropped, counted in Dropped, and not reported
// individually.
func Load(path string, margin decimal.Decimal) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Parse(f, margin)
	if err != nil {
		return nil, err
	}

	ds.Path = path

	return ds, nil
}

// Parse reads delimited transaction rows from r. The first row is the header
// and is skipped; the remaining rows follow the fixed 8-column layout.
func Parse(r io.Reader, margin decimal.Decimal) (*Dataset, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) > 0 {
		rows = rows[1:]
	}

	ds := &Dataset{
		ID:       uuid.New(),
		LoadedAt: time.Now(),
		Records:  make([]record.Record, 0, len(rows)),
	}

	for _, row := range rows {
		rec, ok := parseRow(row)
		if !ok {
			ds.Dropped++
			continue
		}

		ds.Records = append(ds.Records, rec.Enrich(margin))
	}

	return ds, nil
}

// parseRow maps one data row to a record. Returns false when any required
// field (invoice date, quantity, unit price) is missing or unparseable.
func parseRow(row []string) (record.Record, bool) {
	date, ok := parseDate(row, colInvoiceDate)
	if !ok {
		return record.Record{}, false
	}

	qty, ok := parseQuantity(row, colQuantity)
	if !ok {
		return record.Record{}, false
	}

	price, ok := parsePrice(row, colUnitPrice)
	if !ok {
		return record.Record{}, false
	}

	return record.Record{
		Invoice:     cellValue(row, colInvoice),
		StockCode:   cellValue(row, colStockCode),
		Description: cellValue(row, colDescription),
		Quantity:    qty,
		InvoiceDate: date,
		UnitPrice:   price,
		CustomerID:  cellValue(row, colCustomerID),
		Country:     cellValue(row, colCountry),
	}, true
}

// parseDate tries each accepted layout; malformed values coerce to absent.
func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range invoiceDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseQuantity(row []string, idx int) (int64, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return 0, false
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

func parsePrice(row []string, idx int) (decimal.Decimal, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}

	return d, true
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
