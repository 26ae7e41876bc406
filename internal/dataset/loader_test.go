package dataset_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retaildash/retaildash/internal/dataset"
	"github.com/retaildash/retaildash/internal/record"
)

const header = "invoice,stockcode,description,quantity,invoicedate,unitprice,customerid,country\n"

func margin() decimal.Decimal {
	return record.DefaultMargin
}

func TestParse(t *testing.T) {
	type testCase struct {
		name        string
		input       string
		wantRows    int
		wantDropped int
	}

	tests := []testCase{
		{
			name: "WellFormedRows",
			input: header +
				"536365,85123A,WHITE HANGING HEART,6,12/1/2010 8:26,2.55,17850,United Kingdom\n" +
				"536366,71053,WHITE METAL LANTERN,6,12/1/2010 8:28,3.39,17850,United Kingdom\n",
			wantRows:    2,
			wantDropped: 0,
		},
		{
			name:        "HeaderOnly",
			input:       header,
			wantRows:    0,
			wantDropped: 0,
		},
		{
			name:        "EmptyInput",
			input:       "",
			wantRows:    0,
			wantDropped: 0,
		},
		{
			name: "MalformedDateDropped",
			input: header +
				"536365,85123A,WHITE HANGING HEART,6,not-a-date,2.55,17850,United Kingdom\n" +
				"536366,71053,WHITE METAL LANTERN,6,12/1/2010 8:28,3.39,17850,United Kingdom\n",
			wantRows:    1,
			wantDropped: 1,
		},
		{
			name: "MissingQuantityDropped",
			input: header +
				"536365,85123A,WHITE HANGING HEART,,12/1/2010 8:26,2.55,17850,United Kingdom\n",
			wantRows:    0,
			wantDropped: 1,
		},
		{
			name: "NonNumericPriceDropped",
			input: header +
				"536365,85123A,WHITE HANGING HEART,6,12/1/2010 8:26,free,17850,United Kingdom\n",
			wantRows:    0,
			wantDropped: 1,
		},
		{
			name: "ShortRowDropped",
			input: header +
				"536365,85123A\n" +
				"536366,71053,WHITE METAL LANTERN,6,12/1/2010 8:28,3.39,17850,United Kingdom\n",
			wantRows:    1,
			wantDropped: 1,
		},
		{
			name: "MissingDescriptionAndCustomerRetained",
			input: header +
				"536365,85123A,,6,12/1/2010 8:26,2.55,,United Kingdom\n",
			wantRows:    1,
			wantDropped: 0,
		},
		{
			name: "NegativeQuantityReturnRetained",
			input: header +
				"C536379,D,Discount,-1,12/1/2010 9:41,27.50,14527,United Kingdom\n",
			wantRows:    1,
			wantDropped: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := dataset.Parse(strings.NewReader(tt.input), margin())
			require.NoError(t, err)

			assert.Len(t, ds.Records, tt.wantRows)
			assert.Equal(t, tt.wantDropped, ds.Dropped)
		})
	}
}

func TestParse_FieldsAndEnrichment(t *testing.T) {
	input := header +
		"536365,85123A,WHITE HANGING HEART,6,12/1/2010 8:26,2.55,17850,United Kingdom\n"

	ds, err := dataset.Parse(strings.NewReader(input), margin())
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)

	r := ds.Records[0]
	assert.Equal(t, "536365", r.Invoice)
	assert.Equal(t, "85123A", r.StockCode)
	assert.Equal(t, "WHITE HANGING HEART", r.Description)
	assert.Equal(t, int64(6), r.Quantity)
	assert.Equal(t, time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC), r.InvoiceDate)
	assert.True(t, r.UnitPrice.Equal(decimal.RequireFromString("2.55")), "unit price %s", r.UnitPrice)
	assert.Equal(t, "17850", r.CustomerID)
	assert.Equal(t, "United Kingdom", r.Country)

	// 6 * 2.55 * 0.2 = 3.06
	assert.True(t, r.Profit.Equal(decimal.RequireFromString("3.06")), "profit %s", r.Profit)
}

func TestParse_Latin1Description(t *testing.T) {
	// Header plus one row whose description holds ISO-8859-1 bytes
	// (0xC9 = É), as in the real source file.
	var buf bytes.Buffer
	buf.WriteString(header)
	buf.WriteString("536365,85123A,CR")
	buf.WriteByte(0xC9)
	buf.WriteString("ME SET,6,12/1/2010 8:26,2.55,17850,France\n")

	ds, err := dataset.Parse(&buf, margin())
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "CRÉME SET", ds.Records[0].Description)
}

func TestParse_CanonicalTimestamp(t *testing.T) {
	// The exporter's own timestamp layout must load back.
	input := header +
		"536365,85123A,WHITE HANGING HEART,6,2010-12-01 08:26:00,2.55,17850,United Kingdom\n"

	ds, err := dataset.Parse(strings.NewReader(input), margin())
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC), ds.Records[0].InvoiceDate)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := dataset.Load(filepath.Join(t.TempDir(), "missing.csv"), margin())
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrNotFound)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retail.csv")
	content := header +
		"536365,85123A,WHITE HANGING HEART,6,12/1/2010 8:26,2.55,17850,United Kingdom\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ds, err := dataset.Load(path, margin())
	require.NoError(t, err)
	assert.Equal(t, path, ds.Path)
	assert.Len(t, ds.Records, 1)
	assert.NotZero(t, ds.ID)
	assert.False(t, ds.LoadedAt.IsZero())
}
