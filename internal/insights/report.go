package insights

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retaildash/retaildash/internal/dataset"
	"github.com/retaildash/retaildash/internal/record"
)

// Ranking limits shown on the dashboard.
const (
	topProducts  = 5
	topCountries = 3
	topCustomers = 10
	previewRows  = 20
)

// Overview describes the full loaded dataset, independent of any filter.
type Overview struct {
	DatasetID       uuid.UUID
	LoadedAt        time.Time
	Rows            int
	Columns         int
	UniqueProducts  int
	UniqueCustomers int
}

// Report is the complete dashboard payload: the dataset overview plus every
// aggregate view computed over the filtered set.
type Report struct {
	Overview Overview
	Filter   Filter

	TopSellingProducts    []ProductQuantity
	TopProfitableProducts []ProductProfit
	TopCountries          []CountryOrders
	NetLossCustomers      int

	TotalSales  decimal.Decimal
	TotalProfit decimal.Decimal
	DateRange   *DateRange

	SalesOverTime []TimePoint
	MonthlySales  []MonthPoint
	TopCustomers  []CustomerSpend

	OrdersByCountry []CountryOrders

	Preview []record.Record
}

// BuildReport applies the filter to the snapshot and computes all views over
// the filtered set. KPIs always reflect the active filter; the overview block
// always reflects the full dataset.
func BuildReport(ds *dataset.Dataset, f Filter) *Report {
	filtered := f.Apply(ds.Records)

	rep := &Report{
		Overview: buildOverview(ds),
		Filter:   f,

		TopSellingProducts:    TopSellingProducts(filtered, topProducts),
		TopProfitableProducts: TopProfitableProducts(filtered, topProducts),
		TopCountries:          TopCountries(filtered, topCountries),
		NetLossCustomers:      NetLossCustomerCount(filtered),

		TotalSales:  TotalSales(filtered),
		TotalProfit: TotalProfit(filtered),

		SalesOverTime: SalesOverTime(filtered),
		MonthlySales:  MonthlySales(filtered),
		TopCustomers:  TopCustomersBySpend(filtered, topCustomers),

		OrdersByCountry: OrdersByCountry(filtered),

		Preview: limit(filtered, previewRows),
	}

	if dr, ok := Range(filtered); ok {
		rep.DateRange = &dr
	}

	return rep
}

func buildOverview(ds *dataset.Dataset) Overview {
	products := make(map[string]struct{})
	customers := make(map[string]struct{})

	for _, r := range ds.Records {
		// Blank cells do not count towards uniqueness.
		if r.Description != "" {
			products[r.Description] = struct{}{}
		}

		if r.CustomerID != "" {
			customers[r.CustomerID] = struct{}{}
		}
	}

	return Overview{
		DatasetID:       ds.ID,
		LoadedAt:        ds.LoadedAt,
		Rows:            len(ds.Records),
		Columns:         len(record.Columns) + 1, // source columns plus derived profit
		UniqueProducts:  len(products),
		UniqueCustomers: len(customers),
	}
}
