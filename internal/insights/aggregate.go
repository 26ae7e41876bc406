package insights

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retaildash/retaildash/internal/record"
)

// All aggregate views are pure functions over a record slice (full or
// filtered). Groups accumulate in first-seen order and ranked views sort with
// a stable sort, so ties keep the original row order. An empty description or
// customer id is a group of its own, the same as any other key.

// ProductQuantity is one product's total units sold.
type ProductQuantity struct {
	Description string
	Units       int64
}

// ProductProfit is one product's total estimated profit.
type ProductProfit struct {
	Description string
	Profit      decimal.Decimal
}

// CountryOrders is one country's record count.
type CountryOrders struct {
	Country string
	Orders  int
}

// CustomerSpend is one customer's total spend (the naive CLV stand-in).
type CustomerSpend struct {
	CustomerID string
	Spend      decimal.Decimal
}

// TimePoint is total sales at one exact invoice timestamp.
type TimePoint struct {
	Date  time.Time
	Sales decimal.Decimal
}

// MonthPoint is total sales for one calendar month ("2006-01").
type MonthPoint struct {
	Month string
	Sales decimal.Decimal
}

// DateRange is the inclusive span of invoice timestamps in a set.
type DateRange struct {
	From time.Time
	To   time.Time
}

// TopSellingProducts sums quantity per product and returns at most n groups,
// descending by units.
func TopSellingProducts(records []record.Record, n int) []ProductQuantity {
	idx := make(map[string]int)
	out := []ProductQuantity{}

	for _, r := range records {
		i, ok := idx[r.Description]
		if !ok {
			i = len(out)
			idx[r.Description] = i
			out = append(out, ProductQuantity{Description: r.Description})
		}

		out[i].Units += r.Quantity
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Units > out[j].Units })

	return limit(out, n)
}

// TopProfitableProducts sums profit per product and returns at most n groups,
// descending by profit.
func TopProfitableProducts(records []record.Record, n int) []ProductProfit {
	idx := make(map[string]int)
	out := []ProductProfit{}

	for _, r := range records {
		i, ok := idx[r.Description]
		if !ok {
			i = len(out)
			idx[r.Description] = i
			out = append(out, ProductProfit{Description: r.Description})
		}

		out[i].Profit = out[i].Profit.Add(r.Profit)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Profit.GreaterThan(out[j].Profit) })

	return limit(out, n)
}

// OrdersByCountry counts records per country, descending by count. It is the
// full distribution; TopCountries truncates it.
func OrdersByCountry(records []record.Record) []CountryOrders {
	idx := make(map[string]int)
	out := []CountryOrders{}

	for _, r := range records {
		i, ok := idx[r.Country]
		if !ok {
			i = len(out)
			idx[r.Country] = i
			out = append(out, CountryOrders{Country: r.Country})
		}

		out[i].Orders++
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Orders > out[j].Orders })

	return out
}

// TopCountries returns at most n countries by order volume.
func TopCountries(records []record.Record, n int) []CountryOrders {
	return limit(OrdersByCountry(records), n)
}

// NetLossCustomerCount counts distinct customers whose summed profit is
// strictly negative. Customers summing to exactly zero are excluded.
func NetLossCustomerCount(records []record.Record) int {
	totals := make(map[string]decimal.Decimal)

	for _, r := range records {
		totals[r.CustomerID] = totals[r.CustomerID].Add(r.Profit)
	}

	count := 0

	for _, total := range totals {
		if total.IsNegative() {
			count++
		}
	}

	return count
}

// TotalSales sums quantity times unit price over the set. Empty set yields
// zero, not an error.
func TotalSales(records []record.Record) decimal.Decimal {
	total := decimal.Zero

	for _, r := range records {
		total = total.Add(r.Amount())
	}

	return total
}

// TotalProfit sums the profit estimate over the set. Empty set yields zero.
func TotalProfit(records []record.Record) decimal.Decimal {
	total := decimal.Zero

	for _, r := range records {
		total = total.Add(r.Profit)
	}

	return total
}

// Range returns the min and max invoice timestamp. The second return is false
// for an empty set: the range is undefined, not zero.
func Range(records []record.Record) (DateRange, bool) {
	if len(records) == 0 {
		return DateRange{}, false
	}

	dr := DateRange{From: records[0].InvoiceDate, To: records[0].InvoiceDate}

	for _, r := range records[1:] {
		if r.InvoiceDate.Before(dr.From) {
			dr.From = r.InvoiceDate
		}

		if r.InvoiceDate.After(dr.To) {
			dr.To = r.InvoiceDate
		}
	}

	return dr, true
}

// SalesOverTime sums sales per exact invoice timestamp, chronologically.
func SalesOverTime(records []record.Record) []TimePoint {
	idx := make(map[time.Time]int)
	out := []TimePoint{}

	for _, r := range records {
		i, ok := idx[r.InvoiceDate]
		if !ok {
			i = len(out)
			idx[r.InvoiceDate] = i
			out = append(out, TimePoint{Date: r.InvoiceDate})
		}

		out[i].Sales = out[i].Sales.Add(r.Amount())
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return out
}

// MonthlySales sums sales per calendar month, chronologically. The series is
// contiguous: every month between the first and last invoice date gets a
// point, with zero sales where no records fall.
func MonthlySales(records []record.Record) []MonthPoint {
	dr, ok := Range(records)
	if !ok {
		return []MonthPoint{}
	}

	totals := make(map[string]decimal.Decimal)

	for _, r := range records {
		month := r.InvoiceDate.Format("2006-01")
		totals[month] = totals[month].Add(r.Amount())
	}

	first := time.Date(dr.From.Year(), dr.From.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(dr.To.Year(), dr.To.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := []MonthPoint{}

	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		month := m.Format("2006-01")
		out = append(out, MonthPoint{Month: month, Sales: totals[month]})
	}

	return out
}

// TopCustomersBySpend sums spend per customer and returns at most n,
// descending by spend.
func TopCustomersBySpend(records []record.Record, n int) []CustomerSpend {
	idx := make(map[string]int)
	out := []CustomerSpend{}

	for _, r := range records {
		i, ok := idx[r.CustomerID]
		if !ok {
			i = len(out)
			idx[r.CustomerID] = i
			out = append(out, CustomerSpend{CustomerID: r.CustomerID})
		}

		out[i].Spend = out[i].Spend.Add(r.Amount())
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Spend.GreaterThan(out[j].Spend) })

	return limit(out, n)
}

// Countries returns the distinct non-empty countries in the set, sorted
// alphabetically, for the select widget's option list.
func Countries(records []record.Record) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, r := range records {
		if r.Country == "" {
			continue
		}

		if _, ok := seen[r.Country]; ok {
			continue
		}

		seen[r.Country] = struct{}{}
		out = append(out, r.Country)
	}

	sort.Strings(out)

	return out
}

func limit[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}

	return s
}
