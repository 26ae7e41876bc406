package insights

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retaildash/retaildash/internal/dataset"
	"github.com/retaildash/retaildash/internal/insights"
	"github.com/retaildash/retaildash/internal/record"
)

type Handler struct {
	svc *insights.Service
}

func NewHandler(svc *insights.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.report)
	r.Get("/countries", h.countries)
}

type overviewResponse struct {
	DatasetID       uuid.UUID `json:"dataset_id"`
	LoadedAt        time.Time `json:"loaded_at"`
	Rows            int       `json:"rows"`
	Columns         int       `json:"columns"`
	UniqueProducts  int       `json:"unique_products"`
	UniqueCustomers int       `json:"unique_customers"`
}

type productQuantityResponse struct {
	Description string `json:"description"`
	Units       int64  `json:"units"`
}

type productProfitResponse struct {
	Description string          `json:"description"`
	Profit      decimal.Decimal `json:"profit"`
}

type countryOrdersResponse struct {
	Country string `json:"country"`
	Orders  int    `json:"orders"`
}

type customerSpendResponse struct {
	CustomerID string          `json:"customer_id"`
	Spend      decimal.Decimal `json:"spend"`
}

type timePointResponse struct {
	Date  time.Time       `json:"date"`
	Sales decimal.Decimal `json:"sales"`
}

type monthPointResponse struct {
	Month string          `json:"month"`
	Sales decimal.Decimal `json:"sales"`
}

type dateRangeResponse struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type recordResponse struct {
	Invoice     string          `json:"invoice"`
	StockCode   string          `json:"stockcode"`
	Description string          `json:"description,omitempty"`
	Quantity    int64           `json:"quantity"`
	InvoiceDate time.Time       `json:"invoicedate"`
	UnitPrice   decimal.Decimal `json:"unitprice"`
	CustomerID  string          `json:"customerid,omitempty"`
	Country     string          `json:"country"`
	Profit      decimal.Decimal `json:"profit"`
}

type reportResponse struct {
	Overview              overviewResponse          `json:"overview"`
	TopSellingProducts    []productQuantityResponse `json:"top_selling_products"`
	TopProfitableProducts []productProfitResponse   `json:"top_profitable_products"`
	TopCountries          []countryOrdersResponse   `json:"top_countries"`
	NetLossCustomers      int                       `json:"net_loss_customers"`
	TotalSales            decimal.Decimal           `json:"total_sales"`
	TotalProfit           decimal.Decimal           `json:"total_profit"`
	DateRange             *dateRangeResponse        `json:"date_range,omitempty"`
	SalesOverTime         []timePointResponse       `json:"sales_over_time"`
	MonthlySales          []monthPointResponse      `json:"monthly_sales"`
	TopCustomers          []customerSpendResponse   `json:"top_customers"`
	OrdersByCountry       []countryOrdersResponse   `json:"orders_by_country"`
	Preview               []recordResponse          `json:"preview"`
}

type countriesResponse struct {
	Countries []string `json:"countries"`
}

// filterFromQuery reads the dashboard's control widget state from the query
// string. An absent country means no country filter.
func filterFromQuery(r *http.Request) insights.Filter {
	f := insights.Filter{
		Search:  r.URL.Query().Get("search"),
		Country: r.URL.Query().Get("country"),
	}

	if f.Country == "" {
		f.Country = insights.CountryAll
	}

	return f
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.Report(filterFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toReportResponse(rep)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) countries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.svc.Countries()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(countriesResponse{Countries: countries}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps a missing dataset file to a clear user-facing message and
// everything else to a generic 500.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, dataset.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	slog.Error("insights request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func toReportResponse(rep *insights.Report) reportResponse {
	resp := reportResponse{
		Overview: overviewResponse{
			DatasetID:       rep.Overview.DatasetID,
			LoadedAt:        rep.Overview.LoadedAt,
			Rows:            rep.Overview.Rows,
			Columns:         rep.Overview.Columns,
			UniqueProducts:  rep.Overview.UniqueProducts,
			UniqueCustomers: rep.Overview.UniqueCustomers,
		},
		TopSellingProducts:    make([]productQuantityResponse, 0, len(rep.TopSellingProducts)),
		TopProfitableProducts: make([]productProfitResponse, 0, len(rep.TopProfitableProducts)),
		TopCountries:          make([]countryOrdersResponse, 0, len(rep.TopCountries)),
		NetLossCustomers:      rep.NetLossCustomers,
		TotalSales:            rep.TotalSales,
		TotalProfit:           rep.TotalProfit,
		SalesOverTime:         make([]timePointResponse, 0, len(rep.SalesOverTime)),
		MonthlySales:          make([]monthPointResponse, 0, len(rep.MonthlySales)),
		TopCustomers:          make([]customerSpendResponse, 0, len(rep.TopCustomers)),
		OrdersByCountry:       make([]countryOrdersResponse, 0, len(rep.OrdersByCountry)),
		Preview:               make([]recordResponse, 0, len(rep.Preview)),
	}

	if rep.DateRange != nil {
		resp.DateRange = &dateRangeResponse{From: rep.DateRange.From, To: rep.DateRange.To}
	}

	for _, p := range rep.TopSellingProducts {
		resp.TopSellingProducts = append(resp.TopSellingProducts, productQuantityResponse(p))
	}

	for _, p := range rep.TopProfitableProducts {
		resp.TopProfitableProducts = append(resp.TopProfitableProducts, productProfitResponse(p))
	}

	for _, c := range rep.TopCountries {
		resp.TopCountries = append(resp.TopCountries, countryOrdersResponse(c))
	}

	for _, p := range rep.SalesOverTime {
		resp.SalesOverTime = append(resp.SalesOverTime, timePointResponse(p))
	}

	for _, m := range rep.MonthlySales {
		resp.MonthlySales = append(resp.MonthlySales, monthPointResponse(m))
	}

	for _, c := range rep.TopCustomers {
		resp.TopCustomers = append(resp.TopCustomers, customerSpendResponse(c))
	}

	for _, c := range rep.OrdersByCountry {
		resp.OrdersByCountry = append(resp.OrdersByCountry, countryOrdersResponse(c))
	}

	for _, rec := range rep.Preview {
		resp.Preview = append(resp.Preview, toRecordResponse(rec))
	}

	return resp
}

func toRecordResponse(r record.Record) recordResponse {
	return recordResponse{
		Invoice:     r.Invoice,
		StockCode:   r.StockCode,
		Description: r.Description,
		Quantity:    r.Quantity,
		InvoiceDate: r.InvoiceDate,
		UnitPrice:   r.UnitPrice,
		CustomerID:  r.CustomerID,
		Country:     r.Country,
		Profit:      r.Profit,
	}
}
