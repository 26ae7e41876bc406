package export

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retaildash/retaildash/internal/dataset"
	"github.com/retaildash/retaildash/internal/export"
	"github.com/retaildash/retaildash/internal/insights"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// filterFromQuery reads the same control widget state the insights endpoint
// accepts, so the download always matches what the dashboard shows.
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

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	// Buffer the file so a failure mid-write cannot corrupt a download that
	// already has success headers.
	var buf bytes.Buffer

	if err := h.svc.Export(&buf, filterFromQuery(r)); err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		slog.Error("export failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)

	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
