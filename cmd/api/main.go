package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/retaildash/retaildash/internal/config"
	"github.com/retaildash/retaildash/internal/dataset"
	"github.com/retaildash/retaildash/internal/export"
	retailHttp "github.com/retaildash/retaildash/internal/http"
	exportHandler "github.com/retaildash/retaildash/internal/http/export"
	insightsHandler "github.com/retaildash/retaildash/internal/http/insights"
	"github.com/retaildash/retaildash/internal/insights"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store := dataset.NewStore(decimal.NewFromFloat(cfg.Data.ProfitMargin))

	// Probe the file once so a missing dataset shows up in the log at
	// startup. Requests keep answering with a clear message either way.
	if _, err := store.Get(cfg.Data.File); err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			slog.Warn("dataset file missing, dashboard will report it until the file appears", "path", cfg.Data.File)
		} else {
			slog.Error("failed to load dataset", "error", err)
			os.Exit(1)
		}
	}

	var (
		insightsService = insights.NewService(store, cfg.Data.File)
		exportService   = export.NewService(insightsService)
	)

	var (
		insightsH = insightsHandler.NewHandler(insightsService)
		exportH   = exportHandler.NewHandler(exportService)
	)

	router := retailHttp.New(insightsH, exportH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "port", server.Addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
