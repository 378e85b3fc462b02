package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kaplanm/puantaj/internal/adapters/http/api"
	"github.com/kaplanm/puantaj/internal/adapters/source"
	"github.com/kaplanm/puantaj/internal/adapters/source/sqlitestore"
	app "github.com/kaplanm/puantaj/internal/app"
	"github.com/kaplanm/puantaj/internal/config"
	"github.com/kaplanm/puantaj/internal/seed"
	"github.com/kaplanm/puantaj/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection; the service registers its
	// own metrics on a custom registry.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	adapters, cleanup, err := buildAdapters(cfg)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build source adapters", logger.Error(err))
		return
	}
	defer cleanup()

	engine := app.New(
		app.WithLogger(loggerInstance.Named("engine")),
		app.WithAdapters(adapters...),
		app.WithFetchTimeout(cfg.FetchTimeout()),
		app.WithMaxRangeDays(cfg.MaxRangeDays),
	)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(engine)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildAdapters wires the four score source adapters over either a
// SQLite snapshot or seeded in-memory stores, per configuration.
func buildAdapters(cfg *config.Config) ([]source.Adapter, func(), error) {
	loc := cfg.Location()
	cleanup := func() {}

	var (
		checklists  source.ChecklistStore
		moldChanges source.MoldChangeStore
		hrTemplates source.HRTemplateStore
		payroll     source.PayrollStore
	)

	if cfg.SQLiteDSN != "" {
		store, err := sqlitestore.Open(cfg.SQLiteDSN)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() { _ = store.Close() }
		checklists = store
		moldChanges = store.MoldChanges()
		hrTemplates = store
		payroll = store
	} else {
		stores := seed.NewStores()
		if cfg.Demo {
			seed.NewGenerator().Populate(stores)
		}
		checklists = stores.Checklists
		moldChanges = stores.MoldChanges
		hrTemplates = stores.HRTemplates
		payroll = stores.Payroll
	}

	adapters := []source.Adapter{
		source.NewChecklistAdapter(checklists, source.WithChecklistLocation(loc)),
		source.NewMoldChangeAdapter(moldChanges,
			source.WithMoldChangeLocation(loc),
			source.WithPrimarySplit(cfg.PrimarySplit),
		),
		source.NewHRTemplateAdapter(hrTemplates, source.WithHRTemplateLocation(loc)),
		source.NewPayrollAdapter(payroll,
			source.WithPayrollLocation(loc),
			source.WithOvertimeRate(cfg.OvertimeRate),
			source.WithAbsencePenalty(cfg.AbsencePenalty),
		),
	}
	return adapters, cleanup, nil
}
