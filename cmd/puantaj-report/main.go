// Command puantaj-report exports a performance report as JSON from a
// SQLite snapshot of the operations database, for dashboards and batch
// tooling that do not talk to the HTTP service.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaplanm/puantaj/internal/adapters/source"
	"github.com/kaplanm/puantaj/internal/adapters/source/sqlitestore"
	app "github.com/kaplanm/puantaj/internal/app"
	"github.com/kaplanm/puantaj/internal/domain/model"
	"github.com/kaplanm/puantaj/internal/domain/report"
	"github.com/kaplanm/puantaj/pkg/logger"
)

var (
	flagUser     string
	flagStart    string
	flagEnd      string
	flagDB       string
	flagOut      string
	flagTimezone string
	flagScope    string
	flagSplit    float64
)

var rootCmd = &cobra.Command{
	Use:   "puantaj-report",
	Short: "Export a personnel performance report as JSON",
	Long: `puantaj-report recomputes one user's daily and monthly performance
figures from a SQLite snapshot of the evaluation stores and writes the
report as JSON to stdout or a file.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&flagUser, "user", "", "user id, or comma-separated ids for a team export (required)")
	rootCmd.Flags().StringVar(&flagStart, "start", "", "range start, YYYY-MM-DD (required)")
	rootCmd.Flags().StringVar(&flagEnd, "end", "", "range end, YYYY-MM-DD (required)")
	rootCmd.Flags().StringVar(&flagDB, "db", "", "SQLite snapshot path (required)")
	rootCmd.Flags().StringVar(&flagOut, "out", "", "output file (default stdout)")
	rootCmd.Flags().StringVar(&flagTimezone, "timezone", "Europe/Istanbul", "reporting timezone")
	rootCmd.Flags().StringVar(&flagScope, "scope", "", "comma-separated allowed user ids")
	rootCmd.Flags().Float64Var(&flagSplit, "primary-split", 0.5, "default mold-change primary split")

	_ = rootCmd.MarkFlagRequired("user")
	_ = rootCmd.MarkFlagRequired("start")
	_ = rootCmd.MarkFlagRequired("end")
	_ = rootCmd.MarkFlagRequired("db")
}

func run(cmd *cobra.Command, _ []string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	_ = logger.SetLevelString("warn")

	loc, err := time.LoadLocation(flagTimezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", flagTimezone, err)
	}

	start, err := model.ParseDate(flagStart)
	if err != nil {
		return err
	}
	end, err := model.ParseDate(flagEnd)
	if err != nil {
		return err
	}

	store, err := sqlitestore.Open(flagDB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	engine := app.New(
		app.WithLogger(logger.Get().Named("export")),
		app.WithAdapters(
			source.NewChecklistAdapter(store, source.WithChecklistLocation(loc)),
			source.NewMoldChangeAdapter(store.MoldChanges(),
				source.WithMoldChangeLocation(loc),
				source.WithPrimarySplit(flagSplit),
			),
			source.NewHRTemplateAdapter(store, source.WithHRTemplateLocation(loc)),
			source.NewPayrollAdapter(store, source.WithPayrollLocation(loc)),
		),
	)

	var allowed []string
	if flagScope != "" {
		allowed = strings.Split(flagScope, ",")
	}

	dateRange := model.DateRange{Start: start, End: end}

	var out any
	if users := strings.Split(flagUser, ","); len(users) > 1 {
		reports, err := engine.GenerateBatch(cmd.Context(), users, dateRange, allowed)
		if err != nil {
			return err
		}
		out = teamExport{Reports: reports, Ranking: report.Rank(reports)}
	} else {
		rep, err := engine.Generate(cmd.Context(), flagUser, dateRange, allowed)
		if err != nil {
			return err
		}
		out = rep
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')

	if flagOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(flagOut, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// teamExport is the multi-user output shape: per-user reports plus a
// ranking by monthly total.
type teamExport struct {
	Reports []report.Report    `json:"reports"`
	Ranking []report.RankEntry `json:"ranking"`
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
