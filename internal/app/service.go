// Package app provides the performance aggregation engine that the HTTP
// API and the export CLI depend on.
package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kaplanm/puantaj/internal/adapters/source"
	"github.com/kaplanm/puantaj/internal/domain/aggregate"
	"github.com/kaplanm/puantaj/internal/domain/model"
	"github.com/kaplanm/puantaj/internal/domain/report"
	"github.com/kaplanm/puantaj/internal/domain/scope"
	"github.com/kaplanm/puantaj/pkg/logger"
	"github.com/kaplanm/puantaj/pkg/metrics"
)

// Default engine configuration constants.
const (
	defaultFetchTimeout = 5 * time.Second
	defaultMaxRangeDays = 92
)

// Service is the aggregation engine. It owns no state beyond its
// adapters and configuration; every report is recomputed from source
// data and discarded after the response.
type Service struct {
	adapters     []source.Adapter
	fetchTimeout time.Duration
	maxRangeDays int
	logger       logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithAdapters sets the score source adapters the engine fans out to.
func WithAdapters(adapters ...source.Adapter) Option {
	return func(s *Service) {
		if len(adapters) > 0 {
			s.adapters = adapters
		}
	}
}

// WithFetchTimeout bounds each adapter fetch individually.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.fetchTimeout = timeout
		}
	}
}

// WithMaxRangeDays caps the requested date range length.
func WithMaxRangeDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.maxRangeDays = days
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		fetchTimeout: defaultFetchTimeout,
		maxRangeDays: defaultMaxRangeDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("engine")
	}
	return s
}

// fetchOutcome is one adapter's slot in the fan-out join. Slots keep a
// fixed order so identical inputs produce byte-identical reports.
type fetchOutcome struct {
	name   string
	result source.Result
	err    error
}

// Generate produces one user's performance report for the inclusive
// date range. Per-source failures degrade the report to partial with
// itemized warnings; only malformed input fails the request.
func (s *Service) Generate(ctx context.Context, userID string, dateRange model.DateRange, allowedUserIDs []string) (report.Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordReportLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := s.validateRequest(userID, dateRange); err != nil {
		return report.Report{}, err
	}

	allow := scope.NewAllowList(allowedUserIDs)
	if !allow.Allows(userID) {
		return report.Report{}, fmt.Errorf("%w: user %s outside requested scope", ErrInvalidRequest, userID)
	}

	outcomes := s.fetchAll(ctx, userID, dateRange)

	var (
		records  []model.CanonicalScoreRecord
		warnings []string
		partial  bool
	)
	for _, outcome := range outcomes {
		if outcome.err != nil {
			partial = true
			warnings = append(warnings, fmt.Sprintf("source %s unavailable: %v", outcome.name, outcome.err))
			metrics.RecordSourceFetchError(outcome.name)
			s.logger.Warn(ctx, "source fetch failed, continuing without it",
				logger.String("source", outcome.name),
				logger.Error(outcome.err),
			)
			continue
		}
		warnings = append(warnings, outcome.result.Warnings...)
		records = append(records, outcome.result.Records...)
		metrics.RecordSourceRecords(outcome.name, len(outcome.result.Records))
		for range outcome.result.Warnings {
			metrics.RecordRecordRejected(outcome.name)
		}
		metrics.RecordRecordsNormalized(outcome.name, len(outcome.result.Records))
	}

	records = scope.FilterRecords(records, allow)
	sortRecords(records)

	days := aggregate.Daily(records)
	monthly := aggregate.RollUp(userID, days, dateRange.Start.YearMonth())

	rep := report.Build(userID, dateRange, days, monthly, records, partial, warnings)

	metrics.RecordReportGenerated()
	if partial {
		metrics.RecordPartialReport()
	}
	s.logger.Debug(ctx, "report generated",
		logger.String("userID", userID),
		logger.Int("records", len(records)),
		logger.Int("days", len(days)),
		logger.Bool("partial", partial),
	)
	return rep, nil
}

// GenerateBatch produces one report per requested user, in input order.
func (s *Service) GenerateBatch(ctx context.Context, userIDs []string, dateRange model.DateRange, allowedUserIDs []string) ([]report.Report, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("%w: no users requested", ErrInvalidRequest)
	}
	reports := make([]report.Report, 0, len(userIDs))
	for _, userID := range userIDs {
		rep, err := s.Generate(ctx, userID, dateRange, allowedUserIDs)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func (s *Service) validateRequest(userID string, dateRange model.DateRange) error {
	if userID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidRequest)
	}
	if err := dateRange.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if dateRange.Days() > s.maxRangeDays {
		return fmt.Errorf("%w: date range exceeds %d days", ErrInvalidRequest, s.maxRangeDays)
	}
	if len(s.adapters) == 0 {
		return fmt.Errorf("%w: no score sources configured", ErrInvalidRequest)
	}
	return nil
}

// fetchAll runs every adapter fetch concurrently, each under its own
// timeout. A timed-out or errored fetch fills its slot with the error
// and never cancels the sibling fetches.
func (s *Service) fetchAll(ctx context.Context, userID string, dateRange model.DateRange) []fetchOutcome {
	outcomes := make([]fetchOutcome, len(s.adapters))

	var g errgroup.Group
	for i, adapter := range s.adapters {
		g.Go(func() error {
			outcomes[i].name = adapter.Name()

			fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
			defer cancel()

			fetchStart := time.Now()
			result, err := adapter.Fetch(fetchCtx, userID, dateRange)
			metrics.RecordSourceFetchLatency(adapter.Name(), float64(time.Since(fetchStart).Milliseconds()))

			outcomes[i].result = result
			outcomes[i].err = err
			// Failure isolation: errors stay in the slot.
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// sortRecords orders canonical records by date, category enumeration
// order, then source identity, so aggregation input and drill-down
// output are deterministic.
func sortRecords(records []model.CanonicalScoreRecord) {
	order := make(map[model.Category]int, len(model.Categories()))
	for i, c := range model.Categories() {
		order[c] = i
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		if order[a.Category] != order[b.Category] {
			return order[a.Category] < order[b.Category]
		}
		if a.SourceType != b.SourceType {
			return a.SourceType < b.SourceType
		}
		return a.SourceID < b.SourceID
	})
}
