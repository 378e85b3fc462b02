// Package sqlitestore backs the source store interfaces with a read-only
// SQLite snapshot of the operations database. Timestamps are stored as
// unix seconds; legacy HR item columns keep both schema generations, and
// rows are surfaced with their legacy field names so normalization
// exercises the same resolution tables as any other store.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Register the cgo-free SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/kaplanm/puantaj/internal/adapters/source"
	"github.com/kaplanm/puantaj/internal/domain/normalize"
)

// Store provides the four source store interfaces over one SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens the snapshot database at dsn.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", ErrStore, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: close sqlite: %w", ErrStore, err)
	}
	return nil
}

// ListCompleted implements source.ChecklistStore.
func (s *Store) ListCompleted(ctx context.Context, userID string, from, to time.Time) ([]source.ChecklistRow, error) {
	const query = `
		SELECT id, user_id, completed_at, approved, kategori
		FROM checklist_instances
		WHERE user_id = ? AND completed_at >= ? AND completed_at < ?
		ORDER BY completed_at, id`
	rows, err := s.db.QueryContext(ctx, query, userID, from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("%w: checklist query: %w", ErrStore, err)
	}
	defer rows.Close()

	var out []source.ChecklistRow
	for rows.Next() {
		var (
			row         source.ChecklistRow
			completedAt int64
			approved    int
			kategori    string
		)
		if err := rows.Scan(&row.ID, &row.UserID, &completedAt, &approved, &kategori); err != nil {
			return nil, fmt.Errorf("%w: checklist scan: %w", ErrStore, err)
		}
		row.CompletedAt = time.Unix(completedAt, 0).UTC()
		row.Approved = approved != 0
		row.Fields = normalize.RawFields{"kategori": kategori}

		questions, err := s.listQuestions(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		row.Questions = questions
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: checklist rows: %w", ErrStore, err)
	}
	return out, nil
}

func (s *Store) listQuestions(ctx context.Context, instanceID string) ([]normalize.RawFields, error) {
	const query = `
		SELECT puan, maksimum_puan
		FROM checklist_questions
		WHERE instance_id = ?
		ORDER BY rowid`
	rows, err := s.db.QueryContext(ctx, query, instanceID)
	if err != nil {
		return nil, fmt.Errorf("%w: question query: %w", ErrStore, err)
	}
	defer rows.Close()

	var out []normalize.RawFields
	for rows.Next() {
		var puan, maksimum sql.NullFloat64
		if err := rows.Scan(&puan, &maksimum); err != nil {
			return nil, fmt.Errorf("%w: question scan: %w", ErrStore, err)
		}
		fields := normalize.RawFields{}
		if puan.Valid {
			fields["puan"] = puan.Float64
		}
		if maksimum.Valid {
			fields["maksimumPuan"] = maksimum.Float64
		}
		out = append(out, fields)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: question rows: %w", ErrStore, err)
	}
	return out, nil
}

// listMoldChanges backs the source.MoldChangeStore view returned by
// MoldChanges.
func (s *Store) listMoldChanges(ctx context.Context, userID string, from, to time.Time) ([]source.MoldChangeRow, error) {
	const query = `
		SELECT id, primary_id, buddy_id, completed_at, puan, maksimum_puan, primer_yuzde
		FROM mold_change_tasks
		WHERE (primary_id = ? OR buddy_id = ?) AND completed_at >= ? AND completed_at < ?
		ORDER BY completed_at, id`
	rows, err := s.db.QueryContext(ctx, query, userID, userID, from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("%w: mold change query: %w", ErrStore, err)
	}
	defer rows.Close()

	var out []source.MoldChangeRow
	for rows.Next() {
		var (
			row         source.MoldChangeRow
			buddy       sql.NullString
			completedAt int64
			puan        sql.NullFloat64
			maksimum    sql.NullFloat64
			yuzde       sql.NullFloat64
		)
		if err := rows.Scan(&row.ID, &row.PrimaryID, &buddy, &completedAt, &puan, &maksimum, &yuzde); err != nil {
			return nil, fmt.Errorf("%w: mold change scan: %w", ErrStore, err)
		}
		row.BuddyID = buddy.String
		row.CompletedAt = time.Unix(completedAt, 0).UTC()
		row.Fields = normalize.RawFields{}
		if puan.Valid {
			row.Fields["puan"] = puan.Float64
		}
		if maksimum.Valid {
			row.Fields["maksimumPuan"] = maksimum.Float64
		}
		if yuzde.Valid {
			row.Fields["primerYuzde"] = yuzde.Float64
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: mold change rows: %w", ErrStore, err)
	}
	return out, nil
}

// ListEvaluations implements source.HRTemplateStore.
func (s *Store) ListEvaluations(ctx context.Context, userID string, from, to time.Time) ([]source.HRTemplateRow, error) {
	const query = `
		SELECT id, user_id, evaluated_at
		FROM hr_evaluations
		WHERE user_id = ? AND evaluated_at >= ? AND evaluated_at < ?
		ORDER BY evaluated_at, id`
	rows, err := s.db.QueryContext(ctx, query, userID, from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("%w: hr query: %w", ErrStore, err)
	}
	defer rows.Close()

	var out []source.HRTemplateRow
	for rows.Next() {
		var (
			row         source.HRTemplateRow
			evaluatedAt int64
		)
		if err := rows.Scan(&row.ID, &row.UserID, &evaluatedAt); err != nil {
			return nil, fmt.Errorf("%w: hr scan: %w", ErrStore, err)
		}
		row.EvaluatedAt = time.Unix(evaluatedAt, 0).UTC()

		items, err := s.listItems(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		row.Items = items
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: hr rows: %w", ErrStore, err)
	}
	return out, nil
}

// listItems surfaces whichever legacy column generation each item row
// carries: puan/maksimum_puan or alinan_puan/max_puan.
func (s *Store) listItems(ctx context.Context, evaluationID string) ([]normalize.RawFields, error) {
	const query = `
		SELECT puan, maksimum_puan, alinan_puan, max_puan
		FROM hr_evaluation_items
		WHERE evaluation_id = ?
		ORDER BY rowid`
	rows, err := s.db.QueryContext(ctx, query, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("%w: hr item query: %w", ErrStore, err)
	}
	defer rows.Close()

	var out []normalize.RawFields
	for rows.Next() {
		var puan, maksimum, alinan, maxPuan sql.NullFloat64
		if err := rows.Scan(&puan, &maksimum, &alinan, &maxPuan); err != nil {
			return nil, fmt.Errorf("%w: hr item scan: %w", ErrStore, err)
		}
		fields := normalize.RawFields{}
		if puan.Valid {
			fields["puan"] = puan.Float64
		}
		if maksimum.Valid {
			fields["maksimumPuan"] = maksimum.Float64
		}
		if alinan.Valid {
			fields["alinanPuan"] = alinan.Float64
		}
		if maxPuan.Valid {
			fields["maxPuan"] = maxPuan.Float64
		}
		out = append(out, fields)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: hr item rows: %w", ErrStore, err)
	}
	return out, nil
}

// ListAdjustments implements source.PayrollStore.
func (s *Store) ListAdjustments(ctx context.Context, userID string, from, to time.Time) ([]source.PayrollRow, error) {
	const query = `
		SELECT id, user_id, occurred_at, tur, saat, puan
		FROM payroll_adjustments
		WHERE user_id = ? AND occurred_at >= ? AND occurred_at < ?
		ORDER BY occurred_at, id`
	rows, err := s.db.QueryContext(ctx, query, userID, from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("%w: payroll query: %w", ErrStore, err)
	}
	defer rows.Close()

	var out []source.PayrollRow
	for rows.Next() {
		var (
			row        source.PayrollRow
			occurredAt int64
			saat       sql.NullFloat64
			puan       sql.NullFloat64
		)
		if err := rows.Scan(&row.ID, &row.UserID, &occurredAt, &row.Kind, &saat, &puan); err != nil {
			return nil, fmt.Errorf("%w: payroll scan: %w", ErrStore, err)
		}
		row.OccurredAt = time.Unix(occurredAt, 0).UTC()
		row.Fields = normalize.RawFields{}
		if saat.Valid {
			row.Fields["saat"] = saat.Float64
		}
		if puan.Valid {
			row.Fields["puan"] = puan.Float64
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: payroll rows: %w", ErrStore, err)
	}
	return out, nil
}

// MoldChanges adapts the store to source.MoldChangeStore. The wrapper
// exists because ChecklistStore and MoldChangeStore share the
// ListCompleted method name with different row types.
func (s *Store) MoldChanges() source.MoldChangeStore {
	return moldChangeView{store: s}
}

type moldChangeView struct {
	store *Store
}

func (v moldChangeView) ListCompleted(ctx context.Context, userID string, from, to time.Time) ([]source.MoldChangeRow, error) {
	return v.store.listMoldChanges(ctx, userID, from, to)
}
