package source

import (
	"context"
	"sync"
	"time"
)

// In-memory store implementations backing the adapters in demo mode and
// tests. All stores are safe for concurrent reads and writes.

// InMemoryChecklistStore implements ChecklistStore over a slice.
type InMemoryChecklistStore struct {
	mu   sync.RWMutex
	rows []ChecklistRow
}

// NewInMemoryChecklistStore creates an empty in-memory checklist store.
func NewInMemoryChecklistStore() *InMemoryChecklistStore {
	return &InMemoryChecklistStore{}
}

// Add appends rows to the store.
func (s *InMemoryChecklistStore) Add(rows ...ChecklistRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

// ListCompleted returns the user's rows with completion timestamps in [from, to).
func (s *InMemoryChecklistStore) ListCompleted(ctx context.Context, userID string, from, to time.Time) ([]ChecklistRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ChecklistRow
	for _, row := range s.rows {
		if row.UserID == userID && inWindow(row.CompletedAt, from, to) {
			out = append(out, row)
		}
	}
	return out, nil
}

// InMemoryMoldChangeStore implements MoldChangeStore over a slice.
type InMemoryMoldChangeStore struct {
	mu   sync.RWMutex
	rows []MoldChangeRow
}

// NewInMemoryMoldChangeStore creates an empty in-memory mold-change store.
func NewInMemoryMoldChangeStore() *InMemoryMoldChangeStore {
	return &InMemoryMoldChangeStore{}
}

// Add appends rows to the store.
func (s *InMemoryMoldChangeStore) Add(rows ...MoldChangeRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

// ListCompleted returns rows where the user participated as primary or
// buddy, with completion timestamps in [from, to).
func (s *InMemoryMoldChangeStore) ListCompleted(ctx context.Context, userID string, from, to time.Time) ([]MoldChangeRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []MoldChangeRow
	for _, row := range s.rows {
		if (row.PrimaryID == userID || row.BuddyID == userID) && inWindow(row.CompletedAt, from, to) {
			out = append(out, row)
		}
	}
	return out, nil
}

// InMemoryHRTemplateStore implements HRTemplateStore over a slice.
type InMemoryHRTemplateStore struct {
	mu   sync.RWMutex
	rows []HRTemplateRow
}

// NewInMemoryHRTemplateStore creates an empty in-memory HR template store.
func NewInMemoryHRTemplateStore() *InMemoryHRTemplateStore {
	return &InMemoryHRTemplateStore{}
}

// Add appends rows to the store.
func (s *InMemoryHRTemplateStore) Add(rows ...HRTemplateRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

// ListEvaluations returns the user's rows with evaluation timestamps in [from, to).
func (s *InMemoryHRTemplateStore) ListEvaluations(ctx context.Context, userID string, from, to time.Time) ([]HRTemplateRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []HRTemplateRow
	for _, row := range s.rows {
		if row.UserID == userID && inWindow(row.EvaluatedAt, from, to) {
			out = append(out, row)
		}
	}
	return out, nil
}

// InMemoryPayrollStore implements PayrollStore over a slice.
type InMemoryPayrollStore struct {
	mu   sync.RWMutex
	rows []PayrollRow
}

// NewInMemoryPayrollStore creates an empty in-memory payroll store.
func NewInMemoryPayrollStore() *InMemoryPayrollStore {
	return &InMemoryPayrollStore{}
}

// Add appends rows to the store.
func (s *InMemoryPayrollStore) Add(rows ...PayrollRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

// ListAdjustments returns the user's rows with timestamps in [from, to).
func (s *InMemoryPayrollStore) ListAdjustments(ctx context.Context, userID string, from, to time.Time) ([]PayrollRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []PayrollRow
	for _, row := range s.rows {
		if row.UserID == userID && inWindow(row.OccurredAt, from, to) {
			out = append(out, row)
		}
	}
	return out, nil
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
