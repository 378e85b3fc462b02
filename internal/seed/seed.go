// Package seed populates the in-memory source stores with synthetic
// evaluation records for demo mode and integration tests. Generation is
// driven by a fixed-seed RNG so repeated runs produce the same shape of
// data.
package seed

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kaplanm/puantaj/internal/adapters/source"
	"github.com/kaplanm/puantaj/internal/domain/normalize"
)

// Default generation constants.
const (
	defaultSeed         = 42
	defaultDays         = 30
	checklistsPerDay    = 2
	questionsPerList    = 5
	hrItemsPerTemplate  = 4
	moldChangeEveryDays = 3
)

// Stores bundles the in-memory stores the generator fills.
type Stores struct {
	Checklists  *source.InMemoryChecklistStore
	MoldChanges *source.InMemoryMoldChangeStore
	HRTemplates *source.InMemoryHRTemplateStore
	Payroll     *source.InMemoryPayrollStore
}

// NewStores creates an empty store bundle.
func NewStores() Stores {
	return Stores{
		Checklists:  source.NewInMemoryChecklistStore(),
		MoldChanges: source.NewInMemoryMoldChangeStore(),
		HRTemplates: source.NewInMemoryHRTemplateStore(),
		Payroll:     source.NewInMemoryPayrollStore(),
	}
}

// Generator produces synthetic source records.
type Generator struct {
	rng   *rand.Rand
	users []string
	days  int
	from  time.Time
}

// GeneratorOption applies a configuration option to the Generator.
type GeneratorOption func(*Generator)

// WithUsers sets the user ids records are generated for.
func WithUsers(users ...string) GeneratorOption {
	return func(g *Generator) {
		if len(users) > 0 {
			g.users = users
		}
	}
}

// WithDays sets how many days of history to generate, ending today.
func WithDays(days int) GeneratorOption {
	return func(g *Generator) {
		if days > 0 {
			g.days = days
		}
	}
}

// WithStart sets the first day of generated history.
func WithStart(from time.Time) GeneratorOption {
	return func(g *Generator) {
		if !from.IsZero() {
			g.from = from
		}
	}
}

// WithSeed sets the RNG seed.
func WithSeed(seed int64) GeneratorOption {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for reproducible demo data
	}
}

// NewGenerator creates a generator with default configuration.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		rng:   rand.New(rand.NewSource(defaultSeed)), //nolint:gosec // deterministic seed for reproducible demo data
		users: []string{"operator-1", "operator-2", "operator-3"},
		days:  defaultDays,
		from:  time.Now().UTC().AddDate(0, 0, -defaultDays),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Populate fills the stores with one history window of records.
func (g *Generator) Populate(stores Stores) {
	for day := 0; day < g.days; day++ {
		at := g.from.AddDate(0, 0, day).Add(8 * time.Hour)

		for _, user := range g.users {
			g.addChecklists(stores, user, at)
			g.addPayroll(stores, user, at)
		}

		if day%moldChangeEveryDays == 0 && len(g.users) >= 2 {
			g.addMoldChange(stores, at)
		}
		if day%7 == 0 {
			for _, user := range g.users {
				g.addHRTemplate(stores, user, at)
			}
		}
	}
}

func (g *Generator) addChecklists(stores Stores, user string, at time.Time) {
	for i := 0; i < checklistsPerDay; i++ {
		kategori := "rutin"
		if g.rng.Intn(4) == 0 {
			kategori = "olay"
		}
		questions := make([]normalize.RawFields, questionsPerList)
		for q := range questions {
			maxScore := float64(g.rng.Intn(3) + 1)
			questions[q] = normalize.RawFields{
				"puan":         maxScore * float64(g.rng.Intn(101)) / 100,
				"maksimumPuan": maxScore,
			}
		}
		stores.Checklists.Add(source.ChecklistRow{
			ID:          uuid.New().String(),
			UserID:      user,
			CompletedAt: at.Add(time.Duration(i) * time.Hour),
			Approved:    true,
			Fields:      normalize.RawFields{"kategori": kategori},
			Questions:   questions,
		})
	}
}

func (g *Generator) addMoldChange(stores Stores, at time.Time) {
	primary := g.users[g.rng.Intn(len(g.users))]
	buddy := primary
	for buddy == primary {
		buddy = g.users[g.rng.Intn(len(g.users))]
	}
	points := float64(g.rng.Intn(15) + 5)
	fields := normalize.RawFields{
		"puan":         points,
		"maksimumPuan": points,
	}
	// A minority of tasks carry an explicit role-weighted split.
	if g.rng.Intn(3) == 0 {
		fields["primerYuzde"] = 60.0
	}
	stores.MoldChanges.Add(source.MoldChangeRow{
		ID:          uuid.New().String(),
		PrimaryID:   primary,
		BuddyID:     buddy,
		CompletedAt: at.Add(2 * time.Hour),
		Fields:      fields,
	})
}

func (g *Generator) addHRTemplate(stores Stores, user string, at time.Time) {
	items := make([]normalize.RawFields, hrItemsPerTemplate)
	legacy := g.rng.Intn(2) == 0
	for i := range items {
		max := float64(g.rng.Intn(5) + 5)
		points := max * float64(g.rng.Intn(101)) / 100
		if legacy {
			items[i] = normalize.RawFields{"alinanPuan": points, "maxPuan": max}
		} else {
			items[i] = normalize.RawFields{"puan": points, "maksimumPuan": max}
		}
	}
	stores.HRTemplates.Add(source.HRTemplateRow{
		ID:          uuid.New().String(),
		UserID:      user,
		EvaluatedAt: at.Add(3 * time.Hour),
		Items:       items,
	})
}

func (g *Generator) addPayroll(stores Stores, user string, at time.Time) {
	switch g.rng.Intn(6) {
	case 0:
		stores.Payroll.Add(source.PayrollRow{
			ID:         uuid.New().String(),
			UserID:     user,
			OccurredAt: at.Add(10 * time.Hour),
			Kind:       source.PayrollOvertime,
			Fields:     normalize.RawFields{"saat": float64(g.rng.Intn(4) + 1)},
		})
	case 1:
		stores.Payroll.Add(source.PayrollRow{
			ID:         uuid.New().String(),
			UserID:     user,
			OccurredAt: at,
			Kind:       source.PayrollAbsence,
			Fields:     normalize.RawFields{"saat": float64(g.rng.Intn(8) + 1)},
		})
	case 2:
		stores.Payroll.Add(source.PayrollRow{
			ID:         uuid.New().String(),
			UserID:     user,
			OccurredAt: at.Add(12 * time.Hour),
			Kind:       source.PayrollBonus,
			Fields:     normalize.RawFields{"puan": float64(g.rng.Intn(10) + 1)},
		})
	}
}
