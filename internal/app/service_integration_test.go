package app_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/kaplanm/puantaj/internal/adapters/source"
	"github.com/kaplanm/puantaj/internal/app"
	"github.com/kaplanm/puantaj/internal/domain/model"
	"github.com/kaplanm/puantaj/internal/seed"
	. "github.com/smartystreets/goconvey/convey"
)

func newSeededService() *app.Service {
	stores := seed.NewStores()
	gen := seed.NewGenerator(
		seed.WithUsers("operator-1", "operator-2", "operator-3"),
		seed.WithStart(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		seed.WithDays(31),
		seed.WithSeed(7),
	)
	gen.Populate(stores)

	return app.New(app.WithAdapters(
		source.NewChecklistAdapter(stores.Checklists),
		source.NewMoldChangeAdapter(stores.MoldChanges),
		source.NewHRTemplateAdapter(stores.HRTemplates),
		source.NewPayrollAdapter(stores.Payroll),
	))
}

func TestGenerateSeededMonth(t *testing.T) {
	Convey("Given a month of seeded data across all four sources", t, func() {
		svc := newSeededService()

		Convey("When generating a full-month report for one operator", func() {
			rep, err := svc.Generate(context.Background(), "operator-1", testRange, nil)

			Convey("Then the report is complete", func() {
				So(err, ShouldBeNil)
				So(rep.Partial, ShouldBeFalse)
				So(rep.Warnings, ShouldBeEmpty)
				So(rep.DailySeries, ShouldNotBeEmpty)
				So(rep.Drilldown, ShouldNotBeEmpty)
			})

			Convey("Then the monthly total equals the sum of daily totals", func() {
				var sum float64
				for _, day := range rep.DailySeries {
					sum += day.TotalScore
				}
				So(rep.Monthly.TotalScore, ShouldAlmostEqual, sum, 1e-9)
			})

			Convey("Then every daily total equals the sum of its category tallies", func() {
				for _, day := range rep.DailySeries {
					var sum float64
					for _, tally := range day.CategoryTotals {
						sum += tally.Points
					}
					So(day.TotalScore, ShouldAlmostEqual, sum, 1e-9)
				}
			})

			Convey("Then category percentages sum to one", func() {
				var pct float64
				for _, share := range rep.CategoryBreakdown {
					pct += share.PercentOfTotal
				}
				So(pct, ShouldAlmostEqual, 1.0, 1e-9)
			})

			Convey("Then the daily series is ordered and inside the range", func() {
				for i, day := range rep.DailySeries {
					So(testRange.Contains(day.Date), ShouldBeTrue)
					if i > 0 {
						So(rep.DailySeries[i-1].Date.Before(day.Date), ShouldBeTrue)
					}
				}
			})
		})

		Convey("When generating the same report twice", func() {
			first, err1 := svc.Generate(context.Background(), "operator-2", testRange, nil)
			second, err2 := svc.Generate(context.Background(), "operator-2", testRange, nil)

			Convey("Then the outputs are byte-identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				a, _ := json.Marshal(first)
				b, _ := json.Marshal(second)
				So(string(a), ShouldEqual, string(b))
			})
		})

		Convey("When a mold-change task was shared", func() {
			reports, err := svc.GenerateBatch(context.Background(), []string{"operator-1", "operator-2", "operator-3"}, testRange, nil)
			So(err, ShouldBeNil)

			Convey("Then each task's shares across participants sum to one", func() {
				shares := make(map[string]float64)
				for _, rep := range reports {
					for _, entry := range rep.Drilldown {
						if entry.SourceType != source.TypeMoldChange {
							continue
						}
						shares[entry.SourceID]++
					}
				}
				// Every seeded task has a primary and a buddy, so each
				// source id must appear in exactly two reports.
				So(shares, ShouldNotBeEmpty)
				for _, count := range shares {
					So(count, ShouldEqual, 2)
				}
			})
		})

		Convey("When restricting scope to a different team", func() {
			rep, err := svc.Generate(context.Background(), "operator-1", testRange, []string{"operator-1"})
			So(err, ShouldBeNil)

			Convey("Then only the scoped user's records appear", func() {
				So(rep.UserID, ShouldEqual, "operator-1")
				for _, entry := range rep.Drilldown {
					So(testRange.Contains(entry.Date), ShouldBeTrue)
				}
			})
		})
	})
}

func TestGenerateWeekWindow(t *testing.T) {
	Convey("Given the seeded month", t, func() {
		svc := newSeededService()
		week := model.DateRange{
			Start: model.Date{Year: 2024, Month: 3, Day: 4},
			End:   model.Date{Year: 2024, Month: 3, Day: 10},
		}

		Convey("When generating a one-week report", func() {
			rep, err := svc.Generate(context.Background(), "operator-1", week, nil)

			Convey("Then no record leaks outside the window", func() {
				So(err, ShouldBeNil)
				for _, entry := range rep.Drilldown {
					So(week.Contains(entry.Date), ShouldBeTrue)
				}
				for _, day := range rep.DailySeries {
					So(week.Contains(day.Date), ShouldBeTrue)
				}
			})
		})
	})
}
