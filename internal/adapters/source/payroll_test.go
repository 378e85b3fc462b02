package source_test

import (
	"context"
	"testing"
	"time"

	"github.com/kaplanm/puantaj/internal/adapters/source"
	"github.com/kaplanm/puantaj/internal/domain/model"
	"github.com/kaplanm/puantaj/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPayrollAdapter(t *testing.T) {
	Convey("Given an overtime adjustment of 3 hours", t, func() {
		store := source.NewInMemoryPayrollStore()
		store.Add(source.PayrollRow{
			ID:         "py-1",
			UserID:     "U",
			OccurredAt: time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC),
			Kind:       source.PayrollOvertime,
			Fields:     normalize.RawFields{"saat": 3.0},
		})
		adapter := source.NewPayrollAdapter(store)

		Convey("When fetching", func() {
			res, err := adapter.Fetch(context.Background(), "U", testRange)

			Convey("Then hours convert at the default rate", func() {
				So(err, ShouldBeNil)
				So(res.Records, ShouldHaveLength, 1)
				So(res.Records[0].Category, ShouldEqual, model.CategoryOvertime)
				So(res.Records[0].Points, ShouldEqual, 6.0)
			})
		})

		Convey("When fetching with a custom rate", func() {
			custom := source.NewPayrollAdapter(store, source.WithOvertimeRate(1.5))
			res, err := custom.Fetch(context.Background(), "U", testRange)

			Convey("Then the configured rate applies", func() {
				So(err, ShouldBeNil)
				So(res.Records[0].Points, ShouldEqual, 4.5)
			})
		})
	})

	Convey("Given an absence adjustment of 2 hours", t, func() {
		store := source.NewInMemoryPayrollStore()
		store.Add(source.PayrollRow{
			ID:         "py-2",
			UserID:     "U",
			OccurredAt: time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC),
			Kind:       source.PayrollAbsence,
			Fields:     normalize.RawFields{"sure": 2.0},
		})
		adapter := source.NewPayrollAdapter(store)

		Convey("When fetching", func() {
			res, err := adapter.Fetch(context.Background(), "U", testRange)

			Convey("Then the record carries negative points", func() {
				So(err, ShouldBeNil)
				So(res.Records, ShouldHaveLength, 1)
				So(res.Records[0].Category, ShouldEqual, model.CategoryAbsence)
				So(res.Records[0].Points, ShouldEqual, -6.0)
			})
		})
	})

	Convey("Given a bonus adjustment", t, func() {
		store := source.NewInMemoryPayrollStore()
		store.Add(source.PayrollRow{
			ID:         "py-3",
			UserID:     "U",
			OccurredAt: time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC),
			Kind:       source.PayrollBonus,
			Fields:     normalize.RawFields{"tutar": 15.0},
		})
		adapter := source.NewPayrollAdapter(store)

		Convey("When fetching", func() {
			res, err := adapter.Fetch(context.Background(), "U", testRange)

			Convey("Then the amount passes through as points", func() {
				So(err, ShouldBeNil)
				So(res.Records, ShouldHaveLength, 1)
				So(res.Records[0].Category, ShouldEqual, model.CategoryBonus)
				So(res.Records[0].Points, ShouldEqual, 15.0)
			})
		})
	})

	Convey("Given an adjustment with an unknown kind", t, func() {
		store := source.NewInMemoryPayrollStore()
		store.Add(source.PayrollRow{
			ID:         "py-4",
			UserID:     "U",
			OccurredAt: time.Date(2024, 3, 7, 8, 0, 0, 0, time.UTC),
			Kind:       "yemek",
			Fields:     normalize.RawFields{"tutar": 5.0},
		})
		adapter := source.NewPayrollAdapter(store)

		Convey("When fetching", func() {
			res, err := adapter.Fetch(context.Background(), "U", testRange)

			Convey("Then the row is skipped with a warning", func() {
				So(err, ShouldBeNil)
				So(res.Records, ShouldBeEmpty)
				So(res.Warnings, ShouldHaveLength, 1)
				So(res.Warnings[0], ShouldContainSubstring, "py-4")
			})
		})
	})

	Convey("Given an overtime row with no hours field", t, func() {
		store := source.NewInMemoryPayrollStore()
		store.Add(source.PayrollRow{
			ID:         "py-5",
			UserID:     "U",
			OccurredAt: time.Date(2024, 3, 8, 8, 0, 0, 0, time.UTC),
			Kind:       source.PayrollOvertime,
			Fields:     normalize.RawFields{},
		})
		adapter := source.NewPayrollAdapter(store)

		Convey("When fetching", func() {
			res, err := adapter.Fetch(context.Background(), "U", testRange)

			Convey("Then missing hours coerce to a zero-point record", func() {
				So(err, ShouldBeNil)
				So(res.Records, ShouldHaveLength, 1)
				So(res.Records[0].Points, ShouldEqual, 0.0)
			})
		})
	})
}
