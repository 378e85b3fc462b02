package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kaplanm/puantaj/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCategory(t *testing.T) {
	Convey("Given the category enumeration", t, func() {
		Convey("When listing categories", func() {
			cats := model.Categories()

			Convey("Then the reporting order is fixed", func() {
				So(cats, ShouldResemble, []model.Category{
					model.CategoryChecklist,
					model.CategoryEventTask,
					model.CategoryQualityControl,
					model.CategoryHRTemplate,
					model.CategoryOvertime,
					model.CategoryAbsence,
					model.CategoryControlScore,
					model.CategoryBonus,
				})
			})

			Convey("And the returned slice is a copy", func() {
				cats[0] = model.Category("mutated")
				So(model.Categories()[0], ShouldEqual, model.CategoryChecklist)
			})
		})

		Convey("When parsing a known category", func() {
			c, err := model.ParseCategory("overtime")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, model.CategoryOvertime)
		})

		Convey("When parsing an unknown category", func() {
			_, err := model.ParseCategory("espresso")
			So(err, ShouldNotBeNil)
			So(errors.Is(err, model.ErrUnknownCategory), ShouldBeTrue)
		})
	})
}

func TestDate(t *testing.T) {
	Convey("Given civil dates", t, func() {
		Convey("When deriving a date from a timestamp", func() {
			loc, err := time.LoadLocation("Europe/Istanbul")
			So(err, ShouldBeNil)

			// 23:30 UTC on March 1st is already March 2nd in Istanbul.
			ts := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
			d := model.DateOf(ts.In(loc))

			Convey("Then the date follows the converted wall clock", func() {
				So(d, ShouldResemble, model.Date{Year: 2024, Month: 3, Day: 2})
			})
		})

		Convey("When parsing and formatting", func() {
			d, err := model.ParseDate("2024-03-01")
			So(err, ShouldBeNil)
			So(d.String(), ShouldEqual, "2024-03-01")
		})

		Convey("When parsing garbage", func() {
			_, err := model.ParseDate("03/01/2024")
			So(err, ShouldNotBeNil)
		})

		Convey("When comparing dates", func() {
			a := model.Date{Year: 2024, Month: 2, Day: 29}
			b := model.Date{Year: 2024, Month: 3, Day: 1}
			So(a.Before(b), ShouldBeTrue)
			So(b.After(a), ShouldBeTrue)
			So(a.Before(a), ShouldBeFalse)
		})

		Convey("When marshaling to JSON", func() {
			data, err := json.Marshal(model.Date{Year: 2024, Month: 3, Day: 1})
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `"2024-03-01"`)
		})
	})
}

func TestDateRange(t *testing.T) {
	Convey("Given date ranges", t, func() {
		Convey("When the range is well-formed", func() {
			r := model.DateRange{
				Start: model.Date{Year: 2024, Month: 3, Day: 1},
				End:   model.Date{Year: 2024, Month: 3, Day: 31},
			}
			So(r.Validate(), ShouldBeNil)
			So(r.Days(), ShouldEqual, 31)
			So(r.Contains(model.Date{Year: 2024, Month: 3, Day: 1}), ShouldBeTrue)
			So(r.Contains(model.Date{Year: 2024, Month: 3, Day: 31}), ShouldBeTrue)
			So(r.Contains(model.Date{Year: 2024, Month: 4, Day: 1}), ShouldBeFalse)
		})

		Convey("When the range is inverted", func() {
			r := model.DateRange{
				Start: model.Date{Year: 2024, Month: 3, Day: 31},
				End:   model.Date{Year: 2024, Month: 3, Day: 1},
			}
			err := r.Validate()
			So(err, ShouldNotBeNil)
			So(errors.Is(err, model.ErrInvalidRange), ShouldBeTrue)
		})

		Convey("When the range is empty", func() {
			err := model.DateRange{}.Validate()
			So(err, ShouldNotBeNil)
			So(errors.Is(err, model.ErrInvalidRange), ShouldBeTrue)
		})
	})
}

func TestYearMonth(t *testing.T) {
	Convey("Given a year-month", t, func() {
		ym := model.YearMonth{Year: 2024, Month: 3}

		Convey("When checking membership", func() {
			So(ym.Contains(model.Date{Year: 2024, Month: 3, Day: 15}), ShouldBeTrue)
			So(ym.Contains(model.Date{Year: 2024, Month: 4, Day: 1}), ShouldBeFalse)
		})

		Convey("When formatting", func() {
			So(ym.String(), ShouldEqual, "2024-03")
		})
	})
}

func TestTally(t *testing.T) {
	Convey("Given two tallies", t, func() {
		a := model.Tally{Points: 5, MaxPoints: 10, Count: 1}
		b := model.Tally{Points: 3, MaxPoints: 5, Count: 2}

		Convey("When adding them", func() {
			sum := a.Add(b)
			So(sum, ShouldResemble, model.Tally{Points: 8, MaxPoints: 15, Count: 3})
		})
	})
}
