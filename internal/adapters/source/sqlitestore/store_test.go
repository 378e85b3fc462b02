package sqlitestore_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kaplanm/puantaj/internal/adapters/source/sqlitestore"
	. "github.com/smartystreets/goconvey/convey"
)

const schema = `
CREATE TABLE checklist_instances (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	completed_at INTEGER NOT NULL,
	approved INTEGER NOT NULL,
	kategori TEXT NOT NULL
);
CREATE TABLE checklist_questions (
	instance_id TEXT NOT NULL,
	puan REAL,
	maksimum_puan REAL
);
CREATE TABLE mold_change_tasks (
	id TEXT PRIMARY KEY,
	primary_id TEXT NOT NULL,
	buddy_id TEXT,
	completed_at INTEGER NOT NULL,
	puan REAL,
	maksimum_puan REAL,
	primer_yuzde REAL
);
CREATE TABLE hr_evaluations (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	evaluated_at INTEGER NOT NULL
);
CREATE TABLE hr_evaluation_items (
	evaluation_id TEXT NOT NULL,
	puan REAL,
	maksimum_puan REAL,
	alinan_puan REAL,
	max_puan REAL
);
CREATE TABLE payroll_adjustments (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	occurred_at INTEGER NOT NULL,
	tur TEXT NOT NULL,
	saat REAL,
	puan REAL
);`

func newSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	at := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC).Unix()
	seed := []struct {
		stmt string
		args []any
	}{
		{`INSERT INTO checklist_instances VALUES (?, ?, ?, ?, ?)`, []any{"cl-1", "U1", at, 1, "rutin"}},
		{`INSERT INTO checklist_questions VALUES (?, ?, ?)`, []any{"cl-1", 3.0, 4.0}},
		{`INSERT INTO checklist_questions VALUES (?, ?, ?)`, []any{"cl-1", 2.0, 2.0}},
		{`INSERT INTO mold_change_tasks VALUES (?, ?, ?, ?, ?, ?, ?)`, []any{"mc-1", "U1", "U2", at, 20.0, 20.0, nil}},
		{`INSERT INTO hr_evaluations VALUES (?, ?, ?)`, []any{"ik-1", "U1", at}},
		{`INSERT INTO hr_evaluation_items VALUES (?, ?, ?, ?, ?)`, []any{"ik-1", 7.0, 10.0, nil, nil}},
		{`INSERT INTO hr_evaluation_items VALUES (?, ?, ?, ?, ?)`, []any{"ik-1", nil, nil, 4.0, 5.0}},
		{`INSERT INTO payroll_adjustments VALUES (?, ?, ?, ?, ?, ?)`, []any{"py-1", "U1", at, "mesai", 3.0, nil}},
	}
	for _, row := range seed {
		if _, err := db.Exec(row.stmt, row.args...); err != nil {
			t.Fatalf("seed snapshot: %v", err)
		}
	}
	return path
}

func TestStore(t *testing.T) {
	window := func() (time.Time, time.Time) {
		return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	}

	Convey("Given a snapshot with one row per source", t, func() {
		store, err := sqlitestore.Open(newSnapshot(t))
		So(err, ShouldBeNil)
		defer store.Close()

		ctx := context.Background()
		from, to := window()

		Convey("When listing completed checklists", func() {
			rows, err := store.ListCompleted(ctx, "U1", from, to)

			Convey("Then the instance and its questions come back", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].ID, ShouldEqual, "cl-1")
				So(rows[0].Approved, ShouldBeTrue)
				So(rows[0].Fields["kategori"], ShouldEqual, "rutin")
				So(rows[0].Questions, ShouldHaveLength, 2)
				So(rows[0].Questions[0]["puan"], ShouldEqual, 3.0)
			})
		})

		Convey("When listing mold changes for the buddy", func() {
			rows, err := store.MoldChanges().ListCompleted(ctx, "U2", from, to)

			Convey("Then the shared task is visible from both sides", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].PrimaryID, ShouldEqual, "U1")
				So(rows[0].BuddyID, ShouldEqual, "U2")
				So(rows[0].Fields["puan"], ShouldEqual, 20.0)
				_, hasSplit := rows[0].Fields["primerYuzde"]
				So(hasSplit, ShouldBeFalse)
			})
		})

		Convey("When listing HR evaluations", func() {
			rows, err := store.ListEvaluations(ctx, "U1", from, to)

			Convey("Then each item keeps its own column generation", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Items, ShouldHaveLength, 2)
				So(rows[0].Items[0]["puan"], ShouldEqual, 7.0)
				So(rows[0].Items[1]["alinanPuan"], ShouldEqual, 4.0)
				_, hasModern := rows[0].Items[1]["puan"]
				So(hasModern, ShouldBeFalse)
			})
		})

		Convey("When listing payroll adjustments", func() {
			rows, err := store.ListAdjustments(ctx, "U1", from, to)

			Convey("Then the adjustment carries its kind and hours", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Kind, ShouldEqual, "mesai")
				So(rows[0].Fields["saat"], ShouldEqual, 3.0)
			})
		})

		Convey("When the window excludes the rows", func() {
			past := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
			rows, err := store.ListCompleted(ctx, "U1", past, past.AddDate(0, 1, 0))

			Convey("Then nothing comes back", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})

		Convey("When querying an unknown user", func() {
			rows, err := store.ListAdjustments(ctx, "ghost", from, to)
			So(err, ShouldBeNil)
			So(rows, ShouldBeEmpty)
		})
	})
}
