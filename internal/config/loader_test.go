package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kaplanm/puantaj/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		t.Setenv("PUANTAJ_CONFIG", "")

		Reset(func() {
			os.Unsetenv("PUANTAJ_ADDR")
			os.Unsetenv("PUANTAJ_LOG_LEVEL")
			os.Unsetenv("PUANTAJ_FETCH_TIMEOUT_MS")
			os.Unsetenv("PUANTAJ_PRIMARY_SPLIT")
		})

		Convey("When loading with no overrides", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then the defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.Timezone, ShouldEqual, "Europe/Istanbul")
				So(cfg.FetchTimeout(), ShouldEqual, 5*time.Second)
				So(cfg.PrimarySplit, ShouldEqual, 0.5)
				So(cfg.OvertimeRate, ShouldEqual, 2.0)
				So(cfg.AbsencePenalty, ShouldEqual, 3.0)
				So(cfg.MaxRangeDays, ShouldEqual, 92)
				So(cfg.Demo, ShouldBeFalse)
			})

			Convey("Then the location resolves", func() {
				So(cfg.Location().String(), ShouldEqual, "Europe/Istanbul")
			})
		})

		Convey("When overriding via environment variables", func() {
			t.Setenv("PUANTAJ_ADDR", ":7070")
			t.Setenv("PUANTAJ_LOG_LEVEL", "debug")
			t.Setenv("PUANTAJ_FETCH_TIMEOUT_MS", "250")
			t.Setenv("PUANTAJ_PRIMARY_SPLIT", "0.7")

			cfg, err := config.Load(context.Background())

			Convey("Then env wins over the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.FetchTimeout(), ShouldEqual, 250*time.Millisecond)
				So(cfg.PrimarySplit, ShouldEqual, 0.7)
			})
		})

		Convey("When loading from a YAML file", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "puantaj.yaml")
			content := []byte("addr: \":6060\"\nmax_range_days: 31\ntimezone: \"UTC\"\n")
			So(os.WriteFile(path, content, 0o600), ShouldBeNil)
			t.Setenv("PUANTAJ_CONFIG", path)

			cfg, err := config.Load(context.Background())

			Convey("Then the file layers over the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.MaxRangeDays, ShouldEqual, 31)
				So(cfg.Timezone, ShouldEqual, "UTC")
			})

			Convey("And env still wins over the file", func() {
				t.Setenv("PUANTAJ_ADDR", ":5050")
				cfg, err := config.Load(context.Background())
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":5050")
			})
		})

		Convey("When the config file does not exist", func() {
			t.Setenv("PUANTAJ_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(context.Background())

			Convey("Then loading fails with the load sentinel", func() {
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})
	})
}

func TestLoadValidation(t *testing.T) {
	Convey("Given invalid overrides", t, func() {
		t.Setenv("PUANTAJ_CONFIG", "")

		Convey("When the timezone is unknown", func() {
			t.Setenv("PUANTAJ_TIMEZONE", "Mars/Olympus")
			_, err := config.Load(context.Background())
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When the fetch timeout is not positive", func() {
			t.Setenv("PUANTAJ_FETCH_TIMEOUT_MS", "0")
			_, err := config.Load(context.Background())
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When the primary split is out of range", func() {
			t.Setenv("PUANTAJ_PRIMARY_SPLIT", "1.5")
			_, err := config.Load(context.Background())
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When the range cap is not positive", func() {
			t.Setenv("PUANTAJ_MAX_RANGE_DAYS", "-1")
			_, err := config.Load(context.Background())
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
