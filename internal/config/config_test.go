package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/agustinnadalich/conexus-play-sub000/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.StorageDriver, convey.ShouldEqual, config.DriverMemory)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 500_000)
			convey.So(cfg.MaxImportBatch, convey.ShouldEqual, 10_000)
			convey.So(cfg.MaxSessions, convey.ShouldEqual, 256)
			convey.So(cfg.OurTeams, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad value each", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":          func(c *config.Config) { c.Addr = " " },
			"unknown level":       func(c *config.Config) { c.LogLevel = "loud" },
			"unknown format":      func(c *config.Config) { c.LogFormat = "xml" },
			"unknown driver":      func(c *config.Config) { c.StorageDriver = "postgres" },
			"sqlite without path": func(c *config.Config) { c.StorageDriver = config.DriverSQLite; c.SQLitePath = "" },
			"negative dedupe":     func(c *config.Config) { c.DedupeSize = -1 },
			"zero batch":          func(c *config.Config) { c.MaxImportBatch = 0 },
			"zero sessions":       func(c *config.Config) { c.MaxSessions = 0 },
		}

		for name, mutate := range cases {
			cfg := config.New(context.Background())
			mutate(cfg)
			err := cfg.Validate()

			convey.Convey("Then "+name+" should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then a zero dedupe size is allowed", func() {
			cfg := config.New(context.Background())
			cfg.DedupeSize = 0
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
