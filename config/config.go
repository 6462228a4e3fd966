// Package config defines the tool's settings and how they are layered.
package config

import (
	"github.com/danielpuglisi/kn-cli/logger"
	"github.com/danielpuglisi/kn-cli/persist"
	"github.com/danielpuglisi/kn-cli/roster"
	"github.com/danielpuglisi/kn-cli/scoring"
)

// Config holds every setting. Paths are taken as given, relative to the working directory.
type Config struct {
	Roster  string `koanf:"roster"`
	Catalog string `koanf:"catalog"`
	Data    string `koanf:"data"`

	Storage       Storage       `koanf:"storage"`
	RosterColumns RosterColumns `koanf:"roster_columns"`
	Scoring       Scoring       `koanf:"scoring"`
	Theme         Theme         `koanf:"theme"`

	// Keymap is an optional TOML file of key binding overrides
	Keymap string `koanf:"keymap"`

	Log     Log     `koanf:"log"`
	Metrics Metrics `koanf:"metrics"`
	Layout  Layout  `koanf:"layout"`
	Report  Report  `koanf:"report"`
}

// Storage selects the data backend: auto, json or sqlite
type Storage struct {
	Driver string `koanf:"driver"`
}

// RosterColumns names the roster header fields
type RosterColumns struct {
	FirstName string `koanf:"first_name"`
	LastName  string `koanf:"last_name"`
	ID        string `koanf:"id"`
}

// Scoring is the linear grade rule; MaxPoints 0 uses the catalog's cap sum
type Scoring struct {
	MaxPoints float64 `koanf:"max_points"`
	Base      float64 `koanf:"base"`
	Span      float64 `koanf:"span"`
}

// Theme controls the selection highlight
type Theme struct {
	Highlight string `koanf:"highlight"`
	ColorMode string `koanf:"color_mode"`
}

type Log struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	File    string `koanf:"file"`
	Level   string `koanf:"level"`
}

// Metrics.Textfile, when set, receives a Prometheus text dump on exit
type Metrics struct {
	Textfile string `koanf:"textfile"`
}

type Layout struct {
	TitleWidth int `koanf:"title_width"`
}

// Report parameters; an empty Date means today
type Report struct {
	OutDir     string `koanf:"out_dir"`
	Instructor string `koanf:"instructor"`
	Date       string `koanf:"date"`
}

// New returns the defaults
func New() *Config {
	cols := roster.DefaultColumns()
	return &Config{
		Storage: Storage{Driver: persist.DriverAuto},
		RosterColumns: RosterColumns{
			FirstName: cols.FirstName,
			LastName:  cols.LastName,
			ID:        cols.ID,
		},
		Scoring: Scoring{
			MaxPoints: scoring.DefaultMaxPoints,
			Base:      scoring.DefaultBase,
			Span:      scoring.DefaultSpan,
		},
		Theme: Theme{Highlight: "yellow", ColorMode: "auto"},
		Log: Log{
			Dir:   logger.DefaultDir,
			File:  logger.DefaultFile,
			Level: "info",
		},
		Layout: Layout{TitleWidth: 40},
		Report: Report{OutDir: "tmp"},
	}
}

// Columns converts to the roster loader's form
func (c *Config) Columns() roster.Columns {
	return roster.Columns{
		FirstName: c.RosterColumns.FirstName,
		LastName:  c.RosterColumns.LastName,
		ID:        c.RosterColumns.ID,
	}
}

// Scorer converts to the grading rule
func (c *Config) Scorer() scoring.Scorer {
	return scoring.Scorer{MaxPoints: c.Scoring.MaxPoints, Base: c.Scoring.Base, Span: c.Scoring.Span}
}

// LoggerConfig converts to the logger's form
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{Enabled: c.Log.Enabled, Dir: c.Log.Dir, File: c.Log.File, Level: c.Log.Level}
}
