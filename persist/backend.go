package persist

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Backend stores one Document. Load returns nil without error when nothing was saved yet.
type Backend interface {
	Load() (*Document, error)
	Save(doc *Document) error
	Path() string
	Close() error
}

// Storage drivers
const (
	DriverAuto   = "auto"
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Drivers lists accepted driver names
var Drivers = []string{DriverAuto, DriverJSON, DriverSQLite}

// Open selects a backend by driver, or by file extension for auto
func Open(path, driver string) (Backend, error) {
	switch strings.ToLower(driver) {
	case "", DriverAuto:
		switch strings.ToLower(filepath.Ext(path)) {
		case ".db", ".sqlite", ".sqlite3":
			return NewSQLite(path)
		default:
			return NewJSONFile(path), nil
		}
	case DriverJSON:
		return NewJSONFile(path), nil
	case DriverSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, driver)
	}
}
