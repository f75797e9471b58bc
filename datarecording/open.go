package datarecording

import (
	"errors"
	"fmt"
)

// ErrUnknownBackend is returned when a recorder type is not supported.
var ErrUnknownBackend = errors.New("unknown recorder backend")

// Supported recorder backends.
const (
	BackendSQLite     = "sqlite"
	BackendClickHouse = "clickhouse"
)

// RecorderConfig selects and configures a DataRecorder backend.
type RecorderConfig struct {
	// Type is either "sqlite" (the default) or "clickhouse".
	Type string

	// Path is the SQLite file name without extension.
	Path string

	// DSN is the ClickHouse connection string.
	DSN string

	BatchSize int
}

// Open creates the DataRecorder described by cfg.
func Open(cfg RecorderConfig) (DataRecorder, error) {
	switch cfg.Type {
	case "", BackendSQLite:
		return New(cfg.Path), nil
	case BackendClickHouse:
		return NewClickHouseRecorder(cfg.DSN, cfg.BatchSize)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Type)
	}
}
