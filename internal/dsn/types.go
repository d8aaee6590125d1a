// Copyright (c) 2025 sqlblock
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn classifies the database value of a query block (the `:db` header argument)
// and normalizes it into the form the engine's command-line client expects.
package dsn

import "fmt"

// Engine identifies the database shell a block is executed with.
type Engine string

const (
	EngineSQLite     Engine = "sqlite"
	EngineDuckDB     Engine = "duckdb"
	EnginePostgreSQL Engine = "postgresql"
)

// Engines lists every supported engine in display order.
var Engines = []Engine{EngineSQLite, EngineDuckDB, EnginePostgreSQL}

// DSNInfo contains parsed information from a database value.
// File engines only populate Path; PostgreSQL populates the connection fields.
type DSNInfo struct {
	Engine   Engine
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Params   map[string]string
	Original string
	// Verbatim marks values handed to the client unchanged, such as psql connection strings.
	Verbatim bool
}

// String returns the database value as it was given.
func (d *DSNInfo) String() string {
	return d.Original
}

// Resolver is an interface for engine-specific database value resolution
type Resolver interface {
	// Parse parses a database value and returns its components
	Parse(dsn string) (*DSNInfo, error)

	// Normalize converts DSN info to the argument handed to the client
	Normalize(info *DSNInfo) (string, error)
}

// ParseError represents an error that occurred during DSN parsing
type ParseError struct {
	DSN    string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid database value: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid database value: %s", e.Reason)
}

// NewParseError creates a new ParseError
func NewParseError(dsn, reason, hint string) *ParseError {
	return &ParseError{
		DSN:    dsn,
		Reason: reason,
		Hint:   hint,
	}
}
