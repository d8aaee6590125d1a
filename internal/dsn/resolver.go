// Copyright (c) 2025 sqlblock
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"path/filepath"
	"strings"
)

// schemePrefixes maps the optional engine prefixes accepted in front of a file path.
// Longer prefixes come first so "sqlite3://" is stripped before "sqlite3:".
var schemePrefixes = []struct {
	prefix string
	engine Engine
}{
	{"sqlite3://", EngineSQLite},
	{"sqlite3:", EngineSQLite},
	{"sqlite://", EngineSQLite},
	{"sqlite:", EngineSQLite},
	{"duckdb://", EngineDuckDB},
	{"duckdb:", EngineDuckDB},
}

// Detect returns the engine a database value belongs to.
// Anything that is not recognizably DuckDB or PostgreSQL is treated as a SQLite path,
// including the empty value, which the client turns into a transient database.
func Detect(dsn string) Engine {
	lower := strings.ToLower(strings.TrimSpace(dsn))

	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return EnginePostgreSQL
	}
	for _, p := range schemePrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return p.engine
		}
	}
	switch filepath.Ext(lower) {
	case ".duckdb", ".ddb":
		return EngineDuckDB
	}
	return EngineSQLite
}

// EngineForLanguage maps a source block language to an engine.
// The generic "sql" language reports ok=false so the engine is taken from the database value.
func EngineForLanguage(lang string) (Engine, bool) {
	switch strings.ToLower(lang) {
	case "sqlite", "sqlite3":
		return EngineSQLite, true
	case "duckdb":
		return EngineDuckDB, true
	case "postgresql", "postgres", "psql":
		return EnginePostgreSQL, true
	}
	return "", false
}

// IsQueryLanguage reports whether lang names a block this tool executes.
func IsQueryLanguage(lang string) bool {
	if strings.EqualFold(lang, "sql") {
		return true
	}
	_, ok := EngineForLanguage(lang)
	return ok
}

// ResolverFor returns the resolver for an engine.
func ResolverFor(engine Engine) Resolver {
	switch engine {
	case EnginePostgreSQL:
		return NewPostgreSQLResolver()
	case EngineDuckDB:
		return &FileResolver{Engine: EngineDuckDB}
	default:
		return &FileResolver{Engine: EngineSQLite}
	}
}

// Parse resolves a database value for the given engine and returns the argument for its client.
// An empty engine is detected from the value itself.
func Parse(engine Engine, dsn string) (string, error) {
	info, err := ParseInfo(engine, dsn)
	if err != nil {
		return "", err
	}
	return ResolverFor(info.Engine).Normalize(info)
}

// ParseInfo parses a database value and returns detailed DSN info
// Useful for inspecting connection details
func ParseInfo(engine Engine, dsn string) (*DSNInfo, error) {
	if engine == "" {
		engine = Detect(dsn)
	}
	return ResolverFor(engine).Parse(dsn)
}

// FileResolver handles engines whose database is a local file path.
type FileResolver struct {
	Engine Engine
}

// Parse strips an engine prefix such as "sqlite:" or "duckdb://" from the value.
// A PostgreSQL URL is rejected since a file engine cannot open it.
func (r *FileResolver) Parse(dsn string) (*DSNInfo, error) {
	trimmed := strings.TrimSpace(dsn)
	if Detect(trimmed) == EnginePostgreSQL {
		return nil, NewParseError(dsn, "a PostgreSQL URL cannot be opened by "+string(r.Engine), "use a postgresql block or drop the engine override")
	}

	path := trimmed
	lower := strings.ToLower(trimmed)
	for _, p := range schemePrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			if p.engine != r.Engine {
				return nil, NewParseError(dsn, "database prefix "+p.prefix+" does not match engine "+string(r.Engine), "")
			}
			path = trimmed[len(p.prefix):]
			break
		}
	}

	return &DSNInfo{Engine: r.Engine, Path: path, Original: dsn}, nil
}

// Normalize returns the bare file path.
func (r *FileResolver) Normalize(info *DSNInfo) (string, error) {
	if info == nil {
		return "", NewParseError("", "nil DSN info", "")
	}
	return info.Path, nil
}
