// Package command builds the argument vector for a database client from a resolved
// block configuration. Building is pure: it never touches the filesystem or network.
package command

import (
	"strings"

	"sqlblock/cli/internal/dsn"
	"sqlblock/cli/internal/options"
)

// Invocation is one run of a database client: program, arguments and the query on stdin.
// The database token is always the last argument, even when it is empty.
type Invocation struct {
	Program string
	Args    []string
	Stdin   string
}

// Argv returns the program followed by its arguments.
func (i Invocation) Argv() []string {
	return append([]string{i.Program}, i.Args...)
}

// String renders the invocation as a shell command line, for display only.
func (i Invocation) String() string {
	parts := make([]string, 0, len(i.Args)+1)
	for _, a := range i.Argv() {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

// Dialect maps a resolved configuration onto one client's flag surface.
type Dialect interface {
	// DefaultProgram is the client binary used when none is configured.
	DefaultProgram() string
	// Flags returns every argument except the program and the trailing database token.
	Flags(cfg options.Config) []string
}

// DialectFor returns the dialect of an engine. DuckDB's shell mirrors the sqlite3 flags.
func DialectFor(engine dsn.Engine) Dialect {
	switch engine {
	case dsn.EnginePostgreSQL:
		return Postgres{}
	case dsn.EngineDuckDB:
		return Shell{Program: "duckdb"}
	default:
		return Shell{Program: "sqlite3"}
	}
}

// Build turns a configuration and assembled query text into an invocation.
func Build(cfg options.Config, queryText string) Invocation {
	d := DialectFor(cfg.Engine)
	program := cfg.Program
	if program == "" {
		program = d.DefaultProgram()
	}
	args := d.Flags(cfg)
	args = append(args, cfg.DB)
	return Invocation{Program: program, Args: args, Stdin: queryText}
}

// Shell is the sqlite3-style shell dialect.
type Shell struct {
	Program string
}

func (s Shell) DefaultProgram() string { return s.Program }

func (s Shell) Flags(cfg options.Config) []string {
	var args []string
	if cfg.Colnames {
		args = append(args, "-header")
	} else {
		args = append(args, "-noheader")
	}
	if cfg.HasSeparator {
		args = append(args, "-separator", cfg.Separator)
	}
	if cfg.HasNullValue {
		args = append(args, "-nullvalue", cfg.NullValue)
	}
	for _, f := range cfg.Flags {
		args = append(args, "-"+f)
	}
	if !cfg.ExplicitMode() {
		args = append(args, "-csv")
	}
	return args
}

// Postgres is the psql dialect. psqlrc is skipped and the row-count footer disabled
// so the output carries only the result rows.
type Postgres struct{}

func (Postgres) DefaultProgram() string { return "psql" }

func (Postgres) Flags(cfg options.Config) []string {
	args := []string{"-X", "-q", "-P", "footer=off"}
	if !cfg.Colnames {
		args = append(args, "-t")
	}
	if cfg.HasSeparator {
		args = append(args, "-A", "-F", cfg.Separator)
	}
	if cfg.HasNullValue {
		args = append(args, "-P", "null="+cfg.NullValue)
	}
	for _, f := range cfg.Flags {
		switch f {
		case "echo":
			args = append(args, "-e")
		case "bail":
			args = append(args, "-v", "ON_ERROR_STOP=1")
		case "csv":
			args = append(args, "--csv")
		case "html":
			args = append(args, "-H")
		case "list":
			args = append(args, "-A")
		case "line":
			args = append(args, "-x")
		}
	}
	if !cfg.ExplicitMode() {
		args = append(args, "--csv")
	}
	return args
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, needsQuote) == -1 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./:=@,+%", r)
}
