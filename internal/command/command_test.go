package command

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sqlblock/cli/internal/dsn"
	"sqlblock/cli/internal/options"
)

func resolve(engine dsn.Engine, bag options.Bag) options.Config {
	return options.Resolver{Engine: engine}.Resolve(bag)
}

func TestBuildShell(t *testing.T) {
	tests := []struct {
		name string
		bag  options.Bag
		want []string
	}{
		{
			name: "defaults force csv and keep empty database token",
			bag:  options.Bag{},
			want: []string{"sqlite3", "-noheader", "-csv", ""},
		},
		{
			name: "colnames shows header",
			bag:  options.Bag{"colnames": "yes", "db": "notes.db"},
			want: []string{"sqlite3", "-header", "-csv", "notes.db"},
		},
		{
			name: "separator suppresses default mode",
			bag:  options.Bag{"separator": "|", "db": "notes.db"},
			want: []string{"sqlite3", "-noheader", "-separator", "|", "notes.db"},
		},
		{
			name: "nullvalue keeps default mode",
			bag:  options.Bag{"nullvalue": "NULL"},
			want: []string{"sqlite3", "-noheader", "-nullvalue", "NULL", "-csv", ""},
		},
		{
			name: "full canonical order",
			bag: options.Bag{
				"db": "x.db", "separator": ";", "nullvalue": "-", "list": nil, "bail": "no",
				"header": nil, "echo": nil, "colnames": "yes",
			},
			want: []string{"sqlite3", "-header", "-separator", ";", "-nullvalue", "-", "-header", "-echo", "-bail", "-list", "x.db"},
		},
		{
			name: "non-mode passthrough keeps default mode",
			bag:  options.Bag{"echo": nil, "bail": nil},
			want: []string{"sqlite3", "-noheader", "-echo", "-bail", "-csv", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Build(resolve(dsn.EngineSQLite, tt.bag), "select 1;\n")
			assert.Equal(t, tt.want, inv.Argv())
			assert.Equal(t, "select 1;\n", inv.Stdin)
		})
	}
}

func TestBuildDefaultModeOnlyWithoutExplicitMode(t *testing.T) {
	for _, mode := range options.ModeFlags {
		inv := Build(resolve(dsn.EngineSQLite, options.Bag{mode: nil}), "")
		want := 0
		if mode == "csv" {
			// forwarded as a passthrough flag, not as the default
			want = 1
		}
		assert.Equal(t, want, count(inv.Args, "-csv"), mode)
	}

	inv := Build(resolve(dsn.EngineSQLite, options.Bag{"separator": ","}), "")
	assert.Equal(t, 0, count(inv.Args, "-csv"))
}

func TestBuildUsesConfiguredProgram(t *testing.T) {
	cfg := options.Resolver{Engine: dsn.EngineSQLite, Program: "/opt/sqlite/bin/sqlite3"}.Resolve(options.Bag{})
	assert.Equal(t, "/opt/sqlite/bin/sqlite3", Build(cfg, "").Program)

	cfg = resolve(dsn.EngineDuckDB, options.Bag{"db": "lake.duckdb"})
	inv := Build(cfg, "")
	assert.Equal(t, []string{"duckdb", "-noheader", "-csv", "lake.duckdb"}, inv.Argv())
}

func TestBuildPostgres(t *testing.T) {
	tests := []struct {
		name string
		bag  options.Bag
		want []string
	}{
		{
			name: "defaults",
			bag:  options.Bag{"db": "postgresql://u@h:5432/app"},
			want: []string{"psql", "-X", "-q", "-P", "footer=off", "-t", "--csv", "postgresql://u@h:5432/app"},
		},
		{
			name: "colnames separator nullvalue bail",
			bag:  options.Bag{"colnames": "yes", "separator": "|", "nullvalue": "∅", "bail": nil},
			want: []string{"psql", "-X", "-q", "-P", "footer=off", "-A", "-F", "|", "-P", "null=∅", "-v", "ON_ERROR_STOP=1", ""},
		},
		{
			name: "html mode",
			bag:  options.Bag{"html": nil, "echo": nil},
			want: []string{"psql", "-X", "-q", "-P", "footer=off", "-t", "-e", "-H", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(resolve(dsn.EnginePostgreSQL, tt.bag), "").Argv())
		})
	}
}

func TestInvocationString(t *testing.T) {
	inv := Invocation{Program: "sqlite3", Args: []string{"-noheader", "-separator", " | ", "-csv", ""}}
	assert.Equal(t, "sqlite3 -noheader -separator ' | ' -csv ''", inv.String())

	inv = Invocation{Program: "sqlite3", Args: []string{"-nullvalue", "it's", "notes.db"}}
	assert.Equal(t, `sqlite3 -nullvalue 'it'\''s' notes.db`, inv.String())
}

func count(args []string, s string) int {
	n := 0
	for _, a := range args {
		if a == s {
			n++
		}
	}
	return n
}
