package options

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sqlblock/cli/internal/dsn"
)

func TestResolve(t *testing.T) {
	r := Resolver{Engine: dsn.EngineSQLite, Program: "sqlite3"}

	tests := []struct {
		name string
		bag  Bag
		want Config
	}{
		{
			name: "empty bag uses client defaults",
			bag:  Bag{},
			want: Config{Engine: dsn.EngineSQLite, Program: "sqlite3"},
		},
		{
			name: "separator and nullvalue pass through",
			bag:  Bag{"db": "notes.db", "separator": "|", "nullvalue": "NULL"},
			want: Config{
				Engine: dsn.EngineSQLite, Program: "sqlite3", DB: "notes.db",
				Separator: "|", HasSeparator: true, NullValue: "NULL", HasNullValue: true,
			},
		},
		{
			name: "empty separator is still configured",
			bag:  Bag{"separator": ""},
			want: Config{Engine: dsn.EngineSQLite, Program: "sqlite3", HasSeparator: true},
		},
		{
			name: "malformed separator degrades to omitted",
			bag:  Bag{"separator": nil, "nullvalue": true},
			want: Config{Engine: dsn.EngineSQLite, Program: "sqlite3"},
		},
		{
			name: "colnames yes",
			bag:  Bag{"colnames": "yes"},
			want: Config{Engine: dsn.EngineSQLite, Program: "sqlite3", Colnames: true},
		},
		{
			name: "colnames other values",
			bag:  Bag{"colnames": "no"},
			want: Config{Engine: dsn.EngineSQLite, Program: "sqlite3"},
		},
		{
			name: "flags forwarded on presence in canonical order",
			bag:  Bag{"list": nil, "echo": "no", "header": false, "csv": "yes"},
			want: Config{
				Engine: dsn.EngineSQLite, Program: "sqlite3",
				Flags: []string{"header", "echo", "csv", "list"},
			},
		},
		{
			name: "results prologue epilogue",
			bag:  Bag{"results": "output  scalar", "prologue": ".timeout 100", "epilogue": ".quit"},
			want: Config{
				Engine: dsn.EngineSQLite, Program: "sqlite3",
				Results: []string{"output", "scalar"}, Prologue: ".timeout 100", Epilogue: ".quit",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.bag))
		})
	}
}

func TestExplicitMode(t *testing.T) {
	r := Resolver{Program: "sqlite3"}

	for _, mode := range ModeFlags {
		assert.True(t, r.Resolve(Bag{mode: nil}).ExplicitMode(), mode)
	}
	assert.True(t, r.Resolve(Bag{"separator": ","}).ExplicitMode())
	assert.False(t, r.Resolve(Bag{"header": nil, "echo": nil, "bail": nil}).ExplicitMode())
	assert.False(t, r.Resolve(Bag{}).ExplicitMode())
}

func TestHasResult(t *testing.T) {
	cfg := Resolver{}.Resolve(Bag{"results": "replace verbatim"})
	assert.True(t, cfg.HasResult("scalar", "verbatim"))
	assert.False(t, cfg.HasResult("silent"))
}
