// Package options resolves the header-argument bag of a query block into a typed
// configuration for the database client.
//
// Header arguments are user-authored and resolution is forgiving: a value of the wrong
// type degrades to "flag omitted" and the client default applies.
package options

import (
	"strings"

	"sqlblock/cli/internal/dsn"
)

// Bag maps an option name (without the leading colon) to its value.
// A value is a string, a bool, or nil when the key was given without a value.
// A missing key means "use the client default".
type Bag map[string]any

// Has reports whether key is present, whatever its value.
func (b Bag) Has(key string) bool {
	_, ok := b[key]
	return ok
}

// String returns the value of key when it is a string.
func (b Bag) String(key string) (string, bool) {
	s, ok := b[key].(string)
	return s, ok
}

// Passthrough flags in the canonical order they are forwarded to the client.
var PassthroughFlags = []string{"header", "echo", "bail", "column", "csv", "html", "line", "list"}

// ModeFlags are the passthrough flags that select the client's own output mode.
var ModeFlags = []string{"csv", "column", "line", "list", "html"}

// Config is the resolved configuration of one block execution.
type Config struct {
	Engine  dsn.Engine
	Program string
	DB      string

	Separator    string
	HasSeparator bool
	NullValue    string
	HasNullValue bool

	// Colnames requests header display: the client prints a header line and the
	// normalizer separates it from the data rows.
	Colnames bool

	// Flags holds the passthrough flags present in the bag, in canonical order.
	Flags []string

	Results  []string
	Prologue string
	Epilogue string
}

// HasFlag reports whether the passthrough flag name is set.
func (c Config) HasFlag(name string) bool {
	for _, f := range c.Flags {
		if f == name {
			return true
		}
	}
	return false
}

// ExplicitMode reports whether the client's output shape is chosen by the user,
// either through a mode flag or a separator. Otherwise the structured default mode is forced.
func (c Config) ExplicitMode() bool {
	if c.HasSeparator {
		return true
	}
	for _, m := range ModeFlags {
		if c.HasFlag(m) {
			return true
		}
	}
	return false
}

// HasResult reports whether any of the given tokens appears in the results option.
func (c Config) HasResult(tokens ...string) bool {
	for _, r := range c.Results {
		for _, t := range tokens {
			if r == t {
				return true
			}
		}
	}
	return false
}

// Resolver turns a Bag into a Config. Program is the client binary to run; it is
// injected rather than read from global state so callers can use different clients.
type Resolver struct {
	Engine  dsn.Engine
	Program string
}

// Resolve never fails. The db value is taken verbatim; engine prefixes are handled upstream.
func (r Resolver) Resolve(bag Bag) Config {
	cfg := Config{
		Engine:  r.Engine,
		Program: r.Program,
	}

	cfg.DB, _ = bag.String("db")
	cfg.Separator, cfg.HasSeparator = bag.String("separator")
	cfg.NullValue, cfg.HasNullValue = bag.String("nullvalue")

	if v, ok := bag.String("colnames"); ok && v == "yes" {
		cfg.Colnames = true
	}

	// Presence alone forwards a flag, even ":echo no".
	for _, name := range PassthroughFlags {
		if bag.Has(name) {
			cfg.Flags = append(cfg.Flags, name)
		}
	}

	if v, ok := bag.String("results"); ok {
		cfg.Results = strings.Fields(v)
	}
	cfg.Prologue, _ = bag.String("prologue")
	cfg.Epilogue, _ = bag.String("epilogue")

	return cfg
}
