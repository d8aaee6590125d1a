// Package sqlexec runs a query block end to end: it resolves the block's header
// arguments, assembles the query text, builds the client invocation, runs it and
// normalizes the captured output into a result for the document.
//
// Every execution is a fresh one-shot client process. Sessions are rejected before
// anything is started.
package sqlexec

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"sqlblock/cli/internal/command"
	"sqlblock/cli/internal/dsn"
	apperrors "sqlblock/cli/internal/errors"
	"sqlblock/cli/internal/keychain"
	"sqlblock/cli/internal/logging"
	"sqlblock/cli/internal/options"
	"sqlblock/cli/internal/query"
	"sqlblock/cli/internal/result"
	"sqlblock/cli/internal/runner"
)

// Block is one query block of a document.
type Block struct {
	// Language is the block's source language. "sql" or "" picks the engine from the db value.
	Language string
	Body     string
	Params   options.Bag
	Vars     map[string]string
}

// AliasResolver looks up named connections referenced as `:db @name`.
type AliasResolver interface {
	LoadAlias(name string) (string, error)
}

// Plan is a fully resolved execution that has not been run.
type Plan struct {
	Config     options.Config
	Invocation command.Invocation
}

// rawResults are the result tokens that splice the client output verbatim.
var rawResults = []string{"scalar", "verbatim", "html", "code"}

// listSeparator is the column separator sqlite3, duckdb and psql use in list mode.
const listSeparator = "|"

// Executor executes blocks. The zero value runs sqlite3 with the default literal parser.
type Executor struct {
	// Programs overrides the client binary per engine.
	Programs map[dsn.Engine]string
	Runner   runner.Runner
	Parser   result.LiteralParser
	Aliases  AliasResolver
	Logger   *pterm.Logger
	// Timeout bounds one client run; zero waits for the client indefinitely.
	Timeout time.Duration
}

// New creates an Executor running clients through os/exec.
func New(programs map[dsn.Engine]string) *Executor {
	return &Executor{
		Programs: programs,
		Runner:   runner.Exec{},
		Parser:   result.DefaultParser,
		Logger:   logging.Discard(),
	}
}

// Prepare resolves a block into a plan without running anything.
func (e *Executor) Prepare(b Block) (Plan, error) {
	if err := checkSession(b.Params); err != nil {
		return Plan{}, err
	}

	params := options.Bag{}
	for k, v := range b.Params {
		params[k] = v
	}

	db, _ := params.String("db")
	if strings.HasPrefix(db, "@") {
		resolved, err := e.lookupAlias(strings.TrimPrefix(db, "@"))
		if err != nil {
			return Plan{}, err
		}
		db = resolved
	}

	engine, ok := dsn.EngineForLanguage(b.Language)
	if !ok {
		engine = dsn.Detect(db)
	}
	if db != "" {
		normalized, err := dsn.Parse(engine, db)
		if err != nil {
			return Plan{}, apperrors.Wrap(apperrors.InvalidArguments, "resolve :db", err)
		}
		params["db"] = normalized
	}

	cfg := options.Resolver{Engine: engine, Program: e.Programs[engine]}.Resolve(params)
	text := query.Assemble(cfg.Prologue, query.Expand(b.Body, b.Vars), cfg.Epilogue)
	return Plan{Config: cfg, Invocation: command.Build(cfg, text)}, nil
}

// Execute runs a block and returns its normalized result.
func (e *Executor) Execute(ctx context.Context, b Block) (result.Result, error) {
	plan, err := e.Prepare(b)
	if err != nil {
		return nil, err
	}

	log := e.logger()
	log.Debug("executing query block",
		log.Args("engine", plan.Config.Engine, "command", logging.Mask(plan.Invocation.String())))

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	r := e.Runner
	if r == nil {
		r = runner.Exec{}
	}
	start := time.Now()
	out, err := r.Run(ctx, plan.Invocation)
	log.Trace("client finished",
		log.Args("exit_code", out.ExitCode, "output_bytes", len(out.Text), "elapsed", time.Since(start).String()))
	if err != nil {
		return nil, err
	}

	return Finish(plan.Config, out.Text, e.Parser), nil
}

// Finish turns captured client output into the block's result. Raw result types
// keep the output as one string; everything else goes through the normalizer.
func Finish(cfg options.Config, raw string, parser result.LiteralParser) result.Result {
	if cfg.HasResult(rawResults...) {
		return result.Scalar{Value: strings.TrimRight(raw, "\r\n")}
	}
	sep := cfg.Separator
	if !cfg.HasSeparator && cfg.HasFlag("list") {
		sep = listSeparator
	}
	return result.Normalize(raw, result.Options{
		HeaderDisplay: cfg.Colnames,
		Explicit:      cfg.ExplicitMode(),
		Separator:     sep,
		Parser:        parser,
	})
}

func (e *Executor) lookupAlias(name string) (string, error) {
	if e.Aliases == nil {
		return "", apperrors.New(apperrors.AliasNotFound, fmt.Sprintf("connection @%s: no keychain available", name))
	}
	v, err := e.Aliases.LoadAlias(name)
	if err != nil {
		if errors.Is(err, keychain.ErrNotFound) {
			return "", apperrors.New(apperrors.AliasNotFound, fmt.Sprintf("connection @%s is not stored; run: sqlblock connect %s", name, name))
		}
		return "", apperrors.Wrap(apperrors.AliasNotFound, fmt.Sprintf("load connection @%s", name), err)
	}
	return v, nil
}

func (e *Executor) logger() *pterm.Logger {
	if e.Logger == nil {
		return logging.Discard()
	}
	return e.Logger
}

// checkSession rejects persistent sessions. ":session none" is the explicit opt-out.
func checkSession(params options.Bag) error {
	if !params.Has("session") {
		return nil
	}
	if v, ok := params.String("session"); ok && (v == "none" || v == "no") {
		return nil
	}
	return apperrors.New(apperrors.UnsupportedSessionMode, "sessions are not supported for database blocks; each block runs a fresh client")
}
