// Package runner executes a database client invocation as a one-shot child process.
//
// The query is written to the client's stdin and everything the client prints, on
// stdout and stderr alike, is captured into a single buffer in write order.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"sqlblock/cli/internal/command"
	apperrors "sqlblock/cli/internal/errors"
)

// Output is the raw text captured from one client run.
type Output struct {
	Text     string
	ExitCode int
}

// Runner runs an invocation to completion.
type Runner interface {
	Run(ctx context.Context, inv command.Invocation) (Output, error)
}

// Exec runs invocations with os/exec.
type Exec struct {
	// Env, when non-nil, replaces the child's environment.
	Env []string
}

// Run blocks until the client exits. A missing binary or a non-zero exit status is
// reported as an ExecutionFailed error carrying the captured output; nothing is retried.
// Cancelling ctx kills the client.
func (e Exec) Run(ctx context.Context, inv command.Invocation) (Output, error) {
	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	cmd.Stdin = strings.NewReader(inv.Stdin)
	if e.Env != nil {
		cmd.Env = e.Env
	}
	// Children of the client may hold the output pipe after a kill.
	cmd.WaitDelay = 2 * time.Second

	// One buffer for both streams keeps the client's interleaving.
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	out := Output{Text: buf.String()}
	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		out.ExitCode = -1
		return out, apperrors.Execution(fmt.Sprintf("%s killed: timeout elapsed", inv.Program), out.Text, -1, ctx.Err())
	case errors.Is(ctx.Err(), context.Canceled):
		out.ExitCode = -1
		return out, apperrors.Execution(fmt.Sprintf("%s killed: cancelled", inv.Program), out.Text, -1, ctx.Err())
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
		return out, apperrors.Execution(fmt.Sprintf("%s exited with status %d", inv.Program, out.ExitCode), out.Text, out.ExitCode, err)
	case errors.Is(err, exec.ErrNotFound):
		out.ExitCode = -1
		return out, apperrors.Execution(fmt.Sprintf("database client %q not found", inv.Program), out.Text, -1, err)
	default:
		out.ExitCode = -1
		return out, apperrors.Execution(fmt.Sprintf("run %s", inv.Program), out.Text, -1, err)
	}
}
