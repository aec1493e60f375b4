// Package lint invokes the external documentation linter and captures its
// diagnostic output. The linter is an opaque collaborator: only its stderr
// text is consumed, one diagnostic per line.
package lint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Runner executes the configured lint script and returns its stderr.
type Runner struct {
	script string
	dir    string
}

// NewRunner constructs a lint runner for the given script path, executed
// with dir as the working directory.
func NewRunner(script, dir string) *Runner {
	if dir == "" {
		dir = "."
	}
	return &Runner{script: script, dir: dir}
}

// Collect runs the linter once and returns the captured stderr text. A
// non-zero exit status is expected whenever issues exist, so it is not
// treated as an error; only a failure to start the process (or context
// cancellation) is.
func (r *Runner) Collect(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "bash", r.script)
	cmd.Dir = r.dir

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("lint %s: %w", r.script, ctx.Err())
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("lint %s: %w", r.script, err)
		}
	}

	return stderr.String(), nil
}
