package wpctl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"

	"wpvolume/internal/logging"
)

// Runner executes one wpctl invocation and returns its standard output.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// ExecRunner runs a real executable. Command may carry leading arguments,
// e.g. "flatpak-spawn --host wpctl".
type ExecRunner struct {
	argv    []string
	timeout time.Duration
}

// NewExecRunner splits command shell-style. A zero timeout never expires.
func NewExecRunner(command string, timeout time.Duration) (*ExecRunner, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse executable %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("executable is required")
	}
	return &ExecRunner{argv: argv, timeout: timeout}, nil
}

// Run blocks until the process exits.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	full := append(append([]string{}, r.argv[1:]...), args...)
	logging.Debugf("exec %s %s", r.argv[0], strings.Join(full, " "))

	cmd := exec.CommandContext(ctx, r.argv[0], full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s %s: %w", r.argv[0], strings.Join(full, " "), ctx.Err())
		}
		return "", fmt.Errorf("%s %s failed: %w, output: %s",
			r.argv[0], strings.Join(full, " "), err, strings.TrimSpace(stderr.String()))
	}
	logging.Tracef("output: %s", stdout.String())
	return stdout.String(), nil
}

// DryRunner prints invocations instead of running them.
// Queries are answered from canned output so read paths keep working.
type DryRunner struct {
	Out    io.Writer
	Status string
	Volume string
}

// NewDryRunner answers queries with a single muted default sink.
func NewDryRunner(out io.Writer) *DryRunner {
	return &DryRunner{
		Out:    out,
		Status: "Audio\n ├─ Sinks:\n │  *   1. Dry Run Sink [vol: 0.50]\n │\n ├─ Sources:\n",
		Volume: "Volume: 0.50 [MUTED]\n",
	}
}

// Run writes the command line and returns canned output for queries.
func (d *DryRunner) Run(_ context.Context, args ...string) (string, error) {
	fmt.Fprintf(d.Out, "wpctl %s\n", strings.Join(args, " "))
	if len(args) == 0 {
		return "", nil
	}
	switch args[0] {
	case "status":
		return d.Status, nil
	case "get-volume":
		return d.Volume, nil
	default:
		return "", nil
	}
}
