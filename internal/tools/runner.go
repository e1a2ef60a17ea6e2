package tools

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single external command.
const DefaultTimeout = 5 * time.Second

// ErrTimeout is returned when a command outlives its deadline.
var ErrTimeout = errors.New("command timed out")

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Result is the captured outcome of a command.
type Result struct {
	Output   string
	ExitCode int
}

// Runner executes an external command to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs commands on the host, each bounded by Timeout.
type ExecRunner struct {
	Timeout time.Duration
	Log     zerolog.Logger
}

func NewExecRunner(timeout time.Duration, log zerolog.Logger) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecRunner{Timeout: timeout, Log: log}
}

// Run executes name with args and returns its combined output. A non-zero
// exit is reported as *ExitError, an expired deadline as ErrTimeout.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	// Own process group so a timeout takes down anything the tool spawned.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = time.Second

	r.Log.Debug().Str("cmd", name).Strs("args", args).Msg("exec")
	start := time.Now()
	out, err := cmd.CombinedOutput()
	res := Result{Output: strings.TrimSpace(string(out))}

	if ctx.Err() == context.DeadlineExceeded {
		res.ExitCode = -1
		r.Log.Debug().Str("cmd", name).Dur("after", time.Since(start)).Msg("timed out")
		return res, fmt.Errorf("%s after %s: %w", name, r.Timeout, ErrTimeout)
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		r.Log.Debug().Str("cmd", name).Int("exit", res.ExitCode).Str("output", res.Output).Msg("failed")
		return res, &ExitError{Code: res.ExitCode}
	case err != nil:
		res.ExitCode = -1
		return res, fmt.Errorf("start %s: %w", name, err)
	}

	r.Log.Debug().Str("cmd", name).Dur("took", time.Since(start)).Msg("ok")
	return res, nil
}
