//go:build linux

package tools_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wifibear/macbear/internal/tools"
)

func TestExecRunnerSuccess(t *testing.T) {
	r := tools.NewExecRunner(time.Second, zerolog.Nop())

	res, err := r.Run(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Output)
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecRunnerExitCode(t *testing.T) {
	r := tools.NewExecRunner(time.Second, zerolog.Nop())

	res, err := r.Run(context.Background(), "sh", "-c", "echo nope >&2; exit 3")
	var exitErr *tools.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "nope", res.Output)
}

func TestExecRunnerTimeout(t *testing.T) {
	r := tools.NewExecRunner(100*time.Millisecond, zerolog.Nop())

	start := time.Now()
	_, err := r.Run(context.Background(), "sleep", "10")
	assert.ErrorIs(t, err, tools.ErrTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := tools.NewExecRunner(time.Second, zerolog.Nop())

	_, err := r.Run(context.Background(), "definitely-not-a-real-binary-macbear")
	require.Error(t, err)
	assert.NotErrorIs(t, err, tools.ErrTimeout)
	var exitErr *tools.ExitError
	assert.False(t, errors.As(err, &exitErr))
}

func TestNewExecRunnerDefaultTimeout(t *testing.T) {
	r := tools.NewExecRunner(0, zerolog.Nop())
	assert.Equal(t, tools.DefaultTimeout, r.Timeout)
}
