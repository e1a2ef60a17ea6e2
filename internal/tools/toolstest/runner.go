// Package toolstest provides a scripted tools.Runner.
package toolstest

import (
	"context"
	"strings"

	"github.com/wifibear/macbear/internal/tools"
)

// Response is what the fake returns for a matching command.
type Response struct {
	Output string
	Err    error
}

// FakeRunner records every invocation and answers from a script keyed by
// the space-joined argv. Unscripted commands succeed with no output.
type FakeRunner struct {
	Calls     [][]string
	Responses map[string]Response
	// OnRun, when set, runs after the call is recorded.
	OnRun func(argv []string)
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Responses: make(map[string]Response)}
}

// On scripts the response for argv.
func (f *FakeRunner) On(argv []string, resp Response) *FakeRunner {
	f.Responses[strings.Join(argv, " ")] = resp
	return f
}

func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (tools.Result, error) {
	argv := append([]string{name}, args...)
	f.Calls = append(f.Calls, argv)
	if f.OnRun != nil {
		f.OnRun(argv)
	}

	resp, ok := f.Responses[strings.Join(argv, " ")]
	if !ok {
		return tools.Result{}, nil
	}
	res := tools.Result{Output: resp.Output}
	if ee, isExit := resp.Err.(*tools.ExitError); isExit {
		res.ExitCode = ee.Code
	}
	return res, resp.Err
}

// Commands returns the recorded invocations as space-joined strings.
func (f *FakeRunner) Commands() []string {
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = strings.Join(c, " ")
	}
	return out
}

// LookPath returns a tools.LookPathFunc finding only the given binaries.
func LookPath(installed ...string) tools.LookPathFunc {
	set := make(map[string]bool, len(installed))
	for _, n := range installed {
		set[n] = true
	}
	return func(name string) (string, error) {
		if set[name] {
			return "/usr/sbin/" + name, nil
		}
		return "", &notFound{name}
	}
}

type notFound struct{ name string }

func (e *notFound) Error() string { return "exec: " + e.name + ": not found" }
