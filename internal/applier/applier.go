// Package applier changes an interface's hardware address with the host's
// link management commands.
package applier

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wifibear/macbear/internal/macerr"
	"github.com/wifibear/macbear/internal/tools"
)

var steps = []string{tools.StepDown, tools.StepSetAddress, tools.StepUp}

// FamilySelector picks the command family for a tool preference.
type FamilySelector interface {
	Select(ctx context.Context, preference string) (tools.Family, error)
}

// Applier runs the down, set-address and up steps for one interface.
type Applier struct {
	selector FamilySelector
	runner   tools.Runner
	tool     string
	log      zerolog.Logger

	family *tools.Family
}

func New(selector FamilySelector, runner tools.Runner, tool string, log zerolog.Logger) *Applier {
	return &Applier{selector: selector, runner: runner, tool: tool, log: log}
}

// Family returns the selected command family, probing it on first use.
func (a *Applier) Family(ctx context.Context) (tools.Family, error) {
	if a.family != nil {
		return *a.family, nil
	}
	fam, err := a.selector.Select(ctx, a.tool)
	if err != nil {
		return tools.Family{}, err
	}
	a.log.Debug().Str("family", fam.Name).Msg("selected link tool")
	a.family = &fam
	return fam, nil
}

// Apply takes iface down, sets mac and brings it back up, one attempt per
// step. The first failing step aborts the sequence; nothing is rolled
// back, so the interface may be left down.
func (a *Applier) Apply(ctx context.Context, iface string, mac net.HardwareAddr) error {
	fam, err := a.Family(ctx)
	if err != nil {
		return err
	}

	for _, step := range steps {
		argv := fam.Argv(step, iface, mac.String())
		res, err := a.runner.Run(ctx, argv[0], argv[1:]...)
		if err == nil {
			continue
		}

		kind := macerr.CommandFailed
		if errors.Is(err, tools.ErrTimeout) {
			kind = macerr.CommandTimeout
		}
		a.log.Error().
			Str("iface", iface).
			Str("step", step).
			Str("cmd", strings.Join(argv, " ")).
			Str("output", res.Output).
			Err(err).
			Msg("link command failed")
		return &macerr.Error{
			Kind:   kind,
			Iface:  iface,
			Step:   step,
			Output: res.Output,
			Msg:    strings.Join(argv, " "),
			Err:    err,
		}
	}
	return nil
}
