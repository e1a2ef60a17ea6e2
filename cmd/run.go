package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wifibear/macbear/internal/applier"
	"github.com/wifibear/macbear/internal/backup"
	"github.com/wifibear/macbear/internal/config"
	"github.com/wifibear/macbear/internal/iface"
	"github.com/wifibear/macbear/internal/lifecycle"
	"github.com/wifibear/macbear/internal/logging"
	"github.com/wifibear/macbear/internal/macaddr"
	"github.com/wifibear/macbear/internal/macerr"
	"github.com/wifibear/macbear/internal/tools"
	"github.com/wifibear/macbear/ui"
)

// session holds everything one invocation works with.
type session struct {
	cfg      *config.Config
	env      Env
	log      zerolog.Logger
	orch     *lifecycle.Orchestrator
	selector *tools.Selector
	prompt   ui.Prompter
}

func newSession(cfg *config.Config, env Env) *session {
	log := logging.New(env.Stderr, cfg.Output.Verbose, cfg.Output.Debug)
	log.Debug().Msg("debug logging enabled")

	runner := tools.NewExecRunner(cfg.StepTimeout, log)
	inv := iface.NewInventory(cfg.SysClassNet, runner, log)
	selector := tools.NewSelector(tools.NewDependencyChecker(runner), runner)
	store := backup.NewStore(backup.NewFileStore(cfg.BackupDir), inv, log)
	app := applier.New(selector, runner, cfg.Tool, log)

	return &session{
		cfg:      cfg,
		env:      env,
		log:      log,
		orch:     lifecycle.New(inv, store, app, log),
		selector: selector,
		prompt:   ui.Prompter{In: env.Stdin, Out: env.Stdout},
	}
}

func runMain(ctx context.Context, cfg *config.Config, env Env) error {
	if cfg.Action.SetMAC != "" && !macaddr.Valid(cfg.Action.SetMAC) {
		return exitWith(macerr.New(macerr.InvalidFormat, "%q (want aa:bb:cc:dd:ee:ff)", cfg.Action.SetMAC), macerr.OpSet)
	}

	s := newSession(cfg, env)

	if cfg.Action.List {
		return s.list(ctx)
	}

	if cfg.Action.Mutating() {
		if err := s.requireTool(); err != nil {
			return err
		}
	}

	name, err := s.orch.Select(ctx, cfg.Interface, s.picker())
	if errors.Is(err, ui.ErrAborted) {
		fmt.Fprintln(env.Stdout, "Aborted.")
		return nil
	}
	if err != nil {
		return exitWith(err, macerr.OpInspect)
	}

	switch {
	case cfg.Action.Show:
		info := s.orch.Show(name)
		fmt.Fprintf(env.Stdout, "%s current MAC: %s\n", name, ui.MACOrUnknown(info.MAC))
		return nil
	case cfg.Action.Restore:
		return s.restore(ctx, name)
	case cfg.Action.Randomize:
		return s.randomize(ctx, name)
	case cfg.Action.SetMAC != "":
		return s.set(ctx, name, cfg.Action.SetMAC)
	}
	return s.interactive(ctx, name)
}

// requireTool fails when no link command is installed, before anything
// is read or changed.
func (s *session) requireTool() error {
	if s.selector.HasAny() {
		return nil
	}
	return exitWith(macerr.New(macerr.NoSupportedTool,
		"need a link management command: ip (iproute2) or ifconfig (%s)", tools.InstallHint()), macerr.OpSet)
}

func (s *session) list(ctx context.Context) error {
	ifaces := s.orch.List(ctx)
	if len(ifaces) == 0 {
		fmt.Fprintln(s.env.Stdout, "No non-loopback interfaces found.")
		return nil
	}
	fmt.Fprintln(s.env.Stdout, "Interfaces and MACs:")
	fmt.Fprint(s.env.Stdout, ui.InterfaceTable(ifaces))
	return nil
}

func (s *session) picker() lifecycle.Picker {
	if !s.env.IsTerminal() {
		return nil
	}
	return s.prompt.PickInterface
}

// confirm asks question unless --yes was given. Without a terminal it
// refuses rather than guessing.
func (s *session) confirm(question string) (bool, error) {
	if s.cfg.AssumeYes {
		return true, nil
	}
	if !s.env.IsTerminal() {
		return false, errors.New("stdin is not a terminal; pass --yes to skip confirmation")
	}
	return s.prompt.Confirm(question)
}

func (s *session) restore(ctx context.Context, name string) error {
	ok, err := s.confirm(fmt.Sprintf("Restore original MAC for %s?", name))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(s.env.Stdout, "Aborted.")
		return nil
	}

	res, err := s.orch.Restore(ctx, name)
	if err != nil {
		return exitWith(err, macerr.OpRestore)
	}
	fmt.Fprintf(s.env.Stdout, "%s Restored original MAC for %s. Current: %s\n",
		ui.Success("✓"), name, ui.MACOrUnknown(res.Current))
	s.warnUnconfirmed(res)
	return nil
}

func (s *session) randomize(ctx context.Context, name string) error {
	ok, err := s.confirm(fmt.Sprintf("Apply a random locally-administered MAC to %s?", name))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(s.env.Stdout, "Aborted.")
		return nil
	}

	res, err := s.orch.Randomize(ctx, name)
	if err != nil {
		return exitWith(err, macerr.OpSet)
	}
	s.reportChange(res)
	return nil
}

func (s *session) set(ctx context.Context, name, text string) error {
	norm, err := macaddr.Normalize(text)
	if err != nil {
		return exitWith(macerr.Wrap(err, macerr.InvalidFormat, "cannot set %s", name), macerr.OpSet)
	}

	ok, err := s.confirm(fmt.Sprintf("Apply MAC %s to interface %s?", norm, name))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(s.env.Stdout, "Aborted.")
		return nil
	}

	res, err := s.orch.SetMAC(ctx, name, norm)
	if err != nil {
		return exitWith(err, macerr.OpSet)
	}
	s.reportChange(res)
	return nil
}

// interactive asks what to do when no action flag was given.
func (s *session) interactive(ctx context.Context, name string) error {
	if !s.env.IsTerminal() {
		return errors.New("no action given and stdin is not a terminal; use --set, --random or --restore")
	}
	if err := s.requireTool(); err != nil {
		return err
	}

	info := s.orch.Show(name)
	fmt.Fprintln(s.env.Stdout, ui.Info(fmt.Sprintf("Selected interface: %s (current MAC: %s)", name, ui.MACOrUnknown(info.MAC))))
	choice, err := s.prompt.Ask("Enter new MAC (or 'random' to generate, 'restore' to restore original):")
	if errors.Is(err, ui.ErrAborted) {
		fmt.Fprintln(s.env.Stdout, "Aborted.")
		return nil
	}
	if err != nil {
		return err
	}

	switch strings.ToLower(choice) {
	case "random":
		return s.randomize(ctx, name)
	case "restore":
		return s.restore(ctx, name)
	}
	if !macaddr.Valid(choice) {
		return exitWith(macerr.New(macerr.InvalidFormat, "%q (want aa:bb:cc:dd:ee:ff)", choice), macerr.OpSet)
	}
	return s.set(ctx, name, choice)
}

func (s *session) reportChange(res lifecycle.Result) {
	fmt.Fprintf(s.env.Stdout, "%s MAC successfully changed for %s. New MAC: %s\n",
		ui.Success("✓"), res.Iface, ui.MACOrUnknown(res.Current))
	if res.BackupCreated {
		fmt.Fprintln(s.env.Stdout, ui.Info("  original saved to "+backup.NewFileStore(s.cfg.BackupDir).Path(res.Iface)))
	}
	s.warnUnconfirmed(res)
}

func (s *session) warnUnconfirmed(res lifecycle.Result) {
	if !res.Confirmed() {
		fmt.Fprintln(s.env.Stdout, ui.Warn(fmt.Sprintf("  warning: %s reports %s, requested %s",
			res.Iface, ui.MACOrUnknown(res.Current), res.Requested)))
	}
}
