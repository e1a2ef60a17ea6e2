package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wifibear/macbear/internal/config"
	"github.com/wifibear/macbear/internal/macerr"
	"github.com/wifibear/macbear/ui"
)

const longHelp = `  macbear changes the hardware (MAC) address of a network interface.

  The first change of an interface saves its original address to
  <backup-dir>/<interface>.orig (directory 0700, file 0600); --restore
  reapplies it and keeps the file, so restore can be repeated. Delete the
  file by hand to forget an original.

  Each change runs three commands: link down, set address, link up. A
  failure or an interrupt between them can leave the interface down; run
  'ip link set <interface> up' or retry --restore once the cause is fixed.
  Running several macbear processes against one interface at the same time
  is not supported.

  Must be run as root.`

// Env is the process environment the commands run against.
type Env struct {
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Geteuid    func() int
	IsTerminal func() bool
}

// DefaultEnv is the real process environment.
func DefaultEnv() Env {
	return Env{
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Geteuid:    os.Geteuid,
		IsTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

// exitError carries the exit code an error maps to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitWith(err error, op macerr.Operation) error {
	if err == nil {
		return nil
	}
	return &exitError{code: macerr.ExitCode(err, op), err: err}
}

// Execute runs the command line and returns the process exit code.
func Execute(version string) int {
	return Run(context.Background(), version, os.Args[1:], DefaultEnv())
}

// Run executes args against env and returns the exit code.
func Run(ctx context.Context, version string, args []string, env Env) int {
	root := NewRootCmd(version, env)
	root.SetArgs(args)
	root.SetIn(env.Stdin)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return macerr.ExitOK
	}

	fmt.Fprintln(env.Stderr, ui.Fail("Error:")+" "+err.Error())
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return macerr.ExitGeneric
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string, env Env) *cobra.Command {
	cfg := config.DefaultConfig()
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "macbear",
		Short: "Change, randomize and restore network interface MAC addresses",
		Long:  ui.Banner() + "\n  macbear v" + version + "\n\n" + longHelp + "\n",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Nothing is read or touched before the privilege check.
			if env.Geteuid() != 0 {
				return exitWith(macerr.New(macerr.NotPrivileged,
					"macbear must be run as root (try: sudo macbear)"), macerr.OpInspect)
			}
			if err := config.Load(cfg, configPath, cmd.Flags()); err != nil {
				return err
			}
			return runMain(cmd.Context(), cfg, env)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := rootCmd.Flags()

	// Actions
	f.StringVarP(&cfg.Action.SetMAC, "set", "s", "", "Set the MAC address (format: aa:bb:cc:dd:ee:ff)")
	f.BoolVarP(&cfg.Action.Randomize, "random", "r", false, "Set a locally-administered random MAC")
	f.BoolVarP(&cfg.Action.Restore, "restore", "R", false, "Restore the backed-up original MAC")
	f.BoolVarP(&cfg.Action.List, "list", "l", false, "List non-loopback interfaces and current MACs")
	f.BoolVar(&cfg.Action.Show, "show", false, "Show the current MAC of the selected interface")
	rootCmd.MarkFlagsMutuallyExclusive("set", "random", "restore")

	// Target and prompts
	f.StringVarP(&cfg.Interface, config.KeyInterface, "i", "", "Network interface (prompted for when omitted)")
	f.BoolVarP(&cfg.AssumeYes, "yes", "y", false, "Automatic yes to prompts")

	// Output
	f.CountVarP(&cfg.Output.Verbose, config.KeyVerbose, "v", "Increase verbosity (-v info and above; -vv debug)")
	f.BoolVar(&cfg.Output.Debug, "debug", false, "Enable debug logging")

	// Environment
	f.StringVar(&configPath, "config", "", "Config file (default "+config.DefaultConfigFile+" if present)")
	f.StringVar(&cfg.BackupDir, config.KeyBackupDir, cfg.BackupDir, "Directory holding original MAC backups")
	f.DurationVar(&cfg.StepTimeout, config.KeyStepTimeout, cfg.StepTimeout, "Timeout for each link command")
	f.StringVar(&cfg.Tool, config.KeyTool, cfg.Tool, "Link tool: auto, ip or ifconfig")
	f.StringVar(&cfg.SysClassNet, config.KeySysClassNet, cfg.SysClassNet, "sysfs network class directory")
	_ = f.MarkHidden(config.KeySysClassNet)

	rootCmd.AddCommand(depsCmd(env))
	rootCmd.AddCommand(versionCmd(version))

	return rootCmd
}
