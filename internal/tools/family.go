package tools

import (
	"context"
	"runtime"
	"strings"

	"github.com/wifibear/macbear/internal/macerr"
)

// Apply steps, in the order they run.
const (
	StepDown       = "down"
	StepSetAddress = "set-address"
	StepUp         = "up"
)

// Tool preferences accepted by SelectFamily.
const (
	ToolAuto     = "auto"
	ToolIP       = "ip"
	ToolIfconfig = "ifconfig"
)

// Family is one set of commands able to take a link down, change its
// hardware address and bring it back up. Each func returns a full argv.
type Family struct {
	Name       string
	Down       func(iface string) []string
	SetAddress func(iface, mac string) []string
	Up         func(iface string) []string
}

// Argv returns the command of the given step.
func (f Family) Argv(step, iface, mac string) []string {
	switch step {
	case StepDown:
		return f.Down(iface)
	case StepSetAddress:
		return f.SetAddress(iface, mac)
	case StepUp:
		return f.Up(iface)
	}
	return nil
}

// IPRoute2 drives `ip link set dev`.
var IPRoute2 = Family{
	Name:       "iproute2",
	Down:       func(iface string) []string { return []string{"ip", "link", "set", "dev", iface, "down"} },
	SetAddress: func(iface, mac string) []string { return []string{"ip", "link", "set", "dev", iface, "address", mac} },
	Up:         func(iface string) []string { return []string{"ip", "link", "set", "dev", iface, "up"} },
}

// NetTools is the Linux net-tools ifconfig (`hw ether`).
var NetTools = Family{
	Name:       "net-tools",
	Down:       ifconfigDown,
	SetAddress: func(iface, mac string) []string { return []string{"ifconfig", iface, "hw", "ether", mac} },
	Up:         ifconfigUp,
}

// BSDIfconfig is the BSD/macOS ifconfig (`ether`).
var BSDIfconfig = Family{
	Name:       "bsd-ifconfig",
	Down:       ifconfigDown,
	SetAddress: func(iface, mac string) []string { return []string{"ifconfig", iface, "ether", mac} },
	Up:         ifconfigUp,
}

func ifconfigDown(iface string) []string { return []string{"ifconfig", iface, "down"} }
func ifconfigUp(iface string) []string   { return []string{"ifconfig", iface, "up"} }

// Selector picks the family the host supports.
type Selector struct {
	Deps   *DependencyChecker
	Runner Runner
	GOOS   string
}

func NewSelector(deps *DependencyChecker, runner Runner) *Selector {
	return &Selector{Deps: deps, Runner: runner, GOOS: runtime.GOOS}
}

// HasAny reports whether any link management command is installed. It
// never runs a command.
func (s *Selector) HasAny() bool {
	return s.Deps.IsAvailable("ip") || s.Deps.IsAvailable("ifconfig")
}

// Select returns the family for preference (ToolAuto, ToolIP or ToolIfconfig).
// ip is preferred; the legacy ifconfig path is probed rather than assumed.
func (s *Selector) Select(ctx context.Context, preference string) (Family, error) {
	switch preference {
	case ToolIP:
		if !s.Deps.IsAvailable("ip") {
			return Family{}, macerr.New(macerr.NoSupportedTool,
				"ip requested but not installed (%s)", InstallHint())
		}
		return IPRoute2, nil
	case ToolIfconfig:
		return s.legacy(ctx)
	case ToolAuto, "":
		if s.Deps.IsAvailable("ip") {
			return IPRoute2, nil
		}
		return s.legacy(ctx)
	}
	return Family{}, macerr.New(macerr.NoSupportedTool, "unknown tool %q", preference)
}

func (s *Selector) legacy(ctx context.Context) (Family, error) {
	if !s.Deps.IsAvailable("ifconfig") {
		return Family{}, macerr.New(macerr.NoSupportedTool,
			"no link management capability: need ip (iproute2) or ifconfig (%s)", InstallHint())
	}

	switch s.GOOS {
	case "darwin", "freebsd", "openbsd", "netbsd", "dragonfly":
		return BSDIfconfig, nil
	}

	// net-tools and busybox both document "hw ether" in their usage text;
	// usage goes to stderr with a non-zero exit, so only the output counts.
	res, _ := s.Runner.Run(ctx, "ifconfig", "--help")
	if strings.Contains(res.Output, "hw ") {
		return NetTools, nil
	}

	if s.Deps.IsAvailable("macchanger") {
		return Macchanger, nil
	}
	return Family{}, macerr.New(macerr.NoSupportedTool,
		"ifconfig on this host cannot set a hardware address; install iproute2 or macchanger")
}
