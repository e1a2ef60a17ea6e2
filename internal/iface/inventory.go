// Package iface discovers network interfaces and reads their live hardware
// addresses.
package iface

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wifibear/macbear/internal/macaddr"
	"github.com/wifibear/macbear/internal/tools"
)

// DefaultSysClassNet is where Linux exposes one directory per interface.
const DefaultSysClassNet = "/sys/class/net"

const loopbackName = "lo"

// ARPHRD_LOOPBACK as exposed in /sys/class/net/<if>/type.
const arphrdLoopback = "772"

// Interface is an enumerated interface and its current address.
type Interface struct {
	Name   string
	MAC    net.HardwareAddr // nil when unknown
	Vendor string
	Local  bool
}

// Inventory enumerates interfaces from sysfs, falling back to the
// platform link API and finally to `ip -o link show`.
type Inventory struct {
	sysClassNet string
	runner      tools.Runner
	log         zerolog.Logger

	links   func() ([]string, error)
	linkMAC func(name string) (net.HardwareAddr, error)
}

func NewInventory(sysClassNet string, runner tools.Runner, log zerolog.Logger) *Inventory {
	if sysClassNet == "" {
		sysClassNet = DefaultSysClassNet
	}
	return &Inventory{
		sysClassNet: sysClassNet,
		runner:      runner,
		log:         log,
		links:       platformLinks,
		linkMAC:     platformLinkMAC,
	}
}

// List returns every non-loopback interface in source order. An empty
// result means none could be found; it is not an error.
func (inv *Inventory) List(ctx context.Context) []string {
	names, err := inv.sysfsLinks()
	if err == nil {
		return names
	}
	inv.log.Debug().Err(err).Msg("sysfs listing unavailable")

	names, err = inv.links()
	if err == nil {
		return names
	}
	inv.log.Debug().Err(err).Msg("link API listing unavailable")

	res, err := inv.runner.Run(ctx, "ip", "-o", "link", "show")
	if err != nil {
		inv.log.Debug().Err(err).Msg("ip link listing failed")
		return nil
	}
	return parseIPLinkOutput(res.Output)
}

// CurrentMAC reads the live hardware address of iface. It returns false
// when the interface vanished or the address cannot be read.
func (inv *Inventory) CurrentMAC(iface string) (net.HardwareAddr, bool) {
	if !validName(iface) {
		return nil, false
	}

	data, err := os.ReadFile(filepath.Join(inv.sysClassNet, iface, "address"))
	if err == nil {
		if mac, err := macaddr.Parse(string(data)); err == nil {
			return mac, true
		}
	}

	mac, err := inv.linkMAC(iface)
	if err != nil || len(mac) != 6 {
		return nil, false
	}
	return mac, true
}

// Describe lists interfaces together with their current addresses.
func (inv *Inventory) Describe(ctx context.Context) []Interface {
	names := inv.List(ctx)
	out := make([]Interface, 0, len(names))
	for _, name := range names {
		info := Interface{Name: name}
		if mac, ok := inv.CurrentMAC(name); ok {
			info.MAC = mac
			info.Vendor = macaddr.Vendor(mac)
			info.Local = macaddr.IsLocal(mac)
		}
		out = append(out, info)
	}
	return out
}

func (inv *Inventory) sysfsLinks() ([]string, error) {
	entries, err := os.ReadDir(inv.sysClassNet)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(inv.sysClassNet, name)
		// entries are symlinks into /sys/devices
		if fi, err := os.Stat(path); err != nil || !fi.IsDir() {
			continue
		}
		if name == loopbackName {
			continue
		}
		if t, err := os.ReadFile(filepath.Join(path, "type")); err == nil && strings.TrimSpace(string(t)) == arphrdLoopback {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// parseIPLinkOutput extracts names from lines like
// "2: eth0: <BROADCAST,MULTICAST,UP> mtu 1500 ..." and "5: veth0@if4: <...>".
func parseIPLinkOutput(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 2 {
			continue
		}
		name := strings.TrimSpace(parts[1])
		if i := strings.IndexByte(name, '@'); i >= 0 {
			name = name[:i]
		}
		if name == "" || name == loopbackName {
			continue
		}
		names = append(names, name)
	}
	return names
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\x00")
}
