// Package lifecycle composes validation, backup and application into the
// set, randomize and restore operations.
//
// An interface with no backup record is unmodified. The first set or
// randomize records its original address; later operations keep that
// record, and restore reapplies it without deleting it.
package lifecycle

import (
	"bytes"
	"context"
	"net"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wifibear/macbear/internal/iface"
	"github.com/wifibear/macbear/internal/macaddr"
	"github.com/wifibear/macbear/internal/macerr"
)

// Inventory enumerates interfaces and reads live addresses.
type Inventory interface {
	List(ctx context.Context) []string
	CurrentMAC(name string) (net.HardwareAddr, bool)
	Describe(ctx context.Context) []iface.Interface
}

// Backups records and returns original addresses.
type Backups interface {
	Ensure(name string) (bool, error)
	Read(name string) (net.HardwareAddr, bool, error)
}

// Applier changes the hardware address of an interface.
type Applier interface {
	Apply(ctx context.Context, name string, mac net.HardwareAddr) error
}

// Picker chooses one of several interfaces, usually by asking the operator.
type Picker func(candidates []iface.Interface) (string, error)

// Result describes a completed change.
type Result struct {
	Iface         string
	Previous      net.HardwareAddr // nil when it could not be read
	Requested     net.HardwareAddr
	Current       net.HardwareAddr // re-read after the change, nil when unknown
	BackupCreated bool
}

// Confirmed reports whether the re-read address matches the requested one.
func (r Result) Confirmed() bool {
	return r.Current != nil && bytes.Equal(r.Current, r.Requested)
}

type Orchestrator struct {
	inv     Inventory
	backups Backups
	applier Applier
	log     zerolog.Logger
}

func New(inv Inventory, backups Backups, applier Applier, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{inv: inv, backups: backups, applier: applier, log: log}
}

// Select resolves the interface to operate on. A preferred name must be
// listed; otherwise a single interface is chosen automatically and pick
// decides between several.
func (o *Orchestrator) Select(ctx context.Context, preferred string, pick Picker) (string, error) {
	names := o.inv.List(ctx)

	if preferred != "" {
		for _, n := range names {
			if n == preferred {
				return n, nil
			}
		}
		available := strings.Join(names, ", ")
		if available == "" {
			available = "none"
		}
		return "", macerr.New(macerr.InterfaceNotFound, "available: %s", available).WithIface(preferred)
	}

	switch len(names) {
	case 0:
		return "", macerr.New(macerr.NoInterfacesAvailable, "no non-loopback network interfaces found")
	case 1:
		o.log.Debug().Str("iface", names[0]).Msg("only interface, selected")
		return names[0], nil
	}

	if pick == nil {
		return "", macerr.New(macerr.InterfaceNotSelected,
			"%d interfaces found (%s), choose one with --interface", len(names), strings.Join(names, ", "))
	}
	return pick(o.inv.Describe(ctx))
}

// List returns every interface with its current address.
func (o *Orchestrator) List(ctx context.Context) []iface.Interface {
	return o.inv.Describe(ctx)
}

// Show returns the current address of name.
func (o *Orchestrator) Show(name string) iface.Interface {
	info := iface.Interface{Name: name}
	if mac, ok := o.inv.CurrentMAC(name); ok {
		info.MAC = mac
		info.Vendor = macaddr.Vendor(mac)
		info.Local = macaddr.IsLocal(mac)
	}
	return info
}

// SetMAC validates text and applies it to name.
func (o *Orchestrator) SetMAC(ctx context.Context, name, text string) (Result, error) {
	mac, err := macaddr.Parse(text)
	if err != nil {
		return Result{}, macerr.Wrap(err, macerr.InvalidFormat, "cannot set %s", name)
	}
	return o.change(ctx, name, mac)
}

// Randomize applies a fresh locally-administered address to name.
func (o *Orchestrator) Randomize(ctx context.Context, name string) (Result, error) {
	return o.change(ctx, name, macaddr.GenerateRandom())
}

// Restore reapplies the recorded original address of name. The record is
// kept, so restore can be repeated.
func (o *Orchestrator) Restore(ctx context.Context, name string) (Result, error) {
	orig, ok, err := o.backups.Read(name)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, macerr.New(macerr.NoBackup, "nothing was saved before the first change").WithIface(name)
	}
	o.log.Info().Str("iface", name).Str("mac", orig.String()).Msg("restoring original MAC")
	return o.apply(ctx, name, orig, false)
}

func (o *Orchestrator) change(ctx context.Context, name string, mac net.HardwareAddr) (Result, error) {
	created, err := o.backups.Ensure(name)
	if err != nil {
		return Result{}, err
	}
	o.log.Info().Str("iface", name).Str("mac", mac.String()).Msg("setting MAC")
	return o.apply(ctx, name, mac, created)
}

func (o *Orchestrator) apply(ctx context.Context, name string, mac net.HardwareAddr, created bool) (Result, error) {
	res := Result{Iface: name, Requested: mac, BackupCreated: created}
	if prev, ok := o.inv.CurrentMAC(name); ok {
		res.Previous = prev
	}

	o.log.Warn().Str("iface", name).Msg("interrupting now may leave the interface down")
	if err := o.applier.Apply(ctx, name, mac); err != nil {
		return res, err
	}

	if cur, ok := o.inv.CurrentMAC(name); ok {
		res.Current = cur
	}
	if !res.Confirmed() {
		o.log.Warn().
			Str("iface", name).
			Str("requested", mac.String()).
			Str("current", macString(res.Current)).
			Msg("address after change differs from the requested one; the driver may ignore changes")
	}
	return res, nil
}

func macString(mac net.HardwareAddr) string {
	if mac == nil {
		return "unknown"
	}
	return mac.String()
}
