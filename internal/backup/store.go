// Package backup persists the address an interface had before it was first
// changed, so it can be restored any number of times.
package backup

import (
	"errors"
	"net"

	"github.com/rs/zerolog"

	"github.com/wifibear/macbear/internal/macaddr"
	"github.com/wifibear/macbear/internal/macerr"
)

// AddressReader reads the live address of an interface.
type AddressReader interface {
	CurrentMAC(iface string) (net.HardwareAddr, bool)
}

// Store keeps one original address per interface.
type Store struct {
	kv      KeyValueStore
	current AddressReader
	log     zerolog.Logger
}

func NewStore(kv KeyValueStore, current AddressReader, log zerolog.Logger) *Store {
	return &Store{kv: kv, current: current, log: log}
}

// Ensure records the current address of iface unless a record exists.
// created is false when an earlier record was kept.
func (s *Store) Ensure(iface string) (created bool, err error) {
	_, ok, err := s.kv.Get(iface)
	if err != nil {
		return false, err
	}
	if ok {
		s.log.Debug().Str("iface", iface).Msg("backup already present")
		return false, nil
	}

	mac, ok := s.current.CurrentMAC(iface)
	if !ok {
		return false, macerr.New(macerr.BackupUnavailable,
			"cannot read current MAC, refusing to change it without a restorable original").WithIface(iface)
	}

	err = s.kv.Put(iface, mac.String())
	if errors.Is(err, ErrExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.log.Info().Str("iface", iface).Str("mac", mac.String()).Msg("saved original MAC")
	return true, nil
}

// Read returns the recorded address of iface, or false when none exists.
func (s *Store) Read(iface string) (net.HardwareAddr, bool, error) {
	v, ok, err := s.kv.Get(iface)
	if err != nil || !ok {
		return nil, false, err
	}

	mac, err := macaddr.Parse(v)
	if err != nil {
		return nil, false, macerr.Wrap(err, macerr.BackupUnavailable, "backup record is corrupt")
	}
	return mac, true, nil
}
