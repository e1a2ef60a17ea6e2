//go:build darwin

package iface

import (
	"fmt"
	"net"
)

// macOS has no sysfs; net.Interfaces reads the routing socket.
func platformLinks() ([]string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}

	var names []string
	for _, i := range ifaces {
		if i.Flags&net.FlagLoopback != 0 {
			continue
		}
		names = append(names, i.Name)
	}
	return names, nil
}

func platformLinkMAC(name string) (net.HardwareAddr, error) {
	i, err := net.InterfaceByName(name)
	if err != nil {
		return nil, err
	}
	return i.HardwareAddr, nil
}
