//go:build linux

package iface

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
)

func platformLinks() ([]string, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("netlink link list: %w", err)
	}

	names := make([]string, 0, len(links))
	for _, l := range links {
		attrs := l.Attrs()
		if attrs.Flags&net.FlagLoopback != 0 || attrs.Name == loopbackName {
			continue
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

func platformLinkMAC(name string) (net.HardwareAddr, error) {
	l, err := netlink.LinkByName(name)
	if err != nil {
		return nil, fmt.Errorf("get link %q: %w", name, err)
	}
	return l.Attrs().HardwareAddr, nil
}
