package ui

import (
	"net"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/wifibear/macbear/internal/iface"
)

// InterfaceTable renders interfaces with their current addresses.
func InterfaceTable(ifaces []iface.Interface) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Interface", "MAC", "Vendor", "Type"})

	for i, info := range ifaces {
		t.AppendRow(table.Row{i + 1, info.Name, MACOrUnknown(info.MAC), vendorOrDash(info), addrType(info)})
	}
	return t.Render() + "\n"
}

// MACOrUnknown prints mac, or "unknown" when it could not be read.
func MACOrUnknown(mac net.HardwareAddr) string {
	if mac == nil {
		return "unknown"
	}
	return mac.String()
}

func vendorOrDash(info iface.Interface) string {
	if info.Vendor == "" {
		return "-"
	}
	return info.Vendor
}

func addrType(info iface.Interface) string {
	switch {
	case info.MAC == nil:
		return "-"
	case info.Local:
		return "local"
	default:
		return "global"
	}
}
