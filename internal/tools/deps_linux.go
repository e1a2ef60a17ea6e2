//go:build linux

package tools

// Either ip or ifconfig is needed; neither alone is required.
func platformTools() []ExternalTool {
	return []ExternalTool{
		{Name: "ip", Note: "link management (preferred)"},
		{Name: "ifconfig", Note: "legacy link management"},
		{Name: "macchanger", Note: "address setting when ifconfig lacks hw ether"},
	}
}

func platformInstallHint() string {
	return "sudo apt install iproute2 (or net-tools / macchanger)"
}
