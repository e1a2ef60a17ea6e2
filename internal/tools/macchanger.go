package tools

// Macchanger sets the address with macchanger while ifconfig handles the
// link state. Used when the installed ifconfig has no hw ether support.
var Macchanger = Family{
	Name:       "macchanger",
	Down:       ifconfigDown,
	SetAddress: func(iface, mac string) []string { return []string{"macchanger", "-m", mac, iface} },
	Up:         ifconfigUp,
}
