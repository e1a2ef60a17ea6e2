//go:build darwin

package tools

func platformTools() []ExternalTool {
	return []ExternalTool{
		{Name: "ifconfig", Required: true, Note: "link management"},
	}
}

func platformInstallHint() string {
	return "ifconfig ships with macOS; check your PATH"
}
