package tools_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wifibear/macbear/internal/tools"
	"github.com/wifibear/macbear/internal/tools/toolstest"
)

func TestCheckAll(t *testing.T) {
	runner := toolstest.NewFakeRunner()
	runner.On([]string{"ip", "-V"}, toolstest.Response{Output: "ip utility, iproute2-6.1.0, libbpf 1.1.0"})
	deps := tools.NewDependencyCheckerWith(runner, toolstest.LookPath("ip"))

	statuses := deps.CheckAll(context.Background())
	byName := map[string]tools.ToolStatus{}
	for _, s := range statuses {
		byName[s.Name] = s
	}

	assert.True(t, byName["ip"].Available)
	assert.Equal(t, "6.1.0", byName["ip"].Version)
	assert.Equal(t, "/usr/sbin/ip", byName["ip"].Path)
	assert.False(t, byName["ifconfig"].Available)
}

func TestIsAvailableCaches(t *testing.T) {
	lookups := 0
	deps := tools.NewDependencyCheckerWith(toolstest.NewFakeRunner(), func(name string) (string, error) {
		lookups++
		return "/sbin/" + name, nil
	})

	assert.True(t, deps.IsAvailable("ip"))
	assert.True(t, deps.IsAvailable("ip"))
	assert.Equal(t, 1, lookups)
}

func TestFormatStatus(t *testing.T) {
	out := tools.FormatStatus([]tools.ToolStatus{
		{Name: "ip", Available: true, Path: "/usr/sbin/ip", Version: "6.1.0"},
		{Name: "macchanger", Note: "fallback"},
		{Name: "ifconfig", Required: true},
	})

	assert.Contains(t, out, "[+] ip")
	assert.Contains(t, out, "6.1.0")
	assert.Contains(t, out, "[-] macchanger")
	assert.Contains(t, out, "(optional) -- fallback")
	assert.Contains(t, out, "(REQUIRED)")
}

func TestMissingRequired(t *testing.T) {
	none := tools.NewDependencyCheckerWith(toolstest.NewFakeRunner(), toolstest.LookPath())
	var required []string
	for _, s := range none.CheckAll(context.Background()) {
		if s.Required {
			required = append(required, s.Name)
		}
	}
	assert.Equal(t, required, none.MissingRequired())

	all := tools.NewDependencyCheckerWith(toolstest.NewFakeRunner(), toolstest.LookPath("ip", "ifconfig", "macchanger"))
	assert.Empty(t, all.MissingRequired())
}
