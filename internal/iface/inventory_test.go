package iface

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wifibear/macbear/internal/tools/toolstest"
)

func writeSysfs(t *testing.T, root string, ifaces map[string]string) {
	t.Helper()
	for name, mac := range ifaces {
		dir := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "address"), []byte(mac+"\n"), 0o644))
		typ := "1\n"
		if name == "lo" {
			typ = "772\n"
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, "type"), []byte(typ), 0o644))
	}
}

func noLinks() ([]string, error) { return nil, errors.New("unsupported") }

func noLinkMAC(string) (net.HardwareAddr, error) { return nil, errors.New("unsupported") }

func newTestInventory(root string, runner *toolstest.FakeRunner) *Inventory {
	inv := NewInventory(root, runner, zerolog.Nop())
	inv.links = noLinks
	inv.linkMAC = noLinkMAC
	return inv
}

func TestListSysfs(t *testing.T) {
	root := t.TempDir()
	writeSysfs(t, root, map[string]string{
		"lo":    "00:00:00:00:00:00",
		"eth0":  "aa:bb:cc:dd:ee:01",
		"wlan0": "AA:BB:CC:DD:EE:02",
	})
	require.NoError(t, os.WriteFile(filepath.Join(root, "bonding_masters"), nil, 0o644))
	// a loopback under another name is still skipped
	writeSysfs(t, root, map[string]string{"lo2": "00:00:00:00:00:00"})
	require.NoError(t, os.WriteFile(filepath.Join(root, "lo2", "type"), []byte("772\n"), 0o644))

	runner := toolstest.NewFakeRunner()
	inv := newTestInventory(root, runner)

	assert.ElementsMatch(t, []string{"eth0", "wlan0"}, inv.List(context.Background()))
	assert.Empty(t, runner.Calls)
}

func TestListEmptySysfs(t *testing.T) {
	inv := newTestInventory(t.TempDir(), toolstest.NewFakeRunner())
	assert.Empty(t, inv.List(context.Background()))
}

func TestListFallsBackToLinkAPI(t *testing.T) {
	runner := toolstest.NewFakeRunner()
	inv := newTestInventory(filepath.Join(t.TempDir(), "missing"), runner)
	inv.links = func() ([]string, error) { return []string{"enp3s0"}, nil }

	assert.Equal(t, []string{"enp3s0"}, inv.List(context.Background()))
	assert.Empty(t, runner.Calls)
}

func TestListFallsBackToIPCommand(t *testing.T) {
	runner := toolstest.NewFakeRunner()
	runner.On([]string{"ip", "-o", "link", "show"}, toolstest.Response{Output: "" +
		"1: lo: <LOOPBACK,UP,LOWER_UP> mtu 65536 qdisc noqueue state UNKNOWN mode DEFAULT group default qlen 1000\\    link/loopback 00:00:00:00:00:00 brd 00:00:00:00:00:00\n" +
		"2: eth0: <BROADCAST,MULTICAST,UP,LOWER_UP> mtu 1500 qdisc fq_codel state UP mode DEFAULT group default qlen 1000\\    link/ether aa:bb:cc:dd:ee:01 brd ff:ff:ff:ff:ff:ff\n" +
		"5: veth1a2b@if4: <BROADCAST,MULTICAST,UP,LOWER_UP> mtu 1500 qdisc noqueue master docker0 state UP\n"})
	inv := newTestInventory(filepath.Join(t.TempDir(), "missing"), runner)

	assert.Equal(t, []string{"eth0", "veth1a2b"}, inv.List(context.Background()))
	assert.Equal(t, []string{"ip -o link show"}, runner.Commands())
}

func TestListAllSourcesFail(t *testing.T) {
	runner := toolstest.NewFakeRunner()
	runner.On([]string{"ip", "-o", "link", "show"}, toolstest.Response{Err: errors.New("not found")})
	inv := newTestInventory(filepath.Join(t.TempDir(), "missing"), runner)

	assert.Empty(t, inv.List(context.Background()))
}

func TestCurrentMAC(t *testing.T) {
	root := t.TempDir()
	writeSysfs(t, root, map[string]string{"eth0": "AA:BB:CC:DD:EE:01", "bad0": "garbage"})
	inv := newTestInventory(root, toolstest.NewFakeRunner())

	mac, ok := inv.CurrentMAC("eth0")
	require.True(t, ok)
	assert.Equal(t, "aa:bb:cc:dd:ee:01", mac.String())

	_, ok = inv.CurrentMAC("bad0")
	assert.False(t, ok)

	_, ok = inv.CurrentMAC("gone0")
	assert.False(t, ok)

	_, ok = inv.CurrentMAC("../etc")
	assert.False(t, ok)
}

func TestCurrentMACLinkFallback(t *testing.T) {
	inv := newTestInventory(t.TempDir(), toolstest.NewFakeRunner())
	want, _ := net.ParseMAC("02:11:22:33:44:55")
	inv.linkMAC = func(name string) (net.HardwareAddr, error) {
		if name == "en0" {
			return want, nil
		}
		return nil, errors.New("no such link")
	}

	mac, ok := inv.CurrentMAC("en0")
	require.True(t, ok)
	assert.Equal(t, want, mac)

	_, ok = inv.CurrentMAC("en9")
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	root := t.TempDir()
	writeSysfs(t, root, map[string]string{"eth0": "00:0c:29:aa:bb:cc", "wlan0": "02:00:00:00:00:01"})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tun0"), 0o755))
	inv := newTestInventory(root, toolstest.NewFakeRunner())

	byName := map[string]Interface{}
	for _, i := range inv.Describe(context.Background()) {
		byName[i.Name] = i
	}

	require.Len(t, byName, 3)
	assert.NotEmpty(t, byName["eth0"].Vendor)
	assert.False(t, byName["eth0"].Local)
	assert.True(t, byName["wlan0"].Local)
	assert.Nil(t, byName["tun0"].MAC)
}

func TestParseIPLinkOutput(t *testing.T) {
	assert.Empty(t, parseIPLinkOutput(""))
	assert.Equal(t, []string{"br-lan"}, parseIPLinkOutput("3: br-lan: <UP> mtu 1500\nnot a link line\n"))
}
