// Package macaddr validates, normalizes and generates MAC addresses in the
// canonical aa:bb:cc:dd:ee:ff form.
package macaddr

import (
	"crypto/rand"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"

	"github.com/google/gopacket/macs"
)

var macAddrRe = regexp.MustCompile(`^[0-9a-fA-F]{2}(?::[0-9a-fA-F]{2}){5}$`)

// Valid reports whether text, after trimming whitespace, is six
// colon-separated hex pairs.
func Valid(text string) bool {
	return macAddrRe.MatchString(strings.TrimSpace(text))
}

// Normalize returns the canonical lowercase form of text.
func Normalize(text string) (string, error) {
	if !Valid(text) {
		return "", fmt.Errorf("invalid MAC address %q (want aa:bb:cc:dd:ee:ff)", text)
	}
	return strings.ToLower(strings.TrimSpace(text)), nil
}

// Parse validates text and returns it as a hardware address.
func Parse(text string) (net.HardwareAddr, error) {
	norm, err := Normalize(text)
	if err != nil {
		return nil, err
	}
	return net.ParseMAC(norm)
}

// GenerateRandom returns a random locally-administered unicast address.
func GenerateRandom() net.HardwareAddr {
	mac, err := Generate(rand.Reader)
	if err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return mac
}

// Generate draws six octets from r and forces the first octet's low bits
// to 10: locally administered, not multicast.
func Generate(r io.Reader) (net.HardwareAddr, error) {
	mac := make([]byte, 6)
	if _, err := io.ReadFull(r, mac); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	mac[0] = (mac[0] & 0xfc) | 0x02
	return net.HardwareAddr(mac), nil
}

// IsLocal reports whether the locally-administered bit is set.
func IsLocal(mac net.HardwareAddr) bool {
	return len(mac) > 0 && mac[0]&0x02 != 0
}

// IsMulticast reports whether the group bit is set.
func IsMulticast(mac net.HardwareAddr) bool {
	return len(mac) > 0 && mac[0]&0x01 != 0
}

// Vendor returns the registered owner of the address's OUI, or "" for
// locally administered and unknown prefixes.
func Vendor(mac net.HardwareAddr) string {
	if len(mac) < 3 || IsLocal(mac) {
		return ""
	}
	return macs.ValidMACPrefixMap[[3]byte{mac[0], mac[1], mac[2]}]
}
