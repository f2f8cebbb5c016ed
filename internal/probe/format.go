package probe

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ConsoleIDSize is the length of the IDPS in bytes.
const ConsoleIDSize = 16

// FormatMAC formats a hardware address as upper-case, colon separated hex.
func FormatMAC(mac []byte) string {
	if len(mac) == 0 {
		return ""
	}
	var b strings.Builder
	for i, octet := range mac {
		if i > 0 {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%02X", octet)
	}
	return b.String()
}

// ParseMAC parses a colon or dash separated hardware address.
func ParseMAC(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty MAC address", ErrInvalidIdentifier)
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == '-' })
	mac := make([]byte, 0, len(parts))
	for _, part := range parts {
		if len(part) != 2 {
			return nil, fmt.Errorf("%w: MAC address %q", ErrInvalidIdentifier, s)
		}
		octet, err := hex.DecodeString(part)
		if err != nil {
			return nil, fmt.Errorf("%w: MAC address %q: %w", ErrInvalidIdentifier, s, err)
		}
		mac = append(mac, octet[0])
	}
	return mac, nil
}

// FormatConsoleID formats the IDPS as upper-case hex without separators.
func FormatConsoleID(id []byte) string {
	return strings.ToUpper(hex.EncodeToString(id))
}

// ParseConsoleID parses a 32 digit hex IDPS.
func ParseConsoleID(s string) ([]byte, error) {
	id, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: console id: %w", ErrInvalidIdentifier, err)
	}
	if len(id) != ConsoleIDSize {
		return nil, fmt.Errorf("%w: console id has %d bytes, want %d", ErrInvalidIdentifier, len(id), ConsoleIDSize)
	}
	return id, nil
}
