package utils

import (
	"net/netip"
	"strings"
)

// IsIPLiteral reports whether host is a literal IPv4 or IPv6 address.
// Surrounding brackets, as in "[2001:db8::1]", are stripped before parsing.
func IsIPLiteral(host string) bool {
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	_, err := netip.ParseAddr(host)
	return err == nil
}
