package validate

import (
	"net/netip"
	"regexp"
	"strconv"
)

// TTL bounds the service accepts for explicit record TTLs.
const (
	TTLMin = 300
	TTLMax = 68400
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	macRe   = regexp.MustCompile(`^[a-fA-F0-9]{2}([a-fA-F0-9]{10}|(:[a-fA-F0-9]{2}){5})$`)
)

// IsValidIP reports whether s is an IPv4 or IPv6 address.
func IsValidIP(s string) bool {
	_, err := netip.ParseAddr(s)
	return err == nil
}

// IsValidIPv4 reports whether s is an IPv4 address.
func IsValidIPv4(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is4()
}

// IsValidIPv6 reports whether s is an IPv6 address.
func IsValidIPv6(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is6() && !addr.Is4In6()
}

// IsValidTTL reports whether s is "default" or an integer within the
// service's TTL bounds.
func IsValidTTL(s string) bool {
	if s == "default" {
		return true
	}
	ttl, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return TTLMin <= ttl && ttl <= TTLMax
}

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsValidMAC reports whether s is a MAC address, with or without colons.
func IsValidMAC(s string) bool {
	return macRe.MatchString(s)
}

// IsValidLoc reports whether s is a usable DNS LOC value.
// TODO: validate the RFC 1876 grammar instead of accepting everything.
func IsValidLoc(s string) bool {
	return true
}
