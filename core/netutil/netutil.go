package netutil

import (
	"fmt"
	"net"
	"net/netip"

	"go4.org/netipx"
)

// ParsePrefix parses a CIDR range. The address must be the network address
// of the range; host bits set is an error, same as the service's own rules.
func ParsePrefix(s string) (netip.Prefix, error) {
	p, err := netip.ParsePrefix(s)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid subnet %q: %w", s, err)
	}
	if p != p.Masked() {
		return netip.Prefix{}, fmt.Errorf("invalid subnet %q: host bits set", s)
	}
	return p, nil
}

// IsValidPrefix reports whether s is a well-formed CIDR range.
func IsValidPrefix(s string) bool {
	_, err := ParsePrefix(s)
	return err == nil
}

// Overlaps reports whether two ranges share any addresses. The check is
// symmetric.
func Overlaps(a, b string) (bool, error) {
	pa, err := ParsePrefix(a)
	if err != nil {
		return false, err
	}
	pb, err := ParsePrefix(b)
	if err != nil {
		return false, err
	}
	return pa.Overlaps(pb), nil
}

// Contains reports whether the range contains the address.
func Contains(cidr, ip string) (bool, error) {
	p, err := ParsePrefix(cidr)
	if err != nil {
		return false, err
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false, fmt.Errorf("invalid address %q: %w", ip, err)
	}
	return p.Contains(addr), nil
}

// NetworkBroadcast returns the first and last addresses of the range: the
// network and broadcast addresses on IPv4.
func NetworkBroadcast(cidr string) (netip.Addr, netip.Addr, error) {
	p, err := ParsePrefix(cidr)
	if err != nil {
		return netip.Addr{}, netip.Addr{}, err
	}
	r := netipx.RangeOfPrefix(p)
	return r.From(), r.To(), nil
}

// ReservedAddresses returns the first n usable addresses of the range, the
// ones the service holds back for infrastructure. The network and broadcast
// addresses are never included.
func ReservedAddresses(cidr string, n int) ([]string, error) {
	p, err := ParsePrefix(cidr)
	if err != nil {
		return nil, err
	}

	r := netipx.RangeOfPrefix(p)
	last := r.To()

	var reserved []string
	for addr := r.From().Next(); addr.IsValid() && addr.Less(last) && len(reserved) < n; addr = addr.Next() {
		reserved = append(reserved, addr.String())
	}
	return reserved, nil
}

// Netmask returns the dotted (IPv4) or colon (IPv6) form of the range's mask.
func Netmask(cidr string) (string, error) {
	p, err := ParsePrefix(cidr)
	if err != nil {
		return "", err
	}

	bits := 128
	if p.Addr().Is4() {
		bits = 32
	}
	mask := net.CIDRMask(p.Bits(), bits)
	return net.IP(mask).String(), nil
}
