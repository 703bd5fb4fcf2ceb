// Package netutil provides the CIDR math the CLI needs: overlap and
// containment checks, network/broadcast addresses, and reserved-address
// enumeration, built on net/netip and go4.org/netipx.
package netutil
