package vlans

import "context"

// Mapping maps a subnet range to its VLAN id.
type Mapping map[string]int

// Provider loads the range-to-VLAN mapping the import engine annotates
// subnets with.
type Provider interface {
	Mapping(ctx context.Context) (Mapping, error)
}

// Static is a fixed in-memory Mapping, satisfying Provider. Used by tests
// and by callers that already hold the mapping.
type Static Mapping

func (s Static) Mapping(context.Context) (Mapping, error) {
	return Mapping(s), nil
}
