package netimport

import (
	"context"

	"mreg-cli/core/mreg"
)

// Record is one subnet from the import file, normalized. Imported subnets
// are never frozen; a range change shows up as a delete plus a create, so
// Range is immutable once parsed.
type Record struct {
	// Range is the CIDR range, the identity of the subnet.
	Range string

	// Description is the free-text description, already trimmed.
	Description string

	// VLAN is the id from the VLAN mapping, nil when the mapping has no
	// entry for the range. VLAN 0 is a real id, distinct from nil.
	VLAN *int

	// Category is the accumulated category tags, space-separated in file
	// order. Nil when the line carried none.
	Category *string

	// Location is the line's location tag; with several, the last wins.
	// Nil when the line carried none.
	Location *string
}

// Inventory is the desired state parsed from the import file, keyed by
// range.
type Inventory map[string]Record

// Diagnostic is one non-fatal finding from the read phase. Diagnostics are
// reported and written to the transcript but never stop the import.
type Diagnostic struct {
	// Line is the 1-based line number in the import file.
	Line int

	// Message describes the finding.
	Message string
}

// Plan partitions the work that turns the observed inventory into the
// imported one. The three sets are disjoint and sorted, so runs over the
// same data produce identical transcripts.
type Plan struct {
	// Delete lists ranges present on the service but absent from the file.
	Delete []string

	// Create lists ranges present in the file but absent from the service.
	Create []string

	// Update lists ranges present on both sides where the description,
	// VLAN, category or location differ.
	Update []string
}

// Empty reports whether the plan contains no work.
func (p *Plan) Empty() bool {
	return len(p.Delete) == 0 && len(p.Create) == 0 && len(p.Update) == 0
}

// ChangeRatio returns the fraction of the observed inventory this plan
// deletes or updates. An empty inventory has ratio 0: creating from nothing
// destroys nothing.
func (p *Plan) ChangeRatio(observedCount int) float64 {
	if observedCount == 0 {
		return 0
	}
	return float64(len(p.Delete)+len(p.Update)) / float64(observedCount)
}

// Blocker is one reason the safety guard refuses a plan. The Reason carries
// its own WARNING/ERROR prefix, ready for the transcript.
type Blocker struct {
	Reason string
}

// Options controls one import run.
type Options struct {
	// Force accepts a plan that changes more than the blast-radius
	// threshold allows. It never overrides the in-use or overlap guards.
	Force bool

	// DryRun stops after the safety guard: the plan and any blockers are
	// reported, nothing is executed.
	DryRun bool
}

// Service is the slice of the API client the import engine needs.
type Service interface {
	// Subnets returns the full observed inventory.
	Subnets(ctx context.Context) ([]mreg.Subnet, error)

	// SubnetUsedList lists the addresses in use on a subnet.
	SubnetUsedList(ctx context.Context, ipRange string) ([]string, error)

	// CreateSubnet creates a subnet.
	CreateSubnet(ctx context.Context, subnet mreg.SubnetCreate) error

	// UpdateSubnet patches the given fields of a subnet.
	UpdateSubnet(ctx context.Context, ipRange string, fields mreg.Fields) error

	// DeleteSubnet removes a subnet.
	DeleteSubnet(ctx context.Context, ipRange string) error

	// AbsoluteURL renders the full URL of an API path for the transcript.
	AbsoluteURL(path string) string
}
