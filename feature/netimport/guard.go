package netimport

import (
	"context"
	"fmt"
	"sort"

	"mreg-cli/core/mreg"
	"mreg-cli/core/netutil"
)

// The guard refuses plans that delete or update more than this fraction of
// the observed inventory, unless forced.
const blastRadiusThreshold = 0.20

// Guard evaluates a plan's safety before anything touches the service.
type Guard struct {
	// Used lists the addresses in use on a subnet.
	Used UsedLister
}

// UsedLister is the single lookup the guard performs remotely.
type UsedLister interface {
	SubnetUsedList(ctx context.Context, ipRange string) ([]string, error)
}

// Evaluate runs every check and returns all reasons the plan must not run,
// not just the first. Force clears only the blast-radius blocker; deleting
// in-use subnets and creating overlaps stay blocked regardless.
//
// A non-empty result rejects the whole plan: there is no partial
// application.
func (g *Guard) Evaluate(ctx context.Context, observed map[string]mreg.Subnet, plan *Plan, force bool) ([]Blocker, error) {
	var blockers []Blocker

	// Subnets to be deleted must have no addresses in use.
	for _, ipRange := range plan.Delete {
		used, err := g.Used.SubnetUsedList(ctx, ipRange)
		if err != nil {
			return nil, fmt.Errorf("checking addresses in use on %s: %w", ipRange, err)
		}
		if len(used) > 0 {
			blockers = append(blockers, Blocker{
				Reason: fmt.Sprintf("WARNING: %s contains addresses that are in use. Remove hosts before deletion", ipRange),
			})
		}
	}

	overlapBlockers, err := checkOverlaps(observed, plan)
	if err != nil {
		return nil, err
	}
	blockers = append(blockers, overlapBlockers...)

	if plan.ChangeRatio(len(observed)) > blastRadiusThreshold && !force {
		blockers = append(blockers, Blocker{
			Reason: "WARNING: The import will change over 20% of the subnets. Requires force",
		})
	}

	return blockers, nil
}

// checkOverlaps verifies every created range against the inventory as it
// will look after the deletes, plus the other created ranges. A create may
// reuse address space a delete frees in the same run.
func checkOverlaps(observed map[string]mreg.Subnet, plan *Plan) ([]Blocker, error) {
	surviving := survivingRanges(observed, plan.Delete)

	var blockers []Blocker
	for i, created := range plan.Create {
		for _, existing := range surviving {
			overlap, err := netutil.Overlaps(created, existing)
			if err != nil {
				return nil, fmt.Errorf("checking overlap of %s and %s: %w", created, existing, err)
			}
			if overlap {
				blockers = append(blockers, Blocker{
					Reason: fmt.Sprintf("ERROR: Overlap found between new subnet %s and existing subnet %s", created, existing),
				})
			}
		}

		// Each created pair is checked once.
		for _, other := range plan.Create[i+1:] {
			overlap, err := netutil.Overlaps(created, other)
			if err != nil {
				return nil, fmt.Errorf("checking overlap of %s and %s: %w", created, other, err)
			}
			if overlap {
				blockers = append(blockers, Blocker{
					Reason: fmt.Sprintf("ERROR: Overlap found between new subnet %s and existing subnet %s", created, other),
				})
			}
		}
	}
	return blockers, nil
}

// survivingRanges returns the observed ranges that will still exist after
// the plan's deletes, sorted.
func survivingRanges(observed map[string]mreg.Subnet, deletes []string) []string {
	deleted := make(map[string]struct{}, len(deletes))
	for _, ipRange := range deletes {
		deleted[ipRange] = struct{}{}
	}

	surviving := make([]string, 0, len(observed))
	for ipRange := range observed {
		if _, ok := deleted[ipRange]; !ok {
			surviving = append(surviving, ipRange)
		}
	}
	sort.Strings(surviving)
	return surviving
}
