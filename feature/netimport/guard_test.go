package netimport

import (
	"context"
	"fmt"
	"testing"

	"mreg-cli/core/mreg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsedLister struct {
	used map[string][]string
	err  error
}

func (f *fakeUsedLister) SubnetUsedList(_ context.Context, ipRange string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.used[ipRange], nil
}

func observedSet(ranges ...string) map[string]mreg.Subnet {
	observed := make(map[string]mreg.Subnet, len(ranges))
	for _, r := range ranges {
		observed[r] = mreg.Subnet{Range: r}
	}
	return observed
}

func TestEvaluate_CleanPlanPasses(t *testing.T) {
	g := &Guard{Used: &fakeUsedLister{}}
	observed := observedSet("10.0.0.0/24", "10.0.1.0/24", "10.0.2.0/24", "10.0.3.0/24", "10.0.4.0/24")
	plan := &Plan{Create: []string{"10.0.5.0/24"}, Update: []string{"10.0.1.0/24"}}

	blockers, err := g.Evaluate(context.Background(), observed, plan, false)
	require.NoError(t, err)
	assert.Empty(t, blockers)
}

func TestEvaluate_InUseDeletionBlocked(t *testing.T) {
	g := &Guard{Used: &fakeUsedLister{
		used: map[string][]string{"10.0.0.0/24": {"10.0.0.10", "10.0.0.11"}},
	}}
	observed := observedSet("10.0.0.0/24", "10.0.1.0/24", "10.0.2.0/24", "10.0.3.0/24", "10.0.4.0/24", "10.0.5.0/24")
	plan := &Plan{Delete: []string{"10.0.0.0/24"}}

	blockers, err := g.Evaluate(context.Background(), observed, plan, false)
	require.NoError(t, err)
	require.Len(t, blockers, 1)
	assert.Equal(t,
		"WARNING: 10.0.0.0/24 contains addresses that are in use. Remove hosts before deletion",
		blockers[0].Reason)
}

// Force clears the blast-radius blocker only. In-use deletions stay blocked.
func TestEvaluate_ForceDoesNotOverrideInUse(t *testing.T) {
	g := &Guard{Used: &fakeUsedLister{
		used: map[string][]string{"10.0.0.0/24": {"10.0.0.10"}},
	}}
	observed := observedSet("10.0.0.0/24")
	plan := &Plan{Delete: []string{"10.0.0.0/24"}}

	blockers, err := g.Evaluate(context.Background(), observed, plan, true)
	require.NoError(t, err)
	require.Len(t, blockers, 1)
	assert.Contains(t, blockers[0].Reason, "addresses that are in use")
}

func TestEvaluate_UsedListErrorIsFatal(t *testing.T) {
	g := &Guard{Used: &fakeUsedLister{err: fmt.Errorf("connection refused")}}
	observed := observedSet("10.0.0.0/24")
	plan := &Plan{Delete: []string{"10.0.0.0/24"}}

	_, err := g.Evaluate(context.Background(), observed, plan, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checking addresses in use on 10.0.0.0/24")
}

func TestEvaluate_OverlapWithExisting(t *testing.T) {
	g := &Guard{Used: &fakeUsedLister{}}
	observed := observedSet("10.0.0.0/16", "192.168.0.0/24", "172.16.0.0/24", "172.16.1.0/24", "172.16.2.0/24")
	plan := &Plan{Create: []string{"10.0.4.0/24"}}

	blockers, err := g.Evaluate(context.Background(), observed, plan, false)
	require.NoError(t, err)
	require.Len(t, blockers, 1)
	assert.Equal(t,
		"ERROR: Overlap found between new subnet 10.0.4.0/24 and existing subnet 10.0.0.0/16",
		blockers[0].Reason)
}

// A create may take over address space freed by a delete in the same plan.
func TestEvaluate_OverlapWithDeletedRangeAllowed(t *testing.T) {
	g := &Guard{Used: &fakeUsedLister{}}
	observed := observedSet("10.0.0.0/16", "192.168.0.0/24", "172.16.0.0/24", "172.16.1.0/24", "172.16.2.0/24")
	// 10.0.0.0/16 goes away, the /24 carved out of it comes back.
	plan := &Plan{
		Delete: []string{"10.0.0.0/16"},
		Create: []string{"10.0.4.0/24"},
	}

	blockers, err := g.Evaluate(context.Background(), observed, plan, false)
	require.NoError(t, err)
	assert.Empty(t, blockers)
}

func TestEvaluate_OverlapBetweenCreates(t *testing.T) {
	g := &Guard{Used: &fakeUsedLister{}}
	observed := observedSet("192.168.0.0/24", "192.168.1.0/24", "192.168.2.0/24", "192.168.3.0/24", "192.168.4.0/24",
		"192.168.5.0/24", "192.168.6.0/24", "192.168.7.0/24", "192.168.8.0/24", "192.168.9.0/24")
	plan := &Plan{Create: []string{"10.0.0.0/16", "10.0.4.0/24"}}

	blockers, err := g.Evaluate(context.Background(), observed, plan, false)
	require.NoError(t, err)

	// The pair is reported once, not once per direction.
	require.Len(t, blockers, 1)
	assert.Equal(t,
		"ERROR: Overlap found between new subnet 10.0.0.0/16 and existing subnet 10.0.4.0/24",
		blockers[0].Reason)
}

func TestEvaluate_OverlapNotForcible(t *testing.T) {
	g := &Guard{Used: &fakeUsedLister{}}
	observed := observedSet("10.0.0.0/16")
	plan := &Plan{Create: []string{"10.0.4.0/24"}}

	blockers, err := g.Evaluate(context.Background(), observed, plan, true)
	require.NoError(t, err)
	require.Len(t, blockers, 1)
	assert.Contains(t, blockers[0].Reason, "Overlap found")
}

func TestEvaluate_BlastRadius(t *testing.T) {
	observed := observedSet("10.0.0.0/24", "10.0.1.0/24", "10.0.2.0/24", "10.0.3.0/24", "10.0.4.0/24",
		"10.0.5.0/24", "10.0.6.0/24", "10.0.7.0/24", "10.0.8.0/24", "10.0.9.0/24")

	tests := []struct {
		name    string
		plan    *Plan
		force   bool
		blocked bool
	}{
		{
			name:    "two of ten is exactly the threshold",
			plan:    &Plan{Delete: []string{"10.0.0.0/24"}, Update: []string{"10.0.1.0/24"}},
			blocked: false,
		},
		{
			name:    "three of ten is over",
			plan:    &Plan{Delete: []string{"10.0.0.0/24"}, Update: []string{"10.0.1.0/24", "10.0.2.0/24"}},
			blocked: true,
		},
		{
			name:  "force clears it",
			plan:  &Plan{Delete: []string{"10.0.0.0/24"}, Update: []string{"10.0.1.0/24", "10.0.2.0/24"}},
			force: true,
		},
		{
			name: "creates alone never trip it",
			plan: &Plan{Create: []string{"192.168.0.0/24", "192.168.1.0/24", "192.168.2.0/24", "192.168.3.0/24"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Guard{Used: &fakeUsedLister{}}
			blockers, err := g.Evaluate(context.Background(), observed, tt.plan, tt.force)
			require.NoError(t, err)
			if tt.blocked {
				require.Len(t, blockers, 1)
				assert.Equal(t,
					"WARNING: The import will change over 20% of the subnets. Requires force",
					blockers[0].Reason)
			} else {
				assert.Empty(t, blockers)
			}
		})
	}
}

// Every failed check is reported, not just the first.
func TestEvaluate_BlockersAccumulate(t *testing.T) {
	g := &Guard{Used: &fakeUsedLister{
		used: map[string][]string{"10.0.0.0/24": {"10.0.0.10"}},
	}}
	observed := observedSet("10.0.0.0/24", "10.0.1.0/24")
	plan := &Plan{
		Delete: []string{"10.0.0.0/24"},
		Create: []string{"10.0.1.128/25"},
	}

	blockers, err := g.Evaluate(context.Background(), observed, plan, false)
	require.NoError(t, err)
	require.Len(t, blockers, 3)
	assert.Contains(t, blockers[0].Reason, "addresses that are in use")
	assert.Contains(t, blockers[1].Reason, "Overlap found")
	assert.Contains(t, blockers[2].Reason, "change over 20%")
}

func TestSurvivingRanges(t *testing.T) {
	observed := observedSet("10.0.2.0/24", "10.0.0.0/24", "10.0.1.0/24")
	surviving := survivingRanges(observed, []string{"10.0.1.0/24"})
	assert.Equal(t, []string{"10.0.0.0/24", "10.0.2.0/24"}, surviving)
}
