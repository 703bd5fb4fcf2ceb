package netimport

import (
	"context"
	"fmt"

	"mreg-cli/core/audit"
	"mreg-cli/core/mreg"
)

// Executor applies an accepted plan against the service. Order is fixed:
// all deletes, then all creates, then all updates. Deletes go first so a
// create can take over freed address space; updates only touch ranges both
// sides already agree exist.
type Executor struct {
	Service Service
}

// Execute runs the plan and writes every attempted request to the
// transcript. Each mutation is an independent call: the first failure stops
// the run, everything already applied stays applied, nothing is rolled
// back or retried. Returns the number of mutations that succeeded.
func (e *Executor) Execute(ctx context.Context, t *audit.Transcript, plan *Plan, imported Inventory) (int, error) {
	executed := 0

	for _, ipRange := range plan.Delete {
		err := e.Service.DeleteSubnet(ctx, ipRange)
		t.Delete(e.Service.AbsoluteURL("/subnets/" + ipRange))
		if err != nil {
			return executed, fmt.Errorf("deleting subnet %s: %w", ipRange, err)
		}
		executed++
	}

	for _, ipRange := range plan.Create {
		record := imported[ipRange]
		err := e.Service.CreateSubnet(ctx, mreg.SubnetCreate{
			Range:       record.Range,
			Description: record.Description,
			VLAN:        record.VLAN,
			Category:    record.Category,
			Location:    record.Location,
			Frozen:      false,
		})
		t.Post(e.Service.AbsoluteURL("/subnets/"), ipRange)
		if err != nil {
			return executed, fmt.Errorf("creating subnet %s: %w", ipRange, err)
		}
		executed++
	}

	for _, ipRange := range plan.Update {
		record := imported[ipRange]
		err := e.Service.UpdateSubnet(ctx, ipRange, mreg.Fields{
			"description": record.Description,
			"vlan":        record.VLAN,
			"category":    record.Category,
			"location":    record.Location,
		})
		t.Patch(e.Service.AbsoluteURL("/subnets/" + ipRange))
		if err != nil {
			return executed, fmt.Errorf("updating subnet %s: %w", ipRange, err)
		}
		executed++
	}

	return executed, nil
}
