package netimport

import (
	"sort"

	"mreg-cli/core/mreg"
)

// BuildPlan diffs the imported inventory against the observed one. Pure set
// algebra, no I/O: observed-only ranges are deleted, imported-only ranges
// are created, and ranges on both sides are updated when any of the four
// imported fields differ.
func BuildPlan(observed map[string]mreg.Subnet, imported Inventory) *Plan {
	var plan Plan

	for ipRange := range observed {
		if _, ok := imported[ipRange]; !ok {
			plan.Delete = append(plan.Delete, ipRange)
		}
	}

	for ipRange, record := range imported {
		current, ok := observed[ipRange]
		if !ok {
			plan.Create = append(plan.Create, ipRange)
			continue
		}
		if needsUpdate(current, record) {
			plan.Update = append(plan.Update, ipRange)
		}
	}

	sort.Strings(plan.Delete)
	sort.Strings(plan.Create)
	sort.Strings(plan.Update)

	return &plan
}

// needsUpdate compares exactly the fields the import file controls. Frozen,
// reserved and DNS delegation are service-side state the import never
// touches.
func needsUpdate(current mreg.Subnet, record Record) bool {
	if current.Description != record.Description {
		return true
	}
	if !ptrEqual(current.VLAN, record.VLAN) {
		return true
	}
	if !ptrEqual(current.Category, record.Category) {
		return true
	}
	if !ptrEqual(current.Location, record.Location) {
		return true
	}
	return false
}

// ptrEqual treats nil as a value of its own: nil and 0 differ.
func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
