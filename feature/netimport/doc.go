// Package netimport implements bulk subnet reconciliation from a flat file.
//
// An import run reads the institutional subnet registry file, diffs it
// against the live inventory held by the MREG service and converges the
// service onto the file. The file is the source of truth: subnets missing
// from it are deleted, subnets missing from the service are created, and
// subnets present on both sides are patched when description, VLAN,
// category or location differ.
//
// # Pipeline
//
//   - Parser: turns the flat file into an Inventory, emitting a diagnostic
//     for every line it cannot use instead of dropping it silently.
//   - BuildPlan: set difference between imported and observed inventories.
//   - Guard: accumulates every reason the plan must not run. Deleting a
//     subnet with addresses in use and overlapping ranges always block;
//     changing more than 20% of the inventory blocks unless forced.
//   - Executor: applies an accepted plan in fixed order (deletes, creates,
//     updates), each range set sorted, stopping at the first failure.
//
// A rejected plan applies nothing: there are no partial runs below the
// guard, only above it when the service fails mid-execution.
//
// # Transcript
//
// Every run rewrites the transcript file with the read diagnostics, any
// blockers and one line per attempted API request. The Importer can
// additionally archive the transcript to object storage under the run id.
package netimport
