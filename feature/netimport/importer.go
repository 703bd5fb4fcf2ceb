package netimport

import (
	"context"
	"errors"
	"fmt"

	"mreg-cli/core/audit"
	"mreg-cli/core/mreg"
	"mreg-cli/core/tags"
	"mreg-cli/core/vlans"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrPlanRejected is returned by Run when the safety guard blocked the
// plan. The Result carries the blockers; no mutation was attempted.
var ErrPlanRejected = errors.New("import plan rejected")

// Importer runs the full import pipeline: parse the flat file, diff it
// against the service inventory, gate the plan, execute it and leave a
// transcript behind.
type Importer struct {
	Service Service
	Tags    *tags.Resolver
	VLANs   vlans.Provider
	Guard   *Guard
	Audit   audit.Config
	Log     *zap.Logger

	// Archiver uploads finished transcripts to object storage. Nil
	// disables archiving.
	Archiver *audit.Archiver

	// TagFileRef names the tag vocabulary source in parse diagnostics.
	TagFileRef string
}

// Result is the outcome of one import run.
type Result struct {
	// RunID identifies the run in logs and in the transcript archive.
	RunID string

	// Plan is the computed change set, also set when the run was rejected.
	Plan *Plan

	// Diagnostics are the per-line parse rejections.
	Diagnostics []Diagnostic

	// Blockers is non-empty when the guard rejected the plan.
	Blockers []Blocker

	// Executed counts the mutations that succeeded.
	Executed int

	// TranscriptPath is the local transcript file.
	TranscriptPath string
}

// Run imports the flat file at path. The transcript at Audit.File is
// truncated and rewritten on every run, so it always describes the latest
// attempt. When the guard rejects the plan Run returns ErrPlanRejected and
// a Result listing the blockers; any other error means the run stopped
// partway and Result.Executed tells how far it got.
func (i *Importer) Run(ctx context.Context, path string, opts Options) (*Result, error) {
	runID := uuid.NewString()
	log := i.Log.With(zap.String("run_id", runID), zap.String("file", path))

	mapping, err := i.VLANs.Mapping(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading vlan mapping: %w", err)
	}

	t, err := audit.Open(i.Audit.File)
	if err != nil {
		return nil, err
	}

	// Close and archive on every exit path, without clobbering the run's
	// own error with a close failure.
	finish := func(runErr error) error {
		if err := t.Close(); err != nil {
			if runErr == nil {
				runErr = err
			} else {
				log.Warn("closing transcript failed", zap.Error(err))
			}
		}
		if i.Archiver != nil {
			if err := i.Archiver.Upload(ctx, runID, t.Path()); err != nil {
				log.Warn("transcript archive upload failed", zap.Error(err))
			}
		}
		return runErr
	}

	parser := &Parser{Tags: i.Tags, VLANs: mapping, TagFileRef: i.TagFileRef}
	imported, diagnostics, err := parser.ParseFile(path)
	if err != nil {
		return nil, finish(err)
	}

	t.BeginRead(path)
	for _, d := range diagnostics {
		t.Diagnostic(d.Line, d.Message)
	}
	t.EndRead(path)

	list, err := i.Service.Subnets(ctx)
	if err != nil {
		return nil, finish(fmt.Errorf("fetching subnet inventory: %w", err))
	}
	observed := make(map[string]mreg.Subnet, len(list))
	for _, subnet := range list {
		observed[subnet.Range] = subnet
	}

	plan := BuildPlan(observed, imported)
	result := &Result{
		RunID:          runID,
		Plan:           plan,
		Diagnostics:    diagnostics,
		TranscriptPath: t.Path(),
	}

	blockers, err := i.Guard.Evaluate(ctx, observed, plan, opts.Force)
	if err != nil {
		return nil, finish(err)
	}
	if len(blockers) > 0 {
		for _, b := range blockers {
			t.Blocker(b.Reason)
		}
		result.Blockers = blockers
		log.Warn("import plan rejected", zap.Int("blockers", len(blockers)))
		return result, finish(ErrPlanRejected)
	}

	if opts.DryRun {
		log.Info("dry run, skipping execution",
			zap.Int("delete", len(plan.Delete)),
			zap.Int("create", len(plan.Create)),
			zap.Int("update", len(plan.Update)))
		return result, finish(nil)
	}

	t.BeginRequests()
	executed, execErr := (&Executor{Service: i.Service}).Execute(ctx, t, plan, imported)
	t.EndRequests()
	result.Executed = executed
	if execErr != nil {
		log.Error("import aborted", zap.Int("executed", executed), zap.Error(execErr))
		return result, finish(execErr)
	}

	log.Info("import complete",
		zap.Int("deleted", len(plan.Delete)),
		zap.Int("created", len(plan.Create)),
		zap.Int("updated", len(plan.Update)))
	return result, finish(nil)
}
