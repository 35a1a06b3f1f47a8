// Package reconcile keeps the visibility of stored assets consistent with
// the stages of the records referencing them.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/wuxler/ruasset/pkg/errdefs"
	"github.com/wuxler/ruasset/pkg/store"
	"github.com/wuxler/ruasset/pkg/xlog"
)

// Reconciler computes and applies the store operations keeping assets
// consistent with the records referencing them. Passes are idempotent and
// safe to re-run.
type Reconciler struct {
	store       store.Store
	schema      *Schema
	versioning  Versioning
	permissions Permissions
}

// New returns a new Reconciler.
func New(s store.Store, schema *Schema, versioning Versioning, permissions Permissions) *Reconciler {
	return &Reconciler{
		store:       s,
		schema:      schema,
		versioning:  versioning,
		permissions: permissions,
	}
}

// OnBeforeRecordWrite reconciles the assets of a record about to be written
// to the current stage. The returned error is informational and must not
// fail the write.
func (r *Reconciler) OnBeforeRecordWrite(ctx context.Context, rec Record) error {
	if !r.schema.HasAssetFields(rec) {
		return nil
	}
	list, err := r.PlanWrite(ctx, rec)
	if err != nil {
		return r.report(ctx, rec, "write", err)
	}
	return r.report(ctx, rec, "write", r.Apply(ctx, list, r.archives(rec)))
}

// OnAfterRecordDelete reconciles the assets of a record deleted from the
// current stage. The returned error is informational.
func (r *Reconciler) OnAfterRecordDelete(ctx context.Context, rec Record) error {
	if !r.schema.HasAssetFields(rec) {
		return nil
	}
	list, err := r.PlanDelete(ctx, rec)
	if err != nil {
		return r.report(ctx, rec, "delete", err)
	}
	return r.report(ctx, rec, "delete", r.Apply(ctx, list, r.archives(rec)))
}

// Repair reconciles the assets of rec against every stage it exists in,
// without knowledge of a prior state. Assets of rec no longer referenced by
// any stage are deleted.
func (r *Reconciler) Repair(ctx context.Context, rec Record) error {
	if !r.schema.HasAssetFields(rec) {
		return nil
	}
	list := NewManipulationList()
	list.ObserveAll(r.schema.AssetRefs(rec), Deleted)
	stages := []Stage{r.versioning.CurrentStage(ctx)}
	if r.versioning.IsVersioned(rec) {
		stages = r.versioning.Stages()
	}
	if err := r.observeStages(ctx, list, rec, stages); err != nil {
		return r.report(ctx, rec, "repair", err)
	}
	return r.report(ctx, rec, "repair", r.Apply(ctx, list, r.archives(rec)))
}

// PlanWrite builds the manipulations of writing rec to the current stage:
// the prior content of the stage is superseded, the new content gets the
// state of the stage, and the other stages keep what they still reference.
func (r *Reconciler) PlanWrite(ctx context.Context, rec Record) (*ManipulationList, error) {
	stage := r.versioning.CurrentStage(ctx)
	list := NewManipulationList()

	prior, err := r.versioning.RecordInStage(ctx, rec, stage)
	if err != nil {
		return nil, fmt.Errorf("unable to get prior state of %s/%s: %w", rec.RecordType(), rec.RecordID(), err)
	}
	if prior != nil {
		list.ObserveAll(r.schema.AssetRefs(prior), Deleted)
	}

	state, err := r.stateOf(ctx, rec, stage)
	if err != nil {
		return nil, err
	}
	list.ObserveAll(r.schema.AssetRefs(rec), state)

	if err := r.observeOtherStages(ctx, list, rec, stage); err != nil {
		return nil, err
	}
	return list, nil
}

// PlanDelete builds the manipulations of deleting rec from the current
// stage: its content is deleted unless another stage still references it.
func (r *Reconciler) PlanDelete(ctx context.Context, rec Record) (*ManipulationList, error) {
	list := NewManipulationList()
	list.ObserveAll(r.schema.AssetRefs(rec), Deleted)
	if err := r.observeOtherStages(ctx, list, rec, r.versioning.CurrentStage(ctx)); err != nil {
		return nil, err
	}
	return list, nil
}

// stateOf returns the state of the content of rec observed in stage.
func (r *Reconciler) stateOf(ctx context.Context, rec Record, stage Stage) (State, error) {
	if r.versioning.IsVersioned(rec) && stage != r.versioning.LiveStage() {
		return Protected, nil
	}
	visible, err := r.permissions.CanAnonymousView(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("unable to check anonymous access of %s/%s: %w", rec.RecordType(), rec.RecordID(), err)
	}
	if visible {
		return Public, nil
	}
	return Protected, nil
}

func (r *Reconciler) observeOtherStages(ctx context.Context, list *ManipulationList, rec Record, current Stage) error {
	if !r.versioning.IsVersioned(rec) {
		return nil
	}
	others := lo.Reject(r.versioning.Stages(), func(s Stage, _ int) bool { return s == current })
	return r.observeStages(ctx, list, rec, others)
}

func (r *Reconciler) observeStages(ctx context.Context, list *ManipulationList, rec Record, stages []Stage) error {
	for _, stage := range stages {
		staged, err := r.versioning.RecordInStage(ctx, rec, stage)
		if err != nil {
			return fmt.Errorf("unable to get %s/%s in stage %s: %w", rec.RecordType(), rec.RecordID(), stage, err)
		}
		if staged == nil {
			continue
		}
		state, err := r.stateOf(ctx, staged, stage)
		if err != nil {
			return err
		}
		list.ObserveAll(r.schema.AssetRefs(staged), state)
	}
	return nil
}

func (r *Reconciler) archives(rec Record) bool {
	return r.schema.ArchiveAssetsOnDelete(rec) && r.versioning.IsVersioned(rec)
}

// Apply applies the list to the store: deletions first (protections under
// the archive policy), then publications, then protections. Missing content
// is skipped. Failures of single entries do not stop the pass and are
// returned as a *PartialFailure.
func (r *Reconciler) Apply(ctx context.Context, list *ManipulationList, archive bool) error {
	failures := &PartialFailure{}
	entries := list.Entries()
	byState := func(state State) []Entry {
		return lo.Filter(entries, func(e Entry, _ int) bool { return e.State == state })
	}

	for _, e := range byState(Deleted) {
		if archive {
			r.apply(ctx, failures, e, "protect", r.store.Protect)
		} else {
			r.apply(ctx, failures, e, "delete", r.store.Delete)
		}
	}
	for _, e := range byState(Public) {
		r.apply(ctx, failures, e, "swap-publish", r.store.SwapPublish)
	}
	for _, e := range byState(Protected) {
		r.apply(ctx, failures, e, "protect", r.store.Protect)
	}
	return failures.errorOrNil()
}

func (r *Reconciler) apply(ctx context.Context, failures *PartialFailure, e Entry, op string,
	fn func(ctx context.Context, filename, hash string) error) {
	err := fn(ctx, e.Ref.Filename, e.Ref.Hash)
	switch {
	case err == nil:
		xlog.C(ctx).Debug("asset reconciled", "asset", e.Ref.String(), "state", e.State.String(), "op", op)
	case errors.Is(err, errdefs.ErrNotFound):
		xlog.C(ctx).Debug("asset already gone", "asset", e.Ref.String(), "op", op)
	default:
		failures.add(e, op, err)
	}
}

func (r *Reconciler) report(ctx context.Context, rec Record, event string, err error) error {
	if err != nil {
		xlog.C(ctx).Warn("asset reconciliation incomplete",
			"event", event, "type", rec.RecordType(), "id", rec.RecordID(), "error", err)
	}
	return err
}
