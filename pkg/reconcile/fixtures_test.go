package reconcile_test

import (
	"context"
	"sync"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/reconcile"
)

const (
	draft reconcile.Stage = "draft"
	live  reconcile.Stage = "live"
)

// page is a record holding a cover image and an attachment list.
type page struct {
	id          string
	cover       asset.Key
	attachments []asset.Key
	public      bool
}

func (p *page) RecordType() string { return "page" }
func (p *page) RecordID() string   { return p.id }

func (p *page) clone() *page {
	c := *p
	c.attachments = append([]asset.Key(nil), p.attachments...)
	return &c
}

func pageType(archive bool) reconcile.TypeDescriptor {
	return reconcile.TypeDescriptor{
		Name: "page",
		Fields: []reconcile.FieldAccessor{
			{Name: "cover", Assets: func(rec reconcile.Record) []asset.Container {
				return []asset.Container{asset.KeyContainer(rec.(*page).cover)}
			}},
			{Name: "attachments", Assets: func(rec reconcile.Record) []asset.Container {
				var containers []asset.Container
				for _, k := range rec.(*page).attachments {
					containers = append(containers, asset.KeyContainer(k))
				}
				return containers
			}},
		},
		ArchiveAssetsOnDelete: archive,
	}
}

type stageKey struct{}

func inStage(ctx context.Context, stage reconcile.Stage) context.Context {
	return context.WithValue(ctx, stageKey{}, stage)
}

// datastore is an in-memory staged record store calling the reconciler the
// way a persistence layer does.
type datastore struct {
	mu         sync.Mutex
	versioned  bool
	records    map[reconcile.Stage]map[string]*page
	reconciler *reconcile.Reconciler
}

func newDatastore(versioned bool) *datastore {
	return &datastore{
		versioned: versioned,
		records:   map[reconcile.Stage]map[string]*page{draft: {}, live: {}},
	}
}

func (d *datastore) IsVersioned(reconcile.Record) bool { return d.versioned }

func (d *datastore) CurrentStage(ctx context.Context) reconcile.Stage {
	if stage, ok := ctx.Value(stageKey{}).(reconcile.Stage); ok {
		return stage
	}
	return draft
}

func (d *datastore) LiveStage() reconcile.Stage { return live }

func (d *datastore) Stages() []reconcile.Stage { return []reconcile.Stage{draft, live} }

func (d *datastore) RecordInStage(_ context.Context, rec reconcile.Record, stage reconcile.Stage) (reconcile.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.records[stage][rec.RecordID()]
	if !ok {
		return nil, nil
	}
	return p.clone(), nil
}

func (d *datastore) CanAnonymousView(_ context.Context, rec reconcile.Record) (bool, error) {
	return rec.(*page).public, nil
}

func (d *datastore) save(ctx context.Context, p *page) error {
	err := d.reconciler.OnBeforeRecordWrite(ctx, p)
	d.mu.Lock()
	d.records[d.CurrentStage(ctx)][p.id] = p.clone()
	d.mu.Unlock()
	return err
}

func (d *datastore) delete(ctx context.Context, p *page) error {
	d.mu.Lock()
	delete(d.records[d.CurrentStage(ctx)], p.id)
	d.mu.Unlock()
	return d.reconciler.OnAfterRecordDelete(ctx, p)
}
