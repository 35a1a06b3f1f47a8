package reconcile

import (
	"context"
)

//go:generate mockgen -destination=./collaborators_mock_test.go -package=reconcile_test github.com/wuxler/ruasset/pkg/reconcile Record,Versioning,Permissions

// Record is a record of the content datastore owning assets.
type Record interface {
	// RecordType returns the name of the record type, used to look up its
	// TypeDescriptor.
	RecordType() string
	// RecordID returns the identity of the record shared by all its stages.
	RecordID() string
}

// Stage is a versioning state of a record, like "draft" or "live".
type Stage string

// Versioning exposes the staged versioning of the datastore.
type Versioning interface {
	// IsVersioned reports whether the record participates in staged
	// versioning.
	IsVersioned(rec Record) bool
	// CurrentStage returns the stage written to by the request of ctx.
	CurrentStage(ctx context.Context) Stage
	// LiveStage returns the stage exposed to the public.
	LiveStage() Stage
	// Stages returns every stage.
	Stages() []Stage
	// RecordInStage returns the persisted state of the record in the stage,
	// or nil if it does not exist there.
	RecordInStage(ctx context.Context, rec Record, stage Stage) (Record, error)
}

// Permissions exposes the permission checks of the datastore.
type Permissions interface {
	// CanAnonymousView reports whether an unauthenticated viewer may see the
	// record.
	CanAnonymousView(ctx context.Context, rec Record) (bool, error)
}
