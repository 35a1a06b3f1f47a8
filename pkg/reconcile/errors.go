package reconcile

import (
	"fmt"
	"strings"
)

// EntryFailure is the failure of the store operation applying one entry.
type EntryFailure struct {
	Entry     Entry
	Operation string
	Err       error
}

// Error implements error.
func (f EntryFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Operation, f.Entry.Ref, f.Err)
}

// Unwrap returns the store error.
func (f EntryFailure) Unwrap() error {
	return f.Err
}

// PartialFailure collects the entries a reconciliation pass could not
// apply. The other entries were applied.
type PartialFailure struct {
	Failures []EntryFailure
}

// Error implements error.
func (p *PartialFailure) Error() string {
	msgs := make([]string, 0, len(p.Failures))
	for _, f := range p.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("reconciliation partially failed (%d entries): %s", len(p.Failures), strings.Join(msgs, "; "))
}

// Unwrap returns the errors of every entry.
func (p *PartialFailure) Unwrap() []error {
	errs := make([]error, 0, len(p.Failures))
	for _, f := range p.Failures {
		errs = append(errs, f)
	}
	return errs
}

func (p *PartialFailure) add(entry Entry, op string, err error) {
	p.Failures = append(p.Failures, EntryFailure{Entry: entry, Operation: op, Err: err})
}

func (p *PartialFailure) errorOrNil() error {
	if p == nil || len(p.Failures) == 0 {
		return nil
	}
	return p
}
