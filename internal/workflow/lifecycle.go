package workflow

import (
	"errors"
	"time"
)

// ErrNotVisitedInAnonymization rejects a digitization visit for a
// document that has not been through anonymization review yet.
var ErrNotVisitedInAnonymization = errors.New("document not yet visited in anonymization")

// The document review lifecycle is mutated only through the named
// operations below. Keeping every transition here makes the core
// invariant enforceable in one place: a digitization visit can never
// survive an anonymization edit made after it.

// MarkVisitedInAnonymization records that the document was opened during
// anonymization review. Idempotent.
func (d *Document) MarkVisitedInAnonymization() {
	d.VisitedInAnonymization = true
}

// ApplyAnonymizationEdit records an anonymization change at now. The
// digitization flag is forced back to false unconditionally: the edit
// invalidates any prior digitization review.
func (d *Document) ApplyAnonymizationEdit(now time.Time) {
	t := now
	d.AnonymizedChangedAt = &t
	d.VisitedInDigitization = false
}

// MarkVisitedInDigitization records that the document was opened during
// digitization review. Rejected while the document has not been visited
// in anonymization; silently coercing would hide a caller bug.
func (d *Document) MarkVisitedInDigitization() error {
	if !d.VisitedInAnonymization {
		return ErrNotVisitedInAnonymization
	}
	d.VisitedInDigitization = true
	return nil
}
