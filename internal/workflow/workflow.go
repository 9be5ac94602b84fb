package workflow

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrTerminalStep rejects Advance on the review step; submission is
	// a separate collaborator call.
	ErrTerminalStep = errors.New("review is the final step")

	// ErrStaleNameCheck marks a case-name lookup whose result arrived
	// after the session moved on; the result is discarded, not applied.
	ErrStaleNameCheck = errors.New("case name check superseded by newer input")

	// ErrCannotReturn rejects backward navigation to a step that is not
	// an earlier, completed one.
	ErrCannotReturn = errors.New("cannot navigate back to this step")
)

// CaseRegistry answers the case-name uniqueness question. The call may
// suspend; the workflow guards against a slow answer being applied to a
// session that has since changed.
type CaseRegistry interface {
	CaseNameExists(ctx context.Context, ownerID, name string) (bool, error)
}

// BlockedNotice is the payload of the attention signal emitted when
// validation blocks an advance. Rendering is the client's business.
type BlockedNotice struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	UnverifiedDocuments []string `json:"unverifiedDocuments,omitempty"`
}

// Notifier receives one-way attention signals from the workflow.
type Notifier interface {
	ValidationBlocked(userID string, notice BlockedNotice)
}

// NopNotifier discards signals; used where no push channel exists.
type NopNotifier struct{}

func (NopNotifier) ValidationBlocked(string, BlockedNotice) {}

// Workflow drives a session through the intake steps.
type Workflow struct {
	registry CaseRegistry
	notifier Notifier
}

// New creates a workflow over the given collaborators. A nil notifier
// falls back to NopNotifier.
func New(registry CaseRegistry, notifier Notifier) *Workflow {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Workflow{registry: registry, notifier: notifier}
}

// Advance runs the current step's validation gate and, on success,
// records the step as completed and moves the session forward. On a
// validation failure the session stays put, the result carries the
// reasons and a blocked-advance signal is emitted. Collaborator
// failures are returned as errors without any state change.
func (w *Workflow) Advance(ctx context.Context, s *Session) (Result, error) {
	var res Result

	switch s.Step {
	case StepMetadata:
		// Tag the lookup with the name as dispatched. If the session
		// left the metadata step or the name changed while the call was
		// in flight, the answer is stale and must be discarded.
		name := s.Case.Name
		taken := false
		if name != "" {
			var err error
			taken, err = w.registry.CaseNameExists(ctx, s.UserID, name)
			if err != nil {
				return Result{}, fmt.Errorf("case registry lookup: %w", err)
			}
			if s.Step != StepMetadata || s.Case.Name != name {
				return Result{}, ErrStaleNameCheck
			}
		}
		res = ValidateMetadata(s, taken)
	case StepUpload:
		res = ValidateDocumentsUploaded(s)
	case StepAnonymization:
		res = ValidateAnonymization(s)
	case StepDigitization:
		res = ValidateDigitization(s)
	case StepReview:
		return Result{}, ErrTerminalStep
	default:
		return Result{}, fmt.Errorf("session is on unknown step %d", int(s.Step))
	}

	if !res.Valid {
		w.notifier.ValidationBlocked(s.UserID, noticeFor(s.Step, res))
		return res, nil
	}

	s.Completed[s.Step] = true
	next, _ := s.Step.Next()
	s.Step = next
	return res, nil
}

// Back navigates to an earlier, already-completed step. Nothing is
// re-run or discarded; the gates are pure, so re-validation on the way
// forward is safe.
func (w *Workflow) Back(s *Session, step Step) error {
	if !s.CanReturnTo(step) {
		return ErrCannotReturn
	}
	s.Step = step
	return nil
}

func noticeFor(step Step, res Result) BlockedNotice {
	n := BlockedNotice{
		Title:               fmt.Sprintf("Cannot continue from %s", step),
		UnverifiedDocuments: res.UnverifiedDocuments,
	}
	if len(res.Errors) > 0 {
		n.Description = res.Errors[0]
	}
	return n
}
