package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeRegistry scripts the case-name lookup. onLookup runs while the
// "async" call is in flight, which lets tests mutate the session
// mid-call the way a user navigating away would.
type fakeRegistry struct {
	taken    map[string]bool
	err      error
	onLookup func()
	calls    int
}

func (f *fakeRegistry) CaseNameExists(_ context.Context, _, name string) (bool, error) {
	f.calls++
	if f.onLookup != nil {
		f.onLookup()
	}
	if f.err != nil {
		return false, f.err
	}
	return f.taken[name], nil
}

type recordingNotifier struct {
	notices []BlockedNotice
}

func (n *recordingNotifier) ValidationBlocked(_ string, notice BlockedNotice) {
	n.notices = append(n.notices, notice)
}

func TestAdvance_FullWalkthrough(t *testing.T) {
	reg := &fakeRegistry{taken: map[string]bool{}}
	notifier := &recordingNotifier{}
	wf := New(reg, notifier)
	ctx := context.Background()

	s := validSession()

	// metadata -> upload
	res, err := wf.Advance(ctx, s)
	if err != nil || !res.Valid {
		t.Fatalf("metadata advance failed: res=%+v err=%v", res, err)
	}
	if s.Step != StepUpload || !s.Completed[StepMetadata] {
		t.Fatalf("after metadata: step=%v completed=%v", s.Step, s.Completed)
	}

	// upload blocked without documents
	res, err = wf.Advance(ctx, s)
	if err != nil || res.Valid {
		t.Fatalf("upload advance should be blocked: res=%+v err=%v", res, err)
	}
	if s.Step != StepUpload {
		t.Fatalf("blocked advance moved the session to %v", s.Step)
	}
	if len(notifier.notices) != 1 {
		t.Fatalf("expected one blocked notice, got %d", len(notifier.notices))
	}

	doc, _ := s.AddDocument("scan.pdf", FileTypePDF, "k-1")

	// upload -> anonymization
	if res, err = wf.Advance(ctx, s); err != nil || !res.Valid {
		t.Fatalf("upload advance failed: res=%+v err=%v", res, err)
	}

	// anonymization blocked until the document is visited
	res, _ = wf.Advance(ctx, s)
	if res.Valid {
		t.Fatal("anonymization advance should be blocked")
	}
	if len(res.UnverifiedDocuments) != 1 || res.UnverifiedDocuments[0] != "scan.pdf" {
		t.Fatalf("UnverifiedDocuments = %v", res.UnverifiedDocuments)
	}
	last := notifier.notices[len(notifier.notices)-1]
	if len(last.UnverifiedDocuments) != 1 || last.UnverifiedDocuments[0] != "scan.pdf" {
		t.Fatalf("notice payload = %+v", last)
	}

	doc.MarkVisitedInAnonymization()
	if res, err = wf.Advance(ctx, s); err != nil || !res.Valid {
		t.Fatalf("anonymization advance failed: res=%+v err=%v", res, err)
	}

	// digitization -> review
	if err := doc.MarkVisitedInDigitization(); err != nil {
		t.Fatalf("MarkVisitedInDigitization: %v", err)
	}
	if res, err = wf.Advance(ctx, s); err != nil || !res.Valid {
		t.Fatalf("digitization advance failed: res=%+v err=%v", res, err)
	}
	if s.Step != StepReview {
		t.Fatalf("expected review step, got %v", s.Step)
	}

	// review is terminal
	if _, err := wf.Advance(ctx, s); !errors.Is(err, ErrTerminalStep) {
		t.Errorf("expected ErrTerminalStep, got %v", err)
	}
}

func TestAdvance_DuplicateCaseName(t *testing.T) {
	reg := &fakeRegistry{taken: map[string]bool{"ROE-2025-01": true}}
	notifier := &recordingNotifier{}
	wf := New(reg, notifier)

	s := validSession()

	res, err := wf.Advance(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Valid {
		t.Fatal("duplicate case name must block the advance")
	}
	if s.Step != StepMetadata {
		t.Errorf("session moved to %v, want metadata", s.Step)
	}
	if len(s.Completed) != 0 {
		t.Errorf("completedSteps changed: %v", s.Completed)
	}

	mentioned := false
	for _, e := range res.Errors {
		if strings.Contains(e, "already in use") {
			mentioned = true
		}
	}
	if !mentioned {
		t.Errorf("errors %v do not mention the duplicate name", res.Errors)
	}
}

func TestAdvance_StaleNameCheckDiscarded(t *testing.T) {
	s := validSession()

	// The user edits the case name while the lookup is in flight: the
	// answer is for the old name and must be discarded.
	reg := &fakeRegistry{
		taken:    map[string]bool{},
		onLookup: func() { s.Case.Name = "ROE-2025-02" },
	}
	notifier := &recordingNotifier{}
	wf := New(reg, notifier)

	_, err := wf.Advance(context.Background(), s)
	if !errors.Is(err, ErrStaleNameCheck) {
		t.Fatalf("expected ErrStaleNameCheck, got %v", err)
	}
	if s.Step != StepMetadata || len(s.Completed) != 0 {
		t.Errorf("stale check must not change state: step=%v completed=%v", s.Step, s.Completed)
	}
	if len(notifier.notices) != 0 {
		t.Errorf("stale check must not notify, got %d notices", len(notifier.notices))
	}
}

func TestAdvance_RegistryFailure(t *testing.T) {
	reg := &fakeRegistry{err: errors.New("registry timeout")}
	wf := New(reg, nil)

	s := validSession()

	_, err := wf.Advance(context.Background(), s)
	if err == nil || !strings.Contains(err.Error(), "registry timeout") {
		t.Fatalf("expected wrapped registry error, got %v", err)
	}
	if s.Step != StepMetadata || len(s.Completed) != 0 {
		t.Errorf("collaborator failure must not change state: step=%v completed=%v", s.Step, s.Completed)
	}
}

func TestBack(t *testing.T) {
	reg := &fakeRegistry{taken: map[string]bool{}}
	wf := New(reg, nil)
	ctx := context.Background()

	s := validSession()
	if _, err := wf.Advance(ctx, s); err != nil {
		t.Fatalf("advance: %v", err)
	}
	s.AddDocument("scan.pdf", FileTypePDF, "k-1")
	if _, err := wf.Advance(ctx, s); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if s.Step != StepAnonymization {
		t.Fatalf("setup: step=%v", s.Step)
	}

	// Back to a completed earlier step is allowed
	if err := wf.Back(s, StepMetadata); err != nil {
		t.Fatalf("Back to metadata: %v", err)
	}
	if s.Step != StepMetadata {
		t.Errorf("step = %v, want metadata", s.Step)
	}

	// Nothing was destroyed on the way back
	if len(s.Documents) != 1 || !s.Completed[StepUpload] {
		t.Errorf("back navigation lost state: docs=%d completed=%v", len(s.Documents), s.Completed)
	}

	// Forward jumps and the current step are rejected
	if err := wf.Back(s, StepDigitization); !errors.Is(err, ErrCannotReturn) {
		t.Errorf("expected ErrCannotReturn for forward step, got %v", err)
	}
	if err := wf.Back(s, StepMetadata); !errors.Is(err, ErrCannotReturn) {
		t.Errorf("expected ErrCannotReturn for current step, got %v", err)
	}
}

func TestAdvance_EmptyCaseNameSkipsRegistry(t *testing.T) {
	reg := &fakeRegistry{taken: map[string]bool{}}
	wf := New(reg, nil)

	s := validSession()
	s.Case.Name = ""

	res, err := wf.Advance(context.Background(), s)
	if err != nil || res.Valid {
		t.Fatalf("empty name must fail locally: res=%+v err=%v", res, err)
	}
	if reg.calls != 0 {
		t.Errorf("registry called %d times for an empty name", reg.calls)
	}
}

func TestStepOrder(t *testing.T) {
	order := []Step{StepMetadata, StepUpload, StepAnonymization, StepDigitization, StepReview}

	for i, step := range order[:len(order)-1] {
		next, ok := step.Next()
		if !ok || next != order[i+1] {
			t.Errorf("%v.Next() = (%v, %v), want (%v, true)", step, next, ok, order[i+1])
		}
	}
	if _, ok := StepReview.Next(); ok {
		t.Error("review must not have a next step")
	}
	if !StepReview.IsTerminal() {
		t.Error("review must be terminal")
	}

	for _, step := range order {
		parsed, err := ParseStep(step.String())
		if err != nil || parsed != step {
			t.Errorf("ParseStep(%q) = (%v, %v)", step.String(), parsed, err)
		}
	}
	if _, err := ParseStep("shipping"); err == nil {
		t.Error("expected error for unknown step name")
	}
}

func TestSessionManager_SingleActiveSession(t *testing.T) {
	m := NewSessionManager()

	s, err := m.Start("user-1", "board-1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := m.Start("user-1", "board-2"); !errors.Is(err, ErrSessionActive) {
		t.Errorf("expected ErrSessionActive, got %v", err)
	}

	got, err := m.Get("user-1")
	if err != nil || got.ID != s.ID {
		t.Errorf("Get = (%v, %v), want the started session", got, err)
	}

	if _, err := m.Discard("user-1"); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if _, err := m.Get("user-1"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("expected ErrNoActiveSession after discard, got %v", err)
	}

	// A new session can start after the old one is gone
	if _, err := m.Start("user-1", "board-2"); err != nil {
		t.Errorf("Start after discard: %v", err)
	}
}
