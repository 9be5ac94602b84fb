package workflow

import (
	"reflect"
	"testing"
	"time"
)

func TestMarkVisitedInAnonymization_Idempotent(t *testing.T) {
	doc := &Document{ID: "d1", FileName: "scan.pdf", FileType: FileTypePDF}

	doc.MarkVisitedInAnonymization()
	once := *doc

	doc.MarkVisitedInAnonymization()
	if !reflect.DeepEqual(*doc, once) {
		t.Errorf("second call changed state: %+v vs %+v", *doc, once)
	}
	if !doc.VisitedInAnonymization {
		t.Error("expected VisitedInAnonymization = true")
	}
}

func TestApplyAnonymizationEdit_InvalidatesDigitization(t *testing.T) {
	doc := &Document{ID: "d1", FileName: "scan.pdf", FileType: FileTypePDF}
	doc.MarkVisitedInAnonymization()
	if err := doc.MarkVisitedInDigitization(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.VisitedInDigitization {
		t.Fatal("expected VisitedInDigitization = true before the edit")
	}

	editedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	doc.ApplyAnonymizationEdit(editedAt)

	if doc.VisitedInDigitization {
		t.Error("anonymization edit must force VisitedInDigitization back to false")
	}
	if doc.AnonymizedChangedAt == nil || !doc.AnonymizedChangedAt.Equal(editedAt) {
		t.Errorf("AnonymizedChangedAt = %v, want %v", doc.AnonymizedChangedAt, editedAt)
	}
	// The edit does not touch the anonymization visit flag
	if !doc.VisitedInAnonymization {
		t.Error("anonymization edit must not clear VisitedInAnonymization")
	}
}

func TestApplyAnonymizationEdit_BeforeAnyVisit(t *testing.T) {
	// The edit applies regardless of VisitedInAnonymization
	doc := &Document{ID: "d1", FileName: "scan.pdf", FileType: FileTypePDF}
	doc.ApplyAnonymizationEdit(time.Now())

	if doc.AnonymizedChangedAt == nil {
		t.Error("expected AnonymizedChangedAt to be set")
	}
	if doc.VisitedInDigitization {
		t.Error("expected VisitedInDigitization = false")
	}
}

func TestMarkVisitedInDigitization_Guarded(t *testing.T) {
	doc := &Document{ID: "d1", FileName: "scan.pdf", FileType: FileTypePDF}

	if err := doc.MarkVisitedInDigitization(); err != ErrNotVisitedInAnonymization {
		t.Errorf("expected ErrNotVisitedInAnonymization, got %v", err)
	}
	if doc.VisitedInDigitization {
		t.Error("rejected call must not set the flag")
	}

	doc.MarkVisitedInAnonymization()
	if err := doc.MarkVisitedInDigitization(); err != nil {
		t.Errorf("unexpected error after anonymization visit: %v", err)
	}
}

func TestLifecycle_EditNewerThanVisitInvariant(t *testing.T) {
	// No sequence of operations may leave VisitedInDigitization = true
	// while an anonymization edit is newer than the last digitization
	// visit. Each op is applied with a strictly increasing clock.
	type op int
	const (
		visitAnon op = iota
		edit
		visitDigit
	)

	sequences := [][]op{
		{visitAnon, visitDigit, edit},
		{visitAnon, edit, visitDigit, edit},
		{edit, visitAnon, visitDigit},
		{visitAnon, visitDigit, edit, edit, visitDigit, edit},
		{visitAnon, edit, edit, visitDigit},
	}

	for i, seq := range sequences {
		doc := &Document{ID: "d1", FileName: "scan.pdf", FileType: FileTypePDF}
		clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		var lastDigitVisit time.Time

		for _, o := range seq {
			clock = clock.Add(time.Minute)
			switch o {
			case visitAnon:
				doc.MarkVisitedInAnonymization()
			case edit:
				doc.ApplyAnonymizationEdit(clock)
			case visitDigit:
				if err := doc.MarkVisitedInDigitization(); err == nil {
					lastDigitVisit = clock
				}
			}

			if doc.VisitedInDigitization &&
				doc.AnonymizedChangedAt != nil &&
				doc.AnonymizedChangedAt.After(lastDigitVisit) {
				t.Fatalf("sequence %d: digitization visit survived a newer anonymization edit", i)
			}
		}
	}
}
