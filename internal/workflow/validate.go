package workflow

import "fmt"

// Age bounds for the metadata gate.
const (
	MinPatientAge = 0
	MaxPatientAge = 150
)

// Result is the outcome of a validation gate. Gates never mutate the
// session and never error: repeated calls on the same state produce the
// same result, which makes re-validation on back-navigation safe.
type Result struct {
	Valid               bool     `json:"valid"`
	Errors              []string `json:"errors,omitempty"`
	UnverifiedDocuments []string `json:"unverifiedDocuments,omitempty"`
}

func failure(errs ...string) Result {
	return Result{Valid: false, Errors: errs}
}

func ok() Result {
	return Result{Valid: true}
}

// ValidateMetadata checks the patient and case blocks. The
// duplicate-name fact comes in as a value: the asynchronous registry
// lookup happens in the workflow so the gate stays pure.
func ValidateMetadata(s *Session, caseNameTaken bool) Result {
	var errs []string

	if s.Patient.Name == "" {
		errs = append(errs, "patient name is required")
	}
	if s.Patient.Age < MinPatientAge || s.Patient.Age > MaxPatientAge {
		errs = append(errs, fmt.Sprintf("patient age must be between %d and %d", MinPatientAge, MaxPatientAge))
	}
	if !ValidSex(s.Patient.Sex) {
		errs = append(errs, "patient sex must be female, male or other")
	}
	if s.Case.Name == "" {
		errs = append(errs, "case name is required")
	} else if caseNameTaken {
		errs = append(errs, fmt.Sprintf("case name %q is already in use", s.Case.Name))
	}
	if !ValidCancerType(s.Case.CancerType) {
		errs = append(errs, "cancer type is not one of the supported values")
	}

	if len(errs) > 0 {
		return failure(errs...)
	}
	return ok()
}

// ValidateDocumentsUploaded checks that the session holds at least one
// document.
func ValidateDocumentsUploaded(s *Session) Result {
	if len(s.Documents) == 0 {
		return failure("at least one document must be uploaded")
	}
	return ok()
}

// ValidateAnonymization checks that every document was visited during
// anonymization review. Failing documents are reported by file name in
// upload order.
func ValidateAnonymization(s *Session) Result {
	var unverified []string
	for _, d := range s.Documents {
		if !d.VisitedInAnonymization {
			unverified = append(unverified, d.FileName)
		}
	}
	if len(unverified) > 0 {
		return Result{
			Valid:               false,
			Errors:              []string{"all documents must be verified in anonymization"},
			UnverifiedDocuments: unverified,
		}
	}
	return ok()
}

// ValidateDigitization mirrors the anonymization gate for the second
// review phase: every document must carry a digitization visit that
// postdates its last anonymization edit.
func ValidateDigitization(s *Session) Result {
	var unverified []string
	for _, d := range s.Documents {
		if !d.VisitedInDigitization {
			unverified = append(unverified, d.FileName)
		}
	}
	if len(unverified) > 0 {
		return Result{
			Valid:               false,
			Errors:              []string{"all documents must be verified in digitization"},
			UnverifiedDocuments: unverified,
		}
	}
	return ok()
}
