// Package workflow implements the case intake wizard: an in-memory
// session advanced through a fixed sequence of steps, with validation
// gates at each boundary and per-document review lifecycle tracking.
package workflow

import "fmt"

// Step is one stage of the intake wizard. The declaration order is the
// wizard order; no forward skipping is possible.
type Step int

const (
	StepMetadata Step = iota
	StepUpload
	StepAnonymization
	StepDigitization
	StepReview
)

var stepNames = [...]string{
	StepMetadata:      "metadata",
	StepUpload:        "upload",
	StepAnonymization: "anonymization",
	StepDigitization:  "digitization",
	StepReview:        "review",
}

func (s Step) String() string {
	if s < StepMetadata || s > StepReview {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// MarshalText lets Step serialize as its wire name.
func (s Step) MarshalText() ([]byte, error) {
	if s < StepMetadata || s > StepReview {
		return nil, fmt.Errorf("unknown step %d", int(s))
	}
	return []byte(stepNames[s]), nil
}

// UnmarshalText parses a wire name back into a Step.
func (s *Step) UnmarshalText(text []byte) error {
	parsed, err := ParseStep(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStep converts a wire name into a Step.
func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if n == name {
			return Step(i), nil
		}
	}
	return 0, fmt.Errorf("unknown step %q", name)
}

// Next returns the following step, or false from the terminal step.
func (s Step) Next() (Step, bool) {
	if s >= StepReview {
		return s, false
	}
	return s + 1, true
}

// IsTerminal reports whether s is the final wizard step.
func (s Step) IsTerminal() bool {
	return s == StepReview
}
