package workflow

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Patient sexes
const (
	SexFemale = "female"
	SexMale   = "male"
	SexOther  = "other"
)

// CancerTypes is the closed list the metadata step accepts.
var CancerTypes = []string{
	"breast",
	"colorectal",
	"lung",
	"melanoma",
	"ovarian",
	"pancreatic",
	"prostate",
	"sarcoma",
	"other",
}

// Document file types
const (
	FileTypeImage = "image"
	FileTypePDF   = "pdf"
)

var (
	ErrInvalidFileType  = errors.New("file type must be image or pdf")
	ErrDocumentNotFound = errors.New("document not found in session")
)

// PatientMetadata is the patient block of the metadata step.
type PatientMetadata struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
	Sex  string `json:"sex"`
}

// CaseMetadata is the case block of the metadata step.
type CaseMetadata struct {
	Name       string `json:"name"`
	CancerType string `json:"cancerType"`
	Notes      string `json:"notes,omitempty"`
}

// Document is one uploaded file inside an intake session, together with
// its review lifecycle flags. Raw bytes live in the blob store; the
// session only carries the storage key.
type Document struct {
	ID         string `json:"id"`
	FileName   string `json:"fileName"`
	FileType   string `json:"fileType"`
	StorageKey string `json:"-"`

	VisitedInAnonymization bool       `json:"visitedInAnonymization"`
	VisitedInDigitization  bool       `json:"visitedInDigitization"`
	AnonymizedChangedAt    *time.Time `json:"anonymizedChangedAt,omitempty"`
}

// Session is one case being created. It lives in memory for the
// duration of the wizard and is discarded on submit or abandon; only a
// completed submission is persisted, as a CaseRecord. A session has a
// single logical owner, so its mutations are not locked here - the
// SessionManager serializes access per user.
type Session struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	BoardID string `json:"boardId"`

	Step    Step            `json:"step"`
	Patient PatientMetadata `json:"patient"`
	Case    CaseMetadata    `json:"case"`

	// Documents keeps upload order; the order is meaningful for
	// validation reports.
	Documents []*Document `json:"documents"`

	Completed map[Step]bool `json:"completedSteps"`

	StartedAt time.Time `json:"startedAt"`
}

// NewSession starts an empty wizard session on the metadata step.
func NewSession(userID, boardID string) *Session {
	return &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		BoardID:   boardID,
		Step:      StepMetadata,
		Completed: make(map[Step]bool),
		StartedAt: time.Now(),
	}
}

// AddDocument appends an uploaded file to the session.
func (s *Session) AddDocument(fileName, fileType, storageKey string) (*Document, error) {
	if fileType != FileTypeImage && fileType != FileTypePDF {
		return nil, ErrInvalidFileType
	}
	doc := &Document{
		ID:         uuid.New().String(),
		FileName:   fileName,
		FileType:   fileType,
		StorageKey: storageKey,
	}
	s.Documents = append(s.Documents, doc)
	return doc, nil
}

// Document looks a session document up by ID.
func (s *Session) Document(id string) (*Document, error) {
	for _, d := range s.Documents {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, ErrDocumentNotFound
}

// RemoveDocument drops a document from the session and returns its
// storage key so the caller can delete the blob.
func (s *Session) RemoveDocument(id string) (string, error) {
	for i, d := range s.Documents {
		if d.ID == id {
			s.Documents = append(s.Documents[:i], s.Documents[i+1:]...)
			return d.StorageKey, nil
		}
	}
	return "", ErrDocumentNotFound
}

// CanReturnTo reports whether backward navigation to step is allowed:
// any earlier, already-completed step.
func (s *Session) CanReturnTo(step Step) bool {
	return step < s.Step && s.Completed[step]
}

// ValidSex reports whether sex is one of the enumerated values.
func ValidSex(sex string) bool {
	switch sex {
	case SexFemale, SexMale, SexOther:
		return true
	}
	return false
}

// ValidCancerType reports whether ct is in the closed list.
func ValidCancerType(ct string) bool {
	for _, c := range CancerTypes {
		if c == ct {
			return true
		}
	}
	return false
}
