package models

import (
	"time"

	"gorm.io/gorm"
)

// CaseRecord is a submitted case. The intake wizard builds the case in
// memory; only a completed submission lands here. The (owner_id,
// case_name) unique index backs the duplicate-name check during intake.
type CaseRecord struct {
	ID      string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	OwnerID string `gorm:"type:uuid;uniqueIndex:idx_owner_case_name;not null" json:"ownerId"`
	BoardID string `gorm:"type:uuid;index" json:"boardId"`

	CaseName   string `gorm:"uniqueIndex:idx_owner_case_name;not null" json:"caseName"`
	CancerType string `gorm:"not null" json:"cancerType"`
	Notes      string `gorm:"type:text" json:"notes,omitempty"`

	PatientName string `gorm:"not null" json:"patientName"`
	PatientAge  int    `gorm:"not null" json:"patientAge"`
	PatientSex  string `gorm:"not null" json:"patientSex"`

	Status string `gorm:"default:'submitted';index" json:"status"` // submitted, discussed, archived

	Attachments []CaseAttachment `gorm:"foreignKey:CaseRecordID" json:"attachments,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (CaseRecord) TableName() string {
	return "case_records"
}

// CaseAttachment is one reviewed document of a submitted case. Position
// preserves the upload order from the intake session.
type CaseAttachment struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CaseRecordID string `gorm:"type:uuid;index;not null" json:"caseRecordId"`
	FileName     string `gorm:"not null" json:"fileName"`
	FileType     string `gorm:"not null" json:"fileType"` // image, pdf
	StorageKey   string `gorm:"not null" json:"-"`
	Position     int    `gorm:"not null" json:"position"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name
func (CaseAttachment) TableName() string {
	return "case_attachments"
}
