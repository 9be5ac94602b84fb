package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Schedule types
const (
	ScheduleOnce    = "once"
	ScheduleCustom  = "custom" // weekly recurring on RepeatDays
	ScheduleInstant = "instant"
)

// Meeting statuses
const (
	MeetingScheduled  = "scheduled"
	MeetingInProgress = "in_progress"
	MeetingEnded      = "ended"
	MeetingCancelled  = "cancelled"
)

var (
	ErrEmptyRepeatDays      = errors.New("custom meeting requires at least one repeat day")
	ErrUnexpectedRepeatDays = errors.New("repeat days are only valid for custom meetings")
	ErrInvalidScheduleType  = errors.New("invalid schedule type")
	ErrInvalidMeetingStatus = errors.New("invalid meeting status")
	ErrInvalidRepeatDay     = errors.New("repeat day must be between 0 (Sunday) and 6 (Saturday)")
)

// Meeting represents a board meeting. Date and time are stored as plain
// local-calendar strings ("2006-01-02", "15:04"); they are combined with
// the caller's clock only when a concrete occurrence is needed, so no
// timezone conversion can shift the calendar day.
type Meeting struct {
	ID      string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	BoardID string `gorm:"type:uuid;index;not null" json:"boardId"`
	OwnerID string `gorm:"type:uuid;index;not null" json:"ownerId"`
	Title   string `gorm:"not null" json:"title"`

	ScheduledDate string `gorm:"size:10;not null" json:"scheduledDate"` // 2006-01-02
	ScheduledTime string `gorm:"size:5;not null" json:"scheduledTime"`  // 15:04

	ScheduleType string                   `gorm:"not null;index" json:"scheduleType"` // once, custom, instant
	RepeatDays   datatypes.JSONSlice[int] `json:"repeatDays,omitempty"`               // 0=Sunday .. 6=Saturday

	Status string `gorm:"default:'scheduled';index" json:"status"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (Meeting) TableName() string {
	return "meetings"
}

// IsRecurring reports whether the meeting repeats weekly.
func (m *Meeting) IsRecurring() bool {
	return m.ScheduleType == ScheduleCustom && len(m.RepeatDays) > 0
}

// Validate enforces the schedule invariants: custom meetings carry a
// non-empty weekday set, one-time/instant meetings carry none.
func (m *Meeting) Validate() error {
	switch m.ScheduleType {
	case ScheduleCustom:
		if len(m.RepeatDays) == 0 {
			return ErrEmptyRepeatDays
		}
		for _, d := range m.RepeatDays {
			if d < 0 || d > 6 {
				return ErrInvalidRepeatDay
			}
		}
	case ScheduleOnce, ScheduleInstant:
		if len(m.RepeatDays) > 0 {
			return ErrUnexpectedRepeatDays
		}
	default:
		return ErrInvalidScheduleType
	}
	return nil
}

// ValidMeetingStatus reports whether s is a known meeting status.
func ValidMeetingStatus(s string) bool {
	switch s {
	case MeetingScheduled, MeetingInProgress, MeetingEnded, MeetingCancelled:
		return true
	}
	return false
}
