// Package meetings owns meeting persistence and the push events board
// members receive on changes.
package meetings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oncolane/caseboard/internal/database"
	"github.com/oncolane/caseboard/internal/models"
	"github.com/oncolane/caseboard/internal/schedule"
)

// Push event types. Clients reconcile pushed meetings with their
// optimistic local list by ID.
const (
	EventCreated = "MEETING_CREATED"
	EventUpdated = "MEETING_UPDATED"
	EventDeleted = "MEETING_DELETED"
)

var ErrMeetingNotFound = errors.New("meeting not found")

// Events receives one-way meeting change notifications.
type Events interface {
	MeetingEvent(eventType string, memberIDs []string, payload interface{})
}

type nopEvents struct{}

func (nopEvents) MeetingEvent(string, []string, interface{}) {}

// Service is the meeting store plus change notification fan-out.
type Service struct {
	db     *database.DB
	events Events
}

// New creates a meeting service. A nil events sink discards events.
func New(db *database.DB, events Events) *Service {
	if events == nil {
		events = nopEvents{}
	}
	return &Service{db: db, events: events}
}

// Create validates the schedule invariants and stores the meeting.
// Instant meetings start now: their date/time are stamped from the
// clock and the status begins as in_progress.
func (s *Service) Create(ctx context.Context, m *models.Meeting) error {
	if m.ScheduleType == models.ScheduleInstant {
		now := time.Now()
		m.ScheduledDate = now.Format("2006-01-02")
		m.ScheduledTime = now.Format("15:04")
		m.Status = models.MeetingInProgress
	}
	if m.Status == "" {
		m.Status = models.MeetingScheduled
	}
	if err := m.Validate(); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}

	s.notifyBoard(ctx, m.BoardID, EventCreated, m)
	return nil
}

// List returns all meetings of the given boards.
func (s *Service) List(ctx context.Context, boardIDs []string) ([]models.Meeting, error) {
	if len(boardIDs) == 0 {
		return nil, nil
	}
	var meetings []models.Meeting
	err := s.db.WithContext(ctx).
		Where("board_id IN ?", boardIDs).
		Order("created_at ASC").
		Find(&meetings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// Upcoming returns the filtered, ordered upcoming view for the boards.
func (s *Service) Upcoming(ctx context.Context, boardIDs []string, now time.Time) ([]models.Meeting, error) {
	meetings, err := s.List(ctx, boardIDs)
	if err != nil {
		return nil, err
	}
	return schedule.Upcoming(meetings, now), nil
}

// Get fetches one meeting.
func (s *Service) Get(ctx context.Context, id string) (*models.Meeting, error) {
	var m models.Meeting
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, ErrMeetingNotFound
	}
	return &m, nil
}

// UpdateStatus moves a meeting to a new status.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*models.Meeting, error) {
	if !models.ValidMeetingStatus(status) {
		return nil, models.ErrInvalidMeetingStatus
	}

	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	m.Status = status
	if err := s.db.WithContext(ctx).Model(m).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update meeting status: %w", err)
	}

	s.notifyBoard(ctx, m.BoardID, EventUpdated, m)
	return m, nil
}

// Delete removes a meeting.
func (s *Service) Delete(ctx context.Context, id string) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.Meeting{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}

	s.notifyBoard(ctx, m.BoardID, EventDeleted, m)
	return nil
}

// notifyBoard pushes a meeting event to every member of the board.
// Best-effort: a failed lookup only costs the push, never the write.
func (s *Service) notifyBoard(ctx context.Context, boardID, eventType string, m *models.Meeting) {
	var memberIDs []string
	err := s.db.WithContext(ctx).
		Model(&models.BoardMember{}).
		Where("board_id = ?", boardID).
		Pluck("user_id", &memberIDs).Error
	if err != nil || len(memberIDs) == 0 {
		return
	}
	s.events.MeetingEvent(eventType, memberIDs, m)
}
