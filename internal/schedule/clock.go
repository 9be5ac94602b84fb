// Package schedule computes join windows and the upcoming view for
// board meetings. Everything here is pure: no clocks are read, no state
// is touched, so the functions are safe to re-evaluate on every UI tick.
package schedule

import (
	"time"

	"github.com/oncolane/caseboard/internal/models"
)

// Join window policy: joining opens 5 minutes before the scheduled
// start and closes 60 minutes after it. Fixed policy, not configurable.
const (
	JoinLeadMinutes  = 5
	JoinGraceMinutes = 60
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// occurrenceOn builds the occurrence at the meeting's time-of-day on the
// given calendar day, in now's location. Date parts are combined
// directly; converting through UTC could shift the calendar day.
func occurrenceOn(year int, month time.Month, day int, scheduledTime string, loc *time.Location) (time.Time, bool) {
	t, err := time.Parse(timeLayout, scheduledTime)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), 0, 0, loc), true
}

// Occurrence returns the occurrence relevant for m at now: today's
// occurrence for a recurring meeting (false when today's weekday is not
// in the repeat set), the single fixed occurrence otherwise.
func Occurrence(m *models.Meeting, now time.Time) (time.Time, bool) {
	if m.IsRecurring() {
		if !repeatsOn(m, now.Weekday()) {
			return time.Time{}, false
		}
		return occurrenceOn(now.Year(), now.Month(), now.Day(), m.ScheduledTime, now.Location())
	}

	d, err := time.Parse(dateLayout, m.ScheduledDate)
	if err != nil {
		return time.Time{}, false
	}
	return occurrenceOn(d.Year(), d.Month(), d.Day(), m.ScheduledTime, now.Location())
}

// MinutesUntil returns the signed whole-minute distance from now to the
// relevant occurrence (negative = already started). The second result is
// false when there is no occurrence to measure against.
func MinutesUntil(m *models.Meeting, now time.Time) (int, bool) {
	occ, ok := Occurrence(m, now)
	if !ok {
		return 0, false
	}
	diff := occ.Truncate(time.Minute).Sub(now.Truncate(time.Minute))
	return int(diff / time.Minute), true
}

// IsJoinEnabled reports whether joining m is permitted at now:
// within 5 minutes before the scheduled start up to 60 minutes after.
func IsJoinEnabled(m *models.Meeting, now time.Time) bool {
	minutes, ok := MinutesUntil(m, now)
	if !ok {
		return false
	}
	return minutes <= JoinLeadMinutes && minutes >= -JoinGraceMinutes
}

func repeatsOn(m *models.Meeting, day time.Weekday) bool {
	for _, d := range m.RepeatDays {
		if d == int(day) {
			return true
		}
	}
	return false
}
