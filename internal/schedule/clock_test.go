package schedule

import (
	"testing"
	"time"

	"github.com/oncolane/caseboard/internal/models"
	"gorm.io/datatypes"
)

func onceMeeting(date, clock string) *models.Meeting {
	return &models.Meeting{
		ID:            "m-once",
		ScheduleType:  models.ScheduleOnce,
		ScheduledDate: date,
		ScheduledTime: clock,
	}
}

func recurringMeeting(clock string, days ...int) *models.Meeting {
	return &models.Meeting{
		ID:            "m-rec",
		ScheduleType:  models.ScheduleCustom,
		ScheduledTime: clock,
		RepeatDays:    datatypes.JSONSlice[int](days),
	}
}

func localTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02T15:04", value, time.Local)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return parsed
}

func TestIsJoinEnabled_OnceMeeting(t *testing.T) {
	meeting := onceMeeting("2025-03-01", "10:00")

	tests := []struct {
		name string
		now  string
		want bool
	}{
		{"two minutes before start", "2025-03-01T09:58", true},
		{"exactly at lead boundary", "2025-03-01T09:55", true},
		{"one minute too early", "2025-03-01T09:54", false},
		{"at start", "2025-03-01T10:00", true},
		{"at grace boundary", "2025-03-01T11:00", true},
		{"61 minutes after start", "2025-03-01T11:01", false},
		{"previous day", "2025-02-28T10:00", false},
		{"next day", "2025-03-02T10:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsJoinEnabled(meeting, localTime(t, tt.now)); got != tt.want {
				t.Errorf("IsJoinEnabled(%s) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestIsJoinEnabled_RecurringMeeting(t *testing.T) {
	// Monday only, 14:00
	meeting := recurringMeeting("14:00", 1)

	// 2025-03-04 is a Tuesday: never joinable, regardless of clock time
	for _, clock := range []string{"00:01", "13:58", "14:00", "14:30", "23:59"} {
		now := localTime(t, "2025-03-04T"+clock)
		if IsJoinEnabled(meeting, now) {
			t.Errorf("IsJoinEnabled on Tuesday at %s = true, want false", clock)
		}
	}

	// 2025-03-03 is a Monday: the window applies
	if !IsJoinEnabled(meeting, localTime(t, "2025-03-03T13:58")) {
		t.Error("expected join enabled 2 minutes before start on a Monday")
	}
	if IsJoinEnabled(meeting, localTime(t, "2025-03-03T15:01")) {
		t.Error("expected join disabled 61 minutes after start on a Monday")
	}
}

func TestMinutesUntil(t *testing.T) {
	meeting := onceMeeting("2025-03-01", "10:00")

	minutes, ok := MinutesUntil(meeting, localTime(t, "2025-03-01T09:58"))
	if !ok || minutes != 2 {
		t.Errorf("MinutesUntil before start = (%d, %v), want (2, true)", minutes, ok)
	}

	minutes, ok = MinutesUntil(meeting, localTime(t, "2025-03-01T11:01"))
	if !ok || minutes != -61 {
		t.Errorf("MinutesUntil after start = (%d, %v), want (-61, true)", minutes, ok)
	}

	// Sub-minute precision is not observable: 09:58:45 still counts as 2
	now := localTime(t, "2025-03-01T09:58").Add(45 * time.Second)
	minutes, ok = MinutesUntil(meeting, now)
	if !ok || minutes != 2 {
		t.Errorf("MinutesUntil with seconds = (%d, %v), want (2, true)", minutes, ok)
	}

	// Off-weekday recurring meeting has no occurrence today
	if _, ok := MinutesUntil(recurringMeeting("14:00", 1), localTime(t, "2025-03-04T09:00")); ok {
		t.Error("expected no occurrence for a Monday meeting on a Tuesday")
	}
}

func TestMinutesUntil_WindowProperty(t *testing.T) {
	// The join rule must agree with the minute distance everywhere in
	// and around the window.
	meeting := onceMeeting("2025-03-01", "10:00")
	start := localTime(t, "2025-03-01T08:00")

	for i := 0; i < 240; i++ {
		now := start.Add(time.Duration(i) * time.Minute)
		minutes, ok := MinutesUntil(meeting, now)
		if !ok {
			t.Fatalf("expected an occurrence at %v", now)
		}
		want := minutes <= JoinLeadMinutes && minutes >= -JoinGraceMinutes
		if got := IsJoinEnabled(meeting, now); got != want {
			t.Errorf("IsJoinEnabled at %v = %v, want %v (minutes=%d)", now, got, want, minutes)
		}
	}
}

func TestOccurrence_InvalidInput(t *testing.T) {
	if _, ok := Occurrence(onceMeeting("not-a-date", "10:00"), localTime(t, "2025-03-01T09:00")); ok {
		t.Error("expected no occurrence for an unparsable date")
	}
	if _, ok := Occurrence(onceMeeting("2025-03-01", "25:99"), localTime(t, "2025-03-01T09:00")); ok {
		t.Error("expected no occurrence for an unparsable time")
	}
}
