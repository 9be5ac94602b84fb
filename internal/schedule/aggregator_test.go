package schedule

import (
	"testing"
	"time"

	"github.com/oncolane/caseboard/internal/models"
	"gorm.io/datatypes"
)

func datedAt(id, date, clock string) models.Meeting {
	return models.Meeting{
		ID:            id,
		ScheduleType:  models.ScheduleOnce,
		ScheduledDate: date,
		ScheduledTime: clock,
	}
}

func recurringCreated(id, clock string, createdAt time.Time, days ...int) models.Meeting {
	return models.Meeting{
		ID:            id,
		ScheduleType:  models.ScheduleCustom,
		ScheduledTime: clock,
		RepeatDays:    datatypes.JSONSlice[int](days),
		CreatedAt:     createdAt,
	}
}

func ids(meetings []models.Meeting) []string {
	out := make([]string, len(meetings))
	for i, m := range meetings {
		out[i] = m.ID
	}
	return out
}

func equalIDs(a []models.Meeting, want []string) bool {
	if len(a) != len(want) {
		return false
	}
	for i, m := range a {
		if m.ID != want[i] {
			return false
		}
	}
	return true
}

func TestUpcoming_Ordering(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.Local)

	meetings := []models.Meeting{
		datedAt("ten", "2025-03-01", "10:00"),
		datedAt("nine", "2025-03-01", "09:00"),
		recurringCreated("rec", "14:00", time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local), 1),
	}

	got := Upcoming(meetings, now)
	if !equalIDs(got, []string{"nine", "ten", "rec"}) {
		t.Errorf("Upcoming order = %v, want [nine ten rec]", ids(got))
	}
}

func TestUpcoming_RecurringAfterDated(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.Local)

	// Recurring meetings are evergreen: they sort after every dated
	// meeting and among themselves by creation time, oldest first.
	meetings := []models.Meeting{
		recurringCreated("rec-new", "08:30", time.Date(2025, 2, 20, 0, 0, 0, 0, time.Local), 0, 6),
		datedAt("next-week", "2025-03-08", "10:00"),
		recurringCreated("rec-old", "23:00", time.Date(2025, 1, 5, 0, 0, 0, 0, time.Local), 3),
	}

	got := Upcoming(meetings, now)
	if !equalIDs(got, []string{"next-week", "rec-old", "rec-new"}) {
		t.Errorf("Upcoming order = %v, want [next-week rec-old rec-new]", ids(got))
	}
}

func TestUpcoming_ExcludesEndedToday(t *testing.T) {
	// A dated meeting today whose start is more than 60 minutes gone is
	// not upcoming even though its date matches today.
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)

	meetings := []models.Meeting{
		datedAt("ended", "2025-03-01", "09:00"),    // 180 minutes past
		datedAt("grace", "2025-03-01", "11:05"),    // 55 minutes past, still in grace
		datedAt("later", "2025-03-01", "15:00"),    // this afternoon
		datedAt("past-day", "2025-02-28", "23:59"), // yesterday
	}

	got := Upcoming(meetings, now)
	if !equalIDs(got, []string{"grace", "later"}) {
		t.Errorf("Upcoming = %v, want [grace later]", ids(got))
	}
}

func TestUpcoming_GraceBoundaryMatchesJoinWindow(t *testing.T) {
	meeting := datedAt("boundary", "2025-03-01", "10:00")

	// 60 minutes past start: still upcoming and still joinable
	now := time.Date(2025, 3, 1, 11, 0, 0, 0, time.Local)
	if got := Upcoming([]models.Meeting{meeting}, now); len(got) != 1 {
		t.Error("meeting at grace boundary should be upcoming")
	}
	if !IsJoinEnabled(&meeting, now) {
		t.Error("meeting at grace boundary should be joinable")
	}

	// 61 minutes past start: gone from both views at once
	now = now.Add(time.Minute)
	if got := Upcoming([]models.Meeting{meeting}, now); len(got) != 0 {
		t.Error("meeting past grace should not be upcoming")
	}
	if IsJoinEnabled(&meeting, now) {
		t.Error("meeting past grace should not be joinable")
	}
}

func TestUpcoming_RecurringAlwaysIncluded(t *testing.T) {
	// Tuesday; the meeting only repeats on Mondays. It is still
	// upcoming: its next occurrence is a future day of the week.
	now := time.Date(2025, 3, 4, 23, 30, 0, 0, time.Local)

	meetings := []models.Meeting{
		recurringCreated("mondays", "14:00", time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local), 1),
	}

	got := Upcoming(meetings, now)
	if !equalIDs(got, []string{"mondays"}) {
		t.Errorf("Upcoming = %v, want [mondays]", ids(got))
	}
}

func TestMergeByID(t *testing.T) {
	local := []models.Meeting{
		datedAt("a", "2025-03-01", "09:00"),
		datedAt("b", "2025-03-01", "10:00"),
	}
	pushed := []models.Meeting{
		datedAt("b", "2025-03-01", "10:00"), // authoritative copy of the optimistic append
		datedAt("c", "2025-03-01", "11:00"),
	}

	got := MergeByID(local, pushed)
	if !equalIDs(got, []string{"a", "b", "c"}) {
		t.Errorf("MergeByID = %v, want [a b c]", ids(got))
	}
}
