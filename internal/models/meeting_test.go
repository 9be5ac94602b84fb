package models

import (
	"testing"

	"gorm.io/datatypes"
)

func TestMeetingValidate(t *testing.T) {
	tests := []struct {
		name    string
		meeting Meeting
		wantErr error
	}{
		{
			"custom with repeat days",
			Meeting{ScheduleType: ScheduleCustom, RepeatDays: datatypes.JSONSlice[int]{1, 3}},
			nil,
		},
		{
			"custom without repeat days",
			Meeting{ScheduleType: ScheduleCustom},
			ErrEmptyRepeatDays,
		},
		{
			"custom with out-of-range day",
			Meeting{ScheduleType: ScheduleCustom, RepeatDays: datatypes.JSONSlice[int]{7}},
			ErrInvalidRepeatDay,
		},
		{
			"once without repeat days",
			Meeting{ScheduleType: ScheduleOnce},
			nil,
		},
		{
			"once with repeat days",
			Meeting{ScheduleType: ScheduleOnce, RepeatDays: datatypes.JSONSlice[int]{1}},
			ErrUnexpectedRepeatDays,
		},
		{
			"instant without repeat days",
			Meeting{ScheduleType: ScheduleInstant},
			nil,
		},
		{
			"unknown schedule type",
			Meeting{ScheduleType: "fortnightly"},
			ErrInvalidScheduleType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.meeting.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsRecurring(t *testing.T) {
	recurring := Meeting{ScheduleType: ScheduleCustom, RepeatDays: datatypes.JSONSlice[int]{2}}
	if !recurring.IsRecurring() {
		t.Error("custom meeting with repeat days should be recurring")
	}

	once := Meeting{ScheduleType: ScheduleOnce}
	if once.IsRecurring() {
		t.Error("once meeting should not be recurring")
	}
}

func TestValidMeetingStatus(t *testing.T) {
	for _, s := range []string{MeetingScheduled, MeetingInProgress, MeetingEnded, MeetingCancelled} {
		if !ValidMeetingStatus(s) {
			t.Errorf("ValidMeetingStatus(%q) = false", s)
		}
	}
	if ValidMeetingStatus("postponed") {
		t.Error("ValidMeetingStatus(\"postponed\") = true")
	}
}
