package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/oncolane/caseboard/internal/middleware"
	"github.com/oncolane/caseboard/internal/models"
	"github.com/oncolane/caseboard/internal/schedule"
	"github.com/oncolane/caseboard/internal/services/meetings"
	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"
)

// createMeeting schedules a meeting on one of the user's boards
func (r *Router) createMeeting(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)

	var meeting models.Meeting
	if err := json.NewDecoder(req.Body).Decode(&meeting); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	meeting.OwnerID = userID

	if err := r.meetings.Create(req.Context(), &meeting); err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyRepeatDays),
			errors.Is(err, models.ErrUnexpectedRepeatDays),
			errors.Is(err, models.ErrInvalidScheduleType),
			errors.Is(err, models.ErrInvalidRepeatDay):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Failed to create meeting")
		}
		return
	}

	respondJSON(w, http.StatusCreated, meeting)
}

// listMeetings returns all meetings of the user's boards
func (r *Router) listMeetings(w http.ResponseWriter, req *http.Request) {
	boardIDs, err := r.memberBoardIDs(middleware.UserID(req))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch boards")
		return
	}

	list, err := r.meetings.List(req.Context(), boardIDs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch meetings")
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// upcomingMeetings returns the filtered, ordered upcoming view
func (r *Router) upcomingMeetings(w http.ResponseWriter, req *http.Request) {
	boardIDs, err := r.memberBoardIDs(middleware.UserID(req))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch boards")
		return
	}

	list, err := r.meetings.Upcoming(req.Context(), boardIDs, time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch meetings")
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// joinMeeting gates the join action on the meeting's join window
func (r *Router) joinMeeting(w http.ResponseWriter, req *http.Request) {
	meeting, err := r.meetings.Get(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Meeting not found")
		return
	}

	now := time.Now()
	minutes, hasOccurrence := schedule.MinutesUntil(meeting, now)

	if !schedule.IsJoinEnabled(meeting, now) {
		payload := map[string]interface{}{
			"error":       "Joining is not open for this meeting",
			"joinEnabled": false,
		}
		if hasOccurrence {
			payload["minutesUntilStart"] = minutes
		}
		respondJSON(w, http.StatusForbidden, payload)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"joinEnabled":       true,
		"minutesUntilStart": minutes,
		"joinUrl":           r.meetingJoinURL(meeting.ID),
	})
}

// meetingQR renders the meeting join link as a QR code PNG
func (r *Router) meetingQR(w http.ResponseWriter, req *http.Request) {
	meeting, err := r.meetings.Get(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Meeting not found")
		return
	}

	png, err := qrcode.Encode(r.meetingJoinURL(meeting.ID), qrcode.Medium, 256)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// updateMeetingStatus moves a meeting to a new status
func (r *Router) updateMeetingStatus(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	meeting, err := r.meetings.UpdateStatus(req.Context(), mux.Vars(req)["id"], body.Status)
	switch {
	case errors.Is(err, models.ErrInvalidMeetingStatus):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, meetings.ErrMeetingNotFound):
		respondError(w, http.StatusNotFound, "Meeting not found")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to update meeting")
		return
	}

	respondJSON(w, http.StatusOK, meeting)
}

// deleteMeeting removes a meeting
func (r *Router) deleteMeeting(w http.ResponseWriter, req *http.Request) {
	err := r.meetings.Delete(req.Context(), mux.Vars(req)["id"])
	switch {
	case errors.Is(err, meetings.ErrMeetingNotFound):
		respondError(w, http.StatusNotFound, "Meeting not found")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to delete meeting")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Meeting deleted successfully",
	})
}

func (r *Router) meetingJoinURL(meetingID string) string {
	return fmt.Sprintf("/meet/%s", meetingID)
}
