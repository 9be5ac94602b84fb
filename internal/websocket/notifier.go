package websocket

import "github.com/oncolane/caseboard/internal/workflow"

// MsgValidationBlocked is the attention signal pushed when a wizard
// advance is blocked by validation.
const MsgValidationBlocked = "VALIDATION_BLOCKED"

// Notifier adapts the hub to the one-way signal contracts of the
// workflow and the meeting service.
type Notifier struct {
	hub *Hub
}

// NewNotifier wraps a hub.
func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// ValidationBlocked pushes the blocked-advance attention signal to the
// session owner. Delivery is best-effort: the HTTP response carries the
// same payload.
func (n *Notifier) ValidationBlocked(userID string, notice workflow.BlockedNotice) {
	n.hub.SendToUser(userID, map[string]interface{}{
		"type":                MsgValidationBlocked,
		"title":               notice.Title,
		"description":         notice.Description,
		"unverifiedDocuments": notice.UnverifiedDocuments,
	})
}

// MeetingEvent pushes a meeting change to every board member. Clients
// merge pushed meetings with their optimistic local list by ID.
func (n *Notifier) MeetingEvent(eventType string, memberIDs []string, payload interface{}) {
	n.hub.SendToUsers(memberIDs, map[string]interface{}{
		"type":    eventType,
		"meeting": payload,
	})
}
