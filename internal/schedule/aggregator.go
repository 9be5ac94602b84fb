package schedule

import (
	"sort"
	"time"

	"github.com/oncolane/caseboard/internal/models"
)

// Upcoming filters and orders a mixed set of dated and recurring
// meetings into the single "upcoming" view.
//
// A recurring meeting is always upcoming: its next occurrence may fall
// on any later day of the week. A dated meeting is upcoming while its
// calendar date is today or later and it is not more than 60 minutes
// past its start - the same grace used by IsJoinEnabled, so the two
// views never disagree on the boundary.
//
// Dated meetings come first, ascending by occurrence. All recurring
// meetings follow, ordered by creation time (oldest first): evergreen
// entries are deliberately de-prioritized relative to dated ones.
func Upcoming(meetings []models.Meeting, now time.Time) []models.Meeting {
	type dated struct {
		meeting    models.Meeting
		occurrence time.Time
	}

	var fixed []dated
	var recurring []models.Meeting

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, m := range meetings {
		m := m
		if m.IsRecurring() {
			recurring = append(recurring, m)
			continue
		}

		occ, ok := Occurrence(&m, now)
		if !ok {
			continue
		}
		if occ.Before(today) {
			continue
		}
		if minutes, ok := MinutesUntil(&m, now); !ok || minutes < -JoinGraceMinutes {
			continue
		}
		fixed = append(fixed, dated{meeting: m, occurrence: occ})
	}

	sort.SliceStable(fixed, func(i, j int) bool {
		return fixed[i].occurrence.Before(fixed[j].occurrence)
	})
	sort.SliceStable(recurring, func(i, j int) bool {
		return recurring[i].CreatedAt.Before(recurring[j].CreatedAt)
	})

	out := make([]models.Meeting, 0, len(fixed)+len(recurring))
	for _, d := range fixed {
		out = append(out, d.meeting)
	}
	return append(out, recurring...)
}

// MergeByID combines an optimistic local meeting list with an
// authoritative pushed one, deduplicating by meeting ID. Payloads for
// the same ID are expected identical, so the first occurrence wins and
// only presence matters.
func MergeByID(lists ...[]models.Meeting) []models.Meeting {
	seen := make(map[string]bool)
	var out []models.Meeting
	for _, list := range lists {
		for _, m := range list {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			out = append(out, m)
		}
	}
	return out
}
