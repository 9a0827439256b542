package services

import (
	"time"

	"mindgrove/models"
)

// NextStats computes the stats transition for a journal entry created at
// now. Day comparisons use calendar dates in now's location, not elapsed
// 24-hour windows: an entry late tonight and one early tomorrow continue
// the streak even though they are hours apart.
func NextStats(current models.Stats, now time.Time) models.Stats {
	next := models.Stats{
		TotalEntries: current.TotalEntries + 1,
	}

	switch {
	case current.LastEntryDate == nil:
		// First entry ever
		next.Streak = 1
	case sameCalendarDay(*current.LastEntryDate, now.Add(-24*time.Hour), now.Location()):
		// Last entry was yesterday, the chain continues
		next.Streak = current.Streak + 1
	case sameCalendarDay(*current.LastEntryDate, now, now.Location()):
		// Already posted today, streak unchanged but at least 1
		next.Streak = current.Streak
		if next.Streak < 1 {
			next.Streak = 1
		}
	default:
		// Gap of two or more days, streak resets
		next.Streak = 1
	}

	next.LongestStreak = current.LongestStreak
	if next.Streak > next.LongestStreak {
		next.LongestStreak = next.Streak
	}

	entryTime := now
	next.LastEntryDate = &entryTime
	return next
}

func sameCalendarDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
