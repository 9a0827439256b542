package services

import (
	"testing"
	"time"

	"mindgrove/models"
)

func date(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.Local)
}

func TestNextStats_FirstEntry(t *testing.T) {
	now := date(2025, time.March, 10, 9, 0)
	next := NextStats(models.Stats{}, now)

	if next.TotalEntries != 1 {
		t.Errorf("TotalEntries = %d, want 1", next.TotalEntries)
	}
	if next.Streak != 1 {
		t.Errorf("Streak = %d, want 1", next.Streak)
	}
	if next.LongestStreak != 1 {
		t.Errorf("LongestStreak = %d, want 1", next.LongestStreak)
	}
	if next.LastEntryDate == nil || !next.LastEntryDate.Equal(now) {
		t.Errorf("LastEntryDate = %v, want %v", next.LastEntryDate, now)
	}
}

func TestNextStats_ConsecutiveDayExtendsStreak(t *testing.T) {
	last := date(2025, time.March, 10, 22, 0)
	now := date(2025, time.March, 11, 8, 0)

	next := NextStats(models.Stats{TotalEntries: 4, Streak: 3, LongestStreak: 3, LastEntryDate: &last}, now)

	if next.Streak != 4 {
		t.Errorf("Streak = %d, want 4", next.Streak)
	}
	if next.LongestStreak != 4 {
		t.Errorf("LongestStreak = %d, want 4", next.LongestStreak)
	}
	if next.TotalEntries != 5 {
		t.Errorf("TotalEntries = %d, want 5", next.TotalEntries)
	}
}

func TestNextStats_SameDayKeepsStreak(t *testing.T) {
	last := date(2025, time.March, 11, 8, 0)
	now := date(2025, time.March, 11, 21, 30)

	next := NextStats(models.Stats{TotalEntries: 5, Streak: 4, LongestStreak: 4, LastEntryDate: &last}, now)

	if next.Streak != 4 {
		t.Errorf("Streak = %d, want 4", next.Streak)
	}
	if next.TotalEntries != 6 {
		t.Errorf("TotalEntries = %d, want 6", next.TotalEntries)
	}
}

func TestNextStats_SameDayFloorsStreakAtOne(t *testing.T) {
	// A same-day entry on top of corrupted zero stats still yields a
	// streak of 1.
	last := date(2025, time.March, 11, 8, 0)
	now := date(2025, time.March, 11, 9, 0)

	next := NextStats(models.Stats{TotalEntries: 1, Streak: 0, LastEntryDate: &last}, now)

	if next.Streak != 1 {
		t.Errorf("Streak = %d, want 1", next.Streak)
	}
}

func TestNextStats_GapResetsStreak(t *testing.T) {
	last := date(2025, time.March, 8, 12, 0)
	now := date(2025, time.March, 11, 12, 0)

	next := NextStats(models.Stats{TotalEntries: 10, Streak: 6, LongestStreak: 6, LastEntryDate: &last}, now)

	if next.Streak != 1 {
		t.Errorf("Streak = %d, want 1", next.Streak)
	}
	if next.LongestStreak != 6 {
		t.Errorf("LongestStreak = %d, want 6 (preserved)", next.LongestStreak)
	}
}

func TestNextStats_MidnightBoundary(t *testing.T) {
	// 23:58 one day, 00:05 the next: calendar days differ by one, so
	// the streak continues even though only minutes passed.
	last := date(2025, time.March, 10, 23, 58)
	now := date(2025, time.March, 11, 0, 5)

	next := NextStats(models.Stats{TotalEntries: 2, Streak: 2, LongestStreak: 2, LastEntryDate: &last}, now)

	if next.Streak != 3 {
		t.Errorf("Streak = %d, want 3", next.Streak)
	}
}

func TestNextStats_LongestStreakNeverDecreases(t *testing.T) {
	last := date(2025, time.March, 1, 12, 0)
	now := date(2025, time.March, 20, 12, 0)

	next := NextStats(models.Stats{TotalEntries: 30, Streak: 12, LongestStreak: 12, LastEntryDate: &last}, now)

	if next.LongestStreak != 12 {
		t.Errorf("LongestStreak = %d, want 12", next.LongestStreak)
	}
	if next.Streak != 1 {
		t.Errorf("Streak = %d, want 1", next.Streak)
	}
}

func TestEvaluateAchievements(t *testing.T) {
	earned := EvaluateAchievements(models.Stats{TotalEntries: 12, Streak: 5, LongestStreak: 5})

	want := map[string]bool{"first_entry": true, "entries_10": true, "streak_5": true}
	if len(earned) != len(want) {
		t.Fatalf("earned = %v, want %d achievements", earned, len(want))
	}
	for _, id := range earned {
		if !want[id] {
			t.Errorf("unexpected achievement %q", id)
		}
	}
}

func TestMergeAchievements_AppendOnly(t *testing.T) {
	existing := []string{"first_entry", "streak_5"}
	merged := MergeAchievements(existing, []string{"first_entry", "entries_10"})

	want := []string{"first_entry", "streak_5", "entries_10"}
	if len(merged) != len(want) {
		t.Fatalf("merged = %v, want %v", merged, want)
	}
	for i, id := range want {
		if merged[i] != id {
			t.Errorf("merged[%d] = %q, want %q", i, merged[i], id)
		}
	}
}
