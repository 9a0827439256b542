package services

import (
	"math"
	"strings"
	"time"

	"mindgrove/models"
)

// Base mood value per emotion label, on the 1..5 chart scale. Labels the
// analyzer produces that are missing here score as neutral.
var emotionMoodScores = map[string]float64{
	"joy":                 5.0,
	"happy":               4.8,
	"excited":             4.5,
	"calm":                4.0,
	"calm and reflective": 3.8,
	"balanced":            3.7,
	"neutral":             3.0,
	"surprise":            3.5,
	"fear":                2.0,
	"anxiety":             2.2,
	"sadness":             1.5,
	"sad":                 1.8,
	"anger":               1.8,
	"frustrated":          2.3,
}

const defaultMoodScore = 3.0

// Trend labels derived from the 7-day series.
const (
	TrendImproving      = "Improving"
	TrendNeedsAttention = "Needs Attention"
	TrendStable         = "Stable"
)

// MoodTrend turns a user's journal history into the trailing 7-day mood
// series ending at today. Days without a qualifying entry sit at the
// neutral 3.0 with hasEntry false. When several entries land on the same
// day the last one processed wins; there is no intra-day averaging.
func MoodTrend(entries []models.JournalEntry, today time.Time) []models.MoodPoint {
	loc := today.Location()

	points := make([]models.MoodPoint, 0, 7)
	index := make(map[string]int, 7)
	for i := 6; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		key := date.In(loc).Format("2006-01-02")
		index[key] = len(points)
		points = append(points, models.MoodPoint{
			Day:      date.In(loc).Weekday().String()[:3],
			Date:     key,
			Mood:     defaultMoodScore,
			HasEntry: false,
		})
	}

	for _, entry := range entries {
		key := entry.CreatedAt.In(loc).Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			continue
		}
		if entry.EmotionAnalysis == nil || len(entry.EmotionAnalysis.Emotions) == 0 {
			continue
		}

		points[i].HasEntry = true
		points[i].Mood = entryMoodScore(entry.EmotionAnalysis.Emotions)
	}

	return points
}

// entryMoodScore is the weighted average of the entry's emotions mapped
// onto the chart scale, clamped to [1, 5] and rounded to one decimal.
// A bare label or a zero score weighs as 1.
func entryMoodScore(emotions []models.Emotion) float64 {
	var totalWeighted, totalWeight float64
	for _, emotion := range emotions {
		label := strings.ToLower(emotion.Label)
		if label == "" {
			continue
		}
		weight := emotion.Score
		if weight == 0 {
			weight = 1
		}

		base, ok := emotionMoodScores[label]
		if !ok {
			base = defaultMoodScore
		}
		totalWeighted += base * weight
		totalWeight += weight
	}

	score := defaultMoodScore
	if totalWeight > 0 {
		score = totalWeighted / totalWeight
	}
	score = math.Max(1.0, math.Min(5.0, score))
	return math.Round(score*10) / 10
}

// TrendLabel compares the mean of the last three points against the mean
// of the first three. Any nonzero difference flips the label; there is
// no hysteresis.
func TrendLabel(points []models.MoodPoint) string {
	if len(points) < 6 {
		return TrendStable
	}

	var recent, earlier float64
	for _, p := range points[len(points)-3:] {
		recent += p.Mood
	}
	for _, p := range points[:3] {
		earlier += p.Mood
	}
	recent /= 3
	earlier /= 3

	switch {
	case recent > earlier:
		return TrendImproving
	case recent < earlier:
		return TrendNeedsAttention
	default:
		return TrendStable
	}
}
