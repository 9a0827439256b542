package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Valid moods a user can pick when writing an entry.
const (
	MoodHappy   = "happy"
	MoodNeutral = "neutral"
	MoodSad     = "sad"
)

// JournalEntry defines a single journal writing. EmotionAnalysis is
// attached at creation time if the analysis call succeeds and is never
// backfilled afterwards.
type JournalEntry struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          string             `bson:"user_id" json:"userId"`
	Title           string             `bson:"title" json:"title"`
	Content         string             `bson:"content" json:"content"`
	Mood            string             `bson:"mood" json:"mood"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	EmotionAnalysis *EmotionAnalysis   `bson:"emotion_analysis,omitempty" json:"emotionAnalysis,omitempty"`
}

// Emotion is one detected emotion with its confidence score. The wire
// format allows either a bare label string or a {label, score} object;
// a bare label carries no score and weighs as 1 during aggregation.
type Emotion struct {
	Label string  `bson:"label" json:"label"`
	Score float64 `bson:"score,omitempty" json:"score,omitempty"`
}

// UnmarshalJSON accepts both "joy" and {"label":"joy","score":0.8}.
func (e *Emotion) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		e.Label = label
		e.Score = 0
		return nil
	}

	var obj struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	e.Label = obj.Label
	e.Score = obj.Score
	return nil
}

// EmotionAnalysis is the payload produced by the emotion backend. The
// service only reads it; its internal fields are owned by the analyzer.
type EmotionAnalysis struct {
	Refined             string    `bson:"refined,omitempty" json:"refined,omitempty"`
	Summary             string    `bson:"summary" json:"summary"`
	Emotions            []Emotion `bson:"emotions" json:"emotions"`
	DominantEmotion     string    `bson:"dominant_emotion,omitempty" json:"dominant_emotion,omitempty"`
	Intensity           int       `bson:"intensity,omitempty" json:"intensity,omitempty"`
	Recommendations     []string  `bson:"recommendations,omitempty" json:"recommendations,omitempty"`
	WellnessSuggestions []string  `bson:"wellness_suggestions,omitempty" json:"wellness_suggestions,omitempty"`
}

// MoodPoint is one day of the 7-day mood trend. Derived on demand,
// never persisted.
type MoodPoint struct {
	Day      string  `json:"day"`
	Date     string  `json:"date"`
	Mood     float64 `json:"mood"`
	HasEntry bool    `json:"hasEntry"`
}
