package models

import (
	"encoding/json"
	"testing"
)

func TestEmotionUnmarshal_Object(t *testing.T) {
	var e Emotion
	if err := json.Unmarshal([]byte(`{"label":"joy","score":0.8}`), &e); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if e.Label != "joy" || e.Score != 0.8 {
		t.Errorf("got %+v, want {joy 0.8}", e)
	}
}

func TestEmotionUnmarshal_BareString(t *testing.T) {
	var e Emotion
	if err := json.Unmarshal([]byte(`"nostalgia"`), &e); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if e.Label != "nostalgia" || e.Score != 0 {
		t.Errorf("got %+v, want {nostalgia 0}", e)
	}
}

func TestEmotionUnmarshal_MixedList(t *testing.T) {
	var analysis EmotionAnalysis
	payload := `{"summary":"ok","emotions":["calm",{"label":"joy","score":0.6}]}`
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(analysis.Emotions) != 2 {
		t.Fatalf("len(emotions) = %d, want 2", len(analysis.Emotions))
	}
	if analysis.Emotions[0].Label != "calm" || analysis.Emotions[1].Score != 0.6 {
		t.Errorf("got %+v", analysis.Emotions)
	}
}
