package services

import (
	"context"
	"sort"
	"strings"

	"mindgrove/models"
)

// Keyword lexicon used when neither a remote emotion API nor a Gemini
// key is configured. Labels follow the six-way scheme the scoring table
// in mood.go understands.
var emotionKeywords = map[string][]string{
	"joy": {
		"happy", "joy", "glad", "great", "wonderful", "amazing", "excited",
		"grateful", "thankful", "love", "loved", "proud", "fun", "smile",
		"laughed", "awesome", "fantastic",
	},
	"sadness": {
		"sad", "down", "depressed", "unhappy", "cry", "cried", "lonely",
		"miss", "missing", "lost", "grief", "hopeless", "empty", "hurt",
		"disappointed", "regret",
	},
	"anger": {
		"angry", "mad", "furious", "annoyed", "frustrated", "irritated",
		"hate", "rage", "resent", "unfair", "outraged",
	},
	"fear": {
		"afraid", "scared", "anxious", "anxiety", "worried", "worry",
		"nervous", "panic", "terrified", "dread", "overwhelmed", "stress",
		"stressed",
	},
	"surprise": {
		"surprised", "unexpected", "shocked", "sudden", "astonished",
		"unbelievable",
	},
}

var emotionSummaries = map[string]string{
	"joy":      "There's a lot of brightness in your writing today.",
	"sadness":  "It sounds like today carried some heaviness. Be gentle with yourself.",
	"anger":    "Some frustration comes through in your words. It's okay to feel this way.",
	"fear":     "There's some worry woven through your entry. You're not alone in this.",
	"surprise": "Today seems to have brought the unexpected.",
	"neutral":  "Your emotions appear balanced and neutral.",
}

// Wellness tips keyed by dominant emotion, attached to the analysis as
// suggestions the dashboard can surface.
var emotionTipDatabase = map[string][]string{
	"joy": {
		"Continue engaging in activities that bring you happiness",
		"Share your positive energy with others around you",
		"Practice gratitude to maintain this positive momentum",
	},
	"sadness": {
		"Allow yourself to feel these emotions - they're valid",
		"Consider reaching out to friends or family for support",
		"Try gentle activities like walking or listening to calming music",
	},
	"anger": {
		"Practice deep breathing exercises when feeling frustrated",
		"Try physical exercise to channel your energy positively",
		"Consider what's at the root of your anger and address it calmly",
	},
	"fear": {
		"Use grounding techniques like the 5-4-3-2-1 method",
		"Break down your worries into manageable, actionable steps",
		"Remember that courage isn't the absence of fear, but action despite it",
	},
	"surprise": {
		"Take time to process unexpected events at your own pace",
		"Journal about new experiences to understand your reactions",
		"Embrace the unexpected as opportunities for growth",
	},
	"neutral": {
		"Use this balanced state for reflection and planning",
		"Try new activities to explore different emotional experiences",
		"Practice mindfulness to appreciate moments of calm",
	},
}

// LexiconAnalyzer is the offline rule-based analyzer. It never fails;
// text without any recognized keyword scores as pure neutral.
type LexiconAnalyzer struct{}

var _ EmotionAnalyzer = (*LexiconAnalyzer)(nil)

func NewLexiconAnalyzer() *LexiconAnalyzer {
	return &LexiconAnalyzer{}
}

func (a *LexiconAnalyzer) AnalyzeJournal(ctx context.Context, journal string) (*models.EmotionAnalysis, error) {
	words := strings.Fields(strings.ToLower(journal))
	hits := map[string]int{}
	total := 0
	for _, word := range words {
		trimmed := strings.Trim(word, ".,!?;:'\"()")
		for label, keywords := range emotionKeywords {
			for _, keyword := range keywords {
				if trimmed == keyword {
					hits[label]++
					total++
				}
			}
		}
	}

	if total == 0 {
		analysis := neutralAnalysis(journal)
		analysis.WellnessSuggestions = emotionTipDatabase["neutral"]
		return analysis, nil
	}

	emotions := make([]models.Emotion, 0, len(hits))
	for label, count := range hits {
		emotions = append(emotions, models.Emotion{
			Label: label,
			Score: float64(count) / float64(total),
		})
	}
	sort.Slice(emotions, func(i, j int) bool {
		if emotions[i].Score != emotions[j].Score {
			return emotions[i].Score > emotions[j].Score
		}
		return emotions[i].Label < emotions[j].Label
	})

	// Intensity follows the original scale: summed top-3 scores mapped
	// onto 1..10.
	top := emotions
	if len(top) > 3 {
		top = top[:3]
	}
	var topSum float64
	for _, e := range top {
		topSum += e.Score
	}
	intensity := int(topSum * 10)
	if intensity < 1 {
		intensity = 1
	}
	if intensity > 10 {
		intensity = 10
	}

	dominant := emotions[0].Label
	summary, ok := emotionSummaries[dominant]
	if !ok {
		summary = emotionSummaries["neutral"]
	}

	return &models.EmotionAnalysis{
		Refined:             journal,
		Summary:             summary,
		Emotions:            emotions,
		DominantEmotion:     dominant,
		Intensity:           intensity,
		WellnessSuggestions: emotionTipDatabase[dominant],
	}, nil
}
