package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mindgrove/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

const (
	analyzerModel = "gemini-2.0-flash-lite"
	chatbotModel  = "gemini-2.0-flash-lite"
)

// InitGemini creates the shared Gemini client.
func InitGemini(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, option.WithAPIKey(apiKey))
}

func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// GeminiAnalyzer scores journal entries with a single-call JSON prompt.
type GeminiAnalyzer struct {
	client *genai.Client
	log    *logrus.Logger
}

var _ EmotionAnalyzer = (*GeminiAnalyzer)(nil)

func NewGeminiAnalyzer(client *genai.Client, log *logrus.Logger) *GeminiAnalyzer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &GeminiAnalyzer{client: client, log: log}
}

// AnalyzeJournal asks the model for emotions with scores, normalizes the
// scores to sum to 1, drops anything below 0.10 and falls back to a
// neutral payload when the model output cannot be used.
func (a *GeminiAnalyzer) AnalyzeJournal(ctx context.Context, journal string) (*models.EmotionAnalysis, error) {
	prompt := fmt.Sprintf(`Analyze this journal entry for emotions. Respond in JSON format only.

Journal entry:
%s

Identify emotions and provide scores. Be specific (nostalgia, resentment, longing, guilt, hope, etc.).

Required JSON format:
{
  "emotions": [{"label": "emotion_name", "score": 0.0-1.0}],
  "dominant": "main_emotion",
  "intensity": 1-10,
  "summary": "brief empathetic summary (1 sentence)"
}

Rules:
- Map complex emotions: nostalgia/longing/regret to sadness, resentment to anger, contentment/acceptance/hope to calm
- Scores must sum to 1.0
- Only include emotions with score >= 0.15
- Keep summary under 20 words`, journal)

	model := a.client.GenerativeModel(analyzerModel)
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(300)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		a.log.WithError(err).Error("gemini analysis failed")
		return neutralAnalysis(journal), nil
	}

	var data struct {
		Emotions  []models.Emotion `json:"emotions"`
		Dominant  string           `json:"dominant"`
		Intensity int              `json:"intensity"`
		Summary   string           `json:"summary"`
	}
	if err := json.Unmarshal([]byte(cleanModelOutput(responseText(resp))), &data); err != nil {
		a.log.WithError(err).Error("gemini analysis returned unparseable JSON")
		return neutralAnalysis(journal), nil
	}

	// Normalize scores, then drop the noise floor
	var total float64
	for _, e := range data.Emotions {
		total += e.Score
	}
	emotions := make([]models.Emotion, 0, len(data.Emotions))
	for _, e := range data.Emotions {
		if total > 0 {
			e.Score = e.Score / total
		}
		if e.Score >= 0.10 {
			emotions = append(emotions, e)
		}
	}
	if len(emotions) == 0 {
		emotions = []models.Emotion{{Label: "neutral", Score: 1.0}}
	}

	summary := data.Summary
	if summary == "" {
		summary = "You appear to be experiencing complex emotions."
	}
	intensity := data.Intensity
	if intensity < 1 {
		intensity = 1
	}
	if intensity > 10 {
		intensity = 10
	}
	dominant := data.Dominant
	if dominant == "" {
		dominant = emotions[0].Label
	}

	return &models.EmotionAnalysis{
		Refined:         journal,
		Summary:         summary,
		Emotions:        emotions,
		DominantEmotion: dominant,
		Intensity:       intensity,
	}, nil
}

func neutralAnalysis(journal string) *models.EmotionAnalysis {
	return &models.EmotionAnalysis{
		Refined:         journal,
		Summary:         "Your emotions appear balanced and neutral.",
		Emotions:        []models.Emotion{{Label: "neutral", Score: 1.0}},
		DominantEmotion: "neutral",
		Intensity:       5,
	}
}
