package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
)

const chatbotSystemInstruction = `You are a compassionate and empathetic mental health support chatbot named "Mindful Assistant". Your role is to:

1. Listen actively: acknowledge the user's feelings and validate their emotions
2. Provide support: offer practical coping strategies, mindfulness exercises, and wellness tips
3. Be conversational: keep responses warm, friendly, and under 3 sentences
4. Suggest exercises: recommend breathing exercises, meditation, gratitude practices when appropriate
5. Encourage journaling: suggest writing down thoughts and feelings
6. Know limits: ALWAYS remind users in crisis to contact emergency services or mental health professionals

Key guidelines:
- Keep responses concise (2-3 sentences max)
- Use empathetic language ("I hear you", "That sounds difficult", "It's okay to feel this way")
- Offer actionable advice
- Don't diagnose or replace professional help
- Be supportive but realistic
- Use a gentle, encouraging tone

Remember: You're a supportive companion, not a therapist.`

const chatbotFallbackReply = "I'm here to listen. Please tell me more about how you're feeling."

var exerciseKeywords = []string{"breathing", "exercise", "meditation", "practice", "try", "mindfulness"}

var wellnessTips = []string{
	"Take three deep breaths before responding to any stressful situation. This simple pause can help you respond rather than react.",
	"Practice the 5-4-3-2-1 grounding technique: Notice 5 things you see, 4 you can touch, 3 you hear, 2 you smell, and 1 you taste.",
	"Set aside 5 minutes today for gratitude. Write down three things you're thankful for, no matter how small.",
	"Movement is medicine. Even a 10-minute walk can boost your mood and clear your mind.",
	"Your feelings are valid, and it's okay to not be okay. Reach out to someone you trust when you need support.",
	"Quality sleep is crucial for mental health. Try to maintain a consistent sleep schedule.",
	"Limit social media if it's affecting your mood. Take breaks and be mindful of your screen time.",
	"Practice saying 'no' to protect your energy. Setting boundaries is an act of self-care.",
}

// WellnessTip returns a random tip from the fixed list.
func WellnessTip() string {
	return wellnessTips[rand.Intn(len(wellnessTips))]
}

// GeminiChatbot is the AI companion. It keeps one running conversation
// per application instance, matching the single-session model of the
// rest of the service.
type GeminiChatbot struct {
	client *genai.Client
	log    *logrus.Logger

	mu      sync.Mutex
	session *genai.ChatSession
}

var _ Chatbot = (*GeminiChatbot)(nil)

func NewGeminiChatbot(client *genai.Client, log *logrus.Logger) *GeminiChatbot {
	if log == nil {
		log = logrus.StandardLogger()
	}
	bot := &GeminiChatbot{client: client, log: log}
	bot.session = bot.newSession()
	return bot
}

func (b *GeminiChatbot) newSession() *genai.ChatSession {
	model := b.client.GenerativeModel(chatbotModel)
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(200)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(chatbotSystemInstruction)},
	}
	return model.StartChat()
}

// SendMessage forwards the user's message, prefixed with any context
// about their recent emotional state. Model failures degrade to a fixed
// supportive reply rather than an error.
func (b *GeminiChatbot) SendMessage(ctx context.Context, message string, userContext map[string]interface{}) (*ChatReply, error) {
	enhanced := message
	if contextInfo := formatUserContext(userContext); contextInfo != "" {
		enhanced = fmt.Sprintf("%s\n\nUser says: %s", contextInfo, message)
	}

	b.mu.Lock()
	session := b.session
	b.mu.Unlock()

	resp, err := session.SendMessage(ctx, genai.Text(enhanced))
	if err != nil {
		b.log.WithError(err).Error("chatbot message failed")
		return &ChatReply{Message: chatbotFallbackReply, SuggestsExercise: false}, nil
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return &ChatReply{Message: chatbotFallbackReply, SuggestsExercise: false}, nil
	}

	return &ChatReply{
		Message:          text,
		SuggestsExercise: suggestsExercise(text),
	}, nil
}

// Reset starts a fresh conversation.
func (b *GeminiChatbot) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = b.newSession()
}

// StaticChatbot is the no-AI companion used when neither Gemini nor a
// remote emotion service is configured. It rotates through supportive
// canned replies.
type StaticChatbot struct {
	mu   sync.Mutex
	turn int
}

var _ Chatbot = (*StaticChatbot)(nil)

var staticReplies = []string{
	chatbotFallbackReply,
	"That sounds like a lot to carry. Would writing it down in your journal help?",
	"I hear you. Taking a few slow breaths can help when things feel heavy.",
	"It's okay to feel this way. What's one small thing that went well today?",
}

func NewStaticChatbot() *StaticChatbot {
	return &StaticChatbot{}
}

func (b *StaticChatbot) SendMessage(ctx context.Context, message string, userContext map[string]interface{}) (*ChatReply, error) {
	b.mu.Lock()
	reply := staticReplies[b.turn%len(staticReplies)]
	b.turn++
	b.mu.Unlock()
	return &ChatReply{Message: reply, SuggestsExercise: suggestsExercise(reply)}, nil
}

func (b *StaticChatbot) Reset() {
	b.mu.Lock()
	b.turn = 0
	b.mu.Unlock()
}

func suggestsExercise(reply string) bool {
	lower := strings.ToLower(reply)
	for _, keyword := range exerciseKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// formatUserContext renders the optional chat context the dashboard
// sends along: recent emotion, mood trend, last journal summary.
func formatUserContext(userContext map[string]interface{}) string {
	if len(userContext) == 0 {
		return ""
	}

	var parts []string
	if v, ok := userContext["recent_emotion"].(string); ok && v != "" {
		parts = append(parts, fmt.Sprintf("[User's recent emotion: %s]", v))
	}
	if v, ok := userContext["mood_trend"].(string); ok && v != "" {
		parts = append(parts, fmt.Sprintf("[User's mood trend: %s]", v))
	}
	if v, ok := userContext["journal_summary"].(string); ok && v != "" {
		parts = append(parts, fmt.Sprintf("[Recent journal: %s]", v))
	}
	return strings.Join(parts, " ")
}
