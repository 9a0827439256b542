package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mindgrove/models"
)

// EmotionAnalyzer produces an emotion-analysis payload for a block of
// journal text.
type EmotionAnalyzer interface {
	AnalyzeJournal(ctx context.Context, journal string) (*models.EmotionAnalysis, error)
}

// ChatReply is the companion chatbot's answer to a message.
type ChatReply struct {
	Message          string `json:"message"`
	SuggestsExercise bool   `json:"suggests_exercise"`
}

// Chatbot holds a supportive conversation with the user, optionally
// informed by context about their recent emotional state.
type Chatbot interface {
	SendMessage(ctx context.Context, message string, userContext map[string]interface{}) (*ChatReply, error)
	Reset()
}

// EmotionClient talks to a remote emotion-analysis service over HTTP.
// Any non-2xx status is treated as failure.
type EmotionClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ EmotionAnalyzer = (*EmotionClient)(nil)
var _ Chatbot = (*EmotionClient)(nil)

func NewEmotionClient(baseURL string) *EmotionClient {
	return &EmotionClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// AnalyzeJournal posts the journal text to /analyze_journal.
func (c *EmotionClient) AnalyzeJournal(ctx context.Context, journal string) (*models.EmotionAnalysis, error) {
	var analysis models.EmotionAnalysis
	if err := c.post(ctx, "/analyze_journal", map[string]interface{}{"journal": journal}, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// SendMessage posts the message and optional user context to /chat.
func (c *EmotionClient) SendMessage(ctx context.Context, message string, userContext map[string]interface{}) (*ChatReply, error) {
	payload := map[string]interface{}{
		"message": message,
		"context": userContext,
	}
	var reply ChatReply
	if err := c.post(ctx, "/chat", payload, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Reset clears the remote conversation history.
func (c *EmotionClient) Reset() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = c.post(ctx, "/chat/reset", map[string]interface{}{}, nil)
}

func (c *EmotionClient) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("emotion API error: %s", string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
