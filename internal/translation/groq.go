package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GroqTranslator calls Groq's OpenAI-compatible chat completion endpoint
// with a minimal, temperature-0 translation prompt, grounded on
// original_source/src/infrastructure/groq_service.rs's GroqService
// (reqwest client there, net/http here, matching the teacher's own HTTP
// client usage rather than importing a third HTTP library for one caller).
type GroqTranslator struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGroqTranslator builds a translator against Groq's chat completions API.
func NewGroqTranslator(apiKey string) *GroqTranslator {
	return &GroqTranslator{
		apiKey:     apiKey,
		model:      "llama-3.1-8b-instant",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type groqChatRequest struct {
	Model       string             `json:"model"`
	Temperature float64            `json:"temperature"`
	Messages    []groqChatMessage  `json:"messages"`
}

type groqChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChatResponse struct {
	Choices []struct {
		Message groqChatMessage `json:"message"`
	} `json:"choices"`
}

var languageNames = map[string]string{
	"pl": "Polish",
	"ru": "Russian",
	"uk": "Ukrainian",
	"en": "English",
}

// Translate sends text to Groq and returns the translated string.
func (g *GroqTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	langName, ok := languageNames[targetLanguage]
	if !ok {
		langName = targetLanguage
	}

	reqBody := groqChatRequest{
		Model:       g.model,
		Temperature: 0,
		Messages: []groqChatMessage{
			{Role: "system", Content: fmt.Sprintf("Translate the user's text to %s. Reply with only the translation, no quotes, no explanation.", langName)},
			{Role: "user", Content: text},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode groq request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.groq.com/openai/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build groq request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq returned status %d", resp.StatusCode)
	}

	var parsed groqChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode groq response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
