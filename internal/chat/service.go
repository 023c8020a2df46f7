package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mentora-learn/mentora/internal/account"
	"github.com/mentora-learn/mentora/internal/config"
)

// ErrNotConfigured is returned when no LLM API key is set.
var ErrNotConfigured = errors.New("ai chat is not configured")

// Message is one turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Service proxies conversations to an OpenAI-compatible chat completions API,
// prefixing a system prompt personalized from the student's profile.
type Service struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
}

// NewService builds the chat proxy from configuration.
func NewService(cfg config.Config) *Service {
	return &Service{
		apiURL: cfg.ChatAPIURL,
		apiKey: cfg.ChatAPIKey,
		model:  cfg.ChatModel,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether an API key is configured.
func (s *Service) Enabled() bool {
	return s.apiKey != ""
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the conversation to the LLM and returns the assistant reply.
// A system message is prepended unless the conversation already carries one.
func (s *Service) Complete(ctx context.Context, messages []Message, profile account.Profile) (string, error) {
	if !s.Enabled() {
		return "", ErrNotConfigured
	}

	hasSystem := false
	for _, m := range messages {
		if m.Role == "system" {
			hasSystem = true
			break
		}
	}
	if !hasSystem {
		messages = append([]Message{{Role: "system", Content: systemPrompt(profile)}}, messages...)
	}

	body, err := json.Marshal(completionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call chat api: %w", err)
	}
	defer resp.Body.Close()

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode chat api response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if decoded.Error != nil && decoded.Error.Message != "" {
			return "", fmt.Errorf("chat api: %s", decoded.Error.Message)
		}
		return "", fmt.Errorf("chat api returned status %d", resp.StatusCode)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("chat api returned no choices")
	}
	return decoded.Choices[0].Message.Content, nil
}

func systemPrompt(p account.Profile) string {
	var b strings.Builder
	b.WriteString("You are a helpful AI learning assistant specialized in education.")

	if p.FullName != "" {
		fmt.Fprintf(&b, " You are tutoring %s", p.FullName)
		if p.Grade != "" {
			fmt.Fprintf(&b, " in %s", p.Grade)
		}
		if p.School != "" {
			fmt.Fprintf(&b, " at %s", p.School)
		}
		b.WriteString(".")
	}
	if len(p.PreferredSubjects) > 0 {
		fmt.Fprintf(&b, " They are particularly interested in: %s.", strings.Join(p.PreferredSubjects, ", "))
	}
	if p.LearningStyle != "" {
		fmt.Fprintf(&b, " Their preferred learning style is %s. Adapt your explanations to be %s.",
			p.LearningStyle, learningStyleDescription(p.LearningStyle))
	}
	if p.Country != "" {
		fmt.Fprintf(&b, " They are from %s", p.Country)
		if p.State != "" {
			fmt.Fprintf(&b, ", %s", p.State)
		}
		b.WriteString(".")
	}

	b.WriteString(" Provide concise, accurate, and educational responses tailored to their background and interests.")
	b.WriteString(" Always aim to explain concepts clearly and help with their learning journey.")
	return b.String()
}

func learningStyleDescription(style string) string {
	switch style {
	case "visual":
		return "more visual, using diagrams, charts, and images when appropriate"
	case "auditory":
		return "focused on clear verbal explanations, using analogies and stories"
	case "kinesthetic":
		return "practical and hands-on, providing examples of activities they can try"
	case "reading":
		return "text-based and structured, providing resources they can read"
	default:
		return "balanced and accessible"
	}
}
