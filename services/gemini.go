package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/hireloop/backend/models"
)

// contentGenerator is the seam between the collaborators and the underlying
// language-model client. GenerateJSON requests strictly structured output;
// GenerateTurn continues a conversation from the full message history.
type contentGenerator interface {
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
	GenerateTurn(ctx context.Context, system string, history []models.InterviewMessage) (string, error)
}

// GeminiService wraps the Google GenAI client for all AI operations:
// question generation, interview turns and scoring.
type GeminiService struct {
	client *genai.Client
	model  string
}

func NewGeminiService(ctx context.Context, apiKey, model string) (*GeminiService, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiService{client: client, model: model}, nil
}

// GenerateJSON sends a single prompt and asks the model for a JSON response.
func (g *GeminiService) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini service not configured")
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	response := result.Text()
	if strings.TrimSpace(response) == "" {
		return "", errors.New("gemini api returned empty response")
	}

	slog.Info("Generated structured response", "model", g.model, "response_length", len(response))
	return response, nil
}

// GenerateTurn sends the conversation history and returns the next assistant
// message. An empty history yields the interview opening.
func (g *GeminiService) GenerateTurn(ctx context.Context, system string, history []models.InterviewMessage) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini service not configured")
	}

	contents := buildConversationContents(history)
	if len(contents) == 0 {
		// Gemini requires at least one content entry; the system instruction
		// tells the model to open with a greeting and the first question.
		contents = append(contents, genai.NewContentFromText("Please begin the interview.", genai.RoleUser))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	response := result.Text()
	if strings.TrimSpace(response) == "" {
		return "", errors.New("gemini api returned empty response")
	}

	slog.Info("Generated interview turn", "model", g.model, "history_length", len(history), "response_length", len(response))
	return response, nil
}

func buildConversationContents(history []models.InterviewMessage) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range history {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		role := genai.Role(genai.RoleUser)
		if msg.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return contents
}

// extractJSON strips markdown code fences that models occasionally wrap
// around JSON payloads despite the response MIME type.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
