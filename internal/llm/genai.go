package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/rcliao/aura/internal/model"
)

// GenAIChat talks to the Google Gemini API.
type GenAIChat struct {
	client *genai.Client
	model  string
}

// NewGenAIChat creates a Gemini-backed chat provider.
func NewGenAIChat(ctx context.Context, apiKey, modelName string) (*GenAIChat, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAIChat{client: client, model: modelName}, nil
}

func (g *GenAIChat) Chat(ctx context.Context, msgs []ChatMessage) (string, error) {
	var system string
	var contents []*genai.Content
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
		case model.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	var cfg *genai.GenerateContentConfig
	if system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// NewChatModel selects a provider by name: "gemini" uses the Google GenAI
// API; "groq" and "openai" use the OpenAI-compatible chat API.
func NewChatModel(ctx context.Context, provider, apiKey, baseURL, modelName string) (ChatModel, error) {
	switch provider {
	case "gemini":
		return NewGenAIChat(ctx, apiKey, modelName)
	case "groq":
		if baseURL == "" {
			baseURL = "https://api.groq.com/openai/v1"
		}
		if modelName == "" {
			modelName = "llama-3.3-70b-versatile"
		}
		return NewOpenAIChat(baseURL, apiKey, modelName), nil
	case "openai", "":
		return NewOpenAIChat(baseURL, apiKey, modelName), nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", provider)
}
