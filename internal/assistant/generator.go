package assistant

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// Generator is the slice of the Gemini API the assistant uses. *genai.Models
// satisfies it; tests supply fakes.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiGenerator creates a Gemini API client. httpClient may be nil to use the
// library default.
func NewGeminiGenerator(ctx context.Context, apiKey string, httpClient *http.Client) (Generator, error) {
	if apiKey == "" {
		return nil, ErrConfiguration
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client.Models, nil
}
