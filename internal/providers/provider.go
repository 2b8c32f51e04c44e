package providers

import (
	"context"
	"fmt"
)

// Request contains the data sent to an LLM for review.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response contains the raw response from an LLM.
type Response struct {
	Content    string
	TokensUsed int
}

// Reviewer is the provider abstraction interface.
type Reviewer interface {
	Review(ctx context.Context, req Request) (Response, error)
	Name() string
}

// New creates a provider by name. The credential comes from the caller; the
// constructors never read the environment.
func New(provider, model, apiKey string) (Reviewer, error) {
	switch provider {
	case "anthropic":
		return NewAnthropic(model, apiKey)
	case "openai":
		return NewOpenAI(model, apiKey)
	case "gemini", "google":
		return NewGemini(model, apiKey)
	case "ollama", "lmstudio":
		return NewOllama(model, apiKey, "")
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
