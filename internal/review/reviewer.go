package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scribe-ci/scribe/internal/providers"
	"github.com/scribe-ci/scribe/internal/redact"
)

// ValidationError rejects a file before any provider call is made.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// FileReviewer reviews one source file at a time against an LLM provider.
type FileReviewer struct {
	provider  providers.Reviewer
	model     string
	maxTokens int
	redact    bool
}

// NewFileReviewer creates a FileReviewer backed by the given provider.
func NewFileReviewer(provider providers.Reviewer, model string, maxTokens int, redactSecrets bool) *FileReviewer {
	return &FileReviewer{
		provider:  provider,
		model:     model,
		maxTokens: maxTokens,
		redact:    redactSecrets,
	}
}

// ReviewFile validates the content, builds the prompt, and obtains a markdown
// report from the provider. Empty or whitespace-only content fails fast with
// a *ValidationError and no network call.
func (fr *FileReviewer) ReviewFile(ctx context.Context, path string, content []byte) (*Report, error) {
	text := string(content)
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Path: path, Reason: "file is empty, nothing to review"}
	}

	if fr.redact {
		text = redact.Secrets(text)
	}

	start := time.Now()
	resp, err := fr.provider.Review(ctx, providers.Request{
		System:    SystemPrompt(),
		Prompt:    BuildPrompt(path, text),
		MaxTokens: fr.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("reviewing %s: %w", path, err)
	}

	return &Report{
		SourcePath: path,
		Content:    resp.Content,
		Provider:   fr.provider.Name(),
		Model:      fr.model,
		TokensUsed: resp.TokensUsed,
		Elapsed:    time.Since(start),
	}, nil
}
