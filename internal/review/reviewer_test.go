package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/scribe-ci/scribe/internal/providers"
)

type stubProvider struct {
	calls   int
	lastReq providers.Request
	resp    providers.Response
	err     error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Review(ctx context.Context, req providers.Request) (providers.Response, error) {
	s.calls++
	s.lastReq = req
	return s.resp, s.err
}

func TestReviewFile(t *testing.T) {
	stub := &stubProvider{resp: providers.Response{Content: "## Review\n\nOK", TokensUsed: 10}}
	fr := NewFileReviewer(stub, "some-model", 4096, true)

	rep, err := fr.ReviewFile(context.Background(), "source/app.py", []byte("print('hi')\n"))
	if err != nil {
		t.Fatalf("ReviewFile failed: %v", err)
	}

	if rep.Content != "## Review\n\nOK" {
		t.Errorf("Content = %q, want provider output verbatim", rep.Content)
	}
	if rep.SourcePath != "source/app.py" {
		t.Errorf("SourcePath = %q", rep.SourcePath)
	}
	if rep.Provider != "stub" || rep.Model != "some-model" {
		t.Errorf("Provider/Model = %q/%q", rep.Provider, rep.Model)
	}
	if rep.TokensUsed != 10 {
		t.Errorf("TokensUsed = %d, want 10", rep.TokensUsed)
	}
	if stub.lastReq.MaxTokens != 4096 {
		t.Errorf("MaxTokens = %d, want 4096", stub.lastReq.MaxTokens)
	}
	if !strings.Contains(stub.lastReq.Prompt, "print('hi')") {
		t.Errorf("prompt missing source content: %q", stub.lastReq.Prompt)
	}
	if !strings.Contains(stub.lastReq.Prompt, "source/app.py") {
		t.Errorf("prompt missing file path: %q", stub.lastReq.Prompt)
	}
}

func TestReviewFileEmptyContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace only", "  \n\t\n  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubProvider{}
			fr := NewFileReviewer(stub, "some-model", 4096, true)

			_, err := fr.ReviewFile(context.Background(), "source/empty.py", []byte(tt.content))
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if stub.calls != 0 {
				t.Errorf("provider was called %d times for empty input, want 0", stub.calls)
			}
		})
	}
}

func TestReviewFileRedactsSecrets(t *testing.T) {
	stub := &stubProvider{resp: providers.Response{Content: "ok"}}
	fr := NewFileReviewer(stub, "some-model", 4096, true)

	content := []byte(`API_KEY = "abcdef1234567890abcdef1234567890"` + "\nprint('hi')\n")
	if _, err := fr.ReviewFile(context.Background(), "source/app.py", content); err != nil {
		t.Fatalf("ReviewFile failed: %v", err)
	}

	if strings.Contains(stub.lastReq.Prompt, "abcdef1234567890abcdef1234567890") {
		t.Error("secret reached the provider request")
	}
	if !strings.Contains(stub.lastReq.Prompt, "[REDACTED]") {
		t.Error("redaction placeholder missing from prompt")
	}
}

func TestReviewFileRedactionDisabled(t *testing.T) {
	stub := &stubProvider{resp: providers.Response{Content: "ok"}}
	fr := NewFileReviewer(stub, "some-model", 4096, false)

	content := []byte(`API_KEY = "abcdef1234567890abcdef1234567890"` + "\n")
	if _, err := fr.ReviewFile(context.Background(), "source/app.py", content); err != nil {
		t.Fatalf("ReviewFile failed: %v", err)
	}

	if !strings.Contains(stub.lastReq.Prompt, "abcdef1234567890abcdef1234567890") {
		t.Error("content was redacted with redaction disabled")
	}
}

func TestReviewFileWrapsProviderError(t *testing.T) {
	stub := &stubProvider{err: errors.New("boom")}
	fr := NewFileReviewer(stub, "some-model", 4096, true)

	_, err := fr.ReviewFile(context.Background(), "source/app.py", []byte("x = 1\n"))
	if err == nil {
		t.Fatal("expected error from provider")
	}
	if !strings.Contains(err.Error(), "source/app.py") {
		t.Errorf("error does not name the file: %v", err)
	}
}
