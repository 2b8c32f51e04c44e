package ghpub

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v82/github"

	"github.com/scribe-ci/scribe/internal/pipeline"
)

// Commenter posts run summaries as commit comments on the reviewed SHA.
type Commenter struct {
	client *github.Client
	owner  string
	repo   string
}

// New creates a Commenter. repository is the CI-provided "owner/name" slug.
func New(token, repository string) (*Commenter, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository slug %q: expected owner/name", repository)
	}
	if token == "" {
		return nil, fmt.Errorf("no GitHub token available for commit comments")
	}
	return &Commenter{
		client: github.NewClient(nil).WithAuthToken(token),
		owner:  owner,
		repo:   repo,
	}, nil
}

// PostRunSummary posts the run summary as a comment on sha.
func (c *Commenter) PostRunSummary(ctx context.Context, sha string, summary *pipeline.Summary) error {
	comment := &github.RepositoryComment{Body: github.Ptr(FormatSummary(summary))}
	_, _, err := c.client.Repositories.CreateComment(ctx, c.owner, c.repo, sha, comment)
	if err != nil {
		return fmt.Errorf("posting commit comment: %w", err)
	}
	return nil
}

// FormatSummary renders the run summary as markdown.
func FormatSummary(s *pipeline.Summary) string {
	var b strings.Builder

	b.WriteString("## Scribe Code Review\n\n")
	fmt.Fprintf(&b, "Reviewed %d of %d changed files", s.Reviewed, s.Candidates)
	if s.Skipped > 0 {
		fmt.Fprintf(&b, ", skipped %d", s.Skipped)
	}
	if s.Failed > 0 {
		fmt.Fprintf(&b, ", %d failed", s.Failed)
	}
	b.WriteString(".\n")

	if len(s.Reports) > 0 {
		b.WriteString("\n### Reports\n\n")
		for _, r := range s.Reports {
			fmt.Fprintf(&b, "- `%s`\n", r)
		}
	}

	if len(s.Failures) > 0 {
		b.WriteString("\n### Failures\n\n")
		for _, f := range s.Failures {
			fmt.Fprintf(&b, "- `%s`: %v\n", f.Path, f.Err)
		}
	}

	return b.String()
}
