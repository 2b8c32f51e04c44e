package gitx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// PublishOptions controls how generated reports are committed and pushed.
type PublishOptions struct {
	// Dir is the reports directory, relative to the repository root.
	Dir string
	// Message is the commit message. It should carry a CI-skip marker so the
	// publishing commit does not re-trigger the pipeline.
	Message     string
	AuthorName  string
	AuthorEmail string
	Remote      string
	Push        bool
	// Token authenticates the push (CI token). Never logged.
	Token string
}

// PublishReports stages everything under opts.Dir, commits, and optionally
// pushes. Returns false without error when there is nothing to commit.
func (r *Repo) PublishReports(ctx context.Context, opts PublishOptions) (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("opening worktree: %w", err)
	}

	if _, err := wt.Add(opts.Dir); err != nil {
		return false, fmt.Errorf("staging %s: %w", opts.Dir, err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("reading worktree status: %w", err)
	}
	if !hasStagedUnder(status, opts.Dir) {
		return false, nil
	}

	_, err = wt.Commit(opts.Message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  opts.AuthorName,
			Email: opts.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return false, fmt.Errorf("committing reports: %w", err)
	}

	if opts.Push {
		pushOpts := &git.PushOptions{RemoteName: opts.Remote}
		if opts.Token != "" {
			// GitHub Actions tokens authenticate as x-access-token over HTTPS.
			pushOpts.Auth = &githttp.BasicAuth{Username: "x-access-token", Password: opts.Token}
		}
		if err := r.repo.PushContext(ctx, pushOpts); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return true, fmt.Errorf("pushing reports: %w", err)
		}
	}

	return true, nil
}

func hasStagedUnder(status git.Status, dir string) bool {
	prefix := strings.TrimSuffix(dir, "/") + "/"
	for path, st := range status {
		if path != dir && !strings.HasPrefix(path, prefix) {
			continue
		}
		if st.Staging != git.Unmodified && st.Staging != git.Untracked {
			return true
		}
	}
	return false
}
