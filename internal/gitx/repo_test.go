package gitx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("initializing repo: %v", err)
	}
	return repo, dir
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func commitFiles(t *testing.T, repo *git.Repository, dir string, files map[string]string, msg string) string {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("opening worktree: %v", err)
	}
	for path, content := range files {
		full := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := wt.Add(path); err != nil {
			t.Fatalf("staging %s: %v", path, err)
		}
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("committing: %v", err)
	}
	return hash.String()
}

func removeFile(t *testing.T, repo *git.Repository, path, msg string) string {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("opening worktree: %v", err)
	}
	if _, err := wt.Remove(path); err != nil {
		t.Fatalf("removing %s: %v", path, err)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("committing: %v", err)
	}
	return hash.String()
}

func TestChangedBetweenCommits(t *testing.T) {
	gr, dir := initRepo(t)
	c1 := commitFiles(t, gr, dir, map[string]string{
		"source/app.py": "x = 1\n",
		"README.md":     "readme\n",
	}, "initial")
	c2 := commitFiles(t, gr, dir, map[string]string{
		"source/app.py":      "x = 2\n",
		"source/pkg/util.js": "let y = 1;\n",
		"docs/notes.md":      "notes\n",
	}, "changes")

	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	files, err := repo.Changed(c1, c2, "source", MissingBeforeNone)
	if err != nil {
		t.Fatalf("Changed failed: %v", err)
	}

	want := []string{"source/app.py", "source/pkg/util.js"}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestChangedExcludesDeletedFiles(t *testing.T) {
	gr, dir := initRepo(t)
	c1 := commitFiles(t, gr, dir, map[string]string{
		"source/old.py":  "x = 1\n",
		"source/keep.py": "y = 1\n",
	}, "initial")
	c2 := removeFile(t, gr, "source/old.py", "delete old")

	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	files, err := repo.Changed(c1, c2, "source", MissingBeforeNone)
	if err != nil {
		t.Fatalf("Changed failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("files = %v, want empty (deletions are not reviewable)", files)
	}
}

func TestChangedZeroBeforePolicyNone(t *testing.T) {
	gr, dir := initRepo(t)
	c1 := commitFiles(t, gr, dir, map[string]string{
		"source/app.py": "x = 1\n",
	}, "initial")

	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	for _, before := range []string{"", ZeroSHA} {
		files, err := repo.Changed(before, c1, "source", MissingBeforeNone)
		if err != nil {
			t.Fatalf("Changed(before=%q) failed: %v", before, err)
		}
		if len(files) != 0 {
			t.Errorf("Changed(before=%q) = %v, want empty under policy none", before, files)
		}
	}
}

func TestChangedZeroBeforePolicyAll(t *testing.T) {
	gr, dir := initRepo(t)
	c1 := commitFiles(t, gr, dir, map[string]string{
		"source/app.py":      "x = 1\n",
		"source/pkg/util.js": "let y = 1;\n",
		"README.md":          "readme\n",
	}, "initial")

	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	files, err := repo.Changed(ZeroSHA, c1, "source", MissingBeforeAll)
	if err != nil {
		t.Fatalf("Changed failed: %v", err)
	}

	want := []string{"source/app.py", "source/pkg/util.js"}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestChangedUnresolvableRef(t *testing.T) {
	gr, dir := initRepo(t)
	c1 := commitFiles(t, gr, dir, map[string]string{
		"source/app.py": "x = 1\n",
	}, "initial")

	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	_, err = repo.Changed("deadbeefdeadbeefdeadbeefdeadbeefdeadbeef", c1, "source", MissingBeforeNone)
	var rse *RepoStateError
	if !errors.As(err, &rse) {
		t.Fatalf("error = %v, want *RepoStateError", err)
	}
	if rse.Ref != "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef" {
		t.Errorf("Ref = %q", rse.Ref)
	}
}

func TestOpenMissingRepo(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("expected error opening a directory without a repository")
	}
}

func TestUnderRoot(t *testing.T) {
	tests := []struct {
		name, root string
		want       bool
	}{
		{"source/app.py", "source", true},
		{"source/pkg/util.js", "source", true},
		{"sourcecode/app.py", "source", false},
		{"README.md", "source", false},
		{"anything", ".", true},
		{"anything", "", true},
	}

	for _, tt := range tests {
		if got := underRoot(tt.name, tt.root); got != tt.want {
			t.Errorf("underRoot(%q, %q) = %v, want %v", tt.name, tt.root, got, tt.want)
		}
	}
}
