package gitx

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// ZeroSHA is the null reference CI supplies as "before" on a first push or a
// force-push.
const ZeroSHA = "0000000000000000000000000000000000000000"

// MissingBeforePolicy decides what a missing/zero "before" reference means.
type MissingBeforePolicy string

const (
	// MissingBeforeNone treats a missing before-reference as an empty change set.
	MissingBeforeNone MissingBeforePolicy = "none"
	// MissingBeforeAll treats a missing before-reference as "every file under
	// the source root in the after tree".
	MissingBeforeAll MissingBeforePolicy = "all"
)

// RepoStateError indicates the change set cannot be resolved from the
// repository, for example a shallow clone that lacks the before commit.
// It is fatal to the run.
type RepoStateError struct {
	Ref string
	Err error
}

func (e *RepoStateError) Error() string {
	return fmt.Sprintf("cannot resolve %s: %v", e.Ref, e.Err)
}

func (e *RepoStateError) Unwrap() error { return e.Err }

// Repo wraps an opened git repository.
type Repo struct {
	repo *git.Repository
	path string
}

// Open opens the repository at path.
func Open(path string) (*Repo, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return &Repo{repo: repo, path: path}, nil
}

// Path returns the repository root path.
func (r *Repo) Path() string { return r.path }

// Changed returns the ordered set of paths under root that differ between the
// before and after commits. Added and modified files are included; deleted
// files are not (there is nothing left to review). An empty result is valid.
//
// A missing or zero before-reference is resolved according to policy.
func (r *Repo) Changed(before, after, root string, policy MissingBeforePolicy) ([]string, error) {
	afterTree, err := r.treeAt(after)
	if err != nil {
		return nil, err
	}

	if before == "" || before == ZeroSHA {
		if policy == MissingBeforeAll {
			return listTree(afterTree, root)
		}
		return nil, nil
	}

	beforeTree, err := r.treeAt(before)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTree(beforeTree, afterTree)
	if err != nil {
		return nil, &RepoStateError{Ref: before + ".." + after, Err: err}
	}

	seen := make(map[string]bool)
	var files []string
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			return nil, &RepoStateError{Ref: before + ".." + after, Err: err}
		}
		if action == merkletrie.Delete {
			continue
		}
		name := change.To.Name
		if !underRoot(name, root) || seen[name] {
			continue
		}
		seen[name] = true
		files = append(files, name)
	}

	sort.Strings(files)
	return files, nil
}

func (r *Repo) treeAt(ref string) (*object.Tree, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, &RepoStateError{Ref: ref, Err: err}
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, &RepoStateError{Ref: ref, Err: err}
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, &RepoStateError{Ref: ref, Err: err}
	}
	return tree, nil
}

func listTree(tree *object.Tree, root string) ([]string, error) {
	var files []string
	err := tree.Files().ForEach(func(f *object.File) error {
		if underRoot(f.Name, root) {
			files = append(files, f.Name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking tree: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

func underRoot(name, root string) bool {
	root = path.Clean(root)
	if root == "." || root == "" {
		return true
	}
	return strings.HasPrefix(name, root+"/")
}
