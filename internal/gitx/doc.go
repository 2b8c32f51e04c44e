// Package gitx resolves the change set for a push and publishes generated
// reports back to the repository.
//
// The change detector compares the trees of the "before" and "after" commits
// supplied by CI and returns the paths under the watched source root that
// were added or modified. A zero/absent before-reference (first push,
// force-push) is resolved by an explicit [MissingBeforePolicy] rather than
// guessed. Unresolvable references surface as [RepoStateError], which is
// fatal to the run.
//
// The publisher stages the reports directory, commits with a CI-skip tagged
// message, and optionally pushes with token auth. "Nothing to commit" is a
// clean no-op, not an error.
package gitx
