// Package cli implements the scribe command-line interface.
//
// Commands:
//
//	scribe run      - full pipeline: detect changes, review, write, publish
//	scribe review   - review explicit files without git change detection
//	scribe config   - show the effective config or write a starter file
//	scribe version  - print the version
//
// Exit codes are deterministic so CI can branch on them: 0 success,
// 1 partial failure (some files failed to review), 2 usage error,
// 3 authentication error, 4 runtime error.
package cli
