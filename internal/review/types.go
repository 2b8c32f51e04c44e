package review

import "time"

// Report is a generated review for a single source file. Its content is a
// function of the file content at the triggering push; nothing else is
// carried between runs.
type Report struct {
	SourcePath string
	Content    string
	Provider   string
	Model      string
	TokensUsed int
	Elapsed    time.Duration
}
