package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteError indicates a report could not be persisted. It is isolated to the
// file it concerns; the rest of the batch proceeds.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing report %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// DerivePath maps a source path to its report path: the source-relative path
// mirrored under reportsDir with the extension replaced by .md. Mirroring the
// relative path keeps derivation injective, so source/a/x.py and source/b/x.py
// can never clobber each other's reports.
func DerivePath(reportsDir, sourceRoot, sourcePath string) string {
	rel, err := filepath.Rel(sourceRoot, sourcePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		// Outside the source root (explicit file arguments): fall back to the
		// base name.
		rel = filepath.Base(sourcePath)
	}
	ext := filepath.Ext(rel)
	return filepath.Join(reportsDir, strings.TrimSuffix(rel, ext)+".md")
}

// Write persists content at path, creating parent directories and overwriting
// any previous report for the same source file.
func Write(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
