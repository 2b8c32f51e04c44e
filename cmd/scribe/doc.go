// Scribe is a push-triggered code review pipeline. It detects the files a
// push changed under a watched source directory, sends each one to an LLM
// provider for review, writes one markdown report per file, and can commit
// the reports back with a CI-skip tagged message.
//
// Usage:
//
//	scribe run [flags]
//	scribe review <file>... [flags]
//	scribe config show|init
//	scribe version
//
// In CI the commit range comes from GITHUB_BEFORE and GITHUB_SHA; locally
// pass --before and --after. Provider credentials come from the environment
// (OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY, or API_KEY as a
// fallback) and are never written to logs or reports.
package main
