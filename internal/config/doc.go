// Package config loads and merges scribe configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (SCRIBE_PROVIDER, GITHUB_BEFORE, GITHUB_SHA, etc.)
//  3. Repository-local scribe.toml
//  4. Built-in defaults
//
// A .env file at the repository root is loaded first when present, so local
// runs can mimic the CI environment. API credentials are read only through
// [Credential] and are never stored in the Config struct, serialized, or
// logged.
package config
