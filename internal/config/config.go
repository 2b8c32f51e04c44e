package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the repository-local config file scribe looks for.
const FileName = "scribe.toml"

// ZeroSHA is the placeholder the CI environment supplies for the "before"
// reference on a repository's first push or a force-push.
const ZeroSHA = "0000000000000000000000000000000000000000"

// Config is the full scribe configuration, threaded explicitly through every
// component. Business logic never reads the environment directly.
type Config struct {
	SourceRoot      string   `toml:"source_root"`
	ReportsDir      string   `toml:"reports_dir"`
	Provider        string   `toml:"provider"`
	Model           string   `toml:"model"`
	Include         []string `toml:"include"`
	Exclude         []string `toml:"exclude"`
	Workers         int      `toml:"workers"`
	MaxTokens       int      `toml:"max_tokens"`
	MaxFileBytes    int      `toml:"max_file_bytes"`
	OnMissingBefore string   `toml:"on_missing_before"`
	RedactSecrets   bool     `toml:"redact_secrets"`

	Git     GitConfig     `toml:"git"`
	Publish PublishConfig `toml:"publish"`
	Log     LogConfig     `toml:"log"`
}

// GitConfig names the repository and the commit range supplied by CI.
type GitConfig struct {
	RepoPath string `toml:"repo_path"`
	Before   string `toml:"-"`
	After    string `toml:"-"`
}

// PublishConfig controls the commit publisher and the summary comment.
type PublishConfig struct {
	Enabled     bool   `toml:"enabled"`
	Push        bool   `toml:"push"`
	Comment     bool   `toml:"comment"`
	Remote      string `toml:"remote"`
	Message     string `toml:"message"`
	AuthorName  string `toml:"author_name"`
	AuthorEmail string `toml:"author_email"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		SourceRoot:      "source",
		ReportsDir:      "reports",
		Provider:        "openai",
		Model:           "o3-mini",
		Include:         []string{"*.py", "*.js"},
		Workers:         1,
		MaxTokens:       8192,
		MaxFileBytes:    1 << 20,
		OnMissingBefore: "none",
		RedactSecrets:   true,
		Git: GitConfig{
			RepoPath: ".",
		},
		Publish: PublishConfig{
			Remote:      "origin",
			Message:     "Add code review reports [skip ci]",
			AuthorName:  "scribe-bot",
			AuthorEmail: "scribe-bot@users.noreply.github.com",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(repoPath string, overrides map[string]string) (Config, error) {
	// A .env file is optional; CI injects real environment variables.
	_ = godotenv.Load(filepath.Join(repoPath, ".env"))

	cfg := Default()
	if repoPath != "" {
		cfg.Git.RepoPath = repoPath
	}

	fileCfg, found, err := loadFile(filepath.Join(cfg.Git.RepoPath, FileName))
	if err != nil {
		return Config{}, err
	}
	if found {
		mergeFile(&cfg, fileCfg)
	}
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the rest of the pipeline relies on.
func (c Config) Validate() error {
	if c.SourceRoot == "" {
		return fmt.Errorf("source_root must not be empty")
	}
	if c.ReportsDir == "" {
		return fmt.Errorf("reports_dir must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	switch c.OnMissingBefore {
	case "none", "all":
	default:
		return fmt.Errorf("on_missing_before must be %q or %q, got %q", "none", "all", c.OnMissingBefore)
	}
	return nil
}

// Credential returns the API credential for the given provider from the
// environment. The generic API_KEY variable acts as a fallback for any
// provider. Ollama requires no credential.
func Credential(provider string) (string, error) {
	var key string
	switch provider {
	case "anthropic":
		key = os.Getenv("ANTHROPIC_API_KEY")
	case "openai":
		key = os.Getenv("OPENAI_API_KEY")
	case "gemini", "google":
		key = os.Getenv("GEMINI_API_KEY")
		if key == "" {
			key = os.Getenv("GOOGLE_API_KEY")
		}
	case "ollama", "lmstudio":
		return os.Getenv("OLLAMA_API_KEY"), nil
	default:
		return "", fmt.Errorf("unknown provider: %s", provider)
	}
	if key == "" {
		key = os.Getenv("API_KEY")
	}
	if key == "" {
		return "", fmt.Errorf("no API credential set for provider %s", provider)
	}
	return key, nil
}

// GitHubToken returns the CI token used for pushing and commit comments.
// May be empty outside CI.
func GitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// GitHubRepository returns the "owner/name" slug CI runs against.
func GitHubRepository() string {
	return os.Getenv("GITHUB_REPOSITORY")
}

// WriteStarter writes a commented starter scribe.toml at path.
func WriteStarter(path string) error {
	data, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshaling starter config: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return os.WriteFile(path, data, 0o644)
}

func loadFile(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, false, nil
		}
		return Config{}, false, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, true, nil
}

func mergeFile(dst *Config, src Config) {
	if src.SourceRoot != "" {
		dst.SourceRoot = src.SourceRoot
	}
	if src.ReportsDir != "" {
		dst.ReportsDir = src.ReportsDir
	}
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if len(src.Include) > 0 {
		dst.Include = src.Include
	}
	if len(src.Exclude) > 0 {
		dst.Exclude = src.Exclude
	}
	if src.Workers > 0 {
		dst.Workers = src.Workers
	}
	if src.MaxTokens > 0 {
		dst.MaxTokens = src.MaxTokens
	}
	if src.MaxFileBytes > 0 {
		dst.MaxFileBytes = src.MaxFileBytes
	}
	if src.OnMissingBefore != "" {
		dst.OnMissingBefore = src.OnMissingBefore
	}
	// TOML zero value for bool can't be told apart from unset, so the file can
	// only switch redaction on. Disabling it takes the --no-redact flag.
	dst.RedactSecrets = src.RedactSecrets || dst.RedactSecrets

	if src.Publish.Remote != "" {
		dst.Publish.Remote = src.Publish.Remote
	}
	if src.Publish.Message != "" {
		dst.Publish.Message = src.Publish.Message
	}
	if src.Publish.AuthorName != "" {
		dst.Publish.AuthorName = src.Publish.AuthorName
	}
	if src.Publish.AuthorEmail != "" {
		dst.Publish.AuthorEmail = src.Publish.AuthorEmail
	}
	dst.Publish.Enabled = dst.Publish.Enabled || src.Publish.Enabled
	dst.Publish.Push = dst.Publish.Push || src.Publish.Push
	dst.Publish.Comment = dst.Publish.Comment || src.Publish.Comment

	if src.Log.Level != "" {
		dst.Log.Level = src.Log.Level
	}
	if src.Log.Format != "" {
		dst.Log.Format = src.Log.Format
	}
}

func mergeEnv(cfg *Config) {
	// Commit range comes from the CI push event.
	if v := os.Getenv("GITHUB_BEFORE"); v != "" {
		cfg.Git.Before = v
	}
	if v := os.Getenv("GITHUB_SHA"); v != "" {
		cfg.Git.After = v
	}

	if v := os.Getenv("SCRIBE_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("SCRIBE_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("SCRIBE_SOURCE_ROOT"); v != "" {
		cfg.SourceRoot = v
	}
	if v := os.Getenv("SCRIBE_REPORTS_DIR"); v != "" {
		cfg.ReportsDir = v
	}
	if v := os.Getenv("SCRIBE_ON_MISSING_BEFORE"); v != "" {
		cfg.OnMissingBefore = v
	}
	if v := os.Getenv("SCRIBE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("SCRIBE_INCLUDE"); v != "" {
		cfg.Include = splitComma(v)
	}
	if v := os.Getenv("SCRIBE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SCRIBE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["before"]; ok && v != "" {
		cfg.Git.Before = v
	}
	if v, ok := overrides["after"]; ok && v != "" {
		cfg.Git.After = v
	}
	if v, ok := overrides["source"]; ok && v != "" {
		cfg.SourceRoot = v
	}
	if v, ok := overrides["reports"]; ok && v != "" {
		cfg.ReportsDir = v
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.Provider = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["onMissingBefore"]; ok && v != "" {
		cfg.OnMissingBefore = v
	}
	if v, ok := overrides["workers"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v, ok := overrides["include"]; ok && v != "" {
		cfg.Include = splitComma(v)
	}
	if v, ok := overrides["exclude"]; ok && v != "" {
		cfg.Exclude = append(cfg.Exclude, splitComma(v)...)
	}
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
