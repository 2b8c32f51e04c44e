package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scribe-ci/scribe/internal/config"
	"github.com/scribe-ci/scribe/internal/ghpub"
	"github.com/scribe-ci/scribe/internal/gitx"
	"github.com/scribe-ci/scribe/internal/logger"
	"github.com/scribe-ci/scribe/internal/pipeline"
	"github.com/scribe-ci/scribe/internal/providers"
	"github.com/scribe-ci/scribe/internal/report"
	"github.com/scribe-ci/scribe/internal/review"
)

var (
	flagRepo            string
	flagBefore          string
	flagAfter           string
	flagSource          string
	flagReports         string
	flagProvider        string
	flagModel           string
	flagWorkers         int
	flagInclude         string
	flagExclude         string
	flagOnMissingBefore string
	flagPublish         bool
	flagPush            bool
	flagComment         bool
	flagNoRedact        bool
	flagDryRun          bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Review files changed by a push and write reports",
	Long:  "Run the full pipeline: detect files changed between the before and after commits, review each with the configured provider, write one report per file, and optionally commit the reports back.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagRepo, buildOverrides())
		if err != nil {
			return err
		}
		applyBoolFlags(&cfg)

		log := logger.New(cfg.Log.Level, cfg.Log.Format)

		if cfg.Git.After == "" {
			fmt.Fprintln(os.Stderr, "Error: no current commit reference (set GITHUB_SHA or --after)")
			exitCode = ExitRuntimeError
			return nil
		}

		repo, err := gitx.Open(cfg.Git.RepoPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		files, err := repo.Changed(cfg.Git.Before, cfg.Git.After, cfg.SourceRoot, gitx.MissingBeforePolicy(cfg.OnMissingBefore))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		if len(files) == 0 {
			log.Infof("no files changed under %s, nothing to do", cfg.SourceRoot)
			return nil
		}

		if flagDryRun {
			for _, f := range files {
				fmt.Fprintf(os.Stdout, "%s -> %s\n", f, report.DerivePath(cfg.ReportsDir, cfg.SourceRoot, f))
			}
			return nil
		}

		// Resolve the credential before any file content is read or sent; a
		// missing key must abort up front.
		key, err := config.Credential(cfg.Provider)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}

		provider, err := providers.New(cfg.Provider, cfg.Model, key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if providers.IsAuth(err) {
				exitCode = ExitAuthError
			} else {
				exitCode = ExitRuntimeError
			}
			return nil
		}

		reviewer := review.NewFileReviewer(provider, cfg.Model, cfg.MaxTokens, cfg.RedactSecrets)
		p := pipeline.New(cfg, reviewer, log)

		summary, err := p.Run(context.Background(), files)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		log.Infof("run complete: %d reviewed, %d skipped, %d failed", summary.Reviewed, summary.Skipped, summary.Failed)

		if cfg.Publish.Enabled && summary.Reviewed > 0 {
			publishReports(repo, cfg, log)
		}
		if cfg.Publish.Comment {
			postSummaryComment(cfg, summary, log)
		}

		if summary.Failed > 0 {
			exitCode = ExitPartial
		}
		return nil
	},
}

func publishReports(repo *gitx.Repo, cfg config.Config, log *logger.Logger) {
	committed, err := repo.PublishReports(context.Background(), gitx.PublishOptions{
		Dir:         cfg.ReportsDir,
		Message:     cfg.Publish.Message,
		AuthorName:  cfg.Publish.AuthorName,
		AuthorEmail: cfg.Publish.AuthorEmail,
		Remote:      cfg.Publish.Remote,
		Push:        cfg.Publish.Push,
		Token:       config.GitHubToken(),
	})
	if err != nil {
		log.Error("publishing reports", err)
		exitCode = ExitRuntimeError
		return
	}
	if committed {
		log.Info("reports committed")
	} else {
		log.Info("no report changes to commit")
	}
}

func postSummaryComment(cfg config.Config, summary *pipeline.Summary, log *logger.Logger) {
	commenter, err := ghpub.New(config.GitHubToken(), config.GitHubRepository())
	if err != nil {
		log.Warnf("skipping summary comment: %v", err)
		return
	}
	if err := commenter.PostRunSummary(context.Background(), cfg.Git.After, summary); err != nil {
		log.Warnf("posting summary comment: %v", err)
	}
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagBefore != "" {
		m["before"] = flagBefore
	}
	if flagAfter != "" {
		m["after"] = flagAfter
	}
	if flagSource != "" {
		m["source"] = flagSource
	}
	if flagReports != "" {
		m["reports"] = flagReports
	}
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagWorkers > 0 {
		m["workers"] = fmt.Sprintf("%d", flagWorkers)
	}
	if flagInclude != "" {
		m["include"] = flagInclude
	}
	if flagExclude != "" {
		m["exclude"] = flagExclude
	}
	if flagOnMissingBefore != "" {
		m["onMissingBefore"] = flagOnMissingBefore
	}
	return m
}

// applyBoolFlags folds flags that can only switch behavior on (or, for
// redaction, off) into the effective config.
func applyBoolFlags(cfg *config.Config) {
	if flagPublish {
		cfg.Publish.Enabled = true
	}
	if flagPush {
		cfg.Publish.Enabled = true
		cfg.Publish.Push = true
	}
	if flagComment {
		cfg.Publish.Comment = true
	}
	if flagNoRedact {
		cfg.RedactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}
}

func init() {
	runCmd.Flags().StringVar(&flagRepo, "repo", ".", "Repository path")
	runCmd.Flags().StringVar(&flagBefore, "before", "", "Before commit reference (default: GITHUB_BEFORE)")
	runCmd.Flags().StringVar(&flagAfter, "after", "", "Current commit reference (default: GITHUB_SHA)")
	runCmd.Flags().StringVar(&flagSource, "source", "", "Watched source directory")
	runCmd.Flags().StringVar(&flagReports, "reports", "", "Reports output directory")
	runCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (anthropic, openai, gemini, ollama)")
	runCmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	runCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent review workers")
	runCmd.Flags().StringVar(&flagInclude, "include", "", "Include file globs (comma-separated)")
	runCmd.Flags().StringVar(&flagExclude, "exclude", "", "Exclude file globs (comma-separated)")
	runCmd.Flags().StringVar(&flagOnMissingBefore, "on-missing-before", "", "Policy for a zero/absent before reference (none, all)")
	runCmd.Flags().BoolVar(&flagPublish, "publish", false, "Commit generated reports")
	runCmd.Flags().BoolVar(&flagPush, "push", false, "Push the report commit (implies --publish)")
	runCmd.Flags().BoolVar(&flagComment, "comment", false, "Post a run summary as a commit comment")
	runCmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	runCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the plan without calling the provider or writing files")
}
