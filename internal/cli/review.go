package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scribe-ci/scribe/internal/config"
	"github.com/scribe-ci/scribe/internal/logger"
	"github.com/scribe-ci/scribe/internal/providers"
	"github.com/scribe-ci/scribe/internal/report"
	"github.com/scribe-ci/scribe/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review <file>...",
	Short: "Review explicit files without git plumbing",
	Long:  "Review the given files directly, bypassing change detection. Reports are written to the same derived layout as a full run.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagRepo, buildOverrides())
		if err != nil {
			return err
		}
		applyBoolFlags(&cfg)

		log := logger.New(cfg.Log.Level, cfg.Log.Format)

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

		ctx := context.Background()
		failed := 0
		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				log.Error("cannot read file", err)
				failed++
				continue
			}
			rep, err := reviewer.ReviewFile(ctx, path, content)
			if err != nil {
				log.Error("review failed", err)
				failed++
				continue
			}
			out := report.DerivePath(cfg.ReportsDir, cfg.SourceRoot, path)
			if err := report.Write(out, rep.Content); err != nil {
				log.Error("write failed", err)
				failed++
				continue
			}
			fmt.Fprintln(os.Stdout, out)
		}

		if failed > 0 {
			exitCode = ExitPartial
		}
		return nil
	},
}

func init() {
	reviewCmd.Flags().StringVar(&flagRepo, "repo", ".", "Repository path")
	reviewCmd.Flags().StringVar(&flagReports, "reports", "", "Reports output directory")
	reviewCmd.Flags().StringVar(&flagSource, "source", "", "Source root used for report path derivation")
	reviewCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (anthropic, openai, gemini, ollama)")
	reviewCmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	reviewCmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
}
