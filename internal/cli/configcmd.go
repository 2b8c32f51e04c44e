package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/scribe-ci/scribe/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or initialize scribe configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  "Print the merged configuration as TOML: defaults, then the repository's scribe.toml, then environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagRepo, nil)
		if err != nil {
			return err
		}
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		fmt.Fprint(os.Stdout, string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter scribe.toml",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(flagRepo, config.FileName)
		if err := config.WriteStarter(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.PersistentFlags().StringVar(&flagRepo, "repo", ".", "Repository path")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
