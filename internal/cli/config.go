package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/changeforge/internal/config"
	"github.com/ariel-frischer/changeforge/internal/errors"
)

var configForceFlag bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage changeforge configuration",
	Long: `Manage changeforge configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (CHANGEFORGE_*)
  2. Project config (.changeforge.yml, or legacy .changeforge.json)
  3. User config (~/.config/changeforge/config.yml)
  4. Built-in defaults`,
	Example: `  # Show the effective configuration
  changeforge config show

  # Write a commented .changeforge.yml template
  changeforge config init`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented .changeforge.yml template",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		path := filepath.Join(dir, config.ProjectConfigName)

		if _, err := os.Stat(path); err == nil && !configForceFlag {
			return errors.NewArgumentError(
				fmt.Sprintf("%s already exists", path),
				"Use --force to overwrite it",
			)
		}

		if err := os.WriteFile(path, []byte(config.DefaultTemplate()), 0o644); err != nil {
			return fmt.Errorf("writing config template: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Show the effective configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		cfg, err := config.Load(dir)
		if err != nil {
			return errors.WrapWithMessage(err, errors.Configuration,
				"loading configuration",
				"Check the syntax of .changeforge.yml",
			)
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVar(&configForceFlag, "force", false, "Overwrite an existing config file")
}
