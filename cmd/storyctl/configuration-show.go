package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/storyhub-org/storyhub/pkg/config"
)

var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration attributes and their sources",
	Long: `Show storyhub configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources: defaults, the config file and environment variables.
They may not match the values a running server loaded at startup.

Config file location: /etc/storyhub/storyhub.yml (or STORYHUB_CONFIG_PATH)

Example:
  storyctl configuration show
  storyctl configuration show --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if err := showConfiguration(cmd.OutOrStdout(), cfg, output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

var configurationValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for errors",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
	},
}

func init() {
	configurationCmd.AddCommand(configurationShowCmd)
	configurationCmd.AddCommand(configurationValidateCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showConfiguration(w io.Writer, cfg *config.StoryhubConfig, output string) error {
	switch output {
	case "json":
		out, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	case "text", "":
		_, err := fmt.Fprint(w, cfg.FormatText())
		return err
	}
	return fmt.Errorf("unknown output format %q", output)
}
