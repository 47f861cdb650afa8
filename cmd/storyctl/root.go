package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/storyhub-org/storyhub/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "storyctl",
	Short: "Run and administer the storyhub service",
	Long: `storyctl runs the storyhub API server and the maintenance tasks around it:
database migrations, imports, knowledge base seeding, profile keys and reports.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			if err := logging.SetLevel(level); err != nil {
				return err
			}
		}
		if asJSON, _ := cmd.Flags().GetBool("log-json"); asJSON {
			logging.UseJSON()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "override STORYHUB_LOG_LEVEL (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "log in JSON instead of text")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
