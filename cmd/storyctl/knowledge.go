package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storyhub-org/storyhub/pkg/knowledge"
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Manage the knowledge base",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'knowledge' requires a subcommand (seed)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var knowledgeSeedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Load the knowledge base into the database",
	Long: `Upsert knowledge base entries by slug.

Without a file the built-in knowledge base is loaded. Running the command
again updates existing entries in place and never creates duplicates.

Example:
  storyctl knowledge seed
  storyctl knowledge seed ./knowledge.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		base, err := loadKnowledgeBase(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read knowledge base: %v\n", err)
			os.Exit(1)
		}

		e, err := connect()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer e.close()

		res, err := knowledge.Seed(cmd.Context(), e.stores.Knowledge, base)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Seeding failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Knowledge base seeded: %d created, %d updated\n", res.Created, res.Updated)
	},
}

func init() {
	rootCmd.AddCommand(knowledgeCmd)
	knowledgeCmd.AddCommand(knowledgeSeedCmd)
}

func loadKnowledgeBase(args []string) (*knowledge.Base, error) {
	if len(args) == 0 {
		return knowledge.Default()
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, err
	}
	return knowledge.Parse(data)
}
