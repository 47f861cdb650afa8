package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/storyhub-org/storyhub/pkg/fetch"
	"github.com/storyhub-org/storyhub/pkg/importer"
	"github.com/storyhub-org/storyhub/pkg/logging"
)

// importWatchCmd represents the import watch command
var importWatchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Import every file written to a directory",
	Long: `Watch a directory and import each JSON or YAML file created or written in it.

Files named profiles*.json import profiles, stories*.json import stories and
any other name is read as a bundle holding both.

Example:
  storyctl import watch /var/lib/storyhub/inbox`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchImports(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch %s: %v\n", args[0], err)
			os.Exit(1)
		}
	},
}

func init() {
	importCmd.AddCommand(importWatchCmd)
}

func watchImports(dir string) error {
	e, err := connect()
	if err != nil {
		return err
	}
	defer e.close()

	job := &importer.Job{
		Importer: importer.New(e.stores.Profiles, e.stores.Stories),
		Fetch:    fetch.NewFromConfig(e.cfg),
		Audit:    e.audit,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s for import files\n", dir)
	err = importer.Watch(ctx, dir, func(path string) {
		log := logging.Log.WithField("file", path)
		report, err := job.Run(ctx, cliActor, path, kindFromFileName(path))
		if err != nil {
			log.WithError(err).Error("import failed")
			return
		}
		log.WithField("profiles", report.Profiles.Created).
			WithField("stories", report.Stories.Created).
			Info("import finished")
	})
	fmt.Println("\nShutting down...")
	return err
}
