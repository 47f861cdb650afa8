package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/storyhub-org/storyhub/pkg/reports"
)

const dateLayout = "2006-01-02"

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate reports",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'report' requires a subcommand (funder)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var reportFunderCmd = &cobra.Command{
	Use:   "funder",
	Short: "Generate a funder report for a period",
	Long: `Generate a funder report covering stories, storytellers, media and projects
for a period. --to is inclusive. Without dates the report covers the year
up to today.

Example:
  storyctl report funder --from 2026-01-01 --to 2026-06-30 --output markdown`,
	Run: func(cmd *cobra.Command, args []string) {
		fromFlag, _ := cmd.Flags().GetString("from")
		toFlag, _ := cmd.Flags().GetString("to")
		output, _ := cmd.Flags().GetString("output")

		from, to, err := reportPeriod(fromFlag, toFlag, time.Now().UTC())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		e, err := connect()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer e.close()

		gen := reports.NewGenerator(e.stores.Stats)
		if err := writeFunderReport(cmd.Context(), cmd.OutOrStdout(), gen, from, to, output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportFunderCmd)
	reportFunderCmd.Flags().String("from", "", "first day of the period (YYYY-MM-DD)")
	reportFunderCmd.Flags().String("to", "", "last day of the period, inclusive (YYYY-MM-DD)")
	reportFunderCmd.Flags().StringP("output", "o", "json", "Output format (json or markdown)")
}

// reportPeriod turns inclusive day flags into the half-open [from, to) range.
func reportPeriod(fromFlag, toFlag string, now time.Time) (time.Time, time.Time, error) {
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	if toFlag != "" {
		t, err := time.Parse(dateLayout, toFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q", toFlag)
		}
		to = t.AddDate(0, 0, 1)
	}
	from := to.AddDate(-1, 0, 0)
	if fromFlag != "" {
		t, err := time.Parse(dateLayout, fromFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q", fromFlag)
		}
		from = t
	}
	return from, to, nil
}

func writeFunderReport(ctx context.Context, w io.Writer, gen *reports.Generator, from, to time.Time, output string) error {
	if output != "json" && output != "markdown" {
		return fmt.Errorf("unknown output format %q", output)
	}
	report, err := gen.Funder(ctx, from, to)
	if err != nil {
		return err
	}
	if output == "markdown" {
		_, err = io.WriteString(w, report.Markdown())
		return err
	}
	return printJSON(w, report)
}
