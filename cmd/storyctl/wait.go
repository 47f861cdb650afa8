package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/storyhub-org/storyhub/pkg/db"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the storyhub server to be ready",
	Long: `Wait for the storyhub server to be ready by polling the status endpoint.

With --database the command instead waits until DATABASE_URL accepts
connections, which is useful before running migrations in a fresh
environment.

Example:
  storyctl wait
  storyctl wait --port 3000 --retries 60
  storyctl wait --database`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		retries, _ := cmd.Flags().GetInt("retries")
		database, _ := cmd.Flags().GetBool("database")

		check := serverReady(fmt.Sprintf("http://localhost:%d/status", port))
		what := "storyhub server"
		if database {
			check = databaseReady(db.URL())
			what = "database"
		}

		if err := waitFor(what, check, retries, time.Second); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "Server port to check")
	waitCmd.Flags().IntP("retries", "r", 90, "Number of retries")
	waitCmd.Flags().Bool("database", false, "Wait for DATABASE_URL instead of the server")
}

func serverReady(url string) func() bool {
	client := &http.Client{Timeout: 2 * time.Second}
	return func() bool {
		resp, err := client.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode < 300
	}
}

func databaseReady(dbURL string) func() bool {
	return func() bool {
		if dbURL == "" {
			return false
		}
		conn, err := sql.Open("postgres", dbURL)
		if err != nil {
			return false
		}
		defer func() { _ = conn.Close() }()
		return conn.Ping() == nil
	}
}

func waitFor(what string, ready func() bool, retries int, interval time.Duration) error {
	fmt.Printf("Waiting for %s to be ready...\n", what)

	for i := 0; i < retries; i++ {
		if ready() {
			fmt.Println()
			fmt.Printf("%s is ready\n", what)
			return nil
		}
		fmt.Print(".")
		time.Sleep(interval)
	}

	fmt.Println()
	return fmt.Errorf("%s is not ready after %d attempts", what, retries)
}
