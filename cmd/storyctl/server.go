package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/storyhub-org/storyhub/pkg/authn"
	"github.com/storyhub-org/storyhub/pkg/db"
	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/endpoints"
	"github.com/storyhub-org/storyhub/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}

func defaultPortInt() int {
	if p, err := strconv.Atoi(defaultPort()); err == nil {
		return p
	}
	return 8080
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the storyhub API server",
	Long: `Run the storyhub API server.

The server requires the environment variables STORYHUB_SIGNING_KEY and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := signingKey()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if db.URL() == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		if noMigrate, _ := cmd.Flags().GetBool("no-migrate"); !noMigrate {
			logging.Log.Info("running database migrations")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		e, err := connect()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer e.close()

		blobs, err := storage.NewFS(e.cfg.StorageRoot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to open storage root: %v\n", err)
			os.Exit(1)
		}
		tokens, err := authn.NewTokenIssuer(key, e.cfg.TokenTTL())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to create token issuer: %v\n", err)
			os.Exit(1)
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(e.cfg, e.stores, blobs, tokens, host, port)
		endpoints.RegisterAll(s)

		if err := serve(s); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

// serve runs s until SIGINT or SIGTERM, then drains in-flight requests.
func serve(s *server.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
