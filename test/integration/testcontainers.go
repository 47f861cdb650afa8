package integration

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/storyhub-org/storyhub/pkg/authn"
	"github.com/storyhub-org/storyhub/pkg/config"
	"github.com/storyhub-org/storyhub/pkg/db"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/endpoints"
	"github.com/storyhub-org/storyhub/pkg/storage"
)

var signingKey = []byte("integration-signing-key-0123456789abcdef")

// tables are truncated between scenarios.
var tables = []string{
	"activity_log", "knowledge_entries", "organization_services", "projects",
	"interviews", "media_files", "stories", "credentials", "profiles",
}

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB          *gorm.DB
	Stores      server.Stores
	Container   testcontainers.Container
	ServerURL   string
	DatabaseURL string
	HTTPClient  *http.Client

	inline        *httptest.Server
	serverProcess *exec.Cmd
	cancel        context.CancelFunc
}

// NewTestContext starts PostgreSQL in a container, migrates it and starts a
// server against it.
// Modes:
//   - Inline mode (default): the server runs in-process
//   - Binary mode: set STORYHUB_BINARY to the path of a storyctl binary
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("storyhub_test"),
		tcpostgres.WithUsername("storyhub"),
		tcpostgres.WithPassword("storyhub"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(migrationsDir, connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	database, err := db.Connect(db.Config{URL: connStr})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	tc := &TestContext{
		DB:          database,
		Stores:      server.NewGormStores(database),
		Container:   pgContainer,
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}

	if binaryPath := os.Getenv("STORYHUB_BINARY"); binaryPath != "" {
		log.Printf("Using binary: %s", binaryPath)
		err = tc.startBinary(binaryPath, "18080")
	} else {
		log.Println("Using inline server mode")
		err = tc.startInline()
	}
	if err != nil {
		tc.Close(ctx)
		return nil, err
	}

	if err := waitForServer(tc.ServerURL, 30*time.Second); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}
	return tc, nil
}

func (tc *TestContext) startInline() error {
	cfg := config.Default()
	dir, err := os.MkdirTemp("", "storyhub-media-")
	if err != nil {
		return err
	}
	cfg.StorageRoot = dir

	blobs, err := storage.NewFS(cfg.StorageRoot)
	if err != nil {
		return err
	}
	tokens, err := authn.NewTokenIssuer(signingKey, time.Hour)
	if err != nil {
		return err
	}

	s := server.NewServer(cfg, tc.Stores, blobs, tokens, "127.0.0.1", "0")
	endpoints.RegisterAll(s)

	tc.inline = httptest.NewServer(s.Handler())
	tc.ServerURL = tc.inline.URL
	return nil
}

// startBinary runs storyctl server; migrations already ran in setup.
func (tc *TestContext) startBinary(binaryPath, port string) error {
	if _, err := os.Stat(binaryPath); err != nil {
		return fmt.Errorf("STORYHUB_BINARY path does not exist: %s", binaryPath)
	}
	dir, err := os.MkdirTemp("", "storyhub-media-")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", port)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+tc.DatabaseURL,
		"STORYHUB_SIGNING_KEY="+string(signingKey),
		"STORYHUB_STORAGE_ROOT="+dir,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start binary: %w", err)
	}
	tc.serverProcess = cmd
	tc.cancel = cancel
	tc.ServerURL = "http://127.0.0.1:" + port
	return nil
}

// Reset empties every table so scenarios do not see each other's rows.
func (tc *TestContext) Reset(ctx context.Context) error {
	return tc.DB.WithContext(ctx).Exec("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE").Error
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.inline != nil {
		tc.inline.Close()
	}
	if tc.cancel != nil {
		tc.cancel()
	}
	if tc.serverProcess != nil && tc.serverProcess.Process != nil {
		_ = tc.serverProcess.Process.Kill()
		_ = tc.serverProcess.Wait()
	}
	if tc.DB != nil {
		if sqlDB, err := tc.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/status")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

func findProjectRoot() (string, error) {
	for _, p := range []string{"../..", "..", "."} {
		if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
			return filepath.Abs(p)
		}
	}
	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

func runMigrations(dir, dbURL string) error {
	m, err := migrate.New("file://"+dir, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
