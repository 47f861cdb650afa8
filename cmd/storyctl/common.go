package main

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/storyhub-org/storyhub/pkg/audit"
	"github.com/storyhub-org/storyhub/pkg/authn"
	"github.com/storyhub-org/storyhub/pkg/config"
	"github.com/storyhub-org/storyhub/pkg/db"
	"github.com/storyhub-org/storyhub/pkg/server"
)

// env is what every database-backed command needs.
type env struct {
	cfg    *config.StoryhubConfig
	db     *gorm.DB
	stores server.Stores
	audit  *audit.Recorder
}

func connect() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}
	stores := server.NewGormStores(database)
	return &env{
		cfg:    cfg,
		db:     database,
		stores: stores,
		audit:  audit.NewRecorder(stores.Activity),
	}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func signingKey() ([]byte, error) {
	key, ok := os.LookupEnv("STORYHUB_SIGNING_KEY")
	if !ok {
		return nil, fmt.Errorf("STORYHUB_SIGNING_KEY environment variable is required")
	}
	if len(key) < authn.MinKeyLength {
		return nil, fmt.Errorf("STORYHUB_SIGNING_KEY must be at least %d bytes", authn.MinKeyLength)
	}
	return []byte(key), nil
}
