// Package config provides configuration management for storyhub.
//
// Values are resolved in three layers: built-in defaults, then the YAML
// file at $STORYHUB_CONFIG_PATH/storyhub.yml (default /etc/storyhub), then
// STORYHUB_* environment variables. Each attribute remembers which layer
// supplied it so that `storyctl configuration show` can report it.
//
// # Key Environment Variables
//
//   - STORYHUB_CONFIG_PATH: Directory containing storyhub.yml
//   - STORYHUB_STORAGE_ROOT: Media blob directory
//   - STORYHUB_MAX_UPLOAD_BYTES: Per-file upload limit
//   - STORYHUB_FETCH_RETRIES / STORYHUB_FETCH_TIMEOUT: Remote fetch policy
//   - STORYHUB_SIGNING_KEY: Token signing secret (read by the server command)
//   - DATABASE_URL: Database connection
package config
