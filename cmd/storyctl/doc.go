// Command storyctl runs and administers the storyhub community storytelling
// service.
//
// # Quick Start
//
//	# Generate a signing key for access tokens
//	export STORYHUB_SIGNING_KEY=$(openssl rand -hex 32)
//
//	# Run database migrations
//	storyctl db migrate
//
//	# Create the first administrator and note the printed API key
//	storyctl profile create-admin admin@example.org "Site Admin"
//
//	# Load the built-in knowledge base
//	storyctl knowledge seed
//
//	# Start the server
//	storyctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - STORYHUB_SIGNING_KEY: HS256 secret for access tokens, at least 32 bytes
//   - STORYHUB_CONFIG_PATH: Directory holding storyhub.yml (default: /etc/storyhub)
//   - STORYHUB_LOG_LEVEL: Log level (debug, info, warn, error)
//   - PORT: Server port (default: 8080)
package main
