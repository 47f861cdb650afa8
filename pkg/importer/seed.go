package importer

import (
	_ "embed"
)

// SeedSource is the source name that selects the built-in sample bundle.
const SeedSource = "seed"

//go:embed data/seed.yaml
var seedYAML []byte

// Seed returns the built-in sample bundle.
func Seed() (Bundle, error) {
	return decodeYAML(seedYAML, "")
}
