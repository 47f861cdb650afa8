package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/storyhub-org/storyhub/pkg/fetch"
)

// Load reads a bundle from an http(s) URL, a .json/.yaml/.yml file or the
// built-in SeedSource. A document holding a bare array is accepted when kind
// names its records: "profiles" or "stories".
func Load(ctx context.Context, client *fetch.Client, source, kind string) (Bundle, error) {
	if source == SeedSource {
		return Seed()
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = client.Get(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return Bundle{}, fmt.Errorf("read %s: %w", source, err)
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml":
		return decodeYAML(data, kind)
	}
	return decodeJSON(data, kind)
}

func decodeJSON(data []byte, kind string) (Bundle, error) {
	var b Bundle
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		target, err := arrayTarget(&b, kind)
		if err != nil {
			return b, err
		}
		if err := json.Unmarshal(trimmed, target); err != nil {
			return b, fmt.Errorf("decode json: %w", err)
		}
		return b, nil
	}
	if err := json.Unmarshal(trimmed, &b); err != nil {
		return b, fmt.Errorf("decode json: %w", err)
	}
	return b, nil
}

func decodeYAML(data []byte, kind string) (Bundle, error) {
	var b Bundle
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return b, fmt.Errorf("decode yaml: %w", err)
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		target, err := arrayTarget(&b, kind)
		if err != nil {
			return b, err
		}
		if err := node.Content[0].Decode(target); err != nil {
			return b, fmt.Errorf("decode yaml: %w", err)
		}
		return b, nil
	}
	if err := node.Decode(&b); err != nil {
		return b, fmt.Errorf("decode yaml: %w", err)
	}
	return b, nil
}

func arrayTarget(b *Bundle, kind string) (interface{}, error) {
	switch kind {
	case "profiles":
		return &b.Profiles, nil
	case "stories":
		return &b.Stories, nil
	}
	return nil, fmt.Errorf("a bare array needs a record kind (profiles or stories), got %q", kind)
}
