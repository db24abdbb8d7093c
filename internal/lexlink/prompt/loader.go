package prompt

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load parses and validates a prompt definition from a markdown file with
// YAML frontmatter. The body after the frontmatter becomes the template when
// the frontmatter does not set one inline.
func Load(source string, data []byte) (*Prompt, error) {
	config, body, err := parseYAMLWithFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("parse prompt %s: %w", source, err)
	}

	if strings.TrimSpace(config.Template) == "" {
		config.Template = strings.TrimSpace(body)
	}

	if strings.TrimSpace(config.Template) == "" {
		return nil, fmt.Errorf("prompt %s missing template", source)
	}
	if strings.TrimSpace(config.Slug) == "" {
		return nil, fmt.Errorf("prompt %s missing slug", source)
	}

	return &Prompt{Config: config, Source: source}, nil
}

// LoadFromDir reads all prompt files (.md with YAML frontmatter) from a directory.
func LoadFromDir(dir string) ([]*Prompt, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("scan prompts: %w", err)
	}
	results := make([]*Prompt, 0, len(entries))
	for _, path := range entries {
		data, err := os.ReadFile(path) // #nosec G304 -- Prompt path is user-provided
		if err != nil {
			return nil, fmt.Errorf("read prompt %s: %w", path, err)
		}
		prompt, err := Load(path, data)
		if err != nil {
			return nil, err
		}
		results = append(results, prompt)
	}
	return results, nil
}

func parseYAMLWithFrontmatter(data []byte) (Config, string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Config{}, "", fmt.Errorf("empty prompt")
	}

	lines := bufio.NewScanner(bytes.NewReader(trimmed))
	lines.Split(bufio.ScanLines)

	var (
		frontmatter []string
		body        []string
		inFront     bool
		headerSeen  bool
	)

	for lines.Scan() {
		line := lines.Text()
		switch {
		case !headerSeen && strings.TrimSpace(line) == "---":
			headerSeen = true
			inFront = true
		case headerSeen && inFront && strings.TrimSpace(line) == "---":
			inFront = false
		default:
			if inFront {
				frontmatter = append(frontmatter, line)
			} else {
				body = append(body, line)
			}
		}
	}
	if err := lines.Err(); err != nil {
		return Config{}, "", err
	}

	var cfg Config
	if headerSeen {
		if err := yaml.Unmarshal([]byte(strings.Join(frontmatter, "\n")), &cfg); err != nil {
			return Config{}, "", fmt.Errorf("invalid frontmatter: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &cfg); err != nil {
			return Config{}, "", fmt.Errorf("invalid yaml: %w", err)
		}
	}

	return cfg, strings.Join(body, "\n"), nil
}
