package worker

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type messagesFile struct {
	Messages []string `yaml:"messages"`
}

// LoadMessages reads the synthetic heartbeat log lines from a YAML file.
// An empty path returns nil so the reconciler falls back to its built-in set.
func LoadMessages(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read heartbeat messages: %w", err)
	}

	var f messagesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse heartbeat messages: %w", err)
	}
	if len(f.Messages) == 0 {
		return nil, fmt.Errorf("heartbeat messages file %s lists no messages", path)
	}
	return f.Messages, nil
}
