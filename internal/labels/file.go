package labels

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

type labelFile struct {
	Labels []string `json:"labels"`
}

// LoadFile reads labels from a YAML or JSON file holding either a plain list or an
// object with a "labels" list.
func LoadFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels file: %w", err)
	}
	return parseFile(raw)
}

func parseFile(raw []byte) ([]string, error) {
	var list []string
	if err := yaml.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var file labelFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal labels file: %v", err)
	}
	if file.Labels == nil {
		return nil, fmt.Errorf("labels file has no labels")
	}
	return file.Labels, nil
}
