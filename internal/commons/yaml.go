package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// LoadYAML reads path and decodes it into dst.
func LoadYAML(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading yaml file: %w", err)
	}

	return DecodeYAML(data, dst)
}

func DecodeYAML(data []byte, dst interface{}) error {
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}
	return nil
}
