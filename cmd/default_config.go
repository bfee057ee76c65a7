package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/epinet-sim/epinet/sim"
)

// LoadConfig reads a YAML config file on top of sim.DefaultConfig(). Keys
// absent from the file keep their defaults; unknown keys are rejected so
// typos cannot silently fall back to a default. An empty path or an empty
// file returns the defaults unchanged.
func LoadConfig(path string) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	// Parse YAML with strict field checking: typos must cause errors
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
