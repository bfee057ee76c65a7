package population

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/epinet-sim/epinet/sim"
)

// LoadFile reads a YAML population file and validates it.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadFile(path string) (*sim.Population, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading population file: %w", err)
	}
	pop, err := Parse(data)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Loaded population from %s: %d people, %d locations", path, len(pop.People), len(pop.Locations))
	return pop, nil
}

// Parse decodes and validates a YAML population document.
func Parse(data []byte) (*sim.Population, error) {
	var pop sim.Population
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&pop); err != nil {
		return nil, fmt.Errorf("parsing population: %w", err)
	}
	if err := pop.Validate(); err != nil {
		return nil, err
	}
	return &pop, nil
}

// WriteFile encodes pop as YAML to path.
func WriteFile(path string, pop *sim.Population) error {
	data, err := yaml.Marshal(pop)
	if err != nil {
		return fmt.Errorf("encoding population: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing population file: %w", err)
	}
	return nil
}
