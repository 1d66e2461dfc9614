package config

import (
	"fmt"
	"os"

	"github.com/goaux/stacktrace/v2"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML or JSON configuration document.
//
// The document is checked against Schema before decoding. Plugin lists may
// contain SpreadDefaults, which is expanded in place. Parse does not call
// Validate.
func Parse(data []byte) (Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, stacktrace.Trace(err)
	}
	if err := validateSchema(raw); err != nil {
		return Config{}, err
	}
	var d document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Config{}, stacktrace.Trace(err)
	}
	return d.config(), nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (Config, error) {
	data, err := stacktrace.Trace2(os.ReadFile(path))
	if err != nil {
		return Config{}, err
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
