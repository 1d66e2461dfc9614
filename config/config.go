// Package config defines the descriptor handed to the openapi-ts generator:
// which API document to read, where to write, which HTTP client to target
// and which plugins to run.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config is the generator configuration descriptor.
//
// A Config is a value. Methods never modify the receiver; the With helpers
// return modified copies and Plugins returns a copy of the plugin list.
type Config struct {
	Client Client
	Input  string
	Output string

	plugins []Plugin
}

// New returns a Config with plugins in the given order. SpreadDefaults
// tokens are expanded.
func New(client Client, input, output string, plugins ...Plugin) Config {
	return Config{
		Client:  client,
		Input:   input,
		Output:  output,
		plugins: ExpandDefaults(plugins),
	}
}

// Default returns the descriptor of the csms frontend: the manager API
// rendered into src/api with the axios client, the default plugins and the
// react-query integration.
func Default() Config {
	return New(
		ClientAxios,
		"../manager/api/api-spec.yaml",
		"src/api",
		SpreadDefaults,
		PluginReactQuery,
	)
}

func (c Config) Plugins() []Plugin {
	return slices.Clone(c.plugins)
}

// Count reports how many times p appears in the plugin list.
func (c Config) Count(p Plugin) int {
	n := 0
	for _, v := range c.plugins {
		if v == p {
			n++
		}
	}
	return n
}

func (c Config) Has(p Plugin) bool {
	return slices.Contains(c.plugins, p)
}

func (c Config) WithClient(client Client) Config {
	c.plugins = slices.Clone(c.plugins)
	c.Client = client
	return c
}

func (c Config) WithInput(input string) Config {
	c.plugins = slices.Clone(c.plugins)
	c.Input = input
	return c
}

func (c Config) WithOutput(output string) Config {
	c.plugins = slices.Clone(c.plugins)
	c.Output = output
	return c
}

// WithPlugins replaces the plugin list. SpreadDefaults tokens are expanded.
func (c Config) WithPlugins(plugins ...Plugin) Config {
	c.plugins = ExpandDefaults(plugins)
	return c
}

func (c Config) Equal(o Config) bool {
	return c.Client == o.Client &&
		c.Input == o.Input &&
		c.Output == o.Output &&
		slices.Equal(c.plugins, o.plugins)
}

// Validate checks the structure of the descriptor. All problems are
// reported at once, joined with errors.Join.
func (c Config) Validate() error {
	var errs []error
	if !c.Client.Valid() {
		errs = append(errs, fmt.Errorf("client: %w: %q", ErrUnknownClient, c.Client))
	}
	if c.Input == "" {
		errs = append(errs, ErrEmptyInput)
	}
	if c.Output == "" {
		errs = append(errs, ErrEmptyOutput)
	}
	if len(c.plugins) == 0 {
		errs = append(errs, ErrNoPlugins)
	}
	seen := make(map[Plugin]int, len(c.plugins))
	for i, p := range c.plugins {
		if p == "" {
			errs = append(errs, fmt.Errorf("plugins[%d]: %w", i, ErrEmptyPlugin))
			continue
		}
		if j, ok := seen[p]; ok {
			errs = append(errs, fmt.Errorf("plugins[%d]: %w: %q (first at plugins[%d])", i, ErrDuplicatePlugin, p, j))
			continue
		}
		seen[p] = i
	}
	return errors.Join(errs...)
}

// document is the on-disk shape of a Config.
type document struct {
	Client  Client   `json:"client" yaml:"client"`
	Input   string   `json:"input" yaml:"input"`
	Output  string   `json:"output" yaml:"output"`
	Plugins []Plugin `json:"plugins" yaml:"plugins"`
}

func (c Config) document() document {
	return document{
		Client:  c.Client,
		Input:   c.Input,
		Output:  c.Output,
		Plugins: c.Plugins(),
	}
}

func (d document) config() Config {
	return New(d.Client, d.Input, d.Output, d.Plugins...)
}

func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.document())
}

// UnmarshalJSON checks b against Schema like Parse does.
func (c *Config) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := validateSchema(raw); err != nil {
		return err
	}
	var d document
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	*c = d.config()
	return nil
}

func (c Config) MarshalYAML() (any, error) {
	return c.document(), nil
}

// UnmarshalYAML checks the node against Schema like Parse does.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if err := validateSchema(raw); err != nil {
		return err
	}
	var d document
	if err := node.Decode(&d); err != nil {
		return err
	}
	*c = d.config()
	return nil
}
