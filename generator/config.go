package generator

import "github.com/takumakei/openapi-ts-gen-go/config"

type Config struct {
	Use     string
	Short   string
	Long    string
	Version string

	// Template renders an openapi-ts.config.ts file. DefaultTemplate is used
	// when empty.
	Template string

	// Descriptor is used when no configuration file is given or found.
	Descriptor config.Config

	// DefaultConfigFile is loaded instead of Descriptor when it exists and
	// --config is not given.
	DefaultConfigFile string

	// DefaultRunner runs Generator, e.g. "npx". Empty runs Generator
	// directly.
	DefaultRunner string

	// Generator is the external generator package or executable.
	Generator string
}

const DefaultGenerator = "@hey-api/openapi-ts"
