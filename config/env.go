package config

import (
	env "github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable read by FromEnv.
const EnvPrefix = "OPENAPI_TS_"

// Overrides holds descriptor values taken from the environment. Empty
// fields leave the descriptor unchanged.
type Overrides struct {
	Client  string   `env:"CLIENT"`
	Input   string   `env:"INPUT"`
	Output  string   `env:"OUTPUT"`
	Plugins []string `env:"PLUGINS" envSeparator:","`
}

// FromEnv reads Overrides from the process environment.
func FromEnv() (Overrides, error) {
	return OverridesFrom(nil)
}

// OverridesFrom reads Overrides from environ instead of the process
// environment when environ is not nil.
func OverridesFrom(environ map[string]string) (Overrides, error) {
	var o Overrides
	err := env.ParseWithOptions(&o, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	})
	return o, err
}

func (o Overrides) Empty() bool {
	return o.Client == "" && o.Input == "" && o.Output == "" && len(o.Plugins) == 0
}

// Apply returns a copy of c with the non-empty overrides applied.
func (o Overrides) Apply(c Config) Config {
	if o.Client != "" {
		c = c.WithClient(Client(o.Client))
	}
	if o.Input != "" {
		c = c.WithInput(o.Input)
	}
	if o.Output != "" {
		c = c.WithOutput(o.Output)
	}
	if len(o.Plugins) > 0 {
		c = c.WithPlugins(Plugins(o.Plugins...)...)
	}
	return c
}
