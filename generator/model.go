package generator

import "github.com/takumakei/openapi-ts-gen-go/config"

type Model struct {
	Gen    Gen
	Config config.Config

	// Spread is true when the plugin list starts with the default plugins,
	// which are then omitted from Plugins.
	Spread  bool
	Plugins []config.Plugin
}

type Gen struct {
	Name    string
	Version string
}

func newModel(gen Gen, c config.Config) *Model {
	spread, rest := config.CollapseDefaults(c.Plugins())
	return &Model{
		Gen:     gen,
		Config:  c,
		Spread:  spread,
		Plugins: rest,
	}
}
