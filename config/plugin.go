package config

import "slices"

// Plugin names a generation extension of the external generator.
type Plugin string

const (
	PluginTypeScript Plugin = "@hey-api/typescript"
	PluginSchemas    Plugin = "@hey-api/schemas"
	PluginSDK        Plugin = "@hey-api/sdk"

	PluginReactQuery Plugin = "@tanstack/react-query"
)

// SpreadDefaults is replaced by DefaultPlugins wherever it appears in a
// plugins list read from a file.
const SpreadDefaults Plugin = "...defaultPlugins"

var defaultPlugins = []Plugin{
	PluginTypeScript,
	PluginSchemas,
	PluginSDK,
}

// DefaultPlugins returns the plugins the generator enables when none are
// configured. The result is a fresh slice.
func DefaultPlugins() []Plugin {
	return slices.Clone(defaultPlugins)
}

// ExpandDefaults returns plugins with every SpreadDefaults token replaced by
// DefaultPlugins, keeping the surrounding order.
func ExpandDefaults(plugins []Plugin) []Plugin {
	out := make([]Plugin, 0, len(plugins)+len(defaultPlugins))
	for _, p := range plugins {
		if p == SpreadDefaults {
			out = append(out, defaultPlugins...)
			continue
		}
		out = append(out, p)
	}
	return out
}

// CollapseDefaults is the inverse of ExpandDefaults: a leading run equal to
// DefaultPlugins is reported separately from the remaining plugins.
func CollapseDefaults(plugins []Plugin) (spread bool, rest []Plugin) {
	n := len(defaultPlugins)
	if len(plugins) >= n && slices.Equal(plugins[:n], defaultPlugins) {
		return true, slices.Clone(plugins[n:])
	}
	return false, slices.Clone(plugins)
}

func (p Plugin) String() string {
	return string(p)
}

// Plugins converts identifiers to Plugin values.
func Plugins(ids ...string) []Plugin {
	out := make([]Plugin, len(ids))
	for i, id := range ids {
		out[i] = Plugin(id)
	}
	return out
}
