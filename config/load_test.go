package config_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takumakei/openapi-ts-gen-go/config"
)

func TestLoadJSON(t *testing.T) {
	c, err := config.Load("testdata/openapi-ts.config.json")
	require.NoError(t, err)
	assert.True(t, c.Equal(config.Default()), "got %+v", c)
}

func TestLoadYAML(t *testing.T) {
	c, err := config.Load("testdata/openapi-ts.config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "api-spec.yaml", c.Input)
	assert.Equal(t, "out/api", c.Output)
	assert.Equal(t, config.Default().Plugins(), c.Plugins())
	assert.NoError(t, c.Validate())
}

func TestLoadRepeatedly(t *testing.T) {
	a, err := config.Load("testdata/openapi-ts.config.yaml")
	require.NoError(t, err)
	b, err := config.Load("testdata/openapi-ts.config.yaml")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestLoadMissing(t *testing.T) {
	_, err := config.Load("testdata/missing.yaml")
	assert.True(t, errors.Is(err, fs.ErrNotExist), "%v", err)
}

func TestParseSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ``},
		{"not an object", `- a`},
		{"missing plugins", `{client: x, input: a, output: b}`},
		{"empty plugins", `{client: x, input: a, output: b, plugins: []}`},
		{"empty input", `{client: x, input: "", output: b, plugins: [p]}`},
		{"unknown field", `{client: x, input: a, output: b, plugins: [p], base: c}`},
		{"plugin not a string", `{client: x, input: a, output: b, plugins: [{name: p}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, config.ErrSchema)
		})
	}
}

func TestParseKeepsOrderAndDuplicates(t *testing.T) {
	c, err := config.Parse([]byte(`
client: '@hey-api/client-fetch'
input: https://example.com/openapi.json
output: gen
plugins: ['@tanstack/react-query', ...defaultPlugins, '@tanstack/react-query']
`))
	require.NoError(t, err)
	assert.Equal(t, config.Plugins(
		"@tanstack/react-query",
		"@hey-api/typescript",
		"@hey-api/schemas",
		"@hey-api/sdk",
		"@tanstack/react-query",
	), c.Plugins())
	assert.Equal(t, 2, c.Count(config.PluginReactQuery))
	assert.ErrorIs(t, c.Validate(), config.ErrDuplicatePlugin)
}

func TestSchemaIsJSON(t *testing.T) {
	assert.Contains(t, string(config.Schema()), `"required": ["client", "input", "output", "plugins"]`)
}
