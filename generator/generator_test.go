package generator_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/goaux/contextvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takumakei/openapi-ts-gen-go/config"
	"github.com/takumakei/openapi-ts-gen-go/generator"
)

func testApp() generator.Config {
	return generator.Config{
		Use:           "openapi-ts-gen",
		Short:         "test",
		Version:       "v0.0.0-test",
		Descriptor:    config.Default(),
		DefaultRunner: "npx",
	}
}

func execute(t *testing.T, app generator.Config, args ...string) (string, error) {
	t.Helper()
	cmd := generator.NewCommand(app)
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	ctx := contextvalue.With(context.Background(), &app)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestArgs(t *testing.T) {
	assert.Equal(t, []string{
		"--input", "../manager/api/api-spec.yaml",
		"--output", "src/api",
		"--client", "@hey-api/client-axios",
		"--plugins", "@hey-api/typescript", "@hey-api/schemas", "@hey-api/sdk", "@tanstack/react-query",
	}, generator.Args(config.Default()))
}

func TestDryRunDescriptor(t *testing.T) {
	out, err := execute(t, testApp(), "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "npx @hey-api/openapi-ts --input ../manager/api/api-spec.yaml --output src/api "+
		"--client @hey-api/client-axios --plugins @hey-api/typescript @hey-api/schemas @hey-api/sdk @tanstack/react-query\n", out)
}

func TestDryRunConfigFile(t *testing.T) {
	out, err := execute(t, testApp(), "--dry-run", "-c", "testdata/openapi-ts.config.yaml", "--runner", "", "-p", "@hey-api/sdk")
	require.NoError(t, err)
	assert.Equal(t, "@hey-api/openapi-ts --input testdata/api-spec.yaml --output testdata/out/api "+
		"--client @hey-api/client-axios --plugins @hey-api/sdk\n", out)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("OPENAPI_TS_CLIENT", "@hey-api/client-fetch")
	t.Setenv("OPENAPI_TS_PLUGINS", "@hey-api/typescript,@tanstack/react-query")
	out, err := execute(t, testApp(), "--dry-run", "--client", "@hey-api/client-next")
	require.NoError(t, err)
	// flags win over the environment
	assert.Contains(t, out, "--client @hey-api/client-next")
	assert.Contains(t, out, "--plugins @hey-api/typescript @tanstack/react-query\n")
}

func TestInvalidConfiguration(t *testing.T) {
	_, err := execute(t, testApp(), "--dry-run", "--client", "jquery", "-p", "a", "-p", "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrUnknownClient)
	assert.ErrorIs(t, err, config.ErrDuplicatePlugin)
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "api")
	out, err := execute(t, testApp(), "-c", "testdata/openapi-ts.config.yaml", "-o", dir, "--runner", "echo")
	require.NoError(t, err)
	assert.Equal(t, "@hey-api/openapi-ts --input testdata/api-spec.yaml --output "+dir+
		" --client @hey-api/client-axios --plugins @hey-api/typescript @hey-api/schemas @hey-api/sdk @tanstack/react-query\n", out)
	assert.DirExists(t, dir)
}

func TestGenerateUnresolvable(t *testing.T) {
	_, err := execute(t, testApp(), "-i", "testdata/missing.yaml", "-o", t.TempDir(), "--runner", "echo")
	assert.ErrorIs(t, err, config.ErrUnresolvable)
}

func TestCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "src", "api")
	out, err := execute(t, testApp(), "check", "-c", "testdata/openapi-ts.config.yaml", "-o", dir)
	require.NoError(t, err)
	assert.NoDirExists(t, dir)
	assert.Contains(t, out, "client:  @hey-api/client-axios\n")
	assert.Contains(t, out, "format:  openapi3\n")
	assert.Contains(t, out, "(CSMS Manager API 0.0.1, 2 paths, 3 operations)")
	assert.Contains(t, out, "output:  "+dir+"\n")
	assert.Contains(t, out, "plugins: @hey-api/typescript, @hey-api/schemas, @hey-api/sdk, @tanstack/react-query\n")
}

func TestCheckSwagger2(t *testing.T) {
	out, err := execute(t, testApp(), "check", "-i", "testdata/swagger.yaml", "-o", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "format:  swagger2\n")
	assert.Contains(t, out, "(CSMS Manager API 0.0.1, 1 paths, 1 operations)")
}

func TestShowJSON(t *testing.T) {
	out, err := execute(t, testApp(), "show", "--format", "json")
	require.NoError(t, err)

	var c config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.True(t, c.Equal(config.Default()))
}

func TestShowYAML(t *testing.T) {
	out, err := execute(t, testApp(), "show")
	require.NoError(t, err)
	c, err := config.Parse([]byte(out))
	require.NoError(t, err)
	assert.True(t, c.Equal(config.Default()))
}

func TestShowUnknownFormat(t *testing.T) {
	_, err := execute(t, testApp(), "show", "--format", "toml")
	assert.Error(t, err)
}

func TestRenderCommand(t *testing.T) {
	out, err := execute(t, testApp(), "render")
	require.NoError(t, err)
	assert.Equal(t, csmsConfigTS, out)
}

const csmsConfigTS = `import { defaultPlugins } from '@hey-api/openapi-ts';

export default {
  client: '@hey-api/client-axios',
  input: '../manager/api/api-spec.yaml',
  output: 'src/api',
  plugins: [
    ...defaultPlugins,
    '@tanstack/react-query',
  ],
};
`
