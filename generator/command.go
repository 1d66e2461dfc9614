package generator

import "github.com/takumakei/openapi-ts-gen-go/config"

// Args returns the command line arguments for the openapi-ts CLI. Plugins
// are passed in descriptor order.
func Args(c config.Config) []string {
	args := []string{
		"--input", c.Input,
		"--output", c.Output,
		"--client", c.Client.String(),
	}
	if plugins := c.Plugins(); len(plugins) > 0 {
		args = append(args, "--plugins")
		for _, p := range plugins {
			args = append(args, p.String())
		}
	}
	return args
}

// commandLine returns the program and arguments that run generator through
// runner.
func commandLine(runner, generator string, c config.Config) (string, []string) {
	if runner == "" {
		return generator, Args(c)
	}
	return runner, append([]string{generator}, Args(c)...)
}
