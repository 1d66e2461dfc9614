// Package generator provides the command that drives the openapi-ts client
// generator from a configuration descriptor.
package generator

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/goaux/contextvalue"
	"github.com/goaux/stacktrace/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/takumakei/openapi-ts-gen-go/config"
	"github.com/takumakei/openapi-ts-gen-go/execpipe"
	"gopkg.in/yaml.v3"
)

// Main runs the command and exits the process on failure.
// Interrupts cancel ctx, which stops a running generator.
func Main(ctx context.Context, app Config) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewCommand(app)
	ctx = contextvalue.With(ctx, &app)
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "error: %v\n", err.Error())
		os.Exit(1)
	}
}

// NewCommand builds the command tree. The context passed to Execute must
// carry the same Config, see Main.
func NewCommand(app Config) *cobra.Command {
	flags = flagsType{}

	cmd := &cobra.Command{
		Use:     app.Use,
		Short:   app.Short,
		Long:    render(app.Long),
		Version: app.Version,
		RunE:    runGenerate,

		ValidArgsFunction: validArgs,

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	fl := cmd.PersistentFlags()
	fl.SortFlags = false
	fl.StringVarP(&flags.Config, "config", "c", "", "Configuration `file.yaml` (YAML or JSON)")
	fl.StringVarP(&flags.Input, "input", "i", "", "OpenAPI `document` path or URL")
	fl.StringVarP(&flags.Output, "output", "o", "", "Output `directory`")
	fl.StringVar(&flags.Client, "client", "", "HTTP `client` binding")
	fl.StringArrayVarP(&flags.Plugins, "plugin", "p", nil, "`plugin` identifier, repeatable; replaces the configured list")
	fl.StringVar(&flags.Base, "base", "", "Base `directory` of relative paths (default: directory of --config)")
	fl.BoolVarP(&flags.Verbose, "verbose", "v", false, "Log progress to stderr")

	gen := cmd.Flags()
	gen.StringVar(&flags.Runner, "runner", app.DefaultRunner, "`program` used to run the generator, empty to run it directly")
	gen.BoolVarP(&flags.DryRun, "dry-run", "n", false, "Print the generator command line instead of running it")

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.MarkPersistentFlagFilename("config", "yaml", "yml", "json")
	cmd.MarkPersistentFlagFilename("input", "yaml", "yml", "json")
	cmd.MarkPersistentFlagDirname("output")
	cmd.MarkPersistentFlagDirname("base")
	cmd.RegisterFlagCompletionFunc("client", func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
		var out []cobra.Completion
		for _, c := range config.Clients() {
			out = append(out, cobra.Completion(c.String()))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(newCheckCommand(), newShowCommand(), newRenderCommand())
	return cmd
}

func render(usage string) string {
	if isTTY(os.Stdout) {
		r, err := glamour.NewTermRenderer(
			glamour.WithEnvironmentConfig(),
			glamour.WithWordWrap(100),
		)
		if err == nil { // if NO error
			if s, err := r.Render(usage); err == nil { // if NO error
				return s
			}
		}
	}
	return usage
}

func validArgs(_ *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveNoFileComp
}

var flags flagsType

type flagsType struct {
	Config  string
	Input   string
	Output  string
	Client  string
	Plugins []string
	Base    string
	Verbose bool

	Runner string
	DryRun bool

	Format string
	Out    string
}

func appConfig(cmd *cobra.Command) *Config {
	app, ok := contextvalue.From[*Config](cmd.Context())
	if !ok {
		panic("never")
	}
	return app
}

func logger(cmd *cobra.Command) *log.Logger {
	if !flags.Verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), cmd.Root().Name()+": ", 0)
}

// load returns the effective descriptor and the directory relative paths
// are resolved against. Precedence, lowest first: the built-in descriptor,
// the configuration file, OPENAPI_TS_* variables, flags.
func load(cmd *cobra.Command, lg *log.Logger) (config.Config, string, error) {
	app := appConfig(cmd)
	c := app.Descriptor
	base := ""

	path := flags.Config
	if path == "" && app.DefaultConfigFile != "" {
		if _, err := os.Stat(app.DefaultConfigFile); err == nil { // if NO error
			path = app.DefaultConfigFile
		}
	}
	if path != "" {
		lg.Printf("loading %s", path)
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, "", err
		}
		c = loaded
		base = filepath.Dir(path)
	}

	env, err := stacktrace.Trace2(config.FromEnv())
	if err != nil {
		return config.Config{}, "", err
	}
	if !env.Empty() {
		lg.Printf("applying %s* environment overrides", config.EnvPrefix)
		c = env.Apply(c)
	}

	c = applyFlags(cmd.Flags(), c)
	if cmd.Flags().Changed("base") {
		base = flags.Base
	}

	if err := c.Validate(); err != nil {
		return config.Config{}, "", fmt.Errorf("invalid configuration:\n%w", err)
	}
	return c, base, nil
}

// applyFlags overrides c with the descriptor flags set on the command line.
func applyFlags(fl *pflag.FlagSet, c config.Config) config.Config {
	if fl.Changed("input") {
		c = c.WithInput(flags.Input)
	}
	if fl.Changed("output") {
		c = c.WithOutput(flags.Output)
	}
	if fl.Changed("client") {
		c = c.WithClient(config.Client(flags.Client))
	}
	if fl.Changed("plugin") {
		c = c.WithPlugins(config.Plugins(flags.Plugins...)...)
	}
	return c
}

func runGenerate(cmd *cobra.Command, args []string) error {
	app := appConfig(cmd)
	lg := logger(cmd)

	c, base, err := load(cmd, lg)
	if err != nil {
		return err
	}

	generator := app.Generator
	if generator == "" {
		generator = DefaultGenerator
	}

	if flags.DryRun {
		if base != "" {
			c = c.WithInput(joinLocal(base, c.Input)).WithOutput(joinLocal(base, c.Output))
		}
		name, argv := commandLine(flags.Runner, generator, c)
		_, err := fmt.Fprintln(cmd.OutOrStdout(), shellJoin(append([]string{name}, argv...)))
		return err
	}

	r, err := config.Resolve(cmd.Context(), c, base)
	if err != nil {
		return err
	}
	warn(cmd, r)
	lg.Printf("input %s (%s): %s %s, %d paths, %d operations", r.Config.Input, r.Format, r.Title, r.Version, r.Paths, r.Operations)

	name, argv := commandLine(flags.Runner, generator, r.Config)
	if err := execpipe.CheckPath(name); err != nil {
		return fmt.Errorf("%s was not found, consider using `--runner`: %w", name, err)
	}

	run := &execpipe.Command{
		Name:     name,
		Args:     argv,
		Stdout:   cmd.OutOrStdout(),
		OnStderr: func(line string) { lg.Print(line) },
	}
	lg.Printf("running %s", run)
	if err := run.Run(cmd.Context()); err != nil {
		return err
	}
	lg.Printf("generated %s", r.Config.Output)
	return nil
}

// warn reports a document that loaded but does not validate. openapi-ts may
// still accept it.
func warn(cmd *cobra.Command, r config.Resolved) {
	if r.Warning != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", r.Config.Input, r.Warning)
	}
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration, load its input and check that its output is writable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lg := logger(cmd)
			c, base, err := load(cmd, lg)
			if err != nil {
				return err
			}
			r, err := config.Check(cmd.Context(), c, base)
			if err != nil {
				return err
			}
			warn(cmd, r)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "client:  %s\n", r.Config.Client)
			fmt.Fprintf(w, "format:  %s\n", r.Format)
			fmt.Fprintf(w, "input:   %s (%s %s, %d paths, %d operations)\n", r.Config.Input, r.Title, r.Version, r.Paths, r.Operations)
			fmt.Fprintf(w, "output:  %s\n", r.Config.Output)
			fmt.Fprintf(w, "plugins: %s\n", joinPlugins(r.Config.Plugins()))
			return nil
		},
	}
}

func newShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := load(cmd, logger(cmd))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch flags.Format {
			case "json":
				s, err := jsonify(c)
				if err != nil {
					return err
				}
				_, err = io.WriteString(w, s)
				return err
			case "yaml":
				ye := yaml.NewEncoder(w)
				ye.SetIndent(2)
				if err := ye.Encode(c); err != nil {
					return err
				}
				return ye.Close()
			default:
				return fmt.Errorf("unknown format %q, want json or yaml", flags.Format)
			}
		},
	}
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "yaml", "Output `format`: json or yaml")
	return cmd
}

func newRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the configuration as an openapi-ts.config.ts file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appConfig(cmd)
			c, _, err := load(cmd, logger(cmd))
			if err != nil {
				return err
			}
			text := app.Template
			if text == "" {
				text = DefaultTemplate
			}
			root := cmd.Root()
			b, err := Render(text, newModel(Gen{Name: root.Name(), Version: root.Version}, c))
			if err != nil {
				return err
			}
			if flags.Out == "" || flags.Out == "-" {
				_, err := cmd.OutOrStdout().Write(b)
				return err
			}
			return stacktrace.Trace(os.WriteFile(flags.Out, b, 0644))
		},
	}
	cmd.Flags().StringVar(&flags.Out, "out", "", "Output `openapi-ts.config.ts`, - for stdout")
	cmd.MarkFlagFilename("out", "ts")
	return cmd
}

func isTTY(io any) bool {
	if f, ok := io.(*os.File); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

func joinLocal(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func joinPlugins(plugins []config.Plugin) string {
	s := make([]string, len(plugins))
	for i, p := range plugins {
		s[i] = p.String()
	}
	return strings.Join(s, ", ")
}

// shellJoin quotes arguments that a POSIX shell would split or expand.
func shellJoin(args []string) string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n'\"\\$`*?[]#~&;|<>(){}!") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		out[i] = a
	}
	return strings.Join(out, " ")
}
