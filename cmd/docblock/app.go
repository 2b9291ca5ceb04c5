// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/z5labs/annotations"
	"github.com/z5labs/annotations/config"
	"github.com/z5labs/annotations/internal/otelslog"
	"github.com/z5labs/annotations/internal/try"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Lifecycle provides the ability to hook into the end of App.Run.
type Lifecycle struct {
	postRunHooks []func(context.Context) error
}

// PostRun registers hooks to be called after the command has completed,
// regardless whether it returned an error or not.
func (l *Lifecycle) PostRun(hooks ...func(context.Context) error) {
	l.postRunHooks = append(l.postRunHooks, hooks...)
}

// Option are used to configure an App.
type Option func(*App)

// Name configures the name of the application.
func Name(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

// WithFS makes the App resolve file arguments within fsys instead
// of the host file system.
func WithFS(fsys fs.FS) Option {
	return func(a *App) {
		a.fsys = fsys
	}
}

// WithIO replaces the standard streams used by the App.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(a *App) {
		a.stdin = stdin
		a.stdout = stdout
		a.stderr = stderr
	}
}

// App wires config, logging and tracing around the docblock commands.
type App struct {
	name   string
	fsys   fs.FS
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	life   Lifecycle

	cfg    Config
	log    *slog.Logger
	tracer trace.Tracer
	parser *annotations.Parser
}

// New returns a fully initialized App.
func New(opts ...Option) *App {
	app := &App{
		name:   "docblock",
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run executes the command line given by args. It also handles listening
// for interrupts from the underlying OS and cancels the running command
// when one is received.
func (app *App) Run(args ...string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cmd := buildCmd(app)
	cmd.SetArgs(args)
	cmd.SetIn(app.stdin)
	cmd.SetOut(app.stdout)
	cmd.SetErr(app.stderr)

	err := cmd.ExecuteContext(ctx)

	errs := []error{err}
	for _, f := range app.life.postRunHooks {
		errs = append(errs, f(context.WithoutCancel(ctx)))
	}
	return errors.Join(errs...)
}

// ConfigReadError occurs when the config sources can't be read.
type ConfigReadError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ConfigReadError) Error() string {
	return fmt.Sprintf("failed to read config source(s): %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConfigReadError) Unwrap() error {
	return e.Cause
}

// ConfigUnmarshalError occurs when the merged config doesn't fit [Config].
type ConfigUnmarshalError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ConfigUnmarshalError) Error() string {
	return fmt.Sprintf("failed to unmarshal config: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConfigUnmarshalError) Unwrap() error {
	return e.Cause
}

// UnknownFormatError occurs when the configured output format has no renderer.
type UnknownFormatError struct {
	Format string
}

// Error implements the [builtin.error] interface.
func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown output format: %s", e.Format)
}

func buildCmd(app *App) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           app.name,
		Short:         "Extract annotations from docblocks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			m, err := config.Read(app.configSources(cmd, cfgFile)...)
			if err != nil {
				return ConfigReadError{Cause: err}
			}
			err = m.Unmarshal(&app.cfg)
			if err != nil {
				return ConfigUnmarshalError{Cause: err}
			}
			if _, ok := renderers[app.cfg.Format]; !ok {
				return UnknownFormatError{Format: app.cfg.Format}
			}

			app.log = otelslog.New(slog.NewJSONHandler(app.stderr, &slog.HandlerOptions{
				Level: app.cfg.Log.Level,
			}))

			tp, err := app.initTracing()
			if err != nil {
				return err
			}
			app.tracer = tp.Tracer("github.com/z5labs/annotations/cmd/docblock")

			// inspected symbols often share a docblock
			app.parser = annotations.NewParser(
				annotations.WithLogger(app.log),
				annotations.WithCache(annotations.NewMemoryCache()),
			)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Path to a yaml or json config file")
	flags.StringP("format", "o", "json", "Output format: json, yaml, table or msgpack")
	flags.String("log-level", "warn", "Minimum level of the logs written to stderr")
	flags.Bool("trace", false, "Write trace spans to stderr")

	root.AddCommand(
		parseCmd(app),
		inspectCmd(app),
	)
	return root
}

func (app *App) initTracing() (trace.TracerProvider, error) {
	if !app.cfg.Trace.Enabled {
		return noop.NewTracerProvider(), nil
	}

	tp, err := newTracerProvider(app.stderr, app.cfg.Trace.ServiceName)
	if err != nil {
		return nil, err
	}
	app.life.PostRun(tryShutdown(tp))
	return tp, nil
}

// open returns a reader for a file argument. Without a configured fs.FS,
// paths are resolved against the host file system.
func (app *App) open(name string) *config.FileReader {
	if app.fsys != nil {
		return config.NewFileReader(app.fsys, name)
	}
	fsys, rel := hostFS(name)
	return config.NewFileReader(fsys, rel)
}

// hostFS maps a host path onto an fs.FS rooted at the file system root
// since fs.FS paths can't be absolute.
func hostFS(name string) (fs.FS, string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return os.DirFS("."), filepath.ToSlash(name)
	}
	vol := filepath.VolumeName(abs)
	rel := strings.TrimPrefix(filepath.ToSlash(abs[len(vol):]), "/")
	return os.DirFS(vol + "/"), rel
}
