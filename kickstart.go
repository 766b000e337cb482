package kickstarter

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/elmarx/slog-kickstarter/bridge"
	"github.com/elmarx/slog-kickstarter/core"
	"github.com/elmarx/slog-kickstarter/formatter"
	"github.com/elmarx/slog-kickstarter/handler"
	"github.com/elmarx/slog-kickstarter/logger"
)

const (
	// EnvDirective is the environment variable holding the runtime
	// level directive, e.g. "debug" or "info,github.com/acme/svc/db=trace".
	EnvDirective = "GO_LOG"
	// EnvJSON selects structured JSON output when set to "1" or
	// "true", e.g. via `ENV GO_LOG_JSON=1` in a Dockerfile.
	EnvJSON = "GO_LOG_JSON"
)

// Format selects the output encoding of the base drain
type Format int

const (
	// FormatFromEnv decides via the GO_LOG_JSON environment variable (default)
	FormatFromEnv Format = iota
	// FormatJSON forces structured JSON records
	FormatJSON
	// FormatTerm forces human-readable terminal lines
	FormatTerm
)

type moduleLevel struct {
	module string
	level  core.Level
}

// Config is an immutable description of the logging pipeline. Every
// With method returns an updated copy; nothing is constructed and no
// side effect happens until Build. The zero value is not usable,
// start from New.
type Config struct {
	serviceName  string
	defaultLevel core.Level
	moduleLevels []moduleLevel
	format       Format
	stdlogBridge bool
	queueSize    int
	out          io.Writer
}

// New initializes a Config with a name for your service. Defaults:
// Info level, format from the environment, stdlog bridge enabled,
// output to stdout.
func New(serviceName string) Config {
	return Config{
		serviceName:  serviceName,
		defaultLevel: core.InfoLevel,
		format:       FormatFromEnv,
		stdlogBridge: true,
	}
}

// WithDefaultLevel sets the default minimum level for all modules
// without an override.
func (c Config) WithDefaultLevel(level core.Level) Config {
	c.defaultLevel = level
	return c
}

// WithModuleLevel sets the minimum level for a single module,
// matched exactly against the emitting package's import path. Adding
// the same module again replaces its level; insertion order is
// preserved. May be called multiple times for multiple modules.
func (c Config) WithModuleLevel(module string, level core.Level) Config {
	// Copy-on-write keeps earlier Config values independent
	levels := make([]moduleLevel, len(c.moduleLevels), len(c.moduleLevels)+1)
	copy(levels, c.moduleLevels)
	c.moduleLevels = levels

	for i := range c.moduleLevels {
		if c.moduleLevels[i].module == module {
			c.moduleLevels[i].level = level
			return c
		}
	}
	c.moduleLevels = append(c.moduleLevels, moduleLevel{module: module, level: level})
	return c
}

// WithDebugLogFor enables debug logging for the given module,
// typically one of your own packages.
func (c Config) WithDebugLogFor(module string) Config {
	return c.WithModuleLevel(module, core.DebugLevel)
}

// WithFormat forces an output format, overriding GO_LOG_JSON.
func (c Config) WithFormat(format Format) Config {
	c.format = format
	return c
}

// WithJSONLogging enforces JSON output.
//
// This should typically be set via GO_LOG_JSON=1 instead.
func (c Config) WithJSONLogging() Config {
	return c.WithFormat(FormatJSON)
}

// WithoutJSONLogging enforces terminal output regardless of GO_LOG_JSON.
func (c Config) WithoutJSONLogging() Config {
	return c.WithFormat(FormatTerm)
}

// WithoutStdlogBridge disables forwarding of the standard library's
// log package into the pipeline.
func (c Config) WithoutStdlogBridge() Config {
	c.stdlogBridge = false
	return c
}

// WithQueueSize overrides the async boundary's queue capacity
// (default 1000).
func (c Config) WithQueueSize(n int) Config {
	c.queueSize = n
	return c
}

// WithOutput redirects the pipeline to the given writer instead of
// stdout. Mainly useful in tests.
func (c Config) WithOutput(w io.Writer) Config {
	c.out = w
	return c
}

// Build assembles the pipeline described by the Config: base encoder
// drain, per-module level filter, async boundary, and a root Logger
// carrying the static context fields plus the per-record module
// origin. This is the only place streams are claimed and the
// consumer goroutine is spawned.
//
// The returned guard is non-nil when the stdlog bridge is installed;
// hold it for as long as forwarding is required. A malformed GO_LOG
// directive or an already-installed bridge fails the build, nothing
// is left running.
func (c Config) Build() (*logger.Logger, *bridge.Guard, error) {
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	resolver := handler.NewResolver(c.defaultLevel)
	for _, ml := range c.moduleLevels {
		resolver.SetModule(ml.module, ml.level)
	}
	if directive := os.Getenv(EnvDirective); directive != "" {
		if err := resolver.ParseDirective(directive); err != nil {
			return nil, nil, fmt.Errorf("kickstarter: %s: %w", EnvDirective, err)
		}
	}

	var enc formatter.Formatter
	switch c.resolveFormat() {
	case FormatJSON:
		enc = formatter.NewJSONFormatter(formatter.Config{})
	default:
		enc = formatter.NewTermFormatter(formatter.Config{
			Color: formatter.SupportsColor(out),
		})
	}

	console := handler.NewConsoleHandler(handler.ConsoleConfig{
		Writer:    out,
		Formatter: enc,
	})
	filtered := handler.NewLevelFilter(console, resolver)
	async := handler.NewAsyncHandler(handler.AsyncConfig{
		Next:      filtered,
		QueueSize: c.queueSize,
	})

	core.StartCoarseClock()
	log := logger.NewBuilder().
		WithHandler(async).
		WithMinLevel(resolver.MinLevel()).
		WithModuleOrigin(true).
		WithTimeFunc(core.CoarseNow).
		WithFields(
			logger.String("version", buildVersion()),
			logger.String("service", c.serviceName),
			logger.String("log_type", "application"),
			logger.String("application_type", "service"),
		).
		Build()

	var guard *bridge.Guard
	if c.stdlogBridge {
		g, err := bridge.Install(async)
		if err != nil {
			async.Close()
			return nil, nil, err
		}
		guard = g
	}

	return log, guard, nil
}

// resolveFormat applies the GO_LOG_JSON environment variable unless
// a format was forced on the Config.
func (c Config) resolveFormat() Format {
	if c.format != FormatFromEnv {
		return c.format
	}
	switch os.Getenv(EnvJSON) {
	case "1", "true":
		return FormatJSON
	}
	return FormatTerm
}

// buildVersion reports the main module's version as recorded by the
// Go toolchain.
func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
