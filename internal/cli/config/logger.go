package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobeaver/uploadrules/internal/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Logger holds the configuration for logging
type Logger struct {
	level      string
	format     string
	output     string
	quiet      bool
	stacktrace bool
}

// Flags returns CLI flags for logger configuration
func (x *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Category:    "logging",
			Aliases:     []string{"l"},
			Sources:     cli.EnvVars("UPLOADRULES_LOG_LEVEL"),
			Usage:       "Set log level [debug|info|warn|error]",
			Value:       "warn",
			Destination: &x.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Category:    "logging",
			Sources:     cli.EnvVars("UPLOADRULES_LOG_FORMAT"),
			Usage:       "Set log format [console|json]",
			Value:       "console",
			Destination: &x.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Category:    "logging",
			Sources:     cli.EnvVars("UPLOADRULES_LOG_OUTPUT"),
			Usage:       "Set log output (create file other than '-', 'stdout', 'stderr')",
			Value:       "stderr",
			Destination: &x.output,
		},
		&cli.BoolFlag{
			Name:        "log-quiet",
			Category:    "logging",
			Aliases:     []string{"q"},
			Usage:       "Quiet mode (no log output)",
			Sources:     cli.EnvVars("UPLOADRULES_LOG_QUIET"),
			Destination: &x.quiet,
		},
		&cli.BoolFlag{
			Name:        "log-stacktrace",
			Category:    "logging",
			Usage:       "Show stacktrace (only for console format)",
			Sources:     cli.EnvVars("UPLOADRULES_LOG_STACKTRACE"),
			Destination: &x.stacktrace,
		},
	}
}

// LogValue returns the logger configuration as a slog.Value for logging
func (x Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", x.level),
		slog.String("format", x.format),
		slog.String("output", x.output),
		slog.Bool("quiet", x.quiet),
		slog.Bool("stacktrace", x.stacktrace),
	)
}

// Configure builds the logger and installs it as the default. The returned
// closer releases a log file opened for --log-output.
func (x *Logger) Configure() (*slog.Logger, func(), error) {
	if x.quiet {
		logger := logging.Quiet()
		logging.SetDefault(logger)
		return logger, func() {}, nil
	}

	level, err := x.parseLevel()
	if err != nil {
		return nil, nil, err
	}

	format, err := x.parseFormat()
	if err != nil {
		return nil, nil, err
	}

	output, closer, err := x.openOutput()
	if err != nil {
		return nil, nil, err
	}

	logger := logging.New(output, level, format, x.stacktrace)
	logging.SetDefault(logger)
	return logger, closer, nil
}

func (x *Logger) parseLevel() (slog.Level, error) {
	levelMap := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}

	level, ok := levelMap[strings.ToLower(x.level)]
	if !ok {
		return slog.LevelInfo, goerr.New("invalid log level",
			goerr.V("level", x.level),
			goerr.V("valid_levels", []string{"debug", "info", "warn", "error"}),
		)
	}

	return level, nil
}

func (x *Logger) parseFormat() (logging.Format, error) {
	formatMap := map[string]logging.Format{
		"console": logging.FormatConsole,
		"json":    logging.FormatJSON,
	}

	format, ok := formatMap[strings.ToLower(x.format)]
	if !ok {
		return logging.FormatConsole, goerr.New("invalid log format",
			goerr.V("format", x.format),
			goerr.V("valid_formats", []string{"console", "json"}),
		)
	}

	return format, nil
}

func (x *Logger) openOutput() (io.Writer, func(), error) {
	switch strings.ToLower(x.output) {
	case "stdout", "-":
		return os.Stdout, func() {}, nil

	case "stderr", "":
		return os.Stderr, func() {}, nil

	default:
		f, err := os.OpenFile(filepath.Clean(x.output), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return nil, func() {}, goerr.Wrap(err, "failed to open log file",
				goerr.V("path", x.output),
			)
		}
		return f, func() { _ = f.Close() }, nil
	}
}
