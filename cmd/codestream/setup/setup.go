// Package setup resolves the configuration, credentials, logger and output
// writer shared by the codestream commands.
package setup

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/codestream/pkg/config"
	"github.com/papercomputeco/codestream/pkg/logger"
)

// Env is the per-invocation environment resolved from global flags and
// config.toml.
type Env struct {
	ConfigDir string
	Viper     *viper.Viper
	Logger    *slog.Logger

	logFile *os.File
}

// Load reads the global --config-dir, --debug and --log-file flags,
// initializes viper and builds the diagnostic logger on stderr. With
// --log-file, debug records are also appended to that file as JSON.
func Load(cmd *cobra.Command) (*Env, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	debug, _ := cmd.Flags().GetBool("debug")
	logPath, _ := cmd.Flags().GetString("log-file")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level, err := logger.ParseLevel(v.GetString("log.level"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	opts := []logger.Option{
		logger.WithWriter(cmd.ErrOrStderr()),
		logger.WithLevel(level),
		logger.WithPretty(true),
		logger.WithPrefix("codestream"),
	}
	if debug {
		opts = append(opts, logger.WithDebug(true), logger.WithSource(true))
	}

	env := &Env{
		ConfigDir: configDir,
		Viper:     v,
	}

	var fileLogger *slog.Logger
	if logPath != "" {
		env.logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		fileLogger = logger.New(
			logger.WithWriter(env.logFile),
			logger.WithJSON(true),
			logger.WithDebug(true),
			logger.WithSource(true),
		)
	}
	env.Logger = logger.Multi(logger.New(opts...), fileLogger)

	return env, nil
}

// Close releases the log file, if any.
func (e *Env) Close() error {
	if e.logFile == nil {
		return nil
	}
	return e.logFile.Close()
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminalFd(f.Fd())
}
