package internal

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

var (
	DefaultAppName    = "vnsh"
	DefaultConfigPath = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultConfigName = "config"
	DefaultEnvPrefix  = "VNSH"

	// Namespace defaults
	DefaultRootName        = "root"
	DefaultSeparator       = `\`
	DefaultParentRef       = ".."
	DefaultMaxNameLength   = 100
	DefaultDuplicatePolicy = "advisory"

	// Logging defaults
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "console"
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}

// GetLogger returns a timestamped zerolog logger writing JSON to w, for use
// before the configured logger exists
func GetLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// NewLogger builds a logger writing to w at the given level. Format "json" emits
// raw JSON lines; anything else uses the human readable console writer.
func NewLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), err
	}

	out := w
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
