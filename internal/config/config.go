// Package config loads htmlfix settings from the environment, optional .env
// files and an optional YAML policy file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dsh2dsh/htmlfix"
	"github.com/dsh2dsh/htmlfix/internal/logger"
)

// DefaultEnvFile is read by Load, when no env files given, if it exists.
const DefaultEnvFile = ".env"

// Config holds settings of htmlfix commands. Postmark tokens are optional and
// needed only for sending messages.
type Config struct {
	LogLevel  string `env:"HTMLFIX_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"HTMLFIX_LOG_FORMAT" envDefault:"text"`

	KeepValidURLs bool   `env:"HTMLFIX_KEEP_VALID_URLS"`
	PolicyFile    string `env:"HTMLFIX_POLICY_FILE"`
	OutputDir     string `env:"HTMLFIX_OUTPUT_DIR" envDefault:"."`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
}

// Load parses the environment into Config. Variables from env files are used
// only if they aren't set in the environment already. Without env files
// DefaultEnvFile is read, if it exists. The process environment itself is
// never changed.
func Load(envFiles ...string) (Config, error) {
	fileVars, err := readEnvFiles(envFiles)
	if err != nil {
		return Config{}, err
	}

	vars := fileVars
	maps.Copy(vars, env.ToMap(os.Environ()))

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	if len(files) == 0 {
		vars, err := godotenv.Read(DefaultEnvFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return map[string]string{}, nil
		case err != nil:
			return nil, fmt.Errorf("%w %q: %w", ErrEnvFile, DefaultEnvFile, err)
		}
		return vars, nil
	}

	vars := map[string]string{}
	// Earlier files win, like godotenv.Load does.
	for i := len(files) - 1; i >= 0; i-- {
		fileVars, err := godotenv.Read(files[i])
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrEnvFile, files[i], err)
		}
		maps.Copy(vars, fileVars)
	}
	return vars, nil
}

// Logger returns a logger writing records to w with configured level and
// format.
func (self *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := logger.ParseLevel(self.LogLevel)
	if err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}

	format, err := logger.ParseFormat(self.LogFormat)
	if err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}

	return logger.New(logger.WithLevel(level), logger.WithFormat(format),
		logger.WithOutput(w)), nil
}

// FixerOptions returns options of htmlfix.Fixer according to the config and
// its policy file, if configured.
func (self *Config) FixerOptions(log *slog.Logger) ([]htmlfix.Option, error) {
	opts := []htmlfix.Option{
		htmlfix.WithLogger(log),
		htmlfix.KeepValidURLs(self.KeepValidURLs),
	}
	if self.PolicyFile == "" {
		return opts, nil
	}

	pf, err := LoadPolicyFile(self.PolicyFile)
	if err != nil {
		return nil, err
	}
	return append(opts, pf.Options()...), nil
}
