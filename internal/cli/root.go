// Package cli implements htmlfix commands using Cobra.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dsh2dsh/htmlfix"
	"github.com/dsh2dsh/htmlfix/internal/config"
	"github.com/dsh2dsh/htmlfix/internal/logger"
)

// Execute runs htmlfix command with given arguments.
func Execute(ctx context.Context, args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

type app struct {
	envFiles      []string
	logLevel      string
	logFormat     string
	policyFile    string
	keepValidURLs bool

	cfg    config.Config
	logger *slog.Logger
}

// NewRootCmd returns htmlfix command with all of its subcommands.
func NewRootCmd() *cobra.Command {
	a := new(app)

	cmd := &cobra.Command{
		Use:   "htmlfix",
		Short: "Repair and sanitize malformed HTML documents",
		Long: `htmlfix turns malformed, untrusted HTML into well formed and safe documents,
which can be embedded into emails.

Every document gets single <html> and <body> elements, unclosed and misnested
tags are repaired, link targets are neutralized and everything outside of the
allowlist is removed.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringSliceVar(&a.envFiles, "env-file", nil,
		"read environment from these files (default .env, if exists)")
	flags.StringVar(&a.logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format (text, json)")
	flags.StringVar(&a.policyFile, "policy-file", "",
		"YAML file, which extends the default allowlist")
	flags.BoolVar(&a.keepValidURLs, "keep-valid-urls", false,
		"keep link targets, which are valid absolute URLs")

	cmd.AddCommand(a.fixCmd(), a.mailCmd(), a.policyCmd())
	return cmd
}

func (self *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(self.envFiles...)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = self.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = self.logFormat
	}
	if flags.Changed("policy-file") {
		cfg.PolicyFile = self.policyFile
	}
	if flags.Changed("keep-valid-urls") {
		cfg.KeepValidURLs = self.keepValidURLs
	}

	log, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	self.cfg = cfg
	self.logger = log.With(logger.Component(cmd.Name()))
	return nil
}

func (self *app) fixer() (*htmlfix.Fixer, error) {
	opts, err := self.cfg.FixerOptions(self.logger)
	if err != nil {
		return nil, err
	}
	return htmlfix.New(opts...), nil
}

// readInput reads document from file named by the first argument, or from
// stdin, if there are no arguments or it's "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

func inputName(args []string) string {
	if len(args) == 0 || args[0] == "-" {
		return "stdin"
	}
	return args[0]
}
