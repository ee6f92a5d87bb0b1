package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/go-respin/internal/apierr"
	"github.com/alnah/go-respin/internal/article"
	"github.com/alnah/go-respin/internal/cli"
	"github.com/alnah/go-respin/internal/config"
	"github.com/alnah/go-respin/internal/interrupt"
	"github.com/alnah/go-respin/internal/prompt"
	"github.com/alnah/go-respin/internal/rewrite"
	"github.com/alnah/go-respin/internal/variant"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitRewrite    = 5
	ExitInterrupt  = interrupt.ExitInterrupt
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create the CLI environment with production defaults.
	env := cli.DefaultEnv()

	// Root command.
	rootCmd := &cobra.Command{
		Use:     "respin",
		Short:   "Generate rewritten variants of articles with OpenAI",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Subcommands.
	rootCmd.AddCommand(cli.RewriteCmd(env))
	rootCmd.AddCommand(cli.TemplatesCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Interrupted runs (130 = 128 + SIGINT).
	if errors.Is(err, interrupt.ErrInterrupted) || errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Usage errors (ExitUsage = 2): Cobra flag/arg parsing errors.
	// Cobra doesn't expose typed errors, so we check for known error message patterns.
	// These patterns are stable across Cobra versions (tested with v1.8+).
	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Setup errors (ExitSetup = 3).
	if errors.Is(err, cli.ErrAPIKeyMissing) {
		return ExitSetup
	}

	// Validation errors (ExitValidation = 4).
	if errors.Is(err, cli.ErrUnsupportedFormat) || errors.Is(err, cli.ErrFileNotFound) ||
		errors.Is(err, cli.ErrEmptyInput) || errors.Is(err, cli.ErrOutputExists) ||
		errors.Is(err, prompt.ErrUnknown) || errors.Is(err, article.ErrInvalidFormat) ||
		errors.Is(err, variant.ErrVariantCount) || errors.Is(err, variant.ErrTemperature) ||
		errors.Is(err, variant.ErrNoContent) || errors.Is(err, variant.ErrNoInstruction) ||
		errors.Is(err, config.ErrNotDirectory) || errors.Is(err, config.ErrNotWritable) {
		return ExitValidation
	}

	// Rewrite errors (ExitRewrite = 5).
	if errors.Is(err, apierr.ErrRateLimit) || errors.Is(err, apierr.ErrQuotaExceeded) ||
		errors.Is(err, apierr.ErrTimeout) || errors.Is(err, apierr.ErrAuthFailed) ||
		errors.Is(err, apierr.ErrModelNotFound) || errors.Is(err, apierr.ErrBadRequest) ||
		errors.Is(err, rewrite.ErrContentTooLong) || errors.Is(err, rewrite.ErrEmptyResponse) ||
		errors.Is(err, variant.ErrNoVariants) {
		return ExitRewrite
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// These patterns are stable across Cobra versions (tested with v1.8+).
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",             // Missing required flag
	"unknown flag",              // Flag doesn't exist
	"unknown shorthand",         // Short flag doesn't exist
	"flag needs an argument",    // Flag provided without value
	"invalid argument",          // Invalid flag value type
	"if any flags in the group", // Mutually exclusive flag violation
	"accepts ",                  // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",         // Too few arguments
	"requires at most",          // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
