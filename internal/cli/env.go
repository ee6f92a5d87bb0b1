package cli

import (
	"context"
	"io"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-respin/internal/config"
	"github.com/alnah/go-respin/internal/rewrite"
	"github.com/alnah/go-respin/internal/variant"
)

// Environment variables read by CLI commands.
const (
	// EnvOpenAIAPIKey holds the OpenAI API key.
	EnvOpenAIAPIKey = "OPENAI_API_KEY"

	// EnvAPIBase optionally overrides the OpenAI API base URL, for proxies
	// and compatible endpoints.
	EnvAPIBase = "RESPIN_API_BASE"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ConfigLoader     ConfigLoader
	GeneratorFactory GeneratorFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// VariantGenerator produces rewrite variants of an article.
type VariantGenerator interface {
	Generate(ctx context.Context, req variant.Request) ([]rewrite.Outcome, error)
}

// GeneratorFactory creates variant generators backed by a rewrite provider.
type GeneratorFactory interface {
	// NewGenerator creates a generator configured with the given API key,
	// optional base URL override, and generator options.
	NewGenerator(apiKey, baseURL string, opts ...variant.Option) VariantGenerator
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithGeneratorFactory sets the generator factory.
func WithGeneratorFactory(f GeneratorFactory) EnvOption {
	return func(e *Env) {
		e.GeneratorFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stderr:           os.Stderr,
		Getenv:           os.Getenv,
		Now:              time.Now,
		ConfigLoader:     &defaultConfigLoader{},
		GeneratorFactory: &defaultGeneratorFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultGeneratorFactory implements GeneratorFactory using OpenAI.
type defaultGeneratorFactory struct{}

func (defaultGeneratorFactory) NewGenerator(apiKey, baseURL string, opts ...variant.Option) VariantGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(cfg)
	return variant.NewGenerator(rewrite.NewOpenAIRewriter(client), opts...)
}

// Compile-time interface verification.
var (
	_ ConfigLoader     = (*defaultConfigLoader)(nil)
	_ GeneratorFactory = (*defaultGeneratorFactory)(nil)
)
