// Package variant orchestrates the concurrent generation of rewritten
// article variants.
//
// Each variant is an independent rewrite of the same source content. All
// variants run concurrently; when the content is large, each variant
// internally splits it into chunks and rewrites those in rate-limited
// batches. Transient failures cost only their own variant, fatal API
// failures abort the whole run.
package variant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-respin/internal/apierr"
	"github.com/alnah/go-respin/internal/chunk"
	"github.com/alnah/go-respin/internal/rewrite"
)

// Default orchestration configuration.
const (
	// DefaultLargeThreshold is the content size in bytes beyond which a
	// variant is rewritten chunk by chunk.
	DefaultLargeThreshold = 12000

	// DefaultMaxParallelChunks bounds concurrent chunk requests per variant.
	DefaultMaxParallelChunks = 5

	// DefaultChunkPause is the pause between chunk batches, spreading
	// request bursts below the rate limit.
	DefaultChunkPause = 200 * time.Millisecond

	defaultMaxRetries      = 5
	defaultBaseDelay       = 1 * time.Second
	defaultVariantMaxDelay = 20 * time.Second
	defaultChunkMaxDelay   = 30 * time.Second
	defaultRateLimitJitter = 1 * time.Second
)

// Config tunes variant orchestration.
//
// Zero values fall back to defaults, except where zero has a meaning of its
// own: MaxRetries 0 disables retries, ChunkPause 0 disables pausing,
// RateLimitJitter 0 disables jitter, and ChunkOverlap 0 means none.
type Config struct {
	// LargeThreshold is the content size in bytes beyond which the chunked
	// strategy is used.
	LargeThreshold int

	// ChunkSize and ChunkOverlap are handed to the chunker.
	ChunkSize    int
	ChunkOverlap int

	// MaxParallelChunks bounds concurrent chunk requests within one variant.
	MaxParallelChunks int

	// ChunkPause is the wait between chunk batches.
	ChunkPause time.Duration

	// MaxRetries bounds retry attempts per variant or per chunk.
	MaxRetries int

	// BaseDelay seeds the exponential backoff.
	BaseDelay time.Duration

	// VariantMaxDelay and ChunkMaxDelay cap the backoff for whole-variant
	// and per-chunk retries respectively.
	VariantMaxDelay time.Duration
	ChunkMaxDelay   time.Duration

	// RateLimitJitter is the upper bound of the random extra wait added
	// when retrying rate-limited calls.
	RateLimitJitter time.Duration
}

// normalize fills invalid fields with defaults, keeping the documented
// zero-value meanings.
func (c *Config) normalize() {
	if c.LargeThreshold <= 0 {
		c.LargeThreshold = DefaultLargeThreshold
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = chunk.DefaultTargetSize
	}
	if c.ChunkOverlap < 0 {
		c.ChunkOverlap = 0
	}
	if c.MaxParallelChunks < 1 {
		c.MaxParallelChunks = DefaultMaxParallelChunks
	}
	if c.ChunkPause < 0 {
		c.ChunkPause = 0
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = defaultBaseDelay
	}
	if c.VariantMaxDelay <= 0 {
		c.VariantMaxDelay = defaultVariantMaxDelay
	}
	if c.ChunkMaxDelay <= 0 {
		c.ChunkMaxDelay = defaultChunkMaxDelay
	}
	if c.RateLimitJitter < 0 {
		c.RateLimitJitter = 0
	}
}

// DefaultConfig returns the orchestration defaults.
func DefaultConfig() Config {
	return Config{
		LargeThreshold:    DefaultLargeThreshold,
		ChunkSize:         chunk.DefaultTargetSize,
		ChunkOverlap:      chunk.DefaultOverlap,
		MaxParallelChunks: DefaultMaxParallelChunks,
		ChunkPause:        DefaultChunkPause,
		MaxRetries:        defaultMaxRetries,
		BaseDelay:         defaultBaseDelay,
		VariantMaxDelay:   defaultVariantMaxDelay,
		ChunkMaxDelay:     defaultChunkMaxDelay,
		RateLimitJitter:   defaultRateLimitJitter,
	}
}

// Request describes one generation run.
type Request struct {
	// Content is the source article text, in any supported markup.
	Content string

	// Title and Description are optional source metadata.
	Title       string
	Description string

	// Instruction is the resolved system prompt all variants share.
	Instruction string

	// Count is how many variants to produce, in [MinVariants, MaxVariants].
	Count int

	// Params are the sampling parameters shared by all variants.
	Params rewrite.Params

	// OnProgress receives progress snapshots. Optional.
	OnProgress ProgressFunc
}

// Generator orchestrates concurrent variant generation on top of a Rewriter.
type Generator struct {
	rewriter rewrite.Rewriter
	cfg      Config
	logger   *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithConfig replaces the orchestration configuration. Invalid fields are
// normalized; see Config for the zero-value meanings.
func WithConfig(cfg Config) Option {
	return func(g *Generator) {
		cfg.normalize()
		g.cfg = cfg
	}
}

// WithLogger sets the structured logger. Nil is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a Generator with the default configuration and a
// no-op logger.
func NewGenerator(r rewrite.Rewriter, opts ...Option) *Generator {
	g := &Generator{
		rewriter: r,
		cfg:      DefaultConfig(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces req.Count rewritten variants concurrently.
//
// A fatal error (bad credentials, unknown model, exhausted quota, rejected
// request) aborts every variant and is returned. Transient failures only
// lose their own variant: as long as one variant succeeds, Generate returns
// the survivors and no error. When the context is cancelled, completed
// variants are returned alongside the context error.
func (g *Generator) Generate(ctx context.Context, req Request) ([]rewrite.Outcome, error) {
	// === VALIDATION (fail-fast) ===

	// 1. Content must not be empty
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrNoContent
	}

	// 2. Count must be in range
	if err := ValidateCount(req.Count); err != nil {
		return nil, err
	}

	// 3. Temperature must be in range
	if err := ValidateTemperature(req.Params.Temperature); err != nil {
		return nil, err
	}

	// 4. Instruction must not be empty
	if strings.TrimSpace(req.Instruction) == "" {
		return nil, ErrNoInstruction
	}

	st := newRunState(req.Count, req.OnProgress)
	st.emit(PhasePreparing, fmt.Sprintf("preparing %d variants", req.Count))

	// The strategy is chosen once per run, so every variant chunks the
	// same way.
	chunked := len(req.Content) > g.cfg.LargeThreshold

	g.logger.Debug("generation started",
		zap.Int("variants", req.Count),
		zap.Int("content_bytes", len(req.Content)),
		zap.Bool("chunked", chunked),
	)

	results := make([]*rewrite.Outcome, req.Count)
	group, gctx := errgroup.WithContext(ctx)

	for i := 0; i < req.Count; i++ {
		group.Go(func() error {
			if gctx.Err() != nil {
				return nil // A sibling already failed fatally.
			}

			out, err := g.generateVariant(gctx, req, i, chunked, st)
			if err != nil {
				st.fail(err)
				if apierr.IsFatal(err) {
					g.logger.Error("variant failed fatally",
						zap.Int("variant", i+1), zap.Error(err))
					return err // Cancels gctx for the siblings.
				}
				g.logger.Warn("variant failed",
					zap.Int("variant", i+1), zap.Error(err))
				return nil
			}

			results[i] = &out
			if chunked {
				// Chunked variants already accumulated cost chunk by chunk.
				st.variantDone(0, i)
			} else {
				st.variantDone(out.Cost, i)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		// Fatal abort: the run is broken, not finished, so no done event.
		return nil, err
	}

	outcomes := make([]rewrite.Outcome, 0, req.Count)
	for _, r := range results {
		if r != nil {
			outcomes = append(outcomes, *r)
		}
	}

	if err := ctx.Err(); err != nil {
		st.emit(PhaseDone, "generation cancelled")
		return outcomes, err
	}

	st.emit(PhaseProcessing, "assembling results")

	if len(outcomes) == 0 {
		err := st.firstError()
		if err == nil {
			err = ErrNoVariants
		}
		st.emit(PhaseDone, "no variants succeeded")
		return nil, err
	}

	st.emit(PhaseDone, fmt.Sprintf("generated %d of %d variants", len(outcomes), req.Count))
	g.logger.Info("generation finished",
		zap.Int("succeeded", len(outcomes)),
		zap.Int("requested", req.Count),
		zap.Float64("cost_usd", st.totalCost()),
	)
	return outcomes, nil
}

// generateVariant produces one variant, retrying transient failures with
// exponential backoff. Large content is delegated to the chunked path,
// which retries per chunk instead.
func (g *Generator) generateVariant(ctx context.Context, req Request, idx int, chunked bool, st *runState) (rewrite.Outcome, error) {
	unit := rewrite.Unit{
		Content:     req.Content,
		Title:       req.Title,
		Description: req.Description,
		Instruction: req.Instruction,
		Params:      req.Params,
	}

	if chunked {
		return g.rewriteChunked(ctx, unit, idx, st)
	}

	cfg := apierr.RetryConfig{
		MaxRetries: g.cfg.MaxRetries,
		BaseDelay:  g.cfg.BaseDelay,
		MaxDelay:   g.cfg.VariantMaxDelay,
		Jitter:     g.cfg.RateLimitJitter,
	}
	return apierr.RetryWithBackoff(ctx, cfg, func() (rewrite.Outcome, error) {
		return g.rewriter.Rewrite(ctx, unit)
	}, apierr.IsRetryable)
}
