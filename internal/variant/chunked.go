package variant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-respin/internal/apierr"
	"github.com/alnah/go-respin/internal/article"
	"github.com/alnah/go-respin/internal/batch"
	"github.com/alnah/go-respin/internal/chunk"
	"github.com/alnah/go-respin/internal/rewrite"
)

// rewriteChunked produces one variant of a large article. The content is
// split into overlapping chunks, each chunk is rewritten in rate-limited
// batches with its own retry budget, and the rewritten parts are rejoined
// in order.
func (g *Generator) rewriteChunked(ctx context.Context, unit rewrite.Unit, idx int, st *runState) (rewrite.Outcome, error) {
	chunks := chunk.Split(unit.Content, g.cfg.ChunkSize, g.cfg.ChunkOverlap)
	st.addChunks(len(chunks))

	g.logger.Debug("variant chunked",
		zap.Int("variant", idx+1),
		zap.Int("chunks", len(chunks)),
	)

	retryCfg := apierr.RetryConfig{
		MaxRetries: g.cfg.MaxRetries,
		BaseDelay:  g.cfg.BaseDelay,
		MaxDelay:   g.cfg.ChunkMaxDelay,
		Jitter:     g.cfg.RateLimitJitter,
	}

	outs, err := batch.Run(ctx, chunks, g.cfg.MaxParallelChunks, g.cfg.ChunkPause,
		func(ctx context.Context, _ int, c chunk.Chunk) (rewrite.Outcome, error) {
			sub := rewrite.Unit{
				Content: c.Text,
				// The part label keeps the model oriented inside the whole;
				// sub-units carry no description of their own.
				Title:       fmt.Sprintf("Part %d of %d", c.Index+1, len(chunks)),
				Instruction: unit.Instruction,
				Params:      unit.Params,
			}

			out, err := apierr.RetryWithBackoff(ctx, retryCfg, func() (rewrite.Outcome, error) {
				return g.rewriter.Rewrite(ctx, sub)
			}, apierr.IsRetryable)
			if err != nil {
				return rewrite.Outcome{}, &ChunkError{Index: c.Index, Total: len(chunks), Err: err}
			}

			st.chunkDone(out.Cost, idx, c.Index, len(chunks))
			return out, nil
		})
	if err != nil {
		return rewrite.Outcome{}, err
	}

	// Rejoin in order. The overlap regions stay as the model rewrote them;
	// rewritten text does not line up well enough to deduplicate.
	parts := make([]string, len(outs))
	var cost float64
	for i, out := range outs {
		parts[i] = out.Content
		cost += out.Cost
	}
	content := strings.Join(parts, "\n")

	title := unit.Title
	if title == "" {
		title = article.Title(outs[0].Content, article.AutoFormat)
	}
	description := unit.Description
	if description == "" {
		description = article.Description(outs[0].Content, article.AutoFormat)
	}

	return rewrite.Finalize(content, title, description, cost), nil
}
