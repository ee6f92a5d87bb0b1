// Package rewrite produces one rewritten rendition of a unit of article
// content through the OpenAI chat completion API.
//
// A unit is either a whole article or one chunk of a large one; the caller
// decides which and owns the retry policy. Rewrite performs a single attempt
// and classifies failures into apierr sentinels.
package rewrite

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-respin/internal/apierr"
	"github.com/alnah/go-respin/internal/article"
	"github.com/alnah/go-respin/internal/pricing"
)

// Default configuration values.
const (
	// DefaultModel is the chat model used when the caller picks none.
	DefaultModel = "gpt-4o-mini"

	// DefaultMaxInputTokens caps the estimated input size. The 128K-context
	// models leave headroom; 100K keeps a margin for the instruction and
	// metadata lines.
	DefaultMaxInputTokens = 100000

	// defaultMaxOutputTokens caps the completion length per call.
	defaultMaxOutputTokens = 4096

	// Token estimation fallback: English averages ~4 chars/token.
	fallbackCharsPerToken = 4

	// encodingName is the tokenizer vocabulary shared by the gpt-4o and
	// gpt-4 model families.
	encodingName = "cl100k_base"
)

// Params are the sampling parameters for one rewrite call.
type Params struct {
	// Model overrides the rewriter's default chat model when non-empty.
	Model string

	// Temperature controls sampling randomness, range [0, 2]. Higher values
	// differentiate variants more.
	Temperature float32

	// TopP is the nucleus sampling cutoff.
	TopP float32

	// FrequencyPenalty discourages repeating source phrasing verbatim.
	FrequencyPenalty float32

	// PresencePenalty nudges the model toward new wording.
	PresencePenalty float32

	// MaxOutputTokens caps the completion length. Zero uses the default.
	MaxOutputTokens int
}

// DefaultParams returns the sampling parameters tuned for variant
// generation: temperature high enough that variants differ, with mild
// penalties against echoing the source.
func DefaultParams() Params {
	return Params{
		Model:            DefaultModel,
		Temperature:      0.8,
		TopP:             0.95,
		FrequencyPenalty: 0.4,
		PresencePenalty:  0.3,
		MaxOutputTokens:  defaultMaxOutputTokens,
	}
}

// Unit is one piece of content to rewrite: a whole article or one chunk of
// a large one.
type Unit struct {
	// Content is the text to rewrite, in its original markup.
	Content string

	// Title and Description are optional source metadata, included in the
	// user message so the model keeps them consistent with the body.
	Title       string
	Description string

	// Instruction is the resolved system prompt.
	Instruction string

	// Params are the sampling parameters for this call.
	Params Params
}

// Outcome is one finished rewrite with normalized metadata and its cost.
type Outcome struct {
	// Content is the rewritten text, clamped to MaxContentLen runes.
	Content string

	// Title is fitted into [MinTitleLen, MaxTitleLen] runes.
	Title string

	// Description is truncated to MaxDescriptionLen runes, never padded.
	Description string

	// Cost is the dollar cost of the API usage behind this outcome.
	Cost float64
}

// Rewriter produces one rewritten rendition of a unit.
type Rewriter interface {
	// Rewrite sends the unit to the model and returns the normalized result.
	// Errors are classified into apierr sentinels; the caller owns retries.
	Rewrite(ctx context.Context, unit Unit) (Outcome, error)
}

// chatCompleter is an internal interface for OpenAI chat completion.
// *openai.Client implements this implicitly.
// This allows injecting mocks in tests.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Rewriter      = (*OpenAIRewriter)(nil)
	_ chatCompleter = (*openai.Client)(nil)
)

// OpenAIRewriter rewrites units using OpenAI's chat completion API.
type OpenAIRewriter struct {
	client         chatCompleter
	prices         pricing.Table
	model          string
	maxInputTokens int
	estimate       func(string) int
}

// Option configures an OpenAIRewriter.
type Option func(*OpenAIRewriter)

// WithModel sets the default chat model used when a unit names none.
func WithModel(model string) Option {
	return func(r *OpenAIRewriter) {
		if model != "" {
			r.model = model
		}
	}
}

// WithPrices sets the price table used for cost accounting.
func WithPrices(t pricing.Table) Option {
	return func(r *OpenAIRewriter) {
		r.prices = t
	}
}

// WithMaxInputTokens sets the maximum estimated input token limit.
func WithMaxInputTokens(max int) Option {
	return func(r *OpenAIRewriter) {
		if max > 0 {
			r.maxInputTokens = max
		}
	}
}

// withChatCompleter sets a custom chat completer (for testing).
func withChatCompleter(cc chatCompleter) Option {
	return func(r *OpenAIRewriter) {
		r.client = cc
	}
}

// withTokenEstimator sets a custom token estimator (for testing).
func withTokenEstimator(fn func(string) int) Option {
	return func(r *OpenAIRewriter) {
		r.estimate = fn
	}
}

// NewOpenAIRewriter creates a new OpenAIRewriter with the given client.
// The client is injected to enable testing with mocks.
func NewOpenAIRewriter(client *openai.Client, opts ...Option) *OpenAIRewriter {
	r := &OpenAIRewriter{
		client:         client,
		prices:         pricing.Default(),
		model:          DefaultModel,
		maxInputTokens: DefaultMaxInputTokens,
		estimate:       estimateTokens,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rewrite sends one unit through the chat completion API and normalizes the
// answer. Returns ErrContentTooLong before any network call when the unit
// exceeds the input token limit.
func (r *OpenAIRewriter) Rewrite(ctx context.Context, unit Unit) (Outcome, error) {
	// 1. Check the input token budget before spending an API call.
	estimated := r.estimate(unit.Content)
	if estimated > r.maxInputTokens {
		return Outcome{}, fmt.Errorf("content too long (%dK tokens estimated, max %dK): %w",
			estimated/1000, r.maxInputTokens/1000, ErrContentTooLong)
	}

	// 2. Build the request.
	req := r.buildRequest(unit)

	// 3. Call the API. Classification maps provider errors to apierr sentinels.
	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Outcome{}, apierr.Classify(err)
	}
	if len(resp.Choices) == 0 {
		return Outcome{}, ErrEmptyResponse
	}

	// 4. Extract fields, preferring what the model produced over what the
	// unit supplied.
	content := StripCodeFence(resp.Choices[0].Message.Content)
	f := article.Detect(content)
	title := article.Title(content, f)
	if title == "" {
		title = unit.Title
	}
	description := article.Description(content, f)
	if description == "" {
		description = unit.Description
	}
	cost := r.prices.Cost(req.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return Finalize(content, title, description, cost), nil
}

// buildRequest maps a unit onto a chat completion request: the instruction
// is the system message, the unit itself becomes the user message.
func (r *OpenAIRewriter) buildRequest(unit Unit) openai.ChatCompletionRequest {
	p := unit.Params

	model := p.Model
	if model == "" {
		model = r.model
	}
	maxTokens := p.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}

	return openai.ChatCompletionRequest{
		Model:               model,
		MaxCompletionTokens: maxTokens,
		Temperature:         p.Temperature,
		TopP:                p.TopP,
		FrequencyPenalty:    p.FrequencyPenalty,
		PresencePenalty:     p.PresencePenalty,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: unit.Instruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userMessage(unit),
			},
		},
	}
}

// userMessage lays out the unit for the model: metadata lines first, then
// the content block.
func userMessage(unit Unit) string {
	var b strings.Builder
	if unit.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", unit.Title)
	}
	if unit.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", unit.Description)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("Content:\n")
	b.WriteString(unit.Content)
	return b.String()
}

// cl100kEncoding loads the tokenizer once. It is nil when the vocabulary
// cannot be loaded (tiktoken fetches it on first use), in which case
// estimation falls back to a character ratio.
var cl100kEncoding = sync.OnceValue(func() *tiktoken.Tiktoken {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil
	}
	return enc
})

// estimateTokens counts tokens with the cl100k_base vocabulary, falling
// back to a flat chars-per-token ratio when the tokenizer is unavailable.
func estimateTokens(text string) int {
	if enc := cl100kEncoding(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return len(text) / fallbackCharsPerToken
}
