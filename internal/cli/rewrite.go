package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alnah/go-respin/internal/article"
	"github.com/alnah/go-respin/internal/config"
	"github.com/alnah/go-respin/internal/format"
	"github.com/alnah/go-respin/internal/interrupt"
	"github.com/alnah/go-respin/internal/logging"
	"github.com/alnah/go-respin/internal/mask"
	"github.com/alnah/go-respin/internal/prompt"
	"github.com/alnah/go-respin/internal/rewrite"
	"github.com/alnah/go-respin/internal/variant"
)

// defaultVariantCount is the number of variants generated when -n is not given.
const defaultVariantCount = 3

// supportedExtensions lists input file extensions the rewrite command accepts.
var supportedExtensions = map[string]bool{
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
	".txt":      true,
	".text":     true,
}

// supportedExtensionsList returns a sorted, comma-separated list for error messages.
// The list is sorted for deterministic output in tests and user-facing messages.
func supportedExtensionsList() string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	slices.Sort(exts)
	return strings.Join(exts, ", ")
}

// rewriteOptions holds validated options for the rewrite command.
type rewriteOptions struct {
	inputPath   string
	output      string
	count       int
	template    string
	model       string
	temperature float32
	format      article.Format
	mask        bool
	title       string
	description string
	verbose     bool
}

// RewriteCmd creates the rewrite command.
// The env parameter provides injectable dependencies for testing.
func RewriteCmd(env *Env) *cobra.Command {
	var (
		output      string
		count       int
		tmpl        string
		model       string
		temperature float32
		formatName  string
		maskOutput  bool
		title       string
		description string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "rewrite <article-file>",
		Short: "Generate rewritten variants of an article",
		Long: `Generate rewritten variants of an article using OpenAI's chat API.

Each variant is an independent rewrite of the whole article. Large articles
are split into overlapping chunks, rewritten part by part in parallel, and
reassembled. Variants are written next to each other as <name>.v1.<ext>,
<name>.v2.<ext>, and so on.

The template controls the rewrite style. Pass a built-in name or your own
instruction text.

Supported formats: html, htm, markdown, md, text, txt`,
		Example: `  respin rewrite post.html -n 5 -t seo
  respin rewrite article.md -t casual -o drafts/article.md
  respin rewrite notes.txt --temperature 1.2
  respin rewrite post.html -t "Rewrite this for a younger audience, keeping every fact."
  respin rewrite post.html --mask  # Scrub machine-sounding phrasing from the output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Parse all inputs at the CLI boundary
			opts, err := parseRewriteOptions(args[0], output, count, tmpl, model,
				temperature, formatName, maskOutput, title, description, verbose)
			if err != nil {
				return err
			}
			return runRewrite(cmd, env, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output base path (default: <input> name, variants get a .vN suffix)")
	cmd.Flags().IntVarP(&count, "variants", "n", defaultVariantCount, "Number of variants to generate (1-30)")
	cmd.Flags().StringVarP(&tmpl, "template", "t", "", "Rewrite template: standard, seo, simplify, formal, casual, or custom text")
	cmd.Flags().StringVarP(&model, "model", "m", "", "OpenAI model (default: "+rewrite.DefaultModel+")")
	cmd.Flags().Float32Var(&temperature, "temperature", rewrite.DefaultParams().Temperature, "Sampling temperature (0.0-2.0)")
	cmd.Flags().StringVar(&formatName, "format", "", "Input format: html, markdown, text (default: detect)")
	cmd.Flags().BoolVar(&maskOutput, "mask", false, "Mask machine-sounding phrases and punctuation in the output")
	cmd.Flags().StringVar(&title, "title", "", "Article title (default: extracted from the input)")
	cmd.Flags().StringVar(&description, "description", "", "Article description (default: extracted from the input)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// parseRewriteOptions validates and parses CLI inputs into rewriteOptions.
// All parsing happens at the CLI boundary. The template string stays raw
// here: its resolution depends on config defaults and happens in runRewrite.
func parseRewriteOptions(inputPath, output string, count int, tmpl, model string,
	temperature float32, formatName string, maskOutput bool, title, description string,
	verbose bool,
) (rewriteOptions, error) {
	parsedFormat, err := article.ParseFormat(formatName)
	if err != nil {
		return rewriteOptions{}, err
	}

	if err := variant.ValidateCount(count); err != nil {
		return rewriteOptions{}, err
	}

	if err := variant.ValidateTemperature(temperature); err != nil {
		return rewriteOptions{}, err
	}

	return rewriteOptions{
		inputPath:   inputPath,
		output:      output,
		count:       count,
		template:    tmpl,
		model:       model,
		temperature: temperature,
		format:      parsedFormat,
		mask:        maskOutput,
		title:       title,
		description: description,
		verbose:     verbose,
	}, nil
}

// runRewrite executes the rewrite pipeline with validated options.
// Validation order: file exists -> extension -> config -> output -> template -> API key -> output collisions
func runRewrite(cmd *cobra.Command, env *Env, opts rewriteOptions) error {
	// === VALIDATION (fail-fast) ===

	// 1. File exists
	if _, err := os.Stat(opts.inputPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, opts.inputPath)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}

	// 2. Extension supported
	ext := strings.ToLower(filepath.Ext(opts.inputPath))
	if !supportedExtensions[ext] {
		return fmt.Errorf("unsupported format %q (supported: %s): %w",
			ext, supportedExtensionsList(), ErrUnsupportedFormat)
	}

	// 3. Load config for defaults
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	// 4. Output base path (resolve with output-dir, derive default from input)
	base := config.ResolveOutputPath(opts.output, cfg.OutputDir, filepath.Base(opts.inputPath))

	// 5. Resolve the instruction template (flag, then config, then standard)
	tmpl := opts.template
	if tmpl == "" {
		tmpl = cfg.Template
	}
	if tmpl == "" {
		tmpl = prompt.Standard
	}
	instruction, err := prompt.Resolve(tmpl)
	if err != nil {
		return err
	}

	// 6. API key present
	apiKey := env.Getenv(EnvOpenAIAPIKey)
	if apiKey == "" {
		return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, EnvOpenAIAPIKey)
	}

	// 7. Output paths free (fail before paying for generation)
	for n := 1; n <= opts.count; n++ {
		if _, err := os.Stat(variantPath(base, n)); err == nil {
			return fmt.Errorf("output file already exists: %s: %w", variantPath(base, n), ErrOutputExists)
		}
	}

	// === READ INPUT ===

	// #nosec G304 -- inputPath is user-provided, validated above
	raw, err := os.ReadFile(opts.inputPath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	content := string(raw)
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyInput, opts.inputPath)
	}

	// === METADATA ===

	inputFormat := opts.format
	if inputFormat.IsZero() {
		inputFormat = article.Detect(content)
	}

	title := opts.title
	if title == "" {
		title = article.Title(content, inputFormat)
	}
	description := opts.description
	if description == "" {
		description = article.Description(content, inputFormat)
	}

	params := rewrite.DefaultParams()
	params.Temperature = opts.temperature
	model := opts.model
	if model == "" {
		model = cfg.Model
	}
	if model != "" {
		params.Model = model
	}

	// === GENERATION ===

	logger := zap.NewNop()
	if opts.verbose {
		logger = logging.New(env.Stderr, true).With(zap.String("run_id", uuid.NewString()))
	}

	// Set up interrupt handler for double Ctrl+C detection.
	handler, ctx := interrupt.NewHandler(cmd.Context())
	defer handler.Stop()

	generator := env.GeneratorFactory.NewGenerator(apiKey, env.Getenv(EnvAPIBase), variant.WithLogger(logger))

	fmt.Fprintf(env.Stderr, "Rewriting %s (%s, %d variants)...\n", opts.inputPath, inputFormat, opts.count)

	start := env.Now()
	outcomes, genErr := generator.Generate(ctx, variant.Request{
		Content:     content,
		Title:       title,
		Description: description,
		Instruction: instruction,
		Count:       opts.count,
		Params:      params,
		OnProgress:  renderProgress(env.Stderr),
	})

	// Handle generation interruption
	if genErr != nil {
		if !handler.WasInterrupted() {
			return genErr
		}
		if len(outcomes) == 0 {
			return interrupt.ErrInterrupted
		}

		// Ask user intent via timeout window
		behavior := handler.WaitForDecision(fmt.Sprintf(
			"Ctrl+C again to discard, wait 2s to keep %d of %d variants...",
			len(outcomes), opts.count))
		if behavior == interrupt.Discard {
			return interrupt.ErrInterrupted
		}

		fmt.Fprintf(env.Stderr, "\nKeeping %d of %d variants...\n", len(outcomes), opts.count)
	}

	// === MASK (optional) ===

	if opts.mask {
		m := mask.New()
		for i := range outcomes {
			outcomes[i].Content = m.Apply(outcomes[i].Content)
			outcomes[i].Title = m.Apply(outcomes[i].Title)
			outcomes[i].Description = m.Apply(outcomes[i].Description)
		}
	}

	// === WRITE OUTPUT ===

	var totalCost float64
	for i, out := range outcomes {
		path := variantPath(base, i+1)
		if err := writeFileAtomic(path, out.Content); err != nil {
			return err
		}
		totalCost += out.Cost
		fmt.Fprintf(env.Stderr, "Wrote %s (%s)\n", path, format.Size(int64(len(out.Content))))
	}

	fmt.Fprintf(env.Stderr, "Done: %d of %d variants in %s (%s)\n",
		len(outcomes), opts.count, format.Elapsed(env.Now().Sub(start)), format.Cost(totalCost))
	return nil
}
