package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-respin/internal/format"
	"github.com/alnah/go-respin/internal/variant"
)

// variantPath returns the output path for the n-th variant (1-based),
// inserting a ".vN" marker before the file extension:
// "article.html" with n=2 becomes "article.v2.html".
func variantPath(path string, n int) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s.v%d%s", base, n, ext)
}

// renderProgress returns a progress callback that writes status lines to w.
// Used by the rewrite command to surface generation progress on stderr.
func renderProgress(w io.Writer) variant.ProgressFunc {
	return func(p variant.Progress) {
		switch p.Phase {
		case variant.PhasePreparing, variant.PhaseProcessing:
			_, _ = fmt.Fprintf(w, "%s...\n", p.Message)
		case variant.PhaseGenerating:
			_, _ = fmt.Fprintf(w, "  %s [%s variants, %s]\n",
				p.Message, format.Ratio(p.VariantsDone, p.VariantsTotal), format.Cost(p.Cost))
		case variant.PhaseDone:
			// The final summary line is printed by the command itself.
		}
	}
}

// writeFileAtomic writes content to path atomically.
// It fails if the file already exists (O_EXCL), preventing accidental overwrites.
// On write failure, the partial file is removed.
func writeFileAtomic(path, content string) error {
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.WriteString(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}

	return nil
}
