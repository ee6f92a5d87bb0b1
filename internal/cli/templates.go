package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/go-respin/internal/prompt"
)

// TemplatesCmd creates the templates command.
// Lists built-in rewrite templates for use with --template.
func TemplatesCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List built-in rewrite templates",
		Long: `List the built-in rewrite templates accepted by --template.

Any other text passed to --template is used verbatim as the rewrite
instruction, so the list is a starting point, not a limit.`,
		Example: `  respin templates
  respin rewrite post.html -t seo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplates(env)
		},
	}
}

// runTemplates lists the built-in templates with a one-line summary each.
func runTemplates(env *Env) error {
	for _, name := range prompt.Names() {
		fmt.Fprintf(env.Stderr, "%-10s %s\n", name, prompt.Summary(name))
	}
	return nil
}
