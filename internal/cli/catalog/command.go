package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"vita/internal/i18n"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the embedded message catalog",
	}
	cmd.AddCommand(newCheckCommand())
	return cmd
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report keys missing from any language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Check(i18n.DefaultCatalog(), cmd.OutOrStdout())
		},
	}
}

// Check prints one line per supported language and fails when any language
// lacks a key present in English.
func Check(cat *i18n.Catalog, out io.Writer) error {
	var incomplete []string
	for _, lang := range i18n.Supported() {
		missing := cat.MissingKeys(lang)
		fmt.Fprintf(out, "%s: %d keys, %d missing\n", lang, len(cat.Keys(lang)), len(missing))
		for _, key := range missing {
			fmt.Fprintf(out, "  %s\n", key)
		}
		if len(missing) > 0 {
			incomplete = append(incomplete, string(lang))
		}
	}
	if len(incomplete) > 0 {
		return fmt.Errorf("catalog incomplete for: %s", strings.Join(incomplete, ", "))
	}
	return nil
}
