package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"archfolio/cmd/archfolio/ui"
	"archfolio/internal/preview"
)

var (
	previewFormat string
	previewOut    string
	previewWidth  int
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the portfolio as it will be published",
	Long: `Renders the document the way the portfolio page shows it.

Formats:
  - terminal: styled for the terminal (default)
  - markdown: the underlying markdown
  - html:     a standalone HTML page`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewFormat, "format", "f", "terminal", "Output format: terminal, markdown, html")
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "Write to a file instead of stdout")
	previewCmd.Flags().IntVar(&previewWidth, "width", 0, "Word wrap for terminal output (default: ui.word_wrap or 80)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument()
	if err != nil {
		return err
	}

	var out []byte
	switch previewFormat {
	case "terminal", "glamour":
		width := previewWidth
		if width <= 0 {
			width = cfg.UI.WordWrap
		}
		if width <= 0 {
			width = 80
		}
		style := "auto"
		if cfg.UI.Theme != "" && cfg.UI.Theme != "auto" {
			style = ui.ThemeFor(cfg.UI.Theme).GlamourStyle()
		}
		term, err := preview.NewTerminal(style, width)
		if err != nil {
			return err
		}
		rendered, err := term.Render(doc)
		if err != nil {
			return err
		}
		out = []byte(rendered)
	case "markdown", "md":
		out = []byte(preview.Markdown(doc))
	case "html":
		if out, err = preview.HTML(doc); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown preview format %q (valid: terminal, markdown, html)", previewFormat)
	}

	if previewOut != "" {
		if err := os.WriteFile(previewOut, out, 0644); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Preview written to %s\n", previewOut)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
