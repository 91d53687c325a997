package preview

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"archfolio/internal/portfolio"
)

// Terminal renders portfolios with glamour.
type Terminal struct {
	renderer *glamour.TermRenderer
}

// NewTerminal creates a terminal renderer. style is a glamour standard style
// ("dark", "light", "notty", ...) or "auto"; width 0 disables word wrap.
func NewTerminal(style string, width int) (*Terminal, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	return &Terminal{renderer: r}, nil
}

// Render renders p for the terminal.
func (t *Terminal) Render(p portfolio.Portfolio) (string, error) {
	out, err := t.renderer.Render(Markdown(p))
	if err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}
	return out, nil
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithXHTML()),
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; max-width: 56rem; margin: 2rem auto; padding: 0 1rem; color: #1f2937; background: #f9fafb; }
img { max-width: 100%; border-radius: 0.5rem; margin: 0.25rem 0; }
h1 + h2 { color: #4b5563; font-weight: normal; }
hr { border: 0; border-top: 1px solid #e5e7eb; margin: 2rem 0; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// HTML renders p as a standalone page.
func HTML(p portfolio.Portfolio) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(p)), &body); err != nil {
		return nil, fmt.Errorf("failed to convert preview: %w", err)
	}

	var out bytes.Buffer
	err := page.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{
		Title: p.Profile.Name,
		// goldmark escapes raw HTML unless WithUnsafe is set, so the body is safe to embed.
		Body: template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return out.Bytes(), nil
}
