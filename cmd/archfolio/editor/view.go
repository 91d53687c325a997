package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const keyHelp = "tab/↑↓ move · ctrl+g AI update · ctrl+e project · ctrl+n new project · " +
	"ctrl+r add resource · ctrl+d remove · ctrl+p preview · ctrl+s export · ctrl+c quit"

const modalHelp = "tab move · space pick up/drop · ↑↓ move image · x remove · enter add image · " +
	"ctrl+s save · esc cancel"

// View renders the editor.
func (m Model) View() string {
	header := m.styles.Header.Render("archfolio")
	if m.aiConfigured() {
		header += " " + m.styles.Muted.Render(m.assistant.Model())
	} else {
		header += " " + m.styles.Warning.Render("AI disabled: no API key")
	}

	var body string
	if m.modal != nil {
		body = m.renderModal()
	} else {
		body = m.renderForm()
		if m.showPreview {
			pane := m.styles.Pane.Width(m.previewVP.Width).Render(m.previewVP.View())
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, pane)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

func (m Model) renderFooter() string {
	var lines []string
	switch {
	case m.err != nil:
		lines = append(lines, m.styles.Error.Render("✗ "+errorLine(m.err)))
	case m.status != "":
		lines = append(lines, m.styles.Success.Render(m.status))
	}
	help := keyHelp
	if m.modal != nil {
		help = modalHelp
	}
	lines = append(lines, m.styles.Footer.Render(help))
	return strings.Join(lines, "\n")
}

// renderForm lays out the prompt and every field, then crops to the window so the
// focused line stays visible.
func (m Model) renderForm() string {
	var lines []string
	focusLine := 0

	lines = append(lines, m.styles.Section.Render("AI Assistant"))
	lines = append(lines, m.label("Describe the changes you want to make", m.focus == focusPrompt))
	lines = append(lines, strings.Split(m.prompt.View(), "\n")...)
	lines = append(lines, m.renderTrigger())

	section := ""
	for i, f := range m.fields {
		if f.section != section {
			section = f.section
			lines = append(lines, m.styles.Section.Render(section))
		}
		focused := i+1 == m.focus
		if focused {
			focusLine = len(lines)
		}
		lines = append(lines, m.label(f.label, focused)+" "+f.input.View())
	}
	if len(m.fields) > 0 && !m.hasResources() {
		lines = append(lines, m.styles.Muted.Render("No resources. ctrl+r adds one."))
	}

	visible := m.height - 4
	if visible < 5 {
		visible = 5
	}
	start := 0
	if focusLine >= visible {
		start = focusLine - visible + 2
	}
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		start = end
	}

	return lipgloss.NewStyle().Width(m.formWidth()).Render(strings.Join(lines[start:end], "\n"))
}

func (m Model) renderTrigger() string {
	if m.isGenerating {
		return m.spinner.View() + " " + m.styles.Disabled.Render("Generating...")
	}
	if !m.canGenerate() {
		return m.styles.Disabled.Render("Update with AI") + " " + m.styles.Muted.Render("ctrl+g")
	}
	return m.styles.Button.Render("Update with AI") + " " + m.styles.Muted.Render("ctrl+g")
}

func (m Model) label(text string, focused bool) string {
	if focused {
		return m.styles.Focused.Render("▸ " + text + ":")
	}
	return m.styles.Label.Render("  " + text + ":")
}

func (m Model) hasResources() bool {
	for _, f := range m.fields {
		if f.scope == scopeResource {
			return true
		}
	}
	return false
}

func (m Model) renderModal() string {
	pm := m.modal
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(pm.heading()))
	b.WriteString("\n\n")

	labels := [3]string{"Title", "Category", "Description"}
	for i := range pm.inputs {
		b.WriteString(m.label(labels[i], pm.focus == i))
		b.WriteString(" ")
		b.WriteString(pm.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.label(fmt.Sprintf("Images (%d)", len(pm.images)), pm.focus == modalImages))
	b.WriteString("\n")
	if len(pm.images) == 0 {
		b.WriteString(m.styles.Muted.Render("    no images"))
		b.WriteString("\n")
	}
	for i, img := range pm.images {
		line := fmt.Sprintf("%d. %s", i+1, img)
		switch {
		case pm.focus == modalImages && i == pm.cursor && pm.dragging:
			line = m.styles.Dragging.Render("  ≡ " + line)
		case pm.focus == modalImages && i == pm.cursor:
			line = m.styles.Selected.Render("  › " + line)
		default:
			line = "    " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(pm.newImage.View())

	return m.styles.Modal.Width(m.formWidth()).Render(b.String())
}
