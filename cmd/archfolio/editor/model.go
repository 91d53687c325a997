// Package editor implements the interactive terminal portfolio editor.
//
// The form mirrors the document: every profile, project, resource and contact
// attribute is one input, and every keystroke commits a new document to the store.
// The AI prompt sits at the top; ctrl+g sends it to the assistant.
package editor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"archfolio/cmd/archfolio/ui"
	"archfolio/internal/assistant"
	"archfolio/internal/logging"
	"archfolio/internal/portfolio"
	"archfolio/internal/preview"
)

const (
	promptPlaceholder = "e.g., 'Make the tone more professional', 'Rewrite the bio for a senior architect', " +
		"'Change the project descriptions to be more concise'"
	promptHeight = 3
	minWidth     = 40
)

// Config holds what the editor needs from the command line.
type Config struct {
	Store     *portfolio.Store
	Assistant *assistant.Assistant // nil behaves like a missing API key

	ExportPath     string
	Exporter       ExportFunc // nil writes with portfolio.Export
	Styles         ui.Styles
	PreviewOnStart bool
	WordWrap       int
}

// ExportFunc writes a document to path.
type ExportFunc func(path string, doc portfolio.Portfolio) error

// Model is the bubbletea model of the editor.
type Model struct {
	ctx       context.Context
	store     *portfolio.Store
	assistant *assistant.Assistant
	styles    ui.Styles

	exportPath string
	exporter   ExportFunc
	wordWrap   int

	fields []formField
	focus  focusTarget
	prompt textarea.Model

	spinner      spinner.Model
	isGenerating bool

	showPreview bool
	previewVP   viewport.Model
	renderer    *preview.Terminal
	rendererW   int

	modal *projectModal

	changes     <-chan portfolio.Change
	unsubscribe func()

	err    error
	status string

	width  int
	height int
}

// New creates the editor model. The model subscribes to the store; call Close when
// the program exits.
func New(ctx context.Context, cfg Config) Model {
	ta := textarea.New()
	ta.Placeholder = promptPlaceholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(promptHeight)
	ta.SetWidth(60)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cfg.Styles.Spinner

	exporter := cfg.Exporter
	if exporter == nil {
		exporter = portfolio.Export
	}

	changes, unsubscribe := cfg.Store.Subscribe()

	m := Model{
		ctx:         ctx,
		store:       cfg.Store,
		assistant:   cfg.Assistant,
		styles:      cfg.Styles,
		exportPath:  cfg.ExportPath,
		exporter:    exporter,
		wordWrap:    cfg.WordWrap,
		prompt:      ta,
		spinner:     sp,
		showPreview: cfg.PreviewOnStart,
		previewVP:   viewport.New(60, 20),
		changes:     changes,
		unsubscribe: unsubscribe,
		width:       100,
		height:      30,
	}
	m.fields = buildFields(cfg.Store.Current(), m.inputWidth())
	if m.showPreview {
		m.refreshPreview()
	}
	return m
}

// Init starts the cursor blink and the store subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForChange(m.changes))
}

// Close releases the store subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// waitForChange blocks on the next store change. A closed channel ends the loop.
func waitForChange(ch <-chan portfolio.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return storeChangedMsg(change)
	}
}

// buildFields lays out one input per editable attribute, in document order.
func buildFields(doc portfolio.Portfolio, width int) []formField {
	var fields []formField
	add := func(scope fieldScope, id, name, label, section, value string) {
		in := textinput.New()
		in.Prompt = ""
		in.Width = width
		in.CharLimit = 0
		in.SetValue(value)
		fields = append(fields, formField{
			scope:   scope,
			id:      id,
			name:    name,
			label:   label,
			section: section,
			input:   in,
		})
	}

	add(scopeProfile, "", portfolio.FieldName, "Full Name", "Profile", doc.Profile.Name)
	add(scopeProfile, "", portfolio.FieldTitle, "Title", "Profile", doc.Profile.Title)
	add(scopeProfile, "", portfolio.FieldBio, "Bio", "Profile", doc.Profile.Bio)
	add(scopeProfile, "", portfolio.FieldProfileImage, "Profile Image URL", "Profile", doc.Profile.ProfileImage)

	for i, p := range doc.Projects {
		section := fmt.Sprintf("Project %d", i+1)
		add(scopeProject, p.ID, portfolio.FieldTitle, "Title", section, p.Title)
		add(scopeProject, p.ID, portfolio.FieldCategory, "Category", section, p.Category)
		add(scopeProject, p.ID, portfolio.FieldDescription, "Description", section, p.Description)
	}

	for i, r := range doc.Resources {
		section := fmt.Sprintf("Resource %d", i+1)
		add(scopeResource, r.ID, portfolio.FieldTitle, "Title", section, r.Title)
		add(scopeResource, r.ID, portfolio.FieldDescription, "Description", section, r.Description)
		add(scopeResource, r.ID, portfolio.FieldFileURL, "File URL", section, r.FileURL)
	}

	add(scopeContact, "", portfolio.FieldEmail, "Email", "Contact", doc.Contact.Email)
	add(scopeContact, "", portfolio.FieldPhone, "Phone", "Contact", doc.Contact.Phone)
	add(scopeContact, "", portfolio.FieldWebsite, "Website", "Contact", doc.Contact.Website)
	add(scopeContact, "", portfolio.FieldInstagram, "Instagram", "Contact", doc.Contact.Instagram)
	return fields
}

// resync rebuilds the form from the store, keeping the focus position where possible.
func (m *Model) resync() {
	m.fields = buildFields(m.store.Current(), m.inputWidth())
	if m.focus > len(m.fields) {
		m.focus = len(m.fields)
	}
	m.applyFocus()
	if m.showPreview {
		m.refreshPreview()
	}
}

// focusField moves focus to the first field matching scope and id.
func (m *Model) focusField(scope fieldScope, id string) {
	for i, f := range m.fields {
		if f.scope == scope && f.id == id {
			m.focus = i + 1
			break
		}
	}
	m.applyFocus()
}

func (m *Model) applyFocus() {
	if m.focus == focusPrompt {
		m.prompt.Focus()
	} else {
		m.prompt.Blur()
	}
	for i := range m.fields {
		if i+1 == m.focus {
			m.fields[i].input.Focus()
		} else {
			m.fields[i].input.Blur()
		}
	}
}

func (m *Model) focused() (*formField, bool) {
	if m.focus == focusPrompt || m.focus > len(m.fields) {
		return nil, false
	}
	return &m.fields[m.focus-1], true
}

func (m Model) formWidth() int {
	w := m.width
	if m.showPreview {
		w = m.width / 2
	}
	if w < minWidth {
		w = minWidth
	}
	return w
}

func (m Model) inputWidth() int {
	return m.formWidth() - 8
}

func (m *Model) resize() {
	w := m.inputWidth()
	for i := range m.fields {
		m.fields[i].input.Width = w
	}
	m.prompt.SetWidth(w)

	m.previewVP.Width = m.width - m.formWidth() - 2
	m.previewVP.Height = m.height - 4
	if m.previewVP.Width < 10 {
		m.previewVP.Width = 10
	}
	if m.previewVP.Height < 5 {
		m.previewVP.Height = 5
	}
	if m.modal != nil {
		m.modal.setWidth(w)
	}
}

// refreshPreview re-renders the preview pane. The glamour renderer is created
// lazily and recreated when the pane width changes.
func (m *Model) refreshPreview() {
	wrap := m.wordWrap
	if wrap <= 0 || wrap > m.previewVP.Width-2 {
		wrap = m.previewVP.Width - 2
	}
	if m.renderer == nil || m.rendererW != wrap {
		r, err := preview.NewTerminal(m.styles.Theme.GlamourStyle(), wrap)
		if err != nil {
			m.err = err
			return
		}
		m.renderer = r
		m.rendererW = wrap
	}

	out, err := m.renderer.Render(m.store.Current())
	if err != nil {
		m.err = err
		return
	}
	m.previewVP.SetContent(out)
}

// canGenerate reports whether the AI trigger is enabled.
func (m Model) canGenerate() bool {
	return !m.isGenerating && hasText(m.prompt.Value())
}

func (m Model) aiConfigured() bool {
	return m.assistant != nil && m.assistant.Configured()
}

// generate runs one AI update against the current document.
func generate(ctx context.Context, asst *assistant.Assistant, store *portfolio.Store, instruction string) tea.Cmd {
	return func() tea.Msg {
		if asst == nil {
			return aiResultMsg{doc: store.Current(), err: &assistant.UpdateError{Kind: assistant.ErrConfiguration}}
		}
		doc, err := asst.Apply(ctx, store, instruction)
		if err != nil {
			logging.Get(logging.CategoryEditor).Warn("AI update failed: %v", err)
		}
		return aiResultMsg{doc: doc, err: err}
	}
}

// export writes the document to path in the format its extension names.
func export(write ExportFunc, path string, doc portfolio.Portfolio) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return exportedMsg{err: fmt.Errorf("no export path configured")}
		}
		return exportedMsg{path: path, err: write(path, doc)}
	}
}
