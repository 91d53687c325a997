package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"archfolio/internal/assistant"
	"archfolio/internal/logging"
	"archfolio/internal/portfolio"
)

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.showPreview {
			m.refreshPreview()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.isGenerating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case aiResultMsg:
		m.isGenerating = false
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.status = "Portfolio updated by AI"
		m.resync()
		return m, nil

	case storeChangedMsg:
		// Keystroke commits are already reflected in the inputs.
		if msg.Source != "edit" {
			logging.EditorDebug("resync after v%d from %s", msg.Version, msg.Source)
			m.resync()
		} else if m.showPreview {
			m.refreshPreview()
		}
		return m, waitForChange(m.changes)

	case exportedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("export failed: %w", msg.err)
			return m, nil
		}
		m.err = nil
		m.status = "Exported to " + msg.path
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.modal != nil {
		return m.handleModalKey(msg)
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.err = nil
		m.status = ""
		return m, nil

	case tea.KeyCtrlG:
		return m.triggerAI()

	case tea.KeyCtrlP:
		m.showPreview = !m.showPreview
		m.resize()
		if m.showPreview {
			m.refreshPreview()
		}
		return m, nil

	case tea.KeyCtrlS:
		return m, export(m.exporter, m.exportPath, m.store.Current())

	case tea.KeyCtrlN:
		m.modal = newProjectModal(portfolio.Project{}, m.inputWidth())
		return m, nil

	case tea.KeyCtrlE:
		f, ok := m.focused()
		if !ok || f.scope != scopeProject {
			m.status = "Focus a project field to edit its images"
			return m, nil
		}
		proj, found := m.store.Current().FindProject(f.id)
		if !found {
			m.resync()
			return m, nil
		}
		m.modal = newProjectModal(proj, m.inputWidth())
		return m, nil

	case tea.KeyCtrlR:
		var added portfolio.Resource
		_, err := m.store.Apply("edit", func(p portfolio.Portfolio) (portfolio.Portfolio, error) {
			var out portfolio.Portfolio
			out, added = portfolio.AddResource(p)
			return out, nil
		})
		if err != nil {
			m.err = err
			return m, nil
		}
		m.resync()
		m.focusField(scopeResource, added.ID)
		m.status = "Resource added"
		return m, nil

	case tea.KeyCtrlD:
		return m.removeFocused()

	case tea.KeyTab:
		m.moveFocus(1)
		return m, nil

	case tea.KeyShiftTab:
		m.moveFocus(-1)
		return m, nil

	case tea.KeyUp:
		if m.focus != focusPrompt {
			m.moveFocus(-1)
			return m, nil
		}

	case tea.KeyDown:
		if m.focus != focusPrompt {
			m.moveFocus(1)
			return m, nil
		}
	}

	if m.focus == focusPrompt {
		if m.isGenerating {
			// the prompt is read-only while its request is in flight
			return m, nil
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m.editFocused(msg)
}

// editFocused forwards a key to the focused input and commits the new value.
func (m Model) editFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f, ok := m.focused()
	if !ok {
		return m, nil
	}
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	after := f.input.Value()
	if after == before {
		return m, cmd
	}

	field := *f
	if _, err := m.store.Apply("edit", func(p portfolio.Portfolio) (portfolio.Portfolio, error) {
		return field.set(p, after)
	}); err != nil {
		m.err = err
		if errors.Is(err, portfolio.ErrUnknownID) {
			m.resync()
		}
		return m, cmd
	}
	m.err = nil
	if m.showPreview {
		m.refreshPreview()
	}
	return m, cmd
}

func (m *Model) moveFocus(delta int) {
	n := len(m.fields) + 1
	m.focus = (m.focus + delta + n) % n
	m.applyFocus()
}

// triggerAI starts an AI update. The trigger is ignored while a request is in
// flight or the prompt is blank.
func (m Model) triggerAI() (tea.Model, tea.Cmd) {
	if !m.canGenerate() {
		if !m.isGenerating {
			m.status = "Describe the changes you want to make first"
		}
		return m, nil
	}
	m.isGenerating = true
	m.err = nil
	m.status = ""
	logging.Editor("AI update requested (%d chars)", len(m.prompt.Value()))
	return m, tea.Batch(m.spinner.Tick, generate(m.ctx, m.assistant, m.store, m.prompt.Value()))
}

// removeFocused deletes the project or resource owning the focused field.
func (m Model) removeFocused() (tea.Model, tea.Cmd) {
	f, ok := m.focused()
	if !ok || (f.scope != scopeProject && f.scope != scopeResource) {
		m.status = "Focus a project or resource to remove it"
		return m, nil
	}

	scope, id := f.scope, f.id
	_, err := m.store.Apply("edit", func(p portfolio.Portfolio) (portfolio.Portfolio, error) {
		if scope == scopeProject {
			return portfolio.RemoveProject(p, id)
		}
		return portfolio.RemoveResource(p, id)
	})
	if err != nil {
		m.err = err
	} else if scope == scopeProject {
		m.status = "Project removed"
	} else {
		m.status = "Resource removed"
	}
	m.resync()
	return m, nil
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.modal.dragging {
			m.modal.dragging = false
			return m, nil
		}
		m.modal = nil
		m.applyFocus()
		return m, nil

	case tea.KeyCtrlS:
		return m.saveModal()
	}

	cmd := m.modal.update(msg)
	return m, cmd
}

func (m Model) saveModal() (tea.Model, tea.Cmd) {
	proj := m.modal.project()
	if proj.Title == "" {
		m.status = "A project needs a title"
		return m, nil
	}

	var saved portfolio.Project
	_, err := m.store.Apply("edit", func(p portfolio.Portfolio) (portfolio.Portfolio, error) {
		if proj.ID != "" {
			if _, ok := p.FindProject(proj.ID); !ok {
				return p, fmt.Errorf("project %q: %w", proj.ID, portfolio.ErrUnknownID)
			}
		}
		var out portfolio.Portfolio
		out, saved = portfolio.UpsertProject(p, proj)
		return out, nil
	})
	if err != nil {
		m.err = err
		return m, nil
	}

	m.modal = nil
	m.err = nil
	m.status = "Saved " + saved.Title
	m.resync()
	m.focusField(scopeProject, saved.ID)
	return m, nil
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// errorLine formats an error for the notification line.
func errorLine(err error) string {
	var upd *assistant.UpdateError
	if errors.As(err, &upd) && errors.Is(err, assistant.ErrConfiguration) {
		return upd.Error() + " (set GEMINI_API_KEY or API_KEY)"
	}
	return err.Error()
}
