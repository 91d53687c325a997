package editor

import (
	"github.com/charmbracelet/bubbles/textinput"

	"archfolio/internal/portfolio"
)

// fieldScope says which part of the document a form field edits.
type fieldScope int

const (
	scopeProfile fieldScope = iota
	scopeProject
	scopeResource
	scopeContact
)

// formField is one editable line of the form. id names the project or resource
// for scoped fields and is empty for profile and contact fields.
type formField struct {
	scope   fieldScope
	id      string
	name    string
	label   string
	section string
	input   textinput.Model
}

// set returns a copy of p with this field replaced.
func (f formField) set(p portfolio.Portfolio, value string) (portfolio.Portfolio, error) {
	switch f.scope {
	case scopeProject:
		return portfolio.SetProjectField(p, f.id, f.name, value)
	case scopeResource:
		return portfolio.SetResourceField(p, f.id, f.name, value)
	case scopeContact:
		return portfolio.SetContactField(p, f.name, value)
	default:
		return portfolio.SetProfileField(p, f.name, value)
	}
}

// focusTarget is the focus position: 0 is the AI prompt, n>0 is fields[n-1].
type focusTarget = int

const focusPrompt focusTarget = 0

// =============================================================================
// MESSAGES
// =============================================================================

type (
	// aiResultMsg carries the outcome of an AI update.
	aiResultMsg struct {
		doc portfolio.Portfolio
		err error
	}

	// storeChangedMsg is delivered for every committed document change.
	storeChangedMsg portfolio.Change

	// exportedMsg reports the outcome of ctrl+s.
	exportedMsg struct {
		path string
		err  error
	}

	// statusMsg sets the footer status line.
	statusMsg string
)
