package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"archfolio/internal/portfolio"
)

// Modal focus positions.
const (
	modalTitle = iota
	modalCategory
	modalDescription
	modalImages
	modalNewImage
	modalFocusCount
)

// projectModal edits one project. The cursor and drag state live here only; the
// document sees the image order when the modal is saved.
type projectModal struct {
	id     string // empty for a new project
	inputs [3]textinput.Model

	images   []string
	newImage textinput.Model

	focus    int
	cursor   int
	dragging bool
}

func newProjectModal(p portfolio.Project, width int) *projectModal {
	m := &projectModal{
		id:     p.ID,
		images: append([]string(nil), p.Images...),
	}
	labels := [3]string{"Project title", "Category", "Description"}
	values := [3]string{p.Title, p.Category, p.Description}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = labels[i]
		in.SetValue(values[i])
		m.inputs[i] = in
	}
	m.newImage = textinput.New()
	m.newImage.Prompt = "+ "
	m.newImage.Placeholder = "https://example.com/image.jpg"
	m.setWidth(width)
	m.applyFocus()
	return m
}

func (pm *projectModal) setWidth(w int) {
	for i := range pm.inputs {
		pm.inputs[i].Width = w
	}
	pm.newImage.Width = w - 2
}

func (pm *projectModal) applyFocus() {
	for i := range pm.inputs {
		if i == pm.focus {
			pm.inputs[i].Focus()
		} else {
			pm.inputs[i].Blur()
		}
	}
	if pm.focus == modalNewImage {
		pm.newImage.Focus()
	} else {
		pm.newImage.Blur()
	}
}

func (pm *projectModal) cycleFocus(delta int) {
	if pm.dragging {
		return
	}
	pm.focus = (pm.focus + delta + modalFocusCount) % modalFocusCount
	pm.applyFocus()
}

// project returns the edited project.
func (pm *projectModal) project() portfolio.Project {
	return portfolio.Project{
		ID:          pm.id,
		Title:       strings.TrimSpace(pm.inputs[modalTitle].Value()),
		Category:    strings.TrimSpace(pm.inputs[modalCategory].Value()),
		Description: pm.inputs[modalDescription].Value(),
		Images:      append([]string{}, pm.images...),
	}
}

// update handles a key inside the modal. It never touches the document; saving is
// done by the caller.
func (pm *projectModal) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		if pm.focus != modalImages || msg.Type == tea.KeyTab {
			pm.cycleFocus(1)
			return nil
		}
	case tea.KeyShiftTab, tea.KeyUp:
		if pm.focus != modalImages || msg.Type == tea.KeyShiftTab {
			pm.cycleFocus(-1)
			return nil
		}
	}

	switch pm.focus {
	case modalImages:
		pm.updateImages(msg)
		return nil
	case modalNewImage:
		if msg.Type == tea.KeyEnter {
			pm.addImage(pm.newImage.Value())
			return nil
		}
		var cmd tea.Cmd
		pm.newImage, cmd = pm.newImage.Update(msg)
		return cmd
	default:
		var cmd tea.Cmd
		pm.inputs[pm.focus], cmd = pm.inputs[pm.focus].Update(msg)
		return cmd
	}
}

// updateImages drives the keyboard drag: space picks up and drops, up/down move the
// cursor or the carried image, x removes the image under the cursor.
func (pm *projectModal) updateImages(msg tea.KeyMsg) {
	switch msg.String() {
	case " ":
		if len(pm.images) > 0 {
			pm.dragging = !pm.dragging
		}
	case "up", "k":
		pm.move(-1)
	case "down", "j":
		pm.move(1)
	case "x", "delete", "backspace":
		if !pm.dragging {
			pm.removeImage(pm.cursor)
		}
	}
}

func (pm *projectModal) move(delta int) {
	to := pm.cursor + delta
	if to < 0 || to >= len(pm.images) {
		return
	}
	if pm.dragging {
		pm.images = portfolio.MoveImage(pm.images, pm.cursor, to)
	}
	pm.cursor = to
}

func (pm *projectModal) addImage(url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	pm.images = append(pm.images, url)
	pm.newImage.Reset()
}

func (pm *projectModal) removeImage(i int) {
	if i < 0 || i >= len(pm.images) {
		return
	}
	pm.images = append(pm.images[:i:i], pm.images[i+1:]...)
	if pm.cursor >= len(pm.images) && pm.cursor > 0 {
		pm.cursor--
	}
}

func (pm *projectModal) heading() string {
	if pm.id == "" {
		return "New Project"
	}
	return fmt.Sprintf("Edit Project (%s)", pm.id)
}
