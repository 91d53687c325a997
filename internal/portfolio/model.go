// Package portfolio holds the single document edited by archfolio: the profile,
// projects, resources and contact details of one portfolio.
//
// A Portfolio value is never mutated after it is handed out. Every edit, local or
// AI-driven, produces a new record that replaces the previous one in the Store.
package portfolio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Profile is the header of the portfolio.
type Profile struct {
	Name         string `json:"name" yaml:"name"`
	Title        string `json:"title" yaml:"title"`
	Bio          string `json:"bio" yaml:"bio"`
	ProfileImage string `json:"profileImage" yaml:"profileImage"`
}

// Project is one featured work. ID is immutable once created; Images order is display order.
type Project struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Category    string   `json:"category" yaml:"category"`
	Description string   `json:"description" yaml:"description"`
	Images      []string `json:"images" yaml:"images"`
}

// Resource is a downloadable item listed on the portfolio.
type Resource struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	FileURL     string `json:"fileUrl" yaml:"fileUrl"`
}

// Contact holds the "Get in Touch" details.
type Contact struct {
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone" yaml:"phone"`
	Website   string `json:"website" yaml:"website"`
	Instagram string `json:"instagram" yaml:"instagram"`
}

// Portfolio is the aggregate root.
type Portfolio struct {
	Profile   Profile    `json:"profile" yaml:"profile"`
	Projects  []Project  `json:"projects" yaml:"projects"`
	Contact   Contact    `json:"contact" yaml:"contact"`
	Resources []Resource `json:"resources,omitempty" yaml:"resources,omitempty"`
}

var (
	// ErrUnknownID is returned when an operation names a project or resource id
	// that is not in the document.
	ErrUnknownID = errors.New("unknown id")
	// ErrDuplicateID is returned when an id appears more than once in a collection.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrUnknownField is returned by the field setters for a field name they do not edit.
	ErrUnknownField = errors.New("unknown field")
	// ErrEmptyID is returned when a project or resource has no id.
	ErrEmptyID = errors.New("empty id")
)

// Clone returns a deep copy. Slices are copied so the clone shares no backing arrays.
func (p Portfolio) Clone() Portfolio {
	out := p
	if p.Projects != nil {
		out.Projects = make([]Project, len(p.Projects))
		for i, proj := range p.Projects {
			out.Projects[i] = proj.Clone()
		}
	}
	if p.Resources != nil {
		out.Resources = make([]Resource, len(p.Resources))
		copy(out.Resources, p.Resources)
	}
	return out
}

// Clone returns a copy of the project with its own Images slice.
func (p Project) Clone() Project {
	out := p
	if p.Images != nil {
		out.Images = append([]string(nil), p.Images...)
	}
	return out
}

// Validate checks the id invariants: every project and resource has a non-empty id,
// unique within its collection.
func (p Portfolio) Validate() error {
	seen := make(map[string]struct{}, len(p.Projects))
	for i, proj := range p.Projects {
		if strings.TrimSpace(proj.ID) == "" {
			return fmt.Errorf("project %d: %w", i, ErrEmptyID)
		}
		if _, dup := seen[proj.ID]; dup {
			return fmt.Errorf("project %q: %w", proj.ID, ErrDuplicateID)
		}
		seen[proj.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(p.Resources))
	for i, res := range p.Resources {
		if strings.TrimSpace(res.ID) == "" {
			return fmt.Errorf("resource %d: %w", i, ErrEmptyID)
		}
		if _, dup := seen[res.ID]; dup {
			return fmt.Errorf("resource %q: %w", res.ID, ErrDuplicateID)
		}
		seen[res.ID] = struct{}{}
	}
	return nil
}

// FindProject returns the project with the given id.
func (p Portfolio) FindProject(id string) (Project, bool) {
	for _, proj := range p.Projects {
		if proj.ID == id {
			return proj.Clone(), true
		}
	}
	return Project{}, false
}

// FindResource returns the resource with the given id.
func (p Portfolio) FindResource(id string) (Resource, bool) {
	for _, res := range p.Resources {
		if res.ID == id {
			return res, true
		}
	}
	return Resource{}, false
}

// NewProjectID returns a fresh project id.
func NewProjectID() string {
	return "proj-" + uuid.NewString()
}

// NewResourceID returns a fresh resource id.
func NewResourceID() string {
	return "res-" + uuid.NewString()
}
