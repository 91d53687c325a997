package portfolio

import (
	"fmt"
)

// Field names accepted by the setters. They match the JSON keys of the document.
const (
	FieldName         = "name"
	FieldTitle        = "title"
	FieldBio          = "bio"
	FieldProfileImage = "profileImage"

	FieldCategory    = "category"
	FieldDescription = "description"
	FieldFileURL     = "fileUrl"

	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldWebsite   = "website"
	FieldInstagram = "instagram"
)

// Defaults for a resource added from the editor.
const (
	DefaultResourceTitle       = "New Resource Title"
	DefaultResourceDescription = "A brief description of the resource."
	DefaultResourceFileURL     = "#"
)

// SetProfileField returns a copy of p with one profile field replaced.
func SetProfileField(p Portfolio, field, value string) (Portfolio, error) {
	out := p.Clone()
	switch field {
	case FieldName:
		out.Profile.Name = value
	case FieldTitle:
		out.Profile.Title = value
	case FieldBio:
		out.Profile.Bio = value
	case FieldProfileImage:
		out.Profile.ProfileImage = value
	default:
		return p, fmt.Errorf("profile %q: %w", field, ErrUnknownField)
	}
	return out, nil
}

// SetContactField returns a copy of p with one contact field replaced.
func SetContactField(p Portfolio, field, value string) (Portfolio, error) {
	out := p.Clone()
	switch field {
	case FieldEmail:
		out.Contact.Email = value
	case FieldPhone:
		out.Contact.Phone = value
	case FieldWebsite:
		out.Contact.Website = value
	case FieldInstagram:
		out.Contact.Instagram = value
	default:
		return p, fmt.Errorf("contact %q: %w", field, ErrUnknownField)
	}
	return out, nil
}

// SetProjectField returns a copy of p with one text field of a project replaced.
// The id and images are not editable through this path.
func SetProjectField(p Portfolio, id, field, value string) (Portfolio, error) {
	idx := projectIndex(p, id)
	if idx < 0 {
		return p, fmt.Errorf("project %q: %w", id, ErrUnknownID)
	}
	out := p.Clone()
	proj := &out.Projects[idx]
	switch field {
	case FieldTitle:
		proj.Title = value
	case FieldCategory:
		proj.Category = value
	case FieldDescription:
		proj.Description = value
	default:
		return p, fmt.Errorf("project %q field %q: %w", id, field, ErrUnknownField)
	}
	return out, nil
}

// SetResourceField returns a copy of p with one field of a resource replaced.
func SetResourceField(p Portfolio, id, field, value string) (Portfolio, error) {
	idx := resourceIndex(p, id)
	if idx < 0 {
		return p, fmt.Errorf("resource %q: %w", id, ErrUnknownID)
	}
	out := p.Clone()
	res := &out.Resources[idx]
	switch field {
	case FieldTitle:
		res.Title = value
	case FieldDescription:
		res.Description = value
	case FieldFileURL:
		res.FileURL = value
	default:
		return p, fmt.Errorf("resource %q field %q: %w", id, field, ErrUnknownField)
	}
	return out, nil
}

// UpsertProject saves a project from the project editor. An existing project with the
// same id is replaced in place; otherwise the project is appended. A project without
// an id gets a fresh one. Images are stored in the order given.
func UpsertProject(p Portfolio, proj Project) (Portfolio, Project) {
	saved := proj.Clone()
	if saved.Images == nil {
		saved.Images = []string{}
	}
	if saved.ID == "" {
		saved.ID = NewProjectID()
	}

	out := p.Clone()
	if idx := projectIndex(out, saved.ID); idx >= 0 {
		out.Projects[idx] = saved
	} else {
		out.Projects = append(out.Projects, saved)
	}
	return out, saved.Clone()
}

// RemoveProject returns a copy of p without the project.
func RemoveProject(p Portfolio, id string) (Portfolio, error) {
	idx := projectIndex(p, id)
	if idx < 0 {
		return p, fmt.Errorf("project %q: %w", id, ErrUnknownID)
	}
	out := p.Clone()
	out.Projects = append(out.Projects[:idx], out.Projects[idx+1:]...)
	return out, nil
}

// AddResource appends a resource with the editor defaults and returns it.
func AddResource(p Portfolio) (Portfolio, Resource) {
	res := Resource{
		ID:          NewResourceID(),
		Title:       DefaultResourceTitle,
		Description: DefaultResourceDescription,
		FileURL:     DefaultResourceFileURL,
	}
	out := p.Clone()
	out.Resources = append(out.Resources, res)
	return out, res
}

// UpsertResource replaces the resource with the same id or appends it.
func UpsertResource(p Portfolio, res Resource) (Portfolio, Resource) {
	if res.ID == "" {
		res.ID = NewResourceID()
	}
	out := p.Clone()
	if idx := resourceIndex(out, res.ID); idx >= 0 {
		out.Resources[idx] = res
	} else {
		out.Resources = append(out.Resources, res)
	}
	return out, res
}

// RemoveResource returns a copy of p without the resource.
func RemoveResource(p Portfolio, id string) (Portfolio, error) {
	idx := resourceIndex(p, id)
	if idx < 0 {
		return p, fmt.Errorf("resource %q: %w", id, ErrUnknownID)
	}
	out := p.Clone()
	out.Resources = append(out.Resources[:idx], out.Resources[idx+1:]...)
	return out, nil
}

// MoveImage returns a new slice with the image at from moved to index to, shifting the
// images in between. Out of range indices return an unchanged copy.
func MoveImage(images []string, from, to int) []string {
	out := append([]string(nil), images...)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]string{moved}, out[to:]...)...)
	return out
}

func projectIndex(p Portfolio, id string) int {
	for i := range p.Projects {
		if p.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

func resourceIndex(p Portfolio, id string) int {
	for i := range p.Resources {
		if p.Resources[i].ID == id {
			return i
		}
	}
	return -1
}
