package portfolio

import (
	"fmt"
	"strings"
)

// Update is a partial document as returned by the remote model. Pointer fields are
// nil when the model left the key out; a nil Projects or Resources slice means the
// whole collection was left out.
type Update struct {
	Profile   *ProfileUpdate   `json:"profile"`
	Projects  []ProjectUpdate  `json:"projects"`
	Contact   *ContactUpdate   `json:"contact"`
	Resources []ResourceUpdate `json:"resources"`
}

// ProfileUpdate carries the editable profile fields. A profileImage key in the
// model's output is ignored.
type ProfileUpdate struct {
	Name  *string `json:"name"`
	Title *string `json:"title"`
	Bio   *string `json:"bio"`
}

// ProjectUpdate carries the editable project fields keyed by ID. An images key in the
// model's output is ignored.
type ProjectUpdate struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

// ResourceUpdate carries the editable resource fields keyed by ID.
type ResourceUpdate struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	FileURL     *string `json:"fileUrl"`
}

// ContactUpdate carries the contact fields.
type ContactUpdate struct {
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Website   *string `json:"website"`
	Instagram *string `json:"instagram"`
}

// ItemPolicy decides what happens to projects and resources the model did not return.
type ItemPolicy string

const (
	// PolicyPreserve keeps omitted items and always keeps the original order.
	PolicyPreserve ItemPolicy = "preserve"
	// PolicyReplace makes the returned set, in returned order, the new collection.
	// Omitting an item deletes it.
	PolicyReplace ItemPolicy = "replace"
)

// ParseItemPolicy maps a config string to a policy. Empty selects PolicyPreserve.
func ParseItemPolicy(s string) (ItemPolicy, error) {
	switch ItemPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyPreserve:
		return PolicyPreserve, nil
	case PolicyReplace:
		return PolicyReplace, nil
	default:
		return "", fmt.Errorf("invalid item policy %q (valid: %s, %s)", s, PolicyPreserve, PolicyReplace)
	}
}

// CheckIDs verifies that every project and resource in u names an id present in
// original, and that no id is returned twice.
func (u Update) CheckIDs(original Portfolio) error {
	seen := make(map[string]struct{}, len(u.Projects))
	for i, pu := range u.Projects {
		if strings.TrimSpace(pu.ID) == "" {
			return fmt.Errorf("returned project %d: %w", i, ErrEmptyID)
		}
		if projectIndex(original, pu.ID) < 0 {
			return fmt.Errorf("returned project %q: %w", pu.ID, ErrUnknownID)
		}
		if _, dup := seen[pu.ID]; dup {
			return fmt.Errorf("returned project %q: %w", pu.ID, ErrDuplicateID)
		}
		seen[pu.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(u.Resources))
	for i, ru := range u.Resources {
		if strings.TrimSpace(ru.ID) == "" {
			return fmt.Errorf("returned resource %d: %w", i, ErrEmptyID)
		}
		if resourceIndex(original, ru.ID) < 0 {
			return fmt.Errorf("returned resource %q: %w", ru.ID, ErrUnknownID)
		}
		if _, dup := seen[ru.ID]; dup {
			return fmt.Errorf("returned resource %q: %w", ru.ID, ErrDuplicateID)
		}
		seen[ru.ID] = struct{}{}
	}
	return nil
}

// Reconcile merges u over original and returns the new document. Protected fields
// (ids, project images, the profile image) always come from original. Nothing is
// applied unless every returned id checks out.
func Reconcile(original Portfolio, u Update, policy ItemPolicy) (Portfolio, error) {
	if err := u.CheckIDs(original); err != nil {
		return original, err
	}
	if policy == "" {
		policy = PolicyPreserve
	}

	out := original.Clone()

	if u.Profile != nil {
		setIf(&out.Profile.Name, u.Profile.Name)
		setIf(&out.Profile.Title, u.Profile.Title)
		setIf(&out.Profile.Bio, u.Profile.Bio)
	}
	out.Profile.ProfileImage = original.Profile.ProfileImage

	if u.Contact != nil {
		setIf(&out.Contact.Email, u.Contact.Email)
		setIf(&out.Contact.Phone, u.Contact.Phone)
		setIf(&out.Contact.Website, u.Contact.Website)
		setIf(&out.Contact.Instagram, u.Contact.Instagram)
	}

	if u.Projects != nil {
		out.Projects = reconcileProjects(original.Projects, u.Projects, policy)
	}
	if u.Resources != nil {
		out.Resources = reconcileResources(original.Resources, u.Resources, policy)
	}
	return out, nil
}

func reconcileProjects(original []Project, returned []ProjectUpdate, policy ItemPolicy) []Project {
	merge := func(orig Project, pu ProjectUpdate) Project {
		merged := orig.Clone()
		setIf(&merged.Title, pu.Title)
		setIf(&merged.Category, pu.Category)
		setIf(&merged.Description, pu.Description)
		return merged
	}

	byID := make(map[string]Project, len(original))
	for _, p := range original {
		byID[p.ID] = p
	}

	if policy == PolicyReplace {
		out := make([]Project, 0, len(returned))
		for _, pu := range returned {
			out = append(out, merge(byID[pu.ID], pu))
		}
		return out
	}

	updates := make(map[string]ProjectUpdate, len(returned))
	for _, pu := range returned {
		updates[pu.ID] = pu
	}
	out := make([]Project, 0, len(original))
	for _, orig := range original {
		if pu, ok := updates[orig.ID]; ok {
			out = append(out, merge(orig, pu))
			continue
		}
		out = append(out, orig.Clone())
	}
	return out
}

func reconcileResources(original []Resource, returned []ResourceUpdate, policy ItemPolicy) []Resource {
	merge := func(orig Resource, ru ResourceUpdate) Resource {
		setIf(&orig.Title, ru.Title)
		setIf(&orig.Description, ru.Description)
		setIf(&orig.FileURL, ru.FileURL)
		return orig
	}

	byID := make(map[string]Resource, len(original))
	for _, r := range original {
		byID[r.ID] = r
	}

	if policy == PolicyReplace {
		out := make([]Resource, 0, len(returned))
		for _, ru := range returned {
			out = append(out, merge(byID[ru.ID], ru))
		}
		return out
	}

	updates := make(map[string]ResourceUpdate, len(returned))
	for _, ru := range returned {
		updates[ru.ID] = ru
	}
	out := make([]Resource, 0, len(original))
	for _, orig := range original {
		if ru, ok := updates[orig.ID]; ok {
			out = append(out, merge(orig, ru))
			continue
		}
		out = append(out, orig)
	}
	return out
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
