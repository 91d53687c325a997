package portfolio

// Projection is the part of the document that leaves the process for the remote model.
// Project images and the profile image are left out: the model has no business
// inventing or reordering URLs, and they make up most of the payload.
type Projection struct {
	Profile   ProfileProjection    `json:"profile"`
	Projects  []ProjectProjection  `json:"projects"`
	Contact   Contact              `json:"contact"`
	Resources []ResourceProjection `json:"resources,omitempty"`
}

// ProfileProjection is Profile without ProfileImage.
type ProfileProjection struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Bio   string `json:"bio"`
}

// ProjectProjection is Project without Images.
type ProjectProjection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// ResourceProjection carries every resource field.
type ResourceProjection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FileURL     string `json:"fileUrl"`
}

// NewProjection builds the projection of p. It is deterministic and does not touch p.
func NewProjection(p Portfolio) Projection {
	out := Projection{
		Profile: ProfileProjection{
			Name:  p.Profile.Name,
			Title: p.Profile.Title,
			Bio:   p.Profile.Bio,
		},
		Projects: make([]ProjectProjection, 0, len(p.Projects)),
		Contact:  p.Contact,
	}
	for _, proj := range p.Projects {
		out.Projects = append(out.Projects, ProjectProjection{
			ID:          proj.ID,
			Title:       proj.Title,
			Category:    proj.Category,
			Description: proj.Description,
		})
	}
	if p.Resources != nil {
		out.Resources = make([]ResourceProjection, 0, len(p.Resources))
		for _, res := range p.Resources {
			out.Resources = append(out.Resources, ResourceProjection(res))
		}
	}
	return out
}

// Echo converts a projection back into an Update, as if the model had returned it unchanged.
func (pr Projection) Echo() Update {
	u := Update{
		Profile: &ProfileUpdate{
			Name:  strPtr(pr.Profile.Name),
			Title: strPtr(pr.Profile.Title),
			Bio:   strPtr(pr.Profile.Bio),
		},
		Projects: make([]ProjectUpdate, 0, len(pr.Projects)),
		Contact: &ContactUpdate{
			Email:     strPtr(pr.Contact.Email),
			Phone:     strPtr(pr.Contact.Phone),
			Website:   strPtr(pr.Contact.Website),
			Instagram: strPtr(pr.Contact.Instagram),
		},
	}
	for _, proj := range pr.Projects {
		u.Projects = append(u.Projects, ProjectUpdate{
			ID:          proj.ID,
			Title:       strPtr(proj.Title),
			Category:    strPtr(proj.Category),
			Description: strPtr(proj.Description),
		})
	}
	if pr.Resources != nil {
		u.Resources = make([]ResourceUpdate, 0, len(pr.Resources))
		for _, res := range pr.Resources {
			u.Resources = append(u.Resources, ResourceUpdate{
				ID:          res.ID,
				Title:       strPtr(res.Title),
				Description: strPtr(res.Description),
				FileURL:     strPtr(res.FileURL),
			})
		}
	}
	return u
}

func strPtr(s string) *string { return &s }
