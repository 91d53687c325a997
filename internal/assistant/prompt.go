package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"archfolio/internal/portfolio"
)

const updateSystemInstruction = `You are an expert architectural writer and portfolio editor.
You receive an architecture portfolio as JSON and an editing request from its owner.
Apply the request and return the complete portfolio as JSON with exactly the same shape.
Rules:
- Keep every "id" value exactly as given. Never invent, rename or drop ids.
- Return every project and resource you were given, in the same order.
- Only change text the request asks you to change. Leave other values as they are.
- Write in a sophisticated, professional tone that highlights design principles.
- Return JSON only, with no commentary.`

const describeSystemInstruction = "You are an expert architectural writer, crafting compelling and professional project descriptions for high-end portfolios."

// updatePrompt builds the user turn: the projected document followed by the request.
func updatePrompt(doc portfolio.Portfolio, instruction string) (string, error) {
	data, err := json.MarshalIndent(portfolio.NewProjection(doc), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	var b strings.Builder
	b.WriteString("Current portfolio:\n")
	b.Write(data)
	b.WriteString("\n\nRequest:\n")
	b.WriteString(strings.TrimSpace(instruction))
	return b.String(), nil
}

func describePrompt(keywords string) string {
	return fmt.Sprintf("Based on these keywords: %q, write a compelling and professional project description "+
		"for an architecture portfolio. The tone should be sophisticated and highlight design principles. "+
		"Keep it to one paragraph.", keywords)
}

// updateSchema mirrors portfolio.Projection. Every project and resource requires its id.
func updateSchema(withResources bool) *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}

	profile := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":  str("Full name of the architect"),
			"title": str("Professional title"),
			"bio":   str("Short biography"),
		},
		PropertyOrdering: []string{"name", "title", "bio"},
		Required:         []string{"name", "title", "bio"},
	}

	project := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":          str("Unchanged project id"),
			"title":       str("Project title"),
			"category":    str("Project category, e.g. Residential"),
			"description": str("Project description"),
		},
		PropertyOrdering: []string{"id", "title", "category", "description"},
		Required:         []string{"id", "title", "category", "description"},
	}

	contact := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"email":     str("Contact email"),
			"phone":     str("Contact phone"),
			"website":   str("Website without scheme"),
			"instagram": str("Instagram handle without @"),
		},
		PropertyOrdering: []string{"email", "phone", "website", "instagram"},
		Required:         []string{"email", "phone", "website", "instagram"},
	}

	root := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"profile":  profile,
			"projects": {Type: genai.TypeArray, Items: project},
			"contact":  contact,
		},
		PropertyOrdering: []string{"profile", "projects", "contact"},
		Required:         []string{"profile", "projects", "contact"},
	}

	if withResources {
		root.Properties["resources"] = &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":          str("Unchanged resource id"),
					"title":       str("Resource title"),
					"description": str("Resource description"),
					"fileUrl":     str("Download link"),
				},
				PropertyOrdering: []string{"id", "title", "description", "fileUrl"},
				Required:         []string{"id", "title", "description", "fileUrl"},
			},
		}
		root.PropertyOrdering = append(root.PropertyOrdering, "resources")
		root.Required = append(root.Required, "resources")
	}

	return root
}
