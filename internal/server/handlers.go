package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"archfolio/internal/assistant"
	"archfolio/internal/logging"
	"archfolio/internal/portfolio"
	"archfolio/internal/preview"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"version":    s.store.Version(),
		"ai":         s.assistant != nil && s.assistant.Configured(),
		"generating": s.assistant != nil && s.assistant.Generating(),
	})
}

func (s *Server) getPortfolio(c *gin.Context) {
	doc, version := s.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{"ok": true, "portfolio": doc, "version": version})
}

// fieldEdits is a partial update body: field name to new value.
type fieldEdits map[string]string

func (s *Server) updateProfile(c *gin.Context) {
	s.applyFields(c, func(p portfolio.Portfolio, field, value string) (portfolio.Portfolio, error) {
		return portfolio.SetProfileField(p, field, value)
	})
}

func (s *Server) updateContact(c *gin.Context) {
	s.applyFields(c, func(p portfolio.Portfolio, field, value string) (portfolio.Portfolio, error) {
		return portfolio.SetContactField(p, field, value)
	})
}

func (s *Server) updateResource(c *gin.Context) {
	id := c.Param("id")
	s.applyFields(c, func(p portfolio.Portfolio, field, value string) (portfolio.Portfolio, error) {
		return portfolio.SetResourceField(p, id, field, value)
	})
}

func (s *Server) applyFields(c *gin.Context, set func(portfolio.Portfolio, string, string) (portfolio.Portfolio, error)) {
	var edits fieldEdits
	if err := c.ShouldBindJSON(&edits); err != nil || len(edits) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	doc, err := s.store.Apply("edit", func(p portfolio.Portfolio) (portfolio.Portfolio, error) {
		var err error
		for field, value := range edits {
			if p, err = set(p, field, value); err != nil {
				return p, err
			}
		}
		return p, nil
	})
	if err != nil {
		writeEditError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "portfolio": doc})
}

// projectBody is the project editor payload. Images nil means "keep the current images".
type projectBody struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

func (s *Server) createProject(c *gin.Context) {
	var body projectBody
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	var saved portfolio.Project
	_, err := s.store.Apply("edit", func(p portfolio.Portfolio) (portfolio.Portfolio, error) {
		var out portfolio.Portfolio
		out, saved = portfolio.UpsertProject(p, portfolio.Project{
			Title:       body.Title,
			Category:    body.Category,
			Description: body.Description,
			Images:      body.Images,
		})
		return out, nil
	})
	if err != nil {
		writeEditError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": saved})
}

func (s *Server) updateProject(c *gin.Context) {
	id := c.Param("id")

	var body projectBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	var saved portfolio.Project
	_, err := s.store.Apply("edit", func(p portfolio.Portfolio) (portfolio.Portfolio, error) {
		existing, ok := p.FindProject(id)
		if !ok {
			return p, &notFoundError{kind: "project", id: id}
		}
		existing.Title = body.Title
		existing.Category = body.Category
		existing.Description = body.Description
		if body.Images != nil {
			existing.Images = body.Images
		}
		var out portfolio.Portfolio
		out, saved = portfolio.UpsertProject(p, existing)
		return out, nil
	})
	if err != nil {
		writeEditError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": saved})
}

func (s *Server) deleteProject(c *gin.Context) {
	id := c.Param("id")
	_, err := s.store.Apply("edit", func(p portfolio.Portfolio) (portfolio.Portfolio, error) {
		return portfolio.RemoveProject(p, id)
	})
	if err != nil {
		writeEditError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type resourceBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	FileURL     string `json:"fileUrl"`
}

// createResource adds a resource with the editor defaults, overridden by any
// non-empty field in the optional body.
func (s *Server) createResource(c *gin.Context) {
	var body resourceBody
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
			return
		}
	}

	var saved portfolio.Resource
	_, err := s.store.Apply("edit", func(p portfolio.Portfolio) (portfolio.Portfolio, error) {
		out, res := portfolio.AddResource(p)
		if body.Title != "" {
			res.Title = body.Title
		}
		if body.Description != "" {
			res.Description = body.Description
		}
		if body.FileURL != "" {
			res.FileURL = body.FileURL
		}
		out, saved = portfolio.UpsertResource(out, res)
		return out, nil
	})
	if err != nil {
		writeEditError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "resource": saved})
}

func (s *Server) deleteResource(c *gin.Context) {
	id := c.Param("id")
	_, err := s.store.Apply("edit", func(p portfolio.Portfolio) (portfolio.Portfolio, error) {
		return portfolio.RemoveResource(p, id)
	})
	if err != nil {
		writeEditError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type aiUpdateReq struct {
	Instruction string `json:"instruction"`
}

func (s *Server) aiUpdate(c *gin.Context) {
	var req aiUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if s.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "AI update failed: " + assistant.ErrConfiguration.Error()})
		return
	}

	doc, err := s.assistant.Apply(c.Request.Context(), s.store, req.Instruction)
	if err != nil {
		logging.Server("ai-update rejected: %v", err)
		c.JSON(aiStatus(err), gin.H{"ok": false, "error": err.Error(), "portfolio": doc})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "portfolio": doc})
}

func aiStatus(err error) int {
	switch {
	case errors.Is(err, assistant.ErrBusy), errors.Is(err, assistant.ErrStale):
		return http.StatusConflict
	case errors.Is(err, assistant.ErrConfiguration):
		return http.StatusServiceUnavailable
	case errors.Is(err, assistant.ErrNoInstruction):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

type describeReq struct {
	Keywords string `json:"keywords"`
}

func (s *Server) describe(c *gin.Context) {
	var req describeReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Keywords) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if s.assistant == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "description": assistant.DescribeMissingKey})
		return
	}

	text, err := s.assistant.Describe(c.Request.Context(), req.Keywords)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error(), "description": text})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "description": text})
}

func (s *Server) previewHTML(c *gin.Context) {
	page, err := preview.HTML(s.store.Current())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) previewMarkdown(c *gin.Context) {
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(preview.Markdown(s.store.Current())))
}

type notFoundError struct {
	kind, id string
}

func (e *notFoundError) Error() string { return e.kind + " " + e.id + " not found" }

func (e *notFoundError) Unwrap() error { return portfolio.ErrUnknownID }

func writeEditError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, portfolio.ErrUnknownID):
		status = http.StatusNotFound
	case errors.Is(err, portfolio.ErrUnknownField),
		errors.Is(err, portfolio.ErrDuplicateID),
		errors.Is(err, portfolio.ErrEmptyID):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}
