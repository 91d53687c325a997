package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"archfolio/internal/assistant"
	"archfolio/internal/portfolio"
)

type stubGenerator struct {
	text    string
	err     error
	started chan struct{}
	release chan struct{}
}

func (g *stubGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if g.release != nil {
		g.started <- struct{}{}
		<-g.release
	}
	if g.err != nil {
		return nil, g.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(g.text, genai.RoleModel)}},
	}, nil
}

type apiResponse struct {
	OK          bool                `json:"ok"`
	Error       string              `json:"error"`
	Portfolio   portfolio.Portfolio `json:"portfolio"`
	Project     portfolio.Project   `json:"project"`
	Resource    portfolio.Resource  `json:"resource"`
	Description string              `json:"description"`
}

func setup(t *testing.T, gen assistant.Generator, key string) (*Server, *portfolio.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := portfolio.NewStore(portfolio.Preset())
	asst, err := assistant.New(context.Background(), assistant.Options{APIKey: key, Generator: gen})
	require.NoError(t, err)
	return New(store, asst, Options{AllowedOrigins: []string{"http://localhost:5173"}}), store
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	var resp apiResponse
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func echo(t *testing.T, doc portfolio.Portfolio, edit func(*portfolio.Projection)) string {
	t.Helper()
	pr := portfolio.NewProjection(doc)
	edit(&pr)
	data, err := json.Marshal(pr)
	require.NoError(t, err)
	return string(data)
}

func TestHealthAndGet(t *testing.T) {
	s, _ := setup(t, &stubGenerator{}, "")

	rr, resp := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, resp.OK)
	assert.Contains(t, rr.Body.String(), `"ai":false`)

	rr, resp = do(t, s, http.MethodGet, "/api/portfolio", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, portfolio.Preset(), resp.Portfolio)
}

func TestFieldEdits(t *testing.T) {
	s, store := setup(t, nil, "")

	rr, resp := do(t, s, http.MethodPut, "/api/portfolio/profile", `{"name":"A. Shaban","bio":"Short."}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "A. Shaban", resp.Portfolio.Profile.Name)
	assert.Equal(t, "Short.", store.Current().Profile.Bio)

	rr, _ = do(t, s, http.MethodPut, "/api/portfolio/contact", `{"fax":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = do(t, s, http.MethodPut, "/api/portfolio/contact", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "A. Shaban", store.Current().Profile.Name)
}

func TestProjectRoutes(t *testing.T) {
	s, store := setup(t, nil, "")

	rr, resp := do(t, s, http.MethodPost, "/api/portfolio/projects", `{"title":"Pavilion","category":"Cultural","images":["a","b"]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	id := resp.Project.ID
	assert.True(t, strings.HasPrefix(id, "proj-"))
	assert.Len(t, store.Current().Projects, 3)

	rr, resp = do(t, s, http.MethodPut, "/api/portfolio/projects/"+id, `{"title":"Pavilion II","category":"Cultural","images":["b","a"]}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, []string{"b", "a"}, resp.Project.Images)

	rr, resp = do(t, s, http.MethodPut, "/api/portfolio/projects/proj1", `{"title":"Serenity","category":"Residential"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, resp.Project.Images, 3, "omitted images are kept")

	rr, _ = do(t, s, http.MethodPut, "/api/portfolio/projects/proj9", `{"title":"X"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = do(t, s, http.MethodDelete, "/api/portfolio/projects/"+id, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	rr, _ = do(t, s, http.MethodDelete, "/api/portfolio/projects/"+id, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = do(t, s, http.MethodPost, "/api/portfolio/projects", `{"title":" "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestResourceRoutes(t *testing.T) {
	s, store := setup(t, nil, "")

	rr, resp := do(t, s, http.MethodPost, "/api/portfolio/resources", "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, portfolio.DefaultResourceTitle, resp.Resource.Title)
	id := resp.Resource.ID

	rr, resp = do(t, s, http.MethodPost, "/api/portfolio/resources", `{"title":"Guide","fileUrl":"/g.pdf"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Guide", resp.Resource.Title)
	assert.Equal(t, portfolio.DefaultResourceDescription, resp.Resource.Description)

	rr, _ = do(t, s, http.MethodPut, "/api/portfolio/resources/"+id, `{"fileUrl":"/price.pdf"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	res, ok := store.Current().FindResource(id)
	require.True(t, ok)
	assert.Equal(t, "/price.pdf", res.FileURL)

	rr, _ = do(t, s, http.MethodDelete, "/api/portfolio/resources/"+id, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, store.Current().Resources, 1)
}

func TestAIUpdate(t *testing.T) {
	t.Run("success commits", func(t *testing.T) {
		gen := &stubGenerator{text: echo(t, portfolio.Preset(), func(pr *portfolio.Projection) {
			pr.Profile.Title = "Architect"
		})}
		s, store := setup(t, gen, "key")

		rr, resp := do(t, s, http.MethodPost, "/api/portfolio/ai-update", `{"instruction":"shorter title"}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "Architect", resp.Portfolio.Profile.Title)
		assert.Equal(t, "Architect", store.Current().Profile.Title)
		assert.Equal(t, portfolio.Preset().Projects[0].Images, store.Current().Projects[0].Images)
	})

	tests := []struct {
		name   string
		gen    *stubGenerator
		key    string
		body   string
		status int
	}{
		{"missing key", &stubGenerator{}, "", `{"instruction":"x"}`, http.StatusServiceUnavailable},
		{"transport", &stubGenerator{err: errors.New("connection reset")}, "key", `{"instruction":"x"}`, http.StatusBadGateway},
		{"bad JSON", &stubGenerator{text: "nope"}, "key", `{"instruction":"x"}`, http.StatusBadGateway},
		{"blank instruction", &stubGenerator{}, "key", `{"instruction":"  "}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := setup(t, tt.gen, tt.key)

			rr, resp := do(t, s, http.MethodPost, "/api/portfolio/ai-update", tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.False(t, resp.OK)
			if tt.status != http.StatusBadRequest {
				assert.Contains(t, resp.Error, "AI update failed")
			}
			assert.Equal(t, uint64(0), store.Version())
			assert.Equal(t, portfolio.Preset(), store.Current())
		})
	}
}

func TestAIUpdate_BusyReturnsConflict(t *testing.T) {
	gen := &stubGenerator{
		text:    echo(t, portfolio.Preset(), func(*portfolio.Projection) {}),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s, _ := setup(t, gen, "key")

	done := make(chan int, 1)
	go func() {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/ai-update", strings.NewReader(`{"instruction":"first"}`))
		req.Header.Set("Content-Type", "application/json")
		s.Handler().ServeHTTP(rr, req)
		done <- rr.Code
	}()
	<-gen.started

	rr, resp := do(t, s, http.MethodPost, "/api/portfolio/ai-update", `{"instruction":"second"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, resp.Error, "already in progress")

	close(gen.release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestDescribe(t *testing.T) {
	s, _ := setup(t, &stubGenerator{text: "never"}, "")
	rr, resp := do(t, s, http.MethodPost, "/api/describe", `{"keywords":"modern, glass"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, assistant.DescribeMissingKey, resp.Description)

	s, _ = setup(t, &stubGenerator{err: errors.New("boom")}, "key")
	rr, resp = do(t, s, http.MethodPost, "/api/describe", `{"keywords":"modern"}`)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, assistant.DescribeFailed, resp.Description)
}

func TestPreview(t *testing.T) {
	s, _ := setup(t, nil, "")

	rr, _ := do(t, s, http.MethodGet, "/preview", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "Featured Work")

	rr, _ = do(t, s, http.MethodGet, "/preview.md", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "# Ayub Shaban")
}

func TestCORS(t *testing.T) {
	s, _ := setup(t, nil, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/portfolio", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}
