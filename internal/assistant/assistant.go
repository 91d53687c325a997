// Package assistant asks a Gemini model to rewrite portfolio text and merges the
// answer back into the document.
//
// The model only ever sees portfolio.NewProjection(doc): no image URLs and no profile
// image. Its answer is treated as untrusted input. It must be a JSON object with the
// document's top-level shape, and every project or resource it returns must carry an
// id the document already has. Anything else fails the whole update and leaves the
// document as it was.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"google.golang.org/genai"

	"archfolio/internal/logging"
	"archfolio/internal/portfolio"
	"archfolio/internal/usage"
)

// Placeholders returned by Describe in place of a description.
const (
	DescribeMissingKey = "API key not configured. Please set the API_KEY environment variable."
	DescribeFailed     = "Failed to generate description. Please check your API key and try again."
)

// ErrNoInstruction is the failure kind for a blank update request.
var ErrNoInstruction = errors.New("instruction is empty")

// Options configures an Assistant.
type Options struct {
	APIKey string
	Model  string
	Policy portfolio.ItemPolicy

	// Generator overrides the Gemini client. Nil builds one from APIKey.
	Generator Generator
	// HTTPClient is passed to the Gemini client when Generator is nil.
	HTTPClient *http.Client
	// Usage records token counts. May be nil.
	Usage *usage.Tracker
}

// Assistant runs AI updates, at most one at a time.
type Assistant struct {
	apiKey string
	model  string
	policy portfolio.ItemPolicy
	gen    Generator
	usage  *usage.Tracker

	sem        *semaphore.Weighted
	generating atomic.Bool
}

// New creates an Assistant. A missing API key is not an error here; every update
// then fails with ErrConfiguration without touching the network.
func New(ctx context.Context, opts Options) (*Assistant, error) {
	a := &Assistant{
		apiKey: strings.TrimSpace(opts.APIKey),
		model:  strings.TrimSpace(opts.Model),
		policy: opts.Policy,
		gen:    opts.Generator,
		usage:  opts.Usage,
		sem:    semaphore.NewWeighted(1),
	}
	if a.model == "" {
		a.model = "gemini-2.5-flash"
	}
	if a.policy == "" {
		a.policy = portfolio.PolicyPreserve
	}

	if a.gen == nil && a.apiKey != "" {
		gen, err := NewGeminiGenerator(ctx, a.apiKey, opts.HTTPClient)
		if err != nil {
			return nil, err
		}
		a.gen = gen
	}

	if a.apiKey == "" {
		logging.AssistantDebug("no API key configured; AI features disabled")
	} else {
		logging.Assistant("assistant ready (model=%s, policy=%s)", a.model, a.policy)
	}
	return a, nil
}

// Configured reports whether an API key is available.
func (a *Assistant) Configured() bool { return a.apiKey != "" }

// Model returns the model id requests are sent to.
func (a *Assistant) Model() string { return a.model }

// Policy returns the item policy used when reconciling.
func (a *Assistant) Policy() portfolio.ItemPolicy { return a.policy }

// Generating reports whether an update is in flight. UIs use it to disable the trigger.
func (a *Assistant) Generating() bool { return a.generating.Load() }

// RequestUpdate sends doc and instruction to the model and returns the reconciled
// document. doc itself is never modified. A second call while one is in flight fails
// with ErrBusy instead of waiting.
func (a *Assistant) RequestUpdate(ctx context.Context, doc portfolio.Portfolio, instruction string) (portfolio.Portfolio, error) {
	if a.apiKey == "" || a.gen == nil {
		return doc, failure(ErrConfiguration, nil)
	}
	if strings.TrimSpace(instruction) == "" {
		return doc, failure(ErrNoInstruction, nil)
	}
	if !a.sem.TryAcquire(1) {
		logging.AssistantDebug("rejected update: another one is in flight")
		return doc, failure(ErrBusy, nil)
	}
	a.generating.Store(true)
	defer func() {
		a.generating.Store(false)
		a.sem.Release(1)
	}()

	original := doc.Clone()
	prompt, err := updatePrompt(original, instruction)
	if err != nil {
		return doc, failure(ErrSchema, err)
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(updateSystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    updateSchema(original.Resources != nil),
	}

	start := time.Now()
	logging.AssistantDebug("requesting update from %s (%d projects, %d resources, %d prompt bytes)",
		a.model, len(original.Projects), len(original.Resources), len(prompt))

	resp, err := a.gen.GenerateContent(ctx, a.model, []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, cfg)
	if err != nil {
		logTransportError(err)
		a.usage.TrackFailure()
		return doc, failure(ErrTransport, err)
	}
	if resp == nil {
		a.usage.TrackFailure()
		return doc, failure(ErrSchema, errors.New("empty response"))
	}
	a.trackUsage(usage.OpUpdate, resp)

	update, err := parseUpdate(resp.Text())
	if err != nil {
		logging.AssistantError("invalid response after %v: %v", time.Since(start), err)
		return doc, failure(ErrSchema, err)
	}

	next, err := portfolio.Reconcile(original, update, a.policy)
	if err != nil {
		logging.AssistantError("rejected response after %v: %v", time.Since(start), err)
		return doc, failure(ErrSchema, err)
	}

	logging.Assistant("update reconciled in %v", time.Since(start))
	return next, nil
}

// Apply runs RequestUpdate against the store's current document and commits the
// result only if nothing else was committed in the meantime.
func (a *Assistant) Apply(ctx context.Context, store *portfolio.Store, instruction string) (portfolio.Portfolio, error) {
	doc, version := store.Snapshot()

	next, err := a.RequestUpdate(ctx, doc, instruction)
	if err != nil {
		return doc, err
	}

	if err := store.CommitIf("assistant", version, next); err != nil {
		if errors.Is(err, portfolio.ErrVersionConflict) {
			logging.AssistantDebug("discarding update: %v", err)
			return store.Current(), failure(ErrStale, err)
		}
		return store.Current(), failure(ErrSchema, err)
	}
	return next, nil
}

// Describe writes a one-paragraph project description from keywords. Without an API
// key it returns DescribeMissingKey and a nil error without calling the model. When
// the call fails it returns DescribeFailed together with the error.
func (a *Assistant) Describe(ctx context.Context, keywords string) (string, error) {
	if a.apiKey == "" || a.gen == nil {
		return DescribeMissingKey, nil
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(describeSystemInstruction, genai.RoleUser),
	}
	resp, err := a.gen.GenerateContent(ctx, a.model, genai.Text(describePrompt(keywords)), cfg)
	if err != nil {
		logTransportError(err)
		a.usage.TrackFailure()
		return DescribeFailed, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if resp == nil {
		a.usage.TrackFailure()
		return DescribeFailed, fmt.Errorf("%w: empty response", ErrTransport)
	}
	a.trackUsage(usage.OpDescribe, resp)
	return strings.TrimSpace(resp.Text()), nil
}

// parseUpdate validates the model's text as a JSON object carrying profile, projects
// and contact, then decodes it.
func parseUpdate(text string) (portfolio.Update, error) {
	raw := []byte(stripFence(text))

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return portfolio.Update{}, fmt.Errorf("response is not a JSON object: %w", err)
	}
	for _, key := range []string{"profile", "projects", "contact"} {
		v, ok := top[key]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return portfolio.Update{}, fmt.Errorf("response is missing %q", key)
		}
	}

	var u portfolio.Update
	if err := json.Unmarshal(raw, &u); err != nil {
		return portfolio.Update{}, fmt.Errorf("response has the wrong shape: %w", err)
	}
	return u, nil
}

// stripFence removes a markdown code fence some models wrap JSON in despite the MIME hint.
func stripFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (a *Assistant) trackUsage(op string, resp *genai.GenerateContentResponse) {
	if resp.UsageMetadata == nil {
		return
	}
	md := resp.UsageMetadata
	logging.AssistantDebug("%s used %d prompt + %d output tokens", op, md.PromptTokenCount, md.CandidatesTokenCount)
	a.usage.Track(a.model, op, int(md.PromptTokenCount), int(md.CandidatesTokenCount))
}

func logTransportError(err error) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		logging.AssistantError("model returned HTTP %d (%s): %s", apiErr.Code, apiErr.Status, apiErr.Message)
		return
	}
	logging.AssistantError("model call failed: %v", err)
}
