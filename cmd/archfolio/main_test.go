package main

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archfolio/internal/assistant"
	"archfolio/internal/config"
	"archfolio/internal/portfolio"
	"archfolio/internal/usage"
)

// setupWorkspace points the CLI at a fresh workspace with no API key.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "API_KEY", "ARCHFOLIO_MODEL", "ARCHFOLIO_DOCUMENT", "ARCHFOLIO_ITEM_POLICY", "PORT"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	workspace = dir
	apiKey, document, policy = "", "", ""
	timeout = 0
	t.Cleanup(func() {
		_ = tracker.Close()
		workspace, cfg, tracker = "", nil, nil
	})

	require.NoError(t, bootstrap())
	return dir
}

func capture(cmd *cobra.Command) *bytes.Buffer {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	return &buf
}

func TestJoinArgs(t *testing.T) {
	assert.Equal(t, "make it shorter", joinArgs([]string{"make", "it", "shorter"}))
	assert.Equal(t, "", joinArgs([]string{" "}))
}

func TestBootstrap_FlagOverrides(t *testing.T) {
	setupWorkspace(t)

	policy = "replace"
	document = "folio.yaml"
	t.Cleanup(func() { policy, document = "", "" })
	require.NoError(t, bootstrap())

	assert.Equal(t, "replace", cfg.Document.ItemPolicy)
	assert.Equal(t, filepath.Join(workspace, "folio.yaml"), documentPath())

	policy = "merge"
	assert.Error(t, bootstrap())
}

func TestLoadDocument_MissingFileUsesPreset(t *testing.T) {
	setupWorkspace(t)

	doc, err := loadDocument()
	require.NoError(t, err)
	assert.Equal(t, portfolio.Preset(), doc)
}

func TestRunInit(t *testing.T) {
	dir := setupWorkspace(t)

	cmd := &cobra.Command{}
	out := capture(cmd)
	require.NoError(t, runInit(cmd, nil))
	assert.Contains(t, out.String(), "GEMINI_API_KEY")

	loaded, err := config.Load(filepath.Join(dir, config.DefaultConfigPath))
	require.NoError(t, err)
	assert.Equal(t, defaultDocument, loaded.Document.Path)
	assert.Empty(t, loaded.LLM.APIKey)

	doc, err := portfolio.Import(filepath.Join(dir, defaultDocument))
	require.NoError(t, err)
	assert.Equal(t, portfolio.Preset(), doc)

	// a second run keeps the edited document
	edited := portfolio.Preset()
	edited.Profile.Name = "Someone Else"
	require.NoError(t, portfolio.Export(filepath.Join(dir, defaultDocument), edited))
	out.Reset()
	require.NoError(t, runInit(cmd, nil))
	assert.Contains(t, out.String(), "Kept")

	doc, err = portfolio.Import(filepath.Join(dir, defaultDocument))
	require.NoError(t, err)
	assert.Equal(t, "Someone Else", doc.Profile.Name)
}

func TestRunPreview(t *testing.T) {
	setupWorkspace(t)
	t.Cleanup(func() { previewFormat, previewOut = "terminal", "" })

	cmd := &cobra.Command{}
	out := capture(cmd)

	previewFormat = "markdown"
	require.NoError(t, runPreview(cmd, nil))
	assert.Contains(t, out.String(), "# Ayub Shaban")

	previewFormat = "html"
	previewOut = filepath.Join(workspace, "preview.html")
	require.NoError(t, runPreview(cmd, nil))
	page, err := os.ReadFile(previewOut)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<h1")

	previewFormat = "pdf"
	assert.Error(t, runPreview(cmd, nil))
}

func TestRunUpdate_NoKeyLeavesDocument(t *testing.T) {
	dir := setupWorkspace(t)
	path := filepath.Join(dir, defaultDocument)
	require.NoError(t, portfolio.Export(path, portfolio.Preset()))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	cmd := &cobra.Command{}
	capture(cmd)
	err = runUpdate(cmd, []string{"make", "it", "shorter"})
	assert.ErrorIs(t, err, assistant.ErrConfiguration)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestExecute_FailedUpdateSavesUsage(t *testing.T) {
	dir := setupWorkspace(t)
	httpClient = &http.Client{Transport: failingTransport{}}
	t.Cleanup(func() {
		httpClient = nil
		rootCmd.SetArgs(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"update", "-w", dir, "--api-key", "test-key", "make", "it", "shorter"})

	err := execute()
	require.ErrorIs(t, err, assistant.ErrTransport)

	path := filepath.Join(dir, ".archfolio", "usage.json")
	require.FileExists(t, path)
	saved, err := usage.NewTracker(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Stats().Failures)
	assert.Zero(t, saved.Stats().Calls)
}

func TestRunDescribe_NoKeyPrintsPlaceholder(t *testing.T) {
	setupWorkspace(t)

	cmd := &cobra.Command{}
	out := capture(cmd)
	require.NoError(t, runDescribe(cmd, []string{"modern,", "glass"}))
	assert.Contains(t, out.String(), assistant.DescribeMissingKey)
}

func TestDocumentDiff(t *testing.T) {
	before := portfolio.Preset()
	after := before.Clone()
	assert.Empty(t, documentDiff(before, after))

	after.Contact.Phone = "+1 555 0100"
	assert.Contains(t, documentDiff(before, after), "+1 555 0100")
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf, usage.AggregatedStats{
		Calls:       3,
		Failures:    1,
		Total:       usage.TokenCounts{Input: 30, Output: 12, Total: 42},
		ByModel:     map[string]usage.TokenCounts{"gemini-2.5-flash": {Input: 30, Output: 12, Total: 42}},
		ByOperation: map[string]usage.TokenCounts{usage.OpUpdate: {Input: 30, Output: 12, Total: 42}},
	})

	out := buf.String()
	assert.Contains(t, out, "3 (1 failed)")
	assert.Contains(t, out, "gemini-2.5-flash")
	assert.Contains(t, out, "By operation")
}
