// Package main implements the archfolio CLI.
//
// archfolio edits an architect's portfolio in the terminal and can ask Gemini to
// rewrite its text from a plain-language instruction.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"archfolio/internal/assistant"
	"archfolio/internal/config"
	"archfolio/internal/logging"
	"archfolio/internal/portfolio"
	"archfolio/internal/usage"
)

// defaultDocument is the export target when no document path is configured.
const defaultDocument = "portfolio.json"

var (
	verbose   bool
	apiKey    string
	workspace string
	timeout   time.Duration
	document  string
	policy    string

	cfg     *config.Config
	tracker *usage.Tracker

	// httpClient is handed to the Gemini client; nil uses the library default.
	httpClient *http.Client
)

var rootCmd = &cobra.Command{
	Use:   "archfolio",
	Short: "archfolio - terminal portfolio editor with an AI assistant",
	Long: `archfolio edits a single architecture portfolio: profile, featured projects,
downloadable resources and contact details.

The AI assistant rewrites the portfolio text from an instruction such as
"make the tone more professional". Image URLs and item ids are never changed by it.
Set GEMINI_API_KEY (or API_KEY) to enable the assistant.

Run without arguments to open the interactive editor.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bootstrap(); err != nil {
			return err
		}
		// stderr belongs to the TUI in the editor
		if name := cmd.Name(); name != "archfolio" && name != "edit" {
			logging.AttachConsole(verbose)
		}
		return nil
	},
	RunE: runEdit,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY / API_KEY env)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Model call timeout (default: llm.timeout from config)")
	rootCmd.PersistentFlags().StringVarP(&document, "document", "d", "", "Portfolio document, .json or .yaml (default: document.path from config)")
	rootCmd.PersistentFlags().StringVar(&policy, "policy", "", "Item reconciliation policy: preserve or replace")

	rootCmd.AddCommand(
		editCmd,
		updateCmd,
		describeCmd,
		previewCmd,
		initCmd,
		serveCmd,
		usageCmd,
	)
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the command line. Usage counts and logs are flushed whether or
// not the command failed; cobra skips post-run hooks after an error.
func execute() error {
	defer shutdown()
	return rootCmd.Execute()
}

func shutdown() {
	if err := tracker.Close(); err != nil {
		logging.BootWarn("failed to save usage: %v", err)
	}
	logging.CloseAll()
}

// bootstrap resolves the workspace, loads the config and applies flag overrides.
func bootstrap() error {
	if workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve workspace: %w", err)
		}
		workspace = wd
	}

	loaded, err := config.Load(filepath.Join(workspace, config.DefaultConfigPath))
	if err != nil {
		return err
	}
	if apiKey != "" {
		loaded.LLM.APIKey = apiKey
	}
	if document != "" {
		loaded.Document.Path = document
	}
	if policy != "" {
		loaded.Document.ItemPolicy = policy
	}
	if timeout > 0 {
		loaded.LLM.Timeout = timeout.String()
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded

	if err := logging.Initialize(workspace, logging.Config{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	logging.Boot("config loaded: model=%s policy=%s document=%q ai=%t",
		cfg.LLM.Model, cfg.Document.ItemPolicy, cfg.Document.Path, cfg.HasAPIKey())
	return nil
}

// documentPath returns the configured document path resolved against the workspace.
func documentPath() string {
	path := cfg.Document.Path
	if path == "" {
		path = defaultDocument
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workspace, path)
	}
	return path
}

// loadDocument reads the document file. A missing file starts from the preset.
func loadDocument() (portfolio.Portfolio, error) {
	path := documentPath()
	doc, err := portfolio.Import(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Boot("no document at %s, starting from the preset", path)
		return portfolio.Preset(), nil
	}
	if err != nil {
		return portfolio.Portfolio{}, err
	}
	return doc, nil
}

// newAssistant builds the assistant from the config. Without a key it still
// returns an assistant; update requests then fail with a configuration error.
func newAssistant(ctx context.Context) (*assistant.Assistant, error) {
	itemPolicy, err := portfolio.ParseItemPolicy(cfg.Document.ItemPolicy)
	if err != nil {
		return nil, err
	}
	if tracker == nil {
		if tracker, err = usage.NewTracker(workspace); err != nil {
			logging.BootWarn("token usage will not be recorded: %v", err)
		}
	}
	return assistant.New(ctx, assistant.Options{
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.LLM.Model,
		Policy:     itemPolicy,
		Usage:      tracker,
		HTTPClient: httpClient,
	})
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			logging.Boot("received %s, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
