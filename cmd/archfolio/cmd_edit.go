package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"archfolio/cmd/archfolio/editor"
	"archfolio/cmd/archfolio/ui"
	"archfolio/internal/logging"
	"archfolio/internal/portfolio"
	"archfolio/internal/watch"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the interactive portfolio editor (default)",
	Long: `Opens the terminal editor on the configured document.

Every keystroke updates the in-memory portfolio; ctrl+s writes it back to the
document file. With document.watch enabled, changes made to the file by other
programs are loaded into the editor.`,
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	doc, err := loadDocument()
	if err != nil {
		return err
	}
	store := portfolio.NewStore(doc)

	asst, err := newAssistant(ctx)
	if err != nil {
		return err
	}

	path := documentPath()
	var exporter editor.ExportFunc
	if cfg.Document.Watch {
		w, err := watch.New(path, store)
		if err == nil {
			if err = w.Start(ctx); err != nil {
				w.Stop()
			}
		}
		if err != nil {
			logging.BootWarn("document watch disabled: %v", err)
		} else {
			defer w.Stop()
			// ctrl+s goes through the watcher so the save is not reloaded
			exporter = w.Export
		}
	}

	m := editor.New(ctx, editor.Config{
		Store:          store,
		Assistant:      asst,
		ExportPath:     path,
		Exporter:       exporter,
		Styles:         ui.NewStyles(ui.ThemeFor(cfg.UI.Theme)),
		PreviewOnStart: cfg.UI.PreviewOnStart,
		WordWrap:       cfg.UI.WordWrap,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("editor failed: %w", err)
	}
	logging.Editor("editor closed at v%d", store.Version())
	return nil
}
