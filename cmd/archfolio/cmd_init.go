package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"archfolio/internal/config"
	"archfolio/internal/portfolio"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file and a starter portfolio in the workspace",
	Long: `Writes .archfolio/config.yaml with the defaults and, unless it already exists,
the document file filled with the starter portfolio.

Existing files are kept unless --force is given.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	configPath := filepath.Join(workspace, config.DefaultConfigPath)
	if initForce || !exists(configPath) {
		initial := config.DefaultConfig()
		initial.Document.Path = cfg.Document.Path
		if initial.Document.Path == "" {
			initial.Document.Path = defaultDocument
		}
		initial.Document.ItemPolicy = cfg.Document.ItemPolicy
		// the key stays in the environment
		if err := initial.Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", configPath)
	} else {
		fmt.Fprintf(out, "Kept %s\n", configPath)
	}

	docPath := documentPath()
	if initForce || !exists(docPath) {
		if err := portfolio.Export(docPath, portfolio.Preset()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", docPath)
	} else {
		fmt.Fprintf(out, "Kept %s\n", docPath)
	}

	if !cfg.HasAPIKey() {
		fmt.Fprintln(out, "Set GEMINI_API_KEY (or API_KEY) in the environment or .env to enable the AI assistant.")
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
