package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/cobra"

	"archfolio/internal/logging"
	"archfolio/internal/portfolio"
)

var (
	updateOut    string
	updateDryRun bool
	updateDiff   bool
)

var updateCmd = &cobra.Command{
	Use:   "update [instruction]",
	Short: "Apply one AI update to the document and save it",
	Long: `Sends the document text and the instruction to Gemini, merges the rewritten
text back into the document and writes the result.

Image URLs, the profile image and item ids are never sent to the model and are
kept as they are. On any failure the document file is left untouched.

Example:
  archfolio update "make the project descriptions more concise"
  archfolio update --diff --dry-run "rewrite the bio for a senior architect"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpdate,
}

var describeCmd = &cobra.Command{
	Use:   "describe [keywords]",
	Short: "Generate a one-paragraph project description from keywords",
	Example: `  archfolio describe "modern, glass, sustainable, hillside"`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDescribe,
}

func init() {
	updateCmd.Flags().StringVarP(&updateOut, "out", "o", "", "Write the result here instead of the document path")
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "Print the result instead of writing it")
	updateCmd.Flags().BoolVar(&updateDiff, "diff", false, "Print what the update changed")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	instruction := joinArgs(args)
	doc, err := loadDocument()
	if err != nil {
		return err
	}
	store := portfolio.NewStore(doc)

	asst, err := newAssistant(ctx)
	if err != nil {
		return err
	}

	callCtx, callCancel := context.WithTimeout(ctx, cfg.GetLLMTimeout())
	defer callCancel()

	updated, err := asst.Apply(callCtx, store, instruction)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if updateDiff {
		if diff := documentDiff(doc, updated); diff != "" {
			fmt.Fprintf(out, "Changes (-before +after):\n%s\n", diff)
		} else {
			fmt.Fprintln(out, "No changes.")
		}
	}

	path := updateOut
	if path == "" {
		path = documentPath()
	}
	if updateDryRun {
		data, err := portfolio.Encode(updated, portfolio.FormatForPath(path))
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	if err := portfolio.Export(path, updated); err != nil {
		return err
	}
	logging.Boot("AI update written to %s", path)
	fmt.Fprintf(out, "Updated %s\n", path)
	return nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	asst, err := newAssistant(ctx)
	if err != nil {
		return err
	}

	callCtx, callCancel := context.WithTimeout(ctx, cfg.GetLLMTimeout())
	defer callCancel()

	text, err := asst.Describe(callCtx, joinArgs(args))
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

// documentDiff reports the changes between two documents; empty and nil
// collections compare equal.
func documentDiff(before, after portfolio.Portfolio) string {
	return cmp.Diff(before, after, cmpopts.EquateEmpty())
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
