package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/five82/folio/internal/importer"
)

// NewImportCmd creates the import command with explicit dependencies.
func NewImportCmd(client importer.Creator, logger *log.Logger) *cobra.Command {
	if client == nil {
		panic("NewImportCmd: client dependency cannot be nil")
	}
	logger = cliLogger(logger)

	var dryRun bool

	importCmd := &cobra.Command{
		Use:   "import <bookmarks.html>",
		Short: "Import a browser bookmark export",
		Long: `folio import - Import a browser bookmark export

Reads a Netscape bookmark file (the HTML export from Firefox, Chrome or
Pocket) and bookmarks every http(s) link in it. Links that are already
bookmarked are counted and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open export: %w", err)
			}
			defer f.Close()

			links, err := importer.ParseNetscape(f)
			if err != nil {
				return fmt.Errorf("parse export: %w", err)
			}

			out := cmd.OutOrStdout()
			if dryRun {
				_, err = fmt.Fprintf(out, "%d links found\n", len(links))
				return err
			}

			sum, err := importer.Import(cmd.Context(), client, links, logger)
			fmt.Fprintln(out, sum.String())
			for _, fail := range sum.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", fail.URL, fail.Err)
			}
			if err != nil {
				return fmt.Errorf("import interrupted: %w", err)
			}
			if sum.Failed > 0 {
				return fmt.Errorf("%d of %d links failed", sum.Failed, sum.Total())
			}
			return nil
		},
	}

	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse the file and report the link count only")
	return importCmd
}
