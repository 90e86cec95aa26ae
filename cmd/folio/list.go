package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/folio/internal/folio"
)

type listClient interface {
	ListBookmarks(ctx context.Context, archived bool) ([]folio.Bookmark, error)
}

// NewListCmd creates the list command with explicit dependencies.
func NewListCmd(client listClient) *cobra.Command {
	if client == nil {
		panic("NewListCmd: client dependency cannot be nil")
	}

	var archived bool

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		Long: `folio list - List bookmarks

Shows active bookmarks, or archived ones with --archived.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := client.ListBookmarks(cmd.Context(), archived)
			if err != nil {
				return fmt.Errorf("list bookmarks: %w", err)
			}
			return writeBookmarks(cmd.OutOrStdout(), items)
		},
	}

	listCmd.Flags().BoolVar(&archived, "archived", false, "Show archived bookmarks")
	return listCmd
}
