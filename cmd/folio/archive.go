package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/folio/internal/folio"
)

type archiveClient interface {
	ArchiveBookmark(ctx context.Context, id string) (folio.Bookmark, error)
}

// NewArchiveCmd creates the archive command with explicit dependencies.
func NewArchiveCmd(client archiveClient) *cobra.Command {
	if client == nil {
		panic("NewArchiveCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return fmt.Errorf("archive requires a bookmark id")
			}
			b, err := client.ArchiveBookmark(cmd.Context(), id)
			switch {
			case folio.IsNotFound(err):
				return fmt.Errorf("bookmark %s not found", id)
			case err != nil:
				return fmt.Errorf("archive bookmark: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "archived %s\n", b.ID)
			return err
		},
	}
}
