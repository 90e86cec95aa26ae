package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/folio/internal/folio"
	"github.com/five82/folio/internal/state"
)

type addClient interface {
	CreateBookmark(ctx context.Context, rawURL string) (folio.Bookmark, error)
}

// NewAddCmd creates the add command with explicit dependencies.
func NewAddCmd(client addClient) *cobra.Command {
	if client == nil {
		panic("NewAddCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "add <url>",
		Short: "Bookmark a URL",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("add requires exactly one URL")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rawURL := strings.TrimSpace(args[0])
			if rawURL == "" {
				return errors.New(state.MsgURLRequired)
			}
			b, err := client.CreateBookmark(cmd.Context(), rawURL)
			switch {
			case folio.IsConflict(err):
				return errors.New(state.MsgAlreadyBookmarked)
			case err != nil:
				return fmt.Errorf("add bookmark: %w", err)
			}
			title := b.Title
			if title == "" {
				title = b.URL
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %s %s\n", b.ID, title)
			return err
		},
	}
}
