package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/folio/internal/folio"
)

type pocketClient interface {
	ListImportedLinks(ctx context.Context, status string) ([]folio.ImportedLink, error)
}

// NewPocketCmd creates the pocket command with explicit dependencies.
func NewPocketCmd(client pocketClient) *cobra.Command {
	if client == nil {
		panic("NewPocketCmd: client dependency cannot be nil")
	}

	var status string

	pocketCmd := &cobra.Command{
		Use:   "pocket",
		Short: "List links imported from Pocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status = strings.ToLower(strings.TrimSpace(status))
			if !slices.Contains(folio.StatusFilters(), status) {
				return fmt.Errorf("invalid status %q (want one of %s)", status, strings.Join(folio.StatusFilters(), ", "))
			}
			links, err := client.ListImportedLinks(cmd.Context(), status)
			if err != nil {
				return fmt.Errorf("list pocket links: %w", err)
			}
			return writeLinks(cmd.OutOrStdout(), links)
		},
	}

	pocketCmd.Flags().StringVar(&status, "status", folio.StatusUnread, "Status filter: unread, archive, all")
	return pocketCmd
}
