package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dconn.dev/portfolio-api/internal/models"
	"dconn.dev/portfolio-api/internal/store"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the catalog and report its contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
}

func runCheck(ctx context.Context, opts *rootOptions, out io.Writer) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	defer logger.Sync()

	st, err := store.Open(ctx, cfg.StorageDriver, cfg.StoragePath)
	if err != nil {
		return err
	}
	defer st.Close()

	catalog, err := st.Load(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d projects in %s\n", len(catalog.Projects), cfg.StoragePath)

	var ids []models.ID
	var counts []int
	for _, p := range catalog.Projects {
		id, ok := p.ID()
		if !ok {
			continue
		}
		i := indexOfID(ids, id)
		if i == -1 {
			ids = append(ids, id)
			counts = append(counts, 0)
			i = len(ids) - 1
		}
		counts[i]++
	}
	for i, id := range ids {
		if counts[i] > 1 {
			fmt.Fprintf(out, "  duplicate id %q appears %d times\n", id.String(), counts[i])
		}
	}
	return nil
}

func indexOfID(ids []models.ID, id models.ID) int {
	for i := range ids {
		if ids[i].Equal(id) {
			return i
		}
	}
	return -1
}
