package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dconn.dev/portfolio-api/internal/store"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an empty catalog to the configured storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), opts, cmd.OutOrStdout(), force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing catalog")
	return cmd
}

func runInit(ctx context.Context, opts *rootOptions, out io.Writer, force bool) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.StorageDriver == store.DriverFile {
		if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), 0755); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	st, err := store.Open(ctx, cfg.StorageDriver, cfg.StoragePath)
	if err != nil {
		return err
	}
	defer st.Close()

	if !force {
		existing, err := st.Load(ctx)
		switch {
		case err == nil && len(existing.Projects) > 0:
			return fmt.Errorf("catalog at %s already holds %d projects; use --force to overwrite", cfg.StoragePath, len(existing.Projects))
		case err == nil:
			fmt.Fprintf(out, "Catalog at %s is already initialised\n", cfg.StoragePath)
			return nil
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("existing catalog is unreadable (%w); use --force to overwrite", err)
		}
	}

	if err := st.Save(ctx, store.EmptyCatalog()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Created empty catalog at %s\n", cfg.StoragePath)
	return nil
}
