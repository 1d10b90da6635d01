package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/holocron/internal/formatter"
	"github.com/desertthunder/holocron/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExportFavorites renders one user's favorites, to a file when --output is given and to stdout otherwise.
func (r *Runner) ExportFavorites(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	userID := cmd.Int64("user-id")
	user, err := store.Users.Get(ctx, userID)
	if err != nil {
		return err
	}

	entries, err := store.UserFavorites(ctx, userID)
	if err != nil {
		return err
	}

	export := formatter.NewFavoritesExport(user, entries)

	output := cmd.String("output")
	if output == "" {
		data, err := formatter.Render(export, format)
		if err != nil {
			return fmt.Errorf("failed to generate %s: %w", format, err)
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	path, err := formatter.WriteExport(export, format, output)
	if err != nil {
		return err
	}

	r.logger.Info("favorites exported", "user", userID, "format", format, "path", path)
	r.writePlain("✓ Exported %d favorites to %s\n", len(entries), path)
	return nil
}

// ExportBulk writes one favorites file per user and a manifest.
func (r *Runner) ExportBulk(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	manifest, manifestPath, err := tasks.BulkExport(ctx, progressCh, store, cmd.Int64Slice("user-id"), tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("dir"),
		NumWorkers: cmd.Int("workers"),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.logger.Info("bulk export finished", "run", manifest.RunID, "successful", manifest.Successful, "failed", manifest.Failed)
	r.writePlainln("")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Users: %d/%d exported\n", manifest.Successful, manifest.Total)
	if manifest.Failed > 0 {
		r.writePlain("\nFailed:\n")
		for _, e := range manifest.Entries {
			if e.Error != "" {
				r.writePlain("  - user %d: %s\n", e.UserID, e.Error)
			}
		}
	}
	r.writePlain("Manifest: %s\n", manifestPath)
	return nil
}
