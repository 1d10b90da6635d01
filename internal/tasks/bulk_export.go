package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/desertthunder/holocron/internal/formatter"
	"github.com/desertthunder/holocron/internal/repositories"
	"github.com/desertthunder/holocron/internal/shared"
)

// BulkExportOpts contains configuration for bulk favorites exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format: json, csv, markdown, txt
	OutputDir  string           // Base output directory (default: favorites_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 4, max: 10)
}

type exportResult struct {
	entry formatter.ManifestEntry
	err   error
}

// BulkExport writes one favorites file per user concurrently and a manifest summarizing the run.
//
// An empty userIDs exports every user. Per-user failures are recorded in the manifest
// and do not abort the run.
func BulkExport(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	store *repositories.Store,
	userIDs []int64,
	opts BulkExportOpts,
) (*formatter.Manifest, string, error) {
	if store == nil {
		return nil, "", fmt.Errorf("%w: store not initialized", shared.ErrMissingConfig)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("favorites_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}

	if len(userIDs) == 0 {
		users, err := store.Users.List(ctx, nil)
		if err != nil {
			return nil, "", fmt.Errorf("failed to list users: %w", err)
		}
		for _, u := range users {
			userIDs = append(userIDs, u.ID)
		}
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create output directory: %w", err)
	}

	manifest := &formatter.Manifest{
		RunID:     shared.GenerateID(),
		Format:    opts.Format,
		CreatedAt: time.Now().UTC(),
		Total:     len(userIDs),
		Entries:   make([]formatter.ManifestEntry, 0, len(userIDs)),
	}

	jobs := make(chan int64, len(userIDs))
	results := make(chan exportResult, len(userIDs))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go exportWorker(ctx, &wg, store, jobs, results, opts)
	}

	for _, id := range userIDs {
		jobs <- id
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		manifest.Entries = append(manifest.Entries, res.entry)

		if res.err == nil {
			manifest.Successful++
			sendProgress(progress, exportCompletedUpdate(completed, len(userIDs), res.entry.Email, res.entry.Favorites))
		} else {
			manifest.Failed++
			sendProgress(progress, exportFailedUpdate(completed, len(userIDs), res.entry.UserID, res.err))
		}
	}

	sort.Slice(manifest.Entries, func(a, b int) bool {
		return manifest.Entries[a].UserID < manifest.Entries[b].UserID
	})

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(manifest, manifestPath); err != nil {
		return manifest, "", fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	return manifest, manifestPath, nil
}

// exportWorker is a worker goroutine that exports users from the jobs channel.
func exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	store *repositories.Store,
	jobs <-chan int64,
	results chan<- exportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for userID := range jobs {
		if err := ctx.Err(); err != nil {
			results <- exportResult{entry: formatter.ManifestEntry{UserID: userID, Error: err.Error()}, err: err}
			continue
		}
		results <- exportUser(ctx, store, userID, opts)
	}
}

func exportUser(ctx context.Context, store *repositories.Store, userID int64, opts BulkExportOpts) exportResult {
	entry := formatter.ManifestEntry{UserID: userID}

	fail := func(err error) exportResult {
		entry.Error = err.Error()
		return exportResult{entry: entry, err: err}
	}

	user, err := store.Users.Get(ctx, userID)
	if err != nil {
		return fail(err)
	}
	entry.Email = user.Email

	entries, err := store.UserFavorites(ctx, userID)
	if err != nil {
		return fail(err)
	}

	export := formatter.NewFavoritesExport(user, entries)
	path := filepath.Join(opts.OutputDir, formatter.DefaultFilename(userID, opts.Format))

	written, err := formatter.WriteExport(export, opts.Format, path)
	if err != nil {
		return fail(err)
	}

	entry.File = written
	entry.Favorites = len(entries)
	return exportResult{entry: entry}
}
