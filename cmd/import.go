package main

import (
	"context"
	"time"

	"github.com/desertthunder/holocron/internal/services"
	"github.com/desertthunder/holocron/internal/shared"
	"github.com/desertthunder/holocron/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ImportSWAPI seeds planets, characters and vehicles from SWAPI.
//
// Flags override the [importer] section of the config.
func (r *Runner) ImportSWAPI(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	cfg := r.config.Importer
	if cmd.IsSet("base-url") {
		cfg.BaseURL = cmd.String("base-url")
	}
	if cmd.IsSet("workers") {
		cfg.Workers = cmd.Int("workers")
	}
	if cmd.IsSet("rate-limit") {
		cfg.RateLimit = cmd.Float("rate-limit")
	}

	client := services.NewSWAPIClient(cfg.BaseURL, r.httpClient)
	importer := tasks.NewImporter(client, store, tasks.ImportOpts{
		NumWorkers: cfg.Workers,
		RateLimit:  cfg.RateLimit,
		Logger:     shared.WithLogger(r.logger, "source", client.Name()),
	})

	r.logger.Info("starting import", "source", client.BaseURL(), "workers", cfg.Workers, "rate", cfg.RateLimit)
	if !cmd.Bool("json") {
		r.writePlain("Importing catalog from %s...\n\n", client.BaseURL())
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if cmd.Bool("json") {
				continue
			}
			switch update.Phase {
			case tasks.FetchPlanets, tasks.FetchPeople, tasks.FetchVehicles:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.Complete:
			default:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := importer.Run(ctx, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlainln("")
	r.writePlainHeader("Import Complete!")
	r.writePlain("Run: %s (%s)\n", result.RunID, result.Duration().Round(time.Millisecond))
	r.writePlain("%-12s %8s %8s %8s\n", "", "created", "skipped", "failed")
	for _, row := range []struct {
		name   string
		counts tasks.EntityCounts
	}{
		{"Planets", result.Planets},
		{"Characters", result.Characters},
		{"Vehicles", result.Vehicles},
	} {
		r.writePlain("%-12s %8d %8d %8d\n", row.name, row.counts.Created, row.counts.Skipped, row.counts.Failed)
	}

	if len(result.Issues) > 0 {
		r.writePlain("\nIssues:\n")
		for _, issue := range result.Issues {
			r.writePlain("  - %s %s: %s\n", issue.Entity, issue.Name, issue.Reason)
		}
	}
	return nil
}
