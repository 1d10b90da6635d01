package main

import (
	"context"

	"github.com/desertthunder/holocron/internal/models"
	"github.com/urfave/cli/v3"
)

// FavoriteAdd favorites a catalog entity for a user.
//
// JSON output is the favorite's public {id, email} view.
func (r *Runner) FavoriteAdd(ctx context.Context, cmd *cli.Command) error {
	kind, err := models.ParseFavoriteKind(cmd.String("kind"))
	if err != nil {
		return err
	}

	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	fav := models.NewFavorite(kind, cmd.Int64("user-id"), cmd.Int64("target-id"), cmd.String("notes"))
	if err := store.Favorites(kind).Create(ctx, fav); err != nil {
		return err
	}

	r.logger.Info("favorite added", "kind", kind, "id", fav.ID, "user", fav.UserID, "target", fav.TargetID)
	if cmd.Bool("json") {
		view, err := store.SerializeFavorite(ctx, kind, fav.ID)
		if err != nil {
			return err
		}
		return r.writeJSON(view, cmd.Bool("pretty"))
	}
	r.writePlain("✓ Added %s favorite %d for user %d\n", kind, fav.ID, fav.UserID)
	return nil
}

// FavoriteShow prints the favorite's public view.
func (r *Runner) FavoriteShow(ctx context.Context, cmd *cli.Command) error {
	kind, err := models.ParseFavoriteKind(cmd.String("kind"))
	if err != nil {
		return err
	}

	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	view, err := store.SerializeFavorite(ctx, kind, cmd.Int64("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(view, cmd.Bool("pretty"))
	}
	r.writePlain("ID: %d\n", view.ID)
	r.writePlain("Email: %s\n", view.Email)
	return nil
}

// FavoriteNotes replaces the notes on a favorite.
func (r *Runner) FavoriteNotes(ctx context.Context, cmd *cli.Command) error {
	kind, err := models.ParseFavoriteKind(cmd.String("kind"))
	if err != nil {
		return err
	}

	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	repo := store.Favorites(kind)
	fav, err := repo.Get(ctx, cmd.Int64("id"))
	if err != nil {
		return err
	}

	fav.SetNotes(cmd.String("notes"))
	if err := repo.Update(ctx, fav); err != nil {
		return err
	}

	r.logger.Info("favorite notes updated", "kind", kind, "id", fav.ID)
	r.writePlain("✓ Updated notes on %s favorite %d\n", kind, fav.ID)
	return nil
}

// FavoriteRemove deletes a favorite row.
func (r *Runner) FavoriteRemove(ctx context.Context, cmd *cli.Command) error {
	kind, err := models.ParseFavoriteKind(cmd.String("kind"))
	if err != nil {
		return err
	}

	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	if err := store.RemoveFavorite(ctx, kind, id); err != nil {
		return err
	}

	r.logger.Info("favorite removed", "kind", kind, "id", id)
	r.writePlain("✓ Removed %s favorite %d\n", kind, id)
	return nil
}
