package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/holocron/internal/models"
	"github.com/desertthunder/holocron/internal/shared"
	"github.com/urfave/cli/v3"
)

// UserCreate creates a user account.
func (r *Runner) UserCreate(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	user := models.NewUser(cmd.String("email"), cmd.String("password"), cmd.String("first-name"), cmd.String("last-name"))
	user.IsActive = !cmd.Bool("inactive")
	user.SetProfileImage(cmd.String("profile-image"))

	if err := store.Users.Create(ctx, user); err != nil {
		return err
	}

	r.logger.Info("user created", "id", user.ID, "email", user.Email)
	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}
	r.writePlain("✓ Created user %d (%s)\n", user.ID, user.Email)
	return nil
}

// UserGet shows one user looked up by id or email.
func (r *Runner) UserGet(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	var user *models.User
	switch {
	case cmd.Int64("id") > 0:
		user, err = store.Users.Get(ctx, cmd.Int64("id"))
	case cmd.String("email") != "":
		user, err = store.Users.GetByEmail(ctx, cmd.String("email"))
	default:
		return fmt.Errorf("%w: --id or --email", shared.ErrMissingArgument)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}
	r.printUser(user)
	return nil
}

// UserList lists users matching the given filters.
func (r *Runner) UserList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if email := cmd.String("email"); email != "" {
		criteria["email"] = email
	}
	if cmd.IsSet("active") {
		criteria["is_active"] = cmd.Bool("active")
	}

	users, err := store.Users.List(ctx, criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, cmd.Bool("pretty"))
	}
	r.writePlainHeader(fmt.Sprintf("Users (%d)", len(users)))
	for _, u := range users {
		state := "active"
		if !u.IsActive {
			state = "inactive"
		}
		r.writePlain("%4d  %-30s %-25s %s\n", u.ID, u.Email, u.FullName(), state)
	}
	return nil
}

// UserUpdate applies only the flags that were given.
func (r *Runner) UserUpdate(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	user, err := store.Users.Get(ctx, cmd.Int64("id"))
	if err != nil {
		return err
	}

	if cmd.IsSet("email") {
		user.Email = cmd.String("email")
	}
	if cmd.IsSet("password") {
		user.Password = cmd.String("password")
	}
	if cmd.IsSet("first-name") {
		user.FirstName = cmd.String("first-name")
	}
	if cmd.IsSet("last-name") {
		user.LastName = cmd.String("last-name")
	}
	if cmd.IsSet("profile-image") {
		user.SetProfileImage(cmd.String("profile-image"))
	}
	if cmd.IsSet("active") {
		user.IsActive = cmd.Bool("active")
	}

	if err := store.Users.Update(ctx, user); err != nil {
		return err
	}

	r.logger.Info("user updated", "id", user.ID)
	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}
	r.writePlain("✓ Updated user %d\n", user.ID)
	return nil
}

// UserDelete deletes a user and reports how many favorites went with it.
func (r *Runner) UserDelete(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	report, err := store.DeleteUser(ctx, cmd.Int64("id"))
	if err != nil {
		return err
	}

	r.logger.Info("user deleted", "id", report.UserID, "favorites", report.Total())
	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}
	r.writePlain("✓ Deleted user %d\n", report.UserID)
	for _, kind := range models.FavoriteKinds {
		r.writePlain("  %-10s %d favorites removed\n", kind, report.Favorites[kind])
	}
	return nil
}

// UserFavorites lists every favorite a user holds, oldest first.
func (r *Runner) UserFavorites(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	entries, err := store.UserFavorites(ctx, cmd.Int64("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}
	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(entries)))
	for _, e := range entries {
		r.writePlain("%4d  %-10s %-30s %s", e.ID, e.Kind, e.TargetName, e.DateAdded.Format("2006-01-02"))
		if notes := models.Deref(e.Notes); notes != "" {
			r.writePlain("  %s", notes)
		}
		r.writePlain("\n")
	}
	return nil
}

func (r *Runner) printUser(u *models.User) {
	r.writePlain("ID: %d\n", u.ID)
	r.writePlain("Email: %s\n", u.Email)
	r.writePlain("Name: %s\n", u.FullName())
	r.writePlain("Active: %t\n", u.IsActive)
	r.writePlain("Subscribed: %s\n", u.SubscriptionDate.Format("2006-01-02"))
	if img := models.Deref(u.ProfileImage); img != "" {
		r.writePlain("Profile image: %s\n", img)
	}
}
