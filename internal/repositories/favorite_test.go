package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/holocron/internal/models"
	"github.com/desertthunder/holocron/internal/shared"
)

func TestFavoriteRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create and Get", func(t *testing.T) {
		s := setupTestStore(t)
		user := mustCreateUser(t, s, "a@x.com")
		luke := mustCreateCharacter(t, s, "Luke Skywalker", "Tatooine")
		fav := mustFavorite(t, s, models.NewFavoriteCharacter(user.ID, luke.ID, "hero"))

		retrieved, err := s.FavoriteCharacters.Get(ctx, fav.ID)
		if err != nil {
			t.Fatalf("failed to get favorite: %v", err)
		}
		if retrieved.Kind != models.KindCharacter {
			t.Errorf("expected kind character, got %s", retrieved.Kind)
		}
		if retrieved.UserID != user.ID || retrieved.TargetID != luke.ID {
			t.Errorf("unexpected favorite %+v", retrieved)
		}
		if models.Deref(retrieved.Notes) != "hero" {
			t.Errorf("expected notes 'hero', got %q", models.Deref(retrieved.Notes))
		}
	})

	t.Run("Empty notes are stored as NULL", func(t *testing.T) {
		s := setupTestStore(t)
		user := mustCreateUser(t, s, "a@x.com")
		hoth := mustCreatePlanet(t, s, "Hoth")
		fav := mustFavorite(t, s, models.NewFavoritePlanet(user.ID, hoth.ID, ""))

		retrieved, err := s.FavoritePlanets.Get(ctx, fav.ID)
		if err != nil {
			t.Fatalf("failed to get favorite: %v", err)
		}
		if retrieved.Notes != nil {
			t.Errorf("expected nil notes, got %q", *retrieved.Notes)
		}
	})

	t.Run("Unknown references", func(t *testing.T) {
		s := setupTestStore(t)
		user := mustCreateUser(t, s, "a@x.com")
		luke := mustCreateCharacter(t, s, "Luke Skywalker", "Tatooine")

		tt := []struct {
			name string
			fav  *models.Favorite
		}{
			{name: "unknown user", fav: models.NewFavoriteCharacter(999, luke.ID, "")},
			{name: "unknown character", fav: models.NewFavoriteCharacter(user.ID, 999, "")},
			{name: "unknown planet", fav: models.NewFavoritePlanet(user.ID, 999, "")},
			{name: "unknown vehicle", fav: models.NewFavoriteVehicle(user.ID, 999, "")},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				err := s.Favorites(tc.fav.Kind).Create(ctx, tc.fav)
				if !errors.Is(err, shared.ErrForeignKeyViolation) {
					t.Errorf("expected ErrForeignKeyViolation, got %v", err)
				}
			})
		}
	})

	t.Run("Kind mismatch", func(t *testing.T) {
		s := setupTestStore(t)
		user := mustCreateUser(t, s, "a@x.com")

		err := s.FavoritePlanets.Create(ctx, models.NewFavoriteCharacter(user.ID, 1, ""))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Duplicates are allowed", func(t *testing.T) {
		s := setupTestStore(t)
		user := mustCreateUser(t, s, "a@x.com")
		luke := mustCreateCharacter(t, s, "Luke Skywalker", "Tatooine")
		mustFavorite(t, s, models.NewFavoriteCharacter(user.ID, luke.ID, ""))
		mustFavorite(t, s, models.NewFavoriteCharacter(user.ID, luke.ID, "again"))

		favorites, err := s.FavoriteCharacters.List(ctx, map[string]any{"user_id": user.ID, "target_id": luke.ID})
		if err != nil {
			t.Fatalf("failed to list favorites: %v", err)
		}
		if len(favorites) != 2 {
			t.Errorf("expected 2 favorites, got %d", len(favorites))
		}
	})

	t.Run("Update notes", func(t *testing.T) {
		s := setupTestStore(t)
		user := mustCreateUser(t, s, "a@x.com")
		luke := mustCreateCharacter(t, s, "Luke Skywalker", "Tatooine")
		fav := mustFavorite(t, s, models.NewFavoriteCharacter(user.ID, luke.ID, "hero"))

		fav.SetNotes("farm boy")
		if err := s.FavoriteCharacters.Update(ctx, fav); err != nil {
			t.Fatalf("failed to update favorite: %v", err)
		}

		retrieved, err := s.FavoriteCharacters.Get(ctx, fav.ID)
		if err != nil {
			t.Fatalf("failed to get favorite: %v", err)
		}
		if models.Deref(retrieved.Notes) != "farm boy" {
			t.Errorf("expected updated notes, got %q", models.Deref(retrieved.Notes))
		}
	})

	t.Run("Update kind mismatch", func(t *testing.T) {
		s := setupTestStore(t)
		user := mustCreateUser(t, s, "a@x.com")
		hoth := mustCreatePlanet(t, s, "Hoth")
		luke := mustCreateCharacter(t, s, "Luke Skywalker", "Tatooine")
		fav := mustFavorite(t, s, models.NewFavoritePlanet(user.ID, hoth.ID, "cold"))

		wrong := models.NewFavoriteCharacter(user.ID, luke.ID, "hero")
		wrong.ID = fav.ID

		err := s.FavoritePlanets.Update(ctx, wrong)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}

		retrieved, err := s.FavoritePlanets.Get(ctx, fav.ID)
		if err != nil {
			t.Fatalf("failed to get favorite: %v", err)
		}
		if retrieved.TargetID != hoth.ID {
			t.Errorf("expected planet %d, got %d", hoth.ID, retrieved.TargetID)
		}
		if models.Deref(retrieved.Notes) != "cold" {
			t.Errorf("expected notes 'cold', got %q", models.Deref(retrieved.Notes))
		}
	})

	t.Run("Update keeps date added when unset", func(t *testing.T) {
		s := setupTestStore(t)
		user := mustCreateUser(t, s, "a@x.com")
		luke := mustCreateCharacter(t, s, "Luke Skywalker", "Tatooine")
		fav := mustFavorite(t, s, models.NewFavoriteCharacter(user.ID, luke.ID, "hero"))

		original, err := s.FavoriteCharacters.Get(ctx, fav.ID)
		if err != nil {
			t.Fatalf("failed to get favorite: %v", err)
		}

		tt := []struct {
			name string
			kind models.FavoriteKind
		}{
			{name: "explicit kind", kind: models.KindCharacter},
			{name: "empty kind", kind: ""},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				notes := "farm boy"
				update := &models.Favorite{ID: fav.ID, Kind: tc.kind, UserID: user.ID, TargetID: luke.ID, Notes: &notes}
				if err := s.FavoriteCharacters.Update(ctx, update); err != nil {
					t.Fatalf("failed to update favorite: %v", err)
				}

				retrieved, err := s.FavoriteCharacters.Get(ctx, fav.ID)
				if err != nil {
					t.Fatalf("failed to get favorite: %v", err)
				}
				if retrieved.DateAdded.IsZero() {
					t.Fatal("expected date added to be kept, got zero time")
				}
				if !retrieved.DateAdded.Equal(original.DateAdded) {
					t.Errorf("expected date added %v, got %v", original.DateAdded, retrieved.DateAdded)
				}
				if models.Deref(retrieved.Notes) != notes {
					t.Errorf("expected notes %q, got %q", notes, models.Deref(retrieved.Notes))
				}
			})
		}
	})

	t.Run("Update replaces date added when set", func(t *testing.T) {
		s := setupTestStore(t)
		user := mustCreateUser(t, s, "a@x.com")
		luke := mustCreateCharacter(t, s, "Luke Skywalker", "Tatooine")
		fav := mustFavorite(t, s, models.NewFavoriteCharacter(user.ID, luke.ID, ""))

		when := time.Date(1977, time.May, 25, 12, 0, 0, 0, time.UTC)
		fav.DateAdded = when
		if err := s.FavoriteCharacters.Update(ctx, fav); err != nil {
			t.Fatalf("failed to update favorite: %v", err)
		}

		retrieved, err := s.FavoriteCharacters.Get(ctx, fav.ID)
		if err != nil {
			t.Fatalf("failed to get favorite: %v", err)
		}
		if !retrieved.DateAdded.Equal(when) {
			t.Errorf("expected date added %v, got %v", when, retrieved.DateAdded)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := setupTestStore(t)
		user := mustCreateUser(t, s, "a@x.com")
		luke := mustCreateCharacter(t, s, "Luke Skywalker", "Tatooine")
		fav := mustFavorite(t, s, models.NewFavoriteCharacter(user.ID, luke.ID, ""))

		if err := s.FavoriteCharacters.Delete(ctx, fav.ID); err != nil {
			t.Fatalf("failed to delete favorite: %v", err)
		}
		if _, err := s.FavoriteCharacters.Get(ctx, fav.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, err := s.Characters.Get(ctx, luke.ID); err != nil {
			t.Errorf("character should remain: %v", err)
		}
	})

	t.Run("Entries include target name", func(t *testing.T) {
		s := setupTestStore(t)
		user := mustCreateUser(t, s, "a@x.com")
		hoth := mustCreatePlanet(t, s, "Hoth")
		mustFavorite(t, s, models.NewFavoritePlanet(user.ID, hoth.ID, "cold"))

		entries, err := s.FavoritePlanets.Entries(ctx, user.ID)
		if err != nil {
			t.Fatalf("failed to list entries: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].TargetName != "Hoth" || entries[0].Kind != models.KindPlanet {
			t.Errorf("unexpected entry %+v", entries[0])
		}
	})

	t.Run("Serialize exposes only id and email", func(t *testing.T) {
		s := setupTestStore(t)
		user := mustCreateUser(t, s, "a@x.com")
		luke := mustCreateCharacter(t, s, "Luke Skywalker", "Tatooine")
		fav := mustFavorite(t, s, models.NewFavoriteCharacter(user.ID, luke.ID, "hero"))

		view, err := s.SerializeFavorite(ctx, models.KindCharacter, fav.ID)
		if err != nil {
			t.Fatalf("failed to serialize favorite: %v", err)
		}
		if view.ID != fav.ID || view.Email != "a@x.com" {
			t.Errorf("unexpected view %+v", view)
		}

		data, err := json.Marshal(view)
		if err != nil {
			t.Fatalf("failed to marshal view: %v", err)
		}

		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			t.Fatalf("failed to unmarshal view: %v", err)
		}
		if len(fields) != 2 {
			t.Errorf("expected exactly id and email, got %v", fields)
		}
		for _, leaked := range []string{"hunter2", "hero", "date_added"} {
			if strings.Contains(string(data), leaked) {
				t.Errorf("serialized view leaks %q: %s", leaked, data)
			}
		}

		if _, err := s.SerializeFavorite(ctx, models.KindCharacter, 999); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Deleting a user removes its favorites", func(t *testing.T) {
		tt := []struct {
			name  string
			count int
		}{
			{name: "no favorites", count: 0},
			{name: "one favorite", count: 1},
			{name: "many favorites", count: 3},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				s := setupTestStore(t)
				user := mustCreateUser(t, s, "a@x.com")
				other := mustCreateUser(t, s, "b@x.com")
				luke := mustCreateCharacter(t, s, "Luke Skywalker", "Tatooine")
				hoth := mustCreatePlanet(t, s, "Hoth")
				speeder := mustCreateVehicle(t, s, "Snowspeeder", luke.ID)
				mustFavorite(t, s, models.NewFavoritePlanet(other.ID, hoth.ID, ""))

				for i := range tc.count {
					mustFavorite(t, s, models.NewFavoriteCharacter(user.ID, luke.ID, ""))
					if i > 0 {
						mustFavorite(t, s, models.NewFavoritePlanet(user.ID, hoth.ID, ""))
						mustFavorite(t, s, models.NewFavoriteVehicle(user.ID, speeder.ID, ""))
					}
				}

				report, err := s.DeleteUser(ctx, user.ID)
				if err != nil {
					t.Fatalf("failed to delete user: %v", err)
				}

				want := tc.count
				if tc.count > 1 {
					want = tc.count + 2*(tc.count-1)
				}
				if report.Total() != want {
					t.Errorf("expected %d removed favorites, got %d", want, report.Total())
				}

				for _, kind := range models.FavoriteKinds {
					orphans, err := s.Favorites(kind).List(ctx, map[string]any{"user_id": user.ID})
					if err != nil {
						t.Fatalf("failed to list %s: %v", kind.Table(), err)
					}
					if len(orphans) != 0 {
						t.Errorf("%s has %d orphans", kind.Table(), len(orphans))
					}
				}

				if n := countRows(t, s.DB(), "favorite_planet"); n != 1 {
					t.Errorf("other user's favorite should remain, got %d rows", n)
				}
			})
		}
	})

	t.Run("DeleteUser missing", func(t *testing.T) {
		s := setupTestStore(t)

		if _, err := s.DeleteUser(ctx, 42); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Luke survives his fan", func(t *testing.T) {
		s := setupTestStore(t)
		user := mustCreateUser(t, s, "a@x.com")
		luke := mustCreateCharacter(t, s, "Luke", "Tatooine")
		fav := mustFavorite(t, s, models.NewFavoriteCharacter(user.ID, luke.ID, "hero"))

		if err := s.Users.Delete(ctx, user.ID); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		if _, err := s.FavoriteCharacters.Get(ctx, fav.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("favorite should be gone, got %v", err)
		}
		if _, err := s.Characters.GetByName(ctx, "Luke"); err != nil {
			t.Errorf("Luke should remain: %v", err)
		}
	})

	t.Run("WithTx rolls back on error", func(t *testing.T) {
		s := setupTestStore(t)
		errAbort := errors.New("abort")

		err := s.WithTx(ctx, func(tx *Store) error {
			if err := tx.Planets.Create(ctx, &models.Planet{Name: "Dagobah"}); err != nil {
				return err
			}
			return errAbort
		})
		if !errors.Is(err, errAbort) {
			t.Fatalf("expected abort error, got %v", err)
		}

		if _, err := s.Planets.GetByName(ctx, "Dagobah"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected rollback, got %v", err)
		}
	})

	t.Run("WithTx commits and nests", func(t *testing.T) {
		s := setupTestStore(t)

		err := s.WithTx(ctx, func(tx *Store) error {
			if err := tx.Planets.Create(ctx, &models.Planet{Name: "Dagobah"}); err != nil {
				return err
			}
			return tx.WithTx(ctx, func(inner *Store) error {
				return inner.Planets.Create(ctx, &models.Planet{Name: "Endor"})
			})
		})
		if err != nil {
			t.Fatalf("transaction failed: %v", err)
		}

		if n := countRows(t, s.DB(), "planet"); n != 2 {
			t.Errorf("expected 2 planets, got %d", n)
		}
	})

	t.Run("UserFavorites merges kinds oldest first", func(t *testing.T) {
		s := setupTestStore(t)
		user := mustCreateUser(t, s, "a@x.com")
		luke := mustCreateCharacter(t, s, "Luke Skywalker", "Tatooine")
		hoth := mustCreatePlanet(t, s, "Hoth")
		speeder := mustCreateVehicle(t, s, "Snowspeeder", luke.ID)

		base := time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)
		vehicle := models.NewFavoriteVehicle(user.ID, speeder.ID, "")
		vehicle.DateAdded = base
		planet := models.NewFavoritePlanet(user.ID, hoth.ID, "")
		planet.DateAdded = base.Add(time.Hour)
		character := models.NewFavoriteCharacter(user.ID, luke.ID, "")
		character.DateAdded = base.Add(2 * time.Hour)
		mustFavorite(t, s, character)
		mustFavorite(t, s, planet)
		mustFavorite(t, s, vehicle)

		entries, err := s.UserFavorites(ctx, user.ID)
		if err != nil {
			t.Fatalf("failed to list user favorites: %v", err)
		}

		want := []string{"Snowspeeder", "Hoth", "Luke Skywalker"}
		if len(entries) != len(want) {
			t.Fatalf("expected %d entries, got %d", len(want), len(entries))
		}
		for i, name := range want {
			if entries[i].TargetName != name {
				t.Errorf("entry %d: expected %s, got %s", i, name, entries[i].TargetName)
			}
		}

		if _, err := s.UserFavorites(ctx, 999); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Relationship traversal", func(t *testing.T) {
		s := setupTestStore(t)
		leia := mustCreateUser(t, s, "leia@x.com")
		han := mustCreateUser(t, s, "han@x.com")
		tatooine := mustCreatePlanet(t, s, "Tatooine")
		luke := mustCreateCharacter(t, s, "Luke Skywalker", "Tatooine")
		mustCreateCharacter(t, s, "Owen Lars", "Tatooine")
		mustCreateCharacter(t, s, "Han Solo", "Corellia")
		mustCreateVehicle(t, s, "Snowspeeder", luke.ID)
		mustFavorite(t, s, models.NewFavoriteCharacter(leia.ID, luke.ID, ""))
		mustFavorite(t, s, models.NewFavoriteCharacter(han.ID, luke.ID, ""))

		residents, err := s.PlanetResidents(ctx, tatooine.ID)
		if err != nil {
			t.Fatalf("failed to list residents: %v", err)
		}
		if len(residents) != 2 {
			t.Errorf("expected 2 residents, got %d", len(residents))
		}

		vehicles, err := s.CharacterVehicles(ctx, luke.ID)
		if err != nil {
			t.Fatalf("failed to list vehicles: %v", err)
		}
		if len(vehicles) != 1 || vehicles[0].Name != "Snowspeeder" {
			t.Errorf("unexpected vehicles %+v", vehicles)
		}

		fans, err := s.FavoritedBy(ctx, models.KindCharacter, luke.ID)
		if err != nil {
			t.Fatalf("failed to list fans: %v", err)
		}
		if len(fans) != 2 || fans[0].Email != "leia@x.com" {
			t.Errorf("unexpected fans %+v", fans)
		}

		if _, err := s.FavoritedBy(ctx, models.FavoriteKind("droid"), luke.ID); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if _, err := s.PlanetResidents(ctx, 999); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
