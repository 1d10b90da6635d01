package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/desertthunder/holocron/internal/models"
	"github.com/desertthunder/holocron/internal/shared"
)

// Store groups the repositories over one connection or transaction.
// It is passed explicitly to callers instead of living in a package-level registry.
type Store struct {
	db *sql.DB
	tx *sql.Tx

	Users              *UserRepository
	Characters         *CharacterRepository
	Planets            *PlanetRepository
	Vehicles           *VehicleRepository
	FavoriteCharacters *FavoriteRepository
	FavoritePlanets    *FavoriteRepository
	FavoriteVehicles   *FavoriteRepository
}

// NewStore creates a [Store] over db. The schema must already be migrated.
func NewStore(db *sql.DB) *Store {
	return newStore(db, nil, db)
}

func newStore(db *sql.DB, tx *sql.Tx, q Querier) *Store {
	return &Store{
		db:                 db,
		tx:                 tx,
		Users:              NewUserRepository(q),
		Characters:         NewCharacterRepository(q),
		Planets:            NewPlanetRepository(q),
		Vehicles:           NewVehicleRepository(q),
		FavoriteCharacters: NewFavoriteRepository(q, models.KindCharacter),
		FavoritePlanets:    NewFavoriteRepository(q, models.KindPlanet),
		FavoriteVehicles:   NewFavoriteRepository(q, models.KindVehicle),
	}
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Favorites returns the repository for the join table of kind.
func (s *Store) Favorites(kind models.FavoriteKind) *FavoriteRepository {
	switch kind {
	case models.KindCharacter:
		return s.FavoriteCharacters
	case models.KindPlanet:
		return s.FavoritePlanets
	case models.KindVehicle:
		return s.FavoriteVehicles
	}
	return nil
}

// WithTx runs fn against a [Store] bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise. Nested calls join the
// outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(*Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(newStore(s.db, tx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteReport counts the favorites removed alongside a user.
type DeleteReport struct {
	UserID    int64                       `json:"user_id"`
	Favorites map[models.FavoriteKind]int `json:"favorites"`
}

// Total is the number of favorites removed across all kinds.
func (r DeleteReport) Total() int {
	total := 0
	for _, n := range r.Favorites {
		total += n
	}
	return total
}

// DeleteUser removes the user and, by cascade, every favorite it owns.
func (s *Store) DeleteUser(ctx context.Context, userID int64) (DeleteReport, error) {
	report := DeleteReport{UserID: userID, Favorites: make(map[models.FavoriteKind]int, len(models.FavoriteKinds))}

	err := s.WithTx(ctx, func(tx *Store) error {
		for _, kind := range models.FavoriteKinds {
			n, err := tx.Favorites(kind).CountByUser(ctx, userID)
			if err != nil {
				return err
			}
			report.Favorites[kind] = n
		}
		return tx.Users.Delete(ctx, userID)
	})
	if err != nil {
		return DeleteReport{}, err
	}
	return report, nil
}

// UserFavorites lists every favorite of the user across all kinds, oldest first.
func (s *Store) UserFavorites(ctx context.Context, userID int64) ([]*models.FavoriteEntry, error) {
	if _, err := s.Users.Get(ctx, userID); err != nil {
		return nil, err
	}

	var entries []*models.FavoriteEntry
	for _, kind := range models.FavoriteKinds {
		found, err := s.Favorites(kind).Entries(ctx, userID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, found...)
	}

	slices.SortStableFunc(entries, func(a, b *models.FavoriteEntry) int {
		return a.DateAdded.Compare(b.DateAdded)
	})
	return entries, nil
}

// RemoveFavorite deletes one favorite row of the given kind.
func (s *Store) RemoveFavorite(ctx context.Context, kind models.FavoriteKind, id int64) error {
	repo := s.Favorites(kind)
	if repo == nil {
		return fmt.Errorf("failed to remove favorite: %w: unknown kind %q", shared.ErrInvalidArgument, kind)
	}
	return repo.Delete(ctx, id)
}

// CharacterVehicles lists the vehicles piloted by the character.
func (s *Store) CharacterVehicles(ctx context.Context, characterID int64) ([]*models.Vehicle, error) {
	if _, err := s.Characters.Get(ctx, characterID); err != nil {
		return nil, err
	}
	return s.Vehicles.List(ctx, map[string]any{"pilot_id": characterID})
}

// PlanetResidents lists characters whose homeworld matches the planet's name.
func (s *Store) PlanetResidents(ctx context.Context, planetID int64) ([]*models.Character, error) {
	planet, err := s.Planets.Get(ctx, planetID)
	if err != nil {
		return nil, err
	}
	return s.Characters.List(ctx, map[string]any{"homeworld": planet.Name})
}

// FavoritedBy lists the users who favorited the given target.
func (s *Store) FavoritedBy(ctx context.Context, kind models.FavoriteKind, targetID int64) ([]*models.User, error) {
	repo := s.Favorites(kind)
	if repo == nil {
		return nil, fmt.Errorf("failed to list favorited by: %w: unknown kind %q", shared.ErrInvalidArgument, kind)
	}
	return repo.Users(ctx, targetID)
}

// SerializeFavorite returns the {id, email} view of a favorite.
func (s *Store) SerializeFavorite(ctx context.Context, kind models.FavoriteKind, id int64) (models.FavoriteView, error) {
	repo := s.Favorites(kind)
	if repo == nil {
		return models.FavoriteView{}, fmt.Errorf("failed to serialize favorite: %w: unknown kind %q", shared.ErrInvalidArgument, kind)
	}
	return repo.Serialize(ctx, id)
}
