package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/holocron/internal/shared"
)

var _ Model = (*Favorite)(nil)

// FavoriteKind identifies which catalog entity a favorite points at.
// Each kind is persisted in its own join table.
type FavoriteKind string

const (
	KindCharacter FavoriteKind = "character"
	KindPlanet    FavoriteKind = "planet"
	KindVehicle   FavoriteKind = "vehicle"
)

// FavoriteKinds lists every kind in display order.
var FavoriteKinds = []FavoriteKind{KindCharacter, KindPlanet, KindVehicle}

// ParseFavoriteKind converts "character", "planet" or "vehicle" to a [FavoriteKind].
func ParseFavoriteKind(s string) (FavoriteKind, error) {
	k := FavoriteKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown favorite kind %q", shared.ErrInvalidArgument, s)
	}
	return k, nil
}

func (k FavoriteKind) Valid() bool {
	switch k {
	case KindCharacter, KindPlanet, KindVehicle:
		return true
	}
	return false
}

// Table is the join table for this kind, e.g. favorite_planet.
func (k FavoriteKind) Table() string { return "favorite_" + string(k) }

// TargetTable is the table of the favorited entity.
func (k FavoriteKind) TargetTable() string { return string(k) }

// TargetColumn is the join column referencing the favorited entity, e.g. planet_id.
func (k FavoriteKind) TargetColumn() string { return string(k) + "_id" }

func (k FavoriteKind) String() string { return string(k) }

// Favorite is a join row between a [User] and one catalog entity.
//
// Duplicate (user, target) pairs are allowed.
type Favorite struct {
	ID        int64        `json:"id"`
	Kind      FavoriteKind `json:"kind"`
	UserID    int64        `json:"user_id"`
	TargetID  int64        `json:"target_id"`
	DateAdded time.Time    `json:"date_added"`
	Notes     *string      `json:"notes,omitempty"`
}

// NewFavorite creates a favorite of the given kind added now. Empty notes are stored as NULL.
func NewFavorite(kind FavoriteKind, userID, targetID int64, notes string) *Favorite {
	return &Favorite{
		Kind:      kind,
		UserID:    userID,
		TargetID:  targetID,
		DateAdded: time.Now().UTC(),
		Notes:     optional(notes),
	}
}

// NewFavoriteCharacter creates a favorite_character row.
func NewFavoriteCharacter(userID, characterID int64, notes string) *Favorite {
	return NewFavorite(KindCharacter, userID, characterID, notes)
}

// NewFavoritePlanet creates a favorite_planet row.
func NewFavoritePlanet(userID, planetID int64, notes string) *Favorite {
	return NewFavorite(KindPlanet, userID, planetID, notes)
}

// NewFavoriteVehicle creates a favorite_vehicle row.
func NewFavoriteVehicle(userID, vehicleID int64, notes string) *Favorite {
	return NewFavorite(KindVehicle, userID, vehicleID, notes)
}

func (f *Favorite) TableName() string { return f.Kind.Table() }

// SetNotes replaces the notes; an empty string clears them.
func (f *Favorite) SetNotes(notes string) {
	f.Notes = optional(notes)
}

func (f *Favorite) Validate() error {
	if !f.Kind.Valid() {
		return fmt.Errorf("%w: unknown favorite kind %q", shared.ErrInvalidInput, f.Kind)
	}
	return firstErr(
		requiredID("user_id", f.UserID),
		requiredID(f.Kind.TargetColumn(), f.TargetID),
	)
}

// Serialize returns the exposed form of the favorite: its id and the owner's email.
func (f *Favorite) Serialize(owner *User) FavoriteView {
	return FavoriteView{ID: f.ID, Email: owner.Email}
}

// FavoriteView is the only external representation of a favorite.
type FavoriteView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// FavoriteEntry is a favorite joined with its target's name, used for listings and exports.
type FavoriteEntry struct {
	Favorite
	TargetName string `json:"target_name"`
}
