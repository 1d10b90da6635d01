// Package models defines the catalog schema entities and persistence interfaces.
//
// The catalog holds three kinds of content and one kind of owner:
//   - [User] : Account that owns favorites. The password is opaque and never serialized.
//   - [Character] : Named character; pilots zero or more vehicles.
//   - [Planet] : Named planet; residents are characters whose free-text homeworld matches its name.
//   - [Vehicle] : Named vehicle with exactly one pilot ([Vehicle.PilotID]).
//
// Favorites are join rows between a user and one catalog entity, stored in one table per [FavoriteKind]:
//   - favorite_character, favorite_planet, favorite_vehicle
//
// Each [Favorite] is owned by its user and by its target: deleting either removes the row.
// The only exported projection of a favorite is [FavoriteView] (id and owner email).
//
// All entities implement [Model]. The [Repository] interface defines standard CRUD operations for database access.
package models
