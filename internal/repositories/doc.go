// Package repositories implements SQLite persistence for the catalog schema.
//
// Each repository handles CRUD operations for one table over a [Querier], which is either the pooled *sql.DB or
// an open *sql.Tx. Referential integrity is enforced by the database (foreign_keys=on):
//   - favorite_* rows cascade from both their user and their target
//   - vehicle.pilot_id restricts deletion of a piloted character
//
// SQLite constraint failures are translated to shared.ErrUniqueViolation and shared.ErrForeignKeyViolation, and
// missing rows to shared.ErrNotFound, so callers can branch with errors.Is.
//
// Key Implementations:
//   - [Store] : Session object bundling every repository, transactions and cross-table reads
//   - [UserRepository] : Users with email lookups
//   - [CharacterRepository], [PlanetRepository], [VehicleRepository] : Catalog entities with name lookups
//   - [FavoriteRepository] : One join table per models.FavoriteKind
package repositories
