// Package services defines the [CatalogSource] interface for upstream catalog data and implements it for SWAPI.
//
// # Catalog Source
//
// A source serves planets, people and vehicles as numbered pages. Callers ask for
// the first page, read [Page.TotalPages], then fetch the rest in any order.
//
// # SWAPI Implementation
//
// [SWAPIClient] issues plain GET requests against https://swapi.dev/api or any
// mirror configured through importer.base_url. No authentication is involved.
//
// Relationships in SWAPI are urls: a person's homeworld points at a planet and a
// vehicle's pilots point at people. Resolving them is left to the importer.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure or unexpected 4xx
//   - [shared.ErrServiceUnavailable] : 429 or 5xx, worth retrying later
//   - [shared.ErrNotFound] : page past the end of the listing
//
// # Value Mapping
//
// SWAPI reports numbers as strings ("1,000", "unknown", "30-165").
// [ParseInt], [ParseFloat] and [Known] normalize them before they reach the models.
package services
