// Package tasks runs the long-lived catalog operations with real-time progress reporting.
//
// # Core Operations
//
//  1. [Importer.Run] : Seed the catalog from SWAPI
//     - Fetches the first page of planets, people and vehicles to learn page counts
//     - Fetches the remaining pages with a worker pool sharing one [rate.Limiter]
//     - Inserts planets, then characters, then vehicles in a single transaction
//     - Resolves homeworld urls to planet names and pilot urls to character ids
//     - Returns an [ImportResult] keyed by a fresh run id
//
//  2. [BulkExport] : Export favorites for many users
//     - One file per user through the formatter package
//     - Writes export_manifest.json describing successes and failures
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Import Rules
//
// The vehicle pilot is mandatory, so vehicles without a pilot that was imported (or already existed)
// are skipped. Rows whose name already exists are skipped, which makes repeated runs idempotent.
// A failed page fetch aborts the run before any row is written.
package tasks
