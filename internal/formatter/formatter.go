// package formatter provides functions to export a user's favorites to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/holocron/internal/models"
	"github.com/desertthunder/holocron/internal/shared"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat converts a --format value into a [Format]. "md" and "text" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unsupported format %q (use json, csv, markdown or txt)", shared.ErrInvalidArgument, s)
}

// Extension is the file extension used for the format, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Owner is the exported subset of a [models.User]. It has no password field.
type Owner struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Name is the owner's display name.
func (o Owner) Name() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// FavoriteRecord is one exported favorite.
type FavoriteRecord struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	TargetID  int64     `json:"target_id"`
	Target    string    `json:"target"`
	DateAdded time.Time `json:"date_added"`
	Notes     string    `json:"notes,omitempty"`
}

// FavoritesExport is a user's favorites prepared for rendering.
type FavoritesExport struct {
	Owner      Owner            `json:"owner"`
	ExportedAt time.Time        `json:"exported_at"`
	Favorites  []FavoriteRecord `json:"favorites"`
}

// NewFavoritesExport builds an export for user from its favorite entries.
func NewFavoritesExport(user *models.User, entries []*models.FavoriteEntry) *FavoritesExport {
	export := &FavoritesExport{
		Owner: Owner{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
		ExportedAt: time.Now().UTC(),
		Favorites:  make([]FavoriteRecord, 0, len(entries)),
	}

	for _, e := range entries {
		export.Favorites = append(export.Favorites, FavoriteRecord{
			ID:        e.ID,
			Kind:      e.Kind.String(),
			TargetID:  e.TargetID,
			Target:    e.TargetName,
			DateAdded: e.DateAdded,
			Notes:     models.Deref(e.Notes),
		})
	}
	return export
}

// ByKind returns the favorites of one kind, preserving order.
func (e *FavoritesExport) ByKind(kind models.FavoriteKind) []FavoriteRecord {
	var records []FavoriteRecord
	for _, r := range e.Favorites {
		if r.Kind == kind.String() {
			records = append(records, r)
		}
	}
	return records
}

// Render encodes the export in the given format.
func Render(export *FavoritesExport, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ExportToJSON(export)
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	}
	return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, format)
}

// ExportToJSON renders the export as indented JSON
func ExportToJSON(export *FavoritesExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// ExportToCSV converts a FavoritesExport to CSV format with columns: ID, Kind, Target ID, Target, Date Added, Notes
func ExportToCSV(export *FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Kind", "Target ID", "Target", "Date Added", "Notes"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, fav := range export.Favorites {
		record := []string{
			strconv.FormatInt(fav.ID, 10),
			fav.Kind,
			strconv.FormatInt(fav.TargetID, 10),
			fav.Target,
			fav.DateAdded.Format(time.RFC3339),
			fav.Notes,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

var sectionTitles = map[models.FavoriteKind]string{
	models.KindCharacter: "Characters",
	models.KindPlanet:    "Planets",
	models.KindVehicle:   "Vehicles",
}

// ExportToMarkdown converts a FavoritesExport to Markdown with one section per kind
func ExportToMarkdown(export *FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Favorites of %s\n\n", export.Owner.Name()))
	buf.WriteString(fmt.Sprintf("**Email**: %s\n", export.Owner.Email))
	buf.WriteString(fmt.Sprintf("**Favorites**: %d\n", len(export.Favorites)))
	buf.WriteString(fmt.Sprintf("**Exported**: %s\n", export.ExportedAt.Format(time.DateOnly)))

	for _, kind := range models.FavoriteKinds {
		records := export.ByKind(kind)
		if len(records) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("\n## %s\n\n", sectionTitles[kind]))
		for i, r := range records {
			notesPart := ""
			if r.Notes != "" {
				notesPart = fmt.Sprintf(": %s", r.Notes)
			}
			buf.WriteString(fmt.Sprintf("%d. **%s** (added %s)%s\n", i+1, r.Target, r.DateAdded.Format(time.DateOnly), notesPart))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a FavoritesExport to plain text format
func ExportToText(export *FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Owner: %s <%s>\n", export.Owner.Name(), export.Owner.Email))
	buf.WriteString(fmt.Sprintf("Favorites: %d\n\n", len(export.Favorites)))

	for i, r := range export.Favorites {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s", i+1, r.Kind, r.Target))
		if r.Notes != "" {
			buf.WriteString(fmt.Sprintf(" - %s", r.Notes))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// DefaultFilename is favorites_{userID}.{ext}
func DefaultFilename(userID int64, format Format) string {
	return fmt.Sprintf("favorites_%d.%s", userID, format.Extension())
}

// WriteExport renders the export and writes it to path, creating parent directories.
//
// Defaults to [DefaultFilename] in the working directory.
func WriteExport(export *FavoritesExport, format Format, path string) (string, error) {
	if path == "" {
		path = DefaultFilename(export.Owner.ID, format)
	}

	data, err := Render(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

// ManifestEntry records the outcome of exporting one user.
type ManifestEntry struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	File      string `json:"file,omitempty"`
	Favorites int    `json:"favorites"`
	Error     string `json:"error,omitempty"`
}

// Manifest summarizes a bulk export run.
type Manifest struct {
	RunID      string          `json:"run_id"`
	Format     Format          `json:"format"`
	CreatedAt  time.Time       `json:"created_at"`
	Total      int             `json:"total"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Entries    []ManifestEntry `json:"entries"`
}

// WriteManifest writes the manifest as indented JSON to path
func WriteManifest(m *Manifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
