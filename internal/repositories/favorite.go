package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/holocron/internal/models"
	"github.com/desertthunder/holocron/internal/shared"
)

var _ models.Repository[*models.Favorite] = (*FavoriteRepository)(nil)

// FavoriteRepository persists one kind of [models.Favorite].
// There is one instance per join table; see [Store.Favorites].
type FavoriteRepository struct {
	db   Querier
	kind models.FavoriteKind
}

// NewFavoriteRepository creates a [FavoriteRepository] bound to the join table of kind
func NewFavoriteRepository(db Querier, kind models.FavoriteKind) *FavoriteRepository {
	return &FavoriteRepository{db: db, kind: kind}
}

// Kind reports which join table the repository reads and writes.
func (r *FavoriteRepository) Kind() models.FavoriteKind {
	return r.kind
}

func (r *FavoriteRepository) columns(alias string) string {
	return fmt.Sprintf("%[1]sid, %[1]suser_id, %[1]s%[2]s, %[1]sdate_added, %[1]snotes", alias, r.kind.TargetColumn())
}

// Create inserts a favorite. Unknown user or target ids yield [shared.ErrForeignKeyViolation].
func (r *FavoriteRepository) Create(ctx context.Context, f *models.Favorite) error {
	if f.Kind == "" {
		f.Kind = r.kind
	}
	if f.Kind != r.kind {
		return fmt.Errorf("validation failed: %w: %s favorite stored as %s", shared.ErrInvalidInput, f.Kind, r.kind)
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if f.DateAdded.IsZero() {
		f.DateAdded = time.Now().UTC()
	}

	query := fmt.Sprintf(`INSERT INTO %s (user_id, %s, date_added, notes) VALUES (?, ?, ?, ?)`,
		r.kind.Table(), r.kind.TargetColumn())

	result, err := r.db.ExecContext(ctx, query, f.UserID, f.TargetID, f.DateAdded, f.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert %s: %w", r.kind.Table(), translateError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read %s id: %w", r.kind.Table(), err)
	}
	f.ID = id

	return nil
}

func (r *FavoriteRepository) Get(ctx context.Context, id int64) (*models.Favorite, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, r.columns(""), r.kind.Table())

	f, err := r.scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, r.kind.Table(), id)
	}
	return f, nil
}

// Update rewrites every column of the favorite.
// A zero DateAdded keeps the stored timestamp.
func (r *FavoriteRepository) Update(ctx context.Context, f *models.Favorite) error {
	if f.Kind == "" {
		f.Kind = r.kind
	}
	if f.Kind != r.kind {
		return fmt.Errorf("validation failed: %w: %s favorite stored as %s", shared.ErrInvalidInput, f.Kind, r.kind)
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var dateAdded any
	if !f.DateAdded.IsZero() {
		dateAdded = f.DateAdded
	}

	query := fmt.Sprintf(`UPDATE %s SET user_id = ?, %s = ?, date_added = COALESCE(?, date_added), notes = ? WHERE id = ?`,
		r.kind.Table(), r.kind.TargetColumn())

	result, err := r.db.ExecContext(ctx, query, f.UserID, f.TargetID, dateAdded, f.Notes, f.ID)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", r.kind.Table(), translateError(err))
	}

	return requireAffected(result, r.kind.Table(), f.ID)
}

func (r *FavoriteRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.kind.Table())

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.kind.Table(), translateError(err))
	}

	return requireAffected(result, r.kind.Table(), id)
}

// List retrieves favorites filtered by "user_id" and/or "target_id"
func (r *FavoriteRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Favorite, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE 1 = 1`, r.columns(""), r.kind.Table())
	args := []any{}

	if userID, ok := idCriterion(criteria, "user_id"); ok {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	if targetID, ok := idCriterion(criteria, "target_id"); ok {
		query += " AND " + r.kind.TargetColumn() + " = ?"
		args = append(args, targetID)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.kind.Table(), err)
	}
	defer rows.Close()

	var favorites []*models.Favorite
	for rows.Next() {
		f, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return favorites, nil
}

// CountByUser returns how many favorites of this kind the user owns
func (r *FavoriteRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = ?`, r.kind.Table())

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.kind.Table(), err)
	}
	return n, nil
}

// Entries lists the user's favorites of this kind joined with each target's name
func (r *FavoriteRepository) Entries(ctx context.Context, userID int64) ([]*models.FavoriteEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s, t.name
		FROM %s f
		JOIN "%s" t ON t.id = f.%s
		WHERE f.user_id = ?
		ORDER BY f.date_added ASC, f.id ASC
	`, r.columns("f."), r.kind.Table(), r.kind.TargetTable(), r.kind.TargetColumn())

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s entries: %w", r.kind.Table(), err)
	}
	defer rows.Close()

	var entries []*models.FavoriteEntry
	for rows.Next() {
		var (
			entry models.FavoriteEntry
			notes sql.NullString
		)
		err := rows.Scan(&entry.ID, &entry.UserID, &entry.TargetID, &entry.DateAdded, &notes, &entry.TargetName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s entry: %w", r.kind.Table(), err)
		}
		entry.Kind = r.kind
		if notes.Valid {
			entry.Notes = &notes.String
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// Users lists the users who favorited the target, once per favorite row
func (r *FavoriteRepository) Users(ctx context.Context, targetID int64) ([]*models.User, error) {
	query := fmt.Sprintf(`
		SELECT u.id, u.email, u.password, u.first_name, u.last_name, u.is_active, u.subscription_date, u.profile_image
		FROM "user" u
		JOIN %s f ON f.user_id = u.id
		WHERE f.%s = ?
		ORDER BY f.id ASC
	`, r.kind.Table(), r.kind.TargetColumn())

	rows, err := r.db.QueryContext(ctx, query, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s users: %w", r.kind.Table(), err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// Serialize returns the favorite's external view: its id and the owner's email
func (r *FavoriteRepository) Serialize(ctx context.Context, id int64) (models.FavoriteView, error) {
	query := fmt.Sprintf(`
		SELECT f.id, u.email
		FROM %s f
		JOIN "user" u ON u.id = f.user_id
		WHERE f.id = ?
	`, r.kind.Table())

	var view models.FavoriteView
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&view.ID, &view.Email); err != nil {
		return models.FavoriteView{}, notFound(err, r.kind.Table(), id)
	}
	return view, nil
}

func (r *FavoriteRepository) scan(row scanner) (*models.Favorite, error) {
	var (
		f     models.Favorite
		notes sql.NullString
	)

	err := row.Scan(&f.ID, &f.UserID, &f.TargetID, &f.DateAdded, &notes)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", r.kind.Table(), err)
	}

	f.Kind = r.kind
	if notes.Valid {
		f.Notes = &notes.String
	}
	return &f, nil
}
