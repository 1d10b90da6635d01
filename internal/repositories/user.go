package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/holocron/internal/models"
)

var _ models.Repository[*models.User] = (*UserRepository)(nil)

const userColumns = `id, email, password, first_name, last_name, is_active, subscription_date, profile_image`

// UserRepository implements [models.Repository] for [models.User] persistence.
//
// Deleting a user cascades to all three favorite tables.
type UserRepository struct {
	db Querier
}

// NewUserRepository creates a new [UserRepository] with the given database connection or transaction
func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and assigns its generated ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if user.SubscriptionDate.IsZero() {
		user.SubscriptionDate = time.Now().UTC()
	}

	query := `
		INSERT INTO "user" (email, password, first_name, last_name, is_active, subscription_date, profile_image)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.Password,
		user.FirstName,
		user.LastName,
		user.IsActive,
		user.SubscriptionDate,
		user.ProfileImage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", translateError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id

	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE id = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return user, nil
}

// GetByEmail retrieves a user by its unique email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE email = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return user, nil
}

// Update modifies an existing user in the database
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE "user"
		SET email = ?, password = ?, first_name = ?, last_name = ?, is_active = ?, subscription_date = ?, profile_image = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.Password,
		user.FirstName,
		user.LastName,
		user.IsActive,
		user.SubscriptionDate,
		user.ProfileImage,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", translateError(err))
	}

	return requireAffected(result, "user", user.ID)
}

// Delete removes a user by ID together with all of its favorites
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM "user" WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", translateError(err))
	}

	return requireAffected(result, "user", id)
}

// List retrieves all users matching the given criteria ("email", "is_active")
func (r *UserRepository) List(ctx context.Context, criteria map[string]any) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE 1 = 1`
	args := []any{}

	if email, ok := stringCriterion(criteria, "email"); ok {
		query += " AND email = ?"
		args = append(args, email)
	}

	if active, ok := boolCriterion(criteria, "is_active"); ok {
		query += " AND is_active = ?"
		args = append(args, active)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// scanUser scans a single row into a [models.User]
func scanUser(row scanner) (*models.User, error) {
	var (
		user         models.User
		profileImage sql.NullString
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.IsActive,
		&user.SubscriptionDate,
		&profileImage,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if profileImage.Valid {
		user.ProfileImage = &profileImage.String
	}

	return &user, nil
}
