package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/holocron/internal/models"
)

var _ models.Repository[*models.Character] = (*CharacterRepository)(nil)

const characterColumns = `id, name, species, homeworld, gender, description, image_url`

// CharacterRepository implements [models.Repository] for [models.Character] persistence.
//
// Delete fails with [shared.ErrForeignKeyViolation] while the character pilots a vehicle.
type CharacterRepository struct {
	db Querier
}

// NewCharacterRepository creates a new [CharacterRepository]
func NewCharacterRepository(db Querier) *CharacterRepository {
	return &CharacterRepository{db: db}
}

func (r *CharacterRepository) Create(ctx context.Context, c *models.Character) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO "character" (name, species, homeworld, gender, description, image_url)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, c.Name, c.Species, c.Homeworld, c.Gender, c.Description, c.ImageURL)
	if err != nil {
		return fmt.Errorf("failed to insert character: %w", translateError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read character id: %w", err)
	}
	c.ID = id

	return nil
}

func (r *CharacterRepository) Get(ctx context.Context, id int64) (*models.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM "character" WHERE id = ?`

	c, err := scanCharacter(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "character", id)
	}
	return c, nil
}

// GetByName retrieves a character by its unique name
func (r *CharacterRepository) GetByName(ctx context.Context, name string) (*models.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM "character" WHERE name = ?`

	c, err := scanCharacter(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, notFound(err, "character", name)
	}
	return c, nil
}

func (r *CharacterRepository) Update(ctx context.Context, c *models.Character) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE "character"
		SET name = ?, species = ?, homeworld = ?, gender = ?, description = ?, image_url = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, c.Name, c.Species, c.Homeworld, c.Gender, c.Description, c.ImageURL, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update character: %w", translateError(err))
	}

	return requireAffected(result, "character", c.ID)
}

func (r *CharacterRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM "character" WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", translateError(err))
	}

	return requireAffected(result, "character", id)
}

// List retrieves characters filtered by "name", "homeworld", "species" or "gender"
func (r *CharacterRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM "character" WHERE 1 = 1`
	args := []any{}

	for _, col := range []string{"name", "homeworld", "species", "gender"} {
		if v, ok := stringCriterion(criteria, col); ok {
			query += " AND " + col + " = ?"
			args = append(args, v)
		}
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query characters: %w", err)
	}
	defer rows.Close()

	var characters []*models.Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		characters = append(characters, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return characters, nil
}

func scanCharacter(row scanner) (*models.Character, error) {
	var c models.Character
	err := row.Scan(&c.ID, &c.Name, &c.Species, &c.Homeworld, &c.Gender, &c.Description, &c.ImageURL)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan character: %w", err)
	}
	return &c, nil
}
