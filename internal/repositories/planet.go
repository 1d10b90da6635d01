package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/holocron/internal/models"
)

var _ models.Repository[*models.Planet] = (*PlanetRepository)(nil)

const planetColumns = `id, name, climate, terrain, population, diameter, image_url`

// PlanetRepository implements [models.Repository] for [models.Planet] persistence.
type PlanetRepository struct {
	db Querier
}

// NewPlanetRepository creates a new [PlanetRepository]
func NewPlanetRepository(db Querier) *PlanetRepository {
	return &PlanetRepository{db: db}
}

func (r *PlanetRepository) Create(ctx context.Context, p *models.Planet) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO planet (name, climate, terrain, population, diameter, image_url)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Climate, p.Terrain, p.Population, p.Diameter, p.ImageURL)
	if err != nil {
		return fmt.Errorf("failed to insert planet: %w", translateError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read planet id: %w", err)
	}
	p.ID = id

	return nil
}

func (r *PlanetRepository) Get(ctx context.Context, id int64) (*models.Planet, error) {
	query := `SELECT ` + planetColumns + ` FROM planet WHERE id = ?`

	p, err := scanPlanet(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "planet", id)
	}
	return p, nil
}

// GetByName retrieves a planet by its unique name
func (r *PlanetRepository) GetByName(ctx context.Context, name string) (*models.Planet, error) {
	query := `SELECT ` + planetColumns + ` FROM planet WHERE name = ?`

	p, err := scanPlanet(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, notFound(err, "planet", name)
	}
	return p, nil
}

func (r *PlanetRepository) Update(ctx context.Context, p *models.Planet) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE planet
		SET name = ?, climate = ?, terrain = ?, population = ?, diameter = ?, image_url = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Climate, p.Terrain, p.Population, p.Diameter, p.ImageURL, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update planet: %w", translateError(err))
	}

	return requireAffected(result, "planet", p.ID)
}

// Delete removes a planet; its favorites go with it
func (r *PlanetRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM planet WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete planet: %w", translateError(err))
	}

	return requireAffected(result, "planet", id)
}

// List retrieves planets filtered by "name", "climate" or "terrain"
func (r *PlanetRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Planet, error) {
	query := `SELECT ` + planetColumns + ` FROM planet WHERE 1 = 1`
	args := []any{}

	for _, col := range []string{"name", "climate", "terrain"} {
		if v, ok := stringCriterion(criteria, col); ok {
			query += " AND " + col + " = ?"
			args = append(args, v)
		}
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query planets: %w", err)
	}
	defer rows.Close()

	var planets []*models.Planet
	for rows.Next() {
		p, err := scanPlanet(rows)
		if err != nil {
			return nil, err
		}
		planets = append(planets, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return planets, nil
}

func scanPlanet(row scanner) (*models.Planet, error) {
	var p models.Planet
	err := row.Scan(&p.ID, &p.Name, &p.Climate, &p.Terrain, &p.Population, &p.Diameter, &p.ImageURL)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan planet: %w", err)
	}
	return &p, nil
}
