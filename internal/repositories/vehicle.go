package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/holocron/internal/models"
)

var _ models.Repository[*models.Vehicle] = (*VehicleRepository)(nil)

const vehicleColumns = `id, name, model, vehicle_class, manufacturer, length, crew, passengers, image_url, pilot_id`

// VehicleRepository implements [models.Repository] for [models.Vehicle] persistence.
type VehicleRepository struct {
	db Querier
}

// NewVehicleRepository creates a new [VehicleRepository]
func NewVehicleRepository(db Querier) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create inserts a vehicle. An unknown pilot yields [shared.ErrForeignKeyViolation].
func (r *VehicleRepository) Create(ctx context.Context, v *models.Vehicle) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO vehicle (name, model, vehicle_class, manufacturer, length, crew, passengers, image_url, pilot_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		v.Name, v.Model, v.VehicleClass, v.Manufacturer, v.Length, v.Crew, v.Passengers, v.ImageURL, v.PilotID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert vehicle: %w", translateError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read vehicle id: %w", err)
	}
	v.ID = id

	return nil
}

func (r *VehicleRepository) Get(ctx context.Context, id int64) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicle WHERE id = ?`

	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "vehicle", id)
	}
	return v, nil
}

// GetByName retrieves a vehicle by its unique name
func (r *VehicleRepository) GetByName(ctx context.Context, name string) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicle WHERE name = ?`

	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, notFound(err, "vehicle", name)
	}
	return v, nil
}

func (r *VehicleRepository) Update(ctx context.Context, v *models.Vehicle) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE vehicle
		SET name = ?, model = ?, vehicle_class = ?, manufacturer = ?, length = ?, crew = ?, passengers = ?, image_url = ?, pilot_id = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		v.Name, v.Model, v.VehicleClass, v.Manufacturer, v.Length, v.Crew, v.Passengers, v.ImageURL, v.PilotID, v.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", translateError(err))
	}

	return requireAffected(result, "vehicle", v.ID)
}

func (r *VehicleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vehicle WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", translateError(err))
	}

	return requireAffected(result, "vehicle", id)
}

// List retrieves vehicles filtered by "pilot_id", "vehicle_class" or "manufacturer"
func (r *VehicleRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicle WHERE 1 = 1`
	args := []any{}

	if pilotID, ok := idCriterion(criteria, "pilot_id"); ok {
		query += " AND pilot_id = ?"
		args = append(args, pilotID)
	}

	for _, col := range []string{"vehicle_class", "manufacturer"} {
		if v, ok := stringCriterion(criteria, col); ok {
			query += " AND " + col + " = ?"
			args = append(args, v)
		}
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return vehicles, nil
}

func scanVehicle(row scanner) (*models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(
		&v.ID, &v.Name, &v.Model, &v.VehicleClass, &v.Manufacturer,
		&v.Length, &v.Crew, &v.Passengers, &v.ImageURL, &v.PilotID,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan vehicle: %w", err)
	}
	return &v, nil
}
