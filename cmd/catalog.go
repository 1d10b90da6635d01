package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/holocron/internal/models"
	"github.com/desertthunder/holocron/internal/shared"
	"github.com/urfave/cli/v3"
)

// stringCriteria maps non-empty string flags to repository criteria keys.
func stringCriteria(cmd *cli.Command, flagToKey map[string]string) map[string]any {
	criteria := map[string]any{}
	for flag, key := range flagToKey {
		if v := cmd.String(flag); v != "" {
			criteria[key] = v
		}
	}
	return criteria
}

// CharacterCreate creates a character.
func (r *Runner) CharacterCreate(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	c := &models.Character{
		Name:        cmd.String("name"),
		Species:     cmd.String("species"),
		Homeworld:   cmd.String("homeworld"),
		Gender:      cmd.String("gender"),
		Description: cmd.String("description"),
		ImageURL:    cmd.String("image-url"),
	}
	if err := store.Characters.Create(ctx, c); err != nil {
		return err
	}

	r.logger.Info("character created", "id", c.ID, "name", c.Name)
	if cmd.Bool("json") {
		return r.writeJSON(c, cmd.Bool("pretty"))
	}
	r.writePlain("✓ Created character %d (%s)\n", c.ID, c.Name)
	return nil
}

// CharacterGet shows a character looked up by id or name.
func (r *Runner) CharacterGet(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	var c *models.Character
	switch {
	case cmd.Int64("id") > 0:
		c, err = store.Characters.Get(ctx, cmd.Int64("id"))
	case cmd.String("name") != "":
		c, err = store.Characters.GetByName(ctx, cmd.String("name"))
	default:
		return fmt.Errorf("%w: --id or --name", shared.ErrMissingArgument)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(c, cmd.Bool("pretty"))
	}
	r.writePlain("ID: %d\n", c.ID)
	r.writePlain("Name: %s\n", c.Name)
	r.writePlain("Species: %s\n", c.Species)
	r.writePlain("Homeworld: %s\n", c.Homeworld)
	r.writePlain("Gender: %s\n", c.Gender)
	if c.Description != "" {
		r.writePlain("Description: %s\n", c.Description)
	}
	return nil
}

// CharacterList lists characters matching the given filters.
func (r *Runner) CharacterList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	characters, err := store.Characters.List(ctx, stringCriteria(cmd, map[string]string{
		"name": "name", "homeworld": "homeworld", "species": "species", "gender": "gender",
	}))
	if err != nil {
		return err
	}
	return r.writeCharacters(cmd, "Characters", characters)
}

// CharacterDelete deletes a character. Piloted characters are refused.
func (r *Runner) CharacterDelete(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	if err := store.Characters.Delete(ctx, id); err != nil {
		return err
	}

	r.logger.Info("character deleted", "id", id)
	r.writePlain("✓ Deleted character %d\n", id)
	return nil
}

// CharacterVehicles lists the vehicles a character pilots.
func (r *Runner) CharacterVehicles(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	vehicles, err := store.CharacterVehicles(ctx, cmd.Int64("id"))
	if err != nil {
		return err
	}
	return r.writeVehicles(cmd, "Piloted vehicles", vehicles)
}

// PlanetCreate creates a planet.
func (r *Runner) PlanetCreate(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	p := &models.Planet{
		Name:       cmd.String("name"),
		Climate:    cmd.String("climate"),
		Terrain:    cmd.String("terrain"),
		Population: cmd.Int64("population"),
		Diameter:   cmd.Int64("diameter"),
		ImageURL:   cmd.String("image-url"),
	}
	if err := store.Planets.Create(ctx, p); err != nil {
		return err
	}

	r.logger.Info("planet created", "id", p.ID, "name", p.Name)
	if cmd.Bool("json") {
		return r.writeJSON(p, cmd.Bool("pretty"))
	}
	r.writePlain("✓ Created planet %d (%s)\n", p.ID, p.Name)
	return nil
}

// PlanetGet shows a planet looked up by id or name.
func (r *Runner) PlanetGet(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	var p *models.Planet
	switch {
	case cmd.Int64("id") > 0:
		p, err = store.Planets.Get(ctx, cmd.Int64("id"))
	case cmd.String("name") != "":
		p, err = store.Planets.GetByName(ctx, cmd.String("name"))
	default:
		return fmt.Errorf("%w: --id or --name", shared.ErrMissingArgument)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(p, cmd.Bool("pretty"))
	}
	r.writePlain("ID: %d\n", p.ID)
	r.writePlain("Name: %s\n", p.Name)
	r.writePlain("Climate: %s\n", p.Climate)
	r.writePlain("Terrain: %s\n", p.Terrain)
	r.writePlain("Population: %d\n", p.Population)
	r.writePlain("Diameter: %d km\n", p.Diameter)
	return nil
}

// PlanetList lists planets matching the given filters.
func (r *Runner) PlanetList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	planets, err := store.Planets.List(ctx, stringCriteria(cmd, map[string]string{
		"name": "name", "climate": "climate", "terrain": "terrain",
	}))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(planets, cmd.Bool("pretty"))
	}
	r.writePlainHeader(fmt.Sprintf("Planets (%d)", len(planets)))
	for _, p := range planets {
		r.writePlain("%4d  %-25s %-20s %s\n", p.ID, p.Name, p.Climate, p.Terrain)
	}
	return nil
}

// PlanetDelete deletes a planet and its favorites.
func (r *Runner) PlanetDelete(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	if err := store.Planets.Delete(ctx, id); err != nil {
		return err
	}

	r.logger.Info("planet deleted", "id", id)
	r.writePlain("✓ Deleted planet %d\n", id)
	return nil
}

// PlanetResidents lists characters whose homeworld is the planet.
func (r *Runner) PlanetResidents(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	residents, err := store.PlanetResidents(ctx, cmd.Int64("id"))
	if err != nil {
		return err
	}
	return r.writeCharacters(cmd, "Residents", residents)
}

// VehicleCreate creates a vehicle flown by an existing character.
func (r *Runner) VehicleCreate(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	v := &models.Vehicle{
		Name:         cmd.String("name"),
		Model:        cmd.String("model"),
		VehicleClass: cmd.String("class"),
		Manufacturer: cmd.String("manufacturer"),
		Length:       cmd.Float("length"),
		Crew:         cmd.Int("crew"),
		Passengers:   cmd.Int("passengers"),
		ImageURL:     cmd.String("image-url"),
		PilotID:      cmd.Int64("pilot-id"),
	}
	if err := store.Vehicles.Create(ctx, v); err != nil {
		return err
	}

	r.logger.Info("vehicle created", "id", v.ID, "name", v.Name, "pilot", v.PilotID)
	if cmd.Bool("json") {
		return r.writeJSON(v, cmd.Bool("pretty"))
	}
	r.writePlain("✓ Created vehicle %d (%s)\n", v.ID, v.Name)
	return nil
}

// VehicleGet shows a vehicle looked up by id or name.
func (r *Runner) VehicleGet(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	var v *models.Vehicle
	switch {
	case cmd.Int64("id") > 0:
		v, err = store.Vehicles.Get(ctx, cmd.Int64("id"))
	case cmd.String("name") != "":
		v, err = store.Vehicles.GetByName(ctx, cmd.String("name"))
	default:
		return fmt.Errorf("%w: --id or --name", shared.ErrMissingArgument)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(v, cmd.Bool("pretty"))
	}
	r.writePlain("ID: %d\n", v.ID)
	r.writePlain("Name: %s\n", v.Name)
	r.writePlain("Model: %s\n", v.Model)
	r.writePlain("Class: %s\n", v.VehicleClass)
	r.writePlain("Manufacturer: %s\n", v.Manufacturer)
	r.writePlain("Length: %.2f m\n", v.Length)
	r.writePlain("Crew: %d, passengers: %d\n", v.Crew, v.Passengers)
	r.writePlain("Pilot: %d\n", v.PilotID)
	return nil
}

// VehicleList lists vehicles matching the given filters.
func (r *Runner) VehicleList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	criteria := stringCriteria(cmd, map[string]string{"class": "vehicle_class", "manufacturer": "manufacturer"})
	if pilotID := cmd.Int64("pilot-id"); pilotID > 0 {
		criteria["pilot_id"] = pilotID
	}

	vehicles, err := store.Vehicles.List(ctx, criteria)
	if err != nil {
		return err
	}
	return r.writeVehicles(cmd, "Vehicles", vehicles)
}

// VehicleDelete deletes a vehicle and its favorites.
func (r *Runner) VehicleDelete(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	if err := store.Vehicles.Delete(ctx, id); err != nil {
		return err
	}

	r.logger.Info("vehicle deleted", "id", id)
	r.writePlain("✓ Deleted vehicle %d\n", id)
	return nil
}

// favoritedBy builds the action listing users who favorited a target of kind.
func (r *Runner) favoritedBy(kind models.FavoriteKind) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		store, err := r.openStore(ctx)
		if err != nil {
			return err
		}

		users, err := store.FavoritedBy(ctx, kind, cmd.Int64("id"))
		if err != nil {
			return err
		}

		if cmd.Bool("json") {
			return r.writeJSON(users, cmd.Bool("pretty"))
		}
		r.writePlainHeader(fmt.Sprintf("Favorited by (%d)", len(users)))
		for _, u := range users {
			r.writePlain("%4d  %-30s %s\n", u.ID, u.Email, u.FullName())
		}
		return nil
	}
}

func (r *Runner) writeCharacters(cmd *cli.Command, title string, characters []*models.Character) error {
	if cmd.Bool("json") {
		return r.writeJSON(characters, cmd.Bool("pretty"))
	}
	r.writePlainHeader(fmt.Sprintf("%s (%d)", title, len(characters)))
	for _, c := range characters {
		r.writePlain("%4d  %-25s %-15s %s\n", c.ID, c.Name, c.Species, c.Homeworld)
	}
	return nil
}

func (r *Runner) writeVehicles(cmd *cli.Command, title string, vehicles []*models.Vehicle) error {
	if cmd.Bool("json") {
		return r.writeJSON(vehicles, cmd.Bool("pretty"))
	}
	r.writePlainHeader(fmt.Sprintf("%s (%d)", title, len(vehicles)))
	for _, v := range vehicles {
		r.writePlain("%4d  %-30s %-20s pilot %d\n", v.ID, v.Name, v.VehicleClass, v.PilotID)
	}
	return nil
}
