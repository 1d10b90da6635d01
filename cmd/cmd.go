// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/holocron/internal/models"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func outputFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
	)
}

func idFlag(usage string) cli.Flag {
	return &cli.Int64Flag{Name: "id", Usage: usage, Required: true}
}

func kindFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "kind",
		Aliases:  []string{"k"},
		Usage:    "Favorite kind: character, planet or vehicle",
		Required: true,
	}
}

// setupCommand handles database setup operations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recent migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupRollback,
			},
		},
	}
}

// userCommand handles user accounts.
func userCommand(r *Runner) *cli.Command {
	profileFields := func(extra ...cli.Flag) []cli.Flag {
		return append([]cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "Email address (unique)"},
			&cli.StringFlag{Name: "password", Usage: "Password (stored opaque, never printed)"},
			&cli.StringFlag{Name: "first-name", Usage: "First name"},
			&cli.StringFlag{Name: "last-name", Usage: "Last name"},
			&cli.StringFlag{Name: "profile-image", Usage: "Profile image reference"},
		}, extra...)
	}

	return &cli.Command{
		Name:    "user",
		Aliases: []string{"users"},
		Usage:   "Manage user accounts",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a user",
				Flags: outputFlags(profileFields(
					&cli.BoolFlag{Name: "inactive", Usage: "Create the account inactive"},
				)...),
				Action: r.UserCreate,
			},
			{
				Name:  "get",
				Usage: "Show a user by id or email",
				Flags: outputFlags(
					&cli.Int64Flag{Name: "id", Usage: "User ID"},
					&cli.StringFlag{Name: "email", Usage: "User email"},
				),
				Action: r.UserGet,
			},
			{
				Name:  "list",
				Usage: "List users",
				Flags: outputFlags(
					&cli.StringFlag{Name: "email", Usage: "Filter by email"},
					&cli.BoolFlag{Name: "active", Usage: "Filter by active flag"},
				),
				Action: r.UserList,
			},
			{
				Name:  "update",
				Usage: "Update the given fields of a user",
				Flags: outputFlags(profileFields(
					idFlag("User ID"),
					&cli.BoolFlag{Name: "active", Usage: "Set the active flag"},
				)...),
				Action: r.UserUpdate,
			},
			{
				Name:   "delete",
				Usage:  "Delete a user and every favorite it owns",
				Flags:  outputFlags(idFlag("User ID")),
				Action: r.UserDelete,
			},
			{
				Name:   "favorites",
				Usage:  "List a user's favorites across all kinds",
				Flags:  outputFlags(idFlag("User ID")),
				Action: r.UserFavorites,
			},
		},
	}
}

// characterCommand handles catalog characters.
func characterCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "character",
		Aliases: []string{"char"},
		Usage:   "Manage catalog characters",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a character",
				Flags: outputFlags(
					&cli.StringFlag{Name: "name", Usage: "Character name (unique)", Required: true},
					&cli.StringFlag{Name: "species", Usage: "Species"},
					&cli.StringFlag{Name: "homeworld", Usage: "Homeworld name"},
					&cli.StringFlag{Name: "gender", Usage: "Gender"},
					&cli.StringFlag{Name: "description", Usage: "Description"},
					&cli.StringFlag{Name: "image-url", Usage: "Image URL"},
				),
				Action: r.CharacterCreate,
			},
			{
				Name:  "get",
				Usage: "Show a character by id or name",
				Flags: outputFlags(
					&cli.Int64Flag{Name: "id", Usage: "Character ID"},
					&cli.StringFlag{Name: "name", Usage: "Character name"},
				),
				Action: r.CharacterGet,
			},
			{
				Name:  "list",
				Usage: "List characters",
				Flags: outputFlags(
					&cli.StringFlag{Name: "name", Usage: "Filter by name"},
					&cli.StringFlag{Name: "homeworld", Usage: "Filter by homeworld"},
					&cli.StringFlag{Name: "species", Usage: "Filter by species"},
					&cli.StringFlag{Name: "gender", Usage: "Filter by gender"},
				),
				Action: r.CharacterList,
			},
			{
				Name:   "delete",
				Usage:  "Delete a character (refused while it pilots a vehicle)",
				Flags:  []cli.Flag{idFlag("Character ID")},
				Action: r.CharacterDelete,
			},
			{
				Name:   "vehicles",
				Usage:  "List vehicles piloted by a character",
				Flags:  outputFlags(idFlag("Character ID")),
				Action: r.CharacterVehicles,
			},
			{
				Name:   "favorited-by",
				Usage:  "List users who favorited a character",
				Flags:  outputFlags(idFlag("Character ID")),
				Action: r.favoritedBy(models.KindCharacter),
			},
		},
	}
}

// planetCommand handles catalog planets.
func planetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "planet",
		Usage: "Manage catalog planets",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a planet",
				Flags: outputFlags(
					&cli.StringFlag{Name: "name", Usage: "Planet name (unique)", Required: true},
					&cli.StringFlag{Name: "climate", Usage: "Climate"},
					&cli.StringFlag{Name: "terrain", Usage: "Terrain"},
					&cli.Int64Flag{Name: "population", Usage: "Population"},
					&cli.Int64Flag{Name: "diameter", Usage: "Diameter in km"},
					&cli.StringFlag{Name: "image-url", Usage: "Image URL"},
				),
				Action: r.PlanetCreate,
			},
			{
				Name:  "get",
				Usage: "Show a planet by id or name",
				Flags: outputFlags(
					&cli.Int64Flag{Name: "id", Usage: "Planet ID"},
					&cli.StringFlag{Name: "name", Usage: "Planet name"},
				),
				Action: r.PlanetGet,
			},
			{
				Name:  "list",
				Usage: "List planets",
				Flags: outputFlags(
					&cli.StringFlag{Name: "name", Usage: "Filter by name"},
					&cli.StringFlag{Name: "climate", Usage: "Filter by climate"},
					&cli.StringFlag{Name: "terrain", Usage: "Filter by terrain"},
				),
				Action: r.PlanetList,
			},
			{
				Name:   "delete",
				Usage:  "Delete a planet and its favorites",
				Flags:  []cli.Flag{idFlag("Planet ID")},
				Action: r.PlanetDelete,
			},
			{
				Name:   "residents",
				Usage:  "List characters whose homeworld is this planet",
				Flags:  outputFlags(idFlag("Planet ID")),
				Action: r.PlanetResidents,
			},
			{
				Name:   "favorited-by",
				Usage:  "List users who favorited a planet",
				Flags:  outputFlags(idFlag("Planet ID")),
				Action: r.favoritedBy(models.KindPlanet),
			},
		},
	}
}

// vehicleCommand handles catalog vehicles.
func vehicleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "vehicle",
		Usage: "Manage catalog vehicles",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a vehicle",
				Flags: outputFlags(
					&cli.StringFlag{Name: "name", Usage: "Vehicle name (unique)", Required: true},
					&cli.Int64Flag{Name: "pilot-id", Usage: "Pilot character ID", Required: true},
					&cli.StringFlag{Name: "model", Usage: "Model"},
					&cli.StringFlag{Name: "class", Usage: "Vehicle class"},
					&cli.StringFlag{Name: "manufacturer", Usage: "Manufacturer"},
					&cli.FloatFlag{Name: "length", Usage: "Length in meters"},
					&cli.IntFlag{Name: "crew", Usage: "Crew size"},
					&cli.IntFlag{Name: "passengers", Usage: "Passenger capacity"},
					&cli.StringFlag{Name: "image-url", Usage: "Image URL"},
				),
				Action: r.VehicleCreate,
			},
			{
				Name:  "get",
				Usage: "Show a vehicle by id or name",
				Flags: outputFlags(
					&cli.Int64Flag{Name: "id", Usage: "Vehicle ID"},
					&cli.StringFlag{Name: "name", Usage: "Vehicle name"},
				),
				Action: r.VehicleGet,
			},
			{
				Name:  "list",
				Usage: "List vehicles",
				Flags: outputFlags(
					&cli.Int64Flag{Name: "pilot-id", Usage: "Filter by pilot"},
					&cli.StringFlag{Name: "class", Usage: "Filter by vehicle class"},
					&cli.StringFlag{Name: "manufacturer", Usage: "Filter by manufacturer"},
				),
				Action: r.VehicleList,
			},
			{
				Name:   "delete",
				Usage:  "Delete a vehicle and its favorites",
				Flags:  []cli.Flag{idFlag("Vehicle ID")},
				Action: r.VehicleDelete,
			},
			{
				Name:   "favorited-by",
				Usage:  "List users who favorited a vehicle",
				Flags:  outputFlags(idFlag("Vehicle ID")),
				Action: r.favoritedBy(models.KindVehicle),
			},
		},
	}
}

// favoriteCommand handles favorite rows of every kind.
func favoriteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorite",
		Aliases: []string{"fav"},
		Usage:   "Manage user favorites",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Favorite a character, planet or vehicle",
				Flags: outputFlags(
					kindFlag(),
					&cli.Int64Flag{Name: "user-id", Usage: "User ID", Required: true},
					&cli.Int64Flag{Name: "target-id", Usage: "Character, planet or vehicle ID", Required: true},
					&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
				),
				Action: r.FavoriteAdd,
			},
			{
				Name:   "show",
				Usage:  "Show the public view of a favorite",
				Flags:  outputFlags(kindFlag(), idFlag("Favorite ID")),
				Action: r.FavoriteShow,
			},
			{
				Name:  "notes",
				Usage: "Replace the notes on a favorite",
				Flags: []cli.Flag{
					kindFlag(),
					idFlag("Favorite ID"),
					&cli.StringFlag{Name: "notes", Usage: "New notes; empty clears them"},
				},
				Action: r.FavoriteNotes,
			},
			{
				Name:   "remove",
				Usage:  "Delete a favorite",
				Flags:  []cli.Flag{kindFlag(), idFlag("Favorite ID")},
				Action: r.FavoriteRemove,
			},
		},
	}
}

// exportCommand handles favorites exports.
func exportCommand(r *Runner) *cli.Command {
	formatFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Export format: json, csv, markdown, txt",
			Value:   "json",
		}
	}

	return &cli.Command{
		Name:  "export",
		Usage: "Export user favorites",
		Commands: []*cli.Command{
			{
				Name:  "favorites",
				Usage: "Export one user's favorites",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "user-id", Usage: "User ID", Required: true},
					formatFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (prints to stdout when omitted)",
					},
				},
				Action: r.ExportFavorites,
			},
			{
				Name:  "bulk",
				Usage: "Export favorites for many users concurrently",
				Flags: []cli.Flag{
					&cli.Int64SliceFlag{Name: "user-id", Usage: "User IDs (all users when omitted)"},
					formatFlag(),
					&cli.StringFlag{Name: "dir", Usage: "Output directory (default: favorites_export_{epoch})"},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent workers", Value: 4},
				},
				Action: r.ExportBulk,
			},
		},
	}
}

// importCommand handles catalog seeding.
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Seed the catalog from upstream sources",
		Commands: []*cli.Command{
			{
				Name:  "swapi",
				Usage: "Import planets, people and vehicles from SWAPI",
				Flags: outputFlags(
					&cli.StringFlag{Name: "base-url", Usage: "SWAPI base URL (default from config)"},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent page fetchers (default from config)"},
					&cli.FloatFlag{Name: "rate-limit", Usage: "Requests per second (default from config)"},
				),
				Action: r.ImportSWAPI,
			},
		},
	}
}

// browseCommand launches the favorites browser.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse a user's favorites interactively",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "user-id", Usage: "User ID", Required: true},
			&cli.StringFlag{Name: "log-file", Usage: "Where to write logs while the UI runs", Value: "./tmp/holocron-tui.log"},
		},
		Action: r.Browse,
	}
}
