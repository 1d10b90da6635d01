package models

var (
	_ Model = (*Character)(nil)
	_ Model = (*Planet)(nil)
	_ Model = (*Vehicle)(nil)
)

// Character is a named catalog character.
//
// Homeworld is free text; it is not a reference to [Planet].
type Character struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Species     string `json:"species"`
	Homeworld   string `json:"homeworld"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (c *Character) TableName() string { return "character" }

func (c *Character) Validate() error {
	return firstErr(
		required("name", c.Name),
		maxLen("name", c.Name, maxName),
		maxLen("species", c.Species, maxName),
		maxLen("homeworld", c.Homeworld, maxName),
		maxLen("gender", c.Gender, maxShort),
		maxLen("image_url", c.ImageURL, maxURL),
	)
}

// Planet is a named catalog planet.
type Planet struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Climate    string `json:"climate"`
	Terrain    string `json:"terrain"`
	Population int64  `json:"population"`
	Diameter   int64  `json:"diameter"`
	ImageURL   string `json:"image_url"`
}

func (p *Planet) TableName() string { return "planet" }

func (p *Planet) Validate() error {
	return firstErr(
		required("name", p.Name),
		maxLen("name", p.Name, maxName),
		maxLen("climate", p.Climate, maxName),
		maxLen("terrain", p.Terrain, maxName),
		nonNegative("population", p.Population),
		nonNegative("diameter", p.Diameter),
		maxLen("image_url", p.ImageURL, maxURL),
	)
}

// Vehicle is a named catalog vehicle flown by exactly one [Character].
type Vehicle struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Model        string  `json:"model"`
	VehicleClass string  `json:"vehicle_class"`
	Manufacturer string  `json:"manufacturer"`
	Length       float64 `json:"length"`
	Crew         int     `json:"crew"`
	Passengers   int     `json:"passengers"`
	ImageURL     string  `json:"image_url"`
	PilotID      int64   `json:"pilot_id"`
}

func (v *Vehicle) TableName() string { return "vehicle" }

// Validate checks required fields and column limits. Pilot existence is left to the foreign key.
func (v *Vehicle) Validate() error {
	return firstErr(
		required("name", v.Name),
		requiredID("pilot_id", v.PilotID),
		maxLen("name", v.Name, maxName),
		maxLen("model", v.Model, maxName),
		maxLen("vehicle_class", v.VehicleClass, maxName),
		maxLen("manufacturer", v.Manufacturer, maxName),
		maxLen("image_url", v.ImageURL, maxURL),
		nonNegative("crew", int64(v.Crew)),
		nonNegative("passengers", int64(v.Passengers)),
	)
}
