// SWAPI [CatalogSource] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/holocron/internal/shared"
)

const defaultSWAPIBaseURL string = "https://swapi.dev/api"

// SWAPIPlanet is a planet record as served by SWAPI.
type SWAPIPlanet struct {
	Name       string   `json:"name"`
	Climate    string   `json:"climate"`
	Terrain    string   `json:"terrain"`
	Population string   `json:"population"`
	Diameter   string   `json:"diameter"`
	Residents  []string `json:"residents"`
	URL        string   `json:"url"`
}

// SWAPIPerson is a character record as served by SWAPI. Homeworld is a planet url.
type SWAPIPerson struct {
	Name      string   `json:"name"`
	Height    string   `json:"height"`
	Mass      string   `json:"mass"`
	BirthYear string   `json:"birth_year"`
	Gender    string   `json:"gender"`
	Homeworld string   `json:"homeworld"`
	Species   []string `json:"species"`
	Vehicles  []string `json:"vehicles"`
	URL       string   `json:"url"`
}

// Description summarizes the physical attributes SWAPI reports for the person.
func (p SWAPIPerson) Description() string {
	var parts []string
	if v := Known(p.BirthYear); v != "" {
		parts = append(parts, "Born "+v+".")
	}
	if v := Known(p.Height); v != "" {
		parts = append(parts, "Height "+v+" cm.")
	}
	if v := Known(p.Mass); v != "" {
		parts = append(parts, "Mass "+v+" kg.")
	}
	return strings.Join(parts, " ")
}

// SWAPIVehicle is a vehicle record as served by SWAPI. Pilots are people urls.
type SWAPIVehicle struct {
	Name         string   `json:"name"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
	VehicleClass string   `json:"vehicle_class"`
	Length       string   `json:"length"`
	Crew         string   `json:"crew"`
	Passengers   string   `json:"passengers"`
	Pilots       []string `json:"pilots"`
	URL          string   `json:"url"`
}

// SWAPIClient implements [CatalogSource] against the SWAPI REST API.
type SWAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ CatalogSource = (*SWAPIClient)(nil)

// NewSWAPIClient creates a new SWAPI client. Empty arguments fall back to swapi.dev and [http.DefaultClient].
func NewSWAPIClient(baseURL string, client *http.Client) *SWAPIClient {
	if baseURL == "" {
		baseURL = defaultSWAPIBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &SWAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// Name returns the service name.
func (c *SWAPIClient) Name() string {
	return "SWAPI"
}

// BaseURL returns the API root requests are made against.
func (c *SWAPIClient) BaseURL() string {
	return c.baseURL
}

// Planets fetches GET /planets/?page=n
func (c *SWAPIClient) Planets(ctx context.Context, page int) (*Page[SWAPIPlanet], error) {
	var result Page[SWAPIPlanet]
	if err := c.getPage(ctx, "planets", page, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// People fetches GET /people/?page=n
func (c *SWAPIClient) People(ctx context.Context, page int) (*Page[SWAPIPerson], error) {
	var result Page[SWAPIPerson]
	if err := c.getPage(ctx, "people", page, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Vehicles fetches GET /vehicles/?page=n
func (c *SWAPIClient) Vehicles(ctx context.Context, page int) (*Page[SWAPIVehicle], error) {
	var result Page[SWAPIVehicle]
	if err := c.getPage(ctx, "vehicles", page, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *SWAPIClient) getPage(ctx context.Context, resource string, page int, result any) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be at least 1, got %d", shared.ErrInvalidArgument, page)
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	return c.doRequest(ctx, "/"+resource+"/?"+query.Encode(), result)
}

func (c *SWAPIClient) doRequest(ctx context.Context, endpoint string, result any) error {
	apiURL := c.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: swapi status %d for %s", shared.ErrServiceUnavailable, resp.StatusCode, endpoint)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", endpoint, shared.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: swapi status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: swapi status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
