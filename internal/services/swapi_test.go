package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/holocron/internal/shared"
	tu "github.com/desertthunder/holocron/internal/testing"
)

func planetFixtures(n int) []map[string]any {
	names := []string{"Tatooine", "Alderaan", "Yavin IV", "Hoth", "Dagobah"}
	records := make([]map[string]any, 0, n)
	for i := range n {
		records = append(records, map[string]any{
			"name":       names[i%len(names)],
			"climate":    "arid",
			"terrain":    "desert",
			"population": "200000",
			"diameter":   "10465",
		})
	}
	return records
}

func TestSWAPIClient(t *testing.T) {
	t.Run("NewSWAPIClient", func(t *testing.T) {
		t.Run("creates client with default URL", func(t *testing.T) {
			c := NewSWAPIClient("", nil)
			if c.BaseURL() != defaultSWAPIBaseURL {
				t.Errorf("expected baseURL to be %s, got %s", defaultSWAPIBaseURL, c.BaseURL())
			}
			if c.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("trims trailing slash", func(t *testing.T) {
			if c := NewSWAPIClient("http://localhost:9000/api/", nil); c.BaseURL() != "http://localhost:9000/api" {
				t.Errorf("unexpected baseURL %s", c.BaseURL())
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if c := NewSWAPIClient("", nil); c.Name() != "SWAPI" {
			t.Errorf("expected name to be 'SWAPI', got %s", c.Name())
		}
	})

	t.Run("Planets", func(t *testing.T) {
		srv := tu.NewSWAPIServer(t, 2, map[string][]map[string]any{"planets": planetFixtures(3)})
		c := NewSWAPIClient(srv.URL, srv.Client())

		first, err := c.Planets(context.Background(), 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if first.Count != 3 || len(first.Results) != 2 {
			t.Fatalf("unexpected first page %+v", first)
		}
		if !first.HasNext() {
			t.Error("expected another page")
		}
		if first.TotalPages() != 2 {
			t.Errorf("expected 2 pages, got %d", first.TotalPages())
		}
		if first.Results[0].Name != "Tatooine" || first.Results[0].URL != srv.RecordURL("planets", 1) {
			t.Errorf("unexpected planet %+v", first.Results[0])
		}

		last, err := c.Planets(context.Background(), 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(last.Results) != 1 || last.HasNext() {
			t.Errorf("unexpected last page %+v", last)
		}
	})

	t.Run("People and Vehicles", func(t *testing.T) {
		srv := tu.NewSWAPIServer(t, 10, map[string][]map[string]any{
			"people": {{
				"name":       "Luke Skywalker",
				"height":     "172",
				"mass":       "77",
				"birth_year": "19BBY",
				"gender":     "male",
				"homeworld":  tu.SWAPIBase + "/planets/1/",
			}},
			"vehicles": {{
				"name":          "Snowspeeder",
				"vehicle_class": "airspeeder",
				"length":        "4.5",
				"crew":          "2",
				"passengers":    "0",
				"pilots":        []string{tu.SWAPIBase + "/people/1/"},
			}},
		})
		c := NewSWAPIClient(srv.URL, srv.Client())

		people, err := c.People(context.Background(), 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		luke := people.Results[0]
		if luke.Homeworld != srv.RecordURL("planets", 1) {
			t.Errorf("expected homeworld url, got %s", luke.Homeworld)
		}
		if luke.Description() != "Born 19BBY. Height 172 cm. Mass 77 kg." {
			t.Errorf("unexpected description %q", luke.Description())
		}

		vehicles, err := c.Vehicles(context.Background(), 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		speeder := vehicles.Results[0]
		if len(speeder.Pilots) != 1 || speeder.Pilots[0] != srv.RecordURL("people", 1) {
			t.Errorf("unexpected pilots %v", speeder.Pilots)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		srv := tu.NewSWAPIServer(t, 10, map[string][]map[string]any{"planets": planetFixtures(1)})
		srv.FailWith("vehicles", http.StatusServiceUnavailable)
		srv.FailWith("people", http.StatusBadRequest)
		c := NewSWAPIClient(srv.URL, srv.Client())
		ctx := context.Background()

		tt := []struct {
			name string
			call func() error
			want error
		}{
			{
				name: "page past the end",
				call: func() error { _, err := c.Planets(ctx, 5); return err },
				want: shared.ErrNotFound,
			},
			{
				name: "server unavailable",
				call: func() error { _, err := c.Vehicles(ctx, 1); return err },
				want: shared.ErrServiceUnavailable,
			},
			{
				name: "bad request",
				call: func() error { _, err := c.People(ctx, 1); return err },
				want: shared.ErrAPIRequest,
			},
			{
				name: "invalid page",
				call: func() error { _, err := c.Planets(ctx, 0); return err },
				want: shared.ErrInvalidArgument,
			},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				if err := tc.call(); !errors.Is(err, tc.want) {
					t.Errorf("expected %v, got %v", tc.want, err)
				}
			})
		}
	})

	t.Run("Transport failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		c := NewSWAPIClient("http://swapi.invalid/api", client)

		_, err := c.Planets(context.Background(), 1)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("expected transport error in message, got %v", err)
		}
	})

	t.Run("Malformed body", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
		c := NewSWAPIClient("http://swapi.invalid/api", client)

		if _, err := c.Planets(context.Background(), 1); err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestParsing(t *testing.T) {
	t.Run("ParseInt", func(t *testing.T) {
		tt := []struct {
			in   string
			want int64
		}{
			{"200000", 200000},
			{"1,000,000,000", 1000000000},
			{"30-165", 30},
			{"unknown", 0},
			{"", 0},
			{"-4", 0},
		}
		for _, tc := range tt {
			if got := ParseInt(tc.in); got != tc.want {
				t.Errorf("ParseInt(%q) = %d, want %d", tc.in, got, tc.want)
			}
		}
	})

	t.Run("ParseFloat", func(t *testing.T) {
		tt := []struct {
			in   string
			want float64
		}{
			{"9.5", 9.5},
			{"1,500", 1500},
			{"n/a", 0},
		}
		for _, tc := range tt {
			if got := ParseFloat(tc.in); got != tc.want {
				t.Errorf("ParseFloat(%q) = %v, want %v", tc.in, got, tc.want)
			}
		}
	})

	t.Run("Known", func(t *testing.T) {
		for in, want := range map[string]string{"unknown": "", "n/a": "", " male ": "male", "none": ""} {
			if got := Known(in); got != want {
				t.Errorf("Known(%q) = %q, want %q", in, got, want)
			}
		}
	})

	t.Run("TotalPages", func(t *testing.T) {
		p := &Page[SWAPIPlanet]{Count: 61, Results: make([]SWAPIPlanet, 10)}
		if p.TotalPages() != 7 {
			t.Errorf("expected 7 pages, got %d", p.TotalPages())
		}
		empty := &Page[SWAPIPlanet]{}
		if empty.TotalPages() != 1 {
			t.Errorf("expected 1 page for empty listing, got %d", empty.TotalPages())
		}
	})
}
