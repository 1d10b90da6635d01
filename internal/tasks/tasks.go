// package tasks implements long-running catalog operations: seeding from SWAPI and bulk favorites export.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/holocron/internal/models"
	"github.com/desertthunder/holocron/internal/repositories"
	"github.com/desertthunder/holocron/internal/services"
	"github.com/desertthunder/holocron/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 10
	defaultRateLimit = 5.0
	// column width of catalog names and short text fields
	columnWidth = 50
)

type resource string

const (
	resourcePlanets  resource = "planets"
	resourcePeople   resource = "people"
	resourceVehicles resource = "vehicles"
)

var resources = []resource{resourcePlanets, resourcePeople, resourceVehicles}

type outcome int

const (
	created outcome = iota
	skipped
	failed
)

func (o outcome) String() string {
	switch o {
	case created:
		return "created"
	case skipped:
		return "skipped"
	default:
		return "failed"
	}
}

func (o outcome) symbol() string {
	switch o {
	case created:
		return "+"
	case skipped:
		return "="
	default:
		return "✗"
	}
}

// EntityCounts tallies the outcome of inserting one entity type.
type EntityCounts struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

func (c *EntityCounts) record(o outcome) {
	switch o {
	case created:
		c.Created++
	case skipped:
		c.Skipped++
	default:
		c.Failed++
	}
}

// Total is the number of records seen.
func (c EntityCounts) Total() int {
	return c.Created + c.Skipped + c.Failed
}

// ImportIssue explains why a record was skipped or failed.
type ImportIssue struct {
	Entity string `json:"entity"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ImportResult contains the outcome of one import run.
type ImportResult struct {
	RunID      string        `json:"run_id"`
	Source     string        `json:"source"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Planets    EntityCounts  `json:"planets"`
	Characters EntityCounts  `json:"characters"`
	Vehicles   EntityCounts  `json:"vehicles"`
	Issues     []ImportIssue `json:"issues,omitempty"`
}

// Duration is the wall time of the run.
func (r *ImportResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// ImportOpts contains configuration for an import run.
type ImportOpts struct {
	NumWorkers int         // Concurrent page fetchers (default: 4, max: 10)
	RateLimit  float64     // Requests per second (default: 5)
	Logger     *log.Logger // Defaults to a discarding logger
}

// ImportEngine seeds the catalog from an upstream source.
type ImportEngine interface {
	// Run fetches every page of planets, people and vehicles, then inserts them in one transaction.
	Run(ctx context.Context, progress chan<- ProgressUpdate) (*ImportResult, error)
}

// Importer implements [ImportEngine] with a rate-limited worker pool.
type Importer struct {
	source services.CatalogSource
	store  *repositories.Store
	opts   ImportOpts
	logger *log.Logger
}

var _ ImportEngine = (*Importer)(nil)

// NewImporter creates an Importer reading from source and writing to store.
func NewImporter(source services.CatalogSource, store *repositories.Store, opts ImportOpts) *Importer {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Importer{source: source, store: store, opts: opts, logger: logger}
}

// catalog holds every fetched record in page order.
type catalog struct {
	planets  []services.SWAPIPlanet
	people   []services.SWAPIPerson
	vehicles []services.SWAPIVehicle
}

type pageJob struct {
	resource resource
	page     int
}

type pageResult struct {
	job      pageJob
	pages    int
	planets  []services.SWAPIPlanet
	people   []services.SWAPIPerson
	vehicles []services.SWAPIVehicle
	err      error
}

// Run performs a full import.
//
// A page that cannot be fetched aborts the run before anything is written.
// Name collisions with existing rows count as skipped.
func (i *Importer) Run(ctx context.Context, progress chan<- ProgressUpdate) (*ImportResult, error) {
	if i.source == nil {
		return nil, fmt.Errorf("%w: catalog source not initialized", shared.ErrServiceUnavailable)
	}
	if i.store == nil {
		return nil, fmt.Errorf("%w: store not initialized", shared.ErrMissingConfig)
	}

	result := &ImportResult{
		RunID:     shared.GenerateID(),
		Source:    i.source.Name(),
		StartedAt: time.Now().UTC(),
	}
	logger := shared.WithLogger(i.logger, "run", result.RunID)
	logger.Info("starting import", "source", result.Source, "workers", i.opts.NumWorkers, "rate", i.opts.RateLimit)

	cat, err := i.fetch(ctx, logger, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	err = i.store.WithTx(ctx, func(tx *repositories.Store) error {
		return i.insert(ctx, tx, logger, cat, result, progress)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import catalog: %w", err)
	}

	result.FinishedAt = time.Now().UTC()
	logger.Info("import complete",
		"planets", result.Planets.Created,
		"characters", result.Characters.Created,
		"vehicles", result.Vehicles.Created,
		"issues", len(result.Issues),
		"duration", result.Duration().Round(time.Millisecond),
	)
	sendProgress(progress, importCompleteUpdate(result))
	return result, nil
}

// fetch reads the first page of each resource to learn the page counts, then
// fans the remaining pages out to the worker pool.
func (i *Importer) fetch(ctx context.Context, logger *log.Logger, progress chan<- ProgressUpdate) (*catalog, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(i.opts.RateLimit), 1)

	pages := make(map[pageJob]pageResult)
	totals := make(map[resource]int, len(resources))
	var pending []pageJob

	for _, r := range resources {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		first := i.fetchPage(ctx, pageJob{resource: r, page: 1})
		if first.err != nil {
			return nil, first.err
		}

		pages[first.job] = first
		totals[r] = first.pages
		sendProgress(progress, fetchPageUpdate(r, 1, first.pages))
		logger.Debug("fetched first page", "resource", r, "pages", first.pages)

		for p := 2; p <= first.pages; p++ {
			pending = append(pending, pageJob{resource: r, page: p})
		}
	}

	jobs := make(chan pageJob, len(pending))
	results := make(chan pageResult, len(pending))

	var wg sync.WaitGroup
	for w := 0; w < i.opts.NumWorkers; w++ {
		wg.Add(1)
		go i.fetchWorker(ctx, &wg, limiter, jobs, results)
	}

	for _, job := range pending {
		jobs <- job
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	fetched := map[resource]int{resourcePlanets: 1, resourcePeople: 1, resourceVehicles: 1}
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}

		pages[res.job] = res
		fetched[res.job.resource]++
		sendProgress(progress, fetchPageUpdate(res.job.resource, fetched[res.job.resource], totals[res.job.resource]))
		logger.Debug("fetched page", "resource", res.job.resource, "page", res.job.page)
	}

	if firstErr != nil {
		return nil, firstErr
	}

	cat := &catalog{}
	for _, r := range resources {
		for p := 1; p <= totals[r]; p++ {
			res := pages[pageJob{resource: r, page: p}]
			cat.planets = append(cat.planets, res.planets...)
			cat.people = append(cat.people, res.people...)
			cat.vehicles = append(cat.vehicles, res.vehicles...)
		}
	}

	logger.Info("fetched catalog", "planets", len(cat.planets), "people", len(cat.people), "vehicles", len(cat.vehicles))
	return cat, nil
}

// fetchWorker is a worker goroutine that fetches pages from the jobs channel.
func (i *Importer) fetchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan pageJob,
	results chan<- pageResult,
) {
	defer wg.Done()

	for job := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			results <- pageResult{job: job, err: err}
			continue
		}
		results <- i.fetchPage(ctx, job)
	}
}

func (i *Importer) fetchPage(ctx context.Context, job pageJob) pageResult {
	res := pageResult{job: job}

	switch job.resource {
	case resourcePlanets:
		page, err := i.source.Planets(ctx, job.page)
		if err != nil {
			res.err = fmt.Errorf("planets page %d: %w", job.page, err)
			return res
		}
		res.planets, res.pages = page.Results, page.TotalPages()
	case resourcePeople:
		page, err := i.source.People(ctx, job.page)
		if err != nil {
			res.err = fmt.Errorf("people page %d: %w", job.page, err)
			return res
		}
		res.people, res.pages = page.Results, page.TotalPages()
	case resourceVehicles:
		page, err := i.source.Vehicles(ctx, job.page)
		if err != nil {
			res.err = fmt.Errorf("vehicles page %d: %w", job.page, err)
			return res
		}
		res.vehicles, res.pages = page.Results, page.TotalPages()
	}
	return res
}

// insert writes planets, then characters, then vehicles so that homeworld and
// pilot urls can be resolved against rows inserted earlier in the run.
func (i *Importer) insert(
	ctx context.Context,
	tx *repositories.Store,
	logger *log.Logger,
	cat *catalog,
	result *ImportResult,
	progress chan<- ProgressUpdate,
) error {
	planetNames := make(map[string]string, len(cat.planets))
	for n, p := range cat.planets {
		if err := ctx.Err(); err != nil {
			return err
		}

		planet := &models.Planet{
			Name:       clip(p.Name),
			Climate:    clip(services.Known(p.Climate)),
			Terrain:    clip(services.Known(p.Terrain)),
			Population: services.ParseInt(p.Population),
			Diameter:   services.ParseInt(p.Diameter),
		}

		o := i.classify(tx.Planets.Create(ctx, planet), "planet", planet.Name, result, logger)
		result.Planets.record(o)
		if o != failed {
			planetNames[p.URL] = planet.Name
		}
		sendProgress(progress, insertUpdate(InsertPlanets, n+1, len(cat.planets), planet.Name, o))
	}

	characterIDs := make(map[string]int64, len(cat.people))
	for n, p := range cat.people {
		if err := ctx.Err(); err != nil {
			return err
		}

		character := &models.Character{
			Name:        clip(p.Name),
			Homeworld:   planetNames[p.Homeworld],
			Gender:      clipTo(services.Known(p.Gender), 20),
			Description: p.Description(),
		}

		o := i.classify(tx.Characters.Create(ctx, character), "character", character.Name, result, logger)
		result.Characters.record(o)

		switch o {
		case created:
			characterIDs[p.URL] = character.ID
		case skipped:
			if existing, err := tx.Characters.GetByName(ctx, character.Name); err == nil {
				characterIDs[p.URL] = existing.ID
			}
		}
		sendProgress(progress, insertUpdate(InsertCharacters, n+1, len(cat.people), character.Name, o))
	}

	for n, v := range cat.vehicles {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := clip(v.Name)
		pilotID, ok := firstPilot(v.Pilots, characterIDs)
		if !ok {
			result.Vehicles.record(skipped)
			result.Issues = append(result.Issues, ImportIssue{Entity: "vehicle", Name: name, Reason: "no known pilot"})
			logger.Debug("skipping pilotless vehicle", "name", name)
			sendProgress(progress, insertUpdate(InsertVehicles, n+1, len(cat.vehicles), name, skipped))
			continue
		}

		vehicle := &models.Vehicle{
			Name:         name,
			Model:        clip(services.Known(v.Model)),
			VehicleClass: clip(services.Known(v.VehicleClass)),
			Manufacturer: clip(services.Known(v.Manufacturer)),
			Length:       services.ParseFloat(v.Length),
			Crew:         int(services.ParseInt(v.Crew)),
			Passengers:   int(services.ParseInt(v.Passengers)),
			PilotID:      pilotID,
		}

		o := i.classify(tx.Vehicles.Create(ctx, vehicle), "vehicle", vehicle.Name, result, logger)
		result.Vehicles.record(o)
		sendProgress(progress, insertUpdate(InsertVehicles, n+1, len(cat.vehicles), vehicle.Name, o))
	}

	return nil
}

// classify maps a Create error onto an outcome, recording an issue for anything not created.
func (i *Importer) classify(err error, entity, name string, result *ImportResult, logger *log.Logger) outcome {
	switch {
	case err == nil:
		return created
	case errors.Is(err, shared.ErrUniqueViolation):
		result.Issues = append(result.Issues, ImportIssue{Entity: entity, Name: name, Reason: "already exists"})
		return skipped
	default:
		logger.Warn("insert failed", "entity", entity, "name", name, "error", err)
		result.Issues = append(result.Issues, ImportIssue{Entity: entity, Name: name, Reason: err.Error()})
		return failed
	}
}

func firstPilot(urls []string, ids map[string]int64) (int64, bool) {
	for _, u := range urls {
		if id, ok := ids[u]; ok {
			return id, true
		}
	}
	return 0, false
}

func clip(s string) string {
	return clipTo(s, columnWidth)
}

// clipTo trims s to at most n runes.
func clipTo(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
