// Package enrich decorates a published graph with reverse-geocoded display
// names in the background. Every place and trip endpoint without a name gets
// one lookup; failures are logged and left unnamed. Nothing is retried.
package enrich

import (
	"context"
	"log/slog"
	"maps"
	"sync"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/travel-graph/backend/internal/domain"
	"github.com/pkordes/travel-graph/backend/internal/geocode"
	"github.com/pkordes/travel-graph/backend/internal/graph"
)

// Status is the enrichment state of one entity.
type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
	StatusFailed   Status = "failed"
)

// Resolver looks up the address at a [lon, lat] point.
// *geocode.Client satisfies it.
type Resolver interface {
	Reverse(ctx context.Context, pt orb.Point) (geocode.Address, error)
}

// Target is the graph being decorated. *graph.Graph satisfies it.
type Target interface {
	CommonPlaces() []domain.CommonPlace
	CommonTrips() []domain.CommonTrip
	SetPlaceDisplayName(id domain.ObjectID, name string) bool
	SetTripDisplayName(id domain.ObjectID, end graph.TripEnd, name string) bool
}

// PlaceKey is the job key of a common place lookup.
func PlaceKey(id domain.ObjectID) string {
	return "place:" + id.String()
}

// TripKey is the job key of a common trip start or end lookup.
func TripKey(id domain.ObjectID, end graph.TripEnd) string {
	return "trip:" + id.String() + ":" + end.String()
}

// Enricher starts enrichment jobs.
type Enricher struct {
	resolver Resolver
	limit    int
	log      *slog.Logger
}

// New constructs an Enricher that runs at most limit lookups at once.
// A limit below 1 is treated as 1.
func New(r Resolver, limit int, log *slog.Logger) *Enricher {
	if limit < 1 {
		limit = 1
	}
	return &Enricher{resolver: r, limit: limit, log: log}
}

type task struct {
	key   string
	pt    orb.Point
	apply func(name string) bool
}

// Start queues a lookup for every unnamed place and trip endpoint of t and
// returns immediately. All tasks are pending when Start returns.
func (e *Enricher) Start(ctx context.Context, t Target) *Job {
	ctx, cancel := context.WithCancel(ctx)
	tasks := collect(t)

	j := &Job{
		cancel:   cancel,
		done:     make(chan struct{}),
		statuses: make(map[string]Status, len(tasks)),
	}
	for _, tk := range tasks {
		j.statuses[tk.key] = StatusPending
	}

	go e.run(ctx, j, tasks)
	return j
}

func collect(t Target) []task {
	var tasks []task
	for _, cp := range t.CommonPlaces() {
		if cp.DisplayName != "" {
			continue
		}
		id := cp.ID
		tasks = append(tasks, task{
			key:   PlaceKey(id),
			pt:    cp.Location.Coordinates,
			apply: func(name string) bool { return t.SetPlaceDisplayName(id, name) },
		})
	}
	for _, ct := range t.CommonTrips() {
		id := ct.ID
		if ct.StartDisplayName == "" {
			tasks = append(tasks, task{
				key:   TripKey(id, graph.TripStart),
				pt:    ct.StartLoc.Coordinates,
				apply: func(name string) bool { return t.SetTripDisplayName(id, graph.TripStart, name) },
			})
		}
		if ct.EndDisplayName == "" {
			tasks = append(tasks, task{
				key:   TripKey(id, graph.TripFinish),
				pt:    ct.EndLoc.Coordinates,
				apply: func(name string) bool { return t.SetTripDisplayName(id, graph.TripFinish, name) },
			})
		}
	}
	return tasks
}

func (e *Enricher) run(ctx context.Context, j *Job, tasks []task) {
	defer close(j.done)
	defer j.cancel()

	var g errgroup.Group
	g.SetLimit(e.limit)
	for _, tk := range tasks {
		tk := tk
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				j.set(tk.key, StatusFailed)
				return nil
			}
			addr, err := e.resolver.Reverse(ctx, tk.pt)
			if err != nil {
				e.log.Warn("reverse geocode failed", "key", tk.key, "error", err)
				j.set(tk.key, StatusFailed)
				return nil
			}
			name := geocode.DisplayName(addr)
			tk.apply(name)
			e.log.Debug("display name resolved", "key", tk.key, "name", name)
			j.set(tk.key, StatusResolved)
			return nil
		})
	}
	_ = g.Wait()
}

// Job is one running enrichment pass over a graph.
type Job struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	statuses map[string]Status
}

// Cancel stops the job. Lookups not yet finished are marked failed.
func (j *Job) Cancel() {
	j.cancel()
}

// Done is closed once every task has resolved or failed.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job is done.
func (j *Job) Wait() {
	<-j.done
}

// Status returns the state of the task key.
func (j *Job) Status(key string) (Status, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	s, ok := j.statuses[key]
	return s, ok
}

// Snapshot returns a copy of every task's state.
func (j *Job) Snapshot() map[string]Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return maps.Clone(j.statuses)
}

func (j *Job) set(key string, s Status) {
	j.mu.Lock()
	j.statuses[key] = s
	j.mu.Unlock()
}
