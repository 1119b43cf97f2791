// Package loader fetches the four static assets concurrently, joins on all of them and
// publishes the result as an immutable Snapshot tagged with a load generation.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"state-gridmap/internal/data"
	gridmap "state-gridmap/internal/grid"
	"state-gridmap/internal/logger"
	"state-gridmap/internal/model"
	"state-gridmap/internal/observability"
)

// ErrSuperseded is returned by Load when a newer generation committed before this one completed.
var ErrSuperseded = errors.New("load superseded by a newer generation")

// LoadError names the asset that failed a load generation.
type LoadError struct {
	Asset string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Asset, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Status is the settled state of the latest committed generation.
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Assets are the names under which the source serves each input.
type Assets struct {
	Colors string
	Grid   string
	Links  string
	Series string
}

// DefaultAssets are the file names the map has always been published with.
var DefaultAssets = Assets{
	Colors: "USStateColors.csv",
	Grid:   "publication-grids.csv",
	Links:  "links.csv",
	Series: "result.json",
}

// Snapshot is one fully loaded, validated set of inputs. It is never mutated.
type Snapshot struct {
	Generation uint64
	Colors     model.ColorTable
	Grid       []model.PublicationEntry
	Links      []model.Link
	Series     []model.TimeSeriesRecord
	LoadedAt   time.Time
}

// State is what Current reports.
type State struct {
	Status     Status
	Generation uint64
	Snapshot   *Snapshot
	Err        error
}

// Loader runs load generations against a Source.
type Loader struct {
	src     data.Source
	names   Assets
	metrics *observability.Metrics
	clock   clockwork.Clock
	log     *slog.Logger

	started atomic.Uint64

	mu    sync.RWMutex
	state State

	ready     chan struct{}
	readyOnce sync.Once
}

// Option customises a Loader.
type Option func(*Loader)

func WithMetrics(m *observability.Metrics) Option { return func(l *Loader) { l.metrics = m } }
func WithClock(c clockwork.Clock) Option         { return func(l *Loader) { l.clock = c } }
func WithLogger(lg *slog.Logger) Option          { return func(l *Loader) { l.log = lg } }

func New(src data.Source, names Assets, opts ...Option) *Loader {
	l := &Loader{
		src:   src,
		names: names,
		clock: clockwork.NewRealClock(),
		ready: make(chan struct{}),
	}
	for _, o := range opts {
		o(l)
	}
	if l.log == nil {
		l.log = logger.L().With(slog.String("component", "loader"))
	}
	return l
}

// Load runs one generation. The result is committed as current unless a newer generation
// has already committed, in which case ErrSuperseded is returned. Newer generations that are
// still running or were cancelled do not block the commit, so an older result is shown until
// a newer one lands and cancelled loads never leave the loader pending.
// A failed generation is committed as StatusFailed and its *LoadError returned.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	gen := l.started.Add(1)
	l.log.Debug("load started", "generation", gen)

	snap, err := l.fetchAll(ctx, gen)

	// A caller walking away is not a verdict on the assets.
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen < l.state.Generation {
		l.log.Info("load superseded", "generation", gen, "committed", l.state.Generation)
		if l.metrics != nil {
			l.metrics.SupersededLoads.Inc()
			l.metrics.AssetLoads.WithLabelValues("superseded").Inc()
		}
		return nil, ErrSuperseded
	}

	if err != nil {
		l.state = State{Status: StatusFailed, Generation: gen, Snapshot: l.state.Snapshot, Err: err}
		l.log.Error("load failed", "generation", gen, "error", err)
		if l.metrics != nil {
			l.metrics.AssetLoads.WithLabelValues("failed").Inc()
		}
		l.markReady()
		return nil, err
	}

	l.state = State{Status: StatusReady, Generation: gen, Snapshot: snap}
	l.log.Info("load complete", "generation", gen, "states", len(snap.Series), "grid_entries", len(snap.Grid))
	if l.metrics != nil {
		l.metrics.AssetLoads.WithLabelValues("ready").Inc()
		l.metrics.LoadGeneration.Set(float64(gen))
	}
	l.markReady()
	return snap, nil
}

// Current returns the state of the latest committed generation. After a failure the
// previous good snapshot, if any, is still attached.
func (l *Loader) Current() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Ready is closed once the first generation has settled, successfully or not.
func (l *Loader) Ready() <-chan struct{} { return l.ready }

// Wait blocks until Ready is closed or ctx is done.
func (l *Loader) Wait(ctx context.Context) (State, error) {
	select {
	case <-l.ready:
		return l.Current(), nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// CheckReadiness reports nil only when a snapshot is committed and the last generation succeeded.
func (l *Loader) CheckReadiness(_ context.Context) error {
	st := l.Current()
	switch st.Status {
	case StatusReady:
		return nil
	case StatusFailed:
		return st.Err
	default:
		return errors.New("assets not loaded yet")
	}
}

func (l *Loader) markReady() {
	l.readyOnce.Do(func() { close(l.ready) })
}

func (l *Loader) fetchAll(ctx context.Context, gen uint64) (*Snapshot, error) {
	var (
		colors model.ColorTable
		grid   []model.PublicationEntry
		links  []model.Link
		series []model.TimeSeriesRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		colors, err = fetchParse(gctx, l, l.names.Colors, data.ParseColors)
		return err
	})
	g.Go(func() (err error) {
		grid, err = fetchParse(gctx, l, l.names.Grid, parseGrid)
		return err
	})
	g.Go(func() (err error) {
		links, err = fetchParse(gctx, l, l.names.Links, data.ParseLinks)
		return err
	})
	g.Go(func() (err error) {
		series, err = fetchParse(gctx, l, l.names.Series, data.ParseTimeSeries)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Snapshot{
		Generation: gen,
		Colors:     colors,
		Grid:       grid,
		Links:      links,
		Series:     series,
		LoadedAt:   l.clock.Now(),
	}, nil
}

func parseGrid(raw []byte) ([]model.PublicationEntry, error) {
	entries, err := data.ParsePublicationGrid(raw)
	if err != nil {
		return nil, err
	}
	if err := gridmap.Validate(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func fetchParse[T any](ctx context.Context, l *Loader, name string, parse func([]byte) (T, error)) (T, error) {
	var zero T
	start := l.clock.Now()
	defer func() {
		if l.metrics != nil {
			l.metrics.AssetFetch.WithLabelValues(name).Observe(l.clock.Since(start).Seconds())
		}
	}()

	raw, err := l.src.Fetch(ctx, name)
	if err != nil {
		return zero, &LoadError{Asset: name, Err: err}
	}
	v, err := parse(raw)
	if err != nil {
		return zero, &LoadError{Asset: name, Err: err}
	}
	return v, nil
}
