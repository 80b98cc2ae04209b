package reload

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/bowerhall/skugraph/internal/factstore"
	"github.com/bowerhall/skugraph/internal/graph"
	"github.com/bowerhall/skugraph/internal/logger"
	"github.com/bowerhall/skugraph/internal/source"
	"github.com/bowerhall/skugraph/internal/triple"
)

// scheduleParser accepts standard 5-field expressions and descriptors
// such as @hourly or @every 5m
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Snapshots persists loads and serves the last one when no source has any
// files. *factstore.Store implements it.
type Snapshots interface {
	Save(ctx context.Context, generation string, res triple.Result) error
	Latest(ctx context.Context) (triple.Result, factstore.Load, error)
}

// Outcome describes one completed reload.
type Outcome struct {
	Generation   string
	Sources      int
	Result       triple.Result
	FromSnapshot bool
}

// Reloader loads every source and publishes a new snapshot into the index.
// The index keeps serving its previous snapshot until the new one is built.
type Reloader struct {
	provider  source.Provider
	index     *graph.Index
	snapshots Snapshots

	mu   sync.Mutex
	cron *cron.Cron
}

// New creates a reloader. snapshots may be nil.
func New(provider source.Provider, index *graph.Index, snapshots Snapshots) *Reloader {
	return &Reloader{
		provider:  provider,
		index:     index,
		snapshots: snapshots,
	}
}

func ParseSchedule(spec string) error {
	if _, err := scheduleParser.Parse(spec); err != nil {
		return fmt.Errorf("invalid reload schedule %q: %w", spec, err)
	}
	return nil
}

// Reload runs one full load and build. When the provider fails the index is
// left untouched.
func (r *Reloader) Reload(ctx context.Context) (*Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	srcs, err := r.provider.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}

	if len(srcs) == 0 && r.snapshots != nil {
		out, err := r.fromSnapshot(ctx)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, factstore.ErrNoSnapshot) {
			logger.Warn("could not read snapshot", "error", err)
		}
	}

	res := triple.LoadAll(srcs)
	for _, f := range res.Failures {
		logger.Warn("skipping malformed line", "source", f.Source, "line", f.Line, "reason", f.Reason)
	}

	generation := uuid.New().String()[:8]
	r.index.BuildWithGeneration(res.Triples, generation)

	logger.Info("knowledge graph built",
		"generation", generation,
		"sources", len(srcs),
		"triples", len(res.Triples),
		"failures", len(res.Failures))

	if r.snapshots != nil && len(res.Triples) > 0 {
		if err := r.snapshots.Save(ctx, generation, res); err != nil {
			logger.Warn("could not save snapshot", "generation", generation, "error", err)
		}
	}

	return &Outcome{Generation: generation, Sources: len(srcs), Result: res}, nil
}

func (r *Reloader) fromSnapshot(ctx context.Context) (*Outcome, error) {
	res, load, err := r.snapshots.Latest(ctx)
	if err != nil {
		return nil, err
	}

	r.index.BuildWithGeneration(res.Triples, load.Generation)

	logger.Info("knowledge graph restored from snapshot",
		"generation", load.Generation,
		"loaded_at", load.LoadedAt,
		"triples", len(res.Triples))

	return &Outcome{Generation: load.Generation, Result: res, FromSnapshot: true}, nil
}

// Start runs Reload on the given schedule until Stop is called. A run that
// is still going when the next one is due is skipped.
func (r *Reloader) Start(ctx context.Context, spec string) error {
	if err := ParseSchedule(spec); err != nil {
		return err
	}

	c := cron.New(
		cron.WithParser(scheduleParser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	_, err := c.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := r.Reload(ctx); err != nil {
			logger.Error("scheduled reload failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reload: %w", err)
	}

	r.mu.Lock()
	r.cron = c
	r.mu.Unlock()

	c.Start()
	logger.Info("reload scheduled", "schedule", spec)

	return nil
}

// Stop halts the schedule and waits for a running reload to finish.
func (r *Reloader) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()

	if c == nil {
		return
	}

	<-c.Stop().Done()
}
