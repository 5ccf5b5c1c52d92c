package app

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trunov/thumbd/cmd/migrate"
	"github.com/trunov/thumbd/internal/cache"
	"github.com/trunov/thumbd/internal/config"
	"github.com/trunov/thumbd/internal/converter"
	"github.com/trunov/thumbd/internal/jobstore"
	"github.com/trunov/thumbd/internal/s3store"
	"github.com/trunov/thumbd/internal/worker"
)

type App struct {
	cfg    *config.Config
	jobs   *jobstore.Store
	worker *worker.Worker
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	err := migrate.Migrate(cfg.Database.DSN, migrate.Migrations)
	if err != nil {
		return nil, err
	}

	jobs, err := jobstore.New(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	store, err := s3store.New(ctx, &cfg.S3)
	if err != nil {
		return nil, err
	}

	// Redis is optional: without nodes, or with redis down, every
	// idempotence check goes straight to the object store.
	var done worker.DoneCache
	if len(cfg.Redis.Nodes) > 0 {
		rc, err := cache.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Printf("[app] redis unavailable, thumb cache disabled: %v", err)
		} else {
			done = cache.NewCache("thumbd:thumbs", cfg.Redis.CacheTTL, rc)
		}
	}

	conv := converter.New(cfg.Worker.MaxEdge)
	w := worker.New(jobs, store, conv, done, cfg.Worker)

	return &App{
		cfg:    cfg,
		jobs:   jobs,
		worker: w,
	}, nil
}

// Run drives the worker until ctx is canceled, then releases the job
// source connections.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.worker.Run(gctx)
	})
	g.Go(func() error {
		a.healthLoop(gctx)
		return nil
	})

	err := g.Wait()
	a.jobs.Close()
	return err
}

// healthLoop periodically pings the job source so connectivity loss
// shows up in the logs even while no jobs are flowing.
func (a *App) healthLoop(ctx context.Context) {
	interval := time.Duration(a.cfg.Worker.HealthCheckInterval) * time.Second
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err := a.jobs.Ping(pingCtx)
			cancel()
			if err != nil {
				log.Printf("[app] job source ping failed: %v", err)
			}
		}
	}
}

// Jobs exposes the store for the operator commands.
func (a *App) Jobs() *jobstore.Store { return a.jobs }
