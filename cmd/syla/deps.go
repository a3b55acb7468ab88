package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/syla/execution-service/internal/config"
	"github.com/syla/execution-service/internal/log"
	"github.com/syla/execution-service/internal/lookup"
	"github.com/syla/execution-service/internal/queue"
	"github.com/syla/execution-service/internal/sandbox"
	"github.com/syla/execution-service/internal/store"
	"github.com/syla/execution-service/internal/submission"
)

// deps bundles the dependencies shared by the serve and worker commands so
// each only wires the pieces it actually runs.
type deps struct {
	cfg        *config.Config
	redis      *redis.Client
	store      store.Store
	queue      queue.Queue
	mirror     *store.MongoMirror
	sandbox    sandbox.Sandbox
	submission *submission.Handler
	lookup     *lookup.Service
}

func newDeps(ctx context.Context, needSandbox bool) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log.Init(log.Config{Level: log.Level(cfg.LogLevel), JSONOutput: cfg.LogJSON})

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	jobStore := store.NewRedisStore(rdb)
	jobQueue := queue.NewRedisQueue(rdb)

	var mirror *store.MongoMirror
	if cfg.MongoURL != "" {
		m, err := store.NewMongoMirror(ctx, cfg.MongoURL)
		if err != nil {
			log.WithComponent("startup").Warn().Err(err).Msg("mongo mirror unavailable, continuing without it")
		} else {
			mirror = m
		}
	}

	d := &deps{
		cfg:    cfg,
		redis:  rdb,
		store:  jobStore,
		queue:  jobQueue,
		mirror: mirror,
	}

	d.submission = submission.NewHandler(jobStore, jobQueue)
	d.lookup = lookup.New(jobStore)

	if needSandbox {
		sb, err := sandbox.NewDockerSandbox()
		if err != nil {
			return nil, fmt.Errorf("connect docker: %w", err)
		}
		d.sandbox = sb
	}

	return d, nil
}

func (d *deps) close() {
	if d.sandbox != nil {
		_ = d.sandbox.Close()
	}
	if d.mirror != nil {
		_ = d.mirror.Close(context.Background())
	}
	_ = d.redis.Close()
}
