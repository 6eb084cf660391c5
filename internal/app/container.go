package app

import (
	"context"
	"log"
	"os"
	"time"

	"careerpilot/internal/config"
	"careerpilot/internal/database"
	"careerpilot/internal/database/migration"
	dbpostgres "careerpilot/internal/database/postgres"
	"careerpilot/internal/infrastructure/cache"
	"careerpilot/internal/llm"
)

// Container holds the process-wide dependencies shared by the HTTP
// server and the refresher binary.
type Container struct {
	Config    config.Config
	DB        database.DB
	Cache     *cache.Redis
	Generator *llm.Client
	Logger    *log.Logger
}

func NewContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := (migration.Runner{Dir: "migrations"}).Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}

	gen, err := llm.NewClient(ctx, cfg.Gemini)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Container{
		Config:    cfg,
		DB:        db,
		Cache:     cache.NewRedis(cfg.Redis, logger),
		Generator: gen,
		Logger:    logger,
	}, nil
}

func (c *Container) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
