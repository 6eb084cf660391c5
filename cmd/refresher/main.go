package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"careerpilot/internal/app"
	"careerpilot/internal/config"
	"careerpilot/internal/repository"
	"careerpilot/internal/scheduler"
	"careerpilot/internal/usecase"
)

// The refresher regenerates every stored industry insight. By default it
// runs on the configured cron schedule; -once triggers a single run and
// exits, which is how external schedulers invoke it.
func main() {
	once := flag.Bool("once", false, "run a single refresh and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := app.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}()

	insightRepo := repository.NewPostgresInsightRepository(c.DB)
	insightUC := usecase.NewInsightUsecase(insightRepo, c.Generator, c.Cache, c.Logger, cfg.Refresh.Workers)
	refresher := scheduler.NewRefresher(insightUC, c.Cache, c.Logger, cfg.Refresh.LockTTL)

	if *once {
		if _, err := refresher.Run(ctx); err != nil {
			c.Logger.Printf("refresh run failed | error=%v", err)
			os.Exit(1)
		}
		return
	}

	cr := cron.New()
	if _, err := cr.AddFunc(cfg.Refresh.CronSpec, func() {
		if _, err := refresher.Run(ctx); err != nil {
			c.Logger.Printf("refresh run failed | error=%v", err)
		}
	}); err != nil {
		log.Fatalf("invalid refresh cron spec %q: %v", cfg.Refresh.CronSpec, err)
	}

	c.Logger.Printf("refresher started | cron=%q workers=%d", cfg.Refresh.CronSpec, cfg.Refresh.Workers)
	cr.Start()

	<-ctx.Done()
	<-cr.Stop().Done()
}
