package routes

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"careerpilot/internal/config"
	"careerpilot/internal/database"
	"careerpilot/internal/delivery/http/handler"
	v1 "careerpilot/internal/delivery/http/routes/v1"
	"careerpilot/internal/usecase"
	"careerpilot/internal/ws"
)

type Registry struct {
	cfg    config.Config
	db     database.DB
	gen    usecase.TextGenerator
	cache  usecase.ContentCache
	logger *log.Logger

	health *handler.HealthHandler
	wsh    *ws.Handler
}

func NewRegistry(cfg config.Config, db database.DB, gen usecase.TextGenerator, cache usecase.ContentCache, wsHandler *ws.Handler, logger *log.Logger) *Registry {
	return &Registry{
		cfg:    cfg,
		db:     db,
		gen:    gen,
		cache:  cache,
		logger: logger,
		health: handler.NewHealthHandler(db),
		wsh:    wsHandler,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	r.registerAPI(app)
	r.registerWS(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.cfg, r.db, r.gen, r.cache, r.logger)
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.wsh == nil {
		return
	}
	app.Get("/ws/refresh", r.wsh.HandleRefreshWS)
}
