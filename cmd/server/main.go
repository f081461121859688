package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/chefdevalor/internal/config"
	"github.com/Simplici0/chefdevalor/internal/db"
	"github.com/Simplici0/chefdevalor/internal/logger"
	"github.com/Simplici0/chefdevalor/internal/metrics"
	"github.com/Simplici0/chefdevalor/internal/migrations"
	"github.com/Simplici0/chefdevalor/internal/planner"
	"github.com/Simplici0/chefdevalor/internal/pricing"
	"github.com/Simplici0/chefdevalor/internal/seed"
	"github.com/Simplici0/chefdevalor/internal/store"
)

type server struct {
	auth         *authService
	planner      *planner.Planner
	metrics      *metrics.Collector
	log          *logger.Logger
	businessName string
}

func main() {
	cfg := config.Load()
	appLog := logger.New(logger.ParseLevel(cfg.LogLevel), os.Stderr)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := migrate(database, cfg); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}

	stats, err := seed.Run(database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		CatalogFile:   cfg.SeedCatalog,
	})
	if err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}
	appLog.Info("seed complete: %d inserts", stats.Inserts)

	collector := metrics.NewCollector()
	srv := &server{
		auth: newAuthService(database, cfg.SessionSecret),
		planner: planner.New(
			store.NewSQLiteStore(database, appLog),
			appLog,
			planner.WithMemo(pricing.NewMemo(cfg.MemoTTL)),
			planner.WithMetrics(collector),
		),
		metrics:      collector,
		log:          appLog,
		businessName: cfg.BusinessName,
	}

	addr := ":" + cfg.Port
	appLog.Info("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// migrate applies the bundled schema in dev, or the on-disk directory when
// MIGRATIONS_DIR is set explicitly.
func migrate(database *sql.DB, cfg config.Config) error {
	if cfg.MigrationsDir != "" {
		return migrations.UpDir(database, cfg.MigrationsDir)
	}
	if cfg.IsDev() {
		return migrations.Up(database)
	}
	return nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.authMiddleware)

	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.handleGetConfig)
		r.Put("/config", s.handlePutConfig)
		r.Get("/rate", s.handleRate)

		r.Get("/ingredients", s.handleListIngredients)
		r.Post("/ingredients", s.handleCreateIngredient)
		r.Put("/ingredients/{id}", s.handleUpdateIngredient)
		r.Delete("/ingredients/{id}", s.handleDeleteIngredient)

		r.Get("/recipes", s.handleListRecipes)
		r.Post("/recipes", s.handleCreateRecipe)
		r.Post("/recipes/preview", s.handlePreviewRecipe)
		r.Put("/recipes/{id}", s.handleUpdateRecipe)
		r.Delete("/recipes/{id}", s.handleDeleteRecipe)
		r.Get("/recipes/{id}/cost", s.handleRecipeCost)

		r.Get("/shopping", s.handleShopping)
		r.Post("/shopping/adjust", s.handleShoppingAdjust)
		r.Delete("/shopping", s.handleShoppingClear)
		r.Get("/shopping/text", s.handleShoppingText)
	})

	return r
}
