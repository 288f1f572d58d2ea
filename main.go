package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/yaounde-maps/map-api/config"
	"github.com/yaounde-maps/map-api/handlers"
	"github.com/yaounde-maps/map-api/models"
	"github.com/yaounde-maps/map-api/places"
	"github.com/yaounde-maps/map-api/repository"
	"github.com/yaounde-maps/map-api/routing"
)

func main() {
	// Load .env first, then .env.local (which overrides for local development)
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()
	log.Println("Database connection established")

	graphRepo := repository.NewGraphRepository(pool)
	placeRepo := repository.NewPlaceRepository(pool)

	// The place endpoints can be served from a local SQLite mirror when
	// configured; routing always goes through Postgres.
	var placeStore places.PlaceStore = placeRepo
	var placeNodes routing.PlaceNodeStore = placeRepo
	if cfg.PlacesSQLitePath != "" {
		log.Printf("Using SQLite place mirror: %s", cfg.PlacesSQLitePath)
		mirror, err := repository.NewSQLitePlaceRepository(cfg.PlacesSQLitePath)
		if err != nil {
			log.Fatalf("Failed to open place mirror: %v", err)
		}
		defer mirror.Close()
		placeStore = mirror
		placeNodes = mirror
	}

	// Routing tiers
	resolver := routing.NewNodeResolver(graphRepo, placeNodes)
	planner := routing.NewPlanner(graphRepo)
	osrm := routing.NewOSRMClient(cfg.OSRMBaseURL)
	orchestrator := routing.NewOrchestrator(resolver, planner, osrm)

	// Place lookup
	geocoder := places.NewNominatimClient(cfg.NominatimBaseURL)
	placeService := places.NewService(placeStore, geocoder, models.YaoundeBounds)

	routeHandler := handlers.NewRouteHandler(orchestrator)
	placeHandler := handlers.NewPlaceHandler(placeService)
	healthHandler := handlers.NewHealthHandler(pool)

	r := chi.NewRouter()
	r.Use(handlers.RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", healthHandler.Health)

	r.Post("/api/routes", routeHandler.CalculateRoute)
	r.Post("/api/routes/with-detour", routeHandler.CalculateRouteWithDetour)

	r.Get("/api/places/search", placeHandler.SearchPlaces)
	r.Get("/api/places/closest", placeHandler.ClosestPlace)

	log.Printf("API server starting on :%s", cfg.Port)
	log.Println("Route endpoints:")
	log.Println("  POST /api/routes")
	log.Println("  POST /api/routes/with-detour")
	log.Println("Place endpoints:")
	log.Println("  GET /api/places/search")
	log.Println("  GET /api/places/closest")
	log.Println("Health:")
	log.Println("  GET /health (with database check)")

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
