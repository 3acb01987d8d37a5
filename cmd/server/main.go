package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/huntable/treasurehunt-api/config"
	"github.com/huntable/treasurehunt-api/internal/ai"
	"github.com/huntable/treasurehunt-api/internal/api"
	"github.com/huntable/treasurehunt-api/internal/auth"
	"github.com/huntable/treasurehunt-api/internal/database"
	"github.com/huntable/treasurehunt-api/internal/security"
	"github.com/huntable/treasurehunt-api/internal/services"
	"github.com/huntable/treasurehunt-api/internal/storage"
	"github.com/huntable/treasurehunt-api/internal/tts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	db, err := database.New(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	gateway, err := ai.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}

	store, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	speaker, err := tts.New(&cfg.Tts)
	if err != nil {
		log.Fatalf("Failed to initialize TTS: %v", err)
	}

	// Services
	parentService := services.NewParentService(db)
	childService := services.NewChildService(db)
	catalogService := services.NewCatalogService(db, gateway)
	submissionService := services.NewSubmissionService(db, catalogService, childService, gateway, store, cfg.Media)

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Hour)
	limiter := security.NewRateLimiter(cfg.Auth.RateLimit, time.Minute)

	handler := api.NewHandler(parentService, childService, catalogService, submissionService,
		jwtService, speaker, cfg.Media.MaxUploadBytes)

	r := mux.NewRouter()
	r.Use(limiter.Middleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	publicRouter := r.PathPrefix("/api/v1").Subrouter()

	authRouter := r.PathPrefix("/api/v1").Subrouter()
	authRouter.Use(jwtService.Middleware)

	handler.RegisterRoutes(publicRouter, authRouter)

	// CORS for the mobile app's webview and local development
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Treasure Hunt API starting on port %s", port)
	log.Printf("AI provider: %s, storage: %s", cfg.AI.Provider, store.Name())

	if err := http.ListenAndServe(":"+port, c.Handler(r)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
