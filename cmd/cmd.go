package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roadweave-backend/internal/ai"
	"roadweave-backend/internal/config"
	"roadweave-backend/internal/handlers"
	"roadweave-backend/internal/middleware"
	"roadweave-backend/internal/repository"
	"roadweave-backend/internal/services"
	"roadweave-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Apply schema
	if err := repository.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// File storage
	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create file store")
	}

	// AI client
	aiClient, err := ai.NewGeminiClient(
		cfg.AI.BaseURL,
		cfg.AI.APIKey,
		cfg.AI.Model,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create AI client")
	}

	// Initialize repositories
	tripRepo := repository.NewTripRepository(db)
	travelerRepo := repository.NewTravelerRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	contentRepo := repository.NewContentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	// Initialize services
	authService := services.NewAuthService(cfg.Admin.Username, cfg.Admin.Password, cfg.JWT.Secret)
	enricher := services.NewEnricher(aiClient, store, cfg.AI)
	limiter := ai.NewDailyLimiter(cfg.AI.DailyPhotoAnalysisLimit)
	generator := services.NewContentGenerator(
		contentRepo,
		entryRepo,
		aiClient,
		enricher,
		limiter,
		store,
		cfg.AI,
		cfg.DisplayTimezone,
	)
	hub := services.NewBlogHub()
	tripService := services.NewTripService(tripRepo, travelerRepo, entryRepo, store)
	entryService := services.NewEntryService(tripRepo, travelerRepo, entryRepo, store, generator, hub)
	publicService := services.NewPublicService(tripRepo, entryRepo, contentRepo, reactionRepo)

	// Initialize handlers
	adminHandler := handlers.NewAdminHandler(authService, tripService, generator)
	travelerHandler := handlers.NewTravelerHandler(entryService)
	publicHandler := handlers.NewPublicHandler(publicService)
	uploadsHandler := handlers.NewUploadsHandler(store)
	wsHandler := handlers.NewWebSocketHandler(hub, publicService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(authService))
				r.Post("/trips", adminHandler.CreateTrip)
				r.Get("/trips", adminHandler.ListTrips)
				r.Get("/trips/{id}", adminHandler.GetTrip)
				r.Delete("/trips/{id}", adminHandler.DeleteTrip)
				r.Post("/trips/{id}/travelers", adminHandler.AddTraveler)
				r.Get("/trips/{id}/travelers", adminHandler.ListTravelers)
				r.Get("/trips/{id}/entries", adminHandler.ListEntries)
				r.Put("/trips/{id}/language", adminHandler.UpdateLanguage)
				r.Put("/trips/{id}/public", adminHandler.UpdatePublic)
				r.Put("/trips/{id}/reactions", adminHandler.UpdateReactions)
				r.Post("/trips/{id}/regenerate-blog", adminHandler.RegenerateBlog)
				r.Put("/entries/{id}/coordinates", adminHandler.UpdateEntryCoordinates)
				r.Put("/entries/{id}/disabled", adminHandler.UpdateEntryDisabled)
			})
		})

		r.Route("/traveler", func(r chi.Router) {
			r.Get("/verify/{token}", travelerHandler.Verify)
			r.Post("/{token}/entries", travelerHandler.CreateEntry)
		})

		r.Route("/public/{token}", func(r chi.Router) {
			r.Get("/", publicHandler.TripInfo)
			r.Get("/content", publicHandler.Content)
			r.Get("/content/calendar", publicHandler.Calendar)
			r.Get("/content/date/{date}", publicHandler.ContentByDate)
			r.Get("/entries", publicHandler.Entries)
			r.Get("/reactions/{pieceID}", publicHandler.Reactions)
			r.Post("/reactions/{pieceID}", publicHandler.React)
		})
	})

	// Uploaded files
	r.Get("/uploads/{filename}", uploadsHandler.Serve)

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // entry creation narrates synchronously
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
