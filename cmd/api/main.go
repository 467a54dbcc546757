// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
	"github.com/yourspacelabs/yourspace-backend/internal/common/database"
	"github.com/yourspacelabs/yourspace-backend/internal/common/storage"
	"github.com/yourspacelabs/yourspace-backend/internal/common/tasks"
	"github.com/yourspacelabs/yourspace-backend/internal/common/utils"
	"github.com/yourspacelabs/yourspace-backend/internal/config"
	"github.com/yourspacelabs/yourspace-backend/internal/discovery"
	"github.com/yourspacelabs/yourspace-backend/internal/interactions"
	"github.com/yourspacelabs/yourspace-backend/internal/messaging"
	"github.com/yourspacelabs/yourspace-backend/internal/notifications"
	"github.com/yourspacelabs/yourspace-backend/internal/posts"
	"github.com/yourspacelabs/yourspace-backend/internal/profiles"
	"github.com/yourspacelabs/yourspace-backend/internal/realtime"
	"github.com/yourspacelabs/yourspace-backend/internal/rooms"
	"github.com/yourspacelabs/yourspace-backend/internal/search"
	"github.com/yourspacelabs/yourspace-backend/internal/timeline"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found (%v), using environment variables", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("configuration validation failed: ", err)
	}

	// Postgres
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL: ", err)
	}
	defer db.Close()

	if err := runMigrations(db); err != nil {
		log.Fatal("failed to run migrations: ", err)
	}

	// Redis is optional; features backed by it degrade gracefully
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Printf("redis unavailable (%v), continuing without it", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// Object storage
	uploader, err := storage.NewUploader(storage.Config{
		UseS3:          cfg.UseS3,
		S3Bucket:       cfg.S3BucketName,
		AWSRegion:      cfg.AWSRegion,
		LocalUploadDir: cfg.LocalUploadDir,
		BaseURL:        cfg.BaseURL,
	})
	if err != nil {
		log.Fatal("failed to initialize uploader: ", err)
	}

	// Best-effort side-effect dispatcher
	queue := tasks.NewQueue(cfg.DispatcherQueueSize)
	go queue.Run()

	// Realtime hub
	hub := realtime.NewHub()
	go hub.Run()

	// Notifications
	notificationsRepo := notifications.NewPostgresRepository(db)

	var emailSender notifications.EmailSender
	if cfg.EnableEmailNotifications {
		emailSender = notifications.NewSendGridEmailSender(cfg.SendGridAPIKey, cfg.EmailFrom)
	}
	var smsSender notifications.SMSSender
	if cfg.EnableSMSNotifications {
		smsSender = notifications.NewTwilioSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	}

	notificationsService := notifications.NewService(notificationsRepo, queue, hub, emailSender, smsSender, &notifications.Config{
		EnableEmail: cfg.EnableEmailNotifications,
		EnableSMS:   cfg.EnableSMSNotifications,
	})
	notificationsHandler := notifications.NewHandler(notificationsService)

	// Auth
	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, &auth.Config{
		JWTSecret:           cfg.JWTSecret,
		AccessTokenExpiry:   cfg.AccessTokenExpiry,
		RefreshTokenExpiry:  cfg.RefreshTokenExpiry,
		BCryptCost:          cfg.BCryptCost,
		EnableOAuth:         cfg.EnableOAuth,
		GoogleOAuthClientID: cfg.GoogleOAuthClientID,
	})
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)

	// Profiles
	profilesRepo := profiles.NewPostgresRepository(db)
	profilesService := profiles.NewService(profilesRepo, uploader, notificationsService)
	profilesHandler := profiles.NewHandler(profilesService)

	// Posts
	postsRepo := posts.NewPostgresRepository(db)
	postsService := posts.NewService(postsRepo, uploader, queue, notificationsService, hub, &posts.Config{
		MaxPostLength: cfg.MaxPostLength,
		MaxPostMedia:  cfg.MaxPostMedia,
	})
	postsHandler := posts.NewHandler(postsService)

	// Interactions
	interactionsRepo := interactions.NewPostgresRepository(db)
	interactionsService := interactions.NewService(interactionsRepo, notificationsService)
	interactionsHandler := interactions.NewHandler(interactionsService)

	// Timeline
	timelineRepo := timeline.NewPostgresRepository(db)
	timelineService := timeline.NewService(timelineRepo, cfg)
	timelineHandler := timeline.NewHandler(timelineService)

	// Search
	searchRepo := search.NewPostgresRepository(db)
	searchService := search.NewService(searchRepo, redisClient, queue, cfg)
	searchHandler := search.NewHandler(searchService)

	// Messaging
	messagingRepo := messaging.NewPostgresRepository(db)
	messagingService := messaging.NewService(messagingRepo, notificationsService, hub)
	messagingHandler := messaging.NewHandler(messagingService)

	// Rooms
	roomsRepo := rooms.NewPostgresRepository(db)
	roomsService := rooms.NewService(roomsRepo, redisClient, cfg)
	roomsHandler := rooms.NewHandler(roomsService)

	// Discovery
	discoveryRepo := discovery.NewPostgresRepository(db)
	discoveryService := discovery.NewService(discoveryRepo, notificationsService)
	discoveryHandler := discovery.NewHandler(discoveryService)

	// Realtime subscriptions
	realtimeHandler := realtime.NewHandler(hub)

	// Routes
	router := mux.NewRouter()

	if !cfg.UseS3 {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/",
				http.FileServer(http.Dir(cfg.LocalUploadDir))))
	}

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	auth.RegisterRoutes(router, authHandler, authMiddleware)
	posts.RegisterRoutes(router, postsHandler, authMiddleware)
	interactions.RegisterRoutes(router, interactionsHandler, authMiddleware)
	timeline.RegisterRoutes(router, timelineHandler, authMiddleware)
	search.RegisterRoutes(router, searchHandler, authMiddleware)
	messaging.RegisterRoutes(router, messagingHandler, authMiddleware)
	notifications.RegisterRoutes(router, notificationsHandler, authMiddleware)
	rooms.RegisterRoutes(router, roomsHandler, authMiddleware)
	discovery.RegisterRoutes(router, discoveryHandler, authMiddleware)
	realtime.RegisterRoutes(router, realtimeHandler, authMiddleware)

	// Profile routes live on a chi sub-router
	chiRouter := chi.NewRouter()
	profiles.RegisterRoutes(chiRouter, profilesHandler, authMiddleware)
	router.PathPrefix("/api/v1/profile").Handler(chiRouter)
	router.PathPrefix("/api/v1/users").Handler(chiRouter)

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server starting on %s (%s)", cfg.BaseURL, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutdown signal received")

	hub.Shutdown()
	queue.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown: ", err)
	}

	log.Println("server exited gracefully")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.SuccessResponse(w, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// loggingMiddleware logs each request with its duration
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
