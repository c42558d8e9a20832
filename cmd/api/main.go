// cmd/api/main.go
// Bootstraps all components and starts the server.

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

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wanderlink/travelmatch-backend/internal/auth"
	"github.com/wanderlink/travelmatch-backend/internal/chat"
	"github.com/wanderlink/travelmatch-backend/internal/common/database"
	"github.com/wanderlink/travelmatch-backend/internal/common/utils"
	"github.com/wanderlink/travelmatch-backend/internal/config"
	"github.com/wanderlink/travelmatch-backend/internal/matching"
	"github.com/wanderlink/travelmatch-backend/internal/notification"
	"github.com/wanderlink/travelmatch-backend/internal/profile"
)

var startTime = time.Now()

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (%v), using environment variables", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration validation failed: ", err)
	}

	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL: ", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Redis unavailable (%v), continuing without cache", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("Connected to Redis")
		}
	}

	if err := runMigrations(db); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}
	log.Println("Database migrations completed")

	// Auth
	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, redisClient, auth.Config{
		JWTSecret:          cfg.JWTSecret,
		BCryptCost:         cfg.BCryptCost,
		AccessTokenExpiry:  cfg.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
	})
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)

	// Travel profiles
	profileRepo := profile.NewPostgresRepository(db)
	profileService := profile.NewService(profileRepo, cfg.MaxInterests)
	profileHandler := profile.NewHandler(profileService)

	// Notifications
	var emailProvider notification.EmailProvider
	switch cfg.EmailProvider {
	case "sendgrid":
		emailProvider = notification.NewSendGridEmailProvider(cfg.SendGridAPIKey, cfg.EmailFrom)
		log.Println("Using SendGrid for email")
	case "smtp":
		emailProvider = notification.NewSMTPEmailProvider(
			cfg.SMTPHost,
			fmt.Sprintf("%d", cfg.SMTPPort),
			cfg.SMTPUser,
			cfg.SMTPPassword,
			cfg.EmailFrom,
		)
		log.Println("Using SMTP for email")
	default:
		emailProvider = notification.NewMockEmailProvider()
		log.Println("Using mock email provider")
	}

	var smsProvider notification.SMSProvider
	switch cfg.SMSProvider {
	case "twilio":
		smsProvider = notification.NewTwilioSMSProvider(
			cfg.TwilioAccountSID,
			cfg.TwilioAuthToken,
			cfg.TwilioFromNumber,
		)
		log.Println("Using Twilio for SMS")
	default:
		smsProvider = notification.NewMockSMSProvider()
		log.Println("Using mock SMS provider")
	}

	notificationRepo := notification.NewPostgresRepository(db)
	notificationService := notification.NewService(notificationRepo, emailProvider, smsProvider, notification.Config{
		EnableEmail: cfg.EnableEmailNotifications,
		EnableSMS:   cfg.EnableSMSNotifications,
	})

	// Matching
	matchRepo := matching.NewPostgresRepository(db)
	matchService := matching.NewService(
		matchRepo,
		profileService,
		matching.NewEngine(matching.DefaultWeights),
		notification.NewMatchNotifier(notificationService),
		redisClient,
		matching.Config{
			DefaultLimit: cfg.RecommendLimit,
			MinScore:     cfg.RecommendMinScore,
			CacheTTL:     cfg.RecommendCacheTTL,
		},
	)
	matchHandler := matching.NewHandler(matchService)

	// Chat
	chatRepo := chat.NewPostgresRepository(db)
	chatService := chat.NewService(chatRepo, matchRepo, chat.Config{
		MaxMessageLength: cfg.MaxMessageLength,
	})
	chatHandler := chat.NewHandler(chatService)

	// Routes
	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	auth.RegisterRoutes(router, authHandler, authMiddleware.Authenticate)
	profile.RegisterRoutes(router, profileHandler, authMiddleware.Authenticate)
	matching.RegisterRoutes(router, matchHandler, authMiddleware.Authenticate)
	chat.RegisterRoutes(router, chatHandler, authMiddleware.Authenticate)

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
		log.Printf("Server starting on http://localhost%s (%s)", srv.Addr, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exited gracefully")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	})
}

// loggingMiddleware logs method, path, status and latency for every request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Printf("%s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations creates the schema on startup. Every statement is
// idempotent so restarts are safe.
func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            email VARCHAR(255) UNIQUE NOT NULL,
            username VARCHAR(100) UNIQUE NOT NULL,
            display_name VARCHAR(100) NOT NULL DEFAULT '',
            password_hash VARCHAR(255) NOT NULL,
            phone VARCHAR(20),
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS travel_profiles (
            user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
            destination VARCHAR(255) NOT NULL,
            start_date DATE NOT NULL,
            end_date DATE NOT NULL,
            budget_min DOUBLE PRECISION NOT NULL,
            budget_max DOUBLE PRECISION NOT NULL,
            interests TEXT[] NOT NULL DEFAULT '{}',
            travel_style VARCHAR(30) NOT NULL,
            discoverable BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS matches (
            id BIGSERIAL PRIMARY KEY,
            user_a_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            user_b_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            status VARCHAR(20) NOT NULL DEFAULT 'proposed',
            compatibility_score INTEGER NOT NULL DEFAULT 0,
            proposed_by BIGINT NOT NULL REFERENCES users(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            CONSTRAINT matches_pair_unique UNIQUE (user_a_id, user_b_id),
            CONSTRAINT matches_pair_ordered CHECK (user_a_id < user_b_id)
        )`,

		`CREATE TABLE IF NOT EXISTS messages (
            id BIGSERIAL PRIMARY KEY,
            sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            receiver_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE INDEX IF NOT EXISTS idx_travel_profiles_discoverable ON travel_profiles(discoverable)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user_a ON matches(user_a_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user_b ON matches(user_b_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages(sender_id, receiver_id, created_at)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
