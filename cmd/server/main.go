package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"pennywise-backend/internal/database"
	"pennywise-backend/internal/docstore"
	"pennywise-backend/internal/handlers"
	"pennywise-backend/internal/identity"
	applog "pennywise-backend/internal/log"
	customMiddleware "pennywise-backend/internal/middleware"
	"pennywise-backend/internal/models"
	"pennywise-backend/internal/notify"
	"pennywise-backend/internal/repository"
	"pennywise-backend/internal/session"
	"pennywise-backend/internal/workflow"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	// Required env vars
	mongoURI := getEnv("MONGODB_URI", "")
	dbName := getEnv("DB_NAME", "pennywise")
	jwtSecret := getEnv("JWT_SECRET", "")
	port := getEnv("PORT", "8080")

	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is required")
	}
	if jwtSecret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	logger := applog.New(applog.Config{})

	// Connect to MongoDB
	db, err := database.Connect(mongoURI, dbName)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	log.Println("✅ Connected to MongoDB")

	// Document store and repositories
	store := docstore.NewMongo(db)
	userRepo := repository.NewUserRepo(store)
	transactionRepo := repository.NewTransactionRepo(store)

	// Identity provider
	idp := identity.NewStore(db, logger)
	defer idp.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := idp.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create credential indexes: %v", err)
	}

	// Session state, rebuilt from identity notifications
	sessions := session.New(userRepo, logger)
	cancelOnChange := idp.OnChange(sessions.HandleChange)
	defer cancelOnChange()

	// Optional Google sign-in. The exchanger stays a nil interface when
	// unconfigured so the workflow's nil check holds.
	var google *identity.GoogleClient
	var exchanger workflow.GoogleExchanger
	if clientID := getEnv("GOOGLE_CLIENT_ID", ""); clientID != "" {
		google = identity.NewGoogle(identity.GoogleConfig{
			ClientID:     clientID,
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			CallbackURL:  getEnv("GOOGLE_CALLBACK_URL", ""),
		})
		exchanger = google
	}

	// Notifications
	notifier := notify.NewLogNotifier(logger)
	welcome := notify.NewWelcomeMailer(getEnv("RESEND_API_KEY", ""), getEnv("FROM_EMAIL", ""), logger)

	// Workflow and handlers
	wf := workflow.New(idp, exchanger, userRepo, sessions, notifier, welcome, logger)
	authHandler := handlers.NewAuthHandler(wf, userRepo, google, jwtSecret, logger)
	userHandler := handlers.NewUserHandler(wf, userRepo, sessions, logger)
	transactionHandler := handlers.NewTransactionHandler(transactionRepo, logger)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"pennywise-backend"}`))
	})

	// Public routes (no auth required)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/logout", authHandler.Logout)
	r.Get("/auth/google", authHandler.GoogleStart)
	r.Get("/auth/google/callback", authHandler.GoogleCallback)
	r.Get("/session", userHandler.Session)

	// Protected routes (guarded, role "user")
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.RouteGuard(jwtSecret, models.DefaultRole))

		r.Get("/user/profile", userHandler.GetProfile)
		r.Put("/user/profile", userHandler.UpdateProfile)

		r.Get("/transactions", transactionHandler.List)
		r.Post("/transactions", transactionHandler.Create)
		r.Get("/transactions/{id}", transactionHandler.Get)
		r.Put("/transactions/{id}", transactionHandler.Update)
		r.Delete("/transactions/{id}", transactionHandler.Delete)
	})

	// Start server
	log.Printf("🚀 Pennywise backend starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
