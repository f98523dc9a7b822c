package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spookTrailsAPI/handlers"
	"spookTrailsAPI/internal/events"
	"spookTrailsAPI/internal/notification"
	"spookTrailsAPI/middleware"
	"spookTrailsAPI/services"

	_ "net/http/pprof"
)

var (
	dbPool              *pgxpool.Pool
	progressService     *services.ProgressService
	questStore          *services.QuestStoreService
	walletService       *services.WalletService
	accountService      *services.AccountService
	notificationService *services.NotificationService
	badgeService        *services.BadgeService
	claimService        *services.ClaimService
	questService        *services.QuestService
	syncService         *services.SyncService
	fcmService          *notification.FCMService
	eventHub            *events.Hub
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to Postgres")

	mirror := services.NewSupabaseMirror(
		os.Getenv("MIRROR_URL"),
		os.Getenv("MIRROR_API_KEY"),
		nil,
	)

	pollAttempts, _ := strconv.Atoi(os.Getenv("CHAIN_POLL_ATTEMPTS"))
	pollInterval, _ := time.ParseDuration(os.Getenv("CHAIN_POLL_INTERVAL"))
	chain := services.NewRelayerChain(
		os.Getenv("RELAYER_URL"),
		os.Getenv("RELAYER_API_KEY"),
		pollAttempts,
		pollInterval,
	)

	eventHub = events.NewHub()
	progressService = services.NewProgressService(dbPool)
	questStore = services.NewQuestStoreService(dbPool)
	walletService = services.NewWalletService(dbPool)
	accountService = services.NewAccountService(dbPool)
	notificationService = services.NewNotificationService(dbPool)
	badgeService = services.NewBadgeService(progressService, notificationService)
	claimService = services.NewClaimService(chain, mirror, questStore, walletService)
	questService = services.NewQuestService(questStore, progressService, badgeService, claimService, nil, eventHub, notificationService)
	syncService = services.NewSyncService(mirror, questStore, progressService, badgeService, eventHub)

	fcmService, err = notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		notificationService.SetPushProvider(fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	questHandler := handlers.NewQuestHandler(questService)
	badgeHandler := handlers.NewBadgeHandler(badgeService)
	destinationHandler := handlers.NewDestinationHandler()
	progressHandler := handlers.NewProgressHandler(progressService)
	sessionHandler := handlers.NewSessionHandler(syncService, walletService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	webhookHandler := handlers.NewWebhookHandler(accountService)
	eventsHandler := handlers.NewEventsHandler(eventHub)

	r := mux.NewRouter()

	standardRouter := r.PathPrefix("/").Subrouter()

	go middleware.CleanupVisitors()

	standardRouter.Use(middleware.RateLimitMiddleware)
	standardRouter.Use(middleware.MonitorMiddleware)

	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	standardRouter.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	standardRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "spookTrails-api"}`))
	}).Methods("GET")

	standardRouter.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := standardRouter.PathPrefix("/api/v1").Subrouter()

	// Browsing works signed-out against the anonymous partition.
	browse := api.PathPrefix("").Subrouter()
	browse.Use(middleware.OptionalAuthMiddleware)

	browse.HandleFunc("/destinations", destinationHandler.GetDestinations).Methods("GET")
	browse.HandleFunc("/destinations/{destinationId}", destinationHandler.GetDestination).Methods("GET")
	browse.HandleFunc("/quests", questHandler.GetQuests).Methods("GET")
	browse.HandleFunc("/badges", badgeHandler.GetBadges).Methods("GET")
	browse.HandleFunc("/progress", progressHandler.GetProgress).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/session/sync", sessionHandler.SyncSession).Methods("POST")

	protected.HandleFunc("/quests/{questId}/start", questHandler.StartQuest).Methods("POST")
	protected.HandleFunc("/quests/{questId}/complete", questHandler.CompleteQuest).Methods("POST")
	protected.HandleFunc("/quests/{questId}/claim", questHandler.ClaimQuest).Methods("POST")

	protected.HandleFunc("/events/ws", eventsHandler.Subscribe)

	protected.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	protected.HandleFunc("/notifications/unread-count", notificationHandler.GetUnreadCount).Methods("GET")
	protected.HandleFunc("/notifications/{notificationId}/read", notificationHandler.MarkAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/read-all", notificationHandler.MarkAllAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
