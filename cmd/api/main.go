package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"io.winapps.clubconsole/internal/config"
	"io.winapps.clubconsole/internal/content"
	"io.winapps.clubconsole/internal/db"
	"io.winapps.clubconsole/internal/editor"
	firebaseutil "io.winapps.clubconsole/internal/firebase"
	"io.winapps.clubconsole/internal/handlers"
	"io.winapps.clubconsole/internal/identity"
	"io.winapps.clubconsole/internal/logging"
	"io.winapps.clubconsole/internal/middleware"
	"io.winapps.clubconsole/internal/session"
	"io.winapps.clubconsole/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize Firebase
	firebaseApp, err := firebaseutil.InitFirebase(ctx, cfg.Firebase)
	if err != nil {
		logger.Fatalw("Failed to initialize Firebase", "error", err)
	}
	authClient, err := firebaseutil.GetAuthClient(ctx, firebaseApp)
	if err != nil {
		logger.Fatalw("Failed to initialize Firebase Auth", "error", err)
	}
	provider, err := identity.NewFirebase(ctx, authClient, cfg.Firebase.APIKey)
	if err != nil {
		logger.Fatalw("Failed to initialize identity provider", "error", err)
	}

	// Initialize Redis
	redisClient, err := db.InitRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatalw("Failed to initialize Redis", "error", err)
	}
	defer redisClient.Close()

	docs, closeDocs := openDocuments(ctx, cfg, firebaseApp, redisClient, logger)
	defer closeDocs()

	storageClient, err := firebaseApp.Storage(ctx)
	if err != nil {
		logger.Fatalw("Failed to initialize Firebase Storage", "error", err)
	}
	bucket, err := storageClient.Bucket(cfg.Firebase.StorageBucket)
	if err != nil {
		logger.Fatalw("Failed to open storage bucket", "bucket", cfg.Firebase.StorageBucket, "error", err)
	}
	objects := store.NewFirebaseStorage(bucket, cfg.Firebase.StorageBucket)

	gate := session.NewGate(provider, cfg.AllowedEmail, logger)
	gate.Start()
	defer gate.Close()
	sessions := session.NewRedisRegistry(redisClient, cfg.SessionTTL)

	workspaces := content.NewWorkspaces(docs, objects, logger)
	defer workspaces.CloseAll()

	janitor, err := editor.NewJanitor(cfg.DraftSweepSchedule, cfg.DraftTTL, workspaces, logger)
	if err != nil {
		logger.Fatalw("Failed to schedule draft janitor", "error", err)
	}
	if err := janitor.Every(cfg.DraftSweepSchedule, "idle workspaces", func() int {
		return workspaces.SweepIdle(cfg.SessionTTL)
	}); err != nil {
		logger.Fatalw("Failed to schedule workspace sweep", "error", err)
	}
	janitor.Start()
	defer janitor.Stop()

	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigin))
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	authHandler := handlers.NewAuthHandler(gate, sessions, workspaces, cfg.SessionTTL, logger)
	consoleHandler := handlers.NewConsoleHandler(workspaces, cfg.MaxUploadBytes, logger)
	handlers.RegisterRoutes(router, authHandler, consoleHandler, sessions, gate, logger)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Infow("Server starting", "addr", cfg.HTTPAddr, "document_backend", cfg.DocumentBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

// openDocuments picks the configured document backend and fronts it with the
// Redis list cache.
func openDocuments(ctx context.Context, cfg *config.Config, app *firebase.App, redisClient *redis.Client, logger *zap.SugaredLogger) (store.DocumentStore, func()) {
	var (
		backend store.DocumentStore
		closer  func()
	)

	switch cfg.DocumentBackend {
	case config.BackendPostgres:
		pool, err := db.InitPostgres(ctx, cfg.Postgres)
		if err != nil {
			logger.Fatalw("Failed to initialize PostgreSQL", "error", err)
		}
		backend, closer = store.NewPostgres(pool), pool.Close
	default:
		client, err := app.Firestore(ctx)
		if err != nil {
			logger.Fatalw("Failed to initialize Firestore", "error", err)
		}
		backend = store.NewFirestore(client)
		closer = func() {
			if err := client.Close(); err != nil {
				logger.Warnw("Failed to close Firestore client", "error", err)
			}
		}
	}

	return store.NewCachedDocuments(backend, redisClient, cfg.ListCacheTTL, logger), closer
}
