package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oncolane/caseboard/internal/ai"
	"github.com/oncolane/caseboard/internal/config"
	"github.com/oncolane/caseboard/internal/database"
	"github.com/oncolane/caseboard/internal/handlers"
	"github.com/oncolane/caseboard/internal/models"
	"github.com/oncolane/caseboard/internal/services/his"
	"github.com/oncolane/caseboard/internal/services/meetings"
	"github.com/oncolane/caseboard/internal/services/registry"
	"github.com/oncolane/caseboard/internal/services/storage"
	"github.com/oncolane/caseboard/internal/websocket"
	"github.com/oncolane/caseboard/internal/workflow"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.Board{},
		&models.BoardMember{},
		&models.CaseRecord{},
		&models.CaseAttachment{},
		&models.Meeting{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Document blob storage
	var store storage.Store
	switch cfg.Storage.Backend {
	case "s3":
		store, err = storage.NewS3Store(context.Background(), cfg.Storage.S3Bucket)
		if err != nil {
			log.Fatalf("Failed to init S3 storage: %v", err)
		}
		log.Printf("✅ Storage: S3 bucket %s", cfg.Storage.S3Bucket)
	default:
		store, err = storage.NewLocalStore(cfg.Storage.LocalDir)
		if err != nil {
			log.Fatalf("Failed to init local storage: %v", err)
		}
		log.Printf("✅ Storage: local directory %s", cfg.Storage.LocalDir)
	}

	// 5. Realtime push hub
	hub := websocket.NewHub()
	go hub.Run()
	notifier := websocket.NewNotifier(hub)

	// 6. Core services
	sessions := workflow.NewSessionManager()
	wf := workflow.New(registry.New(db), notifier)
	meetingSvc := meetings.New(db, notifier)

	// Optional HIS demographics lookup
	var hisClient *his.Client
	if cfg.HIS.URL != "" {
		hisClient = his.NewClient(cfg.HIS.URL, cfg.HIS.Database, cfg.HIS.Username, cfg.HIS.Password)
		log.Println("✅ HIS: demographics lookup enabled")
	}

	// Optional AI discussion drafts
	var summarizer *ai.Summarizer
	if cfg.Gemini.APIKey != "" {
		summarizer, err = ai.NewSummarizer(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Printf("⚠️ AI: failed to init summarizer: %v", err)
		} else {
			log.Println("✅ AI: discussion drafts enabled")
		}
	}

	// 7. Set up HTTP router
	router := handlers.NewRouter(handlers.Deps{
		DB:         db,
		Cfg:        cfg,
		Sessions:   sessions,
		Workflow:   wf,
		Meetings:   meetingSvc,
		Store:      store,
		Hub:        hub,
		HISClient:  hisClient,
		Summarizer: summarizer,
	})

	// 8. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if summarizer != nil {
		summarizer.Close()
	}

	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
