package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"datadocs/internal/config"
	"datadocs/internal/crypto"
	"datadocs/internal/handler"
	"datadocs/internal/lang"
	"datadocs/internal/middleware"
	"datadocs/internal/repository/postgres"
	serviceText "datadocs/internal/service/text"
	"datadocs/internal/service/translate"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration. A missing SECRET_KEY is fatal here, before any
	// request is served.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Derive the content encryption key once; read-only afterwards
	codec, err := crypto.NewCodec(cfg.SecretKey)
	if err != nil {
		log.Fatalf("Failed to initialize content codec: %v", err)
	}

	// Load language definitions and stopword lists. Keyword extraction
	// cannot run without them, so failure here is fatal too.
	languages, err := lang.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load language registry: %v", err)
	}
	logger.Info("language registry loaded")

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	textRepo := postgres.NewTextRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create services. The pending translator stands in until a real
	// machine-translation backend is configured.
	translator := translate.NewPendingTranslator(languages)
	textService := serviceText.NewService(textRepo, txManager, codec, languages, translator, cfg.KeywordTop, logger)

	// Create handlers
	textHandler := handler.NewTextHandler(textService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", textHandler.HealthCheck)

	// Text routes
	mux.HandleFunc("POST /api/texts", textHandler.CreateText)
	mux.HandleFunc("POST /api/texts/batch", textHandler.BatchTexts) // Must come before {id} route
	mux.HandleFunc("GET /api/texts/{id}", textHandler.GetText)
	mux.HandleFunc("PUT /api/texts/{id}", textHandler.UpdateText)
	mux.HandleFunc("GET /api/texts/{id}/revisions", textHandler.GetTextRevisions)
	mux.HandleFunc("POST /api/texts/{id}/translate", textHandler.TranslateText)

	// Section-scoped text lookup
	mux.HandleFunc("GET /api/sections/{sectionID}/text", textHandler.GetSectionText)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Identity → Routes
	root = middleware.Identity()(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be first to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "X-User-ID"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
