package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"datadocs/internal/config"
	"datadocs/internal/crypto"
	"datadocs/internal/domain/services"
	"datadocs/internal/lang"
	"datadocs/internal/repository/postgres"
	serviceText "datadocs/internal/service/text"
	"datadocs/internal/service/translate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo texts")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	// Build the full service stack so seeded texts go through the same
	// encryption and keyword pipeline as production writes
	codec, err := crypto.NewCodec(cfg.SecretKey)
	if err != nil {
		log.Fatalf("Failed to initialize content codec: %v", err)
	}
	languages, err := lang.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load language registry: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	textRepo := postgres.NewTextRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)
	translator := translate.NewPendingTranslator(languages)
	textService := serviceText.NewService(textRepo, txManager, codec, languages, translator, cfg.KeywordTop, logger)

	// Seed demo texts
	log.Println("📝 Seeding demo texts...")

	seedAuthor := uuid.New()
	seeds := getSeedTexts()

	for i, seed := range seeds {
		seed.request.AuthorID = seedAuthor
		text, err := textService.Create(ctx, seed.request)
		if err != nil {
			log.Printf("❌ Failed to create text '%s': %v", seed.name, err)
			continue
		}

		log.Printf("✅ Created text %d/%d: %s (ID: %s, Lang: %s)",
			i+1, len(seeds), seed.name, text.ID, text.Lang)
	}

	log.Println("🎉 Seeding complete!")
}

// dropAllTables removes all tables (revisions first, FK on texts)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	drops := []string{
		"DROP TABLE IF EXISTS " + tables.TextRevisions + " CASCADE",
		"DROP TABLE IF EXISTS " + tables.Texts + " CASCADE",
	}
	for _, query := range drops {
		if _, err := pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

type seedText struct {
	name    string
	request *services.CreateTextRequest
}

// getSeedTexts returns demo content exercising the full feature set:
// section-owned texts (keyword extraction), free-standing texts, both
// languages, and redaction markup
func getSeedTexts() []seedText {
	budgetSection := uuid.New()
	scopeSection := uuid.New()

	return []seedText{
		{
			name: "Budget summary (en, redacted figures)",
			request: &services.CreateTextRequest{
				SectionID: &budgetSection,
				Lang:      "en",
				Content: "## Budget Summary\n\n" +
					"The program budget is ~~$5,000,000 over three years~~[FinancialDisclosure] " +
					"allocated across four regional offices.\n\n" +
					"| Office | Share |\n|---|---|\n| East | 40% |\n| West | 60% |\n",
			},
		},
		{
			name: "Scope statement (fr)",
			request: &services.CreateTextRequest{
				SectionID: &scopeSection,
				Lang:      "fr",
				Content: "## Portée du projet\n\n" +
					"Le projet couvre la modernisation des services numériques " +
					"pour les citoyens, incluant ~~les contrats avec Acme Inc.~~[ThirdPartyInformation].\n",
			},
		},
		{
			name: "Free-standing note (en, no section)",
			request: &services.CreateTextRequest{
				Lang:    "en",
				Content: "Draft note pending review. Contact ~~Alex Tremblay~~[PersonalInformation] for details.\n",
			},
		},
	}
}
