package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/alwell-health/alwell/internal/config"
	"github.com/alwell-health/alwell/internal/dbmigrate"
	"github.com/alwell-health/alwell/internal/httpserver"
)

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)

	if cfg.RunMigrationsOnStartup && cfg.StorageMode == config.StorageModePostgres {
		dbURL, source, _, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			log.Fatalf("FATAL startup migrations: %v", err)
		}

		log.Printf("startup migrations: command=up using=%s", source)
		if err := dbmigrate.Run(context.Background(), "up", dbURL); err != nil {
			log.Fatalf("FATAL startup migrations failed: %v", err)
		}
		log.Printf("startup migrations: completed")
	}

	validateProductionConfig(cfg)

	server := httpserver.New(cfg)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Println("INFO server: shutting down")
		if err := server.Close(); err != nil {
			log.Printf("WARN server: close: %v", err)
		}
		os.Exit(0)
	}()

	log.Fatal(server.Start())
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// Secrets are printed only as "set" / "not set".
func printStartupBanner(cfg *config.Config) {
	log.Println("============ Alwell API ============")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)

	// ---- Storage ----
	log.Println("---- storage ----")
	log.Printf("  storage_mode     = %s", cfg.StorageMode)
	switch cfg.StorageMode {
	case config.StorageModePostgres:
		log.Printf("  runtime_url      = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
		log.Printf("  pooled           = %s", setOrNot(cfg.DatabaseURLPooled))
		log.Printf("  direct           = %s", setOrNot(cfg.DatabaseURLDirect))
		log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)
	case config.StorageModeSQLite:
		log.Printf("  sqlite_path      = %s", cfg.SQLitePath)
	}

	// ---- Health data ----
	log.Println("---- health ----")
	log.Printf("  auto_authorize   = %t", cfg.HealthAutoAuthorize)
	log.Printf("  denied_types     = %s", nonEmptyOrDash(strings.Join(cfg.HealthDeniedTypes, ",")))

	// ---- Blob / S3 ----
	log.Println("---- blob ----")
	log.Printf("  blob_mode        = %s", cfg.Blob.Mode)
	log.Printf("  reports_max_keep = %d", cfg.ReportsMaxKeep)
	if cfg.Blob.Mode != config.BlobModeLocal {
		log.Printf("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	}

	// ---- AI ----
	log.Println("---- ai ----")
	log.Printf("  ai_mode          = %s", cfg.AIMode)
	switch cfg.AIMode {
	case config.AIModeOpenAI:
		log.Printf("  openai_model     = %s", cfg.OpenAIModel)
		log.Printf("  openai_base_url  = %s", cfg.OpenAIBaseURL)
		log.Printf("  openai_api_key   = %s", setOrNot(cfg.OpenAIAPIKey))
	case config.AIModeGemini:
		log.Printf("  gemini_model     = %s", cfg.GeminiModel)
		log.Printf("  gemini_api_key   = %s", setOrNot(cfg.GeminiAPIKey))
	}
	if cfg.AITimeoutSeconds > 0 {
		log.Printf("  timeout          = %ds", cfg.AITimeoutSeconds)
	} else {
		log.Printf("  timeout          = none")
	}

	log.Printf("  metrics          = %t", cfg.MetricsEnabled)
	log.Println("====================================")
}

// validateProductionConfig performs fatal checks on incomplete configuration.
func validateProductionConfig(cfg *config.Config) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"

	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			log.Fatalf("FATAL blob: BLOB_MODE is 's3' but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	if missing := cfg.MissingAIKeys(); len(missing) > 0 {
		log.Fatalf("FATAL ai: AI_MODE=%s but missing: %s", cfg.AIMode, strings.Join(missing, ", "))
	}

	if isProd && cfg.StorageMode == config.StorageModeMemory {
		log.Printf("WARN storage: in-memory storage in %s, data is lost on restart", cfg.Env)
	}

	if cfg.StorageMode == config.StorageModePostgres && cfg.DatabaseURL == "" {
		log.Fatalf("FATAL db: STORAGE_MODE=postgres but no DATABASE_URL configured")
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func nonEmptyOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
