package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/alwell-health/alwell/internal/ai"
	"github.com/alwell-health/alwell/internal/assistant"
	"github.com/alwell-health/alwell/internal/blob"
	"github.com/alwell-health/alwell/internal/chat"
	"github.com/alwell-health/alwell/internal/config"
	"github.com/alwell-health/alwell/internal/healthdata"
	"github.com/alwell-health/alwell/internal/metrics"
	"github.com/alwell-health/alwell/internal/profiles"
	"github.com/alwell-health/alwell/internal/reports"
	"github.com/alwell-health/alwell/internal/samples"
	"github.com/alwell-health/alwell/internal/snapshot"
	"github.com/alwell-health/alwell/internal/storage"
	"github.com/alwell-health/alwell/internal/storage/memory"
	"github.com/alwell-health/alwell/internal/storage/postgres"
	"github.com/alwell-health/alwell/internal/storage/sqlite"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server представляет HTTP сервер
type Server struct {
	config  *config.Config
	mux     *http.ServeMux
	storage storage.Storage
	store   *snapshot.Store
	replies *assistant.Queue
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	s.routes()
	return s
}

// initStorage инициализирует storage (memory, postgres или sqlite)
func (s *Server) initStorage() {
	ctx := context.Background()

	switch s.config.StorageMode {
	case config.StorageModePostgres:
		log.Println("INFO storage: connecting to PostgreSQL...")
		pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
		if err != nil {
			log.Printf("WARN storage: PostgreSQL connection failed: %v", err)
			log.Println("INFO storage: fallback to in-memory storage")
			s.storage = memory.New()
			return
		}
		log.Println("INFO storage: PostgreSQL connected")
		s.storage = pgStorage

	case config.StorageModeSQLite:
		log.Printf("INFO storage: opening SQLite at %s", s.config.SQLitePath)
		sqliteStorage, err := sqlite.Open(ctx, s.config.SQLitePath)
		if err != nil {
			log.Printf("WARN storage: SQLite open failed: %v", err)
			log.Println("INFO storage: fallback to in-memory storage")
			s.storage = memory.New()
			return
		}
		s.storage = sqliteStorage

	default:
		log.Println("INFO storage: using in-memory storage")
		s.storage = memory.New()
	}
}

// routes собирает сервисы и регистрирует маршруты
func (s *Server) routes() {
	ctx := context.Background()

	// Health check
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	if s.config.MetricsEnabled {
		metrics.Register()
		s.mux.Handle("GET /metrics", promhttp.Handler())
	}

	// Samples API
	samplesService := samples.NewService(s.storage)
	samplesHandler := samples.NewHandler(samplesService)
	s.mux.HandleFunc("POST /v1/samples/batch", samplesHandler.HandleBatch)
	s.mux.HandleFunc("GET /v1/samples", samplesHandler.HandleList)

	// Snapshot API
	provider := healthdata.NewStorageProvider(s.storage, s.config.HealthDeniedTypes)
	s.store = snapshot.NewStore(provider)
	if s.config.HealthAutoAuthorize {
		if err := s.store.RequestAuthorization(ctx); err != nil {
			log.Printf("WARN snapshot: authorization: %v", err)
		}
	}
	snapshotHandler := snapshot.NewHandler(s.store)
	s.mux.HandleFunc("GET /v1/snapshot", snapshotHandler.HandleGet)
	s.mux.HandleFunc("GET /v1/snapshot/stream", snapshotHandler.HandleStream)
	s.mux.HandleFunc("POST /v1/snapshot/refresh", snapshotHandler.HandleRefreshAll)
	s.mux.HandleFunc("POST /v1/snapshot/refresh/{metric}", snapshotHandler.HandleRefreshOne)
	s.mux.HandleFunc("POST /v1/health/authorize", snapshotHandler.HandleAuthorize)

	// Profile API
	profileService := profiles.NewService(s.storage)
	profileSession, err := profiles.NewSession(ctx, profileService)
	if err != nil {
		log.Printf("WARN profiles: initial load failed: %v", err)
	}
	profileHandler := profiles.NewHandler(profileSession)
	s.mux.HandleFunc("GET /v1/profile", profileHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/profile", profileHandler.HandleOnboarding)
	s.mux.HandleFunc("GET /v1/profile/status", profileHandler.HandleStatus)
	s.mux.HandleFunc("GET /v1/profile/options", profileHandler.HandleOptions)

	// Chat API
	aiProvider, err := ai.NewProvider(ctx, s.config)
	if err != nil {
		log.Printf("WARN ai: %s provider unavailable, using mock: %v", s.config.AIMode, err)
		aiProvider = ai.NewMockProvider()
	}
	s.replies = assistant.NewQueue(16)
	chatService := chat.NewService(profileSession, s.store, assistant.New(aiProvider, s.replies))
	chatHandler := chat.NewHandler(chatService)
	s.mux.HandleFunc("POST /v1/chat/sessions", chatHandler.HandleOpenSession)
	s.mux.HandleFunc("DELETE /v1/chat/sessions/{id}", chatHandler.HandleCloseSession)
	s.mux.HandleFunc("GET /v1/chat/sessions/{id}/messages", chatHandler.HandleListMessages)
	s.mux.HandleFunc("POST /v1/chat/sessions/{id}/messages", chatHandler.HandleSendMessage)

	// Reports API
	blobStore, mode, err := blob.NewBlobStore(ctx, s.config.Blob, log.Default())
	if err != nil {
		log.Printf("WARN blob: %v, fallback to memory", err)
		blobStore, mode = blob.NewMemoryStore(), config.BlobModeLocal
	}
	log.Printf("INFO reports: blob mode=%s", mode)
	reportsService := reports.NewService(
		s.storage,
		blobStore,
		profileSession,
		s.store,
		s.config.Blob.S3.PresignTTLSeconds,
		s.config.ReportsMaxKeep,
	)
	reportsHandler := reports.NewHandler(reportsService)
	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleList)
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler returns the router wrapped in middleware (outermost first): CORS → Rate Limit → Router
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("INFO server: listening on http://localhost%s", addr)
	log.Printf("INFO server: health check http://localhost%s/healthz", addr)
	log.Printf("INFO server: snapshot API http://localhost%s/v1/snapshot", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close останавливает store и освобождает storage.
// The reply queue stays open: in-flight replies may still dispatch to it.
func (s *Server) Close() error {
	if s.store != nil {
		s.store.Close()
	}
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
