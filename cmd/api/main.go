package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/AryamanRoy/Raseed-FinanceAI/internal/advisor"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/api/handlers"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/api/middleware"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/categorize"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/config"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/gemini"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/jobs"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/jobs/inmemory"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/logger"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/session"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	port := flag.Int("port", cfg.Port, "HTTP server port")
	flag.Parse()

	log := logger.New(cfg.LogLevel)
	ctx := logger.WithContext(context.Background(), log)

	store := newUploadStore(ctx, cfg, log)
	sessions := session.NewManager()
	jobStore := inmemory.NewStore()

	var (
		adv       *advisor.Advisor
		publisher jobs.Publisher
		queue     *inmemory.Queue
	)
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("No Gemini API key configured - chat and categorization are disabled")
	} else {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.FallbackModel, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		adv = advisor.New(client, log)

		queue = inmemory.NewQueue(cfg.JobQueueSize, cfg.JobWorkers, jobStore)
		publisher = queue

		workerCtx, cancelWorker := context.WithCancel(ctx)
		defer cancelWorker()
		startWorker(workerCtx, queue, store, client, log)
	}

	mux := http.NewServeMux()

	uploadsHandler := handlers.NewUploadsHandler(store, publisher, jobStore, log)
	chatHandler := handlers.NewChatHandler(sessions, store, adv, cfg.MemoryMaxChars, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux.HandleFunc("GET /{$}", handlers.Health)
	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("POST /api/uploads", uploadsHandler.Upload)
	mux.HandleFunc("GET /api/uploads/{id}/profile", uploadsHandler.Profile)
	mux.HandleFunc("GET /api/uploads/{id}/categorized", uploadsHandler.Categorized)
	mux.HandleFunc("POST /api/chat", chatHandler.Chat)
	mux.HandleFunc("GET /api/jobs/{id}", jobsHandler.Get)

	handler := middleware.Logger(log)(
		middleware.Recovery(log)(
			middleware.CORS(cfg.AllowedOrigins)(
				middleware.RequestID(mux))))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", *port).Msg("API server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	if queue != nil {
		if err := queue.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Job queue shutdown failed")
		}
	}
}

func newUploadStore(ctx context.Context, cfg config.Config, log zerolog.Logger) storage.UploadStore {
	if cfg.GCSBucket == "" {
		log.Info().Msg("Using in-memory upload store")
		return storage.NewMemoryStore()
	}

	store, err := storage.NewGCSStore(ctx, cfg.GCSBucket, cfg.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Str("bucket", cfg.GCSBucket).Msg("Failed to create GCS upload store")
	}
	log.Info().Str("bucket", cfg.GCSBucket).Msg("Using GCS upload store")
	return store
}

// startWorker wires the categorization pipeline into the job queue.
func startWorker(ctx context.Context, queue *inmemory.Queue, store storage.UploadStore, client *gemini.Client, log zerolog.Logger) {
	cat := categorize.New(client, log)

	handler := func(ctx context.Context, job jobs.Job) error {
		catJob, ok := job.(*jobs.CategorizeUploadJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", catJob.JobID).
			Str("upload_id", catJob.UploadID).
			Msg("Processing categorization job")

		raw, err := store.Get(ctx, storage.KindRaw, catJob.UploadID)
		if err != nil {
			return fmt.Errorf("fetch upload %s: %w", catJob.UploadID, err)
		}

		out, err := cat.CategorizeCSV(ctx, raw)
		if err != nil {
			return err
		}

		if err := store.Put(ctx, storage.KindCategorized, catJob.UploadID, out); err != nil {
			return fmt.Errorf("store categorized %s: %w", catJob.UploadID, err)
		}

		log.Info().
			Str("job_id", catJob.JobID).
			Str("upload_id", catJob.UploadID).
			Msg("Categorization completed")
		return nil
	}

	go func() {
		log.Info().Msg("Starting categorization worker")
		if err := queue.Start(ctx, handler); err != nil {
			log.Error().Err(err).Msg("Categorization worker stopped with error")
		}
	}()
}
