package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/nao1215/receiptscan/internal/config"
	"github.com/nao1215/receiptscan/internal/database"
	"github.com/nao1215/receiptscan/internal/orchestrator"
	"github.com/spf13/cobra"
)

// maxUploadSize limits receipt image uploads. Receipts are photos, not
// videos; 10MB covers any phone camera image.
const maxUploadSize = 10 << 20

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the receipt analysis HTTP API",
		Long: `Serve starts an HTTP API for receipt fraud analysis.

Endpoints:
  POST /api/v1/receipts/analyze    Analyze an uploaded receipt image
                                   (multipart field "image")
  GET  /api/v1/receipts/{id}       Fetch the latest stored report
  GET  /healthz                    Liveness check

Examples:
  # Start the server on the default address
  receiptscan serve

  # Start on a custom address
  receiptscan serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultServeAddress,
		"Listen address for the HTTP API")
	cmd.Flags().DurationP("timeout", "t", config.DefaultUnitTimeout,
		"Per-producer timeout during analysis")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .receiptscan in current or home directory)")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.ServeAddress, err = cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	cfg.UnitTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	if err := loadConfigOverrides(cfg); err != nil {
		return err
	}
	if cfg.OpenAIAPIKey == "" {
		return config.ErrMissingAPIKey
	}

	verbose := getVerboseFlag(cmd)
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	o := buildOrchestrator(cfg, db, logger)
	srv := &apiServer{
		orchestrator: o,
		db:           db,
		logger:       logger,
	}

	httpServer := &http.Server{
		Addr:              cfg.ServeAddress,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown on interrupt
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, stopping server...")
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	fmt.Printf("Listening on %s\n", cfg.ServeAddress)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// apiServer holds the HTTP API dependencies.
type apiServer struct {
	orchestrator *orchestrator.Orchestrator
	db           *database.FraudDB
	logger       *slog.Logger
}

// routes builds the chi router for the API.
func (s *apiServer) routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Route("/api/v1/receipts", func(rt chi.Router) {
		rt.Post("/analyze", s.handleAnalyze)
		rt.Get("/{receiptID}", s.handleGetReport)
	})

	return mux
}

// handleAnalyze accepts a receipt image upload, runs the full analysis,
// stores the report, and returns it.
func (s *apiServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, `missing "image" form field`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		http.Error(w, "empty image upload", http.StatusBadRequest)
		return
	}

	receiptID := r.FormValue("receipt_id")
	if receiptID == "" {
		receiptID = uuid.NewString()
	}

	analysisReport := s.orchestrator.Run(r.Context(), receiptID, data)

	if err := s.db.SaveAnalysisReport(r.Context(), analysisReport); err != nil {
		s.logger.Error("failed to save analysis report", "receipt_id", receiptID, "error", err)
	}

	s.writeJSON(w, http.StatusOK, analysisReport)
}

// handleGetReport returns the latest stored report for a receipt.
func (s *apiServer) handleGetReport(w http.ResponseWriter, r *http.Request) {
	receiptID := chi.URLParam(r, "receiptID")

	analysisReport, err := s.db.LatestAnalysisReport(r.Context(), receiptID)
	if err != nil {
		if errors.Is(err, database.ErrReportNotFound) {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		s.logger.Error("failed to load analysis report", "receipt_id", receiptID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, analysisReport)
}

// writeJSON encodes the value as JSON with the proper content type.
func (s *apiServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
