package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agency-os/research-core/internal/fallback"
	"github.com/agency-os/research-core/internal/gate"
	"github.com/agency-os/research-core/internal/metrics"
	"github.com/agency-os/research-core/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server for research and gating requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mux := http.NewServeMux()
		mux.HandleFunc("GET /health", handleHealth)
		mux.HandleFunc("POST /gate", handleGate)
		mux.HandleFunc("POST /research/libraries", handleLibraries(newMetadataChain()))
		mux.HandleFunc("POST /research/search", handleSearch(newSearchChain()))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleGate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Brief      model.ResearchBrief  `json:"brief"`
		Validation model.FactValidation `json:"validation"`
		Decision   string               `json:"decision,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	verdict := gate.Evaluate(req.Brief, req.Validation, gate.Decision(req.Decision))
	writeJSON(w, http.StatusOK, verdict)
}

func handleLibraries(chain *fallback.Chain[model.LibraryQuery]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Libraries []model.LibraryQuery `json:"libraries"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if len(req.Libraries) == 0 {
			http.Error(w, `{"error":"libraries is required"}`, http.StatusBadRequest)
			return
		}

		results := chain.ResolveAll(r.Context(), req.Libraries, cfg.Resolve.MaxConcurrent)
		writeResolution(w, results)
	}
}

func handleSearch(chain *fallback.Chain[model.SearchQuery]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Queries []string `json:"queries"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if len(req.Queries) == 0 {
			http.Error(w, `{"error":"queries is required"}`, http.StatusBadRequest)
			return
		}

		queries := make([]model.SearchQuery, len(req.Queries))
		for i, q := range req.Queries {
			queries[i] = model.SearchQuery{Text: q}
		}

		results := chain.ResolveAll(r.Context(), queries, cfg.Resolve.MaxConcurrent)
		writeResolution(w, results)
	}
}

func writeResolution(w http.ResponseWriter, results []*model.ProviderResult) {
	writeJSON(w, http.StatusOK, struct {
		Results []*model.ProviderResult `json:"results"`
		Metrics metrics.Summary         `json:"metrics"`
	}{results, metrics.Summarize(results)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
