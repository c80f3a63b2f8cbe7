package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"

	ama "github.com/Tap30/ripple-ama"
	"github.com/Tap30/ripple-ama/metrics"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `help:"Listen address" default:":3000"`
}

func (s *ServeCmd) Run(g *Global) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := &http.Server{
		Addr:         s.Addr,
		Handler:      newSinkHandler(g.Logger, prometheus.NewRegistry()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.ListenAndServe()
	}()
	g.Logger.Info("Sink server running", "addr", s.Addr, "endpoint", "/events")

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		g.Logger.Info("Shutdown signal received, stopping sink server...")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	return server.Shutdown(stopCtx)
}

// sinkHandler accepts batches the way the analytics endpoint does.
type sinkHandler struct {
	logger   *slog.Logger
	received *prometheus.CounterVec
}

func newSinkHandler(logger *slog.Logger, reg *prometheus.Registry) http.Handler {
	h := &sinkHandler{
		logger: logger,
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ama_playground_events_received_total",
			Help: "Events received by the playground sink by event type.",
		}, []string{"type"}),
	}
	reg.MustRegister(h.received)

	router := mux.NewRouter()
	router.HandleFunc("/events", h.events).Methods(http.MethodPut, http.MethodPost)
	router.Handle("/metrics", metrics.HTTPHandler(reg)).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(router)
}

func (h *sinkHandler) events(w http.ResponseWriter, r *http.Request) {
	var body io.Reader = r.Body
	if r.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid gzip body"})
			return
		}
		defer zr.Close()
		body = zr
	}

	var batch ama.Batch
	if err := json.NewDecoder(body).Decode(&batch); err != nil {
		h.logger.Warn("Invalid batch", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON"})
		return
	}

	cc, err := ama.DecodeClientContext(batch.ClientContext)
	if err != nil {
		h.logger.Warn("Invalid client context", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid clientContext"})
		return
	}

	h.logger.Info("Received batch",
		"app_id", cc.Services.MobileAnalytics.AppID,
		"client_id", cc.Client.ClientID,
		"locale", cc.Env.Locale,
		"events", len(batch.Events))

	for _, e := range batch.Events {
		h.received.WithLabelValues(e.EventType).Inc()
		h.logger.Debug("Event",
			"type", e.EventType,
			"session", e.Session.ID,
			"duration_ms", e.Session.Duration,
			"attributes", e.Attributes)

		if triggersError(e.Attributes) {
			h.logger.Info("Error triggered, client should spool this batch")
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Simulated server error"})
			return
		}
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"success": true, "received": len(batch.Events)})
}

// triggersError reports whether attrs ask the sink to fail.
func triggersError(attrs map[string]any) bool {
	switch v := attrs["trigger_error"].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
