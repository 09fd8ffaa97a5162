// Package server exposes the shipment gateway over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/farmaborsa/cargo/internal/telemetry"
	"github.com/farmaborsa/cargo/pkg/cargo"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Server is the HTTP server for the shipment gateway.
type Server struct {
	port    int
	gateway *cargo.Gateway
	logger  *otelzap.Logger
	metrics *telemetry.Metrics
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, gateway *cargo.Gateway, logger *otelzap.Logger, metrics *telemetry.Metrics) *Server {
	return &Server{
		port:    cfg.Port,
		gateway: gateway,
		logger:  logger,
		metrics: metrics,
	}
}

// Handler builds the HTTP routing table. Split from Run so tests can
// drive the mux without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/carriers", s.handleCarriers)
	mux.HandleFunc("POST /api/shipments", s.handleCreateShipment)
	mux.HandleFunc("DELETE /api/shipments/{carrier}/{reference}", s.handleCancelShipment)
	mux.HandleFunc("GET /api/shipments/{carrier}/{reference}/tracking", s.handleTrackShipment)
	mux.HandleFunc("GET /api/shipments/{carrier}/{reference}/label", s.handleGetLabel)

	return s.withRequestID(mux)
}

// withRequestID tags every request for log correlation. Callers that
// already carry an id keep it.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleCarriers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"carriers": s.gateway.Carriers(),
	})
}

// createShipmentRequest is the create payload: the target carrier plus
// the canonical shipment.
type createShipmentRequest struct {
	Carrier  string                 `json:"carrier"`
	Shipment *cargo.ShipmentRequest `json:"shipment"`
}

func (s *Server) handleCreateShipment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req createShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON: "+err.Error()))
		return
	}
	if req.Carrier == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("carrier is required"))
		return
	}

	result := s.gateway.CreateShipment(r.Context(), req.Carrier, req.Shipment)
	s.recordResult("create", req.Carrier, result, start)
	writeJSON(w, httpStatus(result.Code), result)
}

func (s *Server) handleCancelShipment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	carrier := r.PathValue("carrier")
	reference := r.PathValue("reference")

	result := s.gateway.CancelShipment(r.Context(), carrier, reference)
	s.recordResult("cancel", carrier, result, start)
	writeJSON(w, httpStatus(result.Code), result)
}

func (s *Server) handleTrackShipment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	carrier := r.PathValue("carrier")
	reference := r.PathValue("reference")

	result := s.gateway.TrackShipment(r.Context(), carrier, reference)

	status := "success"
	httpCode := http.StatusOK
	if !result.Success {
		status = "failure"
		httpCode = http.StatusBadGateway
		s.metrics.RecordError(carrier, "track")
	}
	s.metrics.RecordRequest("track", carrier, status, time.Since(start).Seconds())

	writeJSON(w, httpCode, result)
}

func (s *Server) handleGetLabel(w http.ResponseWriter, r *http.Request) {
	carrier := r.PathValue("carrier")
	reference := r.PathValue("reference")

	label, err := s.gateway.GetLabel(r.Context(), carrier, reference)
	if err != nil {
		code := http.StatusBadGateway
		if errors.Is(err, cargo.ErrCarrierNotFound) {
			code = http.StatusNotFound
		} else if errors.Is(err, cargo.ErrMissingConfig) {
			code = http.StatusServiceUnavailable
		}
		s.metrics.RecordError(carrier, "label")
		writeJSON(w, code, errorBody(err.Error()))
		return
	}
	if label == nil {
		// The carrier has not produced a label yet.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, label)
}

// recordResult maps one shipment result into the request metrics.
func (s *Server) recordResult(operation, carrier string, result *cargo.ShipmentResult, start time.Time) {
	status := "success"
	if !result.Success {
		status = "failure"
		s.metrics.RecordError(carrier, operation)
	}
	s.metrics.RecordRequest(operation, carrier, status, time.Since(start).Seconds())
}

// httpStatus maps the result code taxonomy onto HTTP. Soft successes
// keep their 201.
func httpStatus(code int) int {
	switch code {
	case cargo.CodeOK:
		return http.StatusOK
	case cargo.CodeAccepted:
		return http.StatusCreated
	case cargo.CodeBadRequest:
		return http.StatusBadRequest
	case cargo.CodeNotFound:
		return http.StatusNotFound
	case cargo.CodeUnprocessable:
		return http.StatusUnprocessableEntity
	case cargo.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}
