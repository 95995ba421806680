package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verdantlabs/gardenledger/internal/garden"
	"github.com/verdantlabs/gardenledger/internal/handler"
	"github.com/verdantlabs/gardenledger/internal/items"
	"github.com/verdantlabs/gardenledger/internal/logger"
	"github.com/verdantlabs/gardenledger/internal/metrics"
	"github.com/verdantlabs/gardenledger/internal/plant"
	"github.com/verdantlabs/gardenledger/internal/stream"
	"github.com/verdantlabs/gardenledger/internal/token"
)

// Version is stamped at build time.
var Version = "dev"

// Deps carries everything the server routes against.
type Deps struct {
	Tokens token.Service
	Items  items.Service
	Plants plant.Service
	Garden garden.Service
	DB     handler.Pinger // nil without a durable event log
	Stream *stream.Hub    // nil disables the websocket feed
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(port int, deps Deps) *Server {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.DB))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/info", handler.HandleGetInfo(deps.Tokens, Version))

		tokenHandler := handler.NewTokenHandler(deps.Tokens)
		r.Route("/token", func(r chi.Router) {
			r.Get("/balance", tokenHandler.Balance)
			r.Get("/supply", tokenHandler.Supply)
			r.Post("/transfer", tokenHandler.Transfer)
			r.Post("/burn", tokenHandler.Burn)
			r.Get("/burn/cooldown", tokenHandler.BurnCooldown)
		})

		itemsHandler := handler.NewItemsHandler(deps.Items)
		r.Route("/items", func(r chi.Router) {
			r.Get("/prices", itemsHandler.Prices)
			r.Get("/balance", itemsHandler.Balance)
			r.Post("/buy", itemsHandler.Buy)
			r.Post("/transfer", itemsHandler.Transfer)
			r.Post("/approve", itemsHandler.Approve)
			r.Post("/admin/mint", itemsHandler.AdminMint)
		})

		plantHandler := handler.NewPlantHandler(deps.Plants)
		r.Route("/plants", func(r chi.Router) {
			r.Get("/", plantHandler.List)
			r.Post("/", plantHandler.Mint)
			r.Post("/admin/mint", plantHandler.AdminMint)
			r.Get("/{id}", plantHandler.Get)
			r.Post("/{id}/water", plantHandler.Water)
			r.Post("/{id}/stage", plantHandler.UpdateStage)
			r.Post("/{id}/harvest", plantHandler.Harvest)
		})

		gardenHandler := handler.NewGardenHandler(deps.Garden)
		r.Route("/garden", func(r chi.Router) {
			r.Post("/plant", gardenHandler.PlantSeed)
			r.Get("/treasury", gardenHandler.Treasury)
			r.Post("/treasury/deposit", gardenHandler.Deposit)
			r.Post("/treasury/withdraw", gardenHandler.Withdraw)
			r.Get("/stats", gardenHandler.Stats)
			r.Get("/players/stats", gardenHandler.PlayerStats)
			r.Get("/addresses", gardenHandler.Addresses)
		})
	})

	// Live event feed
	if deps.Stream != nil {
		r.Get("/ws/events", deps.Stream.Handler())
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info("Request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info("Server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
