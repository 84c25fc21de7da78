package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/meridian-policy/packet-cli/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only packet API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// API reads never consume the change feed, so the CLI still
		// reports what changed since the last real generation.
		env, err := initEnv(ctx, "serve", pipeline.WithoutSnapshotSave())
		if err != nil {
			return err
		}
		defer env.Close()

		router := buildRouter(env, cfg.Server.RequestsPerSec, cfg.Server.Burst)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.Float64("requests_per_sec", cfg.Server.RequestsPerSec),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// buildRouter assembles the read-only API surface over the environment.
func buildRouter(env *packetEnv, rps float64, burst int) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(rateLimit(rate.NewLimiter(rate.Limit(rps), burst)))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/tribes", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, env.Registry.Tribes())
		})

		api.Get("/packets/{tribeID}", func(w http.ResponseWriter, r *http.Request) {
			tribeID := chi.URLParam(r, "tribeID")
			if env.Registry.TribeByID(tribeID) == nil {
				writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown tribe %q", tribeID))
				return
			}

			result, err := env.Generator.Generate(r.Context(), tribeID)
			if err != nil {
				zap.L().Error("serve: packet generation failed",
					zap.String("tribe", tribeID), zap.Error(err))
				writeJSONError(w, http.StatusInternalServerError, "packet generation failed")
				return
			}
			writeJSON(w, http.StatusOK, newPacketPayload(result))
		})

		api.Get("/regions/{regionID}", func(w http.ResponseWriter, r *http.Request) {
			regionID := chi.URLParam(r, "regionID")
			if env.Registry.RegionByID(regionID) == nil {
				writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown region %q", regionID))
				return
			}

			data, err := env.Generator.RegionInputs(r.Context(), regionID, env.Aggregator)
			if err != nil {
				zap.L().Error("serve: region inputs failed",
					zap.String("region", regionID), zap.Error(err))
				writeJSONError(w, http.StatusInternalServerError, "region aggregation failed")
				return
			}
			rc, err := env.Aggregator.Aggregate(regionID, time.Now().UTC(), data)
			if err != nil {
				zap.L().Error("serve: region aggregation failed",
					zap.String("region", regionID), zap.Error(err))
				writeJSONError(w, http.StatusInternalServerError, "region aggregation failed")
				return
			}
			writeJSON(w, http.StatusOK, rc)
		})
	})

	return r
}

// rateLimit rejects requests once the shared token bucket is drained.
func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("serve: write response", zap.Error(err))
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
