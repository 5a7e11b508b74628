package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sabitsky/hearitage/internal/pipeline"
	"github.com/sabitsky/hearitage/internal/resilience"
)

// maxImageBytes caps the request body. Vision models reject larger images
// anyway, so there is no point accepting them.
const maxImageBytes = 10 << 20

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recognition HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := initPipeline()
		if err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		r.Post("/api/recognize", func(w http.ResponseWriter, req *http.Request) {
			handleRecognize(p, w, req)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func handleRecognize(p *pipeline.Pipeline, w http.ResponseWriter, req *http.Request) {
	mediaType := req.Header.Get("Content-Type")
	image, err := io.ReadAll(io.LimitReader(req.Body, maxImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, resilience.KindBadRequest, "read request body")
		return
	}
	if len(image) > maxImageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, resilience.KindBadRequest, "image exceeds 10MB limit")
		return
	}

	result, err := p.Recognize(req.Context(), image, mediaType, middleware.GetReqID(req.Context()))
	if err != nil {
		kind := resilience.KindOf(err)
		writeError(w, statusFor(kind), kind, eris.ToString(err, false))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// statusFor maps a failure classification onto an HTTP status. Provider-side
// problems surface as 502 so callers can distinguish them from our own 500s.
func statusFor(kind resilience.Kind) int {
	switch kind {
	case resilience.KindBadRequest:
		return http.StatusBadRequest
	case resilience.KindMisconfiguredEnv, resilience.KindBilling:
		return http.StatusInternalServerError
	case resilience.KindTimeout:
		return http.StatusGatewayTimeout
	case resilience.KindUpstream, resilience.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, kind resilience.Kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":  string(kind),
		"detail": message,
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
