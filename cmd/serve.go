package main

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/formsource/orderload/internal/build"
	"github.com/formsource/orderload/internal/derive"
	"github.com/formsource/orderload/internal/ingest"
	"github.com/formsource/orderload/internal/normalize"
	"github.com/formsource/orderload/internal/pipeline"
	"github.com/formsource/orderload/internal/sqlgen"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the conversion HTTP server",
	Long: `Serves conversion over HTTP for the ops dashboard: POST a CSV export to
/v1/convert and receive the SQL script. Each request runs with a fresh
allocator seeded from config, so the endpoint is for previewing scripts, not
for allocating production identifiers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := buildParams()
		if err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST"},
		}))
		r.Use(rateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"}) //nolint:errcheck
		})

		r.Post("/v1/convert", convertHandler(p, cfg.Seeds))

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
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// convertHandler converts a CSV body into a SQL script. Each request gets a
// fresh allocator, so identifiers restart from the configured seeds.
func convertHandler(p build.Params, seeds build.Seeds) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		rowCh, errCh := ingest.StreamCSV(req.Context(), req.Body)
		rows, err := ingest.ReadAll(rowCh, errCh)
		if err != nil {
			http.Error(w, `{"error":"malformed csv body"}`, http.StatusBadRequest)
			return
		}

		subs := normalize.Normalize(rows)
		rs := pipeline.Convert(subs, derive.DefaultRules(), build.NewAllocator(seeds), p)
		if rs.Empty() {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/sql")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, sqlgen.Render(rs, p.Timestamp)) //nolint:errcheck
	}
}

// rateLimit applies a per-client-IP token bucket to every route.
func rateLimit(perSec float64, burst int) func(http.Handler) http.Handler {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		lim, ok := limiters[ip]
		if !ok {
			lim = rate.NewLimiter(rate.Limit(perSec), burst)
			limiters[ip] = lim
		}
		return lim
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ip, _, err := net.SplitHostPort(req.RemoteAddr)
			if err != nil {
				ip = req.RemoteAddr
			}
			if !limiterFor(ip).Allow() {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
