package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dexkit/pokedex-client/pkg/browse"
	"github.com/dexkit/pokedex-client/pkg/cache"
	"github.com/dexkit/pokedex-client/pkg/catalog"
	"github.com/dexkit/pokedex-client/pkg/client"
	"github.com/dexkit/pokedex-client/pkg/index"
	"github.com/dexkit/pokedex-client/pkg/logging"
)

var (
	port      int
	baseURL   string
	pageSize  int
	redisAddr string
	cacheTTL  time.Duration
	logLevel  string
	prettyLog bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pokedex view server",
	Long:  `Start the HTTP server exposing the browsing view, reload, health, and metrics endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&port, "port", 8080, "HTTP listen port")
	serveCmd.Flags().StringVar(&baseURL, "base-url", client.DefaultBaseURL, "catalog API base URL")
	serveCmd.Flags().IntVar(&pageSize, "page-size", browse.DefaultPageSize, "records per page")
	serveCmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for the record cache (empty: in-memory)")
	serveCmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 10*time.Minute, "record cache TTL")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&prettyLog, "pretty", false, "human-readable log output")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(logLevel),
		Pretty: prettyLog,
		Output: os.Stderr,
	})

	dexClient, err := client.New(client.Config{
		BaseURL:   baseURL,
		UserAgent: "dex-server/1.0",
		Timeout:   30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	catalogCfg := catalog.DefaultConfig(dexClient)
	catalogCfg.CacheTTL = cacheTTL

	if redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
		if err := redisClient.Ping(cmd.Context()).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		store, err := cache.NewRedisStore(redisClient)
		if err != nil {
			return fmt.Errorf("create redis store: %w", err)
		}
		catalogCfg.Cache = store
		logger.Info().Str("addr", redisAddr).Msg("Record cache backed by Redis")
	} else {
		catalogCfg.Cache = cache.NewMemoryStore()
	}

	cat, err := catalog.New(catalogCfg)
	if err != nil {
		return fmt.Errorf("create catalog: %w", err)
	}

	session, err := browse.NewSession(browse.Config{
		Catalog:  cat,
		Index:    index.NewCache(0),
		PageSize: pageSize,
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	startCtx, cancelStart := context.WithTimeout(cmd.Context(), 2*time.Minute)
	session.Start(startCtx)
	cancelStart()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/view", viewHandler(session))
	mux.HandleFunc("/api/reload", reloadHandler(session))
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info().Int("port", port).Msg("Starting pokedex view server")
		errChan <- srv.ListenAndServe()
	}()

	select {
	case <-sigChan:
		logger.Info().Msg("Received shutdown signal, gracefully stopping")
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// viewResponse is the JSON shape consumed by the rendering collaborator.
type viewResponse struct {
	Records     []*catalog.Pokemon `json:"records"`
	CurrentPage int                `json:"current_page"`
	TotalPages  int                `json:"total_pages"`
	Query       string             `json:"query"`
	Mode        string             `json:"mode"`
	Error       string             `json:"error,omitempty"`
}

// viewHandler serves the current view. A "query" parameter updates the
// search query (resetting the page); a "page" parameter moves pages.
func viewHandler(session *browse.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		params := r.URL.Query()
		view := session.View()

		if params.Has("query") {
			view = session.SetQuery(r.Context(), params.Get("query"))
		}

		if params.Has("page") {
			p, err := strconv.Atoi(params.Get("page"))
			if err != nil {
				http.Error(w, "page must be an integer", http.StatusBadRequest)
				return
			}
			view = session.SetPage(r.Context(), p)
		}

		writeView(w, view)
	}
}

// reloadHandler rebuilds the name index and recomputes the view.
func reloadHandler(session *browse.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeView(w, session.Reload(r.Context()))
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// writeView renders a view snapshot. Fetch failures surface as 502 with a
// single error message; an empty result is a normal 200 with total_pages 0.
func writeView(w http.ResponseWriter, view browse.View) {
	resp := viewResponse{
		Records:     view.Records,
		CurrentPage: view.CurrentPage,
		TotalPages:  view.TotalPages,
		Query:       view.Query,
		Mode:        string(view.Mode),
	}

	status := http.StatusOK
	if view.Err != nil {
		resp.Error = view.Err.Error()
		status = http.StatusBadGateway
	}
	if resp.Records == nil {
		resp.Records = []*catalog.Pokemon{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
