package web

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hpungsan/stringvault/internal/config"
	"github.com/hpungsan/stringvault/internal/errors"
)

// NewServer creates and configures the stringvault HTTP API server.
func NewServer(db *sql.DB, cfg *config.Config, logger *slog.Logger, version string) *http.Server {
	h := &Handlers{
		db:       db,
		cfg:      cfg,
		renderer: NewRenderer(logger, version),
		version:  version,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax. The literal natural-language
	// route is more specific than the wildcard and wins.
	mux.HandleFunc("POST /strings", h.HandleCreate)
	mux.HandleFunc("GET /strings", h.HandleList)
	mux.HandleFunc("GET /strings/filter-by-natural-language", h.HandleFilterByNaturalLanguage)
	mux.HandleFunc("GET /strings/{value...}", h.HandleGet)
	mux.HandleFunc("DELETE /strings/{value...}", h.HandleDelete)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /docs", h.HandleDocs)

	handler := requestLogger(logger, cors(cfg.CORSAllowedOrigins, securityHeaders(routeErrors(mux, h.renderer))))

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// routeErrors serves mux, replacing the plain-text replies it writes when no
// route matches with the JSON error body. Handlers' own 404s pass through.
func routeErrors(mux *http.ServeMux, renderer *Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallback, pattern := mux.Handler(r)
		if pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}

		iw := &interceptWriter{ResponseWriter: w}
		fallback.ServeHTTP(iw, r)

		switch iw.intercepted {
		case http.StatusMethodNotAllowed:
			allowed := strings.Split(w.Header().Get("Allow"), ", ")
			renderer.renderError(w, r, errors.NewMethodNotAllowed(r.Method, allowed))
		case http.StatusNotFound:
			renderer.renderError(w, r, errors.NewRouteNotFound(r.URL.Path))
		}
	})
}

// interceptWriter swallows a 404 or 405 reply so it can be rewritten.
// Any other status is written through untouched.
type interceptWriter struct {
	http.ResponseWriter
	intercepted int
	wroteHeader bool
}

func (iw *interceptWriter) WriteHeader(status int) {
	if iw.wroteHeader {
		return
	}
	iw.wroteHeader = true
	if status == http.StatusNotFound || status == http.StatusMethodNotAllowed {
		iw.intercepted = status
		return
	}
	iw.ResponseWriter.WriteHeader(status)
}

func (iw *interceptWriter) Write(b []byte) (int, error) {
	if !iw.wroteHeader {
		iw.WriteHeader(http.StatusOK)
	}
	if iw.intercepted != 0 {
		return len(b), nil
	}
	return iw.ResponseWriter.Write(b)
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, logger *slog.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("stringvault API listening", "addr", "http://"+srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logger.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCh:
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
