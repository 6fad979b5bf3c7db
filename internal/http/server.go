package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"ricevute/internal/cache"
	applog "ricevute/internal/log"
	"ricevute/internal/render"
	"ricevute/internal/services"
	"ricevute/internal/store"
	appweb "ricevute/web"
)

type Server struct {
	http.Server
	templates   *template.Template
	store       store.Store
	receipts    *services.ReceiptService
	renderer    *render.Renderer
	rateLimiter *rateLimiter
	httpLog     *applog.StructuredLogger

	// Analytics aggregates are cached and purged on any receipt mutation.
	analyticsCache *cache.LRUCache[analyticsView]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, st store.Store, logger *applog.Logger, cacheMaxSize int, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		store:          st,
		receipts:       services.NewReceiptService(st),
		rateLimiter:    newRateLimiter(),
		httpLog:        applog.NewStructuredLogger(logger.WithComponent(applog.ComponentHTTP)),
		analyticsCache: cache.NewLRUCache[analyticsView](cacheMaxSize, cacheTTL),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.analyticsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	rd, err := render.New()
	if err != nil {
		logger.Warn("Failed building receipt renderer", "error", err)
	}
	s.renderer = rd

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /receipts/new", s.withSecurityHeaders(s.handleNewReceiptForm))
	mux.HandleFunc("POST /receipts", s.withSecurityHeaders(s.handleCreateReceipt))
	mux.HandleFunc("POST /receipts/clear", s.withSecurityHeaders(s.handleClearAll))
	mux.HandleFunc("GET /receipts/{id}", s.withSecurityHeaders(s.handleReceiptDetail))
	mux.HandleFunc("GET /receipts/{id}/edit", s.withSecurityHeaders(s.handleEditReceiptForm))
	mux.HandleFunc("POST /receipts/{id}", s.withSecurityHeaders(s.handleUpdateReceipt))
	mux.HandleFunc("POST /receipts/{id}/delete", s.withSecurityHeaders(s.handleDeleteReceipt))
	mux.HandleFunc("GET /receipts/{id}/doc", s.withSecurityHeaders(s.handleReceiptDoc))

	mux.HandleFunc("GET /analytics", s.withSecurityHeaders(s.handleAnalytics))
	mux.HandleFunc("GET /export", s.withSecurityHeaders(s.handleExport))
	mux.HandleFunc("GET /settings", s.withSecurityHeaders(s.handleSettingsForm))
	mux.HandleFunc("POST /settings", s.withSecurityHeaders(s.handleSaveSettings))

	// Logger middlewares wrap the whole mux so every handler can pull an
	// enriched logger out of the request context.
	handler := applog.Middleware(logger)(
		applog.RequestIDMiddleware(func(*http.Request) string { return generateRequestID() })(mux))
	s.Server.Handler = handler

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := clientAddr(r)
		ctx := r.Context()

		s.httpLog.LogHTTPStart(ctx, r, clientIP)

		// Rate limit mutations only; browsing stays unthrottled.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			applog.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP, applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.httpLog.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
