// internal/httpserver/server.go
//
// HTTP server wiring for the matchboard backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     access log, CORS).
//   - Public endpoints: "/" (the board page), "/static/*", "/data.json",
//     "/health", "/debug/dataset".
//   - Board endpoints under /api/board (see routes_board.go).
//   - Background sweeping of idle boards.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled so the session cookie
//     works from a separately served client.
//   - The dataset is loaded once before the server starts; a load failure
//     never reaches this package.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/matchboard/internal/dataset"
	"github.com/robalobadob/matchboard/internal/journal"
	"github.com/robalobadob/matchboard/internal/session"
	"github.com/robalobadob/matchboard/internal/store"
)

// Options tunes the server.
type Options struct {
	ClientOrigin   string
	RequestTimeout time.Duration
	IdleBoardTTL   time.Duration
	DailySalt      string           // seeds the board of the day
	Web            fs.FS            // static page; nil disables "/" and "/static/*"
	Now            func() time.Time // clock for daily boards; default time.Now
}

// Server bundles router, board store, journal and session manager.
type Server struct {
	r        *chi.Mux
	ds       *dataset.Dataset
	store    store.Store
	journal  journal.Journal
	sessions *session.Manager
	opts     Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(ds *dataset.Dataset, st store.Store, j journal.Journal, sm *session.Manager, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5175"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{r: chi.NewRouter(), ds: ds, store: st, journal: j, sessions: sm, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                          // one zerolog line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(cors(opts.ClientOrigin))            // credentials-friendly CORS

	// --- page + static data ---
	if opts.Web != nil {
		s.r.Get("/", s.handleIndex)
		s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(opts.Web))))
	}
	s.r.With(jsonContentType).Get("/data.json", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(s.ds)
	})

	// --- diagnostics ---
	s.r.With(jsonContentType).Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.With(jsonContentType).Get("/debug/dataset", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"knowledgeAreas": len(s.ds.KnowledgeAreas),
			"processGroups":  len(s.ds.ProcessGroups),
			"processes":      s.ds.Len(),
			"boards":         s.store.Len(),
			"problems":       s.ds.Validate(),
		})
	})

	// --- board API ---
	s.r.Route("/api/board", s.mountBoard)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sweepLoop(sweepCtx, time.Minute)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// sweepLoop drops idle boards on every tick.
func (s *Server) sweepLoop(ctx context.Context, every time.Duration) {
	if s.opts.IdleBoardTTL <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.store.Sweep(ctx, s.opts.IdleBoardTTL); n > 0 {
				log.Info().Int("boards", n).Msg("swept idle boards")
			}
		}
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := fs.ReadFile(s.opts.Web, "index.html")
	if err != nil {
		log.Error().Err(err).Msg("read index.html")
		writeError(w, http.StatusInternalServerError, "page_missing")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one debug-level event per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("reqId", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("took", time.Since(start)).
				Msg("http")
		}()
		next.ServeHTTP(ww, r)
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
