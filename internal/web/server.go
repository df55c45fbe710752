package web

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/Spok95/school-club-portal/internal/config"
	"github.com/Spok95/school-club-portal/internal/ctxutil"
	"github.com/Spok95/school-club-portal/internal/metrics"
)

type Server struct {
	db    *sql.DB
	log   *zap.SugaredLogger
	cfg   *config.Config
	store *sessions.CookieStore
	mux   *http.ServeMux
}

func New(database *sql.DB, log *zap.SugaredLogger, cfg *config.Config) *Server {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   7 * 24 * 3600,
	}

	s := &Server{db: database, log: log, cfg: cfg, store: store}
	s.routes()
	return s
}

func (s *Server) routes() {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /{$}", s.count("index", s.handleIndex))

	mux.HandleFunc("POST /register", s.count("register", s.handleRegister))
	mux.HandleFunc("POST /login", s.count("login", s.handleLogin))
	mux.HandleFunc("POST /logout", s.count("logout", s.handleLogout))

	mux.HandleFunc("GET /users", s.count("users_list", s.requireAdmin(s.handleUsers)))

	mux.HandleFunc("GET /events", s.count("events_list", s.handleEvents))
	mux.HandleFunc("GET /events/{id}", s.count("event_get", s.handleEvent))
	mux.HandleFunc("POST /events", s.count("event_create", s.requireAdmin(s.handleCreateEvent)))
	mux.HandleFunc("POST /events/{id}/attend", s.count("event_attend", s.requireUser(s.handleAttend)))
	mux.HandleFunc("POST /events/{id}/unattend", s.count("event_unattend", s.requireUser(s.handleUnattend)))
	mux.HandleFunc("POST /events/{id}/delete", s.count("event_delete", s.requireAdmin(s.handleDeleteEvent)))
	mux.HandleFunc("GET /events/{id}/image", s.count("event_image", s.handleEventImage))

	mux.HandleFunc("GET /forum", s.count("forum_list", s.handleForum))
	mux.HandleFunc("GET /forum/{id}", s.count("forum_get", s.handleForumPost))
	mux.HandleFunc("POST /forum", s.count("forum_create", s.requireAdmin(s.handleCreatePost)))
	mux.HandleFunc("POST /forum/{id}/delete", s.count("forum_delete", s.requireAdmin(s.handleDeletePost)))
	mux.HandleFunc("GET /forum/{id}/image", s.count("forum_image", s.handlePostImage))

	mux.HandleFunc("GET /analytics", s.count("analytics", s.requireAdmin(s.handleAnalytics)))
	mux.HandleFunc("GET /analytics/export", s.count("analytics_export", s.requireAdmin(s.handleAnalyticsExport)))

	s.mux = mux
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithTimeout(r.Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := s.db.PingContext(ctx); err != nil {
		http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	metrics.ObserveDBPing(time.Since(t0))
	_, _ = w.Write([]byte("ok"))
}

// Start поднимает HTTP-сервер и аккуратно гасит его при отмене ctx.
func (s *Server) Start(ctx context.Context, addr string) *http.Server {
	srv := &http.Server{Addr: addr, Handler: s}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorw("http server", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return srv
}
