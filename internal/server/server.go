package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/quillnotes/apiserver/config"
	"github.com/quillnotes/apiserver/internal/db"
	"github.com/quillnotes/apiserver/internal/handlers"
	"github.com/quillnotes/apiserver/internal/mq"
	"github.com/quillnotes/apiserver/internal/notify"
	"github.com/quillnotes/apiserver/internal/services"
	"github.com/quillnotes/apiserver/internal/store"
)

// Server wraps the HTTP server, router, and background notifier.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	dispatcher *notify.Dispatcher
	queue      mq.Backend
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	jwtSecret := strings.TrimSpace(cfg.JWT.Secret)
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	notifier, queue, err := buildNotifier(ctx, cfg.Mail)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	dispatcher := notify.NewDispatcher(notifier)

	accountRepo := store.NewAccountRepository(dbConn)
	noteRepo := store.NewNoteRepository(dbConn)

	accountService := services.NewAccountService(accountRepo, dispatcher, jwtSecret, cfg.JWT.TTL)
	noteService := services.NewNoteService(noteRepo)

	authMiddleware := handlers.RequireAuth(accountService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, accountService)
	})
	router.Route("/notes", func(r chi.Router) {
		handlers.NoteRouter(r, noteService, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		dispatcher: dispatcher,
		queue:      queue,
	}, nil
}

// buildNotifier selects the notification backend from config. The queue
// return value is non-nil only for broker-backed notifiers and is owned
// by the server for shutdown.
func buildNotifier(ctx context.Context, cfg config.MailConfig) (notify.Notifier, mq.Backend, error) {
	switch cfg.Backend {
	case config.MailBackendRabbitMQ:
		queue, err := mq.NewRabbitBackend(cfg.RabbitMQ)
		if err != nil {
			return nil, nil, err
		}
		return notify.NewQueueNotifier(queue, cfg.Channel), queue, nil
	case config.MailBackendPubSub:
		queue, err := mq.NewPubSubBackend(ctx, cfg.PubSub)
		if err != nil {
			return nil, nil, err
		}
		return notify.NewQueueNotifier(queue, cfg.Channel), queue, nil
	case config.MailBackendLog, "":
		return notify.NewLogNotifier(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown mail backend %q", cfg.Backend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests first, so a signup finishing during
// shutdown can still enqueue its welcome event, then drains pending
// notifications and releases the broker and database.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	err := s.httpServer.Shutdown(ctx)

	if s.dispatcher != nil {
		s.dispatcher.Close()
	}
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
