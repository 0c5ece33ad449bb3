// Package httpapi exposes the contacts service as an HTTP JSON API on a chi
// router.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/contactshare/internal/logging"
	"github.com/dmitrijs2005/contactshare/internal/server/events"
	"github.com/dmitrijs2005/contactshare/internal/server/models"
	"github.com/dmitrijs2005/contactshare/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 10 * time.Second

type userSvc interface {
	Signup(ctx context.Context, email, password, name string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

type groupSvc interface {
	List(ctx context.Context, userID string) ([]*models.Group, error)
	Create(ctx context.Context, userID, name, description string) (*models.Group, error)
	Get(ctx context.Context, groupID string) (*services.GroupDetails, error)
	Delete(ctx context.Context, groupID, actorID string) error
}

type contactSvc interface {
	List(ctx context.Context, groupID string) ([]*models.Contact, error)
	Create(ctx context.Context, groupID, userID string, f models.ContactFields) (*models.Contact, error)
	Update(ctx context.Context, contactID, userID string, f models.ContactFields) (*models.Contact, error)
	Delete(ctx context.Context, contactID, userID string) error
}

type transferSvc interface {
	Export(ctx context.Context, groupID, format string) (*services.ExportFile, error)
	ExportLink(ctx context.Context, groupID, format string) (*services.ExportLink, error)
	Import(ctx context.Context, groupID, userID, filename string, r io.Reader) ([]*models.Contact, error)
}

type eventSource interface {
	Subscribe(ctx context.Context, groupID string) (<-chan events.Event, func(), error)
}

type guard interface {
	RequireMember(ctx context.Context, groupID, userID string) error
	RequireCreator(ctx context.Context, groupID, userID string) (*models.Group, error)
	ContactAccess(ctx context.Context, contactID, userID string) (*models.Contact, error)
}

// Options are the transport settings taken from the server config.
type Options struct {
	Address         string
	SecretKey       []byte
	SessionValidity time.Duration
	SecureCookies   bool
	AllowedOrigins  []string
	MaxUploadBytes  int64
}

type Server struct {
	opts      Options
	logger    logging.Logger
	users     userSvc
	groups    groupSvc
	contacts  contactSvc
	transfers transferSvc
	guard     guard
	events    eventSource
}

func NewServer(opts Options, l logging.Logger, us userSvc, gs groupSvc, cs contactSvc, ts transferSvc, g guard, ev eventSource) *Server {
	return &Server{
		opts:      opts,
		logger:    l.With("module", "http_server"),
		users:     us,
		groups:    gs,
		contacts:  cs,
		transfers: ts,
		guard:     g,
		events:    ev,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", s.ping)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.signup)
		r.Post("/login", s.login)
		r.Post("/logout", s.logout)
		r.With(s.authenticate).Get("/me", s.me)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/groups", s.listGroups)
		r.Post("/groups", s.createGroup)
		r.Route("/groups/{groupID}", func(r chi.Router) {
			r.Delete("/", s.deleteGroup)
			r.Group(func(r chi.Router) {
				r.Use(s.requireGroupMember)
				r.Get("/", s.getGroup)
				r.Get("/contacts", s.listContacts)
				r.Post("/contacts", s.createContact)
				r.Get("/events", s.groupEvents)
			})
		})

		r.Post("/contacts", s.createContactByBody)
		r.Post("/contacts/export", s.exportContacts)
		r.Post("/contacts/import", s.importContacts)
		r.Route("/contacts/{contactID}", func(r chi.Router) {
			r.Use(s.requireContactAccess)
			r.Put("/", s.updateContact)
			r.Delete("/", s.deleteContact)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.opts.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
