package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"github.com/dmitrijs2005/contactshare/internal/logging"
	"github.com/dmitrijs2005/contactshare/internal/server/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// accessLog tags the request context with chi's request id and logs one
// line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info(ctx, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// authenticate admits requests carrying a valid session cookie and stores
// the claims in the context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.TokenFromRequest(r)
		if !ok {
			s.writeError(w, r, common.ErrUnauthenticated)
			return
		}

		claims, err := auth.ParseToken(token, s.opts.SecretKey)
		if err != nil {
			s.logger.Debug(r.Context(), "session rejected", "error", err)
			s.writeError(w, r, common.ErrUnauthenticated)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// requireGroupMember guards /groups/{groupID} routes.
func (s *Server) requireGroupMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		groupID, err := pathID(r, "groupID", "group")
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		if err := s.guard.RequireMember(r.Context(), groupID, userIDFrom(r.Context())); err != nil {
			s.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireContactAccess guards /contacts/{contactID} routes and stores the
// resolved contact in the context.
func (s *Server) requireContactAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contactID, err := pathID(r, "contactID", "contact")
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		contact, err := s.guard.ContactAccess(r.Context(), contactID, userIDFrom(r.Context()))
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withContact(r.Context(), contact)))
	})
}

// pathID reads a uuid path parameter. A malformed id names nothing, so it
// is reported as not found.
func pathID(r *http.Request, param, entity string) (string, error) {
	id := chi.URLParam(r, param)
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%s %w", entity, common.ErrNotFound)
	}
	return id, nil
}

// bodyID validates a uuid sent in a request body.
func bodyID(id, field string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: %s required", common.ErrInvalidInput, field)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: malformed %s", common.ErrInvalidInput, field)
	}
	return id, nil
}
