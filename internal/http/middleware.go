package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"yatube/internal/auth"
	"yatube/internal/util"
)

const CookieName = "session_id"

func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
			u, err := auth.UserFromSession(r.Context(), s.Store, c.Value)
			if err == nil {
				r = r.WithContext(auth.WithUser(r.Context(), u))
			} else if !errors.Is(err, auth.ErrNoSession) {
				util.Logger.Warn("session lookup failed", zap.Error(err))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth sends anonymous viewers to the login page, keeping the
// original path so login can bounce them back.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserFrom(r.Context()); !ok {
			http.Redirect(w, r, "/auth/login/?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkOrigin rejects cross-origin form submissions. Same-origin and
// origin-less requests (curl, tests) pass; session cookies are SameSite
// Lax on top of this.
func (s *Server) checkOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			if origin := r.Header.Get("Origin"); origin != "" && origin != "null" {
				o, err := url.Parse(origin)
				if err != nil || o.Host != r.Host {
					s.csrfFailure(w, r)
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// noListing keeps uploaded files reachable but directory indexes not.
func (s *Server) noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") || r.URL.Path == "" {
			s.forbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				util.Logger.Error("panic in handler",
					zap.Any("error", rec),
					zap.String("path", r.URL.Path),
					zap.String("stack", string(debug.Stack())))
				s.serverErrorPage(w, r)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ——— access log ———

type statusRW struct {
	http.ResponseWriter
	status int
}

func (w *statusRW) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func WithAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusRW{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		util.Logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
	})
}
