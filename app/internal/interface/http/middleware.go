package http

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	cartuc "example.com/shop-console/app/internal/usecase/cart"
)

const (
	defaultSessionCookie = "sid"
	sessionMaxAge        = 30 * 24 * time.Hour
)

type ctxSessionKey struct{}

type ctxCartKey struct{}

// cartLease holds the session's store for the rest of the request. The store
// is acquired on first use and released when the request ends.
type cartLease struct {
	store   *cartuc.Store
	release func()
}

type cookieConfig struct {
	name   string
	secure bool
}

// sessionMiddleware makes sure every browser carries a session cookie. The
// session id scopes the cart the same way a browser origin scopes local storage.
func (a *API) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(a.cookie.name); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				sid = c.Value
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     a.cookie.name,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(sessionMaxAge.Seconds()),
				HttpOnly: true,
				Secure:   a.cookie.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		lease := &cartLease{}
		defer func() {
			if lease.release != nil {
				lease.release()
			}
		}()

		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sid)
		ctx = context.WithValue(ctx, ctxCartKey{}, lease)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(ctx context.Context) string {
	sid, _ := ctx.Value(ctxSessionKey{}).(string)
	return sid
}

func (a *API) cartFor(r *http.Request) *cartuc.Store {
	lease, _ := r.Context().Value(ctxCartKey{}).(*cartLease)
	if lease == nil {
		store, release := a.sessions.Acquire(r.Context(), sessionID(r.Context()))
		release()
		return store
	}
	if lease.store == nil {
		lease.store, lease.release = a.sessions.Acquire(r.Context(), sessionID(r.Context()))
	}
	return lease.store
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			entry := a.log.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  chimw.GetReqID(r.Context()),
			})
			if ww.Status() >= http.StatusInternalServerError {
				entry.Warn("request failed")
				return
			}
			entry.Debug("request served")
		}()
		next.ServeHTTP(ww, r)
	})
}
