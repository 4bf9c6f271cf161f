package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/tableside/tableside/internal/model"
	"github.com/tableside/tableside/internal/repository"
	"github.com/tableside/tableside/internal/session"
)

// Cookie names.
const (
	// SessionCookie carries the login session token.
	SessionCookie = "ts_session"
	// FlashCookie identifies anonymous visitors for flash messages.
	FlashCookie = "ts_flash"
)

const (
	currentUserKey  contextKey = "current_user"
	sessionTokenKey contextKey = "session_token"
	flashTokenKey   contextKey = "flash_token"
)

// AuthConfig holds dependencies for the CurrentUser middleware.
type AuthConfig struct {
	Logger     *slog.Logger
	Repository *repository.Repository
	Sessions   *session.Store
	Secure     bool
}

// CurrentUser resolves the acting user from the session cookie on every
// request and ensures each visitor has a flash token cookie. Requests
// without a valid session proceed anonymously.
func CurrentUser(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Flash token: shared by anonymous and logged-in visitors.
			flashToken := ""
			if c, err := r.Cookie(FlashCookie); err == nil && c.Value != "" {
				flashToken = c.Value
			} else {
				flashToken = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     FlashCookie,
					Value:    flashToken,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx = context.WithValue(ctx, flashTokenKey, flashToken)

			if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
				sess, err := cfg.Sessions.Get(ctx, c.Value)
				if err != nil {
					cfg.Logger.Error("session lookup failed", "error", err)
				}
				if sess != nil {
					user, err := cfg.Repository.GetUserByID(ctx, sess.UserID)
					switch {
					case err == nil:
						ctx = context.WithValue(ctx, currentUserKey, user)
						ctx = context.WithValue(ctx, sessionTokenKey, sess.Token)
					case !errors.Is(err, repository.ErrUserNotFound):
						cfg.Logger.Error("current user lookup failed", "error", err)
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests by redirecting to the login page,
// preserving the intended destination in the next parameter.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext retrieves the authenticated user from the context.
// Returns nil for anonymous requests.
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(currentUserKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// SessionTokenFromContext retrieves the login session token, if any.
func SessionTokenFromContext(ctx context.Context) string {
	token, ok := ctx.Value(sessionTokenKey).(string)
	if !ok {
		return ""
	}
	return token
}

// FlashTokenFromContext retrieves the visitor's flash token.
func FlashTokenFromContext(ctx context.Context) string {
	token, ok := ctx.Value(flashTokenKey).(string)
	if !ok {
		return ""
	}
	return token
}
