package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/talesbyhand-backend/api/responses"
	pkgAuth "github.com/angelmondragon/talesbyhand-backend/pkg/auth"
	"github.com/angelmondragon/talesbyhand-backend/pkg/auth/session"
	"github.com/angelmondragon/talesbyhand-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
	"github.com/angelmondragon/talesbyhand-backend/pkg/logger"
)

// AuthOptions configures the Auth middleware.
type AuthOptions struct {
	JWT      config.JWTConfig
	Session  config.SessionConfig
	Verifier session.AccessSessionChecker
	Logger   *logger.Logger
}

// Auth requires an access token from the Authorization header or the session
// cookie. Browser requests without credentials are redirected to the login page.
func Auth(opts AuthOptions) func(http.Handler) http.Handler {
	logg := opts.Logger
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromHeader := accessToken(r, opts.Session.CookieName)
			if token == "" {
				if wantsJSON(r) || fromHeader || opts.Session.LoginPath == "" {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
					return
				}
				responses.RedirectToLogin(w, r, opts.Session.LoginPath)
				return
			}

			reject := func(err error) {
				if fromHeader || wantsJSON(r) || opts.Session.LoginPath == "" {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				clearSessionCookie(w, opts.Session)
				responses.RedirectToLogin(w, r, opts.Session.LoginPath)
			}

			claims, err := pkgAuth.ParseAccessToken(opts.JWT, token)
			if err != nil {
				reject(pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				reject(pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if opts.Verifier != nil {
				ok, err := opts.Verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					reject(pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			ctx = WithSession(ctx, claims.ID, claims.Username)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"session_id": claims.ID,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func accessToken(r *http.Request, cookieName string) (string, bool) {
	if raw := strings.TrimSpace(r.Header.Get("Authorization")); raw != "" {
		token := raw
		if strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[7:])
		}
		return token, true
	}
	if cookieName == "" {
		return "", false
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return strings.TrimSpace(c.Value), false
	}
	return "", false
}

// wantsJSON reports whether the caller is an API client rather than a browser.
func wantsJSON(r *http.Request) bool {
	accept := strings.ToLower(r.Header.Get("Accept"))
	if strings.Contains(accept, "text/html") {
		return false
	}
	return strings.Contains(accept, "application/json") ||
		strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json")
}

func clearSessionCookie(w http.ResponseWriter, cfg config.SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
