package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/talesbyhand-backend/api/middleware"
	"github.com/angelmondragon/talesbyhand-backend/api/responses"
	"github.com/angelmondragon/talesbyhand-backend/api/validators"
	"github.com/angelmondragon/talesbyhand-backend/internal/auth"
	"github.com/angelmondragon/talesbyhand-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
	"github.com/angelmondragon/talesbyhand-backend/pkg/logger"
)

const (
	maxUsernameLength = 150
	maxNextLength     = 2048
)

type loginView struct {
	Fields []string `json:"fields"`
	Next   string   `json:"next"`
	Action string   `json:"action"`
}

// LoginPage describes the login form and where a successful login lands.
func LoginPage(sessionCfg config.SessionConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, loginView{
			Fields: []string{"username", "password"},
			Next:   safeNext(r.URL.Query().Get("next"), sessionCfg.RedirectPath),
			Action: sessionCfg.LoginPath,
		})
	}
}

// AuthLogin authenticates a JSON or form-encoded login. Form posts receive the
// session cookie and a redirect to next; JSON clients receive the tokens.
func AuthLogin(svc auth.Service, sessionCfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		jsonBody := isJSONRequest(r)
		var body auth.LoginRequest
		if jsonBody {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else {
			if err := r.ParseForm(); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
				return
			}
			body = auth.LoginRequest{
				Username: validators.SanitizeString(r.PostForm.Get("username"), maxUsernameLength),
				Password: r.PostForm.Get("password"),
				Next:     r.PostForm.Get("next"),
			}
			if body.Next == "" {
				body.Next = r.URL.Query().Get("next")
			}
			if err := validators.ValidateStruct(&body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCfg.CookieName,
			Value:    result.AccessToken,
			Path:     "/",
			Expires:  result.ExpiresAt,
			HttpOnly: true,
			Secure:   sessionCfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})

		if jsonBody || acceptsJSON(r) {
			responses.WriteSuccess(w, result)
			return
		}
		responses.SeeOther(w, r, safeNext(body.Next, sessionCfg.RedirectPath))
	}
}

// AuthLogout revokes the caller's session and clears the cookie.
func AuthLogout(svc auth.Service, sessionCfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		if err := svc.Logout(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCfg.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   sessionCfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})

		if acceptsJSON(r) || isJSONRequest(r) {
			responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
			return
		}
		responses.SeeOther(w, r, sessionCfg.RedirectPath)
	}
}

// safeNext only follows local absolute paths; anything else lands on fallback.
func safeNext(next, fallback string) string {
	if fallback == "" {
		fallback = "/"
	}
	next = validators.SanitizeString(next, maxNextLength)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	return next
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json")
}
