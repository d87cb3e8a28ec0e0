package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sevadhara/console/internal/platform/httpx"
	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/internal/upstream"
	"github.com/sevadhara/console/internal/view"
)

// LoginPath is where unauthenticated operators are sent.
const LoginPath = "/auth/login"

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		templates:      templates,
		sessionManager: sessions,
		csrfManager:    csrf,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginPageData struct {
	Login  string
	Next   string
	Errors map[string]string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && sess.Token() != "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := loginPageData{Next: safeNext(r.URL.Query().Get("next"))}
	if err := h.templates.Page(w, r, h.csrfManager, "pages/login.html", "Sign in", http.StatusOK, data); err != nil {
		h.logger.Error("render login", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	creds := Credentials{Login: r.PostFormValue("login"), Password: r.PostFormValue("password")}
	next := safeNext(r.PostFormValue("next"))

	identity, err := h.service.Authenticate(r.Context(), creds)
	if err == nil {
		if sess == nil {
			h.logger.Error("session missing during login")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		sess.SetToken(identity.Token)
		sess.SetUser(identity.Name)
		h.csrfManager.Rotate(sess)
		sess.AddFlash(shared.FlashMessage{Kind: shared.FlashSuccess, Message: "Welcome back, " + identity.Name})
		h.logger.Info("operator signed in", slog.String("user", identity.Name))
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	data := loginPageData{Login: creds.Login, Next: next, Errors: shared.FieldErrors(err)}
	status := http.StatusBadRequest
	if data.Errors == nil {
		data.Errors = map[string]string{}
		switch {
		case errors.Is(err, shared.ErrInvalidCredentials):
			data.Errors["general"] = "Invalid mobile number / email or password"
			status = http.StatusUnauthorized
		default:
			h.logger.Error("login", slog.Any("error", err))
			data.Errors["general"] = "The server could not be reached. Please try again."
			status = httpx.StatusOf(err)
		}
	}
	if err := h.templates.Page(w, r, h.csrfManager, "pages/login.html", "Sign in", status, data); err != nil {
		h.logger.Error("render login invalid", slog.Any("error", err))
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// RequireToken sends operators without an API token to the login page and
// puts the token on the request context for the upstream client.
func RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.Token() == "" {
			target := LoginPath
			if r.Method == http.MethodGet && r.URL.Path != "/" {
				target += "?next=" + url.QueryEscape(r.URL.RequestURI())
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(upstream.WithToken(r.Context(), sess.Token())))
	})
}

// RequireTokenJSON is RequireToken for JSON endpoints: it answers 401
// instead of redirecting.
func RequireTokenJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.Token() == "" {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(upstream.WithToken(r.Context(), sess.Token())))
	})
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
