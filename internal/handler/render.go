package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tableside/tableside/internal/imagestore"
	"github.com/tableside/tableside/internal/middleware"
	"github.com/tableside/tableside/internal/model"
	"github.com/tableside/tableside/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages rendered inside the shared layout.
var pageTemplates = []string{
	"index.html",
	"register.html",
	"login.html",
	"account.html",
	"edit_profile.html",
	"add_restaurant.html",
	"edit_restaurant.html",
	"menu.html",
	"client_menu.html",
	"add_item.html",
	"edit_item.html",
	"error.html",
}

// Renderer renders HTML pages and manages flash messages.
type Renderer struct {
	templates map[string]*template.Template
	sessions  *session.Store
	logger    *slog.Logger
}

// templateFuncs maps stored image filenames to their public URLs.
var templateFuncs = template.FuncMap{
	"profileImage": func(file string) string {
		return "/static/img/" + string(imagestore.KindProfile) + "/" + file
	},
	"restaurantImage": func(file string) string {
		return "/static/img/" + string(imagestore.KindRestaurant) + "/" + file
	},
	"itemImage": func(file string) string {
		return "/static/img/" + string(imagestore.KindItem) + "/" + file
	},
}

// NewRenderer parses the embedded templates.
func NewRenderer(sessions *session.Store, logger *slog.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pageTemplates))
	for _, page := range pageTemplates {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = t
	}

	return &Renderer{templates: templates, sessions: sessions, logger: logger}, nil
}

// page is the root data passed to every template.
type page struct {
	Title   string
	User    *model.User
	Flashes []session.Flash
	Data    any
}

// Render writes an HTML page. Queued flash messages are drained and shown.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	t, ok := rn.templates[name]
	if !ok {
		rn.logger.Error("unknown template", "name", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	flashes, err := rn.sessions.PopFlashes(r.Context(), middleware.FlashTokenFromContext(r.Context()))
	if err != nil {
		rn.logger.Error("pop flashes failed", "error", err)
	}

	p := page{
		Title:   title,
		User:    middleware.UserFromContext(r.Context()),
		Flashes: flashes,
		Data:    data,
	}

	// Render to a buffer first so template errors do not leak a partial page.
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", p); err != nil {
		rn.logger.Error("render failed", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Flash queues a one-shot message for the visitor's next rendered page.
func (rn *Renderer) Flash(r *http.Request, message, category string) {
	token := middleware.FlashTokenFromContext(r.Context())
	if token == "" {
		return
	}
	if err := rn.sessions.PushFlash(r.Context(), token, message, category); err != nil {
		rn.logger.Error("push flash failed", "error", err)
	}
}

// NotFoundPage renders the shared 404 page.
func (rn *Renderer) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	rn.Render(w, r, http.StatusNotFound, "error.html", " - Not Found", map[string]string{
		"Message": "The page you are looking for does not exist.",
	})
}

// MethodNotAllowedPage renders the shared error page with a 405 status.
func (rn *Renderer) MethodNotAllowedPage(w http.ResponseWriter, r *http.Request) {
	rn.Render(w, r, http.StatusMethodNotAllowed, "error.html", " - Error", map[string]string{
		"Message": "That method is not allowed here.",
	})
}

// ServerErrorPage logs the error and renders the shared error page.
func (rn *Renderer) ServerErrorPage(w http.ResponseWriter, r *http.Request, err error) {
	rn.logger.Error("internal error",
		"request_id", middleware.GetRequestID(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)
	rn.Render(w, r, http.StatusInternalServerError, "error.html", " - Error", map[string]string{
		"Message": "Something went wrong. Please try again.",
	})
}

// safeNext returns the validated post-login destination. Only local paths
// are allowed so the next parameter cannot become an open redirect.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
