package view

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	User        string
	Data        any
}

// NavItem is one entry of the sidebar.
type NavItem struct {
	Label string
	Path  string
}

// NavSection groups sidebar entries.
type NavSection struct {
	Title string
	Items []NavItem
}

// Navigation lists every console screen.
var Navigation = []NavSection{
	{Title: "Dairy", Items: []NavItem{
		{Label: "Buyers", Path: "/buyers"},
		{Label: "Sellers", Path: "/sellers"},
		{Label: "Milk Distribution", Path: "/milk/distribution"},
		{Label: "Milk Store", Path: "/milk/store"},
		{Label: "Dairy Payments", Path: "/payments/dairy"},
		{Label: "Seller Payments", Path: "/payments/seller"},
	}},
	{Title: "Temple", Items: []NavItem{
		{Label: "Dengidar Receipts", Path: "/receipts/dengidar"},
		{Label: "Direct Receipts", Path: "/receipts/direct"},
		{Label: "GoSeva Receipts", Path: "/receipts/goseva"},
	}},
	{Title: "Staff", Items: []NavItem{
		{Label: "Attendance", Path: "/staff/attendance"},
		{Label: "Leave", Path: "/staff/leave"},
	}},
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"formatAmount": shared.FormatAmount,
		"truncate":     shared.Truncate,
		"navigation":   func() []NavSection { return Navigation },
		"hasPrefix":    strings.HasPrefix,
		"add":          func(a, b int) int { return a + b },
		"pageURL": func(base string, filters shared.ListFilters, page int) template.URL {
			return template.URL(base + "?" + filters.Query(page))
		},
		"exportURL": func(base, search, format string) template.URL {
			v := url.Values{"format": {format}}
			if search != "" {
				v.Set("search", search)
			}
			return template.URL(base + "/export?" + v.Encode())
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}

// Page renders name with the request's session state (CSRF token, flash,
// operator name) and the given status.
func (e *Engine) Page(w http.ResponseWriter, r *http.Request, csrf *shared.CSRFManager, name, title string, status int, data any) error {
	sess := shared.SessionFromContext(r.Context())
	var (
		token string
		flash *shared.FlashMessage
		user  string
	)
	if sess != nil {
		if csrf != nil {
			token, _ = csrf.EnsureToken(r.Context(), sess)
		}
		flash = sess.PopFlash()
		user = sess.User()
	}
	if status != 0 && status != http.StatusOK {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	return e.Render(w, name, TemplateData{
		Title:       title,
		CSRFToken:   token,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		User:        user,
		Data:        data,
	})
}
