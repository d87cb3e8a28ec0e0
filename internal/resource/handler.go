package resource

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/platform/httpx"
	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/internal/view"
)

// ListView feeds pages/resource_list.html.
type ListView struct {
	Title      string
	Singular   string
	BasePath   string
	Headers    []string
	Numeric    []bool
	Rows       []RowView
	Pagination shared.Pagination
	Filters    shared.ListFilters
	Links      []Link
	Error      string
}

// RowView is one table row.
type RowView struct {
	ID      string
	Cells   []string
	Actions []ActionView
}

// ActionView is a rendered row action.
type ActionView struct {
	Label   string
	Href    string
	Post    bool
	Confirm string
}

// FormView feeds pages/resource_form.html.
type FormView struct {
	Title  string
	Action string
	Cancel string
	Fields []FieldView
	Error  string
	IsEdit bool
}

// FieldView is a form input with its current value and error.
type FieldView struct {
	Field
	Value string
	Error string
}

// Handler serves the generic screen for one entity.
type Handler[T any] struct {
	logger    *slog.Logger
	service   *Service[T]
	templates *view.Engine
	csrf      *shared.CSRFManager
	exporter  *export.Exporter
}

// NewHandler constructs the screen handler.
func NewHandler[T any](logger *slog.Logger, service *Service[T], templates *view.Engine, csrf *shared.CSRFManager, exporter *export.Exporter) *Handler[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler[T]{logger: logger, service: service, templates: templates, csrf: csrf, exporter: exporter}
}

// MountRoutes registers the list, form, export and JSON routes.
func (h *Handler[T]) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.New)
	r.Post("/", h.Create)
	r.Get("/export", h.Export)
	r.Get("/api", h.JSON)
	r.Get("/{id}/edit", h.Edit)
	r.Post("/{id}/edit", h.Update)
	r.Post("/{id}/delete", h.Delete)
}

// List renders the searchable, paginated table.
func (h *Handler[T]) List(w http.ResponseWriter, r *http.Request) {
	desc := h.service.Descriptor()
	filters := shared.ParseListFilters(r)
	page, err := h.service.Page(r.Context(), filters)
	status := http.StatusOK
	lv := ListView{
		Title:      desc.Title,
		Singular:   desc.Singular,
		BasePath:   desc.BasePath,
		Headers:    make([]string, len(desc.Columns)),
		Numeric:    make([]bool, len(desc.Columns)),
		Pagination: page.Pagination,
		Filters:    page.Filters,
		Links:      desc.Links,
	}
	for i, c := range desc.Columns {
		lv.Headers[i] = c.Header
		lv.Numeric[i] = c.Numeric
	}
	if err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		h.logger.Error("list records", slog.String("screen", desc.Slug), slog.Any("error", err))
		lv.Error = "Could not load " + strings.ToLower(desc.Title) + ". Please try again."
		status = httpx.StatusOf(err)
	}
	for _, item := range page.Items {
		lv.Rows = append(lv.Rows, h.rowView(item))
	}
	h.render(w, r, "pages/resource_list.html", desc.Title, status, lv)
}

// New renders an empty form.
func (h *Handler[T]) New(w http.ResponseWriter, r *http.Request) {
	desc := h.service.Descriptor()
	var zero T
	values := url.Values{}
	if desc.Values != nil {
		values = desc.Values(zero)
	}
	h.renderForm(w, r, http.StatusOK, h.formView(values, nil, "", false, ""))
}

// Create validates and posts a new record, then returns to the list.
func (h *Handler[T]) Create(w http.ResponseWriter, r *http.Request) {
	desc := h.service.Descriptor()
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	item := desc.Bind(r.PostForm)
	if _, err := h.service.Create(r.Context(), item); err != nil {
		h.formFailed(w, r, err, r.PostForm, false, "")
		return
	}
	h.redirectWithFlash(w, r, desc.BasePath, shared.FlashSuccess, desc.Singular+" saved")
}

// Edit renders the form filled with the stored record.
func (h *Handler[T]) Edit(w http.ResponseWriter, r *http.Request) {
	desc := h.service.Descriptor()
	id := chi.URLParam(r, "id")
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		h.logger.Warn("load record", slog.String("screen", desc.Slug), slog.String("id", id), slog.Any("error", err))
		h.redirectWithFlash(w, r, desc.BasePath, shared.FlashError, desc.Singular+" could not be loaded")
		return
	}
	h.renderForm(w, r, http.StatusOK, h.formView(desc.Values(item), nil, "", true, id))
}

// Update validates and puts the record.
func (h *Handler[T]) Update(w http.ResponseWriter, r *http.Request) {
	desc := h.service.Descriptor()
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	item := desc.Bind(r.PostForm)
	if _, err := h.service.Update(r.Context(), id, item); err != nil {
		h.formFailed(w, r, err, r.PostForm, true, id)
		return
	}
	h.redirectWithFlash(w, r, desc.BasePath, shared.FlashSuccess, desc.Singular+" updated")
}

// Delete removes the record.
func (h *Handler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	desc := h.service.Descriptor()
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		if h.sessionExpired(w, r, err) {
			return
		}
		h.logger.Error("delete record", slog.String("screen", desc.Slug), slog.String("id", id), slog.Any("error", err))
		h.redirectWithFlash(w, r, desc.BasePath, shared.FlashError, desc.Singular+" could not be deleted")
		return
	}
	h.redirectWithFlash(w, r, desc.BasePath, shared.FlashSuccess, desc.Singular+" deleted")
}

// Export downloads the filtered list in the requested format.
func (h *Handler[T]) Export(w http.ResponseWriter, r *http.Request) {
	desc := h.service.Descriptor()
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	table, err := h.service.ExportTable(r.Context(), r.URL.Query().Get("search"))
	if err == nil {
		var artifact export.Artifact
		artifact, err = h.exporter.Export(r.Context(), table, format)
		if err == nil {
			httpx.Attachment(w, artifact.FileName, artifact.ContentType, artifact.Body)
			return
		}
	}
	if h.sessionExpired(w, r, err) {
		return
	}
	h.logger.Error("export records", slog.String("screen", desc.Slug), slog.String("format", string(format)), slog.Any("error", err))
	h.redirectWithFlash(w, r, desc.BasePath, shared.FlashError, "Export failed: "+err.Error())
}

type pageJSON[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// JSON answers the filtered page as JSON.
func (h *Handler[T]) JSON(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Page(r.Context(), shared.ParseListFilters(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := page.Items
	if items == nil {
		items = []T{}
	}
	httpx.JSON(w, http.StatusOK, pageJSON[T]{
		Items:      items,
		Page:       page.Pagination.Page,
		PerPage:    page.Pagination.PerPage,
		Total:      page.Pagination.Total,
		TotalPages: page.Pagination.TotalPages,
	})
}

func (h *Handler[T]) formFailed(w http.ResponseWriter, r *http.Request, err error, values url.Values, isEdit bool, id string) {
	if fields := shared.FieldErrors(err); fields != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, h.formView(values, fields, "Please correct the highlighted fields.", isEdit, id))
		return
	}
	if h.sessionExpired(w, r, err) {
		return
	}
	desc := h.service.Descriptor()
	h.logger.Error("save record", slog.String("screen", desc.Slug), slog.Any("error", err))
	msg := "Could not save " + strings.ToLower(desc.Singular) + "."
	if errors.Is(err, httpx.ErrValidation) || errors.Is(err, httpx.ErrDuplicate) {
		msg = "The server rejected the " + strings.ToLower(desc.Singular) + ": " + err.Error()
	}
	h.renderForm(w, r, httpx.StatusOf(err), h.formView(values, nil, msg, isEdit, id))
}

// sessionExpired signs the operator out when the remote API rejected the
// token.
func (h *Handler[T]) sessionExpired(w http.ResponseWriter, r *http.Request, err error) bool {
	return SessionExpired(w, r, err)
}

// SessionExpired handles an upstream 401 by clearing the stored token and
// redirecting to the login page. It reports whether it wrote a response.
func SessionExpired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, httpx.ErrUnauthorized) {
		return false
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.SignOut()
		sess.AddFlash(shared.FlashMessage{Kind: shared.FlashError, Message: "Your session expired. Please sign in again."})
	}
	target := "/auth/login"
	if r.Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
	return true
}

func (h *Handler[T]) rowView(item T) RowView {
	desc := h.service.Descriptor()
	id := desc.ID(item)
	row := RowView{ID: id, Cells: desc.Row(item)}
	base := desc.BasePath + "/" + url.PathEscape(id)
	row.Actions = append(row.Actions, ActionView{Label: "Edit", Href: base + "/edit"})
	for _, a := range desc.Actions {
		row.Actions = append(row.Actions, ActionView{Label: a.Label, Href: base + a.Suffix, Post: a.Method == http.MethodPost, Confirm: a.Confirm})
	}
	row.Actions = append(row.Actions, ActionView{Label: "Delete", Href: base + "/delete", Post: true, Confirm: "Delete this " + strings.ToLower(desc.Singular) + "?"})
	return row
}

func (h *Handler[T]) formView(values url.Values, fieldErrs map[string]string, general string, isEdit bool, id string) FormView {
	desc := h.service.Descriptor()
	fv := FormView{
		Title:  "New " + desc.Singular,
		Action: desc.BasePath,
		Cancel: desc.BasePath,
		Error:  general,
		IsEdit: isEdit,
	}
	if isEdit {
		fv.Title = "Edit " + desc.Singular
		fv.Action = desc.BasePath + "/" + url.PathEscape(id) + "/edit"
	}
	for _, f := range desc.Fields {
		fv.Fields = append(fv.Fields, FieldView{Field: f, Value: values.Get(f.Name), Error: fieldErrs[f.Name]})
	}
	return fv
}

func (h *Handler[T]) renderForm(w http.ResponseWriter, r *http.Request, status int, fv FormView) {
	h.render(w, r, "pages/resource_form.html", fv.Title, status, fv)
}

func (h *Handler[T]) render(w http.ResponseWriter, r *http.Request, name, title string, status int, data any) {
	if err := h.templates.Page(w, r, h.csrf, name, title, status, data); err != nil {
		h.logger.Error("render template", slog.String("template", name), slog.Any("error", err))
	}
}

func (h *Handler[T]) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	shared.Flash(r.Context(), kind, message)
	http.Redirect(w, r, location, http.StatusSeeOther)
}
