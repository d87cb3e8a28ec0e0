package buyers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/notify"
	"github.com/sevadhara/console/internal/platform/httpx"
	"github.com/sevadhara/console/internal/resource"
	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/internal/view"
)

// Handler serves the buyer screen plus the outstanding report and reminders.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	screen    *resource.Handler[Buyer]
	templates *view.Engine
	csrf      *shared.CSRFManager
	exporter  *export.Exporter
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, exporter *export.Exporter) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		screen:    resource.NewHandler(logger, service.Service, templates, csrf, exporter),
		templates: templates,
		csrf:      csrf,
		exporter:  exporter,
	}
}

// MountRoutes registers buyer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/outstanding", h.showOutstanding)
	r.Get("/outstanding/export", h.exportOutstanding)
	r.Post("/{id}/remind", h.remind)
	h.screen.MountRoutes(r)
}

type outstandingView struct {
	Report Report
	Search string
	Error  string
}

func (h *Handler) showOutstanding(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	report, err := h.service.Outstanding(r.Context(), search, nil)
	data := outstandingView{Report: report, Search: search}
	status := http.StatusOK
	if err != nil {
		if resource.SessionExpired(w, r, err) {
			return
		}
		h.logger.Error("outstanding report", slog.Any("error", err))
		data.Error = "Could not load the outstanding report. Please try again."
		status = httpx.StatusOf(err)
	}
	if err := h.templates.Page(w, r, h.csrf, "pages/outstanding.html", "Buyer Outstanding", status, data); err != nil {
		h.logger.Error("render template", slog.Any("error", err))
	}
}

func (h *Handler) exportOutstanding(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	report, err := h.service.Outstanding(r.Context(), r.URL.Query().Get("search"), nil)
	if err == nil {
		var artifact export.Artifact
		artifact, err = h.exporter.Export(r.Context(), OutstandingTable(report), format)
		if err == nil {
			httpx.Attachment(w, artifact.FileName, artifact.ContentType, artifact.Body)
			return
		}
	}
	if resource.SessionExpired(w, r, err) {
		return
	}
	h.logger.Error("export outstanding", slog.Any("error", err))
	shared.Flash(r.Context(), shared.FlashError, "Export failed: "+err.Error())
	http.Redirect(w, r, "/buyers/outstanding", http.StatusSeeOther)
}

func (h *Handler) remind(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b, err := h.service.Remind(r.Context(), id)
	switch {
	case err == nil:
		shared.Flash(r.Context(), shared.FlashSuccess, "Reminder sent to "+b.FullName)
	case errors.Is(err, ErrNothingDue):
		shared.Flash(r.Context(), shared.FlashInfo, b.FullName+" has no outstanding amount")
	case errors.Is(err, notify.ErrAlreadyQueued):
		shared.Flash(r.Context(), shared.FlashInfo, "A reminder to "+b.FullName+" is already queued")
	default:
		if resource.SessionExpired(w, r, err) {
			return
		}
		h.logger.Error("send reminder", slog.String("buyer", id), slog.Any("error", err))
		shared.Flash(r.Context(), shared.FlashError, "Reminder failed: "+err.Error())
	}
	http.Redirect(w, r, "/buyers", http.StatusSeeOther)
}
