package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/sevadhara/console/internal/platform/httpx"
	"github.com/sevadhara/console/internal/resource"
	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/internal/view"
)

// Handler renders the home page and the JSON stats endpoint.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf}
}

type homeView struct {
	Snapshot Snapshot
	Error    string
}

// Home renders the dashboard cards.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context())
	data := homeView{Snapshot: snap}
	status := http.StatusOK
	if err != nil {
		if resource.SessionExpired(w, r, err) {
			return
		}
		h.logger.Error("dashboard stats", slog.Any("error", err))
		data.Error = "Dashboard figures are unavailable right now."
		status = httpx.StatusOf(err)
	}
	if err := h.templates.Page(w, r, h.csrf, "pages/home.html", "Dashboard", status, data); err != nil {
		h.logger.Error("render template", slog.Any("error", err))
	}
}

// JSON answers the stats snapshot.
func (h *Handler) JSON(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.logger.Warn("dashboard stats", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}
