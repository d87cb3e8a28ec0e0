package sellers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/notify"
	"github.com/sevadhara/console/internal/resource"
	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/internal/view"
)

// Handler serves the seller screen and reminders.
type Handler struct {
	logger  *slog.Logger
	service *Service
	screen  *resource.Handler[Seller]
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, exporter *export.Exporter) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, screen: resource.NewHandler(logger, service.Service, templates, csrf, exporter)}
}

// MountRoutes registers seller routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/{id}/remind", h.remind)
	h.screen.MountRoutes(r)
}

func (h *Handler) remind(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	seller, err := h.service.Remind(r.Context(), id)
	switch {
	case err == nil:
		shared.Flash(r.Context(), shared.FlashSuccess, "Reminder sent to "+seller.FullName)
	case errors.Is(err, ErrNothingDue):
		shared.Flash(r.Context(), shared.FlashInfo, seller.FullName+" has no outstanding amount")
	case errors.Is(err, notify.ErrAlreadyQueued):
		shared.Flash(r.Context(), shared.FlashInfo, "A reminder to "+seller.FullName+" is already queued")
	default:
		if resource.SessionExpired(w, r, err) {
			return
		}
		h.logger.Error("send reminder", slog.String("seller", id), slog.Any("error", err))
		shared.Flash(r.Context(), shared.FlashError, "Reminder failed: "+err.Error())
	}
	http.Redirect(w, r, "/sellers", http.StatusSeeOther)
}
