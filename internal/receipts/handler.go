package receipts

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

// Handler serves one receipt screen.
type Handler struct {
	logger  *slog.Logger
	service *Service
	screen  *resource.Handler[Receipt]
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, exporter *export.Exporter) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, screen: resource.NewHandler(logger, service.Service, templates, csrf, exporter)}
}

// MountRoutes registers receipt routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}/pdf", h.pdf)
	r.Post("/{id}/send", h.send)
	h.screen.MountRoutes(r)
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rc, body, err := h.service.PDF(r.Context(), id)
	if err != nil {
		if resource.SessionExpired(w, r, err) {
			return
		}
		h.logger.Error("receipt pdf", slog.String("receipt", id), slog.Any("error", err))
		shared.Flash(r.Context(), shared.FlashError, "Could not generate the receipt PDF")
		http.Redirect(w, r, h.service.Descriptor().BasePath, http.StatusSeeOther)
		return
	}
	httpx.Attachment(w, FileName(rc), export.FormatPDF.ContentType(), body)
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rc, err := h.service.Send(r.Context(), id)
	switch {
	case errors.Is(err, notify.ErrAlreadyQueued):
		shared.Flash(r.Context(), shared.FlashInfo, "This receipt is already queued for "+rc.FullName)
	case err != nil:
		if resource.SessionExpired(w, r, err) {
			return
		}
		h.logger.Error("send receipt", slog.String("receipt", id), slog.Any("error", err))
		shared.Flash(r.Context(), shared.FlashError, "WhatsApp send failed: "+err.Error())
	default:
		shared.Flash(r.Context(), shared.FlashSuccess, "Receipt sent to "+rc.FullName)
	}
	http.Redirect(w, r, h.service.Descriptor().BasePath, http.StatusSeeOther)
}
