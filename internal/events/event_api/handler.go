package event_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-reminders/internal/events"
	"ms-reminders/internal/events/window"
	"ms-reminders/internal/logger"
	"ms-reminders/internal/models"
	"ms-reminders/internal/utils"
)

type Handler struct {
	EventService *events.Service
	Logger       *logger.Logger
}

func NewHandler(service *events.Service, log *logger.Logger) *Handler {
	return &Handler{
		EventService: service,
		Logger:       log,
	}
}

// RegisterRoutes mounts the event endpoints under /events.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Post("/", h.CreateEvent)
		r.Get("/upcoming", h.ListUpcoming)
		r.Get("/category/{name}", h.ListByCategory)
		r.Get("/{id}", h.GetEvent)
		r.Put("/{id}", h.UpdateEvent)
		r.Patch("/{id}", h.UpdateEvent)
		r.Delete("/{id}", h.DeleteEvent)
		r.Post("/{id}/cancel", h.CancelEvent)
		r.Get("/{id}/reminder", h.GetReminderInfo)
	})
}

// eventView is the read-side payload: the stored event plus the computed
// is_upcoming flag.
type eventView struct {
	models.Event
	IsUpcoming bool `json:"is_upcoming"`
}

func (h *Handler) view(event models.Event) eventView {
	upcoming := false
	if instant, err := event.Instant(h.EventService.Loc); err == nil {
		upcoming = window.IsUpcoming(h.EventService.Now(), instant)
	}
	return eventView{Event: event, IsUpcoming: upcoming}
}

func (h *Handler) views(list []models.Event) []eventView {
	out := make([]eventView, len(list))
	for i, event := range list {
		out[i] = h.view(event)
	}
	return out
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	list, err := h.EventService.ListEvents()
	if err != nil {
		h.writeServiceError(w, "ListEvents", err)
		return
	}
	h.Logger.Debug("API", fmt.Sprintf("ListEvents: returning %d events", len(list)))
	_ = utils.WriteJSON(w, http.StatusOK, h.views(list))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: failed to decode request body: %v", err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	created, err := h.EventService.CreateEvent(&event)
	if err != nil {
		h.writeServiceError(w, "CreateEvent", err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("CreateEvent: created event %s", created.ID))
	_ = utils.WriteJSON(w, http.StatusCreated, h.view(*created))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, err := h.EventService.GetEvent(id)
	if err != nil {
		h.writeServiceError(w, "GetEvent", err)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, h.view(*event))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var upd models.EventUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateEvent: failed to decode request body: %v", err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	event, err := h.EventService.UpdateEvent(id, upd)
	if err != nil {
		h.writeServiceError(w, "UpdateEvent", err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("UpdateEvent: updated event %s", id))
	_ = utils.WriteJSON(w, http.StatusOK, h.view(*event))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.EventService.DeleteEvent(id); err != nil {
		h.writeServiceError(w, "DeleteEvent", err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("DeleteEvent: deleted event %s", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, err := h.EventService.CancelEvent(id)
	if err != nil {
		h.writeServiceError(w, "CancelEvent", err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("CancelEvent: canceled event %s", id))
	_ = utils.WriteJSON(w, http.StatusOK, h.view(*event))
}

func (h *Handler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	nextHours := 24
	if raw := r.URL.Query().Get("next_hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.Logger.Warn("API", fmt.Sprintf("ListUpcoming: bad next_hours %q", raw))
			utils.WriteError(w, http.StatusBadRequest, "Invalid next_hours parameter", "must be an integer")
			return
		}
		nextHours = parsed
	}

	showCanceled := false
	if raw := r.URL.Query().Get("show_canceled"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid show_canceled parameter", "must be a boolean")
			return
		}
		showCanceled = parsed
	}

	category := models.Category(r.URL.Query().Get("category"))

	list, err := h.EventService.ListUpcoming(nextHours, category, showCanceled)
	if err != nil {
		h.writeServiceError(w, "ListUpcoming", err)
		return
	}
	h.Logger.Debug("API", fmt.Sprintf("ListUpcoming: %d events in next %dh", len(list), nextHours))
	_ = utils.WriteJSON(w, http.StatusOK, h.views(list))
}

func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	list, err := h.EventService.ListByCategory(models.Category(name))
	if err != nil {
		h.writeServiceError(w, "ListByCategory", err)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, h.views(list))
}

func (h *Handler) GetReminderInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	settings, err := h.EventService.GetReminderInfo(id)
	if err != nil {
		h.writeServiceError(w, "GetReminderInfo", err)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, settings)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// NoResults and AlreadyCanceled are client errors, not missing resources.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	var verr *events.ValidationError
	switch {
	case errors.As(err, &verr):
		h.Logger.Warn("API", fmt.Sprintf("%s: validation failed: %v", op, verr))
		utils.WriteError(w, http.StatusBadRequest, "Validation failed", verr.Error())
	case errors.Is(err, events.ErrNotFound):
		h.Logger.Warn("API", fmt.Sprintf("%s: not found", op))
		utils.WriteError(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, events.ErrAlreadyCanceled):
		h.Logger.Warn("API", fmt.Sprintf("%s: already canceled", op))
		utils.WriteError(w, http.StatusBadRequest, "Already canceled", err.Error())
	case errors.Is(err, events.ErrNoResults):
		h.Logger.Warn("API", fmt.Sprintf("%s: no results", op))
		utils.WriteError(w, http.StatusBadRequest, "No events found", err.Error())
	default:
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}
