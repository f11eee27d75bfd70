package handlers

import (
	"net/http"

	"github.com/fleetsrp/fleetsrp/internal/api"
	"github.com/fleetsrp/fleetsrp/internal/services"
)

// handleListEvents handles GET /api/events
func (h *APIHandler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	events, err := h.events.List()
	if err != nil {
		respondActionError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, events)
}

// handleCreateEvent handles POST /api/events
func (h *APIHandler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if !user.CreateSRP {
		forbid(w)
		return
	}

	var req api.CreateEventRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		api.RespondError(w, http.StatusBadRequest, "Event name is required")
		return
	}

	event, err := h.events.Create(user, services.CreateEventInput{
		Name:        req.Name,
		FleetTime:   req.FleetTime,
		FleetType:   req.FleetType,
		AARLink:     req.AARLink,
		CommanderID: req.CommanderID,
	})
	if err != nil {
		respondActionError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusCreated, event)
}

// handleGetEvent handles GET /api/events/{code}
func (h *APIHandler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	event, err := h.events.GetByCode(r.PathValue("code"))
	if err != nil {
		respondActionError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, event)
}

// handleUpdateEvent handles PUT /api/events/{code}
func (h *APIHandler) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if !user.ManageSRP {
		forbid(w)
		return
	}

	var req api.UpdateEventRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.events.Update(r.PathValue("code"), services.UpdateEventInput{
		Name:      req.Name,
		FleetTime: req.FleetTime,
		FleetType: req.FleetType,
		AARLink:   req.AARLink,
	})
	if err != nil {
		respondActionError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, event)
}

// handleEventStatus handles POST /api/events/{code}/status.
// Actions: disable (close), enable (re-open), complete.
func (h *APIHandler) handleEventStatus(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if !user.ManageSRP {
		forbid(w)
		return
	}

	var req api.EventStatusRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	code := r.PathValue("code")
	var err error
	switch req.Action {
	case "disable":
		_, err = h.events.Disable(code)
	case "enable":
		_, err = h.events.Enable(code)
	case "complete":
		_, err = h.events.Complete(code)
	default:
		api.RespondError(w, http.StatusBadRequest, "Unknown action (expected disable, enable or complete)")
		return
	}
	if err != nil {
		respondActionError(w, err)
		return
	}

	api.RespondSuccess(w, "Event status updated", nil)
}

// handleDeleteEvent handles DELETE /api/events/{code}
func (h *APIHandler) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if !user.ManageSRP {
		forbid(w)
		return
	}

	if err := h.events.Delete(r.PathValue("code")); err != nil {
		respondActionError(w, err)
		return
	}

	api.RespondSuccess(w, "Event removed", nil)
}
