package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/fleetsrp/fleetsrp/internal/api"
	"github.com/fleetsrp/fleetsrp/internal/database"
	"github.com/fleetsrp/fleetsrp/internal/killboard"
	"github.com/fleetsrp/fleetsrp/internal/middleware"
	"github.com/fleetsrp/fleetsrp/internal/services"
	"gorm.io/gorm"
)

// APIHandler handles the JSON API consumed by the browser UI
type APIHandler struct {
	claims *services.ClaimService
	events *services.EventService
	hub    *UpdatesHub
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(claims *services.ClaimService, events *services.EventService, hub *UpdatesHub) *APIHandler {
	return &APIHandler{
		claims: claims,
		events: events,
		hub:    hub,
	}
}

// SetupRoutes sets up all API routes
func (h *APIHandler) SetupRoutes(mux *http.ServeMux) {
	// Fleet events
	mux.HandleFunc("GET /api/events", h.handleListEvents)
	mux.HandleFunc("POST /api/events", h.handleCreateEvent)
	mux.HandleFunc("GET /api/events/{code}", h.handleGetEvent)
	mux.HandleFunc("PUT /api/events/{code}", h.handleUpdateEvent)
	mux.HandleFunc("DELETE /api/events/{code}", h.handleDeleteEvent)
	mux.HandleFunc("POST /api/events/{code}/status", h.handleEventStatus)

	// Claims
	mux.HandleFunc("POST /api/events/{code}/claims", h.handleSubmitClaim)
	mux.HandleFunc("GET /api/claims", h.handleListClaims)
	mux.HandleFunc("GET /api/claims/{code}", h.handleGetClaim)
	mux.HandleFunc("DELETE /api/claims/{code}", h.handleRemoveClaim)
	mux.HandleFunc("POST /api/claims/{code}/approve", h.handleApproveClaim)
	mux.HandleFunc("POST /api/claims/{code}/accept", h.handleAcceptRejectedClaim)
	mux.HandleFunc("POST /api/claims/{code}/reject", h.handleRejectClaim)
	mux.HandleFunc("POST /api/claims/{code}/payout", h.handleChangePayout)
	mux.HandleFunc("POST /api/claims/bulk/approve", h.handleBulkApprove)
	mux.HandleFunc("POST /api/claims/bulk/remove", h.handleBulkRemove)

	// Settings
	mux.HandleFunc("GET /api/settings/srp", h.handleGetSrpSettings)
	mux.HandleFunc("PUT /api/settings/srp", h.handleUpdateSrpSettings)
	mux.HandleFunc("POST /api/settings/srp/reset", h.handleResetSrpSettings)
	mux.HandleFunc("PUT /api/user/settings", h.handleUpdateUserSettings)

	// Live updates feed
	mux.HandleFunc("GET /ws/updates", h.handleUpdatesWS)
}

// currentUser loads the authenticated user for the request, or writes a 401
// and returns nil.
func (h *APIHandler) currentUser(w http.ResponseWriter, r *http.Request) *database.User {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == 0 {
		api.RespondError(w, http.StatusUnauthorized, "Not authenticated")
		return nil
	}

	user, err := database.GetUserByID(database.GetDB(), userID)
	if err == gorm.ErrRecordNotFound {
		api.RespondError(w, http.StatusUnauthorized, "Unknown user")
		return nil
	}
	if err != nil {
		log.Printf("APIHandler: failed to load user %d: %v", userID, err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to load user")
		return nil
	}

	if !user.BasicAccess {
		api.RespondError(w, http.StatusForbidden, "Access revoked")
		return nil
	}

	return user
}

// forbid writes the standard permission-denied response
func forbid(w http.ResponseWriter) {
	api.RespondError(w, http.StatusForbidden, "You do not have permission to do that")
}

// respondActionError maps lifecycle and pipeline errors to user-facing
// envelope responses. Nothing here is allowed to surface as a 5xx except a
// genuinely unexpected failure.
func respondActionError(w http.ResponseWriter, err error) {
	var ownershipErr *services.OwnershipError
	var lossErr *killboard.LossRecordError

	switch {
	case errors.Is(err, killboard.ErrInvalidReference):
		api.RespondError(w, http.StatusBadRequest, "That does not look like a killboard kill link")
	case errors.Is(err, services.ErrDuplicateClaim):
		api.RespondError(w, http.StatusBadRequest, "A claim for this loss has already been submitted")
	case errors.Is(err, killboard.ErrRecordNotFound):
		api.RespondError(w, http.StatusBadRequest, "The loss record could not be verified")
	case errors.As(err, &lossErr):
		// Distinguished from RecordNotFound only for logging
		log.Printf("APIHandler: loss record lookup failure: %v", err)
		api.RespondError(w, http.StatusBadRequest, "The loss record could not be verified")
	case errors.As(err, &ownershipErr):
		api.RespondError(w, http.StatusBadRequest, ownershipErr.Error())
	case errors.Is(err, services.ErrEventNotFound), errors.Is(err, services.ErrClaimNotFound):
		api.RespondNotFound(w, err.Error())
	case errors.Is(err, services.ErrEventNotActive),
		errors.Is(err, services.ErrEventCompleted),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrReasonRequired),
		errors.Is(err, services.ErrInvalidPayout):
		api.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("APIHandler: unexpected error: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Internal error")
	}
}
