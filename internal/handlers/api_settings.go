package handlers

import (
	"log"
	"net/http"

	"github.com/fleetsrp/fleetsrp/internal/api"
	"github.com/fleetsrp/fleetsrp/internal/database"
)

// handleGetSrpSettings handles GET /api/settings/srp
func (h *APIHandler) handleGetSrpSettings(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if !user.ManageSRP {
		forbid(w)
		return
	}

	settings, err := database.GetSrpSettings(database.GetDB())
	if err != nil {
		log.Printf("APIHandler: failed to load settings: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	api.RespondJSON(w, http.StatusOK, settings)
}

// handleUpdateSrpSettings handles PUT /api/settings/srp
func (h *APIHandler) handleUpdateSrpSettings(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if !user.ManageSRP {
		forbid(w)
		return
	}

	var req api.UpdateSrpSettingsRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Load first so row metadata survives the save.
	settings, err := database.GetSrpSettings(database.GetDB())
	if err != nil {
		log.Printf("APIHandler: failed to load settings: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	settings.NotificationChannel = req.NotificationChannel
	settings.NotificationsEnabled = req.NotificationsEnabled
	if err := database.UpdateSrpSettings(database.GetDB(), settings); err != nil {
		log.Printf("APIHandler: failed to update settings: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	log.Printf("APIHandler: SRP settings updated by %s", user.Username)
	api.RespondSuccess(w, "Settings updated", settings)
}

// handleResetSrpSettings handles POST /api/settings/srp/reset. The
// singleton row is replaced with defaults, never actually removed.
func (h *APIHandler) handleResetSrpSettings(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if !user.ManageSRP {
		forbid(w)
		return
	}

	settings, err := database.ResetSrpSettings(database.GetDB())
	if err != nil {
		log.Printf("APIHandler: failed to reset settings: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to reset settings")
		return
	}

	api.RespondSuccess(w, "Settings reset to defaults", settings)
}

// handleUpdateUserSettings handles PUT /api/user/settings
func (h *APIHandler) handleUpdateUserSettings(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	var req api.UpdateUserSettingsRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := database.GetDB().Model(user).Update("notifications_disabled", req.NotificationsDisabled).Error; err != nil {
		log.Printf("APIHandler: failed to update user settings for %s: %v", user.Username, err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	api.RespondSuccess(w, "Settings updated", nil)
}
