package handlers

import (
	"net/http"

	"github.com/fleetsrp/fleetsrp/internal/api"
	"github.com/fleetsrp/fleetsrp/internal/database"
	"github.com/fleetsrp/fleetsrp/internal/services"
)

// handleSubmitClaim handles POST /api/events/{code}/claims
func (h *APIHandler) handleSubmitClaim(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	var req api.SubmitClaimRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.KillboardURL == "" {
		api.RespondError(w, http.StatusBadRequest, "Killboard link is required")
		return
	}

	claim, err := h.claims.Submit(r.Context(), user, r.PathValue("code"), req.KillboardURL, req.AdditionalInfo)
	if err != nil {
		respondActionError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusCreated, api.ActionResponse{
		Success: true,
		Message: "SRP request submitted",
		Data:    claim,
	})
}

// handleListClaims handles GET /api/claims with optional event, status and
// mine filters. Members without review permission only ever see their own.
func (h *APIHandler) handleListClaims(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	filter := services.ClaimFilter{
		EventCode: r.URL.Query().Get("event"),
		Status:    database.ClaimStatus(r.URL.Query().Get("status")),
	}
	if !user.CanReview() || r.URL.Query().Get("mine") == "true" {
		filter.UserID = user.ID
	}

	params := api.ParsePagination(r)
	filter.Offset = params.Offset()
	filter.Limit = params.PerPage

	claims, total, err := h.claims.List(filter)
	if err != nil {
		respondActionError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, api.PaginatedResponse{
		Data: claims,
		Pagination: api.PaginationMeta{
			Page:       params.Page,
			PerPage:    params.PerPage,
			Total:      total,
			TotalPages: params.TotalPages(total),
		},
	})
}

// handleGetClaim handles GET /api/claims/{code}
func (h *APIHandler) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	claim, err := h.claims.GetByCode(r.PathValue("code"))
	if err != nil {
		respondActionError(w, err)
		return
	}

	// Submitters may view their own claims; everything else needs review
	// permission.
	if claim.UserID != user.ID && !user.CanReview() {
		forbid(w)
		return
	}

	api.RespondJSON(w, http.StatusOK, claim)
}

// handleApproveClaim handles POST /api/claims/{code}/approve
func (h *APIHandler) handleApproveClaim(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if !user.CanReview() {
		forbid(w)
		return
	}

	var req api.ApproveClaimRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claim, err := h.claims.Approve(r.Context(), user, r.PathValue("code"), req.Comment)
	if err != nil {
		respondActionError(w, err)
		return
	}

	api.RespondSuccess(w, "SRP request approved", claim)
}

// handleAcceptRejectedClaim handles POST /api/claims/{code}/accept, the
// distinct action moving a rejected claim to approved.
func (h *APIHandler) handleAcceptRejectedClaim(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if !user.CanReview() {
		forbid(w)
		return
	}

	var req api.ApproveClaimRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claim, err := h.claims.AcceptRejected(r.Context(), user, r.PathValue("code"), req.Comment)
	if err != nil {
		respondActionError(w, err)
		return
	}

	api.RespondSuccess(w, "SRP request approved", claim)
}

// handleRejectClaim handles POST /api/claims/{code}/reject
func (h *APIHandler) handleRejectClaim(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if !user.CanReview() {
		forbid(w)
		return
	}

	var req api.RejectClaimRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claim, err := h.claims.Reject(r.Context(), user, r.PathValue("code"), req.Reason)
	if err != nil {
		respondActionError(w, err)
		return
	}

	api.RespondSuccess(w, "SRP request rejected", claim)
}

// handleChangePayout handles POST /api/claims/{code}/payout
func (h *APIHandler) handleChangePayout(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if !user.CanReview() {
		forbid(w)
		return
	}

	var req api.PayoutRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claim, err := h.claims.ChangePayout(user, r.PathValue("code"), req.Amount)
	if err != nil {
		respondActionError(w, err)
		return
	}

	api.RespondSuccess(w, "Payout updated", claim)
}

// handleRemoveClaim handles DELETE /api/claims/{code}
func (h *APIHandler) handleRemoveClaim(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if !user.CanReview() {
		forbid(w)
		return
	}

	if err := h.claims.Remove(r.PathValue("code")); err != nil {
		respondActionError(w, err)
		return
	}

	api.RespondSuccess(w, "SRP request removed", nil)
}

// handleBulkApprove handles POST /api/claims/bulk/approve
func (h *APIHandler) handleBulkApprove(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if !user.CanReview() {
		forbid(w)
		return
	}

	var req api.BulkClaimRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Codes) == 0 {
		api.RespondError(w, http.StatusBadRequest, "No claim codes given")
		return
	}

	succeeded := h.claims.BulkApprove(r.Context(), user, req.Codes)
	api.RespondSuccess(w, "Bulk approve finished", api.BulkResult{
		Requested: len(req.Codes),
		Succeeded: succeeded,
	})
}

// handleBulkRemove handles POST /api/claims/bulk/remove
func (h *APIHandler) handleBulkRemove(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if !user.CanReview() {
		forbid(w)
		return
	}

	var req api.BulkClaimRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Codes) == 0 {
		api.RespondError(w, http.StatusBadRequest, "No claim codes given")
		return
	}

	succeeded := h.claims.BulkRemove(req.Codes)
	api.RespondSuccess(w, "Bulk remove finished", api.BulkResult{
		Requested: len(req.Codes),
		Succeeded: succeeded,
	})
}
