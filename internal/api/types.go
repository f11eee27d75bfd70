package api

import "time"

// ========== Event Types ==========

// CreateEventRequest is the request body for POST /api/events.
type CreateEventRequest struct {
	Name        string    `json:"name"`
	FleetTime   time.Time `json:"fleet_time"`
	FleetType   string    `json:"fleet_type"`
	AARLink     string    `json:"aar_link"`
	CommanderID uint      `json:"commander_id"`
}

// UpdateEventRequest is the request body for PUT /api/events/{code}.
type UpdateEventRequest struct {
	Name      string     `json:"name"`
	FleetTime *time.Time `json:"fleet_time"`
	FleetType *string    `json:"fleet_type"`
	AARLink   *string    `json:"aar_link"`
}

// EventStatusRequest is the request body for POST /api/events/{code}/status.
// Action is one of "disable" (close), "enable" (re-open) or "complete".
type EventStatusRequest struct {
	Action string `json:"action"`
}

// ========== Claim Types ==========

// SubmitClaimRequest is the request body for POST /api/events/{code}/claims.
type SubmitClaimRequest struct {
	KillboardURL   string `json:"killboard_url"`
	AdditionalInfo string `json:"additional_info"`
}

// ApproveClaimRequest is the request body for POST /api/claims/{code}/approve.
type ApproveClaimRequest struct {
	Comment string `json:"comment"`
}

// RejectClaimRequest is the request body for POST /api/claims/{code}/reject.
type RejectClaimRequest struct {
	Reason string `json:"reason"`
}

// PayoutRequest is the request body for POST /api/claims/{code}/payout.
type PayoutRequest struct {
	Amount float64 `json:"amount"`
}

// BulkClaimRequest is the request body for the bulk approve/remove actions.
type BulkClaimRequest struct {
	Codes []string `json:"codes"`
}

// BulkResult reports the aggregate outcome of a bulk action.
type BulkResult struct {
	Requested int `json:"requested"`
	Succeeded int `json:"succeeded"`
}

// ========== Settings Types ==========

// UpdateSrpSettingsRequest is the request body for PUT /api/settings/srp.
type UpdateSrpSettingsRequest struct {
	NotificationChannel  string `json:"notification_channel"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

// UpdateUserSettingsRequest is the request body for PUT /api/user/settings.
type UpdateUserSettingsRequest struct {
	NotificationsDisabled bool `json:"notifications_disabled"`
}
