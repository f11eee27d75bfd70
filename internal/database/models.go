package database

import (
	"time"
)

// EventStatus represents the lifecycle status of a fleet event
type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusClosed    EventStatus = "closed"
	EventStatusCompleted EventStatus = "completed"
)

// ClaimStatus represents the review status of an SRP claim
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// HistoryKind classifies a history ledger entry
type HistoryKind string

const (
	// HistoryKindRequestInfo carries the submitter's additional information.
	// A claim's current additional info is its most recent entry of this kind.
	HistoryKindRequestInfo HistoryKind = "request_info"
	// HistoryKindStatusChange records a status transition
	HistoryKindStatusChange HistoryKind = "status_change"
	// HistoryKindComment is a free-form reviewer remark
	HistoryKindComment HistoryKind = "comment"
	// HistoryKindRejectReason carries the mandatory rejection reason
	HistoryKindRejectReason HistoryKind = "reject_reason"
)

// User is a community member account. Authentication issues JWT tokens for
// these rows; permission flags gate reviewer actions at the request boundary.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string `gorm:"type:text" json:"-"`

	// Permission flags, checked by the handlers before any mutating action
	BasicAccess       bool `gorm:"default:true" json:"basic_access"`
	CreateSRP         bool `gorm:"default:false" json:"create_srp"`
	ManageSRP         bool `gorm:"default:false" json:"manage_srp"`
	ManageSRPRequests bool `gorm:"default:false" json:"manage_srp_requests"`

	// NotificationsDisabled opts the user out of status-change notifications
	NotificationsDisabled bool `gorm:"default:false" json:"notifications_disabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Characters []CharacterOwnership `gorm:"foreignKey:UserID" json:"characters,omitempty"`
}

// CanReview returns true if the user may approve, reject or remove claims
func (u *User) CanReview() bool {
	return u.ManageSRP || u.ManageSRPRequests
}

// OwnsCharacter returns true if the given character is linked to this account.
// Only meaningful when Characters has been preloaded.
func (u *User) OwnsCharacter(characterID int64) bool {
	for _, c := range u.Characters {
		if c.CharacterID == characterID {
			return true
		}
	}
	return false
}

// CharacterOwnership links a game character to the account that controls it.
// A character belongs to exactly one account at a time.
type CharacterOwnership struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	CharacterID   int64     `gorm:"uniqueIndex;not null" json:"character_id"`
	CharacterName string    `gorm:"size:255" json:"character_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// FleetEvent is one fleet operation eligible for loss claims (an "SRP link").
// Code is globally unique and immutable after creation.
type FleetEvent struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Code      string      `gorm:"uniqueIndex;size:16;not null" json:"code"`
	Name      string      `gorm:"size:255;not null" json:"name"`
	FleetTime time.Time   `json:"fleet_time"`
	FleetType string      `gorm:"size:64" json:"fleet_type"`          // optional doctrine/category tag
	AARLink   string      `gorm:"type:text" json:"aar_link"`          // optional after-action-report URL
	Status    EventStatus `gorm:"type:varchar(16);not null;default:'active'" json:"status"`

	CreatorID   uint `gorm:"not null;index" json:"creator_id"`
	CommanderID uint `gorm:"index" json:"commander_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Creator   User    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Commander User    `gorm:"foreignKey:CommanderID" json:"commander,omitempty"`
	Claims    []Claim `gorm:"foreignKey:EventID" json:"claims,omitempty"`
}

// AcceptsClaims returns true if new claims may be submitted against the event
func (e *FleetEvent) AcceptsClaims() bool {
	return e.Status == EventStatusActive
}

// Claim is one member's loss claim against a fleet event (an "SRP request").
// KillboardURL is the normalized loss-record reference; its unique index is
// the system-wide duplicate-claim guard.
type Claim struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Code    string `gorm:"uniqueIndex;size:16;not null" json:"code"`
	EventID uint   `gorm:"not null;index" json:"event_id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`

	CharacterID   int64  `gorm:"not null" json:"character_id"`
	CharacterName string `gorm:"size:255" json:"character_name"`

	KillboardURL string `gorm:"uniqueIndex;size:512;not null" json:"killboard_url"`
	KillID       int64  `gorm:"not null" json:"kill_id"`

	ShipTypeID int64  `json:"ship_type_id"`
	ShipName   string `gorm:"size:255" json:"ship_name"`

	LossAmount   float64     `json:"loss_amount"`
	PayoutAmount float64     `gorm:"default:0" json:"payout_amount"`
	Status       ClaimStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Event          FleetEvent      `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User           User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	InsuranceTiers []InsuranceTier `gorm:"foreignKey:ClaimID" json:"insurance_tiers,omitempty"`
	History        []HistoryEntry  `gorm:"foreignKey:ClaimID" json:"history,omitempty"`
}

// InsuranceTier is one payout level of the insurance snapshot captured at
// claim-creation time. Created once, read-only afterward.
type InsuranceTier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClaimID   uint      `gorm:"not null;index" json:"claim_id"`
	Level     string    `gorm:"size:64" json:"level"`
	Cost      float64   `json:"cost"`
	Payout    float64   `json:"payout"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry is an append-only audit record attached to a claim.
// Entries are never updated or deleted individually, only appended; the
// model intentionally has no UpdatedAt column.
type HistoryEntry struct {
	ID      uint        `gorm:"primaryKey" json:"id"`
	ClaimID uint        `gorm:"not null;index" json:"claim_id"`
	Kind    HistoryKind `gorm:"type:varchar(32);not null" json:"kind"`
	Body    string      `gorm:"type:text" json:"body"`

	// Status records the claim status at entry time for status-change kinds
	Status ClaimStatus `gorm:"type:varchar(16)" json:"status,omitempty"`

	UserID    uint      `gorm:"index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// SrpSettings is the singleton operator configuration row, pinned to id 1.
// Access it only through GetSrpSettings / UpdateSrpSettings / ResetSrpSettings.
type SrpSettings struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// NotificationChannel is the operator-configured channel identifier
	// (Discord channel id or Slack channel name). Empty disables the
	// notification path without error.
	NotificationChannel  string `gorm:"size:255" json:"notification_channel"`
	NotificationsEnabled bool   `gorm:"default:true" json:"notifications_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides for explicit table naming
func (User) TableName() string {
	return "users"
}

func (CharacterOwnership) TableName() string {
	return "character_ownerships"
}

func (FleetEvent) TableName() string {
	return "fleet_events"
}

func (Claim) TableName() string {
	return "claims"
}

func (InsuranceTier) TableName() string {
	return "insurance_tiers"
}

func (HistoryEntry) TableName() string {
	return "history_entries"
}

func (SrpSettings) TableName() string {
	return "srp_settings"
}
