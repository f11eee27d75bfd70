// Package testhelpers provides additional data builders for testing
package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/fleetsrp/fleetsrp/internal/database"
	"gorm.io/gorm"
)

// ========================================
// User Builder
// ========================================

// UserBuilder builds User rows for testing
type UserBuilder struct {
	user       database.User
	characters []database.CharacterOwnership
}

// NewUserBuilder creates a new user builder with defaults
func NewUserBuilder(username string) *UserBuilder {
	return &UserBuilder{
		user: database.User{
			Username:    username,
			BasicAccess: true,
		},
	}
}

// AsReviewer grants claim-review permissions
func (b *UserBuilder) AsReviewer() *UserBuilder {
	b.user.ManageSRP = true
	b.user.ManageSRPRequests = true
	return b
}

// AsFleetCommander grants event-creation permission
func (b *UserBuilder) AsFleetCommander() *UserBuilder {
	b.user.CreateSRP = true
	return b
}

// WithoutNotifications opts the user out of notifications
func (b *UserBuilder) WithoutNotifications() *UserBuilder {
	b.user.NotificationsDisabled = true
	return b
}

// WithCharacter links a game character to the account
func (b *UserBuilder) WithCharacter(characterID int64, name string) *UserBuilder {
	b.characters = append(b.characters, database.CharacterOwnership{
		CharacterID:   characterID,
		CharacterName: name,
	})
	return b
}

// Create persists the user and linked characters
func (b *UserBuilder) Create(t *testing.T, db *gorm.DB) *database.User {
	t.Helper()
	if err := db.Create(&b.user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	for i := range b.characters {
		b.characters[i].UserID = b.user.ID
		if err := db.Create(&b.characters[i]).Error; err != nil {
			t.Fatalf("failed to create test character: %v", err)
		}
	}
	b.user.Characters = b.characters
	return &b.user
}

// ========================================
// Event Builder
// ========================================

var eventSeq int

// EventBuilder builds FleetEvent rows for testing
type EventBuilder struct {
	event database.FleetEvent
}

// NewEventBuilder creates a new event builder with defaults
func NewEventBuilder() *EventBuilder {
	eventSeq++
	return &EventBuilder{
		event: database.FleetEvent{
			Code:      fmt.Sprintf("evt%05d", eventSeq),
			Name:      "Test Fleet",
			FleetTime: time.Now(),
			Status:    database.EventStatusActive,
		},
	}
}

// WithCode sets the event code
func (b *EventBuilder) WithCode(code string) *EventBuilder {
	b.event.Code = code
	return b
}

// WithName sets the event name
func (b *EventBuilder) WithName(name string) *EventBuilder {
	b.event.Name = name
	return b
}

// WithStatus sets the event status
func (b *EventBuilder) WithStatus(status database.EventStatus) *EventBuilder {
	b.event.Status = status
	return b
}

// CreatedBy sets the creator and commander
func (b *EventBuilder) CreatedBy(user *database.User) *EventBuilder {
	b.event.CreatorID = user.ID
	b.event.CommanderID = user.ID
	return b
}

// Create persists the event
func (b *EventBuilder) Create(t *testing.T, db *gorm.DB) *database.FleetEvent {
	t.Helper()
	if err := db.Create(&b.event).Error; err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return &b.event
}

// ========================================
// Claim Builder
// ========================================

var claimSeq int

// ClaimBuilder builds Claim rows for testing, bypassing the verification
// pipeline. Use the service Submit path when the pipeline itself is under
// test.
type ClaimBuilder struct {
	claim database.Claim
}

// NewClaimBuilder creates a new claim builder with defaults
func NewClaimBuilder(event *database.FleetEvent, user *database.User) *ClaimBuilder {
	claimSeq++
	return &ClaimBuilder{
		claim: database.Claim{
			Code:         fmt.Sprintf("req%05d", claimSeq),
			EventID:      event.ID,
			UserID:       user.ID,
			CharacterID:  90000000 + int64(claimSeq),
			KillboardURL: fmt.Sprintf("https://zkillboard.com/kill/%d/", 100000+claimSeq),
			KillID:       int64(100000 + claimSeq),
			ShipTypeID:   587,
			ShipName:     "Rifter",
			LossAmount:   5000000,
			Status:       database.ClaimStatusPending,
		},
	}
}

// WithStatus sets the claim status
func (b *ClaimBuilder) WithStatus(status database.ClaimStatus) *ClaimBuilder {
	b.claim.Status = status
	return b
}

// WithLossAmount sets the recorded loss amount
func (b *ClaimBuilder) WithLossAmount(amount float64) *ClaimBuilder {
	b.claim.LossAmount = amount
	return b
}

// WithPayout sets the payout amount
func (b *ClaimBuilder) WithPayout(amount float64) *ClaimBuilder {
	b.claim.PayoutAmount = amount
	return b
}

// WithShip sets the ship type and name
func (b *ClaimBuilder) WithShip(typeID int64, name string) *ClaimBuilder {
	b.claim.ShipTypeID = typeID
	b.claim.ShipName = name
	return b
}

// Create persists the claim
func (b *ClaimBuilder) Create(t *testing.T, db *gorm.DB) *database.Claim {
	t.Helper()
	if err := db.Create(&b.claim).Error; err != nil {
		t.Fatalf("failed to create test claim: %v", err)
	}
	return &b.claim
}
