package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fleetsrp/fleetsrp/internal/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventService manages the fleet-event lifecycle (Active/Closed/Completed).
// Event transitions are plain reviewer-gated field writes; permission checks
// happen at the request boundary, this service only enforces state.
type EventService struct {
	db *gorm.DB
}

// NewEventService creates a new event service
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// CreateEventInput holds the fields for a new fleet event
type CreateEventInput struct {
	Name        string
	FleetTime   time.Time
	FleetType   string
	AARLink     string
	CommanderID uint
}

// newCode generates a short shareable code. Uniqueness is backed by the
// database index; a collision on 8 hex chars surfaces as a create error.
func newCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Create registers a new fleet event with a fresh immutable code.
func (s *EventService) Create(creator *database.User, input CreateEventInput) (*database.FleetEvent, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("event name is required")
	}

	commanderID := input.CommanderID
	if commanderID == 0 {
		commanderID = creator.ID
	}

	event := &database.FleetEvent{
		Code:        newCode(),
		Name:        strings.TrimSpace(input.Name),
		FleetTime:   input.FleetTime,
		FleetType:   input.FleetType,
		AARLink:     input.AARLink,
		Status:      database.EventStatusActive,
		CreatorID:   creator.ID,
		CommanderID: commanderID,
	}

	if err := s.db.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	log.Printf("EventService: created event %s (%q) by %s", event.Code, event.Name, creator.Username)
	return event, nil
}

// GetByCode loads an event by its shareable code
func (s *EventService) GetByCode(code string) (*database.FleetEvent, error) {
	var event database.FleetEvent
	err := s.db.Where("code = ?", code).First(&event).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns all events, newest fleet first
func (s *EventService) List() ([]database.FleetEvent, error) {
	var events []database.FleetEvent
	if err := s.db.Order("fleet_time DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateEventInput holds the editable fields of an event. Nil pointers
// leave the stored value untouched. The code is immutable by design.
type UpdateEventInput struct {
	Name      string
	FleetTime *time.Time
	FleetType *string
	AARLink   *string
}

// Update edits an event's descriptive fields. Completed events are
// terminal: no further edits besides deletion.
func (s *EventService) Update(code string, input UpdateEventInput) (*database.FleetEvent, error) {
	event, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if event.Status == database.EventStatusCompleted {
		return nil, ErrEventCompleted
	}

	updates := map[string]interface{}{}
	if strings.TrimSpace(input.Name) != "" {
		updates["name"] = strings.TrimSpace(input.Name)
	}
	if input.FleetTime != nil {
		updates["fleet_time"] = *input.FleetTime
	}
	if input.FleetType != nil {
		updates["fleet_type"] = *input.FleetType
	}
	if input.AARLink != nil {
		updates["aar_link"] = *input.AARLink
	}
	if len(updates) == 0 {
		return event, nil
	}

	if err := s.db.Model(event).Updates(updates).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// Disable closes an active event for new claims
func (s *EventService) Disable(code string) (*database.FleetEvent, error) {
	return s.transition(code, database.EventStatusActive, database.EventStatusClosed)
}

// Enable re-opens a closed event
func (s *EventService) Enable(code string) (*database.FleetEvent, error) {
	return s.transition(code, database.EventStatusClosed, database.EventStatusActive)
}

// Complete marks an event completed. Allowed from both Active and Closed;
// Completed is terminal for new-claim submission.
func (s *EventService) Complete(code string) (*database.FleetEvent, error) {
	event, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if event.Status == database.EventStatusCompleted {
		return nil, ErrInvalidTransition
	}

	if err := s.db.Model(event).Update("status", database.EventStatusCompleted).Error; err != nil {
		return nil, err
	}
	event.Status = database.EventStatusCompleted
	log.Printf("EventService: event %s completed", event.Code)
	return event, nil
}

// transition performs a single-step status change, refusing every other
// starting state.
func (s *EventService) transition(code string, from, to database.EventStatus) (*database.FleetEvent, error) {
	event, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if event.Status == database.EventStatusCompleted {
		return nil, ErrEventCompleted
	}
	if event.Status != from {
		return nil, ErrInvalidTransition
	}

	if err := s.db.Model(event).Update("status", to).Error; err != nil {
		return nil, err
	}
	event.Status = to
	log.Printf("EventService: event %s is now %s", event.Code, to)
	return event, nil
}

// Delete removes an event and all of its claims with their insurance and
// history rows. Irreversible.
func (s *EventService) Delete(code string) error {
	event, err := s.GetByCode(code)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var claimIDs []uint
		if err := tx.Model(&database.Claim{}).Where("event_id = ?", event.ID).Pluck("id", &claimIDs).Error; err != nil {
			return err
		}

		if len(claimIDs) > 0 {
			if err := tx.Where("claim_id IN ?", claimIDs).Delete(&database.HistoryEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Where("claim_id IN ?", claimIDs).Delete(&database.InsuranceTier{}).Error; err != nil {
				return err
			}
			if err := tx.Where("event_id = ?", event.ID).Delete(&database.Claim{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(event).Error
	})
}
