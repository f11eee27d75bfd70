package services

import (
	"errors"
	"testing"
	"time"

	"github.com/fleetsrp/fleetsrp/internal/database"
	"github.com/fleetsrp/fleetsrp/internal/testhelpers"
)

func TestEventCreate(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewEventService(db)
	creator := testhelpers.NewUserBuilder("fc").AsFleetCommander().Create(t, db)

	event, err := svc.Create(creator, CreateEventInput{
		Name:      "  Roam to Tama  ",
		FleetTime: time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC),
		FleetType: "roam",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if event.Name != "Roam to Tama" {
		t.Errorf("expected trimmed name, got %q", event.Name)
	}
	if event.Status != database.EventStatusActive {
		t.Errorf("new events start active, got %s", event.Status)
	}
	if len(event.Code) != 8 {
		t.Errorf("expected 8-char code, got %q", event.Code)
	}
	if event.CommanderID != creator.ID {
		t.Errorf("commander should default to the creator")
	}
}

func TestEventCreate_RequiresName(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewEventService(db)
	creator := testhelpers.NewUserBuilder("fc").AsFleetCommander().Create(t, db)

	if _, err := svc.Create(creator, CreateEventInput{Name: "   "}); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestEventDisableEnableRoundTrip(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewEventService(db)
	event := testhelpers.NewEventBuilder().Create(t, db)

	closed, err := svc.Disable(event.Code)
	if err != nil {
		t.Fatalf("Disable failed: %v", err)
	}
	if closed.Status != database.EventStatusClosed {
		t.Errorf("expected closed, got %s", closed.Status)
	}

	// Disabling twice is refused.
	if _, err := svc.Disable(event.Code); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	reopened, err := svc.Enable(event.Code)
	if err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if reopened.Status != database.EventStatusActive {
		t.Errorf("expected active, got %s", reopened.Status)
	}
	if !reopened.AcceptsClaims() {
		t.Error("re-enabled event should accept claims again")
	}
}

func TestEventComplete(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewEventService(db)

	// Completing works from both active and closed.
	active := testhelpers.NewEventBuilder().Create(t, db)
	if _, err := svc.Complete(active.Code); err != nil {
		t.Errorf("Complete from active failed: %v", err)
	}

	closed := testhelpers.NewEventBuilder().WithStatus(database.EventStatusClosed).Create(t, db)
	done, err := svc.Complete(closed.Code)
	if err != nil {
		t.Fatalf("Complete from closed failed: %v", err)
	}
	if done.Status != database.EventStatusCompleted {
		t.Errorf("expected completed, got %s", done.Status)
	}

	// Completed is terminal.
	if _, err := svc.Complete(done.Code); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Enable(done.Code); !errors.Is(err, ErrEventCompleted) {
		t.Errorf("expected ErrEventCompleted, got %v", err)
	}
	if _, err := svc.Disable(done.Code); !errors.Is(err, ErrEventCompleted) {
		t.Errorf("expected ErrEventCompleted, got %v", err)
	}
}

func TestEventUpdate(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewEventService(db)
	event := testhelpers.NewEventBuilder().WithName("Original").Create(t, db)

	newTime := time.Date(2026, 4, 1, 19, 0, 0, 0, time.UTC)
	aar := "https://forums.example/aar/42"
	updated, err := svc.Update(event.Code, UpdateEventInput{
		Name:      "Renamed Fleet",
		FleetTime: &newTime,
		AARLink:   &aar,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	reloaded, _ := svc.GetByCode(updated.Code)
	if reloaded.Name != "Renamed Fleet" {
		t.Errorf("expected renamed event, got %q", reloaded.Name)
	}
	if reloaded.AARLink != aar {
		t.Errorf("expected AAR link set, got %q", reloaded.AARLink)
	}
	if reloaded.Code != event.Code {
		t.Errorf("event code must be immutable")
	}
}

func TestEventUpdate_CompletedRefused(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewEventService(db)
	event := testhelpers.NewEventBuilder().WithStatus(database.EventStatusCompleted).Create(t, db)

	_, err := svc.Update(event.Code, UpdateEventInput{Name: "Too late"})
	if !errors.Is(err, ErrEventCompleted) {
		t.Errorf("expected ErrEventCompleted, got %v", err)
	}
}

func TestEventList_NewestFleetFirst(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewEventService(db)

	old := testhelpers.NewEventBuilder().Create(t, db)
	db.Model(old).Update("fleet_time", time.Now().Add(-48*time.Hour))
	recent := testhelpers.NewEventBuilder().Create(t, db)
	db.Model(recent).Update("fleet_time", time.Now())

	events, err := svc.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Code != recent.Code {
		t.Errorf("expected newest fleet first, got %s", events[0].Code)
	}
}

func TestEventDelete_CascadesToClaims(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewEventService(db)
	pilot := testhelpers.NewUserBuilder("pilot").Create(t, db)
	event := testhelpers.NewEventBuilder().Create(t, db)
	keep := testhelpers.NewEventBuilder().Create(t, db)

	claim := testhelpers.NewClaimBuilder(event, pilot).Create(t, db)
	db.Create(&database.HistoryEntry{ClaimID: claim.ID, Kind: database.HistoryKindComment, Body: "x", UserID: pilot.ID})
	db.Create(&database.InsuranceTier{ClaimID: claim.ID, Level: "Basic", Cost: 1, Payout: 2})
	kept := testhelpers.NewClaimBuilder(keep, pilot).Create(t, db)

	if err := svc.Delete(event.Code); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := svc.GetByCode(event.Code); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected event gone, got %v", err)
	}

	var count int64
	db.Model(&database.Claim{}).Count(&count)
	if count != 1 {
		t.Errorf("expected only the unrelated claim to survive, got %d", count)
	}
	db.Model(&database.HistoryEntry{}).Where("claim_id = ?", claim.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected deleted claim history gone, got %d", count)
	}

	var survivor database.Claim
	if err := db.First(&survivor, kept.ID).Error; err != nil {
		t.Errorf("unrelated claim should survive: %v", err)
	}
}
