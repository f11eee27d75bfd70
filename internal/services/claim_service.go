package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fleetsrp/fleetsrp/internal/database"
	"github.com/fleetsrp/fleetsrp/internal/esi"
	"github.com/fleetsrp/fleetsrp/internal/killboard"
	"github.com/fleetsrp/fleetsrp/internal/notify"
	"github.com/fleetsrp/fleetsrp/internal/utils"
	"gorm.io/gorm"
)

// maxFreeTextLen bounds additional info, comments and rejection reasons.
const maxFreeTextLen = 2000

// maxPayout bounds reviewer-entered payout values (1 quadrillion ISK).
const maxPayout = 1e15

// ClaimService runs the claim verification pipeline and the approval state
// machine. Submit is the only multi-step operation: resolve the pasted URL,
// fetch the verified loss record, cross-check against the authoritative
// killmail, gate on character ownership, snapshot insurance, then persist
// everything in one transaction.
type ClaimService struct {
	db         *gorm.DB
	resolver   *killboard.Resolver
	kb         *killboard.Client
	esi        *esi.Client
	dispatcher *notify.Dispatcher

	// onUpdate is invoked after a committed status transition, used to feed
	// the live updates websocket. May be nil.
	onUpdate func(*database.Claim)
}

// NewClaimService creates a new claim service
func NewClaimService(db *gorm.DB, resolver *killboard.Resolver, kb *killboard.Client, esiClient *esi.Client, dispatcher *notify.Dispatcher) *ClaimService {
	return &ClaimService{
		db:         db,
		resolver:   resolver,
		kb:         kb,
		esi:        esiClient,
		dispatcher: dispatcher,
	}
}

// SetUpdateHook registers a callback fired after committed transitions.
func (s *ClaimService) SetUpdateHook(fn func(*database.Claim)) {
	s.onUpdate = fn
}

// Submit verifies a pasted killboard URL and creates the claim. The claim,
// its insurance snapshot and its first two history entries are written in
// one transaction; partial writes are never observable.
func (s *ClaimService) Submit(ctx context.Context, user *database.User, eventCode, rawURL, additionalInfo string) (*database.Claim, error) {
	var event database.FleetEvent
	err := s.db.Where("code = ?", eventCode).First(&event).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if !event.AcceptsClaims() {
		return nil, ErrEventNotActive
	}

	killID, err := s.resolver.ResolveKillID(rawURL)
	if err != nil {
		return nil, err
	}
	normalizedURL := killboard.NormalizeKillURL(rawURL)

	// Early duplicate check for a friendly error; the unique index on
	// killboard_url is the real guard against concurrent submitters.
	var count int64
	if err := s.db.Model(&database.Claim{}).Where("killboard_url = ?", normalizedURL).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateClaim
	}

	loss, err := s.kb.Lookup(ctx, killID)
	if err != nil {
		return nil, err
	}

	km, err := s.esi.Killmail(ctx, loss.KillID, loss.Hash)
	if err != nil {
		return nil, &killboard.LossRecordError{Op: "killmail cross-check", Err: err}
	}
	if km == nil || km.Victim.CharacterID == 0 || km.Victim.ShipTypeID == 0 {
		// The authoritative record is required; no data means the loss
		// cannot be verified.
		return nil, killboard.ErrRecordNotFound
	}

	var ownership database.CharacterOwnership
	err = s.db.Where("user_id = ? AND character_id = ?", user.ID, km.Victim.CharacterID).First(&ownership).Error
	if err == gorm.ErrRecordNotFound {
		return nil, &OwnershipError{CharacterID: km.Victim.CharacterID}
	}
	if err != nil {
		return nil, err
	}

	shipName, err := s.esi.TypeName(ctx, km.Victim.ShipTypeID)
	if err != nil {
		log.Printf("ClaimService: ship name lookup failed for type %d: %v", km.Victim.ShipTypeID, err)
		shipName = ""
	}

	// Insurance lookup failures degrade to "no insurance data"
	levels, err := s.esi.InsuranceForType(ctx, km.Victim.ShipTypeID)
	if err != nil {
		log.Printf("ClaimService: insurance lookup failed for type %d: %v", km.Victim.ShipTypeID, err)
		levels = nil
	}

	claim := &database.Claim{
		Code:          newCode(),
		EventID:       event.ID,
		UserID:        user.ID,
		CharacterID:   km.Victim.CharacterID,
		CharacterName: ownership.CharacterName,
		KillboardURL:  normalizedURL,
		KillID:        loss.KillID,
		ShipTypeID:    km.Victim.ShipTypeID,
		ShipName:      shipName,
		LossAmount:    loss.Value,
		PayoutAmount:  0,
		Status:        database.ClaimStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(claim).Error; err != nil {
			return err
		}

		for _, lvl := range levels {
			tier := database.InsuranceTier{
				ClaimID: claim.ID,
				Level:   lvl.Name,
				Cost:    lvl.Cost,
				Payout:  lvl.Payout,
			}
			if err := tx.Create(&tier).Error; err != nil {
				return err
			}
		}

		entries := []database.HistoryEntry{
			{
				ClaimID: claim.ID,
				Kind:    database.HistoryKindStatusChange,
				Status:  database.ClaimStatusPending,
				Body:    "SRP request created",
				UserID:  user.ID,
			},
			{
				ClaimID: claim.ID,
				Kind:    database.HistoryKindRequestInfo,
				Body:    utils.CleanUserText(additionalInfo, maxFreeTextLen),
				UserID:  user.ID,
			},
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateClaim
		}
		return nil, fmt.Errorf("failed to persist claim: %w", err)
	}

	log.Printf("ClaimService: claim %s created by %s for kill %d (%s, %s)",
		claim.Code, user.Username, claim.KillID, claim.ShipName, utils.ShortISK(claim.LossAmount))
	return claim, nil
}

// GetByCode loads a claim with its event, submitter, insurance snapshot and
// chronological history.
func (s *ClaimService) GetByCode(code string) (*database.Claim, error) {
	var claim database.Claim
	err := s.db.
		Preload("Event").
		Preload("User").
		Preload("InsuranceTiers").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("history_entries.id ASC")
		}).
		Preload("History.User").
		Where("code = ?", code).
		First(&claim).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrClaimNotFound
	}
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// ClaimFilter narrows claim listings.
type ClaimFilter struct {
	EventCode string
	UserID    uint
	Status    database.ClaimStatus
	Offset    int
	Limit     int
}

// List returns claims matching the filter, newest first, with the total
// match count for pagination.
func (s *ClaimService) List(filter ClaimFilter) ([]database.Claim, int64, error) {
	query := s.db.Model(&database.Claim{})

	if filter.EventCode != "" {
		query = query.Joins("JOIN fleet_events ON fleet_events.id = claims.event_id").
			Where("fleet_events.code = ?", filter.EventCode)
	}
	if filter.UserID != 0 {
		query = query.Where("claims.user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("claims.status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var claims []database.Claim
	q := query.Preload("Event").Preload("User").Order("claims.created_at DESC")
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := q.Find(&claims).Error; err != nil {
		return nil, 0, err
	}

	return claims, total, nil
}

// AdditionalInfo returns the claim's current additional info: the most
// recent request_info ledger entry, not an aggregate.
func (s *ClaimService) AdditionalInfo(claimID uint) (string, error) {
	var entry database.HistoryEntry
	err := s.db.Where("claim_id = ? AND kind = ?", claimID, database.HistoryKindRequestInfo).
		Order("id DESC").First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return entry.Body, nil
}

// Approve moves a pending claim to Approved. A zero payout is auto-set to
// the recorded loss amount; a non-empty comment becomes its own ledger
// entry alongside the status-change entry.
func (s *ClaimService) Approve(ctx context.Context, reviewer *database.User, code, comment string) (*database.Claim, error) {
	return s.approve(ctx, reviewer, code, comment, database.ClaimStatusPending)
}

// AcceptRejected moves a previously rejected claim to Approved. Distinct
// from Approve so a mistyped code cannot silently resurrect a rejection.
func (s *ClaimService) AcceptRejected(ctx context.Context, reviewer *database.User, code, comment string) (*database.Claim, error) {
	return s.approve(ctx, reviewer, code, comment, database.ClaimStatusRejected)
}

func (s *ClaimService) approve(ctx context.Context, reviewer *database.User, code, comment string, from database.ClaimStatus) (*database.Claim, error) {
	claim, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if claim.Status != from {
		return nil, ErrInvalidTransition
	}

	payout := claim.PayoutAmount
	if payout == 0 {
		payout = claim.LossAmount
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(claim).Updates(map[string]interface{}{
			"status":        database.ClaimStatusApproved,
			"payout_amount": payout,
		}).Error; err != nil {
			return err
		}

		entries := []database.HistoryEntry{
			{
				ClaimID: claim.ID,
				Kind:    database.HistoryKindStatusChange,
				Status:  database.ClaimStatusApproved,
				Body:    "SRP request approved",
				UserID:  reviewer.ID,
			},
		}
		if c := utils.CleanUserText(comment, maxFreeTextLen); c != "" {
			entries = append(entries, database.HistoryEntry{
				ClaimID: claim.ID,
				Kind:    database.HistoryKindComment,
				Body:    c,
				UserID:  reviewer.ID,
			})
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		return nil, err
	}

	claim.Status = database.ClaimStatusApproved
	claim.PayoutAmount = payout

	log.Printf("ClaimService: claim %s approved by %s, payout %s",
		claim.Code, reviewer.Username, utils.ShortISK(claim.PayoutAmount))
	s.afterTransition(claim, "")
	return claim, nil
}

// Reject moves a pending or approved claim to Rejected. The payout is
// forced to zero and the mandatory reason enters the ledger.
func (s *ClaimService) Reject(ctx context.Context, reviewer *database.User, code, reason string) (*database.Claim, error) {
	reason = utils.CleanUserText(reason, maxFreeTextLen)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	claim, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if claim.Status == database.ClaimStatusRejected {
		return nil, ErrInvalidTransition
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(claim).Updates(map[string]interface{}{
			"status":        database.ClaimStatusRejected,
			"payout_amount": 0,
		}).Error; err != nil {
			return err
		}

		entries := []database.HistoryEntry{
			{
				ClaimID: claim.ID,
				Kind:    database.HistoryKindStatusChange,
				Status:  database.ClaimStatusRejected,
				Body:    "SRP request rejected",
				UserID:  reviewer.ID,
			},
			{
				ClaimID: claim.ID,
				Kind:    database.HistoryKindRejectReason,
				Status:  database.ClaimStatusRejected,
				Body:    reason,
				UserID:  reviewer.ID,
			},
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		return nil, err
	}

	claim.Status = database.ClaimStatusRejected
	claim.PayoutAmount = 0

	log.Printf("ClaimService: claim %s rejected by %s", claim.Code, reviewer.Username)
	s.afterTransition(claim, reason)
	return claim, nil
}

// ChangePayout sets the payout value directly. It appends no ledger entry
// and sends no notification; it exists so reviewers can adjust the proposed
// amount before or after approval.
func (s *ClaimService) ChangePayout(reviewer *database.User, code string, amount float64) (*database.Claim, error) {
	if amount < 0 || amount > maxPayout {
		return nil, ErrInvalidPayout
	}

	claim, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(claim).Update("payout_amount", amount).Error; err != nil {
		return nil, err
	}
	claim.PayoutAmount = amount

	log.Printf("ClaimService: claim %s payout set to %s by %s", claim.Code, utils.ShortISK(amount), reviewer.Username)
	return claim, nil
}

// Remove hard-deletes a claim with its insurance snapshot and history rows.
// Irreversible.
func (s *ClaimService) Remove(code string) error {
	claim, err := s.GetByCode(code)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("claim_id = ?", claim.ID).Delete(&database.HistoryEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("claim_id = ?", claim.ID).Delete(&database.InsuranceTier{}).Error; err != nil {
			return err
		}
		return tx.Delete(&database.Claim{}, claim.ID).Error
	})
}

// BulkApprove applies Approve to each code, best-effort. Missing or
// non-pending codes are skipped; the success count is reported.
func (s *ClaimService) BulkApprove(ctx context.Context, reviewer *database.User, codes []string) int {
	succeeded := 0
	for _, code := range codes {
		if _, err := s.Approve(ctx, reviewer, code, ""); err != nil {
			log.Printf("ClaimService: bulk approve skipped %s: %v", code, err)
			continue
		}
		succeeded++
	}
	return succeeded
}

// BulkRemove applies Remove to each code, best-effort.
func (s *ClaimService) BulkRemove(codes []string) int {
	succeeded := 0
	for _, code := range codes {
		if err := s.Remove(code); err != nil {
			log.Printf("ClaimService: bulk remove skipped %s: %v", code, err)
			continue
		}
		succeeded++
	}
	return succeeded
}

// afterTransition fires the websocket hook and dispatches the status-change
// notification. Delivery is fire-and-forget and never blocks the request.
func (s *ClaimService) afterTransition(claim *database.Claim, reason string) {
	if s.onUpdate != nil {
		s.onUpdate(claim)
	}

	if !s.dispatcher.Enabled() {
		return
	}
	if claim.User.NotificationsDisabled {
		return
	}

	settings, err := database.GetSrpSettings(s.db)
	if err != nil {
		log.Printf("ClaimService: could not load settings for notification: %v", err)
		return
	}
	if !settings.NotificationsEnabled || settings.NotificationChannel == "" {
		return
	}

	recipient := claim.CharacterName
	if recipient == "" {
		recipient = claim.User.Username
	}

	n := notify.Notification{
		Channel:   settings.NotificationChannel,
		ClaimCode: claim.Code,
		Status:    strings.ToUpper(string(claim.Status)),
		Ship:      claim.ShipName,
		Payout:    utils.FormatISK(claim.PayoutAmount),
		Recipient: recipient,
		Reason:    reason,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.dispatcher.Dispatch(ctx, n); err != nil {
			log.Printf("ClaimService: notification for claim %s failed: %v", n.ClaimCode, err)
		}
	}()
}
