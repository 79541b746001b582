package services

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"club-management-system/models"

	"github.com/google/uuid"
)

// MissionProgressTracker is the exactly-once counter and reward engine. All
// mutation of a single (club, competition) row — the completion check, the
// increment and the point award — runs under that pair's lock, so two
// concurrent qualifying events for the same club can never double-award.
// Completion events are published to the bus outside the lock.
type MissionProgressTracker struct {
	progress     MissionProgressStore
	competitions CompetitionStore
	ledger       ClubLedger
	bus          *CompletionEventBus

	mu        sync.Mutex
	pairLocks map[string]*sync.Mutex
}

func NewMissionProgressTracker(progress MissionProgressStore, competitions CompetitionStore, ledger ClubLedger, bus *CompletionEventBus) *MissionProgressTracker {
	return &MissionProgressTracker{
		progress:     progress,
		competitions: competitions,
		ledger:       ledger,
		bus:          bus,
		pairLocks:    make(map[string]*sync.Mutex),
	}
}

// pairLock returns the mutex serializing all mutation of one (club,
// competition) row. Locks are never evicted; the map grows with the number of
// pairs actually touched, which is bounded by clubs × competitions.
func (t *MissionProgressTracker) pairLock(clubID, competitionID string) *sync.Mutex {
	key := clubID + "|" + competitionID
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.pairLocks[key]
	if !ok {
		l = &sync.Mutex{}
		t.pairLocks[key] = l
	}
	return l
}

// findOrCreate guarantees the one-row-per-pair invariant. Callers must hold
// the pair lock.
func (t *MissionProgressTracker) findOrCreate(clubID, competitionID string) (*models.MissionProgress, error) {
	row, err := t.progress.FindByClubAndCompetition(clubID, competitionID)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	row = &models.MissionProgress{
		ID:            uuid.NewString(),
		ClubID:        clubID,
		CompetitionID: competitionID,
		Progress:      0,
		IsCompleted:   false,
	}
	if err := t.progress.Create(row); err != nil {
		return nil, err
	}
	return row, nil
}

// InitializeForAllClubs creates a zeroed progress row for every known club
// that lacks one for this competition. Idempotent: existing rows are left
// untouched. Fan-out is best-effort per club; failures are collected and
// returned as one joined error so the next sweep can repair stragglers.
func (t *MissionProgressTracker) InitializeForAllClubs(competition *models.Competition) error {
	clubs, err := t.ledger.ListAll()
	if err != nil {
		return err
	}

	var errs []error
	for _, club := range clubs {
		if err := t.initializePair(club.ID, competition.ID); err != nil {
			errs = append(errs, fmt.Errorf("club %s: %w", club.ID, err))
		}
	}
	return errors.Join(errs...)
}

// InitializeForNewClub is the mirror image: a zeroed row for this one club in
// every currently activated competition.
func (t *MissionProgressTracker) InitializeForNewClub(clubID string) error {
	if _, err := t.ledger.GetByID(clubID); err != nil {
		return err
	}

	competitions, err := t.competitions.ListByStatus(models.CompetitionActivated)
	if err != nil {
		return err
	}

	var errs []error
	for _, competition := range competitions {
		if err := t.initializePair(clubID, competition.ID); err != nil {
			errs = append(errs, fmt.Errorf("competition %s: %w", competition.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (t *MissionProgressTracker) initializePair(clubID, competitionID string) error {
	lock := t.pairLock(clubID, competitionID)
	lock.Lock()
	defer lock.Unlock()
	_, err := t.findOrCreate(clubID, competitionID)
	return err
}

// RecordQualifyingEvent advances progress by one on every activated
// competition whose goal type matches. A row that already completed is frozen:
// the event does not increment it and no further reward is possible until a
// lifecycle reset. Crossing the goal flips IsCompleted, credits the club's
// ledger exactly once and publishes the row to the completion bus.
func (t *MissionProgressTracker) RecordQualifyingEvent(clubID string, goalType models.GoalType) error {
	if _, err := t.ledger.GetByID(clubID); err != nil {
		return err
	}

	competitions, err := t.competitions.ListByStatus(models.CompetitionActivated)
	if err != nil {
		return err
	}

	var errs []error
	for _, competition := range competitions {
		if competition.GoalType != goalType {
			continue
		}
		completed, err := t.applyEvent(clubID, &competition)
		if err != nil {
			errs = append(errs, fmt.Errorf("competition %s: %w", competition.ID, err))
			continue
		}
		if completed != nil {
			t.bus.Publish(*completed)
		}
	}
	return errors.Join(errs...)
}

// applyEvent runs the check/increment/award sequence for one pair under its
// lock. Returns the completed row when this event crossed the goal.
func (t *MissionProgressTracker) applyEvent(clubID string, competition *models.Competition) (*models.MissionProgress, error) {
	lock := t.pairLock(clubID, competition.ID)
	lock.Lock()
	defer lock.Unlock()

	row, err := t.findOrCreate(clubID, competition.ID)
	if err != nil {
		return nil, err
	}
	if row.IsCompleted {
		return nil, nil
	}

	row.Progress++
	if row.Progress >= competition.GoalValue {
		now := time.Now()
		row.IsCompleted = true
		row.CompletedAt = &now
	}
	if err := t.progress.Save(row); err != nil {
		return nil, err
	}
	if !row.IsCompleted {
		return nil, nil
	}

	if err := t.ledger.AddPoints(clubID, competition.PointsReward); err != nil {
		return nil, fmt.Errorf("award %d points: %w", competition.PointsReward, err)
	}
	log.Printf("🏆 Mission completed: club=%s competition=%q (+%d points)",
		clubID, competition.Name, competition.PointsReward)

	completed := *row
	return &completed, nil
}

// ResetAll zeroes every progress row of this competition, completed or not.
// Used on deactivation. History is discarded; points already awarded are
// never reversed.
func (t *MissionProgressTracker) ResetAll(competition *models.Competition) error {
	rows, err := t.progress.ListByCompetition(competition.ID)
	if err != nil {
		return err
	}

	var errs []error
	for i := range rows {
		if err := t.resetRow(&rows[i]); err != nil {
			errs = append(errs, fmt.Errorf("club %s: %w", rows[i].ClubID, err))
		}
	}
	return errors.Join(errs...)
}

func (t *MissionProgressTracker) resetRow(row *models.MissionProgress) error {
	lock := t.pairLock(row.ClubID, row.CompetitionID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock: the cached row may be stale against a
	// concurrent qualifying event.
	current, err := t.progress.GetByID(row.ID)
	if err != nil {
		return err
	}
	current.Progress = 0
	current.IsCompleted = false
	current.CompletedAt = nil
	return t.progress.Save(current)
}

// ReinitializeAll restarts the competition from zero on reactivation: every
// existing row is reset (never resumed) and clubs created while the
// competition was down get fresh rows.
func (t *MissionProgressTracker) ReinitializeAll(competition *models.Competition) error {
	if err := t.ResetAll(competition); err != nil {
		return err
	}
	return t.InitializeForAllClubs(competition)
}
