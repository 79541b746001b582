package services

import (
	"errors"
	"fmt"
	"time"

	"club-management-system/models"

	"github.com/google/uuid"
)

// CompetitionRegistry is the single source of truth for a competition's
// declared parameters and its derived lifecycle status. Status transitions
// carry side effects: activation fans out fresh progress rows, deactivation
// resets them, reactivation restarts them from zero.
type CompetitionRegistry struct {
	store   CompetitionStore
	tracker *MissionProgressTracker
}

func NewCompetitionRegistry(store CompetitionStore, tracker *MissionProgressTracker) *CompetitionRegistry {
	return &CompetitionRegistry{store: store, tracker: tracker}
}

// StatusOf derives the lifecycle status purely from the date bounds. A nil
// start means "always started", a nil end means "never over".
func StatusOf(start, end *time.Time, now time.Time) models.CompetitionStatus {
	if start != nil && now.Before(*start) {
		return models.CompetitionScheduled
	}
	if end != nil && now.After(*end) {
		return models.CompetitionDeactivated
	}
	return models.CompetitionActivated
}

// effectiveStatus applies the operator override on top of the date-derived
// status. A manually deactivated competition stays off regardless of dates.
func effectiveStatus(c *models.Competition, now time.Time) models.CompetitionStatus {
	if c.ManuallyDeactivated {
		return models.CompetitionDeactivated
	}
	return StatusOf(c.StartDate, c.EndDate, now)
}

func validateCompetition(c *models.Competition) error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if c.GoalValue <= 0 {
		return &ValidationError{Field: "goal_value", Reason: "must be positive"}
	}
	if c.PointsReward < 0 {
		return &ValidationError{Field: "points_reward", Reason: "must not be negative"}
	}
	if !models.ValidGoalType(c.GoalType) {
		return &ValidationError{Field: "goal_type", Reason: fmt.Sprintf("unknown value %q", c.GoalType)}
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return &ValidationError{Field: "end_date", Reason: "must not precede start_date"}
	}
	return nil
}

// Add validates and persists a new competition. If it is already inside its
// active window, every known club gets a zeroed progress row immediately.
func (r *CompetitionRegistry) Add(c *models.Competition) error {
	if err := validateCompetition(c); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Status = effectiveStatus(c, time.Now())

	if err := r.store.Create(c); err != nil {
		return err
	}

	if c.Status == models.CompetitionActivated {
		return r.tracker.InitializeForAllClubs(c)
	}
	return nil
}

// Update recomputes the status from the new dates, persists, and applies the
// transition side effects against the previously stored status.
func (r *CompetitionRegistry) Update(c *models.Competition) error {
	if err := validateCompetition(c); err != nil {
		return err
	}

	existing, err := r.store.GetByID(c.ID)
	if err != nil {
		return err
	}

	// Date edits never clear an operator override; only Reactivate does.
	c.ManuallyDeactivated = existing.ManuallyDeactivated

	previous := existing.Status
	c.Status = effectiveStatus(c, time.Now())
	if err := r.store.Save(c); err != nil {
		return err
	}

	return r.applyTransition(c, previous)
}

// applyTransition runs the fan-out a status change demands. Staying activated
// still re-runs the idempotent initialization, which is what picks up clubs
// created since the last pass.
func (r *CompetitionRegistry) applyTransition(c *models.Competition, previous models.CompetitionStatus) error {
	switch {
	case previous == models.CompetitionActivated && c.Status == models.CompetitionDeactivated:
		return r.tracker.ResetAll(c)
	case previous == models.CompetitionDeactivated && c.Status == models.CompetitionActivated:
		return r.tracker.ReinitializeAll(c)
	case c.Status == models.CompetitionActivated:
		// scheduled → activated, or unchanged-activated
		return r.tracker.InitializeForAllClubs(c)
	}
	return nil
}

// Sweep re-derives every competition's status as of now and applies the same
// transition logic as Update. Safe to call arbitrarily often; the periodic
// scheduler drives it. Per-competition failures are joined, never fatal to
// the rest of the sweep.
func (r *CompetitionRegistry) Sweep(now time.Time) error {
	competitions, err := r.store.ListAll()
	if err != nil {
		return err
	}

	var errs []error
	for i := range competitions {
		c := &competitions[i]
		previous := c.Status
		next := effectiveStatus(c, now)

		if next != previous {
			c.Status = next
			if err := r.store.Save(c); err != nil {
				errs = append(errs, fmt.Errorf("competition %s: %w", c.ID, err))
				continue
			}
		}
		if err := r.applyTransition(c, previous); err != nil {
			errs = append(errs, fmt.Errorf("competition %s: %w", c.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Deactivate forces a competition off regardless of its dates. The override
// is a separate flag so reactivating later re-derives from the dates instead
// of guessing what the operator meant.
func (r *CompetitionRegistry) Deactivate(id string) error {
	return r.setOverride(id, true)
}

// Reactivate clears the operator override; the status falls back to whatever
// the dates say.
func (r *CompetitionRegistry) Reactivate(id string) error {
	return r.setOverride(id, false)
}

func (r *CompetitionRegistry) setOverride(id string, deactivated bool) error {
	c, err := r.store.GetByID(id)
	if err != nil {
		return err
	}

	previous := c.Status
	c.ManuallyDeactivated = deactivated
	c.Status = effectiveStatus(c, time.Now())
	if err := r.store.Save(c); err != nil {
		return err
	}
	return r.applyTransition(c, previous)
}

// Delete removes the competition record only. Associated progress rows are
// the caller's responsibility.
func (r *CompetitionRegistry) Delete(id string) error {
	if _, err := r.store.GetByID(id); err != nil {
		return err
	}
	return r.store.Delete(id)
}

func (r *CompetitionRegistry) Get(id string) (*models.Competition, error) {
	return r.store.GetByID(id)
}

func (r *CompetitionRegistry) List() ([]models.Competition, error) {
	return r.store.ListAll()
}

func (r *CompetitionRegistry) ListBySeason(seasonID string) ([]models.Competition, error) {
	return r.store.ListBySeason(seasonID)
}
