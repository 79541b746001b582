package models

import (
	"time"
)

// MissionProgress is the per-club ledger row for one competition. Exactly one
// row exists per (club, competition) pair; the tracker's find-or-create logic
// enforces this, not a database constraint. Progress only moves forward while
// the competition is activated and the row incomplete; IsCompleted flips
// false→true once and freezes the row until a lifecycle reset.
type MissionProgress struct {
	ID            string `json:"id" gorm:"primaryKey"`
	ClubID        string `json:"club_id" gorm:"index:idx_club_competition;not null"`
	CompetitionID string `json:"competition_id" gorm:"index:idx_club_competition;index;not null"`

	Progress    int64 `json:"progress" gorm:"default:0"`
	IsCompleted bool  `json:"is_completed" gorm:"default:false"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
