package models

import (
	"time"
)

// CompetitionStatus is derived from the competition dates. A competition is
// scheduled before its start date, activated between start and end, and
// deactivated after the end date passes or when an operator forces it off.
type CompetitionStatus string

const (
	CompetitionScheduled   CompetitionStatus = "scheduled"
	CompetitionActivated   CompetitionStatus = "activated"
	CompetitionDeactivated CompetitionStatus = "deactivated"
)

// GoalType is the category of countable activity a competition measures.
// Only EVENT_COUNT currently has a trigger path (clubs publishing events);
// EVENT_LIKES and MEMBER_COUNT exist for upcoming trigger sources.
type GoalType string

const (
	GoalEventCount  GoalType = "EVENT_COUNT"
	GoalEventLikes  GoalType = "EVENT_LIKES"
	GoalMemberCount GoalType = "MEMBER_COUNT"
)

// ValidGoalType reports whether gt is one of the known goal types.
func ValidGoalType(gt GoalType) bool {
	switch gt {
	case GoalEventCount, GoalEventLikes, GoalMemberCount:
		return true
	}
	return false
}

// Competition represents a time-boxed mission clubs complete by accumulating
// progress toward GoalValue. Nil StartDate/EndDate mean unbounded.
type Competition struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null"`
	Description  string     `json:"description"`
	PointsReward int64      `json:"points_reward" gorm:"default:0"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	GoalType     GoalType   `json:"goal_type" gorm:"type:varchar(16);not null"`
	GoalValue    int64      `json:"goal_value" gorm:"not null"`
	SeasonID     string     `json:"season_id,omitempty" gorm:"index"`

	// Status is the persisted lifecycle state, refreshed on every update and
	// by the periodic sweep. ManuallyDeactivated is kept separate so an
	// operator shutdown is not confused with the end date passing.
	Status              CompetitionStatus `json:"status" gorm:"type:varchar(16);default:'scheduled'"`
	ManuallyDeactivated bool              `json:"manually_deactivated" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Season *Season `json:"season,omitempty" gorm:"foreignKey:SeasonID"`

	// Calculated fields (not stored in DB)
	ParticipantCount int64 `json:"participant_count,omitempty" gorm:"-"`
}

// Season is a time-bounded grouping of competitions used for read-side
// aggregation. The "current" season is the one with the latest end date.
type Season struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
