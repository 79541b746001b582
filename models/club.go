package models

import (
	"time"

	"gorm.io/gorm"
)

// Club is the participating organizational unit. Points is a monotonically
// increasing ledger balance, credited only through the club ledger when a
// mission completes — never debited.
type Club struct {
	ID          string  `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;not null"`
	Description string  `json:"description"`
	LogoURL     *string `json:"logo_url,omitempty"`

	Points      int64 `json:"points" gorm:"default:0"`
	MemberCount int   `json:"member_count" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ClubEvent is an activity a club publishes (a meetup, a party, a workshop).
// Publishing one is the qualifying event for EVENT_COUNT competitions.
type ClubEvent struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	ClubID      string     `json:"club_id" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	HappensAt   *time.Time `json:"happens_at,omitempty"`
	Likes       int64      `json:"likes" gorm:"default:0"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}
