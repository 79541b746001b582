package services

import (
	"club-management-system/models"
)

// ClubLedger is the narrow contract over club records and their point
// balances. AddPoints is the only way a balance changes.
type ClubLedger interface {
	// GetByID retrieves a club by ID
	GetByID(id string) (*models.Club, error)

	// ListAll retrieves every known club
	ListAll() ([]models.Club, error)

	// AddPoints credits amount to the club's balance atomically
	AddPoints(id string, amount int64) error
}

// CompetitionStore persists competition records.
type CompetitionStore interface {
	GetByID(id string) (*models.Competition, error)
	ListAll() ([]models.Competition, error)
	ListBySeason(seasonID string) ([]models.Competition, error)
	ListByStatus(status models.CompetitionStatus) ([]models.Competition, error)
	Create(competition *models.Competition) error
	Save(competition *models.Competition) error
	Delete(id string) error
}

// MissionProgressStore persists the per-(club, competition) progress rows.
type MissionProgressStore interface {
	GetByID(id string) (*models.MissionProgress, error)
	FindByClubAndCompetition(clubID, competitionID string) (*models.MissionProgress, error)
	ListByClub(clubID string) ([]models.MissionProgress, error)
	ListByCompetition(competitionID string) ([]models.MissionProgress, error)
	Create(progress *models.MissionProgress) error
	Save(progress *models.MissionProgress) error
	DeleteByCompetition(competitionID string) error
	DeleteByClub(clubID string) error
}

// SeasonStore persists season records. Seasons are read-side grouping only;
// the gamification engine never mutates them.
type SeasonStore interface {
	GetByID(id string) (*models.Season, error)
	ListAll() ([]models.Season, error)
	Create(season *models.Season) error
}
