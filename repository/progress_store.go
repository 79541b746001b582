package repository

import (
	"errors"

	"club-management-system/models"
	"club-management-system/services"

	"gorm.io/gorm"
)

// GormMissionProgressStore is the postgres-backed MissionProgressStore.
type GormMissionProgressStore struct {
	DB *gorm.DB
}

func NewGormMissionProgressStore(db *gorm.DB) *GormMissionProgressStore {
	return &GormMissionProgressStore{DB: db}
}

func (s *GormMissionProgressStore) GetByID(id string) (*models.MissionProgress, error) {
	var row models.MissionProgress
	if err := s.DB.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &services.NotFoundError{Kind: "mission progress", ID: id}
		}
		return nil, err
	}
	return &row, nil
}

func (s *GormMissionProgressStore) FindByClubAndCompetition(clubID, competitionID string) (*models.MissionProgress, error) {
	var row models.MissionProgress
	err := s.DB.Where("club_id = ? AND competition_id = ?", clubID, competitionID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &services.NotFoundError{Kind: "mission progress", ID: clubID + "/" + competitionID}
		}
		return nil, err
	}
	return &row, nil
}

func (s *GormMissionProgressStore) ListByClub(clubID string) ([]models.MissionProgress, error) {
	var rows []models.MissionProgress
	err := s.DB.Where("club_id = ?", clubID).Find(&rows).Error
	return rows, err
}

func (s *GormMissionProgressStore) ListByCompetition(competitionID string) ([]models.MissionProgress, error) {
	var rows []models.MissionProgress
	err := s.DB.Where("competition_id = ?", competitionID).Find(&rows).Error
	return rows, err
}

func (s *GormMissionProgressStore) Create(progress *models.MissionProgress) error {
	return s.DB.Create(progress).Error
}

func (s *GormMissionProgressStore) Save(progress *models.MissionProgress) error {
	return s.DB.Save(progress).Error
}

func (s *GormMissionProgressStore) DeleteByCompetition(competitionID string) error {
	return s.DB.Where("competition_id = ?", competitionID).Delete(&models.MissionProgress{}).Error
}

func (s *GormMissionProgressStore) DeleteByClub(clubID string) error {
	return s.DB.Where("club_id = ?", clubID).Delete(&models.MissionProgress{}).Error
}
