package repository

import (
	"errors"

	"club-management-system/models"
	"club-management-system/services"

	"gorm.io/gorm"
)

// GormCompetitionStore is the postgres-backed CompetitionStore.
type GormCompetitionStore struct {
	DB *gorm.DB
}

func NewGormCompetitionStore(db *gorm.DB) *GormCompetitionStore {
	return &GormCompetitionStore{DB: db}
}

func (s *GormCompetitionStore) GetByID(id string) (*models.Competition, error) {
	var competition models.Competition
	if err := s.DB.First(&competition, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &services.NotFoundError{Kind: "competition", ID: id}
		}
		return nil, err
	}
	return &competition, nil
}

func (s *GormCompetitionStore) ListAll() ([]models.Competition, error) {
	var competitions []models.Competition
	err := s.DB.Order("created_at ASC").Find(&competitions).Error
	return competitions, err
}

func (s *GormCompetitionStore) ListBySeason(seasonID string) ([]models.Competition, error) {
	var competitions []models.Competition
	err := s.DB.Where("season_id = ?", seasonID).Order("created_at ASC").Find(&competitions).Error
	return competitions, err
}

func (s *GormCompetitionStore) ListByStatus(status models.CompetitionStatus) ([]models.Competition, error) {
	var competitions []models.Competition
	err := s.DB.Where("status = ?", status).Order("created_at ASC").Find(&competitions).Error
	return competitions, err
}

func (s *GormCompetitionStore) Create(competition *models.Competition) error {
	return s.DB.Create(competition).Error
}

func (s *GormCompetitionStore) Save(competition *models.Competition) error {
	return s.DB.Save(competition).Error
}

func (s *GormCompetitionStore) Delete(id string) error {
	result := s.DB.Delete(&models.Competition{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &services.NotFoundError{Kind: "competition", ID: id}
	}
	return nil
}
