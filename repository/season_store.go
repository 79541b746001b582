package repository

import (
	"errors"

	"club-management-system/models"
	"club-management-system/services"

	"gorm.io/gorm"
)

// GormSeasonStore is the postgres-backed SeasonStore.
type GormSeasonStore struct {
	DB *gorm.DB
}

func NewGormSeasonStore(db *gorm.DB) *GormSeasonStore {
	return &GormSeasonStore{DB: db}
}

func (s *GormSeasonStore) GetByID(id string) (*models.Season, error) {
	var season models.Season
	if err := s.DB.First(&season, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &services.NotFoundError{Kind: "season", ID: id}
		}
		return nil, err
	}
	return &season, nil
}

func (s *GormSeasonStore) ListAll() ([]models.Season, error) {
	var seasons []models.Season
	err := s.DB.Order("end_date DESC").Find(&seasons).Error
	return seasons, err
}

func (s *GormSeasonStore) Create(season *models.Season) error {
	return s.DB.Create(season).Error
}
