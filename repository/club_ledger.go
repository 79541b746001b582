package repository

import (
	"errors"

	"club-management-system/models"
	"club-management-system/services"

	"gorm.io/gorm"
)

// GormClubLedger is the postgres-backed ClubLedger. Balances only ever grow,
// and only through AddPoints.
type GormClubLedger struct {
	DB *gorm.DB
}

func NewGormClubLedger(db *gorm.DB) *GormClubLedger {
	return &GormClubLedger{DB: db}
}

func (l *GormClubLedger) GetByID(id string) (*models.Club, error) {
	var club models.Club
	if err := l.DB.First(&club, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &services.NotFoundError{Kind: "club", ID: id}
		}
		return nil, err
	}
	return &club, nil
}

func (l *GormClubLedger) ListAll() ([]models.Club, error) {
	var clubs []models.Club
	err := l.DB.Find(&clubs).Error
	return clubs, err
}

// AddPoints credits the balance with a single atomic UPDATE so concurrent
// awards for different competitions never lose an increment.
func (l *GormClubLedger) AddPoints(id string, amount int64) error {
	result := l.DB.Model(&models.Club{}).
		Where("id = ?", id).
		UpdateColumn("points", gorm.Expr("points + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &services.NotFoundError{Kind: "club", ID: id}
	}
	return nil
}
