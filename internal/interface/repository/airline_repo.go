package repository

import (
	"context"

	"flightdeals-service/internal/domain/entity"
	"flightdeals-service/internal/domain/repository"

	"gorm.io/gorm"
)

const airlinesTable = "m_airlines"

// GormAirlineRepository resolves carrier codes to airline names
type GormAirlineRepository struct {
	db *gorm.DB
}

// NewGormAirlineRepository creates a new GORM airline repository
func NewGormAirlineRepository(db *gorm.DB) repository.AirlineRepository {
	return &GormAirlineRepository{
		db: db,
	}
}

// airlineRow reads the columns of m_airlines a message needs.
// Soft-deleted carriers still resolve since the model has no DeletedAt.
type airlineRow struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"column:code"`
	Name string `gorm:"column:name"`
}

func (airlineRow) TableName() string {
	return airlinesTable
}

func (a *airlineRow) toEntity() *entity.Airline {
	return &entity.Airline{
		ID:   a.ID,
		Code: a.Code,
		Name: a.Name,
	}
}

// GetByCode finds an airline by its two-letter carrier code.
// It returns entity.ErrNotFound for unknown carriers.
func (r *GormAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	var row airlineRow
	if err := r.db.WithContext(ctx).Scopes(byColumn("code", code)).First(&row).Error; err != nil {
		return nil, directoryError(airlinesTable, code, err)
	}
	return row.toEntity(), nil
}
