package repository

import (
	"context"

	"flightdeals-service/internal/domain/entity"
	"flightdeals-service/internal/domain/repository"

	"gorm.io/gorm"
)

const airportsTable = "m_timezone_list"

// GormAirportRepository reads airport names from the timezone list table
type GormAirportRepository struct {
	db *gorm.DB
}

// NewGormAirportRepository creates a new GORM airport repository
func NewGormAirportRepository(db *gorm.DB) repository.AirportRepository {
	return &GormAirportRepository{
		db: db,
	}
}

type airportRow struct {
	ID          uint   `gorm:"primaryKey"`
	AirportCode string `gorm:"column:airportcode"`
	AirportName string `gorm:"column:airport_name"`
	CityCode    string `gorm:"column:citycode"`
	CityName    string `gorm:"column:cityname"`
	TzName      string `gorm:"column:tzname"`
}

func (airportRow) TableName() string {
	return airportsTable
}

func (a *airportRow) toEntity() *entity.Airport {
	return &entity.Airport{
		ID:          a.ID,
		AirportCode: a.AirportCode,
		AirportName: a.AirportName,
		CityCode:    a.CityCode,
		CityName:    a.CityName,
		TzName:      a.TzName,
	}
}

// GetByAirportCode finds an airport by IATA code.
// It returns entity.ErrNotFound for unknown airports.
func (r *GormAirportRepository) GetByAirportCode(ctx context.Context, code string) (*entity.Airport, error) {
	var row airportRow
	if err := r.db.WithContext(ctx).Scopes(byColumn("airportcode", code)).First(&row).Error; err != nil {
		return nil, directoryError(airportsTable, code, err)
	}
	return row.toEntity(), nil
}
