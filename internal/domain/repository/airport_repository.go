package repository

import (
	"context"

	"flightdeals-service/internal/domain/entity"
)

// AirportRepository defines the interface for airport directory lookups
type AirportRepository interface {
	GetByAirportCode(ctx context.Context, code string) (*entity.Airport, error)
}
