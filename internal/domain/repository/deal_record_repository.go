package repository

import (
	"context"

	"flightdeals-service/internal/domain/entity"
)

// DealRecordRepository defines the interface for deal history operations
type DealRecordRepository interface {
	FindByRouteKey(ctx context.Context, routeKey string) (*entity.DealRecord, error)
	Upsert(ctx context.Context, record *entity.DealRecord) error
}
