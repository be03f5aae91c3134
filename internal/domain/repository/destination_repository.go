package repository

import (
	"context"

	"flightdeals-service/internal/domain/entity"
)

// DestinationRepository defines the interface for the destination row store
type DestinationRepository interface {
	FetchAll(ctx context.Context) ([]*entity.DestinationRow, error)
	Update(ctx context.Context, row *entity.DestinationRow) error
}
