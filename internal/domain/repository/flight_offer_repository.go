package repository

import (
	"context"

	"flightdeals-service/internal/domain/entity"
)

// FlightOfferRepository searches the cheapest one-way offer for a route.
// A nil offer means nothing was found or the search failed.
type FlightOfferRepository interface {
	FindCheapest(ctx context.Context, origin, destination string) (*entity.FlightOffer, error)
}
