package repository

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"flightdeals-service/internal/domain/entity"
	"flightdeals-service/internal/domain/repository"
	"flightdeals-service/pkg/logger"
	"flightdeals-service/pkg/utils"
)

const (
	flightOffersPath = "/v2/shopping/flight-offers"

	searchAdults    = 1
	searchMaxOffers = 5
)

// AmadeusFlightOfferRepository searches one-way offers departing tomorrow
type AmadeusFlightOfferRepository struct {
	api      *AmadeusClient
	currency string
	now      func() time.Time
	logger   logger.Logger
}

// NewAmadeusFlightOfferRepository creates a new offer search priced in currency
func NewAmadeusFlightOfferRepository(api *AmadeusClient, currency string, logger logger.Logger) *AmadeusFlightOfferRepository {
	return &AmadeusFlightOfferRepository{
		api:      api,
		currency: currency,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces the clock used to compute the departure date
func (r *AmadeusFlightOfferRepository) WithClock(now func() time.Time) *AmadeusFlightOfferRepository {
	r.now = now
	return r
}

var _ repository.FlightOfferRepository = (*AmadeusFlightOfferRepository)(nil)

type flightEndpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

type flightOffersResponse struct {
	Data []struct {
		Price struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"price"`
		Itineraries []struct {
			Segments []struct {
				Departure   flightEndpoint `json:"departure"`
				Arrival     flightEndpoint `json:"arrival"`
				CarrierCode string         `json:"carrierCode"`
			} `json:"segments"`
		} `json:"itineraries"`
	} `json:"data"`
}

// FindCheapest returns the first offer the search returns for origin -> destination.
// The service's ordering is trusted as cheapest first. Failures are logged and
// reported as no offer.
func (r *AmadeusFlightOfferRepository) FindCheapest(ctx context.Context, origin, destination string) (*entity.FlightOffer, error) {
	departure := r.now().AddDate(0, 0, 1).Format(utils.DATE_LAYOUT)

	query := url.Values{}
	query.Set("originLocationCode", origin)
	query.Set("destinationLocationCode", destination)
	query.Set("departureDate", departure)
	query.Set("adults", strconv.Itoa(searchAdults))
	query.Set("max", strconv.Itoa(searchMaxOffers))
	query.Set("currencyCode", r.currency)

	var response flightOffersResponse
	if err := r.api.get(ctx, "search flight offers", flightOffersPath, query, &response); err != nil {
		r.logger.Error("Error while fetching flights",
			"origin", origin,
			"destination", destination,
			"error", err)
		return nil, nil
	}

	if len(response.Data) == 0 {
		r.logger.Info("No flights found", "origin", origin, "destination", destination, "departureDate", departure)
		return nil, nil
	}

	first := response.Data[0]
	if len(first.Itineraries) == 0 || len(first.Itineraries[0].Segments) == 0 {
		r.logger.Warn("First offer has no segments", "origin", origin, "destination", destination)
		return nil, nil
	}
	segments := first.Itineraries[0].Segments

	currency := first.Price.Currency
	if currency == "" {
		currency = r.currency
	}

	outDate, _, _ := strings.Cut(segments[0].Departure.At, "T")

	offer := &entity.FlightOffer{
		Price:              first.Price.Total,
		Currency:           currency,
		OriginAirport:      segments[0].Departure.IATACode,
		DestinationAirport: segments[len(segments)-1].Arrival.IATACode,
		OutDate:            outDate,
		ReturnDate:         entity.NoReturnDate,
		CarrierCode:        segments[0].CarrierCode,
		Stops:              len(segments) - 1,
	}

	r.logger.Info("Offer found",
		"origin", offer.OriginAirport,
		"destination", offer.DestinationAirport,
		"price", offer.Price,
		"currency", offer.Currency,
		"outDate", offer.OutDate)

	return offer, nil
}
