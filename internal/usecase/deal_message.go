package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"flightdeals-service/internal/domain/entity"
	"flightdeals-service/internal/domain/repository"
	"flightdeals-service/pkg/logger"
	"flightdeals-service/pkg/utils"
)

// DealMessageFormatter renders alert text. The airline and airport
// repositories are optional and only add names to the message.
type DealMessageFormatter struct {
	airlineRepo repository.AirlineRepository
	airportRepo repository.AirportRepository
	logger      logger.Logger
}

// NewDealMessageFormatter creates a new formatter; either repository may be nil
func NewDealMessageFormatter(
	airlineRepo repository.AirlineRepository,
	airportRepo repository.AirportRepository,
	logger logger.Logger,
) *DealMessageFormatter {
	return &DealMessageFormatter{
		airlineRepo: airlineRepo,
		airportRepo: airportRepo,
		logger:      logger,
	}
}

// Format builds the WhatsApp alert for offer
func (f *DealMessageFormatter) Format(ctx context.Context, offer *entity.FlightOffer) string {
	var extra strings.Builder

	if name := f.airlineName(ctx, offer.CarrierCode); name != "" {
		fmt.Fprintf(&extra, "Airline: %s (%s)\n", name, offer.CarrierCode)
	}
	if offer.Stops > 0 {
		fmt.Fprintf(&extra, "Stops: %d\n", offer.Stops)
	}

	return fmt.Sprintf(utils.MSG_TEMPLATE,
		utils.FormatPrice(offer.Currency, offer.Price),
		f.airportLabel(ctx, offer.OriginAirport),
		f.airportLabel(ctx, offer.DestinationAirport),
		offer.OutDate,
		offer.ReturnDate,
		extra.String(),
	)
}

// Subject builds the email subject for offer
func (f *DealMessageFormatter) Subject(offer *entity.FlightOffer) string {
	return fmt.Sprintf(utils.SUBJECT_TEMPLATE, offer.OriginAirport, offer.DestinationAirport)
}

func (f *DealMessageFormatter) airlineName(ctx context.Context, code string) string {
	if f.airlineRepo == nil || code == "" {
		return ""
	}

	airline, err := f.airlineRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			f.logger.Debug("Airline not in directory", "code", code)
		} else {
			f.logger.Warn("Airline directory lookup failed", "code", code, "error", err)
		}
		return ""
	}
	return airline.Name
}

// airportLabel returns "DEL" or, with a directory entry, "DEL (Indira Gandhi Intl, Delhi)"
func (f *DealMessageFormatter) airportLabel(ctx context.Context, code string) string {
	if f.airportRepo == nil || code == "" {
		return code
	}

	airport, err := f.airportRepo.GetByAirportCode(ctx, code)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			f.logger.Debug("Airport not in directory", "code", code)
		} else {
			f.logger.Warn("Airport directory lookup failed", "code", code, "error", err)
		}
		return code
	}

	switch {
	case airport.AirportName != "" && airport.CityName != "":
		return fmt.Sprintf("%s (%s, %s)", code, airport.AirportName, airport.CityName)
	case airport.AirportName != "":
		return fmt.Sprintf("%s (%s)", code, airport.AirportName)
	default:
		return code
	}
}
