package usecase

import (
	"context"
	"strings"
	"testing"

	"flightdeals-service/internal/domain/entity"
	"flightdeals-service/pkg/logger"
)

func TestFormatPlainMessage(t *testing.T) {
	t.Parallel()

	f := NewDealMessageFormatter(nil, nil, logger.NewNopLogger())
	msg := f.Format(context.Background(), delBomOffer("4999"))

	want := "✈️ Low Price Alert!\n" +
		"Only ₹4999 to fly from DEL to BOM.\n" +
		"Departure: 2024-05-01 | Return: N/A\n" +
		"Book now!"
	if msg != want {
		t.Errorf("Unexpected message:\n%s\nwant:\n%s", msg, want)
	}
}

func TestFormatWithDirectory(t *testing.T) {
	t.Parallel()

	airlines := &MockAirlineRepository{Airlines: map[string]string{"6E": "IndiGo"}}
	airports := &MockAirportRepository{Airports: map[string]*entity.Airport{
		"DEL": {AirportCode: "DEL", AirportName: "Indira Gandhi Intl", CityName: "Delhi"},
	}}
	f := NewDealMessageFormatter(airlines, airports, logger.NewNopLogger())

	offer := delBomOffer("4999")
	offer.Stops = 1
	msg := f.Format(context.Background(), offer)

	for _, want := range []string{
		"from DEL (Indira Gandhi Intl, Delhi) to BOM.",
		"Airline: IndiGo (6E)\n",
		"Stops: 1\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected message to contain %q, got:\n%s", want, msg)
		}
	}
}

func TestFormatUnknownAirline(t *testing.T) {
	t.Parallel()

	f := NewDealMessageFormatter(&MockAirlineRepository{}, nil, logger.NewNopLogger())
	msg := f.Format(context.Background(), delBomOffer("4999"))

	if strings.Contains(msg, "Airline:") {
		t.Errorf("Expected no airline line, got:\n%s", msg)
	}
}

func TestSubject(t *testing.T) {
	t.Parallel()

	f := NewDealMessageFormatter(nil, nil, logger.NewNopLogger())
	if got := f.Subject(delBomOffer("4999")); got != "Low Price Alert: DEL to BOM" {
		t.Errorf("Unexpected subject %q", got)
	}
}
