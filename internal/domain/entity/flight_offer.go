package entity

import (
	"fmt"
	"strconv"
)

// NoReturnDate marks a one-way offer
const NoReturnDate = "N/A"

// FlightOffer is the first offer returned for a route
type FlightOffer struct {
	Price              string
	Currency           string
	OriginAirport      string
	DestinationAirport string
	OutDate            string
	ReturnDate         string
	CarrierCode        string
	Stops              int
}

// PriceValue parses the provider's decimal price string
func (f *FlightOffer) PriceValue() (float64, error) {
	v, err := strconv.ParseFloat(f.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid offer price %q: %w", f.Price, err)
	}
	return v, nil
}

// RouteKey identifies the searched route, e.g. "DEL:BOM"
func RouteKey(origin, destination string) string {
	return origin + ":" + destination
}
