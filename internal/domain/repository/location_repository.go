package repository

import "context"

// LocationRepository resolves city names to IATA codes.
// An empty code with a nil error means the city is unknown.
type LocationRepository interface {
	ResolveCityCode(ctx context.Context, city string) (string, error)
}
