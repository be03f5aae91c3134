package entity

// Airport holds the directory entry for an airport code
type Airport struct {
	ID          uint
	AirportCode string
	AirportName string
	CityCode    string
	CityName    string
	TzName      string
}
