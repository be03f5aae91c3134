package entity

// Airline represents an airline entity
type Airline struct {
	ID   uint
	Code string
	Name string
}
