package entity

import "fmt"

// DestinationRow is one row of the destination sheet
type DestinationRow struct {
	ID          int     `json:"id"`
	City        string  `json:"city"`
	IATACode    string  `json:"iataCode"`
	LowestPrice float64 `json:"lowestPrice"`
}

// NeedsCode reports whether the row still lacks an IATA code
func (d *DestinationRow) NeedsCode() bool {
	return d.IATACode == ""
}

// WithinBudget reports whether price is at or under the row's target price.
// A row without a positive target accepts any price.
func (d *DestinationRow) WithinBudget(price float64) bool {
	if d.LowestPrice <= 0 {
		return true
	}
	return price <= d.LowestPrice
}

// String renders the row as "City (CODE) - price" for logs
func (d *DestinationRow) String() string {
	return fmt.Sprintf("%s (%s) - %.2f", d.City, d.IATACode, d.LowestPrice)
}
