// internal/domain/entity/deal_record.go
package entity

import "time"

// DealRecord is the last alert sent for a route
type DealRecord struct {
	ID          string    `bson:"_id,omitempty"`
	RouteKey    string    `bson:"routeKey"` // {origin}:{destination} - unique index
	Origin      string    `bson:"origin"`
	Destination string    `bson:"destination"`
	Price       string    `bson:"price"`
	Currency    string    `bson:"currency"`
	OutDate     string    `bson:"outDate"`
	ReturnDate  string    `bson:"returnDate"`
	MessageID   string    `bson:"messageId"`
	RunID       string    `bson:"runId"`
	NotifiedAt  time.Time `bson:"notifiedAt"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// SameDeal reports whether offer repeats the price and dates already alerted
func (r *DealRecord) SameDeal(offer *FlightOffer) bool {
	return r.Price == offer.Price && r.OutDate == offer.OutDate && r.ReturnDate == offer.ReturnDate
}
