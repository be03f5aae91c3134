package usecase

import (
	"context"
	"sync"

	"flightdeals-service/internal/domain/entity"
	"flightdeals-service/pkg/logger"
	"flightdeals-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// MockDestinationRepository records every Update call
type MockDestinationRepository struct {
	FetchAllFunc func(ctx context.Context) ([]*entity.DestinationRow, error)
	UpdateFunc   func(ctx context.Context, row *entity.DestinationRow) error

	mu      sync.Mutex
	Updated []entity.DestinationRow
}

func (m *MockDestinationRepository) FetchAll(ctx context.Context) ([]*entity.DestinationRow, error) {
	if m.FetchAllFunc != nil {
		return m.FetchAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockDestinationRepository) Update(ctx context.Context, row *entity.DestinationRow) error {
	m.mu.Lock()
	m.Updated = append(m.Updated, *row)
	m.mu.Unlock()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, row)
	}
	return nil
}

// MockLocationRepository records the cities it was asked for
type MockLocationRepository struct {
	ResolveFunc func(ctx context.Context, city string) (string, error)

	mu     sync.Mutex
	Cities []string
}

func (m *MockLocationRepository) ResolveCityCode(ctx context.Context, city string) (string, error) {
	m.mu.Lock()
	m.Cities = append(m.Cities, city)
	m.mu.Unlock()
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, city)
	}
	return "", nil
}

// MockFlightOfferRepository records searched routes
type MockFlightOfferRepository struct {
	FindFunc func(ctx context.Context, origin, destination string) (*entity.FlightOffer, error)

	mu     sync.Mutex
	Routes []string
}

func (m *MockFlightOfferRepository) FindCheapest(ctx context.Context, origin, destination string) (*entity.FlightOffer, error) {
	m.mu.Lock()
	m.Routes = append(m.Routes, entity.RouteKey(origin, destination))
	m.mu.Unlock()
	if m.FindFunc != nil {
		return m.FindFunc(ctx, origin, destination)
	}
	return nil, nil
}

// MockWhatsappRepository records sent messages
type MockWhatsappRepository struct {
	SendFunc func(ctx context.Context, text string) (string, error)

	mu       sync.Mutex
	Messages []string
}

func (m *MockWhatsappRepository) SendMessage(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.Messages = append(m.Messages, text)
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(ctx, text)
	}
	return "SM123", nil
}

// MockEmailRepository records sent subjects
type MockEmailRepository struct {
	SendFunc func(ctx context.Context, subject, body string) (string, error)
	Subjects []string
}

func (m *MockEmailRepository) SendEmail(ctx context.Context, subject, body string) (string, error) {
	m.Subjects = append(m.Subjects, subject)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, subject, body)
	}
	return "email-1", nil
}

// MockDealRecordRepository is an in-memory deal history
type MockDealRecordRepository struct {
	FindErr   error
	UpsertErr error
	Records   map[string]*entity.DealRecord
}

func (m *MockDealRecordRepository) FindByRouteKey(ctx context.Context, routeKey string) (*entity.DealRecord, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	if record, ok := m.Records[routeKey]; ok {
		return record, nil
	}
	return nil, entity.ErrNotFound
}

func (m *MockDealRecordRepository) Upsert(ctx context.Context, record *entity.DealRecord) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	if m.Records == nil {
		m.Records = make(map[string]*entity.DealRecord)
	}
	m.Records[record.RouteKey] = record
	return nil
}

// MockAirlineRepository serves a fixed airline table
type MockAirlineRepository struct {
	Airlines map[string]string
}

func (m *MockAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	name, ok := m.Airlines[code]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &entity.Airline{Code: code, Name: name}, nil
}

// MockAirportRepository serves a fixed airport table
type MockAirportRepository struct {
	Airports map[string]*entity.Airport
}

func (m *MockAirportRepository) GetByAirportCode(ctx context.Context, code string) (*entity.Airport, error) {
	airport, ok := m.Airports[code]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return airport, nil
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics("test", prometheus.NewRegistry())
}

func newTestChecker(dest *MockDestinationRepository, loc *MockLocationRepository, offers *MockFlightOfferRepository, wa *MockWhatsappRepository) *DealChecker {
	log := logger.NewNopLogger()
	return NewDealChecker(dest, loc, offers, wa,
		NewDealMessageFormatter(nil, nil, log),
		newTestMetrics(),
		log,
		DealCheckerConfig{Origin: "DEL"},
	)
}

func rowsOf(rows ...entity.DestinationRow) func(ctx context.Context) ([]*entity.DestinationRow, error) {
	return func(ctx context.Context) ([]*entity.DestinationRow, error) {
		out := make([]*entity.DestinationRow, len(rows))
		for i := range rows {
			row := rows[i]
			out[i] = &row
		}
		return out, nil
	}
}

func delBomOffer(price string) *entity.FlightOffer {
	return &entity.FlightOffer{
		Price:              price,
		Currency:           "INR",
		OriginAirport:      "DEL",
		DestinationAirport: "BOM",
		OutDate:            "2024-05-01",
		ReturnDate:         entity.NoReturnDate,
		CarrierCode:        "6E",
	}
}
