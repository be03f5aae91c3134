package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"flightdeals-service/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRunSkipsResolvedRows(t *testing.T) {
	t.Parallel()

	dest := &MockDestinationRepository{FetchAllFunc: rowsOf(
		entity.DestinationRow{ID: 2, City: "Paris", IATACode: "PAR", LowestPrice: 54},
		entity.DestinationRow{ID: 3, City: "Berlin", IATACode: "BER", LowestPrice: 42},
	)}
	loc := &MockLocationRepository{}
	checker := newTestChecker(dest, loc, &MockFlightOfferRepository{}, &MockWhatsappRepository{})

	report, err := checker.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(loc.Cities) != 0 {
		t.Errorf("Expected resolver not to be called, got %v", loc.Cities)
	}
	if len(dest.Updated) != 0 {
		t.Errorf("Expected no persist calls, got %v", dest.Updated)
	}
	if report.RowsLoaded != 2 || report.RoutesSearched != 2 {
		t.Errorf("Unexpected report %+v", report)
	}
}

func TestRunResolvesOnlyMissingCodes(t *testing.T) {
	t.Parallel()

	dest := &MockDestinationRepository{FetchAllFunc: rowsOf(
		entity.DestinationRow{ID: 2, City: "Paris", IATACode: "PAR"},
		entity.DestinationRow{ID: 3, City: "Tokyo"},
		entity.DestinationRow{ID: 4, City: "Atlantis"},
	)}
	loc := &MockLocationRepository{ResolveFunc: func(ctx context.Context, city string) (string, error) {
		if city == "Tokyo" {
			return "TYO", nil
		}
		return "", nil
	}}
	checker := newTestChecker(dest, loc, &MockFlightOfferRepository{}, &MockWhatsappRepository{})

	report, err := checker.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if strings.Join(loc.Cities, ",") != "Tokyo,Atlantis" {
		t.Errorf("Expected lookups for Tokyo and Atlantis only, got %v", loc.Cities)
	}
	if len(dest.Updated) != 1 || dest.Updated[0].ID != 3 || dest.Updated[0].IATACode != "TYO" {
		t.Fatalf("Expected one persist for row 3 with TYO, got %+v", dest.Updated)
	}
	for _, row := range dest.Updated {
		if row.IATACode == "" {
			t.Errorf("Persisted row %d without a code", row.ID)
		}
	}
	if report.CodesResolved != 1 || report.CodesMissing != 1 || report.RowsPersisted != 1 {
		t.Errorf("Unexpected report %+v", report)
	}
}

func TestRunAbortsOnLoadError(t *testing.T) {
	t.Parallel()

	loadErr := &entity.StatusError{Op: "fetch destinations", StatusCode: 500}
	dest := &MockDestinationRepository{FetchAllFunc: func(ctx context.Context) ([]*entity.DestinationRow, error) {
		return nil, loadErr
	}}
	offers := &MockFlightOfferRepository{}
	wa := &MockWhatsappRepository{}
	checker := newTestChecker(dest, &MockLocationRepository{}, offers, wa)

	_, err := checker.Run(context.Background())
	if !errors.Is(err, entity.ErrTransport) {
		t.Fatalf("Expected transport error, got %v", err)
	}
	if len(offers.Routes) != 0 || len(wa.Messages) != 0 {
		t.Error("Expected no search or notification after a load failure")
	}
	if got := testutil.ToFloat64(checker.metrics.ErrorsCount.WithLabelValues("fetch_rows")); got != 1 {
		t.Errorf("Expected fetch_rows error metric 1, got %v", got)
	}
}

func TestRunAbortsOnAuthError(t *testing.T) {
	t.Parallel()

	dest := &MockDestinationRepository{FetchAllFunc: rowsOf(
		entity.DestinationRow{ID: 1, City: "Tokyo"},
		entity.DestinationRow{ID: 2, City: "Paris"},
		entity.DestinationRow{ID: 3, City: "Mumbai", IATACode: "BOM"},
	)}
	loc := &MockLocationRepository{ResolveFunc: func(ctx context.Context, city string) (string, error) {
		return "", &entity.StatusError{Op: "resolve city code", StatusCode: 401}
	}}
	offers := &MockFlightOfferRepository{}
	wa := &MockWhatsappRepository{}
	checker := newTestChecker(dest, loc, offers, wa)

	_, err := checker.Run(context.Background())
	if !errors.Is(err, entity.ErrAuth) {
		t.Fatalf("Expected auth error, got %v", err)
	}
	if len(loc.Cities) != 1 {
		t.Errorf("Expected the pass to stop after the first auth failure, got %v", loc.Cities)
	}
	if len(dest.Updated) != 0 || len(offers.Routes) != 0 || len(wa.Messages) != 0 {
		t.Error("Expected no persist, search or notification after an auth failure")
	}
}

func TestRunCollectsRecoverableErrors(t *testing.T) {
	t.Parallel()

	dest := &MockDestinationRepository{
		FetchAllFunc: rowsOf(
			entity.DestinationRow{ID: 1, City: "Paris"},
			entity.DestinationRow{ID: 2, City: "Berlin"},
			entity.DestinationRow{ID: 3, City: "Rome"},
		),
		UpdateFunc: func(ctx context.Context, row *entity.DestinationRow) error {
			if row.ID == 1 {
				return &entity.StatusError{Op: "update destination 1", StatusCode: 500}
			}
			return nil
		},
	}
	loc := &MockLocationRepository{ResolveFunc: func(ctx context.Context, city string) (string, error) {
		switch city {
		case "Paris":
			return "PAR", nil
		case "Berlin":
			return "", &entity.StatusError{Op: "resolve city code", StatusCode: 502}
		default:
			return "ROM", nil
		}
	}}
	offers := &MockFlightOfferRepository{}
	checker := newTestChecker(dest, loc, offers, &MockWhatsappRepository{})

	report, err := checker.Run(context.Background())
	if err == nil {
		t.Fatal("Expected collected errors")
	}
	if len(report.Errors) != 2 {
		t.Fatalf("Expected 2 collected errors, got %v", report.Errors)
	}
	if len(dest.Updated) != 2 {
		t.Errorf("Expected persist attempts for both resolved rows, got %+v", dest.Updated)
	}
	if report.RowsPersisted != 1 {
		t.Errorf("Expected 1 persisted row, got %d", report.RowsPersisted)
	}
	// The pass continues to search after recoverable failures
	if strings.Join(offers.Routes, ",") != "DEL:PAR,DEL:ROM" {
		t.Errorf("Unexpected searched routes %v", offers.Routes)
	}
}

func TestRunNotifiesOfferWithinBudget(t *testing.T) {
	t.Parallel()

	dest := &MockDestinationRepository{FetchAllFunc: rowsOf(
		entity.DestinationRow{ID: 1, City: "Mumbai", IATACode: "BOM", LowestPrice: 5000},
	)}
	offers := &MockFlightOfferRepository{FindFunc: func(ctx context.Context, origin, destination string) (*entity.FlightOffer, error) {
		return delBomOffer("4999"), nil
	}}
	wa := &MockWhatsappRepository{}
	checker := newTestChecker(dest, &MockLocationRepository{}, offers, wa)

	report, err := checker.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(wa.Messages) != 1 {
		t.Fatalf("Expected one notification, got %d", len(wa.Messages))
	}
	for _, want := range []string{"4999", "DEL", "BOM", "2024-05-01", "N/A"} {
		if !strings.Contains(wa.Messages[0], want) {
			t.Errorf("Expected message to contain %q, got:\n%s", want, wa.Messages[0])
		}
	}
	if report.Notified != 1 || report.OffersFound != 1 {
		t.Errorf("Unexpected report %+v", report)
	}
	if got := testutil.ToFloat64(checker.metrics.NotificationsSent); got != 1 {
		t.Errorf("Expected notifications metric 1, got %v", got)
	}
}

func TestRunSkipsOfferAboveBudget(t *testing.T) {
	t.Parallel()

	dest := &MockDestinationRepository{FetchAllFunc: rowsOf(
		entity.DestinationRow{ID: 1, City: "Mumbai", IATACode: "BOM", LowestPrice: 3000},
	)}
	offers := &MockFlightOfferRepository{FindFunc: func(ctx context.Context, origin, destination string) (*entity.FlightOffer, error) {
		return delBomOffer("4999"), nil
	}}
	wa := &MockWhatsappRepository{}
	checker := newTestChecker(dest, &MockLocationRepository{}, offers, wa)

	report, err := checker.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(wa.Messages) != 0 {
		t.Errorf("Expected no notification, got %v", wa.Messages)
	}
	if report.OffersFound != 1 || report.Notified != 0 {
		t.Errorf("Unexpected report %+v", report)
	}
}

func TestRunWithoutOfferDoesNotNotify(t *testing.T) {
	t.Parallel()

	dest := &MockDestinationRepository{FetchAllFunc: rowsOf(
		entity.DestinationRow{ID: 1, City: "Mumbai", IATACode: "BOM"},
		entity.DestinationRow{ID: 2, City: "Delhi", IATACode: "DEL"},
	)}
	offers := &MockFlightOfferRepository{}
	wa := &MockWhatsappRepository{}
	checker := newTestChecker(dest, &MockLocationRepository{}, offers, wa)

	if _, err := checker.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(wa.Messages) != 0 {
		t.Errorf("Expected no notification, got %v", wa.Messages)
	}
	if strings.Join(offers.Routes, ",") != "DEL:BOM" {
		t.Errorf("Expected origin row to be skipped, got %v", offers.Routes)
	}
}

func TestRunReportsNotifyFailure(t *testing.T) {
	t.Parallel()

	dest := &MockDestinationRepository{FetchAllFunc: rowsOf(
		entity.DestinationRow{ID: 1, City: "Mumbai", IATACode: "BOM"},
		entity.DestinationRow{ID: 2, City: "Goa", IATACode: "GOI"},
	)}
	offers := &MockFlightOfferRepository{FindFunc: func(ctx context.Context, origin, destination string) (*entity.FlightOffer, error) {
		offer := delBomOffer("4999")
		offer.DestinationAirport = destination
		return offer, nil
	}}
	wa := &MockWhatsappRepository{SendFunc: func(ctx context.Context, text string) (string, error) {
		if strings.Contains(text, "BOM") {
			return "", &entity.StatusError{Op: "twilio error 21211", StatusCode: 400}
		}
		return "SM2", nil
	}}
	checker := newTestChecker(dest, &MockLocationRepository{}, offers, wa)

	report, err := checker.Run(context.Background())
	if !errors.Is(err, entity.ErrTransport) {
		t.Fatalf("Expected notify error, got %v", err)
	}
	if len(wa.Messages) != 2 || report.Notified != 1 {
		t.Errorf("Expected the second route to be notified, report %+v", report)
	}
}

func TestRunSkipsDuplicateDeal(t *testing.T) {
	t.Parallel()

	dest := &MockDestinationRepository{FetchAllFunc: rowsOf(
		entity.DestinationRow{ID: 1, City: "Mumbai", IATACode: "BOM"},
	)}
	offers := &MockFlightOfferRepository{FindFunc: func(ctx context.Context, origin, destination string) (*entity.FlightOffer, error) {
		return delBomOffer("4999"), nil
	}}
	wa := &MockWhatsappRepository{}
	history := &MockDealRecordRepository{}
	email := &MockEmailRepository{}
	checker := newTestChecker(dest, &MockLocationRepository{}, offers, wa).
		WithDealHistory(history).
		WithEmailCopy(email)

	first, err := checker.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	second, err := checker.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}

	if first.Notified != 1 || second.Notified != 0 {
		t.Errorf("Expected only the first pass to notify, got %d and %d", first.Notified, second.Notified)
	}
	if len(wa.Messages) != 1 || len(email.Subjects) != 1 {
		t.Errorf("Expected one WhatsApp alert and one email copy, got %d and %d", len(wa.Messages), len(email.Subjects))
	}

	record := history.Records["DEL:BOM"]
	if record == nil {
		t.Fatal("Expected deal record for DEL:BOM")
	}
	if record.MessageID != "SM123" || record.RunID != first.RunID || record.Price != "4999" {
		t.Errorf("Unexpected deal record %+v", record)
	}
}

func TestRunNotifiesCheaperDealAgain(t *testing.T) {
	t.Parallel()

	dest := &MockDestinationRepository{FetchAllFunc: rowsOf(
		entity.DestinationRow{ID: 1, City: "Mumbai", IATACode: "BOM"},
	)}
	offers := &MockFlightOfferRepository{FindFunc: func(ctx context.Context, origin, destination string) (*entity.FlightOffer, error) {
		return delBomOffer("4500"), nil
	}}
	wa := &MockWhatsappRepository{}
	history := &MockDealRecordRepository{Records: map[string]*entity.DealRecord{
		"DEL:BOM": {RouteKey: "DEL:BOM", Price: "4999", OutDate: "2024-05-01", ReturnDate: entity.NoReturnDate},
	}}
	checker := newTestChecker(dest, &MockLocationRepository{}, offers, wa).WithDealHistory(history)

	if _, err := checker.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(wa.Messages) != 1 {
		t.Errorf("Expected a new alert for the cheaper deal, got %d", len(wa.Messages))
	}
	if history.Records["DEL:BOM"].Price != "4500" {
		t.Errorf("Expected history to hold the new price, got %s", history.Records["DEL:BOM"].Price)
	}
}

func TestRunEmailAndHistoryFailuresAreNotFatal(t *testing.T) {
	t.Parallel()

	dest := &MockDestinationRepository{FetchAllFunc: rowsOf(
		entity.DestinationRow{ID: 1, City: "Mumbai", IATACode: "BOM"},
	)}
	offers := &MockFlightOfferRepository{FindFunc: func(ctx context.Context, origin, destination string) (*entity.FlightOffer, error) {
		return delBomOffer("4999"), nil
	}}
	history := &MockDealRecordRepository{FindErr: errors.New("mongo down"), UpsertErr: errors.New("mongo down")}
	email := &MockEmailRepository{SendFunc: func(ctx context.Context, subject, body string) (string, error) {
		return "", errors.New("quota exceeded")
	}}
	wa := &MockWhatsappRepository{}
	checker := newTestChecker(dest, &MockLocationRepository{}, offers, wa).
		WithDealHistory(history).
		WithEmailCopy(email)

	report, err := checker.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Notified != 1 {
		t.Errorf("Expected the WhatsApp alert to count, got %+v", report)
	}
}

func TestRunHonoursResolveDelayCancellation(t *testing.T) {
	t.Parallel()

	dest := &MockDestinationRepository{FetchAllFunc: rowsOf(
		entity.DestinationRow{ID: 1, City: "Paris"},
		entity.DestinationRow{ID: 2, City: "Rome"},
	)}
	ctx, cancel := context.WithCancel(context.Background())
	loc := &MockLocationRepository{ResolveFunc: func(context.Context, string) (string, error) {
		cancel()
		return "PAR", nil
	}}
	checker := newTestChecker(dest, loc, &MockFlightOfferRepository{}, &MockWhatsappRepository{})
	checker.cfg.ResolveDelay = time.Hour

	_, err := checker.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if len(loc.Cities) != 1 {
		t.Errorf("Expected a single lookup before cancellation, got %v", loc.Cities)
	}
}

func TestSleepContext(t *testing.T) {
	t.Parallel()

	if err := sleepContext(context.Background(), 0); err != nil {
		t.Errorf("Expected nil for zero delay, got %v", err)
	}
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Expected nil after short delay, got %v", err)
	}
}
