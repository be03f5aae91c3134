package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flightdeals-service/internal/domain/entity"
	"flightdeals-service/internal/domain/repository"
	"flightdeals-service/pkg/logger"
	"flightdeals-service/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// DealCheckerConfig holds the pass settings
type DealCheckerConfig struct {
	// Origin is the IATA code every route departs from
	Origin string
	// ResolveDelay is the pause between two location lookups
	ResolveDelay time.Duration
}

// RunReport summarizes one pass
type RunReport struct {
	RunID          string
	RowsLoaded     int
	CodesResolved  int
	CodesMissing   int
	RowsPersisted  int
	RoutesSearched int
	OffersFound    int
	Notified       int
	Errors         []error
}

// DealChecker runs the load, repair, search and notify pass
type DealChecker struct {
	destinationRepo repository.DestinationRepository
	locationRepo    repository.LocationRepository
	flightOfferRepo repository.FlightOfferRepository
	whatsappRepo    repository.WhatsappRepository
	emailRepo       repository.EmailNotificationRepository
	dealRecordRepo  repository.DealRecordRepository
	formatter       *DealMessageFormatter
	metrics         *metrics.Metrics
	logger          logger.Logger
	cfg             DealCheckerConfig
}

// NewDealChecker creates a new deal checker
func NewDealChecker(
	destinationRepo repository.DestinationRepository,
	locationRepo repository.LocationRepository,
	flightOfferRepo repository.FlightOfferRepository,
	whatsappRepo repository.WhatsappRepository,
	formatter *DealMessageFormatter,
	metrics *metrics.Metrics,
	logger logger.Logger,
	cfg DealCheckerConfig,
) *DealChecker {
	cfg.Origin = strings.ToUpper(cfg.Origin)
	return &DealChecker{
		destinationRepo: destinationRepo,
		locationRepo:    locationRepo,
		flightOfferRepo: flightOfferRepo,
		whatsappRepo:    whatsappRepo,
		formatter:       formatter,
		metrics:         metrics,
		logger:          logger,
		cfg:             cfg,
	}
}

// WithEmailCopy sends a copy of every alert through repo
func (c *DealChecker) WithEmailCopy(repo repository.EmailNotificationRepository) *DealChecker {
	c.emailRepo = repo
	return c
}

// WithDealHistory suppresses alerts that repeat the last one sent for a route
func (c *DealChecker) WithDealHistory(repo repository.DealRecordRepository) *DealChecker {
	c.dealRecordRepo = repo
	return c
}

// Run executes one pass. Loading rows, authenticating against the travel API
// and context cancellation abort the pass; every other failure is collected
// and returned once all rows were handled.
func (c *DealChecker) Run(ctx context.Context) (*RunReport, error) {
	start := time.Now()
	report := &RunReport{RunID: uuid.NewString()}
	log := c.logger.With("runId", report.RunID)
	defer func() {
		c.metrics.PassDuration.Observe(time.Since(start).Seconds())
	}()

	log.Info("Starting deal check", "origin", c.cfg.Origin)

	rows, err := c.destinationRepo.FetchAll(ctx)
	if err != nil {
		c.metrics.ErrorsCount.WithLabelValues("fetch_rows").Inc()
		log.Error("Failed to load destinations", "error", err)
		return report, fmt.Errorf("load destinations: %w", err)
	}
	report.RowsLoaded = len(rows)
	c.metrics.RowsLoaded.Add(float64(len(rows)))

	var errs error

	if err := c.repairCodes(ctx, log, rows, report, &errs); err != nil {
		errs = multierr.Append(errs, err)
		report.Errors = multierr.Errors(errs)
		return report, errs
	}

	c.searchRoutes(ctx, log, rows, report, &errs)

	report.Errors = multierr.Errors(errs)
	log.Info("Deal check finished",
		"rows", report.RowsLoaded,
		"codesResolved", report.CodesResolved,
		"codesMissing", report.CodesMissing,
		"routesSearched", report.RoutesSearched,
		"offersFound", report.OffersFound,
		"notified", report.Notified,
		"errors", len(report.Errors),
		"duration", time.Since(start).String())

	return report, errs
}

// repairCodes resolves codes for rows that lack one and writes them back.
// Rows that already carry a code are left alone.
func (c *DealChecker) repairCodes(ctx context.Context, log logger.Logger, rows []*entity.DestinationRow, report *RunReport, errs *error) error {
	var pending []*entity.DestinationRow
	for _, row := range rows {
		if row.NeedsCode() {
			pending = append(pending, row)
		}
	}
	if len(pending) == 0 {
		log.Info("All destinations have IATA codes")
		return nil
	}

	log.Info("Resolving missing IATA codes", "count", len(pending))

	var resolved []*entity.DestinationRow
	for i, row := range pending {
		if i > 0 {
			if err := sleepContext(ctx, c.cfg.ResolveDelay); err != nil {
				return err
			}
		}

		code, err := c.locationRepo.ResolveCityCode(ctx, row.City)
		if err != nil {
			c.metrics.ErrorsCount.WithLabelValues("resolve_code").Inc()
			if errors.Is(err, entity.ErrAuth) || ctx.Err() != nil {
				log.Error("Code resolution aborted", "city", row.City, "error", err)
				return fmt.Errorf("resolve code for %s: %w", row.City, err)
			}
			log.Warn("Failed to resolve code", "city", row.City, "error", err)
			*errs = multierr.Append(*errs, fmt.Errorf("resolve code for %s: %w", row.City, err))
			continue
		}

		if code == "" {
			report.CodesMissing++
			c.metrics.CodesMissing.Inc()
			continue
		}

		row.IATACode = code
		report.CodesResolved++
		c.metrics.CodesResolved.Inc()
		resolved = append(resolved, row)
	}

	// Persist every resolved row before reporting failures
	for _, row := range resolved {
		if err := c.destinationRepo.Update(ctx, row); err != nil {
			c.metrics.ErrorsCount.WithLabelValues("persist_row").Inc()
			log.Warn("Failed to persist IATA code", "id", row.ID, "city", row.City, "error", err)
			*errs = multierr.Append(*errs, fmt.Errorf("persist row %d: %w", row.ID, err))
			continue
		}
		report.RowsPersisted++
	}

	return nil
}

// searchRoutes looks up the cheapest offer from the origin to every row and
// alerts on offers within the row's target price
func (c *DealChecker) searchRoutes(ctx context.Context, log logger.Logger, rows []*entity.DestinationRow, report *RunReport, errs *error) {
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			*errs = multierr.Append(*errs, err)
			return
		}

		if row.NeedsCode() {
			log.Warn("Skipping destination without IATA code", "id", row.ID, "city", row.City)
			continue
		}

		destination := strings.ToUpper(row.IATACode)
		if destination == c.cfg.Origin {
			log.Debug("Skipping destination equal to origin", "city", row.City)
			continue
		}

		report.RoutesSearched++
		c.metrics.RoutesSearched.Inc()

		offer, err := c.flightOfferRepo.FindCheapest(ctx, c.cfg.Origin, destination)
		if err != nil {
			c.metrics.ErrorsCount.WithLabelValues("search_offers").Inc()
			*errs = multierr.Append(*errs, fmt.Errorf("search %s: %w", entity.RouteKey(c.cfg.Origin, destination), err))
			continue
		}
		if offer == nil {
			log.Info("No flight found, skipping notification", "origin", c.cfg.Origin, "destination", destination)
			continue
		}
		report.OffersFound++
		c.metrics.OffersFound.Inc()

		price, err := offer.PriceValue()
		if err != nil {
			c.metrics.ErrorsCount.WithLabelValues("search_offers").Inc()
			*errs = multierr.Append(*errs, err)
			continue
		}
		if !row.WithinBudget(price) {
			log.Info("Offer above target price",
				"city", row.City,
				"price", offer.Price,
				"lowestPrice", row.LowestPrice)
			continue
		}

		sent, err := c.notify(ctx, log, report.RunID, entity.RouteKey(c.cfg.Origin, destination), offer)
		if err != nil {
			*errs = multierr.Append(*errs, err)
			continue
		}
		if sent {
			report.Notified++
		}
	}
}

// notify sends the alert unless history shows the same deal was already sent
func (c *DealChecker) notify(ctx context.Context, log logger.Logger, runID, routeKey string, offer *entity.FlightOffer) (bool, error) {
	if c.dealRecordRepo != nil {
		last, err := c.dealRecordRepo.FindByRouteKey(ctx, routeKey)
		switch {
		case err == nil && last.SameDeal(offer):
			log.Info("Deal already notified, skipping", "route", routeKey, "price", offer.Price, "outDate", offer.OutDate)
			return false, nil
		case err != nil && !errors.Is(err, entity.ErrNotFound):
			c.metrics.ErrorsCount.WithLabelValues("deal_history").Inc()
			log.Warn("Failed to read deal history", "route", routeKey, "error", err)
		}
	}

	msg := c.formatter.Format(ctx, offer)

	messageID, err := c.whatsappRepo.SendMessage(ctx, msg)
	if err != nil {
		c.metrics.ErrorsCount.WithLabelValues("notify").Inc()
		log.Error("Failed to send WhatsApp alert", "route", routeKey, "error", err)
		return false, fmt.Errorf("notify %s: %w", routeKey, err)
	}
	c.metrics.NotificationsSent.Inc()
	log.Info("Deal alert sent", "route", routeKey, "messageId", messageID, "price", offer.Price)

	if c.emailRepo != nil {
		if _, err := c.emailRepo.SendEmail(ctx, c.formatter.Subject(offer), msg); err != nil {
			c.metrics.ErrorsCount.WithLabelValues("email_copy").Inc()
			log.Warn("Failed to send email copy", "route", routeKey, "error", err)
		}
	}

	if c.dealRecordRepo != nil {
		origin, destination, _ := strings.Cut(routeKey, ":")
		record := &entity.DealRecord{
			RouteKey:    routeKey,
			Origin:      origin,
			Destination: destination,
			Price:       offer.Price,
			Currency:    offer.Currency,
			OutDate:     offer.OutDate,
			ReturnDate:  offer.ReturnDate,
			MessageID:   messageID,
			RunID:       runID,
			NotifiedAt:  time.Now(),
		}
		if err := c.dealRecordRepo.Upsert(ctx, record); err != nil {
			c.metrics.ErrorsCount.WithLabelValues("deal_history").Inc()
			log.Warn("Failed to record deal", "route", routeKey, "error", err)
		}
	}

	return true, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
