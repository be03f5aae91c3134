package main

import (
	"context"
	"fmt"

	domainRepo "flightdeals-service/internal/domain/repository"
	"flightdeals-service/internal/infrastructure/config"
	"flightdeals-service/internal/infrastructure/oauth"
	"flightdeals-service/internal/infrastructure/persistence"
	"flightdeals-service/internal/interface/gmail"
	"flightdeals-service/internal/interface/repository"
	"flightdeals-service/internal/usecase"
	"flightdeals-service/pkg/logger"
	"flightdeals-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/api/option"
)

// app holds the wired deal checker and the resources to release on exit
type app struct {
	checker *usecase.DealChecker
	closers []func(context.Context) error
}

func (a *app) Close(ctx context.Context, log logger.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Error("Shutdown error", "error", err)
		}
	}
}

// newApp builds every repository from cfg. Optional integrations are only
// connected when configured.
func newApp(ctx context.Context, cfg *config.Config, log *logger.ZapLogger, reg prometheus.Registerer) (*app, error) {
	a := &app{}
	httpClient := repository.NewHTTPClient()

	destinationRepo := repository.NewSheetyDestinationRepository(httpClient, cfg.SheetyEndpoint, cfg.SheetyUsername, cfg.SheetyPassword, log)

	amadeusOAuth := oauth.NewAmadeusOAuth(cfg.AmadeusBaseURL, cfg.AmadeusAPIKey, cfg.AmadeusAPISecret, log)
	amadeusClient := repository.NewAmadeusClient(amadeusOAuth.HTTPClient(ctx), cfg.AmadeusBaseURL)
	locationRepo := repository.NewAmadeusLocationRepository(amadeusClient, log)
	flightOfferRepo := repository.NewAmadeusFlightOfferRepository(amadeusClient, cfg.Currency, log)

	whatsappRepo := repository.NewWhatsappRepository(cfg.TwilioSID, cfg.TwilioAuthToken, cfg.TwilioFrom, cfg.TwilioTo, log)

	var (
		airlineRepo domainRepo.AirlineRepository
		airportRepo domainRepo.AirportRepository
	)
	if cfg.DirectoryEnabled() {
		log.Info("Connecting to PostgreSQL directory")
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := gormDB.DB(); err == nil {
			a.closers = append(a.closers, func(context.Context) error { return sqlDB.Close() })
		}
		airlineRepo = repository.NewGormAirlineRepository(gormDB)
		airportRepo = repository.NewGormAirportRepository(gormDB)
	}

	checker := usecase.NewDealChecker(
		destinationRepo,
		locationRepo,
		flightOfferRepo,
		whatsappRepo,
		usecase.NewDealMessageFormatter(airlineRepo, airportRepo, log),
		metrics.NewMetrics("flightdeals", reg),
		log,
		usecase.DealCheckerConfig{
			Origin:       cfg.OriginCityCode,
			ResolveDelay: cfg.ResolveDelay,
		},
	)

	if cfg.DealHistoryEnabled() {
		log.Info("Connecting to MongoDB")
		mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			a.Close(ctx, log)
			return nil, err
		}
		a.closers = append(a.closers, mongoClient.Disconnect)

		dealRecordRepo, err := repository.NewMongoDealRecordRepository(ctx, persistence.GetDatabase(mongoClient, cfg.MongoDB))
		if err != nil {
			a.Close(ctx, log)
			return nil, err
		}
		checker.WithDealHistory(dealRecordRepo)
	}

	if cfg.EmailCopyEnabled() {
		gmailOAuth := oauth.NewGmailOAuth(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, "", log)
		sender, err := gmail.NewGmailSender(ctx, cfg.GmailFrom, cfg.GmailTo, log,
			option.WithTokenSource(gmailOAuth.GetTokenSource(ctx)))
		if err != nil {
			a.Close(ctx, log)
			return nil, fmt.Errorf("gmail sender: %w", err)
		}
		checker.WithEmailCopy(sender)
	}

	a.checker = checker
	return a, nil
}
