package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Sathwik84/charge-ease-find/internal/catalog"
	"github.com/Sathwik84/charge-ease-find/internal/config"
	"github.com/Sathwik84/charge-ease-find/internal/directory"
	httpserver "github.com/Sathwik84/charge-ease-find/internal/http"
	"github.com/Sathwik84/charge-ease-find/internal/http/handlers"
	"github.com/Sathwik84/charge-ease-find/internal/http/middleware"
	"github.com/Sathwik84/charge-ease-find/internal/metrics"
	"github.com/Sathwik84/charge-ease-find/internal/payment"
	"github.com/Sathwik84/charge-ease-find/internal/redisstore"
	"github.com/Sathwik84/charge-ease-find/internal/repository"
	"github.com/Sathwik84/charge-ease-find/internal/service"
	"github.com/Sathwik84/charge-ease-find/internal/ws"
	libdb "github.com/Sathwik84/charge-ease-find/libs/db"
	libredis "github.com/Sathwik84/charge-ease-find/libs/redis"
)

// App wires the charge-ease service graph.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph and performs the initial catalog
// sync.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	recorder, err := metrics.New(nil)
	if err != nil {
		sqlDB.Close()
		redisClient.Close()
		return nil, err
	}

	stationRepo := repository.NewStationRepository(sqlDB)
	snapshot := catalog.NewSnapshot()
	syncCatalog(ctx, cfg, stationRepo, snapshot, logger)

	stationsService := service.NewStationsService(snapshot, recorder, logger)
	selection := service.NewSelectionState()
	hub := ws.NewHub(logger)
	selection.Subscribe(hub)

	gateway := payment.NewStubGateway(cfg.GatewayDelay(), logger)
	sessionCache := redisstore.NewStore(redisClient, cfg.SessionTTL())
	workflow := service.NewBookingWorkflow(
		stationsService,
		gateway,
		sessionCache,
		recorder,
		logger,
		cfg.Booking.UnitsPerHour,
		cfg.ConfirmCloseDelay(),
	)

	selectionHandlers := handlers.NewSelectionHandlers(selection, stationsService)
	bookingHandlers := handlers.NewBookingHandlers(workflow, logger)

	routes := httpserver.Routes{
		Stations:        handlers.NewStationsHandler(stationsService, cfg.Filter.MaxDistanceKm),
		SelectionGet:    selectionHandlers.Get,
		SelectionToggle: selectionHandlers.Toggle,
		SelectionWS:     hub.HandleWS,
		BookingOpen:     bookingHandlers.Open,
		BookingActive:   bookingHandlers.Active,
		BookingSlot:     bookingHandlers.Slot,
		BookingDuration: bookingHandlers.Duration,
		BookingProceed:  bookingHandlers.Proceed,
		BookingMethod:   bookingHandlers.Method,
		BookingConfirm:  bookingHandlers.Confirm,
		BookingBack:     bookingHandlers.Back,
		BookingCancel:   bookingHandlers.Cancel,
		Health:          handlers.NewHealthHandler(),
		Metrics:         metrics.Handler(),
	}

	router := httpserver.NewRouter(routes, middleware.AuthMiddleware(cfg.Auth.JWTSecret))
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// syncCatalog pulls the catalog from the directory service, persisting a
// successful sync and falling back to the stored copy when the directory is
// unreachable.
func syncCatalog(
	ctx context.Context,
	cfg *config.Config,
	repo *repository.StationRepository,
	snapshot *catalog.Snapshot,
	logger *zap.Logger,
) {
	if cfg.Directory.BaseURL != "" {
		client := directory.NewClient(cfg.Directory.BaseURL, cfg.DirectoryTimeout())
		stations, err := client.FetchCatalog(ctx)
		if err == nil {
			accepted, rejected := snapshot.Replace(stations)
			if rejected > 0 {
				logger.Warn("dropped invalid station records from directory sync", zap.Int("rejected", rejected))
			}
			if err := repo.ReplaceAll(ctx, snapshot.Stations()); err != nil {
				logger.Warn("failed to persist catalog sync", zap.Error(err))
			}
			logger.Info("station catalog synced from directory", zap.Int("stations", accepted))
			return
		}
		logger.Warn("directory fetch failed, falling back to stored catalog", zap.Error(err))
	}

	stations, err := repo.List(ctx)
	if err != nil {
		logger.Warn("failed to load stored catalog, starting empty", zap.Error(err))
		return
	}
	accepted, rejected := snapshot.Replace(stations)
	if rejected > 0 {
		logger.Warn("dropped invalid stored station records", zap.Int("rejected", rejected))
	}
	logger.Info("station catalog loaded from storage", zap.Int("stations", accepted))
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
