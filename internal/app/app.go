package app

import (
	"context"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	trmanager "github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"eventhive/internal/application/attempts"
	"eventhive/internal/application/usecases/booking"
	"eventhive/internal/application/usecases/bookingflow"
	"eventhive/internal/application/usecases/tickets"
	"eventhive/internal/config"
	"eventhive/internal/infrastructure/clients"
	"eventhive/internal/infrastructure/payments"
	"eventhive/internal/interfaces/events"
	"eventhive/internal/interfaces/http"
	"eventhive/internal/interfaces/message"
	"eventhive/internal/outbox"
	"eventhive/internal/repository"
)

type App struct {
	watermillLogger watermill.LoggerAdapter
	logger          zerolog.Logger

	router    *watermillMessage.Router
	forwarder *outbox.Forwarder
	srv       *http.Server
	registry  *attempts.Registry
	db        *sqlx.DB
}

func NewApp(
	watermillLogger watermill.LoggerAdapter,
	cfg *config.Config,
	paymentsProvider *payments.Provider,
	paymentsCoordinator *payments.Coordinator,
	documentStore *clients.DocumentStoreClient,
	redisClient *redis.Client,
	db *sqlx.DB,
) (*App, error) {
	eventsRepo := repository.NewEventsRepo(db)
	bookingsRepo := repository.NewBookingsRepo(db)
	datalakeRepo := repository.NewDatalakeRepo(db)

	trManager := trmanager.Must(trmsqlx.NewDefaultFactory(db))

	redisPublisher, err := outbox.NewRedisPublisher(watermillLogger, redisClient)
	if err != nil {
		return nil, err
	}

	eventBus, err := events.NewEventBus(redisPublisher, watermillLogger)
	if err != nil {
		return nil, err
	}

	issueTicket := tickets.NewIssueTicketUsecase(documentStore, eventBus)

	createBooking := booking.NewCreateBookingUsecase(
		bookingsRepo,
		trManager,
		trmsqlx.DefaultCtxGetter,
		watermillLogger,
	)

	flow := bookingflow.NewFlow(
		eventsRepo,
		paymentsProvider,
		createBooking,
		issueTicket,
		paymentsProvider,
		cfg.CheckoutTimeout,
	)

	registry := attempts.NewRegistry()

	eventHandler := events.NewHandler(issueTicket, bookingsRepo, eventsRepo)

	router, err := message.NewRouter(watermillLogger, redisClient, eventHandler, datalakeRepo)
	if err != nil {
		return nil, err
	}

	forwarder, err := outbox.NewForwarder(db, redisClient, watermillLogger)
	if err != nil {
		return nil, err
	}

	srv := http.NewServer(
		cfg.HTTPAddr,
		flow,
		registry,
		paymentsCoordinator,
		cfg.Payments.WebhookSecret,
		eventsRepo,
		bookingsRepo,
		router.IsRunning,
	)

	return &App{
		watermillLogger: watermillLogger,
		logger:          zerolog.New(os.Stdout),
		router:          router,
		forwarder:       forwarder,
		srv:             srv,
		registry:        registry,
		db:              db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := repository.InitializeDBSchema(a.db)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info().Msg("starting router")

		return a.router.Run(ctx)
	})

	g.Go(func() error {
		a.logger.Info().Msg("starting outbox forwarder")

		return a.forwarder.Run(ctx)
	})

	g.Go(func() error {
		<-a.router.Running()
		a.logger.Info().Msg("router is running")

		a.logger.Info().Msg("starting server")
		return a.srv.Start()
	})

	g.Go(func() error {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				a.registry.Prune(time.Hour)
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		// Shut down
		<-ctx.Done()

		err := a.srv.Stop(context.Background())
		if err != nil {
			a.logger.Err(err).Msg("error stopping server")
		}

		return err
	})

	// Will block until all goroutines finish
	return g.Wait()
}
