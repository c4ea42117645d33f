package app

import (
	"context"
	"os"
	"time"

	commonHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	trmanager "github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	bookingUC "gigbook/internal/application/usecases/booking"
	"gigbook/internal/interfaces/events"
	"gigbook/internal/interfaces/http"
	"gigbook/internal/outbox"
	"gigbook/internal/repository"
	"gigbook/internal/wizard"
)

type App struct {
	watermillLogger watermill.LoggerAdapter
	logger          zerolog.Logger
	router          *message.Router
	forwarder       *outbox.Forwarder
	srv             *http.Server
	db              *sqlx.DB
}

func NewApp(
	watermillLogger watermill.LoggerAdapter,
	blobStorage events.BlobStorage,
	mailer events.Mailer,
	checkout wizard.CheckoutService,
	redisClient *redis.Client,
	db *sqlx.DB,
	httpAddr string,
	signedURLTTL time.Duration,
) (*App, error) {
	trManager := trmanager.Must(trmsqlx.NewDefaultFactory(db))
	trGetter := trmsqlx.DefaultCtxGetter

	bookingsRepo := repository.NewBookingsRepo(db, trGetter)
	usersRepo := repository.NewUsersRepo(db, trGetter)
	eventsRepo := repository.NewEventsRepo(db, trGetter)
	analyticsRepo := repository.NewAnalyticsRepo(db, trGetter)

	bookingsUsecase := bookingUC.NewUsecase(bookingsRepo, trManager, trGetter, watermillLogger)

	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, err
	}

	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(events.CorrelationIDMiddleware)
	router.AddMiddleware(events.LoggingMiddleware)
	router.AddMiddleware(events.MetricsMiddleware)

	router.AddMiddleware(middleware.Retry{
		MaxRetries:      10,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          watermillLogger,
	}.Middleware)

	// skip marshalling errors before retrying
	router.AddMiddleware(events.SkipMarshallingErrorsMiddleware)

	marshaler := cqrs.JSONMarshaler{
		GenerateName: cqrs.StructName,
	}

	processor, err := events.NewEventProcessor(router, redisClient, marshaler, watermillLogger)
	if err != nil {
		return nil, err
	}

	handler := events.NewHandler(
		blobStorage,
		mailer,
		bookingsRepo,
		usersRepo,
		eventsRepo,
		analyticsRepo,
		signedURLTTL,
	)

	err = processor.AddHandlers(
		handler.BookingCreatedHandler(),
		handler.BookingStatusChangedHandler(),
	)
	if err != nil {
		return nil, err
	}

	forwarder, err := outbox.NewForwarder(db, redisClient, watermillLogger)
	if err != nil {
		return nil, err
	}

	e := commonHTTP.NewEcho()
	draftStore := wizard.NewRedisDraftStore(redisClient)
	srv := http.NewServer(e, httpAddr, bookingsUsecase, draftStore, checkout, router.IsRunning)

	return &App{
		watermillLogger: watermillLogger,
		logger:          zerolog.New(os.Stdout).With().Timestamp().Logger(),
		router:          router,
		forwarder:       forwarder,
		srv:             srv,
		db:              db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if err := repository.InitializeDBSchema(a.db); err != nil {
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
		<-ctx.Done()

		err := a.srv.Stop(context.Background())
		if err != nil {
			a.logger.Err(err).Msg("error stopping server")
		}

		return err
	})

	return g.Wait()
}
