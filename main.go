package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"
	"github.com/aquamarinepk/aqm"
	aqmevents "github.com/aquamarinepk/aqm/events"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/catalog"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/mongo"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/notify"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/order"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/session"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/stock"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/tables"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/ticket"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg"
	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/event"
)

const (
	appNamespace = "BEERHIVE"
	appName      = "beerhive"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	// The ticket and tables packages predate the apt migration and still
	// take aqm config and logging, so both flavors are loaded from the same
	// namespace.
	aqmConfig, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)
	aqmLogger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	seedCtx, cancelSeeds := context.WithCancel(ctx)
	defer cancelSeeds()

	baseRepo := mongo.NewBaseRepo(config, logger)
	err = baseRepo.Start(ctx)
	if err != nil {
		log.Fatalf("%s(%s) cannot start base repository: %v", appName, appVersion, err)
	}

	db := baseRepo.GetDatabase()
	if db == nil {
		log.Fatalf("%s(%s) cannot initialize repository database: %v", appName, appVersion, errors.New("repository database is nil"))
	}

	productRepo := mongo.NewProductRepo(db)
	categoryRepo := mongo.NewCategoryRepo(db)
	packageRepo := mongo.NewPackageRepo(db)
	movementRepo := mongo.NewMovementRepo(db)
	orderRepo := mongo.NewOrderRepo(db)
	orderItemRepo := mongo.NewOrderItemRepo(db)
	sessionRepo := mongo.NewSessionRepo(db)
	ticketRepo := mongo.NewTicketRepo(db)
	tableRepo := mongo.NewTableRepo(db)

	indexed := []interface {
		EnsureIndexes(ctx context.Context) error
	}{
		productRepo, categoryRepo, movementRepo,
		orderRepo, orderItemRepo, sessionRepo, ticketRepo, tableRepo,
	}
	for _, repo := range indexed {
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Fatalf("%s(%s) cannot ensure indexes: %v", appName, appVersion, err)
		}
	}

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	pub, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}

	sub, err := pkg.NewNATSSubscriber(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}

	// With JetStream enabled ticket events are retained, so the station
	// board cache can replay them on startup instead of hitting MongoDB.
	var ticketStream *pkg.NATSStream
	streamEnabled, _ := config.GetString("nats.stream.enabled")
	if streamEnabled == "true" {
		streamCfg := pkg.NATSStreamConfig{
			URL:          natsURL,
			StreamName:   "TICKET_EVENTS",
			Topic:        event.TicketsTopic,
			ConsumerName: "beerhive-tickets",
			MaxAge:       24 * time.Hour,
			MaxMsgs:      0,
		}
		ticketStream, err = pkg.NewNATSStream(streamCfg)
		if err != nil {
			log.Fatalf("%s(%s) cannot create ticket event stream: %v", appName, appVersion, err)
		}
		logger.Info("NATS stream initialized for ticket events")
	}

	ledger := stock.NewLedger(productRepo, categoryRepo, movementRepo, pub, logger)

	notificationURL, _ := config.GetString("services.notification.url")
	notifier := notify.NewServiceNotifier(notificationURL, logger)

	var streamForCache aqmevents.StreamConsumer
	var ticketPublisher aqmevents.Publisher = pub
	if ticketStream != nil {
		streamForCache = ticketStream
		ticketPublisher = ticketStream
	}
	ticketCache := ticket.NewTicketStateCache(streamForCache, ticketRepo, aqmLogger)
	cacheSub := ticket.NewCacheSubscriber(ticketCache, sub, aqmLogger)

	coordinator := tables.NewCoordinator(tableRepo, pub, aqmLogger)

	orderDeps := order.ServiceDeps{
		Orders:     orderRepo,
		Items:      orderItemRepo,
		Products:   productRepo,
		Categories: categoryRepo,
		Packages:   packageRepo,
		Tables:     tableRepo,
		Ledger:     ledger,
		Tickets:    ticketRepo,
		Publisher:  pub,
		Notifier:   notifier,
	}
	if customerURL, _ := config.GetString("services.customer.url"); customerURL != "" {
		orderDeps.Customers = order.NewAPICustomerDirectory(customerURL, logger)
	}
	orderService := order.NewService(orderDeps, logger)

	taxRate := 0.0
	if raw := config.GetStringOrDef("billing.tax_rate", ""); raw != "" {
		taxRate, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Fatalf("%s(%s) invalid billing.tax_rate %q: %v", appName, appVersion, raw, err)
		}
	}

	sessionService := session.NewService(session.ServiceDeps{
		Sessions:    sessionRepo,
		Orders:      orderRepo,
		Items:       orderItemRepo,
		Workflow:    orderService,
		Coordinator: coordinator,
		Publisher:   pub,
		TaxRate:     taxRate,
	}, logger)

	ticketStatusSub := order.NewTicketStatusSubscriber(sub, orderRepo, orderItemRepo, pub, logger)

	orderHandler := order.NewHandler(orderService, orderRepo, config, logger)
	sessionHandler := session.NewHandler(sessionService, sessionRepo, config, logger)
	stockHandler := stock.NewHandler(ledger, productRepo, categoryRepo, config, logger)
	ticketHandler := ticket.NewHandler(ticketRepo, ticketCache, ticketPublisher, notifier, aqmConfig, aqmLogger)
	tablesHandler := tables.NewHandler(tableRepo, coordinator, aqmConfig, aqmLogger)

	publisherLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	}

	subLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return sub.Close()
		},
	}

	cacheLifecycle := apt.LifecycleHooks{
		OnStart: func(ctx context.Context) error {
			if err := ticketCache.Warm(ctx); err != nil {
				logger.Info("failed to warm ticket cache", "error", err)
			}
			return nil
		},
	}

	lifecycles := []interface{}{
		apt.LifecycleHooks{OnStop: baseRepo.Stop},
		cacheSub,
		ticketStatusSub,
		cacheLifecycle,
		publisherLifecycle,
		subLifecycle,
	}

	if ticketStream != nil {
		lifecycles = append(lifecycles, apt.LifecycleHooks{
			OnStop: func(context.Context) error { return ticketStream.Close() },
		})
	}

	demoEnabled, _ := config.GetString("seeding.demo")
	if demoEnabled == "true" {
		logger.Info("Demo seeding enabled")
		demoRepos := catalog.DemoRepos{
			Products:   productRepo,
			Categories: categoryRepo,
			Packages:   packageRepo,
		}
		lifecycles = append(lifecycles,
			apt.LifecycleHooks{
				OnStart: catalog.DemoSeedingFunc(seedCtx, demoRepos, db, aqmLogger),
				OnStop: func(context.Context) error {
					cancelSeeds()
					return nil
				},
			},
			apt.LifecycleHooks{
				OnStart: tables.DemoSeedingFunc(seedCtx, tableRepo, db, aqmLogger),
			},
		)
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true, // Internal API service
	})

	// Defense-in-depth: restrict to internal networks only.
	// This complements (does not replace) network policies at the infrastructure level.
	stack = append(stack, middleware.InternalOnly())

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port",
			sessionHandler,
			orderHandler,
			ticketHandler,
			stockHandler,
			tablesHandler,
		),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	err = ms.Run(ctx)
	if err != nil {
		_ = baseRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
