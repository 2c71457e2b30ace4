package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/iliyamo/restaurant-pos/internal/config"
	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/handler"
	"github.com/iliyamo/restaurant-pos/internal/middleware"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/repository"
	"github.com/iliyamo/restaurant-pos/internal/repository/memory"
	"github.com/iliyamo/restaurant-pos/internal/router"
	"github.com/iliyamo/restaurant-pos/internal/service/orders"
	"github.com/iliyamo/restaurant-pos/internal/service/pricing"
)

var _ orders.Notifier = (*queue.Publisher)(nil)

// backend is everything the coordinator needs from a store driver.
type backend struct {
	db       database.Querier
	txs      database.TxBeginner
	repos    orders.Repositories
	settings model.SettingsRepository
	ping     func(ctx context.Context) error
	close    func() error
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "apply pending migrations before serving (mysql only)"},
			&cli.BoolFlag{Name: "seed-demo", Value: true, Usage: "seed demo tables and settings (memory only)"},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			b, err := openBackend(cfg, log, c.Bool("migrate"), c.Bool("seed-demo"))
			if err != nil {
				return err
			}
			defer func() { _ = b.close() }()
			return serve(c.Context, cfg, log, b)
		},
	}
}

func openBackend(cfg config.Config, log *logrus.Logger, migrate, seed bool) (*backend, error) {
	if cfg.StoreDriver == "memory" {
		store := memory.New()
		if seed {
			seedDemo(store)
		}
		log.Warn("using the in-memory store; data is lost on exit")
		return &backend{
			db:  store.DB(),
			txs: store,
			repos: orders.Repositories{
				Orders:      store.Orders(),
				Items:       store.Items(),
				DineIn:      store.DineIn(),
				Takeaway:    store.Takeaway(),
				Delivery:    store.Delivery(),
				Reservation: store.Reservation(),
				Tables:      store.Tables(),
				Audit:       store.Audit(),
				Customers:   store.Customers(),
				Menu:        store.Menu(),
				Payments:    store.Payments(),
			},
			settings: store.Settings(),
			close:    func() error { return nil },
		}, nil
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.MigrateUp(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("migrations applied")
	}
	return &backend{
		db:  db,
		txs: database.NewTxRunner(db, cfg.DB.Isolation),
		repos: orders.Repositories{
			Orders:      repository.NewOrderRepo(),
			Items:       repository.NewItemRepo(),
			DineIn:      repository.NewDineInRepo(),
			Takeaway:    repository.NewTakeawayRepo(),
			Delivery:    repository.NewDeliveryRepo(),
			Reservation: repository.NewReservationRepo(),
			Tables:      repository.NewTableRepo(),
			Audit:       repository.NewAuditRepo(),
			Customers:   repository.NewCustomerRepo(),
			Menu:        repository.NewMenuRepo(),
			Payments:    repository.NewPaymentRepo(),
		},
		settings: repository.NewSettingsRepo(),
		ping:     db.PingContext,
		close:    db.Close,
	}, nil
}

func seedDemo(store *memory.Store) {
	for _, id := range []string{"T1", "T2", "T3", "T4"} {
		store.PutTable(model.Table{ID: id, RestaurantID: "demo", Label: id, Capacity: 4, Status: model.TableAvailable})
	}
	store.PutSettings(model.RestaurantSettings{RestaurantID: "demo"})
}

func serve(ctx context.Context, cfg config.Config, log *logrus.Logger, b *backend) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(cfg.Redis, log)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	publisher := queue.NewPublisher(cfg.RabbitMQURL, log)
	defer func() { _ = publisher.Close() }()

	settings := pricing.NewCachedSettings(pricing.NewRepoSettings(b.settings), rdb, cfg.Cache, log)
	coord := orders.New(b.db, b.txs, b.repos, pricing.NewCalculator(settings), publisher, log,
		orders.WithTokenRetries(cfg.TokenRetries))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLogger(log))
	router.RegisterRoutes(e, &handler.HealthHandler{Ping: b.ping})
	router.RegisterOrders(e, handler.NewOrderHandler(coord, log), cfg.JWTSecret,
		middleware.NewTokenBucket(cfg.RateLimit, rdb, log))

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Wrap(err, "http server")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
