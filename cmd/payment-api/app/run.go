package app

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/confshop/payment-api/configs"
	"github.com/confshop/payment-api/internal/adapter/cache"
	"github.com/confshop/payment-api/internal/adapter/email"
	"github.com/confshop/payment-api/internal/adapter/gateway"
	httpadapter "github.com/confshop/payment-api/internal/adapter/http"
	"github.com/confshop/payment-api/internal/adapter/http/middleware"
	"github.com/confshop/payment-api/internal/adapter/inventory"
	"github.com/confshop/payment-api/internal/adapter/queue"
	"github.com/confshop/payment-api/internal/adapter/repo"
	"github.com/confshop/payment-api/internal/logging"
	"github.com/confshop/payment-api/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(cfg.App.Name, cfg.App.LogLevel, "./logs/app.log")
	logger.Info("payment-api: starting up")

	// init database + ledger schema
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	if err := db.PingContext(context.Background()); err != nil {
		return nil, nil, err
	}
	if err := repo.RunMigrations(db); err != nil {
		return nil, nil, err
	}

	// init redis (claim store)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// external collaborators
	inv := inventory.New(cfg.Inventory.URL, cfg.Product.Name, cfg.Inventory.Timeout)
	gw := gateway.New(gateway.Options{
		BaseURL:        cfg.Gateway.BaseURL,
		APIKey:         cfg.Gateway.APIKey,
		Currency:       cfg.Gateway.Currency,
		SourceCurrency: cfg.Gateway.SourceCurrency,
		CallbackURL:    cfg.CallbackURL(),
		SuccessURL:     cfg.SuccessURL(),
		FailURL:        cfg.FailURL(),
		Timeout:        cfg.Gateway.Timeout,
	})
	mailer, err := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	if err != nil {
		return nil, nil, err
	}

	// infra
	txnRepo := repo.NewMySQLTxnRepo(db)
	claims := cache.NewRedisClaimStore(rdb, cfg.Claim.TTL)
	events, closeRabbit := initEvents(cfg, logger)

	// use cases
	createUC := usecase.NewCreateInvoice(inv, gw, txnRepo, cfg.Product.Name)
	resolver := usecase.NewContentResolver(inv, cfg.Product.Name)
	confirmUC := usecase.NewConfirmPayment(gw, txnRepo, claims, resolver, mailer, events)

	// handlers + router + middleware
	h := httpadapter.NewCheckoutHandler(createUC, confirmUC, inv)
	wh := httpadapter.NewWebhookHandler(confirmUC)
	wv := middleware.NewWebhookVerify(cfg.Gateway.APIKey, cfg.Gateway.VerifyWebhook)
	router := httpadapter.NewRouter(h, wh, wv)

	cleanup := func() {
		_ = db.Close()
		_ = rdb.Close()
		closeRabbit()
	}

	return &App{Router: router}, cleanup, nil
}

// initEvents wires the audit event publisher. The broker is optional:
// a checkout must never fail because RabbitMQ is down.
func initEvents(cfg configs.Config, logger *slog.Logger) (usecase.EventPublisher, func()) {
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		logger.Warn("rabbitmq unavailable, audit events disabled", "error", err)
		return nil, func() {}
	}
	ch, err := conn.Channel()
	if err != nil {
		logger.Warn("rabbitmq channel, audit events disabled", "error", err)
		_ = conn.Close()
		return nil, func() {}
	}
	producer, err := queue.NewRabbitProducer(ch, cfg.Rabbit.Exchange, cfg.Rabbit.RoutingKey)
	if err != nil {
		logger.Warn("rabbitmq exchange, audit events disabled", "error", err)
		_ = conn.Close()
		return nil, func() {}
	}
	return producer, func() { _ = conn.Close() }
}
