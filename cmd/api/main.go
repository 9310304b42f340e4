package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/ventas-ledger/internal/application/ledger"
	"github.com/jhoicas/ventas-ledger/internal/application/usecase"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
	"github.com/jhoicas/ventas-ledger/internal/infrastructure/audit"
	"github.com/jhoicas/ventas-ledger/internal/infrastructure/kafka"
	"github.com/jhoicas/ventas-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/ventas-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/ventas-ledger/internal/infrastructure/redisx"
	httpRouter "github.com/jhoicas/ventas-ledger/internal/interfaces/http"
	"github.com/jhoicas/ventas-ledger/pkg/config"
	"github.com/jhoicas/ventas-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Ledger.Store).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Almacenamiento del ledger
	var (
		runner   ledger.Runner
		products repository.ProductRepository
	)
	switch cfg.Ledger.Store {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("aplicar esquema")
			}
		}
		runner = postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout())
		products = postgres.NewProductRepository(pool)
	default:
		store, err := memory.NewStore(cfg.Ledger.LockTimeout())
		if err != nil {
			log.Fatal().Err(err).Msg("almacén en memoria")
		}
		runner = memory.NewTxRunner(store)
		products = store.Products()
	}

	// Auditoría: Kafka si hay brokers, si no al log
	var auditSink ledger.AuditSink = audit.NewLogSink(log.Zerolog())
	var producer *kafka.AuditProducer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewAuditProducer(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, cfg.Kafka.AuditBuffer, log.Component("audit"))
		producer.Start(ctx)
		auditSink = producer
	}

	var dedup ledger.PaymentDedup
	if cfg.Redis.Addr != "" {
		rdb := redisx.New(cfg.Redis.Addr)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se sigue sin caché de pagos")
		}
		dedup = redisx.NewPaymentDedup(rdb, cfg.Redis.DedupTTL)
	}

	svc := ledger.Build(runner, auditSink, dedup, log.Component("ledger"), ledger.Options{
		MaxRetries:   cfg.Ledger.MaxRetries,
		RetryBackoff: cfg.Ledger.RetryBackoff,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ventas Ledger API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:    svc,
		ProductUC: usecase.NewProductUseCase(products),
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	stop()
	if producer != nil {
		producer.WaitClosed()
	}
	log.Info().Msg("aplicación detenida")
}
