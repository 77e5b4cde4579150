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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/liberty-store/internal/application/auth"
	"github.com/jhoicas/liberty-store/internal/application/catalog"
	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/application/storefront"
	infraanalytics "github.com/jhoicas/liberty-store/internal/infrastructure/analytics"
	"github.com/jhoicas/liberty-store/internal/infrastructure/backend"
	"github.com/jhoicas/liberty-store/internal/infrastructure/email"
	"github.com/jhoicas/liberty-store/internal/infrastructure/kvstore"
	"github.com/jhoicas/liberty-store/internal/infrastructure/messenger"
	infrapdf "github.com/jhoicas/liberty-store/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/liberty-store/internal/interfaces/http"
	"github.com/jhoicas/liberty-store/pkg/config"
	"github.com/jhoicas/liberty-store/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("store", cfg.Store.Backend).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-secret-change-me"
		log.Warn().Msg("JWT_SECRET vacío: usando secreto de desarrollo")
	}
	if cfg.Auth.MasterBypassEnabled {
		log.Warn().Str("user", cfg.Auth.MasterUser).Msg("acceso maestro habilitado (AUTH_MASTER_BYPASS_ENABLED)")
	}

	ctx := context.Background()
	store, err := backend.Open(ctx, cfg, log.Component("kvstore"))
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.Close()

	cat, err := catalog.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo")
	}

	taxRate, err := decimal.NewFromString(cfg.Checkout.TaxRate)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.Checkout.TaxRate).Msg("CHECKOUT_TAX_RATE inválido")
	}

	// Email: sin SMTP los códigos se muestran en pantalla.
	var sender ports.EmailSender
	if cfg.Email.Enabled() {
		sender = email.NewSMTPSender(cfg.Email)
	}

	// Analítica: RabbitMQ si está configurado; si no, la tabla analytics_events (PostgreSQL) o el log.
	var sink ports.AnalyticsSink = infraanalytics.LogSink{Log: log.Component("analytics")}
	switch {
	case cfg.Analytics.AMQPURL != "":
		amqpSink := infraanalytics.NewAMQPSink(cfg.Analytics.AMQPURL, cfg.Analytics.Queue)
		defer amqpSink.Close()
		sink = amqpSink
	case store.Events != nil:
		sink = store.Events
	}

	factory, err := storefront.NewFactory(storefront.Deps{
		Backend:   kvstore.NewShared(store.Raw, log.Component("kvstore")),
		Catalog:   cat,
		Sender:    sender,
		Sink:      sink,
		Messenger: messenger.NewWhatsApp(cfg.Messenger.WhatsAppPhone, cfg.Messenger.BusinessName),
		Receipts:  infrapdf.NewMarotoReceiptGenerator(cfg.Checkout.Currency),
		Summary:   store.Summary,
		Settings: storefront.Settings{
			Auth: auth.Options{
				HashPasswords:       cfg.Auth.HashPasswords,
				EnforceEmailDomains: cfg.Auth.EnforceEmailDomains,
				DemoUsers:           cfg.Auth.DemoUsersEnabled,
				MasterBypass:        cfg.Auth.MasterBypassEnabled,
				MasterUser:          cfg.Auth.MasterUser,
				MasterPassword:      cfg.Auth.MasterPassword,
				MasterEmail:         cfg.Auth.MasterEmail,
			},
			EmailVerification: cfg.Auth.EmailVerification,
			SendTimeout:       time.Duration(cfg.Email.TimeoutSeconds) * time.Second,
			TaxRate:           taxRate,
			Currency:          cfg.Checkout.Currency,
			Business:          cfg.Messenger.BusinessName,
			LocalHosts:        cfg.Analytics.LocalHosts,
		},
		Log: log.Zerolog(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("composición de servicios")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Liberty Store API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": store.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Factory: factory,
		JWT:     cfg.JWT,
		Log:     log.Component("http"),
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

	log.Info().Msg("aplicación detenida")
}
