package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	swag "github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "doodh-waitlist/docs" // <-- required to register swagger spec

	"doodh-waitlist/controller"
	"doodh-waitlist/middleware"
	"doodh-waitlist/provider"
	"doodh-waitlist/repository"
	"doodh-waitlist/service"
	"doodh-waitlist/util"
)

// @title           Doodh & Co. Waitlist API
// @version         1.0
// @description     Waitlist signup with phone number verification.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.email   support@swagger.io

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host            localhost:4000
// @BasePath        /api/v1
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v (using system environment variables)", err)
	}

	logger := util.InitLogger()
	defer logger.Sync()

	cfg, err := util.LoadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	phoneAuth, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to set up phone auth provider", zap.Error(err))
	}

	enroller, closeEnroller, err := buildEnroller(cfg, logger)
	if err != nil {
		logger.Fatal("failed to set up waitlist enrollment", zap.Error(err))
	}
	defer closeEnroller()

	signer, err := util.NewSessionSigner(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		logger.Fatal("failed to set up session signer", zap.Error(err))
	}
	sessions := repository.NewInMemorySessionRepo[*service.Workflow](cfg.SessionTTL)
	util.StartPeriodicCleanup(ctx, time.Minute, "idle-workflows", sessions.PurgeIdle, logger)

	workflowCfg := service.WorkflowConfig{
		CountryCode:  cfg.CountryCode,
		AppName:      cfg.AppName,
		ChallengeTTL: cfg.ChallengeTTL,
	}
	newWorkflow := func() *service.Workflow {
		return service.NewWorkflow(phoneAuth, enroller, workflowCfg, logger)
	}

	app := fiber.New(fiber.Config{AppName: cfg.AppName})
	setupRoutes(app, controller.NewWaitlistController(signer, sessions, newWorkflow, logger), signer, sessions, logger)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	logger.Info("listening", zap.String("port", cfg.Port), zap.String("provider", cfg.Provider))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func buildProvider(ctx context.Context, cfg *util.Config, logger *zap.Logger) (provider.PhoneAuthProvider, error) {
	registry := provider.NewChallengeRegistry(cfg.ChallengeTTL)

	if cfg.Provider == util.ProviderFirebase {
		verifier, err := provider.NewIdentityToolkitClient(ctx, cfg.Firebase.APIKey)
		if err != nil {
			return nil, err
		}

		var users provider.UserLookup
		app, err := util.InitFirebase(ctx, cfg.Firebase, logger)
		if err != nil {
			return nil, err
		}
		if app != nil {
			client, err := app.Auth(ctx)
			if err != nil {
				return nil, err
			}
			users = client
		}
		return provider.NewFirebaseProvider(registry, verifier, users, logger), nil
	}

	var bots provider.BotVerifier
	if cfg.Recaptcha.Secret != "" {
		bots = provider.NewRecaptchaVerifier(cfg.Recaptcha.VerifyURL, cfg.Recaptcha.Secret, cfg.Recaptcha.MinScore)
	} else {
		logger.Warn("RECAPTCHA_SECRET not set, bot-check tokens are not verified")
	}

	var sender provider.SMSSender
	if cfg.SMS.Driver == "twilio" {
		sender = provider.NewTwilioSender(cfg.SMS.TwilioAccountSID, cfg.SMS.TwilioAuthToken, cfg.SMS.TwilioFrom)
	} else {
		sender = provider.NewLogSender(logger)
	}

	var codes repository.VerificationRepository
	if cfg.CodeStore == util.StoreRedis {
		rdb, err := util.ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		codes = repository.NewRedisVerificationRepo(rdb)
	} else {
		mem := repository.NewInMemoryVerificationRepo()
		util.StartPeriodicCleanup(ctx, time.Minute, "expired-codes", mem.PurgeExpired, logger)
		codes = mem
	}

	return provider.NewSMSProvider(registry, bots, codes, sender, cfg.SMS.CodeTTL, cfg.AppName, logger), nil
}

// buildEnroller returns a logging enroller unless a waitlist database is configured
func buildEnroller(cfg *util.Config, logger *zap.Logger) (service.Enroller, func(), error) {
	if cfg.WaitlistDB != "postgres" {
		return service.NewLogEnroller(logger), func() {}, nil
	}

	db, err := util.InitDB(cfg.DB, logger)
	if err != nil {
		return nil, nil, err
	}

	var mailer service.WelcomeMailer
	if cfg.SMTPEnabled() {
		mailer = service.NewEmailService(cfg.SMTP)
	}

	var publisher *service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := service.NewKafkaProducer(cfg.Kafka.Brokers)
		if err != nil {
			return nil, nil, err
		}
		publisher = service.NewEventPublisher(producer, cfg.Kafka.Topic, logger)
	}

	var joined service.JoinedPublisher
	if publisher != nil {
		joined = publisher
	}
	svc := service.NewWaitlistService(repository.NewWaitlistRepository(db), mailer, joined, cfg.AppName, logger)

	countCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n, err := svc.Count(countCtx)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("waitlist database ready", zap.Int64("entries", n))

	closer := func() {
		svc.Wait()
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				logger.Warn("kafka producer close", zap.Error(err))
			}
		}
	}
	return svc, closer, nil
}

func setupRoutes(
	app *fiber.App,
	waitlist *controller.WaitlistController,
	signer *util.SessionSigner,
	sessions *repository.MemSessionRepo[*service.Workflow],
	logger *zap.Logger,
) {
	app.Use(middleware.TimerMetrics(logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/swagger/*", swag.HandlerDefault)

	api := app.Group("/api/v1")
	waitlist.Register(api, middleware.RequireSession(signer, sessions))
}
