package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-storefront/config"
	"go-storefront/controllers"
	"go-storefront/middleware"
	"go-storefront/payments"
	"go-storefront/pricing"
	"go-storefront/routes"
	"go-storefront/services"
	"go-storefront/store"
	"go-storefront/utils"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("storefront terminated", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	if cfg.JWTSecret == "" {
		return errors.New("configuration: JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	client, err := utils.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect", zap.Error(err))
		}
	}()

	db := store.NewMongoStore(client, cfg.MongoDatabase)
	if err := db.EnsureIndexes(ctx); err != nil {
		return err
	}

	mailer, err := newMailer(cfg, logger)
	if err != nil {
		return err
	}
	emailService := utils.NewEmailService(mailer)

	var gateway services.PaymentGateway
	if cfg.StripeSecretKey != "" {
		gateway = payments.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeAPIURL)
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, card payments are disabled")
	}

	jwt := utils.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	authSvc := services.NewAuthService(db, jwt, emailService)
	accountSvc := services.NewAccountService(db, db, db)
	cartSvc := services.NewCartService(db, db)
	lovedSvc := services.NewLovedService(db)
	catalogSvc := services.NewCatalogService(db, db)
	orderSvc := services.NewOrderService(db, db, db, gateway, emailService, logger)
	defer orderSvc.Close()
	paymentSvc := services.NewPaymentService(gateway, cfg.Currency)

	images := utils.NewImageStore(cfg.UploadDir, cfg.PublicBaseURL)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, routes.Controllers{
		User:     controllers.NewUserController(authSvc, logger),
		Account:  controllers.NewAccountController(accountSvc, jwt, logger),
		Cart:     controllers.NewCartController(cartSvc, logger),
		Loved:    controllers.NewLovedController(lovedSvc, logger),
		Order:    controllers.NewOrderController(orderSvc, logger),
		Payment:  controllers.NewPaymentController(paymentSvc, logger),
		Product:  controllers.NewProductController(catalogSvc, images, logger),
		Delivery: controllers.NewDeliveryController(pricing.DefaultRules(cfg.FreeDeliveryFrom)),
	}, middleware.NewAuth(jwt, db, logger), cfg.UploadDir, logger)

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting storefront server", zap.String("addr", cfg.RunAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		logger.Info("server stopped gracefully")
		return nil
	})

	return g.Wait()
}

func newMailer(cfg *config.Config, logger *zap.Logger) (utils.Mailer, error) {
	switch cfg.MailProvider {
	case "postmark":
		if cfg.PostmarkToken == "" {
			return nil, errors.New("configuration: POSTMARK_API_TOKEN is required for postmark")
		}
		return utils.NewPostmarkMailer(cfg.PostmarkToken, cfg.EmailSender, ""), nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, errors.New("configuration: SENDGRID_API_KEY is required for sendgrid")
		}
		return utils.NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailSender, ""), nil
	case "log", "":
		return utils.NewLogMailer(logger), nil
	}
	return nil, fmt.Errorf("configuration: unknown MAIL_PROVIDER %q", cfg.MailProvider)
}
