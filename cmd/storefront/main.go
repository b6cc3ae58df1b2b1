package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/health"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/observability"
	"github.com/aaravmahajanofficial/storefront/internal/payment"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.Otel, cfg.Env)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.Any("error", err))
		os.Exit(1)
	}

	if err := repository.Migrate(ctx, cfg.Database.GetDSN()); err != nil {
		slog.Error("❌ Error applying database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.Any("error", err))
		os.Exit(1)
	}

	// Stripe is optional with the stub gate; webhooks answer 404 without it.
	var stripeClient stripe.Client
	if cfg.Stripe.APIKey != "" {
		stripeClient = stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	}

	gate, err := payment.NewGate(cfg, stripeClient)
	if err != nil {
		slog.Error("❌ Error configuring the payment gate", slog.Any("error", err))
		os.Exit(1)
	}

	store := repos.Store()
	userRepo := repository.NewUserRepo(repos.DB)
	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	var notifier service.NotificationService
	if cfg.SendGrid.APIKey != "" {
		emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
		notifier = service.NewNotificationService(repository.NewNotificationRepo(repos.DB), userRepo, emailService)
	}

	policy := service.NewStatusPolicy(cfg.Checkout.StrictStatusTransitions)

	userService := service.NewUserService(userRepo, repository.NewRateLimitRepo(redisClient, cfg.RateConfig), []byte(cfg.Security.JWTKey), cfg.Security.TokenTTL())
	productService := service.NewProductService(repository.NewProductRepo(repos.DB), productCache)
	cartService := service.NewCartService(store)
	orderService := service.NewOrderService(store, service.NewPricingService(), gate, policy, notifier, cfg.Checkout.Currency)
	paymentService := service.NewPaymentService(store, stripeClient)

	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	auth := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{StripeClient: stripeClient})
	if err != nil {
		slog.Error("❌ Error creating the health handler", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("services initialized",
		slog.String("env", cfg.Env),
		slog.String("paymentGate", cfg.Checkout.PaymentGate),
		slog.String("statusPolicy", policy.Name()),
	)

	router := http.NewServeMux()
	router.Handle("GET /health", healthHandler.Handler())
	router.Handle("GET /metrics", metrics.Handler())

	router.HandleFunc("POST /api/auth/register", userHandler.Register())
	router.HandleFunc("POST /api/auth/login", userHandler.Login())
	router.HandleFunc("GET /api/auth/me", auth.Authenticate(userHandler.Profile()))

	router.HandleFunc("GET /api/products", productHandler.ListProducts())
	router.HandleFunc("GET /api/products/{id}", productHandler.GetProduct())
	router.HandleFunc("POST /api/products", auth.Authenticate(middleware.RequireAdmin(productHandler.CreateProduct())))
	router.HandleFunc("PUT /api/products/{id}", auth.Authenticate(middleware.RequireAdmin(productHandler.UpdateProduct())))
	router.HandleFunc("DELETE /api/products/{id}", auth.Authenticate(middleware.RequireAdmin(productHandler.DeleteProduct())))

	router.HandleFunc("GET /api/cart", auth.Authenticate(cartHandler.GetCart()))
	router.HandleFunc("POST /api/cart/items", auth.Authenticate(cartHandler.AddItem()))
	router.HandleFunc("PUT /api/cart/items/{id}", auth.Authenticate(cartHandler.UpdateItem()))
	router.HandleFunc("DELETE /api/cart/items/{id}", auth.Authenticate(cartHandler.RemoveItem()))

	// order permissions are decided by the access guard in the service layer
	router.HandleFunc("POST /api/orders", auth.Authenticate(orderHandler.CreateOrder()))
	router.HandleFunc("GET /api/orders/mine", auth.Authenticate(orderHandler.ListMyOrders()))
	router.HandleFunc("GET /api/orders", auth.Authenticate(orderHandler.ListAllOrders()))
	router.HandleFunc("GET /api/orders/{id}", auth.Authenticate(orderHandler.GetOrder()))
	router.HandleFunc("PATCH /api/orders/{id}/status", auth.Authenticate(orderHandler.UpdateOrderStatus()))

	router.HandleFunc("POST /api/payments/webhook", paymentHandler.HandleStripeWebhook())

	// metrics must wrap the mux directly to see the matched route pattern
	var handler http.Handler = metrics.Middleware(router)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, cfg.Otel.ServiceName)

	server := &http.Server{
		Addr:              cfg.HTTPServer.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("🚀 Server is starting...", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.Any("error", err))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := redisClient.Close(); err != nil {
		slog.Error("⚠️ Error closing redis connection", slog.Any("error", err))
	}

	if err := repos.Close(); err != nil {
		slog.Error("⚠️ Error closing database connection", slog.Any("error", err))
	} else {
		slog.Info("✅ Database connection closed")
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("⚠️ Error flushing traces", slog.Any("error", err))
	}
}
