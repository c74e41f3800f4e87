// Package app assembles the application: configuration, logging,
// database, redis, the operation registries and the HTTP router.
package app

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	inboundhttp "github.com/commercekit/server/internal/adapter/inbound/http"
	"github.com/commercekit/server/internal/adapter/outbound/postgres"
	redisadapter "github.com/commercekit/server/internal/adapter/outbound/redis"
	"github.com/commercekit/server/internal/domain/order"
	"github.com/commercekit/server/internal/domain/payment"
	"github.com/commercekit/server/internal/domain/promotion"
	"github.com/commercekit/server/internal/domain/refund"
	"github.com/commercekit/server/internal/domain/shipping"
	"github.com/commercekit/server/internal/shared/cache"
	"github.com/commercekit/server/internal/shared/config"
	"github.com/commercekit/server/internal/shared/database"
	"github.com/commercekit/server/internal/shared/logger"
	"github.com/commercekit/server/internal/shared/metrics"
	"github.com/commercekit/server/internal/shared/middleware"
)

// App represents the assembled application.
type App struct {
	config *config.Config
	db     *gorm.DB
	redis  redis.UniversalClient
	router *gin.Engine
	logger *zap.Logger
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	app := &App{
		config: cfg,
		db:     db,
		redis:  redisClient,
		logger: log,
	}
	if err := app.buildRouter(); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) buildRouter() error {
	cfg := a.config
	log := a.logger
	clock := clockwork.NewRealClock()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Outbound adapters.
	orderDB := postgres.NewOrderAdapter(a.db)
	paymentDB := postgres.NewPaymentAdapter(a.db)
	refundDB := postgres.NewRefundAdapter(a.db)
	shippingMethodDB := postgres.NewShippingMethodAdapter(a.db)
	promotionDB := postgres.NewPromotionAdapter(a.db)
	customerReader := postgres.NewCustomerAdapter(a.db)
	facetReader := postgres.NewFacetAdapter(a.db)
	history := postgres.NewHistoryAdapter(a.db)
	idempotency := redisadapter.NewIdempotencyAdapter(a.redis)

	// Payment method handlers.
	handlers, err := payment.NewHandlerRegistry(
		payment.NewStripeHandler(&payment.StripeConfig{
			APIKey:           cfg.Payment.StripeAPIKey,
			FailureThreshold: cfg.Payment.BreakerFailureThreshold,
			BreakerTimeout:   int(cfg.Payment.BreakerTimeout.Seconds()),
		}),
		payment.NewOfflineHandler(),
	)
	if err != nil {
		return fmt.Errorf("build payment handler registry: %w", err)
	}

	// Promotion conditions and actions.
	facetChecker := promotion.NewFacetValueChecker(facetReader, clock, cfg.Order.FacetValueCacheTTL)
	conditions, err := promotion.NewConditionRegistry(
		promotion.NewContainsProductsCondition(),
		promotion.NewCustomerGroupCondition(customerReader, clock, cfg.Order.CustomerGroupCacheTTL),
		promotion.NewHasFacetValuesCondition(facetChecker),
		promotion.NewMinimumOrderAmountCondition(),
	)
	if err != nil {
		return fmt.Errorf("build promotion condition registry: %w", err)
	}
	actions, err := promotion.NewActionRegistry(
		promotion.NewOrderPercentageDiscountAction(),
		promotion.NewProductPercentageDiscountAction(),
	)
	if err != nil {
		return fmt.Errorf("build promotion action registry: %w", err)
	}
	evaluator := promotion.NewEvaluator(conditions, actions, promotionDB, clock, log)

	// Shipping checkers and calculators.
	checkers, err := shipping.NewCheckerRegistry(shipping.NewDefaultChecker())
	if err != nil {
		return fmt.Errorf("build shipping checker registry: %w", err)
	}
	calculators, err := shipping.NewCalculatorRegistry(shipping.NewFlatRateCalculator())
	if err != nil {
		return fmt.Errorf("build shipping calculator registry: %w", err)
	}
	shippingService := shipping.NewService(shippingMethodDB, checkers, calculators, m, log)

	// Order merge strategies.
	strategies, err := order.NewStrategyRegistry()
	if err != nil {
		return fmt.Errorf("build merge strategy registry: %w", err)
	}
	mergeStrategy, err := strategies.Get(cfg.Order.MergeStrategy)
	if err != nil {
		return fmt.Errorf("configured merge strategy: %w", err)
	}

	// State machines and domain services.
	orderMachine := order.NewStateMachine(history, m, log)
	merger := order.NewMerger(mergeStrategy, log)
	orderService := order.NewService(orderMachine, merger, orderDB, history, log)

	paymentMachine := payment.NewStateMachine(handlers, history, m, log)
	paymentService := payment.NewService(paymentMachine, handlers, paymentDB, refundDB, log)

	refundMachine := refund.NewStateMachine(history, m, log)
	refundService := refund.NewService(refundMachine, refundDB, log)

	// Router.
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		middleware.Recovery(log),
		middleware.Logging(log),
		middleware.Metrics(m),
		cors.Default(),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	inboundhttp.NewOrderHandler(orderService, shippingService, evaluator, idempotency, log).RegisterRoutes(api)
	inboundhttp.NewPaymentHandler(paymentService, orderService, idempotency, log).RegisterRoutes(api)
	inboundhttp.NewRefundHandler(refundService, orderService, idempotency, log).RegisterRoutes(api)

	a.router = router
	return nil
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Stop releases application resources.
func (a *App) Stop() {
	if err := cache.Close(a.redis); err != nil {
		a.logger.Warn("close redis", zap.Error(err))
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}
