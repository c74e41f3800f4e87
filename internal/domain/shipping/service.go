package shipping

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
	"github.com/commercekit/server/internal/port/outbound"
	"github.com/commercekit/server/internal/shared/metrics"
)

// Service computes the shipping methods an order may use.
type Service interface {
	// GetEligibleShippingMethods returns a quote for every active method
	// whose checker accepted the order and whose calculator produced a
	// price, sorted ascending by price.
	GetEligibleShippingMethods(ctx context.Context, order *model.Order) ([]*model.ShippingQuote, error)
}

type service struct {
	methods     outbound.ShippingMethodDatabasePort
	checkers    *CheckerRegistry
	calculators *CalculatorRegistry
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewService creates a shipping service.
func NewService(
	methods outbound.ShippingMethodDatabasePort,
	checkers *CheckerRegistry,
	calculators *CalculatorRegistry,
	m *metrics.Metrics,
	logger *zap.Logger,
) Service {
	return &service{
		methods:     methods,
		checkers:    checkers,
		calculators: calculators,
		metrics:     m,
		logger:      logger,
	}
}

func (s *service) GetEligibleShippingMethods(ctx context.Context, order *model.Order) ([]*model.ShippingQuote, error) {
	methods, err := s.methods.GetActiveShippingMethods(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.ShippingQuotesTotal.Inc()

	quotes := make([]*model.ShippingQuote, 0, len(methods))
	for _, method := range methods {
		eligible, err := s.eligible(ctx, order, method)
		if err != nil {
			return nil, err
		}
		if !eligible {
			continue
		}

		result, err := s.calculate(ctx, order, method)
		if err != nil {
			return nil, err
		}
		if result == nil {
			continue
		}
		quotes = append(quotes, &model.ShippingQuote{Method: method, Result: result})
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Result.Price < quotes[j].Result.Price
	})
	return quotes, nil
}

func (s *service) eligible(ctx context.Context, order *model.Order, method *model.ShippingMethod) (bool, error) {
	op, err := method.CheckerOperation()
	if err != nil {
		return false, fmt.Errorf("shipping method %q checker: %w", method.Code, err)
	}
	checker, err := s.checkers.Get(op.Code)
	if err != nil {
		return false, err
	}
	args, err := operation.Resolve(op, checker.ArgSpec())
	if err != nil {
		return false, err
	}
	return checker.Check(ctx, order, args)
}

func (s *service) calculate(ctx context.Context, order *model.Order, method *model.ShippingMethod) (*model.ShippingCalculationResult, error) {
	op, err := method.CalculatorOperation()
	if err != nil {
		return nil, fmt.Errorf("shipping method %q calculator: %w", method.Code, err)
	}
	calculator, err := s.calculators.Get(op.Code)
	if err != nil {
		return nil, err
	}
	args, err := operation.Resolve(op, calculator.ArgSpec())
	if err != nil {
		return nil, err
	}
	return calculator.Calculate(ctx, order, args)
}
