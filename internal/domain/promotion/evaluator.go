package promotion

import (
	"context"
	"fmt"
	"sort"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
	"github.com/commercekit/server/internal/port/outbound"
)

// Evaluator computes the promotion adjustments for an order.
// Evaluation is read-only and idempotent: it may be re-run for the
// same order snapshot and yields the same adjustments.
type Evaluator struct {
	conditions  *ConditionRegistry
	actions     *ActionRegistry
	promotionDB outbound.PromotionDatabasePort
	clock       clockwork.Clock
	logger      *zap.Logger
}

// NewEvaluator creates a promotion evaluator.
func NewEvaluator(
	conditions *ConditionRegistry,
	actions *ActionRegistry,
	promotionDB outbound.PromotionDatabasePort,
	clock clockwork.Clock,
	logger *zap.Logger,
) *Evaluator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Evaluator{
		conditions:  conditions,
		actions:     actions,
		promotionDB: promotionDB,
		clock:       clock,
		logger:      logger,
	}
}

// ApplyActive evaluates all currently active promotions against the
// order.
func (e *Evaluator) ApplyActive(ctx context.Context, order *model.Order) ([]model.Adjustment, error) {
	promotions, err := e.promotionDB.GetActivePromotions(ctx)
	if err != nil {
		return nil, err
	}
	now := e.clock.Now()
	active := promotions[:0:0]
	for _, p := range promotions {
		if p.IsActiveAt(now) {
			active = append(active, p)
		}
	}
	return e.Apply(ctx, order, active)
}

// Apply evaluates the given promotions against the order in ascending
// priority-score order and returns the adjustments of every promotion
// whose conditions all held.
func (e *Evaluator) Apply(ctx context.Context, order *model.Order, promotions []*model.Promotion) ([]model.Adjustment, error) {
	sorted := make([]*model.Promotion, len(promotions))
	copy(sorted, promotions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PriorityScore < sorted[j].PriorityScore
	})

	var adjustments []model.Adjustment
	for _, p := range sorted {
		ok, err := e.conditionsHold(ctx, order, p)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		promoAdjustments, err := e.applyActions(ctx, order, p)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, promoAdjustments...)

		e.logger.Debug("promotion applied",
			zap.String("promotion", p.Name),
			zap.String("order_code", order.Code),
			zap.Int("adjustments", len(promoAdjustments)),
		)
	}
	return adjustments, nil
}

type boundCondition struct {
	condition Condition
	args      *operation.ArgValues
}

// conditionsHold evaluates the promotion's conditions in ascending
// condition priority, ties kept in declaration order, stopping at the
// first that fails.
func (e *Evaluator) conditionsHold(ctx context.Context, order *model.Order, p *model.Promotion) (bool, error) {
	ops, err := p.ConditionOperations()
	if err != nil {
		return false, fmt.Errorf("promotion %q conditions: %w", p.Name, err)
	}

	bound := make([]boundCondition, 0, len(ops))
	for _, op := range ops {
		condition, err := e.conditions.Get(op.Code)
		if err != nil {
			return false, err
		}
		args, err := operation.Resolve(op, condition.ArgSpec())
		if err != nil {
			return false, err
		}
		bound = append(bound, boundCondition{condition: condition, args: args})
	}
	sort.SliceStable(bound, func(i, j int) bool {
		return bound[i].condition.Priority() < bound[j].condition.Priority()
	})

	for _, b := range bound {
		ok, err := b.condition.Check(ctx, order, b.args)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (e *Evaluator) applyActions(ctx context.Context, order *model.Order, p *model.Promotion) ([]model.Adjustment, error) {
	ops, err := p.ActionOperations()
	if err != nil {
		return nil, fmt.Errorf("promotion %q actions: %w", p.Name, err)
	}

	var adjustments []model.Adjustment
	for _, op := range ops {
		action, err := e.actions.Get(op.Code)
		if err != nil {
			return nil, err
		}
		args, err := operation.Resolve(op, action.ArgSpec())
		if err != nil {
			return nil, err
		}
		actionAdjustments, err := action.Apply(ctx, order, args)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, actionAdjustments...)
	}
	return adjustments, nil
}
