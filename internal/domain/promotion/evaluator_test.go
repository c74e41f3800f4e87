package promotion

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
)

type MockPromotionDB struct {
	mock.Mock
}

func (m *MockPromotionDB) GetActivePromotions(ctx context.Context) ([]*model.Promotion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Promotion), args.Error(1)
}

// recordingCondition wraps a fixed result and records the order in
// which conditions were checked.
type recordingCondition struct {
	operation.BaseOperation
	result bool
	log    *[]string
}

func newRecordingCondition(code string, priority int, result bool, log *[]string) *recordingCondition {
	return &recordingCondition{
		BaseOperation: operation.NewBaseOperation(code, "recording condition", priority, operation.ArgSpec{}),
		result:        result,
		log:           log,
	}
}

func (c *recordingCondition) Check(ctx context.Context, order *model.Order, args *operation.ArgValues) (bool, error) {
	*c.log = append(*c.log, c.Code())
	return c.result, nil
}

func encodeOps(t *testing.T, codes ...string) string {
	t.Helper()
	ops := make([]operation.ConfigurableOperation, len(codes))
	for i, code := range codes {
		ops[i] = operation.ConfigurableOperation{Code: code}
	}
	raw, err := operation.EncodeList(ops)
	require.NoError(t, err)
	return raw
}

func newTestEvaluator(t *testing.T, conditions []Condition, actions []Action) *Evaluator {
	t.Helper()
	conditionRegistry, err := NewConditionRegistry(conditions...)
	require.NoError(t, err)
	actionRegistry, err := NewActionRegistry(actions...)
	require.NoError(t, err)
	return NewEvaluator(conditionRegistry, actionRegistry, new(MockPromotionDB), clockwork.NewFakeClock(), zap.NewNop())
}

func TestEvaluator_ConditionPriorityOrdering(t *testing.T) {
	var log []string
	e := newTestEvaluator(t, []Condition{
		newRecordingCondition("heavy", 10, true, &log),
		newRecordingCondition("cheap-a", 0, true, &log),
		newRecordingCondition("cheap-b", 0, true, &log),
	}, []Action{NewOrderPercentageDiscountAction()})

	order := orderWithLines(line("101", 1))
	order.SubTotal = 10000
	promo := &model.Promotion{
		Name:       "test",
		Enabled:    true,
		Conditions: encodeOps(t, "heavy", "cheap-a", "cheap-b"),
		Actions:    `[{"code":"order-percentage-discount","arguments":[{"name":"discount","value":"10"}]}]`,
	}

	adjustments, err := e.Apply(context.Background(), order, []*model.Promotion{promo})

	require.NoError(t, err)
	assert.Equal(t, []string{"cheap-a", "cheap-b", "heavy"}, log,
		"priority 0 conditions run first, ties keep declaration order")
	require.Len(t, adjustments, 1)
	assert.Equal(t, int64(-1000), adjustments[0].Amount)
	assert.Equal(t, model.AdjustmentTypePromotion, adjustments[0].Type)
}

func TestEvaluator_ShortCircuitsOnFirstFalse(t *testing.T) {
	var log []string
	e := newTestEvaluator(t, []Condition{
		newRecordingCondition("fails", 0, false, &log),
		newRecordingCondition("never-runs", 5, true, &log),
	}, []Action{NewOrderPercentageDiscountAction()})

	order := orderWithLines(line("101", 1))
	order.SubTotal = 10000
	promo := &model.Promotion{
		Name:       "test",
		Enabled:    true,
		Conditions: encodeOps(t, "fails", "never-runs"),
		Actions:    `[{"code":"order-percentage-discount","arguments":[{"name":"discount","value":"10"}]}]`,
	}

	adjustments, err := e.Apply(context.Background(), order, []*model.Promotion{promo})

	require.NoError(t, err)
	assert.Equal(t, []string{"fails"}, log)
	assert.Empty(t, adjustments)
}

func TestEvaluator_PromotionPriorityScoreOrdering(t *testing.T) {
	var log []string
	e := newTestEvaluator(t, []Condition{
		newRecordingCondition("first", 0, true, &log),
		newRecordingCondition("second", 0, true, &log),
	}, []Action{NewOrderPercentageDiscountAction()})

	order := orderWithLines(line("101", 1))
	order.SubTotal = 10000
	high := &model.Promotion{Name: "high", Enabled: true, PriorityScore: 5, Conditions: encodeOps(t, "second"), Actions: "[]"}
	low := &model.Promotion{Name: "low", Enabled: true, PriorityScore: 1, Conditions: encodeOps(t, "first"), Actions: "[]"}

	_, err := e.Apply(context.Background(), order, []*model.Promotion{high, low})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, log)
}

func TestEvaluator_MalformedConditionsFatal(t *testing.T) {
	e := newTestEvaluator(t, nil, nil)
	order := orderWithLines(line("101", 1))
	promo := &model.Promotion{Name: "broken", Enabled: true, Conditions: "{not json", Actions: "[]"}

	_, err := e.Apply(context.Background(), order, []*model.Promotion{promo})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"broken"`)
}

func TestEvaluator_UnknownConditionCodeFatal(t *testing.T) {
	e := newTestEvaluator(t, nil, nil)
	order := orderWithLines(line("101", 1))
	promo := &model.Promotion{Name: "test", Enabled: true, Conditions: encodeOps(t, "no-such-condition"), Actions: "[]"}

	_, err := e.Apply(context.Background(), order, []*model.Promotion{promo})

	require.ErrorIs(t, err, operation.ErrUnknownOperation)
}

func TestProductPercentageDiscountAction(t *testing.T) {
	a := NewProductPercentageDiscountAction()
	order := orderWithLines(line("101", 2), line("102", 1))

	args := resolveArgs(t, a,
		operation.Arg{Name: "discount", Value: "25"},
		operation.Arg{Name: "productVariantIds", Value: `["101"]`},
	)
	adjustments, err := a.Apply(context.Background(), order, args)

	require.NoError(t, err)
	require.Len(t, adjustments, 1)
	assert.Equal(t, int64(-500), adjustments[0].Amount, "25% off a 2000 line")
}
