package payment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commercekit/server/internal/fsm"
	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/operation"
	"github.com/commercekit/server/internal/shared/errors"
	"github.com/commercekit/server/internal/shared/metrics"
)

// --- Mock implementations ---

type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) CreateHistoryEntryForOrder(ctx context.Context, orderID uuid.UUID, entryType model.HistoryEntryType, data map[string]any) error {
	args := m.Called(ctx, orderID, entryType, data)
	return args.Error(0)
}

// testHandler is a configurable in-test payment method handler.
type testHandler struct {
	operation.BaseOperation
	onStart func(from, to model.PaymentState, data *TransitionData) fsm.Outcome
}

func newTestHandler(code string, onStart func(from, to model.PaymentState, data *TransitionData) fsm.Outcome) *testHandler {
	if onStart == nil {
		onStart = func(from, to model.PaymentState, data *TransitionData) fsm.Outcome {
			return fsm.Proceed()
		}
	}
	return &testHandler{
		BaseOperation: operation.NewBaseOperation(code, "test handler", 0, operation.ArgSpec{}),
		onStart:       onStart,
	}
}

func (h *testHandler) OnStateTransitionStart(from, to model.PaymentState, data *TransitionData) fsm.Outcome {
	return h.onStart(from, to, data)
}

func (h *testHandler) CreatePayment(ctx context.Context, order *model.Order, amount int64, metadata map[string]string) (*CreatePaymentResult, error) {
	return &CreatePaymentResult{Amount: amount, State: model.PaymentStateAuthorized, TransactionID: "txn-test"}, nil
}

func (h *testHandler) SettlePayment(ctx context.Context, order *model.Order, p *model.Payment) (*SettlePaymentResult, error) {
	return &SettlePaymentResult{Success: true, TransactionID: p.TransactionID}, nil
}

func newTestMachine(t *testing.T, history *MockHistoryService, handlers ...MethodHandler) *StateMachine {
	t.Helper()
	registry, err := NewHandlerRegistry(handlers...)
	require.NoError(t, err)
	return NewStateMachine(registry, history, metrics.New(prometheus.NewRegistry()), zap.NewNop())
}

func testOrderAndPayment(method string, state model.PaymentState) (*model.Order, *model.Payment) {
	order := &model.Order{ID: uuid.New(), Code: "ORD-1001", State: model.OrderStateArrangingPayment}
	p := &model.Payment{
		ID:            uuid.New(),
		OrderID:       order.ID,
		Method:        method,
		State:         state,
		Amount:        5000,
		TransactionID: "txn-1",
	}
	return order, p
}

// --- Tests ---

func TestStateMachine_TransitionSettles(t *testing.T) {
	history := new(MockHistoryService)
	sm := newTestMachine(t, history, newTestHandler("test-method", nil))
	order, p := testOrderAndPayment("test-method", model.PaymentStateAuthorized)

	history.On("CreateHistoryEntryForOrder", mock.Anything, order.ID, model.HistoryPaymentTransition, map[string]any{
		"paymentId": p.ID.String(),
		"from":      "Authorized",
		"to":        "Settled",
	}).Return(nil)

	err := sm.Transition(context.Background(), order, p, model.PaymentStateSettled)

	require.NoError(t, err)
	assert.Equal(t, model.PaymentStateSettled, p.State)
	history.AssertExpectations(t)
}

func TestStateMachine_UnknownMethodCode(t *testing.T) {
	history := new(MockHistoryService)
	sm := newTestMachine(t, history, newTestHandler("test-method", nil))
	order, p := testOrderAndPayment("no-such-method", model.PaymentStateAuthorized)

	err := sm.Transition(context.Background(), order, p, model.PaymentStateSettled)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"no-such-method"`)
	assert.Equal(t, model.PaymentStateAuthorized, p.State)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ILLEGAL_OPERATION", appErr.Code)
	history.AssertNotCalled(t, "CreateHistoryEntryForOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStateMachine_SilentVeto(t *testing.T) {
	history := new(MockHistoryService)
	handler := newTestHandler("test-method", func(from, to model.PaymentState, data *TransitionData) fsm.Outcome {
		return fsm.Deny()
	})
	sm := newTestMachine(t, history, handler)
	order, p := testOrderAndPayment("test-method", model.PaymentStateAuthorized)

	err := sm.Transition(context.Background(), order, p, model.PaymentStateSettled)

	// A silent veto produces no error and leaves the state unchanged.
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStateAuthorized, p.State)
	history.AssertNotCalled(t, "CreateHistoryEntryForOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStateMachine_VetoWithReason(t *testing.T) {
	history := new(MockHistoryService)
	handler := newTestHandler("test-method", func(from, to model.PaymentState, data *TransitionData) fsm.Outcome {
		return fsm.DenyWithReason("gateway balance check failed")
	})
	sm := newTestMachine(t, history, handler)
	order, p := testOrderAndPayment("test-method", model.PaymentStateAuthorized)

	err := sm.Transition(context.Background(), order, p, model.PaymentStateSettled)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway balance check failed")
	assert.Equal(t, model.PaymentStateAuthorized, p.State)
}

func TestStateMachine_InvalidTransition(t *testing.T) {
	history := new(MockHistoryService)
	sm := newTestMachine(t, history, newTestHandler("test-method", nil))
	order, p := testOrderAndPayment("test-method", model.PaymentStateSettled)

	err := sm.Transition(context.Background(), order, p, model.PaymentStateAuthorized)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot transition Payment from Settled to Authorized")
	assert.Equal(t, model.PaymentStateSettled, p.State)
}

func TestStateMachine_NextStates(t *testing.T) {
	history := new(MockHistoryService)
	sm := newTestMachine(t, history, newTestHandler("test-method", nil))
	_, p := testOrderAndPayment("test-method", model.PaymentStateCreated)

	next := sm.NextStates(p)
	assert.ElementsMatch(t, []model.PaymentState{
		model.PaymentStateAuthorized,
		model.PaymentStateSettled,
		model.PaymentStateDeclined,
		model.PaymentStateError,
	}, next)

	p.State = model.PaymentStateDeclined
	assert.Empty(t, sm.NextStates(p))
}

func TestStateMachine_Jump(t *testing.T) {
	history := new(MockHistoryService)
	sm := newTestMachine(t, history, newTestHandler("test-method", nil))
	_, p := testOrderAndPayment("test-method", model.PaymentStateSettled)

	sm.Jump(p, model.PaymentStateAuthorized)

	assert.Equal(t, model.PaymentStateAuthorized, p.State)
	history.AssertNotCalled(t, "CreateHistoryEntryForOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
