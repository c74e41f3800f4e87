package refund

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commercekit/server/internal/model"
	"github.com/commercekit/server/internal/shared/metrics"
)

type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) CreateHistoryEntryForOrder(ctx context.Context, orderID uuid.UUID, entryType model.HistoryEntryType, data map[string]any) error {
	args := m.Called(ctx, orderID, entryType, data)
	return args.Error(0)
}

func newTestMachine(history *MockHistoryService) *StateMachine {
	return NewStateMachine(history, metrics.New(prometheus.NewRegistry()), zap.NewNop())
}

func testOrderAndRefund(state model.RefundState) (*model.Order, *model.Refund) {
	order := &model.Order{ID: uuid.New(), Code: "ORD-2001"}
	r := &model.Refund{
		ID:      uuid.New(),
		OrderID: order.ID,
		State:   state,
		Reason:  "damaged in transit",
		Amount:  1500,
	}
	return order, r
}

func TestStateMachine_SettleWritesHistory(t *testing.T) {
	history := new(MockHistoryService)
	sm := newTestMachine(history)
	order, r := testOrderAndRefund(model.RefundStatePending)

	history.On("CreateHistoryEntryForOrder", mock.Anything, order.ID, model.HistoryRefundTransition, map[string]any{
		"refundId": r.ID.String(),
		"from":     "Pending",
		"to":       "Settled",
		"reason":   "damaged in transit",
	}).Return(nil)

	err := sm.Transition(context.Background(), order, r, model.RefundStateSettled)

	require.NoError(t, err)
	assert.Equal(t, model.RefundStateSettled, r.State)
	history.AssertExpectations(t)
}

func TestStateMachine_TerminalStatesAreFinal(t *testing.T) {
	history := new(MockHistoryService)
	sm := newTestMachine(history)

	for _, terminal := range []model.RefundState{model.RefundStateSettled, model.RefundStateFailed} {
		order, r := testOrderAndRefund(terminal)

		err := sm.Transition(context.Background(), order, r, model.RefundStatePending)

		require.Error(t, err)
		assert.Equal(t, terminal, r.State)
		assert.Empty(t, sm.NextStates(r))
	}
	history.AssertNotCalled(t, "CreateHistoryEntryForOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStateMachine_NextStatesFromPending(t *testing.T) {
	history := new(MockHistoryService)
	sm := newTestMachine(history)
	_, r := testOrderAndRefund(model.RefundStatePending)

	assert.ElementsMatch(t, []model.RefundState{
		model.RefundStateSettled,
		model.RefundStateFailed,
	}, sm.NextStates(r))
}
