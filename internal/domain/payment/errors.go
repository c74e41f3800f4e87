package payment

import "errors"

// Payment domain errors.
var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrOrderNotPayable      = errors.New("order is not in a payable state")
	ErrRefundNotSupported   = errors.New("payment method does not support refunds")
	ErrRefundExceedsSettled = errors.New("refund amount exceeds settled amount")
	ErrPaymentNotRefundable = errors.New("payment is not in a refundable state")
)
