package advance

import "errors"

var (
	ErrAdvanceNotFound     = errors.New("advance payment not found")
	ErrInvalidAmount       = errors.New("amount must be non-negative")
	ErrInsufficientBalance = errors.New("deduction exceeds outstanding advance balance")
	ErrExcessiveReversal   = errors.New("reversal exceeds the amount already deducted")
	ErrAdvanceAlreadyDrawn = errors.New("advance already has deductions applied")
	ErrAdvanceInactive     = errors.New("advance payment is inactive")
)
