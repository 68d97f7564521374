package advance

import (
	"context"

	"github.com/shopspring/decimal"
)

// AdvanceService defines business logic for the advance ledger.
//
// ApplyDeduction and ReverseDeduction are the only operations that move
// balances. Both must run inside the caller's storage transaction (they join
// whatever transaction the context carries) and serialize per employee via
// row locks, so two concurrent deductions can never jointly over-draw a
// balance.
type AdvanceService interface {
	// GrantAdvance creates a new advance with its full amount outstanding.
	GrantAdvance(ctx context.Context, req GrantAdvanceRequest) (AdvanceResponse, error)

	// ListEmployeeAdvances returns an employee's advances, newest first,
	// with the outstanding total across active ones.
	ListEmployeeAdvances(ctx context.Context, employeeID string) (ListAdvancesResponse, error)

	// CancelAdvance deactivates an advance no deduction has touched yet.
	CancelAdvance(ctx context.Context, id string) error

	// OutstandingBalance sums remaining balances over the employee's active
	// advances.
	OutstandingBalance(ctx context.Context, employeeID string) (decimal.Decimal, error)

	// LockOutstanding is OutstandingBalance under row locks: it pins the
	// employee's active advances for the rest of the surrounding transaction,
	// so the returned total stays true until the transaction ends. Callers
	// validate against it before moving balances.
	LockOutstanding(ctx context.Context, employeeID string) (decimal.Decimal, error)

	// ApplyDeduction draws the amount down across the employee's active
	// advances FIFO, failing with ErrInsufficientBalance when the amount
	// exceeds the outstanding total. Returns the advances it touched.
	ApplyDeduction(ctx context.Context, employeeID string, amount decimal.Decimal) ([]AdvancePayment, error)

	// ReverseDeduction is the inverse of ApplyDeduction, used when a
	// committed deduction is superseded by a later edit. Restores newest
	// drawdowns first, failing with ErrExcessiveReversal when the amount
	// exceeds what was deducted.
	ReverseDeduction(ctx context.Context, employeeID string, amount decimal.Decimal) ([]AdvancePayment, error)
}
