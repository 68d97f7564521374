package advance

import (
	"context"

	"github.com/shopspring/decimal"
)

// AdvanceRepository defines data access methods for advance payments.
// All methods include companyID to prevent cross-company data access.
type AdvanceRepository interface {
	Create(ctx context.Context, adv AdvancePayment) (AdvancePayment, error)
	GetByID(ctx context.Context, id, companyID string) (AdvancePayment, error)
	ListByEmployee(ctx context.Context, companyID, employeeID string) ([]AdvancePayment, error)
	GetOutstandingBalance(ctx context.Context, companyID, employeeID string) (decimal.Decimal, error)

	// LockActiveByEmployee returns the employee's active advances with row
	// locks held for the rest of the surrounding transaction, in FIFO order
	// (oldest grant first). The lock order is always the same so concurrent
	// transactions block instead of deadlocking; callers needing newest-first
	// reverse the slice themselves.
	LockActiveByEmployee(ctx context.Context, companyID, employeeID string) ([]AdvancePayment, error)

	// ApplySteps persists planned balance/status changes row by row.
	ApplySteps(ctx context.Context, companyID string, steps []DrawdownStep) error

	Deactivate(ctx context.Context, id, companyID string) error
}
