package payroll

import "context"

// PayrollService defines business logic for payroll periods, staged edits,
// and summaries.
type PayrollService interface {
	// CalculatePeriod runs the calculator over every active employee with
	// attendance data for the month, creating the period on first run.
	// Employees without attendance are skipped; per-employee validation
	// failures are collected, not fatal to the batch.
	CalculatePeriod(ctx context.Context, req CalculatePeriodRequest) (CalculatePeriodResponse, error)

	// GetPeriod returns the period with its entries, overlaying any open
	// staged edits so readers never see superseded values.
	GetPeriod(ctx context.Context, year, month int) (PeriodResponse, error)

	// ListPeriods returns periods with their cached rollups, newest first.
	ListPeriods(ctx context.Context, filter PeriodFilter) (ListPeriodsResponse, error)

	// LockPeriod freezes a period against recalculation, commits and deletes.
	LockPeriod(ctx context.Context, year, month int) error

	// UnlockPeriod lifts the freeze again.
	UnlockPeriod(ctx context.Context, year, month int) error

	// DeletePeriod removes an unlocked period and all of its entries.
	DeletePeriod(ctx context.Context, year, month int) error

	// GetPeriodSummary computes live rollups for dashboard cards.
	GetPeriodSummary(ctx context.Context, year, month int) (PeriodSummaryResponse, error)

	// StagePaidStatus records a paid-status override in the period's edit
	// buffer without touching persisted state.
	StagePaidStatus(ctx context.Context, req StagePaidStatusRequest) error

	// StageAdvanceDeduction records a deduction override in the period's
	// edit buffer; it is validated at commit time, not here.
	StageAdvanceDeduction(ctx context.Context, req StageDeductionRequest) error

	// CommitChanges re-validates every staged edit against the live advance
	// ledger and applies the accepted ones atomically. Rejected edits are
	// reported back and stay staged.
	CommitChanges(ctx context.Context, year, month int) (CommitResult, error)

	// DiscardChanges drops all staged edits for the period.
	DiscardChanges(ctx context.Context, year, month int) error
}
