package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// PayrollRepository defines data access methods for payroll periods and
// entries. All methods include companyID to prevent cross-company data access.
type PayrollRepository interface {
	// Periods
	CreatePeriod(ctx context.Context, period PayrollPeriod) (PayrollPeriod, error)
	GetPeriod(ctx context.Context, companyID string, year, month int) (PayrollPeriod, error)
	ListPeriods(ctx context.Context, companyID string, filter PeriodFilter) ([]PayrollPeriod, int64, error)
	UpdatePeriodInputs(ctx context.Context, companyID, periodID string, workingDays int, tdsRate decimal.Decimal) error
	SetPeriodLock(ctx context.Context, companyID, periodID string, locked bool) error
	DeletePeriod(ctx context.Context, companyID, periodID string) error
	UpdatePeriodRollups(ctx context.Context, companyID, periodID string, rollups PeriodRollups) error

	// Entries
	CreateEntry(ctx context.Context, entry PayrollEntry) (PayrollEntry, error)
	GetEntryByEmployee(ctx context.Context, companyID, periodID, employeeID string) (PayrollEntry, error)
	ListEntries(ctx context.Context, companyID, periodID string) ([]PayrollEntry, error)
	UpdateEntry(ctx context.Context, companyID string, entry PayrollEntry) error

	// Aggregations
	GetAttendanceSummary(ctx context.Context, companyID string, year, month int, employeeIDs []string) ([]AttendanceSummary, error)
	GetPeriodRollups(ctx context.Context, companyID, periodID string) (PeriodRollups, error)
}
