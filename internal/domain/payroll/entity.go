package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollPeriod - Aggregate of one month's payroll run for a company
type PayrollPeriod struct {
	ID          string
	CompanyID   string
	Year        int
	Month       int
	WorkingDays int
	TDSRate     decimal.Decimal
	IsLocked    bool

	// Cached rollups, refreshed asynchronously after calculation and commit
	TotalGross           decimal.Decimal
	TotalNet             decimal.Decimal
	TotalAdvanceDeducted decimal.Decimal
	EntryCount           int
	PaidCount            int
	PendingCount         int
	SummaryRefreshedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayrollEntry - One employee's computed result for one period.
// The field set and 2-decimal rounding are relied on by downstream exports.
type PayrollEntry struct {
	ID                     string
	PeriodID               string
	EmployeeID             string
	BaseSalary             decimal.Decimal
	WorkingDays            int
	PresentDays            decimal.Decimal
	AbsentDays             decimal.Decimal
	OTHours                decimal.Decimal
	LateMinutes            int
	GrossSalary            decimal.Decimal
	OTCharges              decimal.Decimal
	LateDeduction          decimal.Decimal
	TDSPercentage          decimal.Decimal
	TDSAmount              decimal.Decimal
	SalaryAfterTDS         decimal.Decimal
	AdvanceDeductionAmount decimal.Decimal
	NetPayable             decimal.Decimal
	IsPaid                 bool
	CreatedAt              time.Time
	UpdatedAt              time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// AttendanceSummary - Aggregate from attendances table for one employee/month
type AttendanceSummary struct {
	EmployeeID  string
	WorkingDays int
	PresentDays decimal.Decimal
	AbsentDays  decimal.Decimal
	OTHours     decimal.Decimal
	LateMinutes int
}

// PeriodRollups - Live aggregate over a period's entries
type PeriodRollups struct {
	EntryCount           int
	TotalGross           decimal.Decimal
	TotalNet             decimal.Decimal
	TotalAdvanceDeducted decimal.Decimal
	PaidCount            int
	PendingCount         int
}
