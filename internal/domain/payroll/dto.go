package payroll

import (
	"github.com/sewahr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CALCULATION DTOs ==========

type CalculatePeriodRequest struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	WorkingDays int             `json:"working_days"`
	TDSRate     decimal.Decimal `json:"tds_rate"`
}

func (r *CalculatePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year < 2020 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be 2020 or later"})
	}
	if r.WorkingDays < 0 || r.WorkingDays > 31 {
		errs = append(errs, validator.ValidationError{Field: "working_days", Message: "must be between 0 and 31"})
	}
	if r.TDSRate.IsNegative() || r.TDSRate.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, validator.ValidationError{Field: "tds_rate", Message: "must be between 0 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SkippedEmployee identifies an employee left out of a calculation run and why.
type SkippedEmployee struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type CalculatePeriodResponse struct {
	Period     PeriodResponse    `json:"period"`
	Calculated int               `json:"calculated"`
	Skipped    []SkippedEmployee `json:"skipped,omitempty"`
}

// ========== STAGING DTOs ==========

type StagePaidStatusRequest struct {
	Year       int    `json:"-"`
	Month      int    `json:"-"`
	EmployeeID string `json:"employee_id"`
	IsPaid     bool   `json:"is_paid"`
}

func (r *StagePaidStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StageDeductionRequest struct {
	Year       int             `json:"-"`
	Month      int             `json:"-"`
	EmployeeID string          `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
}

func (r *StageDeductionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RejectedEdit reports one staged edit that failed commit re-validation.
type RejectedEdit struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// CommitResult reports the outcome of saving a period's staged edits.
// Rejected edits remain staged; applied ones are cleared from the buffer.
type CommitResult struct {
	Applied  []PayrollEntryResponse `json:"applied"`
	Rejected []RejectedEdit         `json:"rejected,omitempty"`
}

// ========== PERIOD DTOs ==========

type PayrollEntryResponse struct {
	ID                     string          `json:"id"`
	EmployeeID             string          `json:"employee_id"`
	EmployeeCode           string          `json:"employee_code"`
	EmployeeName           string          `json:"employee_name"`
	BaseSalary             decimal.Decimal `json:"base_salary"`
	WorkingDays            int             `json:"working_days"`
	PresentDays            decimal.Decimal `json:"present_days"`
	AbsentDays             decimal.Decimal `json:"absent_days"`
	OTHours                decimal.Decimal `json:"ot_hours"`
	LateMinutes            int             `json:"late_minutes"`
	GrossSalary            decimal.Decimal `json:"gross_salary"`
	OTCharges              decimal.Decimal `json:"ot_charges"`
	LateDeduction          decimal.Decimal `json:"late_deduction"`
	TDSPercentage          decimal.Decimal `json:"tds_percentage"`
	TDSAmount              decimal.Decimal `json:"tds_amount"`
	SalaryAfterTDS         decimal.Decimal `json:"salary_after_tds"`
	AdvanceDeductionAmount decimal.Decimal `json:"advance_deduction_amount"`
	NetPayable             decimal.Decimal `json:"net_payable"`
	IsPaid                 bool            `json:"is_paid"`
	Unsaved                bool            `json:"unsaved,omitempty"`
}

type PeriodResponse struct {
	ID                   string                 `json:"id"`
	Year                 int                    `json:"year"`
	Month                int                    `json:"month"`
	WorkingDays          int                    `json:"working_days"`
	TDSRate              decimal.Decimal        `json:"tds_rate"`
	IsLocked             bool                   `json:"is_locked"`
	TotalGross           decimal.Decimal        `json:"total_gross"`
	TotalNet             decimal.Decimal        `json:"total_net"`
	TotalAdvanceDeducted decimal.Decimal        `json:"total_advance_deducted"`
	EntryCount           int                    `json:"entry_count"`
	PaidCount            int                    `json:"paid_count"`
	PendingCount         int                    `json:"pending_count"`
	Entries              []PayrollEntryResponse `json:"entries,omitempty"`
}

type PeriodFilter struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type ListPeriodsResponse struct {
	Data       []PeriodResponse `json:"data"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

type PeriodSummaryResponse struct {
	Year                 int             `json:"year"`
	Month                int             `json:"month"`
	IsLocked             bool            `json:"is_locked"`
	EntryCount           int             `json:"entry_count"`
	TotalGross           decimal.Decimal `json:"total_gross"`
	TotalNet             decimal.Decimal `json:"total_net"`
	TotalAdvanceDeducted decimal.Decimal `json:"total_advance_deducted"`
	PaidCount            int             `json:"paid_count"`
	PendingCount         int             `json:"pending_count"`
}
