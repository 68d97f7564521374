package payroll

import (
	"github.com/sewahr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// OvertimeRateDivisorHours converts a monthly base salary into an hourly
// overtime rate: 30 days x 8 hours.
const OvertimeRateDivisorHours = 240

// DefaultAdvanceDeductionPercent is the suggested share of salary-after-TDS
// withheld for advance recovery when the administrator has not overridden it.
const DefaultAdvanceDeductionPercent = 50

var (
	hundred        = decimal.NewFromInt(100)
	minutesPerHour = decimal.NewFromInt(60)
	otRateDivisor  = decimal.NewFromInt(OvertimeRateDivisorHours)
)

// ComputeInput carries everything one payroll computation depends on.
type ComputeInput struct {
	EmployeeID         string
	BaseSalary         decimal.Decimal
	Attendance         AttendanceSummary
	TDSPercentage      decimal.Decimal
	AdvanceBalance     decimal.Decimal
	RequestedDeduction decimal.Decimal
}

func (in ComputeInput) validate() error {
	var errs validator.ValidationErrors

	if in.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if in.Attendance.WorkingDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "working_days", Message: "must be non-negative"})
	}
	if in.Attendance.PresentDays.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "present_days", Message: "must be non-negative"})
	}
	if in.Attendance.AbsentDays.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "absent_days", Message: "must be non-negative"})
	}
	if in.Attendance.OTHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "ot_hours", Message: "must be non-negative"})
	}
	if in.Attendance.LateMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "late_minutes", Message: "must be non-negative"})
	}
	if in.TDSPercentage.IsNegative() || in.TDSPercentage.GreaterThan(hundred) {
		errs = append(errs, validator.ValidationError{Field: "tds_percentage", Message: "must be between 0 and 100"})
	}
	if in.AdvanceBalance.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "advance_balance", Message: "must be non-negative"})
	}
	if in.RequestedDeduction.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "requested_deduction", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ComputeEntry derives a PayrollEntry from salary and attendance inputs.
// It is pure: identical input always yields an identical entry, and invalid
// input yields no partial result. Every derived money field is rounded to
// 2 decimal places as it is produced.
//
// The advance deduction is clamped to min(requested, advance balance,
// salary after TDS); net payable can therefore never go negative.
func ComputeEntry(in ComputeInput) (PayrollEntry, error) {
	if err := in.validate(); err != nil {
		return PayrollEntry{}, err
	}

	att := in.Attendance

	otRate := in.BaseSalary.Div(otRateDivisor).Round(2)
	otCharges := att.OTHours.Mul(otRate).Round(2)
	lateDeduction := decimal.NewFromInt(int64(att.LateMinutes)).Mul(otRate.Div(minutesPerHour)).Round(2)

	// A month with zero working days produces zero gross pay. Lateness
	// deductions never push gross pay below zero either.
	gross := decimal.Zero
	if att.WorkingDays > 0 {
		prorated := in.BaseSalary.Div(decimal.NewFromInt(int64(att.WorkingDays))).Mul(att.PresentDays)
		gross = prorated.Add(otCharges).Sub(lateDeduction).Round(2)
		if gross.IsNegative() {
			gross = decimal.Zero
		}
	}

	tdsAmount := gross.Mul(in.TDSPercentage).Div(hundred).Round(2)
	salaryAfterTDS := gross.Sub(tdsAmount).Round(2)

	maxDeductible := salaryAfterTDS
	if maxDeductible.IsNegative() {
		maxDeductible = decimal.Zero
	}
	deduction := decimal.Min(in.RequestedDeduction, in.AdvanceBalance, maxDeductible).Round(2)
	netPayable := salaryAfterTDS.Sub(deduction).Round(2)

	return PayrollEntry{
		EmployeeID:             in.EmployeeID,
		BaseSalary:             in.BaseSalary,
		WorkingDays:            att.WorkingDays,
		PresentDays:            att.PresentDays,
		AbsentDays:             att.AbsentDays,
		OTHours:                att.OTHours,
		LateMinutes:            att.LateMinutes,
		GrossSalary:            gross,
		OTCharges:              otCharges,
		LateDeduction:          lateDeduction,
		TDSPercentage:          in.TDSPercentage,
		TDSAmount:              tdsAmount,
		SalaryAfterTDS:         salaryAfterTDS,
		AdvanceDeductionAmount: deduction,
		NetPayable:             netPayable,
	}, nil
}

// SuggestedDeduction returns the default advance-deduction request for an
// employee: a fixed percentage of salary-after-TDS. Callers still pass the
// result through ComputeEntry, which re-clamps it against the live balance.
func SuggestedDeduction(salaryAfterTDS decimal.Decimal, percent int) decimal.Decimal {
	if salaryAfterTDS.IsNegative() || percent <= 0 {
		return decimal.Zero
	}
	return salaryAfterTDS.Mul(decimal.NewFromInt(int64(percent))).Div(hundred).Round(2)
}
