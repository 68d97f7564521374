package payroll

import (
	"errors"
	"testing"

	"github.com/sewahr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func computeInput() ComputeInput {
	return ComputeInput{
		EmployeeID: "emp-1",
		BaseSalary: decimal.NewFromInt(24000),
		Attendance: AttendanceSummary{
			EmployeeID:  "emp-1",
			WorkingDays: 24,
			PresentDays: decimal.NewFromInt(24),
			AbsentDays:  decimal.Zero,
			OTHours:     decimal.Zero,
			LateMinutes: 0,
		},
		TDSPercentage:      decimal.Zero,
		AdvanceBalance:     decimal.Zero,
		RequestedDeduction: decimal.Zero,
	}
}

func TestComputeEntry_FullAttendance(t *testing.T) {
	t.Parallel()

	entry, err := ComputeEntry(computeInput())

	require.NoError(t, err)
	assert.Equal(t, "24000.00", entry.GrossSalary.StringFixed(2))
	assert.Equal(t, "0.00", entry.TDSAmount.StringFixed(2))
	assert.Equal(t, "24000.00", entry.SalaryAfterTDS.StringFixed(2))
	assert.Equal(t, "0.00", entry.AdvanceDeductionAmount.StringFixed(2))
	assert.Equal(t, "24000.00", entry.NetPayable.StringFixed(2))
}

func TestComputeEntry_OvertimeCharges(t *testing.T) {
	t.Parallel()
	in := computeInput()
	in.Attendance.OTHours = decimal.NewFromInt(5)

	entry, err := ComputeEntry(in)

	// ot rate = 24000 / 240 = 100 per hour
	require.NoError(t, err)
	assert.Equal(t, "500.00", entry.OTCharges.StringFixed(2))
	assert.Equal(t, "24500.00", entry.GrossSalary.StringFixed(2))
	assert.Equal(t, "24500.00", entry.NetPayable.StringFixed(2))
}

func TestComputeEntry_LateDeduction(t *testing.T) {
	t.Parallel()
	in := computeInput()
	in.Attendance.LateMinutes = 120

	entry, err := ComputeEntry(in)

	// 120 minutes at 100/60 per minute
	require.NoError(t, err)
	assert.Equal(t, "200.00", entry.LateDeduction.StringFixed(2))
	assert.Equal(t, "23800.00", entry.GrossSalary.StringFixed(2))
}

func TestComputeEntry_ProratedByPresence(t *testing.T) {
	t.Parallel()
	in := computeInput()
	in.Attendance.PresentDays = decimal.NewFromInt(18)
	in.Attendance.AbsentDays = decimal.NewFromInt(6)

	entry, err := ComputeEntry(in)

	require.NoError(t, err)
	assert.Equal(t, "18000.00", entry.GrossSalary.StringFixed(2))
}

func TestComputeEntry_TDSWithheld(t *testing.T) {
	t.Parallel()
	in := computeInput()
	in.TDSPercentage = decimal.NewFromInt(10)

	entry, err := ComputeEntry(in)

	require.NoError(t, err)
	assert.Equal(t, "2400.00", entry.TDSAmount.StringFixed(2))
	assert.Equal(t, "21600.00", entry.SalaryAfterTDS.StringFixed(2))
	assert.Equal(t, "21600.00", entry.NetPayable.StringFixed(2))
}

func TestComputeEntry_DeductionClampedToSalary(t *testing.T) {
	t.Parallel()

	// salary after TDS is 5000, the employee owes 8000, admin asked for 6000
	in := computeInput()
	in.BaseSalary = decimal.NewFromInt(5000)
	in.Attendance.WorkingDays = 20
	in.Attendance.PresentDays = decimal.NewFromInt(20)
	in.AdvanceBalance = decimal.NewFromInt(8000)
	in.RequestedDeduction = decimal.NewFromInt(6000)

	entry, err := ComputeEntry(in)

	require.NoError(t, err)
	assert.Equal(t, "5000.00", entry.SalaryAfterTDS.StringFixed(2))
	assert.Equal(t, "5000.00", entry.AdvanceDeductionAmount.StringFixed(2))
	assert.Equal(t, "0.00", entry.NetPayable.StringFixed(2))
}

func TestComputeEntry_DeductionClampedToBalance(t *testing.T) {
	t.Parallel()
	in := computeInput()
	in.AdvanceBalance = decimal.NewFromInt(300)
	in.RequestedDeduction = decimal.NewFromInt(12000)

	entry, err := ComputeEntry(in)

	require.NoError(t, err)
	assert.Equal(t, "300.00", entry.AdvanceDeductionAmount.StringFixed(2))
	assert.Equal(t, "23700.00", entry.NetPayable.StringFixed(2))
}

func TestComputeEntry_ZeroWorkingDays(t *testing.T) {
	t.Parallel()
	in := computeInput()
	in.Attendance.WorkingDays = 0
	in.Attendance.PresentDays = decimal.Zero
	in.Attendance.OTHours = decimal.NewFromInt(5)
	in.AdvanceBalance = decimal.NewFromInt(1000)
	in.RequestedDeduction = decimal.NewFromInt(500)

	entry, err := ComputeEntry(in)

	// zero working days means zero gross, so nothing is deductible either
	require.NoError(t, err)
	assert.Equal(t, "0.00", entry.GrossSalary.StringFixed(2))
	assert.Equal(t, "0.00", entry.AdvanceDeductionAmount.StringFixed(2))
	assert.Equal(t, "0.00", entry.NetPayable.StringFixed(2))
}

func TestComputeEntry_LatenessNeverPushesGrossNegative(t *testing.T) {
	t.Parallel()
	in := computeInput()
	in.BaseSalary = decimal.NewFromInt(2400)
	in.Attendance.WorkingDays = 30
	in.Attendance.PresentDays = decimal.NewFromInt(1)
	in.Attendance.LateMinutes = 600

	entry, err := ComputeEntry(in)

	// prorated 80, late deduction 600 * (10/60) = 100
	require.NoError(t, err)
	assert.Equal(t, "100.00", entry.LateDeduction.StringFixed(2))
	assert.Equal(t, "0.00", entry.GrossSalary.StringFixed(2))
	assert.False(t, entry.NetPayable.IsNegative())
}

func TestComputeEntry_RoundsEachDerivedField(t *testing.T) {
	t.Parallel()
	in := computeInput()
	in.BaseSalary = decimal.NewFromInt(25000)
	in.Attendance.PresentDays = decimal.Zero
	in.Attendance.AbsentDays = decimal.NewFromInt(24)
	in.Attendance.OTHours = decimal.NewFromInt(3)
	in.Attendance.LateMinutes = 45
	in.TDSPercentage = decimal.NewFromInt(10)
	in.AdvanceBalance = decimal.NewFromInt(50)
	in.RequestedDeduction = decimal.NewFromInt(100)

	entry, err := ComputeEntry(in)

	// ot rate 25000/240 rounds to 104.17
	require.NoError(t, err)
	assert.Equal(t, "312.51", entry.OTCharges.StringFixed(2))
	assert.Equal(t, "78.13", entry.LateDeduction.StringFixed(2))
	assert.Equal(t, "234.38", entry.GrossSalary.StringFixed(2))
	assert.Equal(t, "23.44", entry.TDSAmount.StringFixed(2))
	assert.Equal(t, "210.94", entry.SalaryAfterTDS.StringFixed(2))
	assert.Equal(t, "50.00", entry.AdvanceDeductionAmount.StringFixed(2))
	assert.Equal(t, "160.94", entry.NetPayable.StringFixed(2))
}

func TestComputeEntry_Idempotent(t *testing.T) {
	t.Parallel()
	in := computeInput()
	in.Attendance.OTHours = decimal.NewFromFloat(2.5)
	in.Attendance.LateMinutes = 37
	in.TDSPercentage = decimal.NewFromFloat(7.5)
	in.AdvanceBalance = decimal.NewFromInt(900)
	in.RequestedDeduction = decimal.NewFromInt(400)

	first, err1 := ComputeEntry(in)
	second, err2 := ComputeEntry(in)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestComputeEntry_RejectsInvalidInput(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		mod   func(*ComputeInput)
		field string
	}{
		{"negative base salary", func(in *ComputeInput) { in.BaseSalary = decimal.NewFromInt(-1) }, "base_salary"},
		{"negative working days", func(in *ComputeInput) { in.Attendance.WorkingDays = -1 }, "working_days"},
		{"negative present days", func(in *ComputeInput) { in.Attendance.PresentDays = decimal.NewFromInt(-2) }, "present_days"},
		{"negative absent days", func(in *ComputeInput) { in.Attendance.AbsentDays = decimal.NewFromInt(-2) }, "absent_days"},
		{"negative overtime", func(in *ComputeInput) { in.Attendance.OTHours = decimal.NewFromInt(-1) }, "ot_hours"},
		{"negative late minutes", func(in *ComputeInput) { in.Attendance.LateMinutes = -10 }, "late_minutes"},
		{"tds above 100", func(in *ComputeInput) { in.TDSPercentage = decimal.NewFromInt(150) }, "tds_percentage"},
		{"tds below 0", func(in *ComputeInput) { in.TDSPercentage = decimal.NewFromInt(-5) }, "tds_percentage"},
		{"negative balance", func(in *ComputeInput) { in.AdvanceBalance = decimal.NewFromInt(-100) }, "advance_balance"},
		{"negative request", func(in *ComputeInput) { in.RequestedDeduction = decimal.NewFromInt(-100) }, "requested_deduction"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := computeInput()
			c.mod(&in)

			entry, err := ComputeEntry(in)

			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Contains(t, verrs.ToMap(), c.field)
			assert.Empty(t, entry.EmployeeID, "no partial result on invalid input")
		})
	}
}

func TestSuggestedDeduction(t *testing.T) {
	t.Parallel()

	half := SuggestedDeduction(decimal.NewFromInt(5000), DefaultAdvanceDeductionPercent)
	assert.Equal(t, "2500.00", half.StringFixed(2))

	odd := SuggestedDeduction(decimal.NewFromFloat(333.33), DefaultAdvanceDeductionPercent)
	assert.Equal(t, "166.67", odd.StringFixed(2))

	assert.True(t, SuggestedDeduction(decimal.NewFromInt(-10), DefaultAdvanceDeductionPercent).IsZero())
	assert.True(t, SuggestedDeduction(decimal.NewFromInt(5000), 0).IsZero())
}
