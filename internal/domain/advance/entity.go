package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdvanceStatus enum. Repayment walks pending -> partially_paid -> repaid;
// only an explicit reversal moves it back.
type AdvanceStatus string

const (
	AdvanceStatusPending       AdvanceStatus = "pending"
	AdvanceStatusPartiallyPaid AdvanceStatus = "partially_paid"
	AdvanceStatusRepaid        AdvanceStatus = "repaid"
)

// PaymentMethod enum
const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCheque       = "cheque"
)

var PaymentMethods = []string{PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque}

// AdvancePayment - One cash advance granted to an employee, recovered through
// payroll deductions. remaining_balance is the single source of truth for how
// much is still owed; payroll entries only carry copies of applied amounts.
type AdvancePayment struct {
	ID               string
	CompanyID        string
	EmployeeID       string
	Amount           decimal.Decimal
	GrantedDate      time.Time
	ForMonth         time.Time
	PaymentMethod    string
	Remarks          *string
	RemainingBalance decimal.Decimal
	Status           AdvanceStatus
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// StatusForBalance derives the repayment status from how much of the granted
// amount is still outstanding.
func StatusForBalance(amount, remaining decimal.Decimal) AdvanceStatus {
	switch {
	case remaining.IsZero():
		return AdvanceStatusRepaid
	case remaining.LessThan(amount):
		return AdvanceStatusPartiallyPaid
	default:
		return AdvanceStatusPending
	}
}
