package advance

import (
	"github.com/sewahr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type GrantAdvanceRequest struct {
	EmployeeID    string          `json:"employee_id"`
	Amount        decimal.Decimal `json:"amount"`
	GrantedDate   string          `json:"granted_date"`
	ForMonth      string          `json:"for_month"`
	PaymentMethod string          `json:"payment_method"`
	Remarks       *string         `json:"remarks,omitempty"`
}

func (r *GrantAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	}
	if validator.IsEmpty(r.GrantedDate) {
		errs = append(errs, validator.ValidationError{Field: "granted_date", Message: "is required"})
	} else if _, ok := validator.IsValidDate(r.GrantedDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "granted_date", Message: "must be in YYYY-MM-DD format"})
	}
	if validator.IsEmpty(r.ForMonth) {
		errs = append(errs, validator.ValidationError{Field: "for_month", Message: "is required"})
	} else if _, ok := validator.IsValidMonth(r.ForMonth); !ok {
		errs = append(errs, validator.ValidationError{Field: "for_month", Message: "must be in YYYY-MM format"})
	}
	if !validator.IsInSlice(r.PaymentMethod, PaymentMethods) {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: "must be one of cash, bank_transfer, cheque"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdvanceResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeCode     string          `json:"employee_code,omitempty"`
	EmployeeName     string          `json:"employee_name,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	GrantedDate      string          `json:"granted_date"`
	ForMonth         string          `json:"for_month"`
	PaymentMethod    string          `json:"payment_method"`
	Remarks          *string         `json:"remarks,omitempty"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           string          `json:"status"`
	IsActive         bool            `json:"is_active"`
}

type ListAdvancesResponse struct {
	Data               []AdvanceResponse `json:"data"`
	OutstandingBalance decimal.Decimal   `json:"outstanding_balance"`
}
