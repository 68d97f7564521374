package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sewahr/payroll-backend-go/internal/domain/advance"
	"github.com/sewahr/payroll-backend-go/internal/domain/employee"
	"github.com/sewahr/payroll-backend-go/internal/domain/payroll"
	"github.com/sewahr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Payroll domain errors
	switch {
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrEntryNotFound):
		NotFound(w, "Payroll entry not found")
	case errors.Is(err, payroll.ErrEmployeeNotInPeriod):
		NotFound(w, "Employee has no entry in this period")
	case errors.Is(err, payroll.ErrPeriodLocked):
		Conflict(w, "Payroll period is locked")
	case errors.Is(err, payroll.ErrPeriodAlreadyExists):
		Conflict(w, "Payroll period already exists")
	case errors.Is(err, payroll.ErrEntryAlreadyExists):
		Conflict(w, "Payroll entry already exists")

	// Advance domain errors
	case errors.Is(err, advance.ErrAdvanceNotFound):
		NotFound(w, "Advance not found")
	case errors.Is(err, advance.ErrInsufficientBalance):
		UnprocessableEntity(w, "Deduction exceeds outstanding advance balance")
	case errors.Is(err, advance.ErrInvalidAmount):
		UnprocessableEntity(w, "Amount must be positive")
	case errors.Is(err, advance.ErrAdvanceAlreadyDrawn):
		Conflict(w, "Advance already has deductions applied")
	case errors.Is(err, advance.ErrAdvanceInactive):
		Conflict(w, "Advance is no longer active")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeNotActive):
		UnprocessableEntity(w, "Employee is not active")

	// Default
	default:
		slog.Error("Unhandled error in HTTP handler", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
