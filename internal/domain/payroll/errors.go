package payroll

import "errors"

var (
	ErrPeriodNotFound      = errors.New("payroll period not found")
	ErrPeriodAlreadyExists = errors.New("payroll period already exists for this month")
	ErrPeriodLocked        = errors.New("payroll period is locked")
	ErrEntryNotFound       = errors.New("payroll entry not found")
	ErrEntryAlreadyExists  = errors.New("payroll entry already exists for this period")
	ErrEmployeeNotInPeriod = errors.New("employee has no payroll entry in this period")
)
