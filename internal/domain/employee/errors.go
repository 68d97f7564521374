package employee

import "errors"

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrEmployeeNotActive = errors.New("employee is not active")
	ErrEmployeeNoSalary  = errors.New("employee has no base salary configured")
)
