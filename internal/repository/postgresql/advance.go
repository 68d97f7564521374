package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sewahr/payroll-backend-go/internal/domain/advance"
	"github.com/sewahr/payroll-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type advanceRepository struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepository{db: db}
}

func (r *advanceRepository) Create(ctx context.Context, adv advance.AdvancePayment) (advance.AdvancePayment, error) {
	q := GetQuerier(ctx, r.db)

	if adv.ID == "" {
		adv.ID = uuid.New().String()
	}

	query := `
		INSERT INTO advance_payments (
			id, company_id, employee_id, amount, granted_date, for_month,
			payment_method, remarks, remaining_balance, status, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, company_id, employee_id, amount, granted_date, for_month,
			payment_method, remarks, remaining_balance, status, is_active,
			created_at, updated_at
	`

	var a advance.AdvancePayment
	err := q.QueryRow(ctx, query,
		adv.ID, adv.CompanyID, adv.EmployeeID, adv.Amount, adv.GrantedDate, adv.ForMonth,
		adv.PaymentMethod, adv.Remarks, adv.RemainingBalance, adv.Status, adv.IsActive,
	).Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.Amount, &a.GrantedDate, &a.ForMonth,
		&a.PaymentMethod, &a.Remarks, &a.RemainingBalance, &a.Status, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return advance.AdvancePayment{}, fmt.Errorf("failed to create advance payment: %w", err)
	}

	return a, nil
}

func (r *advanceRepository) GetByID(ctx context.Context, id, companyID string) (advance.AdvancePayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ap.id, ap.company_id, ap.employee_id, ap.amount, ap.granted_date,
			   ap.for_month, ap.payment_method, ap.remarks, ap.remaining_balance,
			   ap.status, ap.is_active, ap.created_at, ap.updated_at,
			   e.full_name as employee_name, e.employee_code
		FROM advance_payments ap
		JOIN employees e ON ap.employee_id = e.id
		WHERE ap.id = $1 AND ap.company_id = $2
	`

	var a advance.AdvancePayment
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.Amount, &a.GrantedDate,
		&a.ForMonth, &a.PaymentMethod, &a.Remarks, &a.RemainingBalance,
		&a.Status, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName, &a.EmployeeCode,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return advance.AdvancePayment{}, advance.ErrAdvanceNotFound
		}
		return advance.AdvancePayment{}, fmt.Errorf("failed to get advance payment: %w", err)
	}

	return a, nil
}

func (r *advanceRepository) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]advance.AdvancePayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ap.id, ap.company_id, ap.employee_id, ap.amount, ap.granted_date,
			   ap.for_month, ap.payment_method, ap.remarks, ap.remaining_balance,
			   ap.status, ap.is_active, ap.created_at, ap.updated_at,
			   e.full_name as employee_name, e.employee_code
		FROM advance_payments ap
		JOIN employees e ON ap.employee_id = e.id
		WHERE ap.company_id = $1 AND ap.employee_id = $2
		ORDER BY ap.granted_date DESC, ap.created_at DESC
	`

	rows, err := q.Query(ctx, query, companyID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advance payments: %w", err)
	}
	defer rows.Close()

	var advances []advance.AdvancePayment
	for rows.Next() {
		var a advance.AdvancePayment
		if err := rows.Scan(
			&a.ID, &a.CompanyID, &a.EmployeeID, &a.Amount, &a.GrantedDate,
			&a.ForMonth, &a.PaymentMethod, &a.Remarks, &a.RemainingBalance,
			&a.Status, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
			&a.EmployeeName, &a.EmployeeCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan advance payment: %w", err)
		}
		advances = append(advances, a)
	}

	return advances, nil
}

func (r *advanceRepository) GetOutstandingBalance(ctx context.Context, companyID, employeeID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(remaining_balance), 0)
		FROM advance_payments
		WHERE company_id = $1 AND employee_id = $2 AND is_active = true
	`

	var balance decimal.Decimal
	err := q.QueryRow(ctx, query, companyID, employeeID).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get outstanding balance: %w", err)
	}

	return balance, nil
}

func (r *advanceRepository) LockActiveByEmployee(ctx context.Context, companyID, employeeID string) ([]advance.AdvancePayment, error) {
	q := GetQuerier(ctx, r.db)

	// Fixed order so concurrent transactions acquire row locks in the same
	// sequence.
	query := `
		SELECT ap.id, ap.company_id, ap.employee_id, ap.amount, ap.granted_date,
			   ap.for_month, ap.payment_method, ap.remarks, ap.remaining_balance,
			   ap.status, ap.is_active, ap.created_at, ap.updated_at
		FROM advance_payments ap
		WHERE ap.company_id = $1 AND ap.employee_id = $2 AND ap.is_active = true
		ORDER BY ap.granted_date ASC, ap.created_at ASC, ap.id ASC
		FOR UPDATE
	`

	rows, err := q.Query(ctx, query, companyID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock advance payments: %w", err)
	}
	defer rows.Close()

	var advances []advance.AdvancePayment
	for rows.Next() {
		var a advance.AdvancePayment
		if err := rows.Scan(
			&a.ID, &a.CompanyID, &a.EmployeeID, &a.Amount, &a.GrantedDate,
			&a.ForMonth, &a.PaymentMethod, &a.Remarks, &a.RemainingBalance,
			&a.Status, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan advance payment: %w", err)
		}
		advances = append(advances, a)
	}

	return advances, nil
}

func (r *advanceRepository) ApplySteps(ctx context.Context, companyID string, steps []advance.DrawdownStep) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE advance_payments
		SET remaining_balance = $3, status = $4, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`

	for _, step := range steps {
		var updatedID string
		err := q.QueryRow(ctx, query, step.AdvanceID, companyID, step.NewRemaining, step.NewStatus).Scan(&updatedID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return advance.ErrAdvanceNotFound
			}
			return fmt.Errorf("failed to apply drawdown step: %w", err)
		}
	}

	return nil
}

func (r *advanceRepository) Deactivate(ctx context.Context, id, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE advance_payments
		SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, companyID).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return advance.ErrAdvanceNotFound
		}
		return fmt.Errorf("failed to deactivate advance payment: %w", err)
	}

	return nil
}
