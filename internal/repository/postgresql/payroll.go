package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sewahr/payroll-backend-go/internal/domain/payroll"
	"github.com/sewahr/payroll-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== PERIODS ==========

func (r *payrollRepository) CreatePeriod(ctx context.Context, period payroll.PayrollPeriod) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_periods (company_id, year, month, working_days, tds_rate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, company_id, year, month, working_days, tds_rate, is_locked,
			total_gross, total_net, total_advance_deducted,
			entry_count, paid_count, pending_count, summary_refreshed_at,
			created_at, updated_at
	`

	var p payroll.PayrollPeriod
	err := q.QueryRow(ctx, query,
		period.CompanyID, period.Year, period.Month, period.WorkingDays, period.TDSRate,
	).Scan(
		&p.ID, &p.CompanyID, &p.Year, &p.Month, &p.WorkingDays, &p.TDSRate, &p.IsLocked,
		&p.TotalGross, &p.TotalNet, &p.TotalAdvanceDeducted,
		&p.EntryCount, &p.PaidCount, &p.PendingCount, &p.SummaryRefreshedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_period_company_month") {
			return payroll.PayrollPeriod{}, payroll.ErrPeriodAlreadyExists
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to create payroll period: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) GetPeriod(ctx context.Context, companyID string, year, month int) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, year, month, working_days, tds_rate, is_locked,
			   total_gross, total_net, total_advance_deducted,
			   entry_count, paid_count, pending_count, summary_refreshed_at,
			   created_at, updated_at
		FROM payroll_periods
		WHERE company_id = $1 AND year = $2 AND month = $3
	`

	var p payroll.PayrollPeriod
	err := q.QueryRow(ctx, query, companyID, year, month).Scan(
		&p.ID, &p.CompanyID, &p.Year, &p.Month, &p.WorkingDays, &p.TDSRate, &p.IsLocked,
		&p.TotalGross, &p.TotalNet, &p.TotalAdvanceDeducted,
		&p.EntryCount, &p.PaidCount, &p.PendingCount, &p.SummaryRefreshedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to get payroll period: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) ListPeriods(ctx context.Context, companyID string, filter payroll.PeriodFilter) ([]payroll.PayrollPeriod, int64, error) {
	q := GetQuerier(ctx, r.db)

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM payroll_periods WHERE company_id = $1`
	if err := q.QueryRow(ctx, countQuery, companyID).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll periods: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit

	query := `
		SELECT id, company_id, year, month, working_days, tds_rate, is_locked,
			   total_gross, total_net, total_advance_deducted,
			   entry_count, paid_count, pending_count, summary_refreshed_at,
			   created_at, updated_at
		FROM payroll_periods
		WHERE company_id = $1
		ORDER BY year DESC, month DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, companyID, filter.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll periods: %w", err)
	}
	defer rows.Close()

	var periods []payroll.PayrollPeriod
	for rows.Next() {
		var p payroll.PayrollPeriod
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.Year, &p.Month, &p.WorkingDays, &p.TDSRate, &p.IsLocked,
			&p.TotalGross, &p.TotalNet, &p.TotalAdvanceDeducted,
			&p.EntryCount, &p.PaidCount, &p.PendingCount, &p.SummaryRefreshedAt,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll period: %w", err)
		}
		periods = append(periods, p)
	}

	return periods, totalCount, nil
}

func (r *payrollRepository) UpdatePeriodInputs(ctx context.Context, companyID, periodID string, workingDays int, tdsRate decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET working_days = $3, tds_rate = $4, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, periodID, companyID, workingDays, tdsRate).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPeriodNotFound
		}
		return fmt.Errorf("failed to update payroll period inputs: %w", err)
	}

	return nil
}

func (r *payrollRepository) SetPeriodLock(ctx context.Context, companyID, periodID string, locked bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET is_locked = $3, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, periodID, companyID, locked).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPeriodNotFound
		}
		return fmt.Errorf("failed to set payroll period lock: %w", err)
	}

	return nil
}

func (r *payrollRepository) DeletePeriod(ctx context.Context, companyID, periodID string) error {
	q := GetQuerier(ctx, r.db)

	// Entries go with the period via ON DELETE CASCADE.
	query := `DELETE FROM payroll_periods WHERE id = $1 AND company_id = $2 RETURNING id`

	var deletedID string
	err := q.QueryRow(ctx, query, periodID, companyID).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPeriodNotFound
		}
		return fmt.Errorf("failed to delete payroll period: %w", err)
	}

	return nil
}

func (r *payrollRepository) UpdatePeriodRollups(ctx context.Context, companyID, periodID string, rollups payroll.PeriodRollups) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET entry_count = $3, total_gross = $4, total_net = $5,
			total_advance_deducted = $6, paid_count = $7, pending_count = $8,
			summary_refreshed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		periodID, companyID,
		rollups.EntryCount, rollups.TotalGross, rollups.TotalNet,
		rollups.TotalAdvanceDeducted, rollups.PaidCount, rollups.PendingCount,
	).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPeriodNotFound
		}
		return fmt.Errorf("failed to update payroll period rollups: %w", err)
	}

	return nil
}

// ========== ENTRIES ==========

func (r *payrollRepository) CreateEntry(ctx context.Context, entry payroll.PayrollEntry) (payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_entries (
			period_id, employee_id, base_salary, working_days, present_days,
			absent_days, ot_hours, late_minutes, gross_salary, ot_charges,
			late_deduction, tds_percentage, tds_amount, salary_after_tds,
			advance_deduction_amount, net_payable, is_paid
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`

	e := entry
	err := q.QueryRow(ctx, query,
		entry.PeriodID, entry.EmployeeID, entry.BaseSalary, entry.WorkingDays, entry.PresentDays,
		entry.AbsentDays, entry.OTHours, entry.LateMinutes, entry.GrossSalary, entry.OTCharges,
		entry.LateDeduction, entry.TDSPercentage, entry.TDSAmount, entry.SalaryAfterTDS,
		entry.AdvanceDeductionAmount, entry.NetPayable, entry.IsPaid,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_entry_period_employee") {
			return payroll.PayrollEntry{}, payroll.ErrEntryAlreadyExists
		}
		return payroll.PayrollEntry{}, fmt.Errorf("failed to create payroll entry: %w", err)
	}

	return e, nil
}

func (r *payrollRepository) GetEntryByEmployee(ctx context.Context, companyID, periodID, employeeID string) (payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT pe.id, pe.period_id, pe.employee_id, pe.base_salary, pe.working_days,
			   pe.present_days, pe.absent_days, pe.ot_hours, pe.late_minutes,
			   pe.gross_salary, pe.ot_charges, pe.late_deduction, pe.tds_percentage,
			   pe.tds_amount, pe.salary_after_tds, pe.advance_deduction_amount,
			   pe.net_payable, pe.is_paid, pe.created_at, pe.updated_at,
			   e.full_name as employee_name, e.employee_code
		FROM payroll_entries pe
		JOIN payroll_periods pp ON pe.period_id = pp.id
		JOIN employees e ON pe.employee_id = e.id
		WHERE pe.period_id = $1 AND pe.employee_id = $2 AND pp.company_id = $3
	`

	var e payroll.PayrollEntry
	err := q.QueryRow(ctx, query, periodID, employeeID, companyID).Scan(
		&e.ID, &e.PeriodID, &e.EmployeeID, &e.BaseSalary, &e.WorkingDays,
		&e.PresentDays, &e.AbsentDays, &e.OTHours, &e.LateMinutes,
		&e.GrossSalary, &e.OTCharges, &e.LateDeduction, &e.TDSPercentage,
		&e.TDSAmount, &e.SalaryAfterTDS, &e.AdvanceDeductionAmount,
		&e.NetPayable, &e.IsPaid, &e.CreatedAt, &e.UpdatedAt,
		&e.EmployeeName, &e.EmployeeCode,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollEntry{}, payroll.ErrEntryNotFound
		}
		return payroll.PayrollEntry{}, fmt.Errorf("failed to get payroll entry: %w", err)
	}

	return e, nil
}

func (r *payrollRepository) ListEntries(ctx context.Context, companyID, periodID string) ([]payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT pe.id, pe.period_id, pe.employee_id, pe.base_salary, pe.working_days,
			   pe.present_days, pe.absent_days, pe.ot_hours, pe.late_minutes,
			   pe.gross_salary, pe.ot_charges, pe.late_deduction, pe.tds_percentage,
			   pe.tds_amount, pe.salary_after_tds, pe.advance_deduction_amount,
			   pe.net_payable, pe.is_paid, pe.created_at, pe.updated_at,
			   e.full_name as employee_name, e.employee_code
		FROM payroll_entries pe
		JOIN payroll_periods pp ON pe.period_id = pp.id
		JOIN employees e ON pe.employee_id = e.id
		WHERE pe.period_id = $1 AND pp.company_id = $2
		ORDER BY e.employee_code, e.full_name
	`

	rows, err := q.Query(ctx, query, periodID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll entries: %w", err)
	}
	defer rows.Close()

	var entries []payroll.PayrollEntry
	for rows.Next() {
		var e payroll.PayrollEntry
		if err := rows.Scan(
			&e.ID, &e.PeriodID, &e.EmployeeID, &e.BaseSalary, &e.WorkingDays,
			&e.PresentDays, &e.AbsentDays, &e.OTHours, &e.LateMinutes,
			&e.GrossSalary, &e.OTCharges, &e.LateDeduction, &e.TDSPercentage,
			&e.TDSAmount, &e.SalaryAfterTDS, &e.AdvanceDeductionAmount,
			&e.NetPayable, &e.IsPaid, &e.CreatedAt, &e.UpdatedAt,
			&e.EmployeeName, &e.EmployeeCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func (r *payrollRepository) UpdateEntry(ctx context.Context, companyID string, entry payroll.PayrollEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_entries pe
		SET base_salary = $3, working_days = $4, present_days = $5, absent_days = $6,
			ot_hours = $7, late_minutes = $8, gross_salary = $9, ot_charges = $10,
			late_deduction = $11, tds_percentage = $12, tds_amount = $13,
			salary_after_tds = $14, advance_deduction_amount = $15, net_payable = $16,
			is_paid = $17, updated_at = NOW()
		FROM payroll_periods pp
		WHERE pe.id = $1 AND pe.period_id = pp.id AND pp.company_id = $2
		RETURNING pe.id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		entry.ID, companyID,
		entry.BaseSalary, entry.WorkingDays, entry.PresentDays, entry.AbsentDays,
		entry.OTHours, entry.LateMinutes, entry.GrossSalary, entry.OTCharges,
		entry.LateDeduction, entry.TDSPercentage, entry.TDSAmount,
		entry.SalaryAfterTDS, entry.AdvanceDeductionAmount, entry.NetPayable,
		entry.IsPaid,
	).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrEntryNotFound
		}
		return fmt.Errorf("failed to update payroll entry: %w", err)
	}

	return nil
}

// ========== AGGREGATIONS ==========

func (r *payrollRepository) GetAttendanceSummary(ctx context.Context, companyID string, year, month int, employeeIDs []string) ([]payroll.AttendanceSummary, error) {
	q := GetQuerier(ctx, r.db)

	// Status mixes attendance marks (on_time, late, absent) with half-day leave
	// rows. Leave request states that never became attendance are excluded.
	query := `
		SELECT
			employee_id,
			COALESCE(SUM(CASE
				WHEN status IN ('on_time', 'late') THEN 1
				WHEN status IN ('half_day_morning', 'half_day_afternoon') THEN 0.5
				ELSE 0
			END), 0) as present_days,
			COUNT(*) FILTER (WHERE status = 'absent') as absent_days,
			ROUND(COALESCE(SUM(overtime_minutes), 0)::numeric / 60, 2) as ot_hours,
			COALESCE(SUM(late_minutes), 0) as late_minutes
		FROM attendances
		WHERE company_id = $1
			AND EXTRACT(YEAR FROM date) = $2
			AND EXTRACT(MONTH FROM date) = $3
			AND status NOT IN ('rejected', 'waiting_approval')
	`

	args := []interface{}{companyID, year, month}

	if len(employeeIDs) > 0 {
		query += ` AND employee_id = ANY($4)`
		args = append(args, employeeIDs)
	}

	query += ` GROUP BY employee_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance summary: %w", err)
	}
	defer rows.Close()

	var summaries []payroll.AttendanceSummary
	for rows.Next() {
		var s payroll.AttendanceSummary
		if err := rows.Scan(
			&s.EmployeeID, &s.PresentDays, &s.AbsentDays, &s.OTHours, &s.LateMinutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}

func (r *payrollRepository) GetPeriodRollups(ctx context.Context, companyID, periodID string) (payroll.PeriodRollups, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(pe.id) as entry_count,
			COALESCE(SUM(pe.gross_salary), 0) as total_gross,
			COALESCE(SUM(pe.net_payable), 0) as total_net,
			COALESCE(SUM(pe.advance_deduction_amount), 0) as total_advance_deducted,
			COUNT(pe.id) FILTER (WHERE pe.is_paid) as paid_count,
			COUNT(pe.id) FILTER (WHERE NOT pe.is_paid) as pending_count
		FROM payroll_entries pe
		JOIN payroll_periods pp ON pe.period_id = pp.id
		WHERE pe.period_id = $1 AND pp.company_id = $2
	`

	var rollups payroll.PeriodRollups
	err := q.QueryRow(ctx, query, periodID, companyID).Scan(
		&rollups.EntryCount, &rollups.TotalGross, &rollups.TotalNet,
		&rollups.TotalAdvanceDeducted, &rollups.PaidCount, &rollups.PendingCount,
	)
	if err != nil {
		return payroll.PeriodRollups{}, fmt.Errorf("failed to get period rollups: %w", err)
	}

	return rollups, nil
}
