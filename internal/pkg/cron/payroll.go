package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sewahr/payroll-backend-go/internal/domain/payroll"
	"github.com/sewahr/payroll-backend-go/internal/pkg/database"
)

type PayrollJobs struct {
	payrollRepo payroll.PayrollRepository
	db          *database.DB
	interval    time.Duration
}

func NewPayrollJobs(payrollRepo payroll.PayrollRepository, db *database.DB, interval time.Duration) *PayrollJobs {
	return &PayrollJobs{
		payrollRepo: payrollRepo,
		db:          db,
		interval:    interval,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("refresh_payroll_rollups", j.interval, j.RefreshRecentRollups)
}

// RefreshRecentRollups recomputes cached period rollups for the current and
// previous month across all companies. Commits refresh their own rollups
// asynchronously; this job repairs any refresh that was lost to a crash or
// timeout.
func (j *PayrollJobs) RefreshRecentRollups(ctx context.Context) error {
	firstOfMonth := time.Now().UTC()
	firstOfMonth = time.Date(firstOfMonth.Year(), firstOfMonth.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevMonth := firstOfMonth.AddDate(0, -1, 0)

	months := [][2]int{
		{firstOfMonth.Year(), int(firstOfMonth.Month())},
		{prevMonth.Year(), int(prevMonth.Month())},
	}

	rows, err := j.db.Pool.Query(ctx, `
		SELECT DISTINCT company_id FROM payroll_periods
		WHERE (year = $1 AND month = $2) OR (year = $3 AND month = $4)
	`, months[0][0], months[0][1], months[1][0], months[1][1])
	if err != nil {
		return fmt.Errorf("failed to get companies with recent periods: %w", err)
	}
	defer rows.Close()

	var companyIDs []string
	for rows.Next() {
		var companyID string
		if err := rows.Scan(&companyID); err != nil {
			continue
		}
		companyIDs = append(companyIDs, companyID)
	}

	refreshed := 0
	for _, companyID := range companyIDs {
		for _, ym := range months {
			period, err := j.payrollRepo.GetPeriod(ctx, companyID, ym[0], ym[1])
			if err != nil {
				if errors.Is(err, payroll.ErrPeriodNotFound) {
					continue
				}
				slog.Error("Cron: Failed to load payroll period",
					"company_id", companyID, "year", ym[0], "month", ym[1], "error", err)
				continue
			}

			rollups, err := j.payrollRepo.GetPeriodRollups(ctx, companyID, period.ID)
			if err != nil {
				slog.Error("Cron: Failed to compute payroll rollups",
					"company_id", companyID, "period_id", period.ID, "error", err)
				continue
			}

			if err := j.payrollRepo.UpdatePeriodRollups(ctx, companyID, period.ID, rollups); err != nil {
				slog.Error("Cron: Failed to store payroll rollups",
					"company_id", companyID, "period_id", period.ID, "error", err)
				continue
			}

			refreshed++
		}
	}

	slog.Debug("Cron: Refreshed payroll rollups", "period_count", refreshed)
	return nil
}
