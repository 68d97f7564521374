package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/sewahr/payroll-backend-go/internal/domain/advance"
	"github.com/sewahr/payroll-backend-go/internal/domain/employee"
	"github.com/sewahr/payroll-backend-go/internal/domain/payroll"
	"github.com/sewahr/payroll-backend-go/internal/pkg/database"
	"github.com/sewahr/payroll-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type PayrollServiceImpl struct {
	db               *database.DB
	payrollRepo      payroll.PayrollRepository
	employeeRepo     employee.EmployeeRepository
	advanceService   advance.AdvanceService
	deductionPercent int

	// Staged edits per company and period. Buffers are in-memory only: a
	// restart discards them, which is the documented behavior for unsaved
	// changes.
	mu      sync.Mutex
	buffers map[string]*payroll.EditBuffer
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	advanceService advance.AdvanceService,
	deductionPercent int,
) payroll.PayrollService {
	if deductionPercent <= 0 || deductionPercent > 100 {
		deductionPercent = payroll.DefaultAdvanceDeductionPercent
	}

	return &PayrollServiceImpl{
		db:               db,
		payrollRepo:      payrollRepo,
		employeeRepo:     employeeRepo,
		advanceService:   advanceService,
		deductionPercent: deductionPercent,
		buffers:          make(map[string]*payroll.EditBuffer),
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

// ========== CALCULATION ==========

func (s *PayrollServiceImpl) CalculatePeriod(ctx context.Context, req payroll.CalculatePeriodRequest) (payroll.CalculatePeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CalculatePeriodResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.CalculatePeriodResponse{}, err
	}

	period, err := s.payrollRepo.GetPeriod(ctx, companyID, req.Year, req.Month)
	switch {
	case err == nil:
		if period.IsLocked {
			return payroll.CalculatePeriodResponse{}, payroll.ErrPeriodLocked
		}
		if err := s.payrollRepo.UpdatePeriodInputs(ctx, companyID, period.ID, req.WorkingDays, req.TDSRate); err != nil {
			return payroll.CalculatePeriodResponse{}, err
		}
		period.WorkingDays = req.WorkingDays
		period.TDSRate = req.TDSRate
	case errors.Is(err, payroll.ErrPeriodNotFound):
		period, err = s.payrollRepo.CreatePeriod(ctx, payroll.PayrollPeriod{
			CompanyID:   companyID,
			Year:        req.Year,
			Month:       req.Month,
			WorkingDays: req.WorkingDays,
			TDSRate:     req.TDSRate,
		})
		if err != nil {
			return payroll.CalculatePeriodResponse{}, err
		}
	default:
		return payroll.CalculatePeriodResponse{}, err
	}

	// Load the calculation inputs in parallel, one query per goroutine.
	var (
		employees []employee.Employee
		summaries []payroll.AttendanceSummary
		existing  []payroll.PayrollEntry
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.employeeRepo.GetActiveByCompanyID(gCtx, companyID)
		return err
	})
	g.Go(func() error {
		var err error
		summaries, err = s.payrollRepo.GetAttendanceSummary(gCtx, companyID, req.Year, req.Month, nil)
		return err
	})
	g.Go(func() error {
		var err error
		existing, err = s.payrollRepo.ListEntries(gCtx, companyID, period.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return payroll.CalculatePeriodResponse{}, err
	}

	attendanceByEmployee := make(map[string]payroll.AttendanceSummary, len(summaries))
	for _, summary := range summaries {
		attendanceByEmployee[summary.EmployeeID] = summary
	}
	existingByEmployee := make(map[string]payroll.PayrollEntry, len(existing))
	for _, entry := range existing {
		existingByEmployee[entry.EmployeeID] = entry
	}

	var (
		calculated int
		skipped    []payroll.SkippedEmployee
	)

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := database.ContextWithTx(ctx, tx)

		for _, emp := range employees {
			summary, ok := attendanceByEmployee[emp.ID]
			if !ok {
				// No attendance this month is a valid absence, not an anomaly.
				continue
			}
			summary.WorkingDays = req.WorkingDays

			var prior *payroll.PayrollEntry
			if existingEntry, ok := existingByEmployee[emp.ID]; ok {
				prior = &existingEntry
			}

			skip, err := s.calculateEmployee(txCtx, companyID, period, emp, summary, prior)
			if err != nil {
				return err
			}
			if skip != nil {
				skipped = append(skipped, *skip)
				continue
			}
			calculated++
		}

		rollups, err := s.payrollRepo.GetPeriodRollups(txCtx, companyID, period.ID)
		if err != nil {
			return err
		}
		if err := s.payrollRepo.UpdatePeriodRollups(txCtx, companyID, period.ID, rollups); err != nil {
			return err
		}
		applyRollups(&period, rollups)

		return nil
	})
	if err != nil {
		return payroll.CalculatePeriodResponse{}, err
	}

	return payroll.CalculatePeriodResponse{
		Period:     toPeriodResponse(period, nil),
		Calculated: calculated,
		Skipped:    skipped,
	}, nil
}

// ========== PERIODS ==========

func (s *PayrollServiceImpl) GetPeriod(ctx context.Context, year, month int) (payroll.PeriodResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	period, err := s.payrollRepo.GetPeriod(ctx, companyID, year, month)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	entries, err := s.payrollRepo.ListEntries(ctx, companyID, period.ID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	staged := s.snapshotEdits(companyID, year, month)
	stagedByEmployee := make(map[string]payroll.StagedEdit, len(staged))
	for _, edit := range staged {
		stagedByEmployee[edit.EmployeeID] = edit
	}

	responses := make([]payroll.PayrollEntryResponse, 0, len(entries))
	for _, entry := range entries {
		edit, ok := stagedByEmployee[entry.EmployeeID]
		if !ok {
			responses = append(responses, toEntryResponse(entry, false))
			continue
		}

		projected, err := s.projectEntry(ctx, entry, edit)
		if err != nil {
			return payroll.PeriodResponse{}, err
		}
		responses = append(responses, toEntryResponse(projected, true))
	}

	return toPeriodResponse(period, responses), nil
}

func (s *PayrollServiceImpl) ListPeriods(ctx context.Context, filter payroll.PeriodFilter) (payroll.ListPeriodsResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPeriodsResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	periods, totalCount, err := s.payrollRepo.ListPeriods(ctx, companyID, filter)
	if err != nil {
		return payroll.ListPeriodsResponse{}, err
	}

	data := make([]payroll.PeriodResponse, 0, len(periods))
	for _, period := range periods {
		data = append(data, toPeriodResponse(period, nil))
	}

	return payroll.ListPeriodsResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) LockPeriod(ctx context.Context, year, month int) error {
	return s.setLock(ctx, year, month, true)
}

func (s *PayrollServiceImpl) UnlockPeriod(ctx context.Context, year, month int) error {
	return s.setLock(ctx, year, month, false)
}

func (s *PayrollServiceImpl) setLock(ctx context.Context, year, month int, locked bool) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	period, err := s.payrollRepo.GetPeriod(ctx, companyID, year, month)
	if err != nil {
		return err
	}

	return s.payrollRepo.SetPeriodLock(ctx, companyID, period.ID, locked)
}

func (s *PayrollServiceImpl) DeletePeriod(ctx context.Context, year, month int) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	period, err := s.payrollRepo.GetPeriod(ctx, companyID, year, month)
	if err != nil {
		return err
	}
	if period.IsLocked {
		return payroll.ErrPeriodLocked
	}

	if err := s.payrollRepo.DeletePeriod(ctx, companyID, period.ID); err != nil {
		return err
	}

	// Staged edits die with their period.
	s.discardStaged(companyID, year, month)

	return nil
}

func (s *PayrollServiceImpl) GetPeriodSummary(ctx context.Context, year, month int) (payroll.PeriodSummaryResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PeriodSummaryResponse{}, err
	}

	period, err := s.payrollRepo.GetPeriod(ctx, companyID, year, month)
	if err != nil {
		return payroll.PeriodSummaryResponse{}, err
	}

	rollups, err := s.payrollRepo.GetPeriodRollups(ctx, companyID, period.ID)
	if err != nil {
		return payroll.PeriodSummaryResponse{}, err
	}

	return payroll.PeriodSummaryResponse{
		Year:                 period.Year,
		Month:                period.Month,
		IsLocked:             period.IsLocked,
		EntryCount:           rollups.EntryCount,
		TotalGross:           rollups.TotalGross,
		TotalNet:             rollups.TotalNet,
		TotalAdvanceDeducted: rollups.TotalAdvanceDeducted,
		PaidCount:            rollups.PaidCount,
		PendingCount:         rollups.PendingCount,
	}, nil
}

// ========== STAGED EDITS ==========

func (s *PayrollServiceImpl) StagePaidStatus(ctx context.Context, req payroll.StagePaidStatusRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	period, err := s.payrollRepo.GetPeriod(ctx, companyID, req.Year, req.Month)
	if err != nil {
		return err
	}
	if period.IsLocked {
		return payroll.ErrPeriodLocked
	}

	if _, err := s.payrollRepo.GetEntryByEmployee(ctx, companyID, period.ID, req.EmployeeID); err != nil {
		if errors.Is(err, payroll.ErrEntryNotFound) {
			return payroll.ErrEmployeeNotInPeriod
		}
		return err
	}

	s.stagePaid(companyID, req.Year, req.Month, req.EmployeeID, req.IsPaid)

	return nil
}

func (s *PayrollServiceImpl) StageAdvanceDeduction(ctx context.Context, req payroll.StageDeductionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	period, err := s.payrollRepo.GetPeriod(ctx, companyID, req.Year, req.Month)
	if err != nil {
		return err
	}
	if period.IsLocked {
		return payroll.ErrPeriodLocked
	}

	if _, err := s.payrollRepo.GetEntryByEmployee(ctx, companyID, period.ID, req.EmployeeID); err != nil {
		if errors.Is(err, payroll.ErrEntryNotFound) {
			return payroll.ErrEmployeeNotInPeriod
		}
		return err
	}

	s.stageDeduction(companyID, req.Year, req.Month, req.EmployeeID, req.Amount)

	return nil
}

func (s *PayrollServiceImpl) CommitChanges(ctx context.Context, year, month int) (payroll.CommitResult, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.CommitResult{}, err
	}

	period, err := s.payrollRepo.GetPeriod(ctx, companyID, year, month)
	if err != nil {
		return payroll.CommitResult{}, err
	}
	if period.IsLocked {
		return payroll.CommitResult{}, payroll.ErrPeriodLocked
	}

	edits := s.snapshotEdits(companyID, year, month)
	if len(edits) == 0 {
		return payroll.CommitResult{Applied: []payroll.PayrollEntryResponse{}}, nil
	}

	var (
		result   payroll.CommitResult
		accepted []string
	)

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		var txErr error
		result, accepted, txErr = s.commitEdits(database.ContextWithTx(ctx, tx), companyID, period.ID, edits)
		return txErr
	})
	if err != nil {
		return payroll.CommitResult{}, err
	}

	// Rejected edits stay staged for re-review.
	s.clearStaged(companyID, year, month, accepted)
	s.refreshRollupsAsync(companyID, period.ID)

	return result, nil
}

func (s *PayrollServiceImpl) DiscardChanges(ctx context.Context, year, month int) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := s.payrollRepo.GetPeriod(ctx, companyID, year, month); err != nil {
		return err
	}

	s.discardStaged(companyID, year, month)

	return nil
}

// ========== EDIT BUFFERS ==========

func bufferKey(companyID string, year, month int) string {
	return fmt.Sprintf("%s/%04d-%02d", companyID, year, month)
}

func (s *PayrollServiceImpl) stagePaid(companyID string, year, month int, employeeID string, isPaid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := bufferKey(companyID, year, month)
	buf, ok := s.buffers[key]
	if !ok {
		buf = payroll.NewEditBuffer()
		s.buffers[key] = buf
	}
	buf.StagePaidStatus(employeeID, isPaid)
}

func (s *PayrollServiceImpl) stageDeduction(companyID string, year, month int, employeeID string, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := bufferKey(companyID, year, month)
	buf, ok := s.buffers[key]
	if !ok {
		buf = payroll.NewEditBuffer()
		s.buffers[key] = buf
	}
	buf.StageAdvanceDeduction(employeeID, amount)
}

func (s *PayrollServiceImpl) snapshotEdits(companyID string, year, month int) []payroll.StagedEdit {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.buffers[bufferKey(companyID, year, month)]
	if !ok {
		return nil
	}

	return buf.Snapshot()
}

func (s *PayrollServiceImpl) clearStaged(companyID string, year, month int, employeeIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := bufferKey(companyID, year, month)
	buf, ok := s.buffers[key]
	if !ok {
		return
	}

	for _, employeeID := range employeeIDs {
		buf.ClearEmployee(employeeID)
	}
	if buf.Empty() {
		delete(s.buffers, key)
	}
}

func (s *PayrollServiceImpl) discardStaged(companyID string, year, month int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.buffers, bufferKey(companyID, year, month))
}

// ========== HELPERS ==========

// calculateEmployee computes and persists one employee's entry for the
// period, reusing the prior entry's row and committed deduction when one
// exists. A nil error with a non-nil skip reason means the employee was
// left out without failing the batch.
func (s *PayrollServiceImpl) calculateEmployee(ctx context.Context, companyID string, period payroll.PayrollPeriod, emp employee.Employee, summary payroll.AttendanceSummary, prior *payroll.PayrollEntry) (*payroll.SkippedEmployee, error) {
	if prior != nil && prior.IsPaid {
		return &payroll.SkippedEmployee{EmployeeID: emp.ID, Reason: "entry already paid"}, nil
	}
	if emp.BaseSalary == nil {
		return &payroll.SkippedEmployee{EmployeeID: emp.ID, Reason: employee.ErrEmployeeNoSalary.Error()}, nil
	}

	tdsPercentage := period.TDSRate
	if emp.TDSPercentage != nil {
		tdsPercentage = *emp.TDSPercentage
	}

	balance, err := s.advanceService.OutstandingBalance(ctx, emp.ID)
	if err != nil {
		return nil, err
	}

	// A deduction the administrator already committed survives
	// recalculation; fresh entries start from the suggested default.
	var requested decimal.Decimal
	if prior != nil {
		requested = prior.AdvanceDeductionAmount
	} else {
		base, err := payroll.ComputeEntry(payroll.ComputeInput{
			EmployeeID:    emp.ID,
			BaseSalary:    *emp.BaseSalary,
			Attendance:    summary,
			TDSPercentage: tdsPercentage,
		})
		if err != nil {
			return &payroll.SkippedEmployee{EmployeeID: emp.ID, Reason: err.Error()}, nil
		}
		requested = payroll.SuggestedDeduction(base.SalaryAfterTDS, s.deductionPercent)
	}

	computed, err := payroll.ComputeEntry(payroll.ComputeInput{
		EmployeeID:         emp.ID,
		BaseSalary:         *emp.BaseSalary,
		Attendance:         summary,
		TDSPercentage:      tdsPercentage,
		AdvanceBalance:     balance,
		RequestedDeduction: requested,
	})
	if err != nil {
		return &payroll.SkippedEmployee{EmployeeID: emp.ID, Reason: err.Error()}, nil
	}

	computed.PeriodID = period.ID
	if prior != nil {
		computed.ID = prior.ID
		if err := s.payrollRepo.UpdateEntry(ctx, companyID, computed); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.payrollRepo.CreateEntry(ctx, computed); err != nil {
			return nil, err
		}
	}

	return nil, nil
}

// commitEdits runs one commit batch in order. Edits later in the batch see
// the ledger as earlier applications left it, so an edit can be rejected
// because an earlier one consumed the remaining balance.
func (s *PayrollServiceImpl) commitEdits(ctx context.Context, companyID, periodID string, edits []payroll.StagedEdit) (payroll.CommitResult, []string, error) {
	result := payroll.CommitResult{Applied: []payroll.PayrollEntryResponse{}}

	var accepted []string
	for _, edit := range edits {
		committed, rejected, err := s.commitEdit(ctx, companyID, periodID, edit)
		if err != nil {
			return payroll.CommitResult{}, nil, err
		}
		if rejected != nil {
			result.Rejected = append(result.Rejected, *rejected)
			continue
		}

		accepted = append(accepted, edit.EmployeeID)
		result.Applied = append(result.Applied, toEntryResponse(committed, false))
	}

	return result, accepted, nil
}

// commitEdit re-validates one staged edit against the live ledger and
// persists it. A rejection leaves both the entry and the ledger untouched.
func (s *PayrollServiceImpl) commitEdit(ctx context.Context, companyID, periodID string, edit payroll.StagedEdit) (payroll.PayrollEntry, *payroll.RejectedEdit, error) {
	entry, err := s.payrollRepo.GetEntryByEmployee(ctx, companyID, periodID, edit.EmployeeID)
	if err != nil {
		if errors.Is(err, payroll.ErrEntryNotFound) {
			return payroll.PayrollEntry{}, &payroll.RejectedEdit{
				EmployeeID: edit.EmployeeID,
				Reason:     payroll.ErrEmployeeNotInPeriod.Error(),
			}, nil
		}
		return payroll.PayrollEntry{}, nil, err
	}

	// The amount a previously paid entry already holds on the ledger.
	applied := decimal.Zero
	if entry.IsPaid {
		applied = entry.AdvanceDeductionAmount
	}

	requested := entry.AdvanceDeductionAmount
	if edit.Deduction != nil {
		requested = *edit.Deduction
	}
	targetPaid := entry.IsPaid
	if edit.IsPaid != nil {
		targetPaid = *edit.IsPaid
	}

	// Pin the employee's ledger before deciding; the balance cannot move
	// under us for the rest of the transaction.
	outstanding, err := s.advanceService.LockOutstanding(ctx, edit.EmployeeID)
	if err != nil {
		return payroll.PayrollEntry{}, nil, err
	}
	available := outstanding.Add(applied)

	if requested.GreaterThan(available) {
		return payroll.PayrollEntry{}, &payroll.RejectedEdit{
			EmployeeID: edit.EmployeeID,
			Reason:     advance.ErrInsufficientBalance.Error(),
		}, nil
	}

	computed, err := payroll.ComputeEntry(payroll.ComputeInput{
		EmployeeID:         entry.EmployeeID,
		BaseSalary:         entry.BaseSalary,
		Attendance:         attendanceOf(entry),
		TDSPercentage:      entry.TDSPercentage,
		AdvanceBalance:     available,
		RequestedDeduction: requested,
	})
	if err != nil {
		return payroll.PayrollEntry{}, nil, err
	}
	computed.ID = entry.ID
	computed.PeriodID = entry.PeriodID
	computed.IsPaid = targetPaid
	computed.EmployeeName = entry.EmployeeName
	computed.EmployeeCode = entry.EmployeeCode

	// A previously paid entry hands its old deduction back first; the
	// target state then draws the fresh amount.
	if entry.IsPaid && applied.IsPositive() {
		if _, err := s.advanceService.ReverseDeduction(ctx, edit.EmployeeID, applied); err != nil {
			return payroll.PayrollEntry{}, nil, err
		}
	}
	if targetPaid && computed.AdvanceDeductionAmount.IsPositive() {
		if _, err := s.advanceService.ApplyDeduction(ctx, edit.EmployeeID, computed.AdvanceDeductionAmount); err != nil {
			return payroll.PayrollEntry{}, nil, err
		}
	}

	if err := s.payrollRepo.UpdateEntry(ctx, companyID, computed); err != nil {
		return payroll.PayrollEntry{}, nil, err
	}

	return computed, nil, nil
}

// projectEntry applies an uncommitted edit to an entry the way a commit
// would, against the current ledger balance, so readers see the values a
// commit will produce instead of the superseded ones. Over-balance requests
// are clamped here for display; commit is where they get rejected.
func (s *PayrollServiceImpl) projectEntry(ctx context.Context, entry payroll.PayrollEntry, edit payroll.StagedEdit) (payroll.PayrollEntry, error) {
	applied := decimal.Zero
	if entry.IsPaid {
		applied = entry.AdvanceDeductionAmount
	}

	outstanding, err := s.advanceService.OutstandingBalance(ctx, entry.EmployeeID)
	if err != nil {
		return payroll.PayrollEntry{}, err
	}
	available := outstanding.Add(applied)

	requested := entry.AdvanceDeductionAmount
	if edit.Deduction != nil {
		requested = *edit.Deduction
	}
	targetPaid := entry.IsPaid
	if edit.IsPaid != nil {
		targetPaid = *edit.IsPaid
	}

	projected, err := payroll.ComputeEntry(payroll.ComputeInput{
		EmployeeID:         entry.EmployeeID,
		BaseSalary:         entry.BaseSalary,
		Attendance:         attendanceOf(entry),
		TDSPercentage:      entry.TDSPercentage,
		AdvanceBalance:     available,
		RequestedDeduction: requested,
	})
	if err != nil {
		return payroll.PayrollEntry{}, err
	}

	projected.ID = entry.ID
	projected.PeriodID = entry.PeriodID
	projected.IsPaid = targetPaid
	projected.EmployeeName = entry.EmployeeName
	projected.EmployeeCode = entry.EmployeeCode
	projected.CreatedAt = entry.CreatedAt
	projected.UpdatedAt = entry.UpdatedAt

	return projected, nil
}

// refreshRollupsAsync recomputes the period's cached rollups off the request
// path. The cron refresher picks up anything this misses.
func (s *PayrollServiceImpl) refreshRollupsAsync(companyID, periodID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		rollups, err := s.payrollRepo.GetPeriodRollups(ctx, companyID, periodID)
		if err == nil {
			err = s.payrollRepo.UpdatePeriodRollups(ctx, companyID, periodID, rollups)
		}
		if err != nil {
			slog.Error("failed to refresh payroll period rollups", "period_id", periodID, "error", err)
		}
	}()
}

func attendanceOf(entry payroll.PayrollEntry) payroll.AttendanceSummary {
	return payroll.AttendanceSummary{
		EmployeeID:  entry.EmployeeID,
		WorkingDays: entry.WorkingDays,
		PresentDays: entry.PresentDays,
		AbsentDays:  entry.AbsentDays,
		OTHours:     entry.OTHours,
		LateMinutes: entry.LateMinutes,
	}
}

func applyRollups(period *payroll.PayrollPeriod, rollups payroll.PeriodRollups) {
	period.EntryCount = rollups.EntryCount
	period.TotalGross = rollups.TotalGross
	period.TotalNet = rollups.TotalNet
	period.TotalAdvanceDeducted = rollups.TotalAdvanceDeducted
	period.PaidCount = rollups.PaidCount
	period.PendingCount = rollups.PendingCount
}

func toEntryResponse(entry payroll.PayrollEntry, unsaved bool) payroll.PayrollEntryResponse {
	resp := payroll.PayrollEntryResponse{
		ID:                     entry.ID,
		EmployeeID:             entry.EmployeeID,
		BaseSalary:             entry.BaseSalary,
		WorkingDays:            entry.WorkingDays,
		PresentDays:            entry.PresentDays,
		AbsentDays:             entry.AbsentDays,
		OTHours:                entry.OTHours,
		LateMinutes:            entry.LateMinutes,
		GrossSalary:            entry.GrossSalary,
		OTCharges:              entry.OTCharges,
		LateDeduction:          entry.LateDeduction,
		TDSPercentage:          entry.TDSPercentage,
		TDSAmount:              entry.TDSAmount,
		SalaryAfterTDS:         entry.SalaryAfterTDS,
		AdvanceDeductionAmount: entry.AdvanceDeductionAmount,
		NetPayable:             entry.NetPayable,
		IsPaid:                 entry.IsPaid,
		Unsaved:                unsaved,
	}
	if entry.EmployeeCode != nil {
		resp.EmployeeCode = *entry.EmployeeCode
	}
	if entry.EmployeeName != nil {
		resp.EmployeeName = *entry.EmployeeName
	}

	return resp
}

func toPeriodResponse(period payroll.PayrollPeriod, entries []payroll.PayrollEntryResponse) payroll.PeriodResponse {
	return payroll.PeriodResponse{
		ID:                   period.ID,
		Year:                 period.Year,
		Month:                period.Month,
		WorkingDays:          period.WorkingDays,
		TDSRate:              period.TDSRate,
		IsLocked:             period.IsLocked,
		TotalGross:           period.TotalGross,
		TotalNet:             period.TotalNet,
		TotalAdvanceDeducted: period.TotalAdvanceDeducted,
		EntryCount:           period.EntryCount,
		PaidCount:            period.PaidCount,
		PendingCount:         period.PendingCount,
		Entries:              entries,
	}
}
