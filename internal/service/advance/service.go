package advance

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sewahr/payroll-backend-go/internal/domain/advance"
	"github.com/sewahr/payroll-backend-go/internal/domain/employee"
	"github.com/sewahr/payroll-backend-go/internal/pkg/database"
	"github.com/sewahr/payroll-backend-go/internal/pkg/validator"
	"github.com/sewahr/payroll-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

type AdvanceServiceImpl struct {
	db           *database.DB
	advanceRepo  advance.AdvanceRepository
	employeeRepo employee.EmployeeRepository
}

func NewAdvanceService(
	db *database.DB,
	advanceRepo advance.AdvanceRepository,
	employeeRepo employee.EmployeeRepository,
) advance.AdvanceService {
	return &AdvanceServiceImpl{
		db:           db,
		advanceRepo:  advanceRepo,
		employeeRepo: employeeRepo,
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

func (s *AdvanceServiceImpl) GrantAdvance(ctx context.Context, req advance.GrantAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	if emp.EmploymentStatus != employee.EmploymentStatusActive {
		return advance.AdvanceResponse{}, employee.ErrEmployeeNotActive
	}

	grantedDate, _ := validator.IsValidDate(req.GrantedDate)
	forMonth, _ := validator.IsValidMonth(req.ForMonth)

	created, err := s.advanceRepo.Create(ctx, advance.AdvancePayment{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		EmployeeID:       req.EmployeeID,
		Amount:           req.Amount,
		GrantedDate:      grantedDate,
		ForMonth:         forMonth,
		PaymentMethod:    req.PaymentMethod,
		Remarks:          req.Remarks,
		RemainingBalance: req.Amount,
		Status:           advance.AdvanceStatusPending,
		IsActive:         true,
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	resp := toAdvanceResponse(created)
	resp.EmployeeCode = emp.EmployeeCode
	resp.EmployeeName = emp.FullName

	return resp, nil
}

func (s *AdvanceServiceImpl) ListEmployeeAdvances(ctx context.Context, employeeID string) (advance.ListAdvancesResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return advance.ListAdvancesResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, employeeID, companyID); err != nil {
		return advance.ListAdvancesResponse{}, err
	}

	advances, err := s.advanceRepo.ListByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return advance.ListAdvancesResponse{}, err
	}

	balance, err := s.advanceRepo.GetOutstandingBalance(ctx, companyID, employeeID)
	if err != nil {
		return advance.ListAdvancesResponse{}, err
	}

	data := make([]advance.AdvanceResponse, 0, len(advances))
	for _, adv := range advances {
		data = append(data, toAdvanceResponse(adv))
	}

	return advance.ListAdvancesResponse{
		Data:               data,
		OutstandingBalance: balance,
	}, nil
}

func (s *AdvanceServiceImpl) CancelAdvance(ctx context.Context, id string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		return s.cancelAdvance(database.ContextWithTx(ctx, tx), companyID, id)
	})
}

// cancelAdvance deactivates an advance inside the caller's transaction,
// refusing once any deduction has touched it.
func (s *AdvanceServiceImpl) cancelAdvance(ctx context.Context, companyID, id string) error {
	adv, err := s.advanceRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return err
	}
	if !adv.IsActive {
		return advance.ErrAdvanceInactive
	}

	// Lock the employee's ledger so a concurrent payroll commit cannot
	// draw this advance down between the check and the deactivation.
	locked, err := s.advanceRepo.LockActiveByEmployee(ctx, companyID, adv.EmployeeID)
	if err != nil {
		return err
	}

	var current *advance.AdvancePayment
	for i := range locked {
		if locked[i].ID == id {
			current = &locked[i]
			break
		}
	}
	if current == nil {
		return advance.ErrAdvanceInactive
	}
	if !current.RemainingBalance.Equal(current.Amount) {
		return advance.ErrAdvanceAlreadyDrawn
	}

	return s.advanceRepo.Deactivate(ctx, id, companyID)
}

func (s *AdvanceServiceImpl) OutstandingBalance(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return s.advanceRepo.GetOutstandingBalance(ctx, companyID, employeeID)
}

func (s *AdvanceServiceImpl) LockOutstanding(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	advances, err := s.advanceRepo.LockActiveByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return decimal.Zero, err
	}

	outstanding := decimal.Zero
	for _, adv := range advances {
		outstanding = outstanding.Add(adv.RemainingBalance)
	}

	return outstanding, nil
}

func (s *AdvanceServiceImpl) ApplyDeduction(ctx context.Context, employeeID string, amount decimal.Decimal) ([]advance.AdvancePayment, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	advances, err := s.advanceRepo.LockActiveByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}

	steps, err := advance.PlanDrawdown(advances, amount)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, nil
	}

	if err := s.advanceRepo.ApplySteps(ctx, companyID, steps); err != nil {
		return nil, err
	}

	return touchedAdvances(advances, steps), nil
}

func (s *AdvanceServiceImpl) ReverseDeduction(ctx context.Context, employeeID string, amount decimal.Decimal) ([]advance.AdvancePayment, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	advances, err := s.advanceRepo.LockActiveByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}

	// Restore newest drawdowns first.
	newestFirst := make([]advance.AdvancePayment, len(advances))
	for i, adv := range advances {
		newestFirst[len(advances)-1-i] = adv
	}

	steps, err := advance.PlanReversal(newestFirst, amount)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, nil
	}

	if err := s.advanceRepo.ApplySteps(ctx, companyID, steps); err != nil {
		return nil, err
	}

	return touchedAdvances(newestFirst, steps), nil
}

// touchedAdvances returns the advances a plan modified, with the planned
// balances and statuses applied, in step order.
func touchedAdvances(advances []advance.AdvancePayment, steps []advance.DrawdownStep) []advance.AdvancePayment {
	byID := make(map[string]advance.AdvancePayment, len(advances))
	for _, adv := range advances {
		byID[adv.ID] = adv
	}

	touched := make([]advance.AdvancePayment, 0, len(steps))
	for _, step := range steps {
		adv := byID[step.AdvanceID]
		adv.RemainingBalance = step.NewRemaining
		adv.Status = step.NewStatus
		touched = append(touched, adv)
	}

	return touched
}

func toAdvanceResponse(a advance.AdvancePayment) advance.AdvanceResponse {
	resp := advance.AdvanceResponse{
		ID:               a.ID,
		EmployeeID:       a.EmployeeID,
		Amount:           a.Amount,
		GrantedDate:      a.GrantedDate.Format("2006-01-02"),
		ForMonth:         a.ForMonth.Format("2006-01"),
		PaymentMethod:    a.PaymentMethod,
		Remarks:          a.Remarks,
		RemainingBalance: a.RemainingBalance,
		Status:           string(a.Status),
		IsActive:         a.IsActive,
	}
	if a.EmployeeCode != nil {
		resp.EmployeeCode = *a.EmployeeCode
	}
	if a.EmployeeName != nil {
		resp.EmployeeName = *a.EmployeeName
	}

	return resp
}
