package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewahr/payroll-backend-go/internal/domain/advance"
	"github.com/sewahr/payroll-backend-go/internal/domain/payroll"
	"github.com/sewahr/payroll-backend-go/internal/pkg/jwt"
	"github.com/sewahr/payroll-backend-go/internal/pkg/validator"
)

const handlerTestSecret = "test-secret-key-for-jwt"

// ===== STUB SERVICES =====

var _ payroll.PayrollService = (*stubPayrollService)(nil)

type stubPayrollService struct {
	calculateResp payroll.CalculatePeriodResponse
	calculateErr  error
	periodResp    payroll.PeriodResponse
	periodErr     error
	listResp      payroll.ListPeriodsResponse
	listErr       error
	summaryResp   payroll.PeriodSummaryResponse
	summaryErr    error
	commitResp    payroll.CommitResult
	commitErr     error
	lockErr       error
	unlockErr     error
	deleteErr     error
	stagePaidErr  error
	stageDedErr   error
	discardErr    error

	lastCalculate *payroll.CalculatePeriodRequest
	lastStagePaid *payroll.StagePaidStatusRequest
	lastStageDed  *payroll.StageDeductionRequest
	lastYear      int
	lastMonth     int
}

func (s *stubPayrollService) CalculatePeriod(_ context.Context, req payroll.CalculatePeriodRequest) (payroll.CalculatePeriodResponse, error) {
	s.lastCalculate = &req
	return s.calculateResp, s.calculateErr
}

func (s *stubPayrollService) GetPeriod(_ context.Context, year, month int) (payroll.PeriodResponse, error) {
	s.lastYear, s.lastMonth = year, month
	return s.periodResp, s.periodErr
}

func (s *stubPayrollService) ListPeriods(_ context.Context, _ payroll.PeriodFilter) (payroll.ListPeriodsResponse, error) {
	return s.listResp, s.listErr
}

func (s *stubPayrollService) LockPeriod(_ context.Context, year, month int) error {
	s.lastYear, s.lastMonth = year, month
	return s.lockErr
}

func (s *stubPayrollService) UnlockPeriod(_ context.Context, year, month int) error {
	s.lastYear, s.lastMonth = year, month
	return s.unlockErr
}

func (s *stubPayrollService) DeletePeriod(_ context.Context, year, month int) error {
	s.lastYear, s.lastMonth = year, month
	return s.deleteErr
}

func (s *stubPayrollService) GetPeriodSummary(_ context.Context, year, month int) (payroll.PeriodSummaryResponse, error) {
	s.lastYear, s.lastMonth = year, month
	return s.summaryResp, s.summaryErr
}

func (s *stubPayrollService) StagePaidStatus(_ context.Context, req payroll.StagePaidStatusRequest) error {
	s.lastStagePaid = &req
	return s.stagePaidErr
}

func (s *stubPayrollService) StageAdvanceDeduction(_ context.Context, req payroll.StageDeductionRequest) error {
	s.lastStageDed = &req
	return s.stageDedErr
}

func (s *stubPayrollService) CommitChanges(_ context.Context, year, month int) (payroll.CommitResult, error) {
	s.lastYear, s.lastMonth = year, month
	return s.commitResp, s.commitErr
}

func (s *stubPayrollService) DiscardChanges(_ context.Context, year, month int) error {
	s.lastYear, s.lastMonth = year, month
	return s.discardErr
}

var _ advance.AdvanceService = (*stubAdvanceService)(nil)

type stubAdvanceService struct {
	grantResp advance.AdvanceResponse
	grantErr  error
	listResp  advance.ListAdvancesResponse
	listErr   error
	cancelErr error

	lastGrant      *advance.GrantAdvanceRequest
	lastEmployeeID string
	lastCancelID   string
}

func (s *stubAdvanceService) GrantAdvance(_ context.Context, req advance.GrantAdvanceRequest) (advance.AdvanceResponse, error) {
	s.lastGrant = &req
	return s.grantResp, s.grantErr
}

func (s *stubAdvanceService) ListEmployeeAdvances(_ context.Context, employeeID string) (advance.ListAdvancesResponse, error) {
	s.lastEmployeeID = employeeID
	return s.listResp, s.listErr
}

func (s *stubAdvanceService) CancelAdvance(_ context.Context, id string) error {
	s.lastCancelID = id
	return s.cancelErr
}

func (s *stubAdvanceService) OutstandingBalance(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubAdvanceService) LockOutstanding(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubAdvanceService) ApplyDeduction(_ context.Context, _ string, _ decimal.Decimal) ([]advance.AdvancePayment, error) {
	return nil, nil
}

func (s *stubAdvanceService) ReverseDeduction(_ context.Context, _ string, _ decimal.Decimal) ([]advance.AdvancePayment, error) {
	return nil, nil
}

// ===== HELPERS =====

// newTestRouter builds the real route tree around stub services, with a
// token minted against the same secret the verifier holds.
func newTestRouter(payrollSvc payroll.PayrollService, advanceSvc advance.AdvanceService, role string) (*chi.Mux, string) {
	jwtSvc := jwt.NewJWTService(handlerTestSecret, "1h")
	token, _, err := jwtSvc.GenerateAccessToken("user-1", "company-1", role)
	if err != nil {
		panic("failed to mint test token: " + err.Error())
	}

	router := NewRouter(jwtSvc, NewPayrollHandler(payrollSvc), NewAdvanceHandler(advanceSvc), "test")
	return router, token
}

func doRequest(router *chi.Mux, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

// ===== AUTH MIDDLEWARE =====

func TestRouter_RejectsMissingToken(t *testing.T) {
	router, _ := newTestRouter(&stubPayrollService{}, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodGet, "/api/v1/payroll/periods", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeEnvelope(t, w)
	assert.False(t, resp["success"].(bool))
}

func TestRouter_RejectsGarbageToken(t *testing.T) {
	router, _ := newTestRouter(&stubPayrollService{}, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodGet, "/api/v1/payroll/periods", "not-a-token", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_RejectsNonAdmin(t *testing.T) {
	router, token := newTestRouter(&stubPayrollService{}, &stubAdvanceService{}, "employee")

	w := doRequest(router, http.MethodGet, "/api/v1/payroll/periods", token, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := decodeEnvelope(t, w)
	assert.False(t, resp["success"].(bool))
	assert.Equal(t, "FORBIDDEN", resp["error"].(map[string]interface{})["code"])
}

func TestRouter_Heartbeat(t *testing.T) {
	router, _ := newTestRouter(&stubPayrollService{}, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

// ===== CALCULATION =====

func TestPayrollHandler_CalculatePeriod(t *testing.T) {
	svc := &stubPayrollService{
		calculateResp: payroll.CalculatePeriodResponse{
			Period:     payroll.PeriodResponse{ID: "period-1", Year: 2025, Month: 3},
			Calculated: 12,
		},
	}
	router, token := newTestRouter(svc, &stubAdvanceService{}, "admin")

	body := payroll.CalculatePeriodRequest{
		Year:        2025,
		Month:       3,
		WorkingDays: 24,
		TDSRate:     decimal.NewFromInt(10),
	}
	w := doRequest(router, http.MethodPost, "/api/v1/payroll/periods", token, body)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp["success"].(bool))
	assert.Equal(t, "Payroll period calculated", resp["message"])
	assert.Equal(t, float64(12), resp["data"].(map[string]interface{})["calculated"])

	require.NotNil(t, svc.lastCalculate)
	assert.Equal(t, 2025, svc.lastCalculate.Year)
	assert.Equal(t, 3, svc.lastCalculate.Month)
	assert.Equal(t, 24, svc.lastCalculate.WorkingDays)
	assert.Equal(t, "10.00", svc.lastCalculate.TDSRate.StringFixed(2))
}

func TestPayrollHandler_CalculatePeriod_InvalidJSON(t *testing.T) {
	router, token := newTestRouter(&stubPayrollService{}, &stubAdvanceService{}, "admin")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/periods", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayrollHandler_CalculatePeriod_ValidationError(t *testing.T) {
	svc := &stubPayrollService{
		calculateErr: validator.ValidationErrors{
			{Field: "month", Message: "must be between 1 and 12"},
		},
	}
	router, token := newTestRouter(svc, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodPost, "/api/v1/payroll/periods", token, payroll.CalculatePeriodRequest{Year: 2025, Month: 13})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeEnvelope(t, w)
	errDetail := resp["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errDetail["code"])
	assert.Contains(t, errDetail["details"].(map[string]interface{}), "month")
}

// ===== PERIOD ROUTES =====

func TestPayrollHandler_GetPeriod(t *testing.T) {
	svc := &stubPayrollService{
		periodResp: payroll.PeriodResponse{
			ID:    "period-1",
			Year:  2025,
			Month: 3,
			Entries: []payroll.PayrollEntryResponse{
				{ID: "entry-1", EmployeeID: "emp-1", NetPayable: decimal.NewFromInt(20600)},
			},
		},
	}
	router, token := newTestRouter(svc, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodGet, "/api/v1/payroll/periods/2025/3", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2025, svc.lastYear)
	assert.Equal(t, 3, svc.lastMonth)

	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	entries := data["entries"].([]interface{})
	require.Len(t, entries, 1)
	assert.Equal(t, "20600", entries[0].(map[string]interface{})["net_payable"])
}

func TestPayrollHandler_GetPeriod_MalformedYear(t *testing.T) {
	router, token := newTestRouter(&stubPayrollService{}, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodGet, "/api/v1/payroll/periods/abcd/3", token, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayrollHandler_GetPeriod_NotFound(t *testing.T) {
	svc := &stubPayrollService{periodErr: payroll.ErrPeriodNotFound}
	router, token := newTestRouter(svc, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodGet, "/api/v1/payroll/periods/2025/4", token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "NOT_FOUND", resp["error"].(map[string]interface{})["code"])
}

func TestPayrollHandler_ListPeriods_Meta(t *testing.T) {
	svc := &stubPayrollService{
		listResp: payroll.ListPeriodsResponse{
			Data:       []payroll.PeriodResponse{{ID: "period-1", Year: 2025, Month: 3}},
			TotalCount: 45,
			Page:       2,
			Limit:      20,
		},
	}
	router, token := newTestRouter(svc, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodGet, "/api/v1/payroll/periods?page=2&limit=20", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	meta := resp["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(45), meta["total_items"])
	assert.Equal(t, float64(3), meta["total_pages"])
}

func TestPayrollHandler_DeletePeriod_Locked(t *testing.T) {
	svc := &stubPayrollService{deleteErr: payroll.ErrPeriodLocked}
	router, token := newTestRouter(svc, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodDelete, "/api/v1/payroll/periods/2025/3", token, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "CONFLICT", resp["error"].(map[string]interface{})["code"])
}

func TestPayrollHandler_LockUnlock(t *testing.T) {
	svc := &stubPayrollService{}
	router, token := newTestRouter(svc, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodPost, "/api/v1/payroll/periods/2025/3/lock", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Payroll period locked", decodeEnvelope(t, w)["message"])

	w = doRequest(router, http.MethodPost, "/api/v1/payroll/periods/2025/3/unlock", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Payroll period unlocked", decodeEnvelope(t, w)["message"])
}

func TestPayrollHandler_GetPeriodSummary(t *testing.T) {
	svc := &stubPayrollService{
		summaryResp: payroll.PeriodSummaryResponse{
			Year:       2025,
			Month:      3,
			EntryCount: 8,
			TotalNet:   decimal.NewFromInt(164800),
		},
	}
	router, token := newTestRouter(svc, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodGet, "/api/v1/payroll/periods/2025/3/summary", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(8), data["entry_count"])
	assert.Equal(t, "164800", data["total_net"])
}

// ===== STAGED EDIT ROUTES =====

func TestPayrollHandler_StagePaidStatus(t *testing.T) {
	svc := &stubPayrollService{}
	router, token := newTestRouter(svc, &stubAdvanceService{}, "admin")

	body := map[string]interface{}{"employee_id": "emp-1", "is_paid": true}
	w := doRequest(router, http.MethodPut, "/api/v1/payroll/periods/2025/3/edits/paid-status", token, body)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastStagePaid)
	assert.Equal(t, 2025, svc.lastStagePaid.Year)
	assert.Equal(t, 3, svc.lastStagePaid.Month)
	assert.Equal(t, "emp-1", svc.lastStagePaid.EmployeeID)
	assert.True(t, svc.lastStagePaid.IsPaid)
}

func TestPayrollHandler_StageAdvanceDeduction(t *testing.T) {
	svc := &stubPayrollService{}
	router, token := newTestRouter(svc, &stubAdvanceService{}, "admin")

	body := map[string]interface{}{"employee_id": "emp-1", "amount": "2500.50"}
	w := doRequest(router, http.MethodPut, "/api/v1/payroll/periods/2025/3/edits/advance-deduction", token, body)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastStageDed)
	assert.Equal(t, "emp-1", svc.lastStageDed.EmployeeID)
	assert.Equal(t, "2500.50", svc.lastStageDed.Amount.StringFixed(2))
}

func TestPayrollHandler_StageOnLockedPeriod(t *testing.T) {
	svc := &stubPayrollService{stagePaidErr: payroll.ErrPeriodLocked}
	router, token := newTestRouter(svc, &stubAdvanceService{}, "admin")

	body := map[string]interface{}{"employee_id": "emp-1", "is_paid": true}
	w := doRequest(router, http.MethodPut, "/api/v1/payroll/periods/2025/3/edits/paid-status", token, body)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPayrollHandler_CommitChanges_PartialRejection(t *testing.T) {
	svc := &stubPayrollService{
		commitResp: payroll.CommitResult{
			Applied: []payroll.PayrollEntryResponse{{ID: "entry-1", EmployeeID: "emp-1"}},
			Rejected: []payroll.RejectedEdit{
				{EmployeeID: "emp-2", Reason: "deduction exceeds outstanding advance balance"},
			},
		},
	}
	router, token := newTestRouter(svc, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodPost, "/api/v1/payroll/periods/2025/3/edits/commit", token, nil)

	// A batch with rejections is still a successful commit call.
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp["success"].(bool))

	data := resp["data"].(map[string]interface{})
	assert.Len(t, data["applied"].([]interface{}), 1)
	rejected := data["rejected"].([]interface{})
	require.Len(t, rejected, 1)
	assert.Equal(t, "deduction exceeds outstanding advance balance", rejected[0].(map[string]interface{})["reason"])
}

func TestPayrollHandler_CommitChanges_InsufficientBalanceError(t *testing.T) {
	svc := &stubPayrollService{commitErr: advance.ErrInsufficientBalance}
	router, token := newTestRouter(svc, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodPost, "/api/v1/payroll/periods/2025/3/edits/commit", token, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPayrollHandler_DiscardChanges(t *testing.T) {
	svc := &stubPayrollService{}
	router, token := newTestRouter(svc, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodPost, "/api/v1/payroll/periods/2025/3/edits/discard", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Staged edits discarded", decodeEnvelope(t, w)["message"])
	assert.Equal(t, 2025, svc.lastYear)
	assert.Equal(t, 3, svc.lastMonth)
}
