package http

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewahr/payroll-backend-go/internal/domain/advance"
	"github.com/sewahr/payroll-backend-go/internal/domain/employee"
	"github.com/sewahr/payroll-backend-go/internal/pkg/validator"
)

func TestAdvanceHandler_GrantAdvance(t *testing.T) {
	svc := &stubAdvanceService{
		grantResp: advance.AdvanceResponse{
			ID:               "adv-1",
			EmployeeID:       "emp-1",
			Amount:           decimal.NewFromInt(2000),
			RemainingBalance: decimal.NewFromInt(2000),
			Status:           "pending",
			IsActive:         true,
		},
	}
	router, token := newTestRouter(&stubPayrollService{}, svc, "admin")

	body := advance.GrantAdvanceRequest{
		EmployeeID:    "emp-1",
		Amount:        decimal.NewFromInt(2000),
		GrantedDate:   "2025-03-05",
		ForMonth:      "2025-03",
		PaymentMethod: "bank_transfer",
	}
	w := doRequest(router, http.MethodPost, "/api/v1/advances", token, body)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp["success"].(bool))
	assert.Equal(t, "Advance granted", resp["message"])

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "adv-1", data["id"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "2000", data["remaining_balance"])

	require.NotNil(t, svc.lastGrant)
	assert.Equal(t, "emp-1", svc.lastGrant.EmployeeID)
	assert.Equal(t, "2000.00", svc.lastGrant.Amount.StringFixed(2))
}

func TestAdvanceHandler_GrantAdvance_ValidationError(t *testing.T) {
	svc := &stubAdvanceService{
		grantErr: validator.ValidationErrors{
			{Field: "amount", Message: "must be greater than zero"},
		},
	}
	router, token := newTestRouter(&stubPayrollService{}, svc, "admin")

	body := advance.GrantAdvanceRequest{EmployeeID: "emp-1"}
	w := doRequest(router, http.MethodPost, "/api/v1/advances", token, body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeEnvelope(t, w)
	errDetail := resp["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errDetail["code"])
	assert.Contains(t, errDetail["details"].(map[string]interface{}), "amount")
}

func TestAdvanceHandler_GrantAdvance_EmployeeNotFound(t *testing.T) {
	svc := &stubAdvanceService{grantErr: employee.ErrEmployeeNotFound}
	router, token := newTestRouter(&stubPayrollService{}, svc, "admin")

	body := advance.GrantAdvanceRequest{
		EmployeeID:    "ghost",
		Amount:        decimal.NewFromInt(2000),
		GrantedDate:   "2025-03-05",
		ForMonth:      "2025-03",
		PaymentMethod: "cash",
	}
	w := doRequest(router, http.MethodPost, "/api/v1/advances", token, body)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdvanceHandler_ListEmployeeAdvances(t *testing.T) {
	svc := &stubAdvanceService{
		listResp: advance.ListAdvancesResponse{
			Data: []advance.AdvanceResponse{
				{ID: "adv-2", RemainingBalance: decimal.NewFromInt(1500), Status: "partially_paid"},
				{ID: "adv-1", RemainingBalance: decimal.Zero, Status: "repaid"},
			},
			OutstandingBalance: decimal.NewFromInt(1500),
		},
	}
	router, token := newTestRouter(&stubPayrollService{}, svc, "admin")

	w := doRequest(router, http.MethodGet, "/api/v1/advances?employee_id=emp-1", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "emp-1", svc.lastEmployeeID)

	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "1500", data["outstanding_balance"])
	assert.Len(t, data["data"].([]interface{}), 2)
}

func TestAdvanceHandler_ListEmployeeAdvances_MissingEmployeeID(t *testing.T) {
	router, token := newTestRouter(&stubPayrollService{}, &stubAdvanceService{}, "admin")

	w := doRequest(router, http.MethodGet, "/api/v1/advances", token, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdvanceHandler_CancelAdvance(t *testing.T) {
	svc := &stubAdvanceService{}
	router, token := newTestRouter(&stubPayrollService{}, svc, "admin")

	w := doRequest(router, http.MethodDelete, "/api/v1/advances/adv-1", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "adv-1", svc.lastCancelID)
	assert.Equal(t, "Advance cancelled successfully", decodeEnvelope(t, w)["message"])
}

func TestAdvanceHandler_CancelAdvance_AlreadyDrawn(t *testing.T) {
	svc := &stubAdvanceService{cancelErr: advance.ErrAdvanceAlreadyDrawn}
	router, token := newTestRouter(&stubPayrollService{}, svc, "admin")

	w := doRequest(router, http.MethodDelete, "/api/v1/advances/adv-1", token, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "CONFLICT", resp["error"].(map[string]interface{})["code"])
}

func TestAdvanceHandler_CancelAdvance_NotFound(t *testing.T) {
	svc := &stubAdvanceService{cancelErr: advance.ErrAdvanceNotFound}
	router, token := newTestRouter(&stubPayrollService{}, svc, "admin")

	w := doRequest(router, http.MethodDelete, "/api/v1/advances/ghost", token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
