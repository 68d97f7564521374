package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sewahr/payroll-backend-go/internal/domain/payroll"
	"github.com/sewahr/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Periods
	CalculatePeriod(w http.ResponseWriter, r *http.Request)
	ListPeriods(w http.ResponseWriter, r *http.Request)
	GetPeriod(w http.ResponseWriter, r *http.Request)
	DeletePeriod(w http.ResponseWriter, r *http.Request)
	LockPeriod(w http.ResponseWriter, r *http.Request)
	UnlockPeriod(w http.ResponseWriter, r *http.Request)
	GetPeriodSummary(w http.ResponseWriter, r *http.Request)

	// Staged edits
	StagePaidStatus(w http.ResponseWriter, r *http.Request)
	StageAdvanceDeduction(w http.ResponseWriter, r *http.Request)
	CommitChanges(w http.ResponseWriter, r *http.Request)
	DiscardChanges(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// periodPath parses the {year}/{month} URL params shared by the period
// routes, writing the 400 itself when they are malformed.
func periodPath(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 2020 {
		response.BadRequest(w, "Invalid year", nil)
		return 0, 0, false
	}

	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		response.BadRequest(w, "Invalid month", nil)
		return 0, 0, false
	}

	return year, month, true
}

// ========== PERIODS ==========

func (h *payrollHandlerImpl) CalculatePeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CalculatePeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll period calculated", result)
}

func (h *payrollHandlerImpl) ListPeriods(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PeriodFilter{
		Page:  1,
		Limit: 20,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	result, err := h.payrollService.ListPeriods(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := 0
	if result.Limit > 0 {
		totalPages = int((result.TotalCount + int64(result.Limit) - 1) / int64(result.Limit))
	}

	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages,
	})
}

func (h *payrollHandlerImpl) GetPeriod(w http.ResponseWriter, r *http.Request) {
	year, month, ok := periodPath(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.GetPeriod(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	year, month, ok := periodPath(w, r)
	if !ok {
		return
	}

	if err := h.payrollService.DeletePeriod(r.Context(), year, month); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period deleted successfully", nil)
}

func (h *payrollHandlerImpl) LockPeriod(w http.ResponseWriter, r *http.Request) {
	year, month, ok := periodPath(w, r)
	if !ok {
		return
	}

	if err := h.payrollService.LockPeriod(r.Context(), year, month); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period locked", nil)
}

func (h *payrollHandlerImpl) UnlockPeriod(w http.ResponseWriter, r *http.Request) {
	year, month, ok := periodPath(w, r)
	if !ok {
		return
	}

	if err := h.payrollService.UnlockPeriod(r.Context(), year, month); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period unlocked", nil)
}

func (h *payrollHandlerImpl) GetPeriodSummary(w http.ResponseWriter, r *http.Request) {
	year, month, ok := periodPath(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.GetPeriodSummary(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== STAGED EDITS ==========

func (h *payrollHandlerImpl) StagePaidStatus(w http.ResponseWriter, r *http.Request) {
	year, month, ok := periodPath(w, r)
	if !ok {
		return
	}

	var req payroll.StagePaidStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.Year = year
	req.Month = month

	if err := h.payrollService.StagePaidStatus(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, nil)
}

func (h *payrollHandlerImpl) StageAdvanceDeduction(w http.ResponseWriter, r *http.Request) {
	year, month, ok := periodPath(w, r)
	if !ok {
		return
	}

	var req payroll.StageDeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.Year = year
	req.Month = month

	if err := h.payrollService.StageAdvanceDeduction(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, nil)
}

func (h *payrollHandlerImpl) CommitChanges(w http.ResponseWriter, r *http.Request) {
	year, month, ok := periodPath(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.CommitChanges(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Partial rejection is still a 200; the result carries per-entry reasons.
	response.Success(w, result)
}

func (h *payrollHandlerImpl) DiscardChanges(w http.ResponseWriter, r *http.Request) {
	year, month, ok := periodPath(w, r)
	if !ok {
		return
	}

	if err := h.payrollService.DiscardChanges(r.Context(), year, month); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Staged edits discarded", nil)
}
