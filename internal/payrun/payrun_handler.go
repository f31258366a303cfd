package payrun

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"
	"go-payroll/internal/thirteenth"
)

type Handler struct {
	service    Service
	thirteenth thirteenth.Calculator
}

func NewHandler(service Service, calc thirteenth.Calculator) *Handler {
	return &Handler{service: service, thirteenth: calc}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func parsePeriod(c *gin.Context, startRaw, endRaw string) (time.Time, time.Time, bool) {
	start, err := time.Parse("2006-01-02", startRaw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid start_date, expected YYYY-MM-DD", nil)
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse("2006-01-02", endRaw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid end_date, expected YYYY-MM-DD", nil)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *Handler) CalculatePayroll(c *gin.Context) {
	var req CalculatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", details)
		return
	}

	start, end, ok := parsePeriod(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	result, err := h.service.CalculateEmployeePayroll(c.Request.Context(), req.EmployeeID, start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) CalculateBatchPayroll(c *gin.Context) {
	var req BatchPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", details)
		return
	}

	start, end, ok := parsePeriod(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	resp, err := h.service.CalculateBatchPayroll(c.Request.Context(), req.EmployeeIDs, start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CalculateThirteenthMonth(c *gin.Context) {
	var req ThirteenthMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", details)
		return
	}

	if req.EmployeeID != "" {
		record, err := h.thirteenth.Compute(c.Request.Context(), req.EmployeeID, req.Year)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusCreated, record, nil)
		return
	}

	result, err := h.thirteenth.BatchCompute(c.Request.Context(), req.Year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}
