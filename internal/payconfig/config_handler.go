package payconfig

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func asOfFromQuery(c *gin.Context) (time.Time, bool) {
	raw := c.DefaultQuery("as_of", time.Now().UTC().Format("2006-01-02"))
	asOf, err := time.Parse("2006-01-02", raw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid as_of date, expected YYYY-MM-DD", nil)
		return time.Time{}, false
	}
	return asOf, true
}

func (h *Handler) GetConfig(c *gin.Context) {
	asOf, ok := asOfFromQuery(c)
	if !ok {
		return
	}

	resp, err := h.service.GetConfig(c.Request.Context(), c.Param("type"), c.Param("key"), asOf)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetConfigsByType(c *gin.Context) {
	asOf, ok := asOfFromQuery(c)
	if !ok {
		return
	}

	resp, err := h.service.GetConfigsByType(c.Request.Context(), c.Param("type"), asOf)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAllConfigs(c *gin.Context) {
	asOf, ok := asOfFromQuery(c)
	if !ok {
		return
	}

	resp, err := h.service.GetAllConfigs(c.Request.Context(), asOf)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateConfig(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
