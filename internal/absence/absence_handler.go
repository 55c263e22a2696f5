package absence

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/EternelCodeur/punch-smartly-backend/internal/middleware"
	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func uuidQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func (h *Handler) GetAll(c *gin.Context) {
	act, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Authentication is required", nil)
		return
	}

	employeID, ok := uuidQuery(c, "employe_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid employe_id", nil)
		return
	}
	entrepriseID, ok := uuidQuery(c, "entreprise_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid entreprise_id", nil)
		return
	}

	q := ListQuery{
		EmployeID:    employeID,
		EntrepriseID: entrepriseID,
		Month:        c.Query("month"),
		From:         c.Query("from"),
		To:           c.Query("to"),
	}

	resp, err := h.service.List(c.Request.Context(), act, q)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "0"))
	if perPage <= 0 {
		response.Success(c, http.StatusOK, resp, nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	total := int64(len(resp))
	start := (page - 1) * perPage
	end := start + perPage
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, perPage)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) Create(c *gin.Context) {
	act, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Authentication is required", nil)
		return
	}

	var req CreateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), act, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Get(c *gin.Context) {
	act, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Authentication is required", nil)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), act, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	act, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Authentication is required", nil)
		return
	}

	var req UpdateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), act, c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	act, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Authentication is required", nil)
		return
	}

	if err := h.service.Delete(c.Request.Context(), act, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusNoContent, nil, nil)
}
