package employe

import (
	"net/http"
	"strconv"
	"strings"

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

func boolQuery(c *gin.Context, name, def string) bool {
	v, err := strconv.ParseBool(c.DefaultQuery(name, def))
	if err != nil {
		return def == "true"
	}
	return v
}

func (h *Handler) GetAll(c *gin.Context) {
	act, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Authentication is required", nil)
		return
	}

	var entrepriseID *uuid.UUID
	if raw := c.Query("entreprise_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid entreprise_id", nil)
			return
		}
		entrepriseID = &id
	}

	normalize := boolQuery(c, "normalize_today", "true")

	// Counts variant of the list endpoint, scoped the same way.
	if boolQuery(c, "today_counts", "false") {
		counts, err := h.service.TodayCounts(c.Request.Context(), act, entrepriseID, normalize)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, counts, nil)
		return
	}

	q := ListQuery{
		Search:               c.Query("search"),
		EntrepriseID:         entrepriseID,
		Status:               strings.ToLower(c.Query("status")),
		ForDeparture:         boolQuery(c, "for_departure", "false"),
		ExcludeDepartedToday: boolQuery(c, "exclude_departed_today", "false"),
		NormalizeToday:       normalize,
	}

	resp, err := h.service.List(c.Request.Context(), act, q)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
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

	var req CreateEmployeRequest
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

	var req UpdateEmployeRequest
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
