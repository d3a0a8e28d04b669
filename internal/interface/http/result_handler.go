package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pfa-screening-api/internal/application"
	"github.com/oksasatya/pfa-screening-api/internal/domain/entity"
	"github.com/oksasatya/pfa-screening-api/pkg/response"
	"github.com/oksasatya/pfa-screening-api/pkg/validation"
)

type ResultHandler struct {
	Svc    *application.ResultService
	Logger *logrus.Logger
}

func NewResultHandler(svc *application.ResultService, logger *logrus.Logger) *ResultHandler {
	return &ResultHandler{Svc: svc, Logger: logger}
}

type createResultRequest struct {
	UserID string             `json:"userId" binding:"required"`
	Result []entity.Screening `json:"result" binding:"required"`
}

// CreateResult POST /createResult {userId, result}
func (h *ResultHandler) CreateResult(c *gin.Context) {
	var req createResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	id, err := h.Svc.CreateResult(c.Request.Context(), req.UserID, req.Result)
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "User not found", nil)
	case err != nil:
		serverError(c, h.Logger, err, "Error Creating the Result")
	default:
		response.Success(c, http.StatusOK, gin.H{"resultId": id}, "result created", nil)
	}
}

// GetResults GET /getResults/:userId
func (h *ResultHandler) GetResults(c *gin.Context) {
	results, err := h.Svc.GetResults(c.Request.Context(), c.Param("userId"))
	switch {
	case errors.Is(err, application.ErrNoResults):
		response.Error[any](c, http.StatusNotFound, "No results found for this user", nil)
	case err != nil:
		serverError(c, h.Logger, err, "Error while fetching results")
	default:
		response.Success(c, http.StatusOK, gin.H{"results": results}, "results", nil)
	}
}

// GetReport GET /getReport/:resultId
func (h *ResultHandler) GetReport(c *gin.Context) {
	report, err := h.Svc.GetReport(c.Request.Context(), c.Param("resultId"))
	switch {
	case errors.Is(err, application.ErrResultNotFound):
		response.Error[any](c, http.StatusNotFound, "No report found", nil)
	case err != nil:
		serverError(c, h.Logger, err, "Error while fetching report")
	default:
		response.Success(c, http.StatusOK, gin.H{"report": report}, "report", nil)
	}
}

// SearchResults GET /searchResults/:userId?q=&size=
func (h *ResultHandler) SearchResults(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchResults(c.Request.Context(), c.Param("userId"), c.Query("q"), size)
	if err != nil {
		serverError(c, h.Logger, err, "search failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hits": hits}, "search results", map[string]any{"count": len(hits)})
}
