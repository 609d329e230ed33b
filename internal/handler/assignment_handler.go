package handler

import (
	"net/http"

	"basetrack/internal/service"
	"basetrack/pkg/response"

	"github.com/gin-gonic/gin"
)

// AssignmentHandler serves both personnel assignments and expenditures,
// mirroring how the two ledgers are consumed together on tracking screens.
type AssignmentHandler struct {
	assignmentService  service.AssignmentService
	expenditureService service.ExpenditureService
}

func NewAssignmentHandler(assignmentService service.AssignmentService, expenditureService service.ExpenditureService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService, expenditureService: expenditureService}
}

func (h *AssignmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	assignments := router.Group("/assignments")
	{
		assignments.GET("", h.List)
		assignments.POST("", h.Create)
		assignments.GET("/expenditures", h.ListExpenditures)
		assignments.POST("/expenditures", h.CreateExpenditure)
		assignments.GET("/stats/summary", h.Stats)
		assignments.PATCH("/:id/status", h.UpdateStatus)
	}
}

type updateAssignmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List returns assignments for a base
// @Summary      List assignments
// @Tags         assignments
// @Security     BearerAuth
// @Produce      json
// @Param        base_id     query     string  false  "Base ID (admin only)"
// @Param        category    query     string  false  "Filter by asset category"
// @Param        start_date  query     string  false  "Window start (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "Window end (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=[]model.Assignment}
// @Failure      400  {object}  response.Response
// @Router       /api/assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentService.List(c.Request.Context(), actor, c.Query("base_id"), parseLedgerFilters(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"assignments": assignments,
		"total":       len(assignments),
	}))
}

// Create assigns asset stock to a person, reserving the quantity
// @Summary      Create assignment
// @Tags         assignments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateAssignmentRequest  true  "Assignment Payload"
// @Success      201      {object}  response.Response{data=model.Assignment}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req service.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	assignment, err := h.assignmentService.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, assignment))
}

// ListExpenditures returns expenditure records for a base
// @Summary      List expenditures
// @Tags         assignments
// @Security     BearerAuth
// @Produce      json
// @Param        base_id     query     string  false  "Base ID (admin only)"
// @Param        category    query     string  false  "Filter by asset category"
// @Param        start_date  query     string  false  "Window start (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "Window end (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=[]model.Expenditure}
// @Failure      400  {object}  response.Response
// @Router       /api/assignments/expenditures [get]
func (h *AssignmentHandler) ListExpenditures(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	expenditures, err := h.expenditureService.List(c.Request.Context(), actor, c.Query("base_id"), parseLedgerFilters(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"expenditures": expenditures,
		"total":        len(expenditures),
	}))
}

// CreateExpenditure records consumed stock
// @Summary      Record expenditure
// @Tags         assignments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateExpenditureRequest  true  "Expenditure Payload"
// @Success      201      {object}  response.Response{data=model.Expenditure}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/assignments/expenditures [post]
func (h *AssignmentHandler) CreateExpenditure(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req service.CreateExpenditureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	expenditure, err := h.expenditureService.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, expenditure))
}

// Stats returns assigned and expended totals for a base
// @Summary      Assignment statistics
// @Tags         assignments
// @Security     BearerAuth
// @Produce      json
// @Param        base_id     query     string  false  "Base ID (admin only)"
// @Param        category    query     string  false  "Filter by asset category"
// @Param        start_date  query     string  false  "Window start (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "Window end (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /api/assignments/stats/summary [get]
func (h *AssignmentHandler) Stats(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	filters := parseLedgerFilters(c)
	baseID := c.Query("base_id")

	assigned, err := h.assignmentService.AssignedTotal(c.Request.Context(), actor, baseID, filters)
	if err != nil {
		writeError(c, err)
		return
	}
	expended, err := h.expenditureService.ExpendedTotal(c.Request.Context(), actor, baseID, filters)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"assigned": assigned,
		"expended": expended,
	}))
}

// UpdateStatus advances an assignment's lifecycle
// @Summary      Update assignment status
// @Description  returned restores the reserved stock; completed consumes it
// @Tags         assignments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Assignment ID"
// @Param        payload  body      updateAssignmentStatusRequest  true  "Status Payload"
// @Success      200      {object}  response.Response{data=model.Assignment}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/assignments/{id}/status [patch]
func (h *AssignmentHandler) UpdateStatus(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req updateAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	assignment, err := h.assignmentService.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, assignment))
}
