package handler

import (
	"net/http"

	"basetrack/internal/service"
	"basetrack/pkg/response"

	"github.com/gin-gonic/gin"
)

type TransferHandler struct {
	transferService service.TransferService
}

func NewTransferHandler(transferService service.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

func (h *TransferHandler) RegisterRoutes(router *gin.RouterGroup) {
	transfers := router.Group("/transfers")
	{
		transfers.GET("", h.List)
		transfers.POST("", h.Initiate)
		transfers.GET("/stats/summary", h.Stats)
		transfers.GET("/:id", h.Get)
		transfers.PATCH("/:id/status", h.UpdateStatus)
	}
}

type updateTransferStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List returns transfers touching a base on either side
// @Summary      List transfers
// @Tags         transfers
// @Security     BearerAuth
// @Produce      json
// @Param        base_id     query     string  false  "Base ID (admin only)"
// @Param        status      query     string  false  "Filter by status"
// @Param        start_date  query     string  false  "Window start (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "Window end (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=[]model.Transfer}
// @Failure      403  {object}  response.Response
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	transfers, err := h.transferService.List(c.Request.Context(), actor, c.Query("base_id"), parseLedgerFilters(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"transfers": transfers,
		"total":     len(transfers),
	}))
}

// Initiate opens a pending transfer between two bases
// @Summary      Initiate transfer
// @Description  Stock moves only when the transfer is later completed
// @Tags         transfers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateTransferRequest  true  "Transfer Payload"
// @Success      201      {object}  response.Response{data=model.Transfer}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/transfers [post]
func (h *TransferHandler) Initiate(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req service.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	transfer, err := h.transferService.Initiate(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, transfer))
}

// Stats returns in/out transfer totals for a base
// @Summary      Transfer statistics
// @Tags         transfers
// @Security     BearerAuth
// @Produce      json
// @Param        base_id     query     string  false  "Base ID (admin only)"
// @Param        category    query     string  false  "Filter by asset category"
// @Param        start_date  query     string  false  "Window start (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "Window end (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=service.TransferStatsResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/transfers/stats/summary [get]
func (h *TransferHandler) Stats(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	stats, err := h.transferService.Stats(c.Request.Context(), actor, c.Query("base_id"), parseLedgerFilters(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// Get returns a single transfer
// @Summary      Get transfer
// @Tags         transfers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Transfer ID"
// @Success      200  {object}  response.Response{data=model.Transfer}
// @Failure      404  {object}  response.Response
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) Get(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	transfer, err := h.transferService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, transfer))
}

// UpdateStatus advances a transfer's lifecycle
// @Summary      Update transfer status
// @Description  pending may move to approved or rejected; approved may move
// @Description  to completed, which moves the stock atomically
// @Tags         transfers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Transfer ID"
// @Param        payload  body      updateTransferStatusRequest  true  "Status Payload"
// @Success      200      {object}  response.Response{data=model.Transfer}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/transfers/{id}/status [patch]
func (h *TransferHandler) UpdateStatus(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req updateTransferStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	transfer, err := h.transferService.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, transfer))
}
