package handler

import (
	"net/http"

	"basetrack/internal/service"
	"basetrack/pkg/response"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchaseService service.PurchaseService
}

func NewPurchaseHandler(purchaseService service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

func (h *PurchaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	purchases := router.Group("/purchases")
	{
		purchases.GET("", h.List)
		purchases.POST("", h.Create)
		purchases.GET("/stats/summary", h.Stats)
		purchases.GET("/:id", h.Get)
	}
}

// List returns purchase records for a base
// @Summary      List purchases
// @Tags         purchases
// @Security     BearerAuth
// @Produce      json
// @Param        base_id     query     string  false  "Base ID (admin only)"
// @Param        category    query     string  false  "Filter by asset category"
// @Param        start_date  query     string  false  "Window start (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "Window end (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=[]model.Purchase}
// @Failure      403  {object}  response.Response
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	purchases, err := h.purchaseService.List(c.Request.Context(), actor, c.Query("base_id"), parseLedgerFilters(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"purchases": purchases,
		"total":     len(purchases),
	}))
}

// Create records a purchase and raises the asset's stock
// @Summary      Record purchase
// @Tags         purchases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePurchaseRequest  true  "Purchase Payload"
// @Success      201      {object}  response.Response{data=model.Purchase}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req service.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	purchase, err := h.purchaseService.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, purchase))
}

// Stats returns aggregate purchase totals for a base
// @Summary      Purchase statistics
// @Tags         purchases
// @Security     BearerAuth
// @Produce      json
// @Param        base_id     query     string  false  "Base ID (admin only)"
// @Param        category    query     string  false  "Filter by asset category"
// @Param        start_date  query     string  false  "Window start (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "Window end (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=service.PurchaseStats}
// @Failure      400  {object}  response.Response
// @Router       /api/purchases/stats/summary [get]
func (h *PurchaseHandler) Stats(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	stats, err := h.purchaseService.Stats(c.Request.Context(), actor, c.Query("base_id"), parseLedgerFilters(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// Get returns a single purchase record
// @Summary      Get purchase
// @Tags         purchases
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Purchase ID"
// @Success      200  {object}  response.Response{data=model.Purchase}
// @Failure      404  {object}  response.Response
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) Get(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	purchase, err := h.purchaseService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, purchase))
}
