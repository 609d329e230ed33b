package handler

import (
	"net/http"

	"basetrack/internal/model"
	"basetrack/internal/service"
	"basetrack/pkg/response"

	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	assetService     service.AssetService
	dashboardService service.DashboardService
	authService      service.AuthService
}

func NewAssetHandler(assetService service.AssetService, dashboardService service.DashboardService, authService service.AuthService) *AssetHandler {
	return &AssetHandler{assetService: assetService, dashboardService: dashboardService, authService: authService}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	assets := router.Group("/assets")
	{
		assets.GET("", h.List)
		assets.POST("", h.Create)
		assets.GET("/dashboard", h.Dashboard)
		assets.GET("/bases/all", h.ListBases)
		assets.GET("/:id", h.Get)
		assets.PATCH("/:id/quantity", h.UpdateQuantity)
	}
}

// ListBases returns the bases the caller may pick from in asset forms
// @Summary      List bases for selection
// @Description  Admins see every base; other roles see only their own
// @Tags         assets
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Base}
// @Failure      401  {object}  response.Response
// @Router       /api/assets/bases/all [get]
func (h *AssetHandler) ListBases(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	bases, err := h.authService.ListBasesForActor(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"bases": bases,
	}))
}

// List returns assets visible to the caller
// @Summary      List assets
// @Description  Admins may select any base via base_id; other roles are
// @Description  pinned to their own base
// @Tags         assets
// @Security     BearerAuth
// @Produce      json
// @Param        base_id   query     string  false  "Base ID (admin only)"
// @Param        category  query     string  false  "Filter by category"
// @Param        status    query     string  false  "Filter by status"
// @Success      200  {object}  response.Response{data=[]model.Asset}
// @Failure      403  {object}  response.Response
// @Router       /api/assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	filters := model.AssetFilters{
		Category: c.Query("category"),
		Status:   c.Query("status"),
	}

	assets, err := h.assetService.List(c.Request.Context(), actor, c.Query("base_id"), filters)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"assets": assets,
		"total":  len(assets),
	}))
}

// Create registers a new asset type at a base
// @Summary      Create asset
// @Tags         assets
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateAssetRequest  true  "Create Asset Payload"
// @Success      201      {object}  response.Response{data=model.Asset}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req service.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	asset, err := h.assetService.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, asset))
}

// Dashboard returns the base reconciliation metrics
// @Summary      Dashboard metrics
// @Description  Aggregates opening balance, purchases, transfers, assignments
// @Description  and expenditures into a closing balance for one base
// @Tags         assets
// @Security     BearerAuth
// @Produce      json
// @Param        base_id     query     string  false  "Base ID (admin only)"
// @Param        category    query     string  false  "Filter by category"
// @Param        start_date  query     string  false  "Window start (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "Window end (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=model.DashboardMetrics}
// @Failure      403  {object}  response.Response
// @Router       /api/assets/dashboard [get]
func (h *AssetHandler) Dashboard(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	metrics, err := h.dashboardService.Metrics(c.Request.Context(), actor, c.Query("base_id"), parseLedgerFilters(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, metrics))
}

// Get returns a single asset
// @Summary      Get asset
// @Tags         assets
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  response.Response{data=model.Asset}
// @Failure      404  {object}  response.Response
// @Router       /api/assets/{id} [get]
func (h *AssetHandler) Get(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	asset, err := h.assetService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

// UpdateQuantity sets an asset's on-hand quantity directly
// @Summary      Update asset quantity
// @Description  Administrative correction; ledger movements should go through
// @Description  purchases, transfers, assignments or expenditures instead
// @Tags         assets
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Asset ID"
// @Param        payload  body      service.UpdateQuantityRequest  true  "Quantity Payload"
// @Success      200      {object}  response.Response{data=model.Asset}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/assets/{id}/quantity [patch]
func (h *AssetHandler) UpdateQuantity(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req service.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	asset, err := h.assetService.UpdateQuantity(c.Request.Context(), actor, c.Param("id"), req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}
