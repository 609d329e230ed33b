package handler

import (
	"net/http"

	"basetrack/internal/apperr"
	"basetrack/internal/model"
	"basetrack/internal/repository"
	"basetrack/pkg/pagination"
	"basetrack/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditRepo repository.AuditRepository
}

func NewAuditHandler(auditRepo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/audit-logs")
	{
		group.GET("", h.List)
	}
}

// List retrieves paginated audit records, newest first
// @Summary      Get audit logs
// @Description  Admin-only trail of every ledger mutation
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      403    {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if actor.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, response.Fail(http.StatusForbidden, string(apperr.CodeForbiddenRole), "admin role required"))
		return
	}

	params := pagination.Parse(c)
	logs, total, err := h.auditRepo.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"logs":  logs,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}
