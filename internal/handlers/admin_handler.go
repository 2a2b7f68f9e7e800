package handlers

import (
	"net/http"

	"supplymatch_backend/internal/middleware"
	"supplymatch_backend/internal/models"
	"supplymatch_backend/internal/services"
	"supplymatch_backend/internal/services/dto"
	"supplymatch_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the moderation surface: listing queues and deciding
// the fate of pending requests and supplier profiles.
type AdminHandler struct {
	*BaseHandler
	requestService   services.RequestService
	supplierService  services.SupplierService
	lifecycleService services.LifecycleService
}

func NewAdminHandler(
	base *BaseHandler,
	requestService services.RequestService,
	supplierService services.SupplierService,
	lifecycleService services.LifecycleService,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:      base,
		requestService:   requestService,
		supplierService:  supplierService,
		lifecycleService: lifecycleService,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.UserRoleAdmin))
	{
		admin.GET("/requests", h.ListRequests)
		admin.POST("/requests/:requestId/approve", h.ApproveRequest)
		admin.POST("/requests/:requestId/reject", h.RejectRequest)

		admin.GET("/suppliers", h.ListSuppliers)
		admin.POST("/suppliers/:supplierId/approve", h.ApproveSupplier)
		admin.POST("/suppliers/:supplierId/reject", h.RejectSupplier)
	}
}

// statusFromQuery reads the ?status= filter, defaulting to the moderation
// queue (pending).
func statusFromQuery(c *gin.Context) (models.ModerationStatus, bool) {
	status := models.ModerationStatus(c.DefaultQuery("status", string(models.StatusPending)))
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
		return status, true
	}
	apperrors.HandleError(c, apperrors.NewBadRequestError("status must be pending, approved or rejected"))
	return "", false
}

func (h *AdminHandler) ListRequests(c *gin.Context) {
	status, ok := statusFromQuery(c)
	if !ok {
		return
	}

	requests, err := h.requestService.ListByStatus(c.Request.Context(), status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    len(requests),
	})
}

func (h *AdminHandler) ApproveRequest(c *gin.Context) {
	requestID := c.Param("requestId")

	result, err := h.lifecycleService.ApproveRequest(c.Request.Context(), requestID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) RejectRequest(c *gin.Context) {
	requestID := c.Param("requestId")

	var req dto.RejectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.lifecycleService.RejectRequest(c.Request.Context(), requestID, req.Reason); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request rejected"})
}

func (h *AdminHandler) ListSuppliers(c *gin.Context) {
	status, ok := statusFromQuery(c)
	if !ok {
		return
	}

	suppliers, err := h.supplierService.ListByStatus(c.Request.Context(), status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suppliers": suppliers,
		"total":     len(suppliers),
	})
}

func (h *AdminHandler) ApproveSupplier(c *gin.Context) {
	supplierID := c.Param("supplierId")

	if err := h.lifecycleService.ApproveSupplier(c.Request.Context(), supplierID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier approved"})
}

func (h *AdminHandler) RejectSupplier(c *gin.Context) {
	supplierID := c.Param("supplierId")

	var req dto.RejectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.lifecycleService.RejectSupplier(c.Request.Context(), supplierID, req.Reason); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier rejected"})
}
