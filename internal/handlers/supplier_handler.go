package handlers

import (
	"net/http"

	"supplymatch_backend/internal/middleware"
	"supplymatch_backend/internal/services"
	"supplymatch_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	*BaseHandler
	supplierService  services.SupplierService
	lifecycleService services.LifecycleService
}

func NewSupplierHandler(
	base *BaseHandler,
	supplierService services.SupplierService,
	lifecycleService services.LifecycleService,
) *SupplierHandler {
	return &SupplierHandler{
		BaseHandler:      base,
		supplierService:  supplierService,
		lifecycleService: lifecycleService,
	}
}

func (h *SupplierHandler) RegisterRoutes(r *gin.RouterGroup) {
	suppliers := r.Group("/suppliers")
	suppliers.Use(middleware.AuthMiddleware())
	{
		suppliers.POST("", h.CreateSupplier)
		suppliers.GET("/my", h.GetMySuppliers)
		suppliers.POST("/:supplierId/reapply", h.ReapplySupplier)
	}
}

func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSupplierRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

func (h *SupplierHandler) GetMySuppliers(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	suppliers, err := h.supplierService.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suppliers": suppliers,
		"total":     len(suppliers),
	})
}

func (h *SupplierHandler) ReapplySupplier(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	supplierID := c.Param("supplierId")

	if err := h.lifecycleService.ReapplySupplier(c.Request.Context(), supplierID, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier profile resubmitted for moderation"})
}
