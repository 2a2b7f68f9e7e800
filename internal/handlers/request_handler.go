package handlers

import (
	"net/http"

	"supplymatch_backend/internal/middleware"
	"supplymatch_backend/internal/services"
	"supplymatch_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	*BaseHandler
	requestService   services.RequestService
	lifecycleService services.LifecycleService
	matchService     services.MatchService
}

func NewRequestHandler(
	base *BaseHandler,
	requestService services.RequestService,
	lifecycleService services.LifecycleService,
	matchService services.MatchService,
) *RequestHandler {
	return &RequestHandler{
		BaseHandler:      base,
		requestService:   requestService,
		lifecycleService: lifecycleService,
		matchService:     matchService,
	}
}

func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("", h.CreateRequest)
		requests.GET("/my", h.GetMyRequests)
		requests.POST("/:requestId/reapply", h.ReapplyRequest)
		requests.GET("/:requestId/matches", h.GetRequestMatches)
	}
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	request, err := h.requestService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *RequestHandler) GetMyRequests(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	requests, err := h.requestService.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    len(requests),
	})
}

func (h *RequestHandler) ReapplyRequest(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	requestID := c.Param("requestId")

	if err := h.lifecycleService.ReapplyRequest(c.Request.Context(), requestID, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request resubmitted for moderation"})
}

func (h *RequestHandler) GetRequestMatches(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	requestID := c.Param("requestId")

	matches, err := h.matchService.ListForRequest(c.Request.Context(), requestID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"total":   len(matches),
	})
}
