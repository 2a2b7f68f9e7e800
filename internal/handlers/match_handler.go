package handlers

import (
	"net/http"

	"supplymatch_backend/internal/middleware"
	"supplymatch_backend/internal/services"
	"supplymatch_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	*BaseHandler
	matchService services.MatchService
}

func NewMatchHandler(base *BaseHandler, matchService services.MatchService) *MatchHandler {
	return &MatchHandler{
		BaseHandler:  base,
		matchService: matchService,
	}
}

func (h *MatchHandler) RegisterRoutes(r *gin.RouterGroup) {
	matches := r.Group("/matches")
	matches.Use(middleware.AuthMiddleware())
	{
		matches.GET("/my", h.GetMyMatches)
		matches.POST("/:matchId/respond", h.Respond)
	}
}

// GetMyMatches lists matches addressed to the caller's supplier profiles.
func (h *MatchHandler) GetMyMatches(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	matches, err := h.matchService.ListForOwner(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"total":   len(matches),
	})
}

// Respond records the supplier's accept/reject decision. Accepting reveals
// the requester's contact details in the response body.
func (h *MatchHandler) Respond(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	matchID := c.Param("matchId")

	var req dto.RespondRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.matchService.Respond(c.Request.Context(), matchID, userID, req.Decision)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
