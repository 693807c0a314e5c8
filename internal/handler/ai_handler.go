package handler

import (
	"context"
	"net/http"

	"rentkar/internal/middleware"
	"rentkar/internal/service"
	"rentkar/pkg/response"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	aiService service.AIService
}

func NewAIHandler(aiService service.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AIHandler) RegisterRoutes(router *gin.RouterGroup) {
	ai := router.Group("/api/ai", middleware.RequireAuth())
	{
		ai.POST("/generate-title", h.GenerateTitle)
		ai.POST("/generate-description", h.GenerateDescription)
		ai.GET("/status", h.GetStatus)
	}
}

// GenerateTitle produces listing title copy for an item
// @Summary      Generate title
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.AIGenerationDTO  true  "Item facts"
// @Success      200      {object}  response.Response{data=service.AIGenerationResponse}
// @Failure      429      {object}  response.Response
// @Router       /api/ai/generate-title [post]
func (h *AIHandler) GenerateTitle(c *gin.Context) {
	h.generate(c, h.aiService.GenerateTitle)
}

// GenerateDescription produces listing description copy for an item
// @Summary      Generate description
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.AIGenerationDTO  true  "Item facts"
// @Success      200      {object}  response.Response{data=service.AIGenerationResponse}
// @Failure      429      {object}  response.Response
// @Router       /api/ai/generate-description [post]
func (h *AIHandler) GenerateDescription(c *gin.Context) {
	h.generate(c, h.aiService.GenerateDescription)
}

// GetStatus reports AI availability and the caller's remaining quota
// @Summary      AI status
// @Tags         ai
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /api/ai/status [get]
func (h *AIHandler) GetStatus(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"available":          h.aiService.IsAvailable(),
		"remaining_requests": h.aiService.RemainingRequests(userID.String()),
	}))
}

type generateFunc func(ctx context.Context, req service.AIGenerationDTO, userID string) (service.AIGenerationResponse, error)

func (h *AIHandler) generate(c *gin.Context, fn generateFunc) {
	userID, _ := middleware.CurrentUserID(c)

	var dto service.AIGenerationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := fn(c.Request.Context(), dto, userID.String())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
