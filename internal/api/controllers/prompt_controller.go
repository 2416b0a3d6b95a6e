package controllers

import (
	"net/http"

	"aitravel/internal/models/request_models"
	"aitravel/internal/models/response_models"
	"aitravel/internal/services"
	"aitravel/pkg/middleware"
	"aitravel/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PromptController struct {
	chatService services.ChatServiceInterface
}

func NewPromptController(chatService services.ChatServiceInterface) *PromptController {
	return &PromptController{
		chatService: chatService,
	}
}

// Chat godoc
// @Summary Talk to the travel assistant
// @Description Answers one message and, when the model proposes one, returns a reconciled trip plan.
// @Description The response is not wrapped in the usual envelope.
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body request_models.ChatRequest true "Message, optional current plan and history"
// @Success 200 {object} response_models.ChatResponse
// @Failure 400 {object} response_models.ChatResponse
// @Failure 401 {object} response_models.ChatResponse
// @Failure 429 {object} response_models.ChatResponse
// @Failure 500 {object} response_models.ChatResponse
// @Router /chat [post]
func (p *PromptController) Chat(c *gin.Context) {
	var req request_models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response_models.ChatResponse{
			Success: false,
			Error:   "Invalid request format",
		})
		return
	}

	resp, err := p.chatService.Chat(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		if resp == nil {
			resp = &response_models.ChatResponse{
				Success:      false,
				ResponseText: services.FallbackResponseText,
				Error:        err.Error(),
			}
		}
		c.JSON(utils.StatusForError(err), resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LastPlan godoc
// @Summary Most recent plan generated for me
// @Description tripPlan is null when nothing was generated recently
// @Tags Chat
// @Produce json
// @Success 200 {object} utils.APIResponse{data=response_models.LastPlanResponse}
// @Failure 401 {object} utils.APIResponse
// @Router /chat/last [get]
func (p *PromptController) LastPlan(c *gin.Context) {
	plan, err := p.chatService.LastPlan(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.LastPlanResponse{TripPlan: plan}, "Last plan fetched")
}

// ForgetLastPlan godoc
// @Summary Drop the remembered plan
// @Tags Chat
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /chat/last [delete]
func (p *PromptController) ForgetLastPlan(c *gin.Context) {
	if err := p.chatService.ForgetLastPlan(c.Request.Context(), c.GetString(middleware.ContextUserID)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Last plan cleared")
}
