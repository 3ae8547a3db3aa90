package public

import (
	"errors"

	"github.com/modeva-next/internal/http/response"
	"github.com/modeva-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AssistantChatRequest 导购助手提问请求
type AssistantChatRequest struct {
	Question string `json:"question" binding:"required"`
}

// AssistantChat 导购助手问答
func (h *Handler) AssistantChat(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	var req AssistantChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	answer, err := h.AssistantService.Chat(c.Request.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssistantDisabled):
			respondError(c, response.CodeBadRequest, "导购助手未启用", nil)
		default:
			respondError(c, response.CodeInternal, "导购助手暂时不可用", err)
		}
		return
	}
	response.Success(c, gin.H{"answer": answer})
}
