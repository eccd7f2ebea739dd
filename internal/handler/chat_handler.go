package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docbrain/docbrain/internal/ai"
	"github.com/docbrain/docbrain/internal/service"
)

type ChatHandler struct {
	chat *service.Chat
}

func NewChatHandler(chat *service.Chat) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	Question            string       `json:"question"`
	ConversationHistory []ai.Message `json:"conversation_history"`
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	answer, err := h.chat.Answer(c.Request.Context(), req.Question, req.ConversationHistory)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": answer})
}
