package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/docuassist/backend/internal/service"
)

// ChatProcessor 对话编排器接口，测试时可替换
type ChatProcessor interface {
	ProcessMessage(ctx context.Context, sessionID, message string) *service.ChatResult
}

type ChatHandler struct {
	chat ChatProcessor
}

// NewChatHandler 创建对话处理器
func NewChatHandler(chat ChatProcessor) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// ChatMessageRequest 入站聊天消息
type ChatMessageRequest struct {
	SessionID  string         `json:"session_id"`
	Message    string         `json:"message" binding:"required"`
	TemplateID string         `json:"template_id"`
	Variables  map[string]any `json:"variables"`
}

// ChatMessageResponse 单轮对话响应
type ChatMessageResponse struct {
	SessionID string         `json:"session_id"`
	Variables map[string]any `json:"variables,omitempty"`
	*service.ChatResult
}

// SendMessage 处理一条聊天消息
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 未带 session_id 时生成一个，响应里带回
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result := h.chat.ProcessMessage(c.Request.Context(), sessionID, req.Message)

	c.JSON(http.StatusOK, ChatMessageResponse{
		SessionID:  sessionID,
		Variables:  req.Variables,
		ChatResult: result,
	})
}
