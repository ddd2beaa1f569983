package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docuassist/backend/internal/model"
	"github.com/docuassist/backend/internal/service"
)

type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler 创建设置处理器
func NewSettingsHandler(service *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get 读取当前模型设置
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Load())
}

// Update 部分更新模型设置
func (h *SettingsHandler) Update(c *gin.Context) {
	var req service.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.service.Update(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// ToolCapableModels 返回已知支持原生 tool calling 的模型清单
func (h *SettingsHandler) ToolCapableModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": service.ToolCapableModels})
}

// TestConnection 用给定设置检查模型服务连通性
func (h *SettingsHandler) TestConnection(c *gin.Context) {
	var candidate model.LLMSettings
	if err := c.ShouldBindJSON(&candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.TestConnection(c.Request.Context(), &candidate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
