package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weibaohui/openreceptionist/internal/service"
)

type CallHandler struct {
	service *service.CallService
}

func NewCallHandler(service *service.CallService) *CallHandler {
	return &CallHandler{
		service: service,
	}
}

// Start 建立一通电话
// session_id 可选：语音平台带房间号时传入，否则自动生成
func (h *CallHandler) Start(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	// 空请求体等同于不指定 session_id
	_ = c.ShouldBindJSON(&req)

	sessionID, err := h.service.Start(c.Request.Context(), req.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tools, _ := h.service.Tools(sessionID)
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"tools":      tools,
	})
}

// End 结束一通电话，触发落库与会话销毁
func (h *CallHandler) End(c *gin.Context) {
	sessionID := c.Param("id")

	if err := h.service.End(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "call ended"})
}

// Get 查看一通电话的状态摘要
func (h *CallHandler) Get(c *gin.Context) {
	status, err := h.service.Status(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "call not found"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// InvokeTool 在通话内直接调用一个工具
// 请求体原样作为工具参数转发
func (h *CallHandler) InvokeTool(c *gin.Context) {
	sessionID := c.Param("id")
	toolName := c.Param("name")

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.service.InvokeTool(c.Request.Context(), sessionID, toolName, string(body))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tool":   toolName,
		"result": result,
	})
}

// Chat 把来电人的一句话交给前台 Agent
func (h *CallHandler) Chat(c *gin.Context) {
	sessionID := c.Param("id")

	var req struct {
		Input string `json:"input" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "input is required"})
		return
	}

	reply, err := h.service.Chat(c.Request.Context(), sessionID, req.Input)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
