package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/config"
	"github.com/weibaohui/openreceptionist/internal/pkg/directory"
)

// CRMMockHandler 本地 CRM webhook 模拟端点
// 把 WebhookURL 指到这里即可端到端联调目录查询，数据来自内置样例
type CRMMockHandler struct {
	client directory.Client
	apiKey string
}

func NewCRMMockHandler(cfg *config.Config) *CRMMockHandler {
	mockCfg := cfg.Directory
	mockCfg.Enabled = true
	if mockCfg.WebhookURL == "" {
		mockCfg.WebhookURL = "https://localhost/mock"
	}
	return &CRMMockHandler{
		client: directory.NewMockClient(&mockCfg),
		apiKey: cfg.Directory.APIKey,
	}
}

// Lookup 处理目录查询
// 配置了 api_key 时要求请求带同样的 X-API-Key
func (h *CRMMockHandler) Lookup(c *gin.Context) {
	if h.apiKey != "" && c.GetHeader("X-API-Key") != h.apiKey {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success":    false,
			"error":      "invalid api key",
			"error_code": directory.ErrCodeAuthFailed,
		})
		return
	}

	var req directory.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":    false,
			"error":      "invalid request body",
			"error_code": directory.ErrCodeServerError,
		})
		return
	}

	resp, err := h.client.Lookup(c.Request.Context(), &req)
	if err != nil {
		klog.Errorf("[CRMMockHandler] 查询失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":    false,
			"error":      err.Error(),
			"error_code": directory.ErrCodeServerError,
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}
