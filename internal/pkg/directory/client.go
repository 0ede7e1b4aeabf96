package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/config"
	"github.com/weibaohui/openreceptionist/internal/pkg/pii"
)

// Client 客户目录查询能力
// 查询失败必须降级为未命中，绝不能阻塞或中断通话
type Client interface {
	// IsEnabled 集成是否可用：开关打开且 webhook 地址非空
	IsEnabled() bool
	// Lookup 按电话号码查询客户，响应总是 well-formed
	Lookup(ctx context.Context, req *LookupRequest) (*LookupResponse, error)
}

// New 按配置选择实现：mock 数据表或真实 webhook 客户端
// 配置校验失败只告警，不阻止构造（宽松失败，保证话务不中断）
func New(cfg *config.Config) Client {
	if errs := ValidateConfig(&cfg.Directory); len(errs) > 0 {
		for _, e := range errs {
			klog.Warningf("[Directory] 配置异常: %v", e)
		}
	}

	if cfg.Directory.UseMockData {
		return NewMockClient(&cfg.Directory)
	}
	return NewWebhookClient(&cfg.Directory)
}

// newCorrelationID 每次查询生成唯一追踪 id
// 格式：固定前缀 + 时间分量 + 随机后缀
func newCorrelationID() string {
	return fmt.Sprintf("lookup_%d_%s", time.Now().UnixNano(), uuid.NewString()[:8])
}

func isEnabled(cfg *config.DirectoryConfig) bool {
	return cfg.Enabled && cfg.WebhookURL != ""
}

// disabledResponse 集成关闭时的降级响应：成功但未命中
func disabledResponse(correlationID string) *LookupResponse {
	return &LookupResponse{
		Success:           true,
		Data:              &CustomerRecord{Found: false},
		ResponseTimestamp: time.Now(),
		CorrelationID:     correlationID,
	}
}

func notFoundResponse(correlationID string) *LookupResponse {
	return &LookupResponse{
		Success:           true,
		Data:              &CustomerRecord{Found: false},
		ResponseTimestamp: time.Now(),
		CorrelationID:     correlationID,
	}
}

// clampTimeout 超时毫秒数收敛到合法区间
func clampTimeout(timeoutMs int) time.Duration {
	if timeoutMs < 1000 {
		timeoutMs = 1000
	}
	if timeoutMs > 30000 {
		timeoutMs = 30000
	}
	return time.Duration(timeoutMs) * time.Millisecond
}

// WebhookClient 真实 CRM webhook 客户端
// POST webhook_url，响应 body 即 LookupResponse；失败收口为固定错误码
type WebhookClient struct {
	cfg        *config.DirectoryConfig
	httpClient *http.Client
}

var _ Client = (*WebhookClient)(nil)

// NewWebhookClient 创建 webhook 客户端，超时受配置约束
func NewWebhookClient(cfg *config.DirectoryConfig) *WebhookClient {
	return &WebhookClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: clampTimeout(cfg.TimeoutMs),
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
			},
		},
	}
}

func (c *WebhookClient) IsEnabled() bool {
	return isEnabled(c.cfg)
}

// Lookup 实现 Client 接口
// 任何内部错误都在此边界收口，不向上抛出
func (c *WebhookClient) Lookup(ctx context.Context, req *LookupRequest) (resp *LookupResponse, err error) {
	correlationID := newCorrelationID()

	defer func() {
		if r := recover(); r != nil {
			klog.Errorf("[Directory] webhook 查询异常: correlationID=%s, panic=%v", correlationID, r)
			resp = &LookupResponse{
				Success:           false,
				Error:             fmt.Sprintf("internal error: %v", r),
				ErrorCode:         ErrCodeServerError,
				ResponseTimestamp: time.Now(),
				CorrelationID:     correlationID,
			}
			err = nil
		}
	}()

	if !c.IsEnabled() {
		klog.V(6).Infof("[Directory] 集成未启用，返回未命中: correlationID=%s", correlationID)
		return disabledResponse(correlationID), nil
	}

	pii.Log(fmt.Sprintf("[Directory] webhook 查询请求 correlationID=%s", correlationID), req)

	body, err := json.Marshal(req)
	if err != nil {
		return errorResponse(correlationID, ErrCodeServerError, fmt.Sprintf("marshal request: %v", err)), nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return errorResponse(correlationID, ErrCodeServerError, fmt.Sprintf("build request: %v", err)), nil
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("X-API-Key", c.cfg.APIKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		code := ErrCodeServerError
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			code = ErrCodeTimeout
		}
		klog.Errorf("[Directory] webhook 请求失败: correlationID=%s, errorCode=%s, err=%v", correlationID, code, err)
		return errorResponse(correlationID, code, err.Error()), nil
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		code := mapStatusCode(httpResp.StatusCode)
		klog.Errorf("[Directory] webhook 非 200 响应: correlationID=%s, status=%d, errorCode=%s",
			correlationID, httpResp.StatusCode, code)
		if code == ErrCodeNotFound {
			return notFoundResponse(correlationID), nil
		}
		return errorResponse(correlationID, code, fmt.Sprintf("webhook returned status %d", httpResp.StatusCode)), nil
	}

	var lookupResp LookupResponse
	if err := json.NewDecoder(io.LimitReader(httpResp.Body, maxResponseBytes)).Decode(&lookupResp); err != nil {
		klog.Errorf("[Directory] webhook 响应解析失败: correlationID=%s, err=%v", correlationID, err)
		return errorResponse(correlationID, ErrCodeServerError, fmt.Sprintf("decode response: %v", err)), nil
	}

	if lookupResp.CorrelationID == "" {
		lookupResp.CorrelationID = correlationID
	}
	if lookupResp.ResponseTimestamp.IsZero() {
		lookupResp.ResponseTimestamp = time.Now()
	}
	// 成功响应必须带 Data，缺失按未命中处理
	if lookupResp.Success && lookupResp.Data == nil {
		lookupResp.Data = &CustomerRecord{Found: false}
	}

	klog.V(6).Infof("[Directory] webhook 查询完成: correlationID=%s, success=%t, found=%t",
		correlationID, lookupResp.Success, lookupResp.Data != nil && lookupResp.Data.Found)
	return &lookupResp, nil
}

// 响应体上限，防御异常的 CRM 返回
const maxResponseBytes = 1 << 20

func errorResponse(correlationID, code, message string) *LookupResponse {
	return &LookupResponse{
		Success:           false,
		Error:             message,
		ErrorCode:         code,
		ResponseTimestamp: time.Now(),
		CorrelationID:     correlationID,
	}
}

// mapStatusCode HTTP 状态映射到固定错误码词表
func mapStatusCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrCodeAuthFailed
	case http.StatusTooManyRequests:
		return ErrCodeRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrCodeTimeout
	default:
		return ErrCodeServerError
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
