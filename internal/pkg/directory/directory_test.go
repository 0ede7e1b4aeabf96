package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/weibaohui/openreceptionist/config"
)

func mockCfg() *config.DirectoryConfig {
	return &config.DirectoryConfig{
		Enabled:     true,
		WebhookURL:  "https://crm.example.com/webhook/lookup",
		TimeoutMs:   5000,
		UseMockData: true,
	}
}

func lookupReq(phone string) *LookupRequest {
	return &LookupRequest{
		PhoneNumber: phone,
		Timestamp:   time.Now(),
		SessionID:   "room-test-1",
	}
}

func TestMockLookup_FixtureVariants(t *testing.T) {
	c := NewMockClient(mockCfg())

	// 同一个号码的各种格式都应命中同一条记录
	variants := []string{
		"7145551234",
		"(714) 555-1234",
		"714-555-1234",
		"+17145551234",
		"1 714 555 1234",
	}

	for _, v := range variants {
		t.Run(v, func(t *testing.T) {
			resp, err := c.Lookup(context.Background(), lookupReq(v))
			if err != nil {
				t.Fatalf("Lookup(%q): %v", v, err)
			}
			if !resp.Success {
				t.Fatalf("Lookup(%q) success=false: %s", v, resp.Error)
			}
			if resp.Data == nil || !resp.Data.Found {
				t.Fatalf("Lookup(%q) should find fixture customer", v)
			}
			if resp.Data.CustomerID != "CUST-10021" {
				t.Errorf("CustomerID = %s, want CUST-10021", resp.Data.CustomerID)
			}
			if len(resp.Data.Policies) != 2 {
				t.Errorf("policies = %d, want 2", len(resp.Data.Policies))
			}
		})
	}
}

func TestMockLookup_NotFound(t *testing.T) {
	c := NewMockClient(mockCfg())

	resp, err := c.Lookup(context.Background(), lookupReq("(310) 555-0000"))
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !resp.Success {
		t.Fatalf("not-found must still be success=true, got %s", resp.Error)
	}
	if resp.Data == nil || resp.Data.Found {
		t.Errorf("expected found=false, got %+v", resp.Data)
	}
}

func TestLookup_DisabledAlwaysNotFound(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.DirectoryConfig
	}{
		{"switch off", &config.DirectoryConfig{Enabled: false, WebhookURL: "https://x.example.com", TimeoutMs: 5000, UseMockData: true}},
		{"empty url", &config.DirectoryConfig{Enabled: true, WebhookURL: "", TimeoutMs: 5000, UseMockData: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewMockClient(tt.cfg)
			if c.IsEnabled() {
				t.Fatal("client should report disabled")
			}
			// 关闭状态下即使是 fixture 号码也返回未命中
			resp, err := c.Lookup(context.Background(), lookupReq("7145551234"))
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if !resp.Success || resp.Data == nil || resp.Data.Found {
				t.Errorf("disabled lookup should be success=true found=false, got %+v", resp)
			}
		})
	}
}

func webhookClientFor(serverURL string) *WebhookClient {
	return NewWebhookClient(&config.DirectoryConfig{
		Enabled:    true,
		WebhookURL: serverURL,
		APIKey:     "test-key",
		TimeoutMs:  1000,
	})
}

func TestWebhookClient_Hit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req LookupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PhoneNumber == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(LookupResponse{
			Success: true,
			Data: &CustomerRecord{
				Found:      true,
				CustomerID: "CUST-99001",
				FirstName:  "Avery",
			},
		})
	}))
	defer srv.Close()

	resp, err := webhookClientFor(srv.URL).Lookup(context.Background(), lookupReq("7145551234"))
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !resp.Success || resp.Data == nil || !resp.Data.Found {
		t.Fatalf("webhook hit expected, got %+v", resp)
	}
	if resp.Data.CustomerID != "CUST-99001" {
		t.Errorf("customer id = %s", resp.Data.CustomerID)
	}
	// 对端没回 correlation id 时本地补上
	if resp.CorrelationID == "" {
		t.Error("correlation id must be filled in")
	}
}

func TestWebhookClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantSuccess bool
		wantCode    string
	}{
		{"not found 按正常未命中", http.StatusNotFound, true, ""},
		{"auth failed", http.StatusUnauthorized, false, ErrCodeAuthFailed},
		{"rate limited", http.StatusTooManyRequests, false, ErrCodeRateLimited},
		{"gateway timeout", http.StatusGatewayTimeout, false, ErrCodeTimeout},
		{"server error", http.StatusInternalServerError, false, ErrCodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			resp, err := webhookClientFor(srv.URL).Lookup(context.Background(), lookupReq("7145551234"))
			if err != nil {
				t.Fatalf("Lookup 不应返回 error: %v", err)
			}
			if resp.Success != tt.wantSuccess {
				t.Errorf("success = %t, want %t", resp.Success, tt.wantSuccess)
			}
			if tt.wantSuccess {
				if resp.Data == nil || resp.Data.Found {
					t.Errorf("应当是正常未命中: %+v", resp)
				}
			} else if resp.ErrorCode != tt.wantCode {
				t.Errorf("error code = %s, want %s", resp.ErrorCode, tt.wantCode)
			}
		})
	}
}

func TestWebhookClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1500 * time.Millisecond)
	}))
	defer srv.Close()

	resp, err := webhookClientFor(srv.URL).Lookup(context.Background(), lookupReq("7145551234"))
	if err != nil {
		t.Fatalf("超时不应返回 error: %v", err)
	}
	if resp.Success || resp.ErrorCode != ErrCodeTimeout {
		t.Errorf("超时应当映射为 TIMEOUT: %+v", resp)
	}
}

func TestWebhookClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	resp, err := webhookClientFor(srv.URL).Lookup(context.Background(), lookupReq("7145551234"))
	if err != nil {
		t.Fatalf("解析失败不应返回 error: %v", err)
	}
	if resp.Success || resp.ErrorCode != ErrCodeServerError {
		t.Errorf("非法响应应当映射为 SERVER_ERROR: %+v", resp)
	}
}

func TestCorrelationIDs_Distinct(t *testing.T) {
	c := NewMockClient(mockCfg())

	r1, _ := c.Lookup(context.Background(), lookupReq("7145551234"))
	r2, _ := c.Lookup(context.Background(), lookupReq("7145551234"))

	if r1.CorrelationID == "" || r2.CorrelationID == "" {
		t.Fatal("correlation id must be set")
	}
	if r1.CorrelationID == r2.CorrelationID {
		t.Errorf("sequential lookups share correlation id: %s", r1.CorrelationID)
	}
	if !strings.HasPrefix(r1.CorrelationID, "lookup_") {
		t.Errorf("correlation id missing prefix: %s", r1.CorrelationID)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.DirectoryConfig
		wantErrs int
	}{
		{
			"valid",
			config.DirectoryConfig{Enabled: true, WebhookURL: "https://crm.example.com/hook", TimeoutMs: 5000},
			0,
		},
		{
			"defaults are valid",
			config.DirectoryConfig{TimeoutMs: 5000},
			0,
		},
		{
			"enabled without url",
			config.DirectoryConfig{Enabled: true, TimeoutMs: 5000},
			1,
		},
		{
			"http scheme rejected",
			config.DirectoryConfig{Enabled: true, WebhookURL: "http://crm.example.com/hook", TimeoutMs: 5000},
			1,
		},
		{
			"timeout too small",
			config.DirectoryConfig{Enabled: true, WebhookURL: "https://crm.example.com/hook", TimeoutMs: 500},
			1,
		},
		{
			"timeout too large",
			config.DirectoryConfig{Enabled: true, WebhookURL: "https://crm.example.com/hook", TimeoutMs: 60000},
			1,
		},
		{
			"errors accumulate",
			config.DirectoryConfig{Enabled: true, WebhookURL: "http://bad", TimeoutMs: 100},
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateConfig(&tt.cfg)
			if len(errs) != tt.wantErrs {
				t.Errorf("got %d errors %v, want %d", len(errs), errs, tt.wantErrs)
			}
		})
	}
}

func TestClampTimeout(t *testing.T) {
	tests := []struct {
		in   int
		want time.Duration
	}{
		{5000, 5 * time.Second},
		{500, time.Second},
		{60000, 30 * time.Second},
	}
	for _, tt := range tests {
		if got := clampTimeout(tt.in); got != tt.want {
			t.Errorf("clampTimeout(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
