package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weibaohui/openreceptionist/config"
	"github.com/weibaohui/openreceptionist/internal/eventbus"
	"github.com/weibaohui/openreceptionist/internal/handler"
	"github.com/weibaohui/openreceptionist/internal/pkg/database"
	"github.com/weibaohui/openreceptionist/internal/pkg/directory"
	"github.com/weibaohui/openreceptionist/internal/repository"
	"github.com/weibaohui/openreceptionist/internal/router"
	"github.com/weibaohui/openreceptionist/internal/service"
	"github.com/weibaohui/openreceptionist/internal/session"
	"github.com/weibaohui/openreceptionist/internal/subscriber"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: "release"},
		Directory: config.DirectoryConfig{
			Enabled:    true,
			WebhookURL: "https://crm.example.com/lookup",
			TimeoutMs:  5000,
		},
		Office: config.OfficeConfig{TimeZone: "America/Los_Angeles"},
	}
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()

	db, err := database.InitDB("sqlite", ":memory:")
	require.NoError(t, err)

	sessions := session.NewManager()
	bus := eventbus.NewCallEventBus()

	callRepo := repository.NewCallRepository(db)
	sub := subscriber.NewCallEventSubscriber(sessions, callRepo,
		repository.NewCallNoteRepository(db),
		repository.NewQuoteRequestRepository(db),
		repository.NewMessageRequestRepository(db))
	sub.Register(bus)

	dirClient := directory.NewMockClient(&cfg.Directory)
	callService := service.NewCallService(cfg, sessions, bus, callRepo, dirClient)

	return router.Setup(cfg,
		handler.NewCallHandler(callService),
		handler.NewStreamHandler(callService),
		handler.NewCRMMockHandler(cfg))
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "响应应当是 JSON: %s", w.Body.String())
	}
	return w, resp
}

func TestCallLifecycle(t *testing.T) {
	r := testRouter(t)

	// 建立通话
	w, resp := doJSON(t, r, http.MethodPost, "/api/calls", `{"session_id":"room-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "room-1", resp["session_id"])
	assert.Len(t, resp["tools"], 9)

	// 工具直调：目录查询命中样例客户
	w, resp = doJSON(t, r, http.MethodPost, "/api/calls/room-1/tools/lookup_customer",
		`{"phone_number":"(714) 555-1234"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, resp["result"], "Sarah")

	// 状态摘要
	w, resp = doJSON(t, r, http.MethodGet, "/api/calls/room-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["active"])
	assert.Equal(t, true, resp["lookup_succeeded"])

	// 结束通话
	w, _ = doJSON(t, r, http.MethodPost, "/api/calls/room-1/end", "")
	require.Equal(t, http.StatusOK, w.Code)

	// 重复结束幂等
	w, _ = doJSON(t, r, http.MethodPost, "/api/calls/room-1/end", "")
	assert.Equal(t, http.StatusOK, w.Code)

	// 结束后状态不可查
	w, _ = doJSON(t, r, http.MethodGet, "/api/calls/room-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartGeneratesSessionID(t *testing.T) {
	r := testRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/calls", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, resp["session_id"])
}

func TestInvokeToolOnUnknownCall(t *testing.T) {
	r := testRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/calls/ghost/tools/end_call", "{}")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvokeUnknownTool(t *testing.T) {
	r := testRouter(t)

	doJSON(t, r, http.MethodPost, "/api/calls", `{"session_id":"room-1"}`)
	w, _ := doJSON(t, r, http.MethodPost, "/api/calls/room-1/tools/no_such_tool", "{}")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatWithoutModel(t *testing.T) {
	r := testRouter(t)

	doJSON(t, r, http.MethodPost, "/api/calls", `{"session_id":"room-1"}`)
	// 未注入大模型时对话接口不可用，工具直调不受影响
	w, _ := doJSON(t, r, http.MethodPost, "/api/calls/room-1/chat", `{"input":"hi"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCRMMockLookup(t *testing.T) {
	r := testRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/mock/crm/lookup",
		`{"phone_number":"+17145559876","session_id":"room-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])

	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "data 字段缺失: %v", resp)
	assert.Equal(t, true, data["found"])
	assert.Equal(t, "Daniel", data["first_name"])
}

func TestCRMMockLookupNotFound(t *testing.T) {
	r := testRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/mock/crm/lookup",
		`{"phone_number":"+17145550000","session_id":"room-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])

	data, ok := resp["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, data["found"])
}

func TestCRMMockAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Directory.APIKey = "secret"

	r := gin.New()
	h := handler.NewCRMMockHandler(cfg)
	r.POST("/api/mock/crm/lookup", h.Lookup)

	// 缺 key 拒绝
	req := httptest.NewRequest(http.MethodPost, "/api/mock/crm/lookup",
		strings.NewReader(`{"phone_number":"+17145551234"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 带 key 放行
	req = httptest.NewRequest(http.MethodPost, "/api/mock/crm/lookup",
		strings.NewReader(`{"phone_number":"+17145551234"}`))
	req.Header.Set("X-API-Key", "secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
