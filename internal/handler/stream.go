package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/internal/service"
)

// StreamHandler 语音管道的 WebSocket 桥
// 语音网关连上后用 JSON 帧调工具或对话，一条连接对应一通电话
type StreamHandler struct {
	service  *service.CallService
	upgrader websocket.Upgrader
}

// streamFrame 双向通用帧
// 入站 type: tool_call / chat；出站 type: tool_result / chat_result / error
type streamFrame struct {
	Type      string `json:"type"`
	Tool      string `json:"tool,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	Input     string `json:"input,omitempty"`
	Result    string `json:"result,omitempty"`
	Reply     string `json:"reply,omitempty"`
	Error     string `json:"error,omitempty"`
}

func NewStreamHandler(service *service.CallService) *StreamHandler {
	return &StreamHandler{
		service: service,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream 升级连接并进入帧循环
// 通话必须先通过 Start 建立，否则直接拒绝
func (h *StreamHandler) Stream(c *gin.Context) {
	sessionID := c.Param("id")

	if _, err := h.service.Tools(sessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "call not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		klog.Errorf("[StreamHandler] websocket 升级失败: sessionID=%s, err=%v", sessionID, err)
		return
	}
	defer conn.Close()

	klog.V(6).Infof("[StreamHandler] 语音桥建立: sessionID=%s", sessionID)

	// 单连接写锁：工具调用并发返回时保证帧完整
	var writeMu sync.Mutex
	send := func(frame streamFrame) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(frame); err != nil {
			klog.Errorf("[StreamHandler] 写帧失败: sessionID=%s, err=%v", sessionID, err)
		}
	}

	for {
		var frame streamFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				klog.Warningf("[StreamHandler] 连接异常断开: sessionID=%s, err=%v", sessionID, err)
			} else {
				klog.V(6).Infof("[StreamHandler] 语音桥关闭: sessionID=%s", sessionID)
			}
			return
		}

		switch frame.Type {
		case "tool_call":
			result, err := h.service.InvokeTool(c.Request.Context(), sessionID, frame.Tool, frame.Arguments)
			if err != nil {
				send(streamFrame{Type: "error", Tool: frame.Tool, Error: err.Error()})
				continue
			}
			send(streamFrame{Type: "tool_result", Tool: frame.Tool, Result: result})

		case "chat":
			reply, err := h.service.Chat(c.Request.Context(), sessionID, frame.Input)
			if err != nil {
				send(streamFrame{Type: "error", Error: err.Error()})
				continue
			}
			send(streamFrame{Type: "chat_result", Reply: reply})

		default:
			send(streamFrame{Type: "error", Error: "unknown frame type: " + frame.Type})
		}
	}
}
