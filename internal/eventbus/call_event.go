package eventbus

import "time"

type CallEventType string

const (
	// CallEventStarted 通话建立，会话已创建
	CallEventStarted CallEventType = "CallStarted"
	// CallEventEnded 通话结束信号，触发会话落库与销毁
	CallEventEnded CallEventType = "CallEnded"
)

type CallEvent struct {
	Type      CallEventType
	SessionID string
	At        time.Time
}

type CallEventHandler = Handler[CallEvent]
type CallEventBus = Bus[CallEventType, CallEvent]

func NewCallEventBus() *CallEventBus {
	return NewBus[CallEventType, CallEvent]()
}
