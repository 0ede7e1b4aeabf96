package session

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestGetOrCreate_LazyAndStable(t *testing.T) {
	m := NewManager()

	s1 := m.GetOrCreate("room-a")
	if s1 == nil || s1.ID != "room-a" {
		t.Fatalf("GetOrCreate returned %+v", s1)
	}

	s2 := m.GetOrCreate("room-a")
	if s1 != s2 {
		t.Error("same id should return the same session")
	}
	if m.Count() != 1 {
		t.Errorf("Count = %d, want 1", m.Count())
	}
}

func TestSessionIsolation(t *testing.T) {
	m := NewManager()

	a := m.GetOrCreate("room-a")
	b := m.GetOrCreate("room-b")

	a.AddCallNote(CallNote{Timestamp: time.Now(), CallerName: "John Smith", Phone: "+17145551234", Reason: ReasonClaim, Urgency: UrgencyHigh})
	a.Customer.LookupAttempted = true

	// A 的写入不得影响 B
	if len(b.CallNotes) != 0 {
		t.Errorf("session b picked up session a's notes: %d", len(b.CallNotes))
	}
	if b.Customer.LookupAttempted {
		t.Error("session b picked up session a's customer context")
	}

	// 删除 A 不影响 B
	m.Delete("room-a")
	if _, ok := m.Get("room-a"); ok {
		t.Error("room-a should be gone")
	}
	got, ok := m.Get("room-b")
	if !ok || len(got.CallNotes) != 0 {
		t.Error("room-b affected by deleting room-a")
	}
}

func TestDelete_IdempotentAndFreshOnReuse(t *testing.T) {
	m := NewManager()

	s := m.GetOrCreate("room-a")
	s.AddQuoteRequest(QuoteRequest{Timestamp: time.Now(), CallerName: "Jane Doe", Phone: "+17145550000", InsuranceTypes: []string{"auto"}, ContactMethod: ContactPhone})

	m.Delete("room-a")
	m.Delete("room-a") // 重复删除是 no-op
	m.Delete("never-existed")

	// 复用同一 id 必须拿到全新状态
	fresh := m.GetOrCreate("room-a")
	if len(fresh.QuoteRequests) != 0 {
		t.Errorf("reused session id carries stale data: %d quote requests", len(fresh.QuoteRequests))
	}
	if fresh.Customer.LookupAttempted || fresh.Customer.LookupSuccessful {
		t.Error("reused session id carries stale customer context")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("room-%d", n%10)
			m.GetOrCreate(id)
			m.Get(id)
			if n%3 == 0 {
				m.Delete(id)
			}
		}(i)
	}
	wg.Wait()

	// 到这里没有竞态 panic 即为通过，条目数不超过并发的 id 数
	if m.Count() > 10 {
		t.Errorf("Count = %d, want <= 10", m.Count())
	}
}
