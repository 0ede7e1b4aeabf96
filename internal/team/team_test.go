package team

import (
	"reflect"
	"testing"
)

func TestExactlyOneLastResort(t *testing.T) {
	count := 0
	for _, m := range Members {
		if m.IsLastResort {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 last-resort member, got %d", count)
	}
	if LastResort().Role != RolePresident {
		t.Errorf("last resort should be the president, got %s", LastResort().Role)
	}
}

func TestFind_CaseInsensitive(t *testing.T) {
	tests := []struct {
		query string
		want  string
		found bool
	}{
		{"Melissa", "Melissa", true},
		{"melissa", "Melissa", true},
		{"BRYCE", "Bryce", true},
		{" glen ", "Glen", true},
		{"Nobody", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		m, ok := Find(tt.query)
		if ok != tt.found {
			t.Errorf("Find(%q) found = %v, want %v", tt.query, ok, tt.found)
			continue
		}
		if ok && m.Name != tt.want {
			t.Errorf("Find(%q) = %s, want %s", tt.query, m.Name, tt.want)
		}
	}
}

func TestRoutingPolicy(t *testing.T) {
	if got := GeneralRouting(); !reflect.DeepEqual(got, []string{"Melissa", "Riley", "Cherry"}) {
		t.Errorf("GeneralRouting = %v", got)
	}
	if got := AgentRouting(); !reflect.DeepEqual(got, []string{"Bryce", "Glen"}) {
		t.Errorf("AgentRouting = %v", got)
	}
}

func TestRoutingOrder_LastResortIsLast(t *testing.T) {
	for _, agentMatter := range []bool{true, false} {
		order := RoutingOrder(agentMatter)
		if len(order) != len(Members) {
			t.Fatalf("routing order should cover all members, got %v", order)
		}
		if order[len(order)-1] != LastResort().Name {
			t.Errorf("last resort must come last, got %v", order)
		}
		// 兜底成员之前必须穷尽其余成员
		for _, name := range order[:len(order)-1] {
			m, ok := Find(name)
			if !ok || m.IsLastResort {
				t.Errorf("non-last-resort section contains %q", name)
			}
		}
	}
}
