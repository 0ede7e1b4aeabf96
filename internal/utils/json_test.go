package utils

import "testing"

func TestToJSON(t *testing.T) {
	got := ToJSON(map[string]any{"is_open": true})
	if got != `{"is_open":true}` {
		t.Fatalf("ToJSON = %s", got)
	}
}

func TestToJSONUnmarshalable(t *testing.T) {
	if got := ToJSON(make(chan int)); got != "" {
		t.Fatalf("expected empty string for unmarshalable value, got %s", got)
	}
}
