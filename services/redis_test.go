package services

import (
	"testing"

	"github.com/dev-quest/quest_api/shared"
)

func TestEncodeCacheValue(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"string passthrough", "hello", "hello"},
		{"bytes passthrough", []byte(`{"raw":true}`), `{"raw":true}`},
		{"struct via shared codec", struct {
			Rank int    `json:"rank"`
			Name string `json:"name"`
		}{1, "codewarrior"}, `{"rank":1,"name":"codewarrior"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeCacheValue(tt.value)
			if err != nil {
				t.Fatalf("encodeCacheValue(%v) error: %v", tt.value, err)
			}
			if string(got) != tt.want {
				t.Errorf("encodeCacheValue(%v) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestEncodeCacheValueRoundTrip(t *testing.T) {
	type entry struct {
		UserID string `json:"userId"`
		XP     int    `json:"xp"`
	}

	data, err := encodeCacheValue(entry{UserID: "u1", XP: 250})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var got entry
	if err := shared.JSONUnmarshal(data, &got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.UserID != "u1" || got.XP != 250 {
		t.Errorf("round trip = %+v, want {u1 250}", got)
	}
}
