package domain

import "testing"

func TestCanReply(t *testing.T) {
	cases := []struct {
		name  string
		token string
		want  bool
	}{
		{"normal token", "a1b2c3d4e5f6", true},
		{"empty token", "", false},
		{"sentinel token", "00000000000000000000000000000000", false},
		{"token with zeros inside", "a000000000000000000000000000000b", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := Event{Kind: EventMessage, ReplyToken: tc.token}
			if got := ev.CanReply(); got != tc.want {
				t.Errorf("CanReply(%q) = %v, want %v", tc.token, got, tc.want)
			}
		})
	}
}

func TestFromGroup(t *testing.T) {
	grouped := Event{Kind: EventJoin, GroupID: "G1"}
	if !grouped.FromGroup() {
		t.Error("Expected FromGroup to be true")
	}

	direct := Event{Kind: EventMessage, UserID: "U1"}
	if direct.FromGroup() {
		t.Error("Expected FromGroup to be false for user source")
	}
}
