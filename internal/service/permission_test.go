package service

import (
	"testing"

	"github.com/sakif/snippetbin/internal/model"
)

// CanModify is deliberately a pure function — these tests need no database,
// no HTTP, no service. Just (requester, resource) in, bool out.
func TestCanModify(t *testing.T) {
	owned := &model.Snippet{ID: "s1", OwnerID: "alice"}

	tests := []struct {
		name      string
		requester string
		snippet   *model.Snippet
		want      bool
	}{
		{name: "owner may modify", requester: "alice", snippet: owned, want: true},
		{name: "non-owner may not", requester: "bob", snippet: owned, want: false},
		{name: "anonymous may not", requester: "", snippet: owned, want: false},
		{name: "nil snippet", requester: "alice", snippet: nil, want: false},
		{
			name:      "empty owner never matches empty requester",
			requester: "",
			snippet:   &model.Snippet{ID: "s2", OwnerID: ""},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModify(tt.requester, tt.snippet); got != tt.want {
				t.Errorf("CanModify(%q, %+v) = %v, want %v", tt.requester, tt.snippet, got, tt.want)
			}
		})
	}
}
