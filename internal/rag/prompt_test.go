package rag

import (
	"strings"
	"testing"

	"github.com/vokinneberg/rag-chat-assistant/internal/types"
)

func TestFormatSources(t *testing.T) {
	tests := []struct {
		name    string
		results []types.SearchResult
		want    string
	}{
		{
			name:    "no results",
			results: nil,
			want:    "",
		},
		{
			name:    "title preferred over url",
			results: []types.SearchResult{{URL: "https://x", Content: "y", Title: "Z"}},
			want:    "Source: Z\nContent: y",
		},
		{
			name:    "url when title is missing",
			results: []types.SearchResult{{URL: "https://x", Content: "y"}},
			want:    "Source: https://x\nContent: y",
		},
		{
			name: "blank line between results",
			results: []types.SearchResult{
				{URL: "https://a", Content: "one", Title: "A"},
				{URL: "https://b", Content: "two"},
				{URL: "https://c", Content: "three", Title: "C"},
			},
			want: "Source: A\nContent: one\n\nSource: https://b\nContent: two\n\nSource: C\nContent: three",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatSources(tt.results); got != tt.want {
				t.Errorf("formatSources() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	withResults := buildSystemPrompt([]types.SearchResult{{URL: "https://x", Content: "y", Title: "Z"}}, "none found")
	if !strings.HasPrefix(withResults, systemPreamble) {
		t.Errorf("buildSystemPrompt() does not start with the preamble")
	}
	if !strings.Contains(withResults, "Source: Z\nContent: y") {
		t.Errorf("buildSystemPrompt() = %q, want source block", withResults)
	}
	if strings.Contains(withResults, "none found") {
		t.Errorf("buildSystemPrompt() contains placeholder despite results")
	}

	empty := buildSystemPrompt(nil, "none found")
	if !strings.Contains(empty, "none found") {
		t.Errorf("buildSystemPrompt() = %q, want placeholder", empty)
	}
	if strings.Count(empty, "Source:") != 0 {
		t.Errorf("buildSystemPrompt() contains a source block without results")
	}

	for _, phrase := range []string{"web", "general knowledge", "Cite"} {
		if !strings.Contains(systemPreamble, phrase) {
			t.Errorf("preamble missing %q", phrase)
		}
	}
}

func TestTrailingWindow(t *testing.T) {
	history := makeHistory(10)

	tests := []struct {
		name      string
		history   []types.ChatMessage
		n         int
		wantLen   int
		wantFirst string
	}{
		{name: "nil history", history: nil, n: 6, wantLen: 0},
		{name: "shorter than window", history: history[:4], n: 6, wantLen: 4, wantFirst: "turn 0"},
		{name: "longer than window", history: history, n: 6, wantLen: 6, wantFirst: "turn 4"},
		{name: "window of one", history: history, n: 1, wantLen: 1, wantFirst: "turn 9"},
		{name: "zero window", history: history, n: 0, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trailingWindow(tt.history, tt.n)
			if len(got) != tt.wantLen {
				t.Fatalf("trailingWindow() returned %d messages, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].Content != tt.wantFirst {
				t.Errorf("trailingWindow()[0] = %q, want %q", got[0].Content, tt.wantFirst)
			}
		})
	}
}

func TestBuildMessages(t *testing.T) {
	history := makeHistory(2)
	got := buildMessages("sys", history, "question")

	want := []types.ChatMessage{
		{Role: types.RoleSystem, Content: "sys"},
		history[0],
		history[1],
		{Role: types.RoleUser, Content: "question"},
	}
	if len(got) != len(want) {
		t.Fatalf("buildMessages() returned %d messages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("buildMessages()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
