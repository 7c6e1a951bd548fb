package conversation

import (
	"math/rand"
	"strings"
	"testing"
)

func containsString(set []string, s string) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

func TestPickSelectsSetByShape(t *testing.T) {
	f := NewFallbackReplies(rand.New(rand.NewSource(1)))

	tests := []struct {
		name string
		text string
		set  []string
	}{
		{name: "question", text: "What time is checkout?", set: f.question},
		{name: "question trailing space", text: "Is breakfast included?  ", set: f.question},
		{name: "greeting hi", text: "hi", set: f.greeting},
		{name: "greeting hello", text: "Hello there", set: f.greeting},
		{name: "greeting good morning", text: "good morning", set: f.greeting},
		{name: "generic", text: "lorem ipsum", set: f.generic},
		{name: "empty", text: "", set: f.generic},
		{name: "highway is not a greeting", text: "highway 61", set: f.generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Pick(tt.text)
			if !containsString(tt.set, got) {
				t.Errorf("Pick(%q) = %q, not in expected set", tt.text, got)
			}
		})
	}
}

func TestPickQuestionBeatsGreeting(t *testing.T) {
	f := NewFallbackReplies(rand.New(rand.NewSource(1)))
	got := f.Pick("Hello, can you help me?")
	if !containsString(f.question, got) {
		t.Errorf("greeting ending in '?' should use the question set, got %q", got)
	}
}

func TestPickNeverEmpty(t *testing.T) {
	f := NewFallbackReplies(rand.New(rand.NewSource(42)))
	for _, text := range []string{"", "?", "hi", "random text", strings.Repeat("x", 500)} {
		for i := 0; i < 10; i++ {
			if f.Pick(text) == "" {
				t.Fatalf("Pick(%q) returned empty reply", text)
			}
		}
	}
}

func TestPickIsSeedDeterministic(t *testing.T) {
	first := NewFallbackReplies(rand.New(rand.NewSource(7)))
	second := NewFallbackReplies(rand.New(rand.NewSource(7)))
	for i := 0; i < 20; i++ {
		if a, b := first.Pick("something"), second.Pick("something"); a != b {
			t.Fatalf("same seed diverged at pick %d: %q vs %q", i, a, b)
		}
	}
}
