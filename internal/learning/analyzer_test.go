package learning

import (
	"strings"
	"testing"
)

func TestAnalyze_EmptyText(t *testing.T) {
	got := Analyze("")
	want := FeatureVector{}
	if got != want {
		t.Errorf("Analyze(\"\") = %+v, want zero vector", got)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	text := "1. First, imagine a balloon.\n2. Now picture it expanding.\n- It is defined as pressure, for example."
	first := Analyze(text)
	second := Analyze(text)
	if first != second {
		t.Errorf("Analyze not deterministic: %+v vs %+v", first, second)
	}
}

func TestAnalyze_Bullets(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"dash bullet", "- point one", true},
		{"dot bullet", "• point one", true},
		{"star bullet", "* point one", true},
		{"indented bullet", "   - indented", true},
		{"mid-line dash ignored", "this - is not a bullet", false},
		{"plain prose", "no structure here", false},
		{"bullet on later line", "intro line\n- then a bullet", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text)
			if got.HasBullets != tt.want {
				t.Errorf("HasBullets = %v, want %v", got.HasBullets, tt.want)
			}
		})
	}
}

func TestAnalyze_NumberedSteps(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantCount int
	}{
		{"dot steps", "1. first\n2. second\n3. third", 3},
		{"paren steps", "1) first\n2) second", 2},
		{"indented steps", "  1. first\n  2. second", 2},
		{"mid-line number ignored", "there are 3. reasons", 0},
		{"no steps", "just prose", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text)
			if got.StepCount != tt.wantCount {
				t.Errorf("StepCount = %d, want %d", got.StepCount, tt.wantCount)
			}
			if got.HasNumberedSteps != (tt.wantCount > 0) {
				t.Errorf("HasNumberedSteps = %v, want %v", got.HasNumberedSteps, tt.wantCount > 0)
			}
		})
	}
}

func TestAnalyze_ExampleCount(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantCount int
	}{
		{"single phrase", "For example, water boils.", 1},
		{"case insensitive", "FOR EXAMPLE this and SUCH AS that", 2},
		{"repeated phrase counted per occurrence", "for example one, for example two", 2},
		{"mixed phrases", "Imagine a wave. Suppose it reflects. Let's say it doesn't.", 3},
		{"word boundary respected", "considering the considerations", 0},
		{"no phrases", "plain statement of fact", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text)
			if got.ExampleCount != tt.wantCount {
				t.Errorf("ExampleCount = %d, want %d", got.ExampleCount, tt.wantCount)
			}
			if got.HasExamples != (tt.wantCount > 0) {
				t.Errorf("HasExamples = %v, want %v", got.HasExamples, tt.wantCount > 0)
			}
		})
	}
}

func TestAnalyze_Analogies(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"like a", "It works like a pump.", true},
		{"just like", "Just like last time.", true},
		{"think of it as", "Think of it as a queue.", true},
		{"analog prefix", "A good analogy is a river.", true},
		{"metaphor prefix", "Metaphorically speaking.", true},
		{"likely is not an analogy", "It is likely raining.", false},
		{"none", "Direct explanation only.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text)
			if got.HasAnalogies != tt.want {
				t.Errorf("HasAnalogies = %v, want %v", got.HasAnalogies, tt.want)
			}
		})
	}
}

func TestAnalyze_Definitions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"is defined as", "Entropy is defined as disorder.", true},
		{"refers to", "This refers to the second law.", true},
		{"in other words", "In other words, it spreads.", true},
		{"simply put", "Simply put, heat flows.", true},
		{"definition keyword", "The definition matters.", true},
		{"none", "Heat flows from hot to cold.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text)
			if got.HasDefinitions != tt.want {
				t.Errorf("HasDefinitions = %v, want %v", got.HasDefinitions, tt.want)
			}
		})
	}
}

func TestAnalyze_Length(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"ascii", "hello", 5},
		{"multibyte counted as characters", "héllo • wörld", 13},
		{"long text", strings.Repeat("a", 600), 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text)
			if got.Length != tt.want {
				t.Errorf("Length = %d, want %d", got.Length, tt.want)
			}
		})
	}
}
