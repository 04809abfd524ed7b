package textfilter

import (
	"testing"
)

func TestProfanityFilter_FilterText(t *testing.T) {
	filter := NewProfanityFilter()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple replacement",
			input:    "What the hell is in the dumpster?",
			expected: "What the heck is in the dumpster?",
		},
		{
			name:     "multiple words",
			input:    "This damn case is crap.",
			expected: "This dang case is bunk.",
		},
		{
			name:     "uppercase",
			input:    "DAMN this rain.",
			expected: "DANG this rain.",
		},
		{
			name:     "title case",
			input:    "Hell of a night.",
			expected: "Heck of a night.",
		},
		{
			name:     "longer word wins over its prefix",
			input:    "The foreman is an asshole.",
			expected: "The foreman is an heel.",
		},
		{
			name:     "plural keeps its s",
			input:    "A couple of bastards jumped him.",
			expected: "A couple of rats jumped him.",
		},
		{
			name:     "word boundaries",
			input:    "A classical record spins in the hellebore shop.",
			expected: "A classical record spins in the hellebore shop.",
		},
		{
			name:     "slurs are censored outright",
			input:    "He called her a whore.",
			expected: "He called her a [censored].",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterText(tt.input)
			if result != tt.expected {
				t.Errorf("FilterText() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestProfanityFilter_ContainsProfanity(t *testing.T) {
	filter := NewProfanityFilter()

	if !filter.ContainsProfanity("Damn it.") {
		t.Error("Expected profanity to be detected")
	}
	if filter.ContainsProfanity("The assessor passed the class.") {
		t.Error("Expected no profanity inside longer words")
	}
	if filter.ContainsProfanity(filter.FilterText("What the hell, you bastard.")) {
		t.Error("Filtered text should be clean")
	}
}

func TestShouldFilterContent(t *testing.T) {
	tests := []struct {
		rating   string
		expected bool
	}{
		{"G", true},
		{"PG", true},
		{"PG13", true},
		{"PG-13", true},
		{" pg13 ", true},
		{"R", false},
		{"NC-17", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ShouldFilterContent(tt.rating); got != tt.expected {
			t.Errorf("ShouldFilterContent(%q) = %v, want %v", tt.rating, got, tt.expected)
		}
	}
}
