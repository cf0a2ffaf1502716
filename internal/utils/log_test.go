package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit drops everything", input: "TOTAL ATS SCORE: 82%", limit: 0, expect: ""},
		{name: "short analysis kept", input: "Matched: Go", limit: 20, expect: "Matched: Go"},
		{name: "exact length kept", input: "Kafka", limit: 5, expect: "Kafka"},
		{name: "long analysis cut", input: "---Matched Skills Start---", limit: 7, expect: "---Matc..."},
		{name: "surrounding whitespace trimmed first", input: "\n  Docker  \n", limit: 4, expect: "Dock..."},
		{name: "cuts on runes", input: "Опыт работы с Go", limit: 4, expect: "Опыт..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
