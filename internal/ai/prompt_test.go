package ai

import (
	"strings"
	"testing"
)

func TestBuildCodePrompt(t *testing.T) {
	system, user := BuildCodePrompt("Eng_uBatt", "comparative analysis of battery voltage")

	for _, want := range []string{
		"Eng_uBatt",
		"comparative analysis of battery voltage",
		"histplot",
		"subtitle",
		"figsize(12, 7)",
		"figsize(10, 6)",
		"Freedman-Diaconis",
		`weights="duration"`,
	} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if user == "" || strings.Contains(user, "Eng_uBatt") {
		t.Errorf("user message should be the fixed request line, got %q", user)
	}
}
