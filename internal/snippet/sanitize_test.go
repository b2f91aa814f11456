package snippet

import (
	"strings"
	"testing"
)

func TestExtractCodeBlocks(t *testing.T) {
	raw := "Sure thing.\n```python\nbins = 40\nhistplot(x=\"v\")\n```\nHope that helps!"
	got := ExtractCodeBlocks(raw)
	want := "bins = 40\nhistplot(x=\"v\")\n"
	if got != want {
		t.Errorf("ExtractCodeBlocks = %q, want %q", got, want)
	}
}

func TestExtractCodeBlocksMultiple(t *testing.T) {
	raw := "```plot\ntitle(\"a\")\n```\nand then\n```\nxlabel(\"b\")\n```"
	got := ExtractCodeBlocks(raw)
	if !strings.Contains(got, `title("a")`) || !strings.Contains(got, `xlabel("b")`) {
		t.Errorf("both blocks should survive, got %q", got)
	}
	if strings.Contains(got, "and then") {
		t.Errorf("prose between fences leaked: %q", got)
	}
}

func TestExtractCodeBlocksNoFence(t *testing.T) {
	raw := "histplot(x=\"v\")"
	if got := ExtractCodeBlocks(raw); got != raw {
		t.Errorf("unfenced input should pass through, got %q", got)
	}
}

func TestSanitizeStripsLeadIn(t *testing.T) {
	raw := "Here is the code you asked for:\nhistplot(x=\"v\")"
	got := Sanitize(raw)
	if got != `histplot(x="v")` {
		t.Errorf("Sanitize = %q", got)
	}
}

func TestSanitizeDropsInvalidLines(t *testing.T) {
	raw := strings.Join([]string{
		"```python",
		"import seaborn as sns",
		"figsize(10, 6)",
		"plt.tight_layout(); plt.show()",
		`histplot(x="batt_voltage", bins=auto)`,
		"def helper():",
		`subtitle("Voltage spread")`,
		"```",
	}, "\n")
	got := Sanitize(raw)
	want := strings.Join([]string{
		"figsize(10, 6)",
		`histplot(x="batt_voltage", bins=auto)`,
		`subtitle("Voltage spread")`,
	}, "\n")
	if got != want {
		t.Errorf("Sanitize =\n%q\nwant\n%q", got, want)
	}
}

func TestSanitizeAllProse(t *testing.T) {
	raw := "I cannot produce a plot for that signal, sorry."
	if got := Sanitize(raw); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	raw := "Below is the code:\n```python\nbins = 40\nnot valid !!\nhistplot(x=\"v\", bins=bins)\n```"
	once := Sanitize(raw)
	if twice := Sanitize(once); twice != once {
		t.Errorf("Sanitize not idempotent:\n%q\nvs\n%q", once, twice)
	}
}
