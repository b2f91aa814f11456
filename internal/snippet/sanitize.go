package snippet

import (
	"regexp"
	"strings"
)

// fenceRe matches fenced code blocks; the language tag is optional and
// case-insensitive.
var fenceRe = regexp.MustCompile("(?is)```(?:python|plot|go)?[ \\t]*\\r?\\n(.*?)```")

// leadIns are conversational prefixes models like to emit before the code.
var leadIns = []string{
	"Here is the code",
	"Below is the code",
	"Sure! Here's",
	"The following code",
	"You can use this code",
}

// ExtractCodeBlocks returns the concatenated contents of every fenced block
// in raw, or raw itself when no fences are present.
func ExtractCodeBlocks(raw string) string {
	matches := fenceRe.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return raw
	}
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m[1])
	}
	return strings.Join(parts, "\n")
}

// stripLeadIn truncates everything up to and including the first known
// conversational phrase.
func stripLeadIn(code string) string {
	lower := strings.ToLower(code)
	for _, p := range leadIns {
		if idx := strings.Index(lower, strings.ToLower(p)); idx != -1 {
			return strings.TrimSpace(code[idx+len(p):])
		}
	}
	return code
}

// Sanitize cleans a raw model completion down to directive source: fenced
// blocks are extracted, conversational lead-ins stripped, and each remaining
// line kept only if it parses on its own. The filter is deliberately
// line-scoped and best-effort; it guarantees parseable lines, not a
// meaningful program. Sanitize is idempotent.
func Sanitize(raw string) string {
	code := stripLeadIn(ExtractCodeBlocks(raw))
	var kept []string
	for _, line := range strings.Split(code, "\n") {
		if _, err := ParseLine(line); err == nil {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
