package states

import (
	"fmt"
	"strings"
)

// Result reports the outcome of validating a state input.
// An empty input is valid with no code: state is an optional qualifier.
type Result struct {
	Valid      bool   `json:"valid"`
	Code       string `json:"code,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Validate normalizes user-typed state text into a canonical code. It accepts
// abbreviations, full names and known aliases in any casing. On no match it
// returns an invalid Result carrying a best-effort suggestion, formatted as
// "CODE (Full Name)". It never panics, whatever the input.
func Validate(input string) Result {
	clean := strings.ToUpper(strings.TrimSpace(input))
	if clean == "" {
		return Result{Valid: true}
	}

	if _, ok := byCode[clean]; ok {
		return Result{Valid: true, Code: clean}
	}

	for _, a := range aliases {
		if a.Variant == clean {
			return Result{Valid: true, Code: a.Code}
		}
	}

	for _, e := range entries {
		if strings.ToUpper(e.Name) == clean {
			return Result{Valid: true, Code: e.Code}
		}
	}

	return Result{Suggestion: closestMatch(clean)}
}

// closestMatch scans the tables in a fixed order (abbreviations, full names,
// aliases) and returns the first plausible candidate, or "" when the input
// shares nothing with any entry.
func closestMatch(clean string) string {
	// Shared two-character prefix with an abbreviation.
	for _, e := range entries {
		if strings.HasPrefix(clean, e.Code[:2]) || strings.HasPrefix(e.Code, prefix(clean, 2)) {
			return formatEntry(e)
		}
	}

	// Substring, prefix, or word-prefix relationship with a full name.
	for _, e := range entries {
		name := strings.ToUpper(e.Name)
		if strings.Contains(name, clean) || strings.HasPrefix(name, clean) {
			return formatEntry(e)
		}
		for _, word := range strings.Fields(name) {
			if strings.HasPrefix(word, clean) {
				return formatEntry(e)
			}
		}
	}

	// Substring or prefix relationship with an alias.
	for _, a := range aliases {
		if strings.Contains(a.Variant, clean) || strings.HasPrefix(a.Variant, clean) {
			return fmt.Sprintf("%s (%s)", a.Code, byCode[a.Code])
		}
	}

	return ""
}

func formatEntry(e Entry) string {
	return fmt.Sprintf("%s (%s)", e.Code, e.Name)
}

// prefix returns up to n leading bytes of s without panicking on short input.
func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

// FullName returns the full name for a canonical code, or "" if unknown.
// The code may be given in any casing.
func FullName(code string) string {
	return byCode[strings.ToUpper(strings.TrimSpace(code))]
}

// All returns the canonical table in its fixed order. The caller must not
// mutate the returned slice.
func All() []Entry {
	return entries
}

// FormatStateList renders a short human-readable sample of valid states for
// error messages.
func FormatStateList() string {
	parts := make([]string, 0, 10)
	for _, e := range entries[:10] {
		parts = append(parts, formatEntry(e))
	}
	return "Valid states include: " + strings.Join(parts, ", ") + "... (and 40+ more)"
}
