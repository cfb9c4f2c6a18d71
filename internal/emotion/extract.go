package emotion

import (
	"regexp"
	"strings"
)

// MaxTags caps how many emotion tags a single response may carry.
const MaxTags = 2

// tagPatterns are evaluated in this order, each against the original text.
// Later patterns do not see removals made by earlier ones.
var tagPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[([^\]]+)\]`), // [开心]
	regexp.MustCompile(`\(([^)]+)\)`),  // (开心)
	regexp.MustCompile(`（([^）]+)）`),    // （开心）
}

// Extract scans text for bracketed emotion tags known to the registry.
// Recognized tags are stripped from the returned text; unrecognized bracket
// contents are left untouched. The tag list is deduplicated preserving first
// occurrence and capped at MaxTags.
//
// When no tag resolves, the text is returned unchanged (not even trimmed).
func Extract(reg *Registry, text string) (string, []string) {
	clean := text
	var found []string

	for _, pattern := range tagPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			name := match[1]
			if _, ok := reg.Resolve(name); !ok {
				continue
			}
			found = append(found, name)
			clean = strings.ReplaceAll(clean, match[0], "")
		}
	}

	if len(found) == 0 {
		return text, nil
	}

	tags := dedupe(found)
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}
	return strings.TrimSpace(clean), tags
}

// dedupe keeps the first occurrence of each tag, preserving order.
func dedupe(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := tags[:0]
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
