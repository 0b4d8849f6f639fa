package scraper

import (
	"strings"

	"couponworker/config"
)

// CategoryOther is the sentinel category for courses matching no rule
const CategoryOther = "other"

// Categorize maps a course's title and description to a category name.
// Pure function: rules are checked in declared order and the first
// match wins, so rule order decides ties.
//
// Two passes: first a literal keyword-in-text substring check, then a
// weaker pass where any whitespace token of the text being a substring
// of a keyword counts (so "cyber" matches "cybersecurity"). The weak
// pass can match surprisingly broadly on short tokens; that is the
// documented behavior and kept as is.
func Categorize(title, description string, rules []config.CategoryRule) string {
	blob := strings.ToLower(title + " " + description)

	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(blob, keyword) {
				return rule.Name
			}
		}
	}

	tokens := strings.Fields(blob)
	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			for _, token := range tokens {
				if strings.Contains(keyword, token) {
					return rule.Name
				}
			}
		}
	}

	return CategoryOther
}
