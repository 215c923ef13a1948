package domain

import "strings"

// FallbackCategory receives every card whose category is deleted.
const FallbackCategory = "general"

// DefaultCategories returns the built-in category set used when nothing
// has been persisted yet.
func DefaultCategories() []string {
	return []string{"general", "language", "science", "math", "history"}
}

// NormalizeCategory trims a category label.
func NormalizeCategory(name string) string {
	return strings.TrimSpace(name)
}
