package memory

import (
	"strings"

	"github.com/m-mizutani/recall/pkg/model"
)

const defaultCategory = "general"

func titleCase(category string) string {
	words := strings.Fields(strings.ReplaceAll(category, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FormatContext renders ranked memories into a single readable block,
// grouped by each memory's first category (or "general") in first-seen
// order, with one bullet per memory in rank order. An empty input
// yields an empty string, not a titled-but-empty document.
func FormatContext(memories []*model.Memory) string {
	if len(memories) == 0 {
		return ""
	}

	var order []string
	groups := make(map[string][]*model.Memory)
	for _, m := range memories {
		if m == nil {
			continue
		}

		category := defaultCategory
		if len(m.Categories) > 0 {
			category = m.Categories[0]
		}

		if _, seen := groups[category]; !seen {
			order = append(order, category)
		}
		groups[category] = append(groups[category], m)
	}

	if len(order) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Relevant Memories\n")
	for _, category := range order {
		b.WriteString("\n## " + titleCase(category) + "\n")
		for _, m := range groups[category] {
			b.WriteString("- " + m.Content + "\n")
		}
	}
	return b.String()
}
