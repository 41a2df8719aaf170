package memory

import (
	"strings"
	"time"
)

// Enrich makes content self-contained before storage: preference
// statements that never name the user get a disambiguating prefix, and
// a capture timestamp is appended as a metadata footer. The transform
// only adds framing; it must never alter the content's meaning.
func (u *UseCase) Enrich(content string) string {
	enriched := content

	lower := strings.ToLower(content)
	if strings.Contains(lower, "prefer") && !strings.Contains(lower, "user") {
		enriched = "User preference: " + content
	}

	timestamp := u.now().UTC().Format(time.RFC3339)
	return enriched + "\n[Captured: " + timestamp + "]"
}
