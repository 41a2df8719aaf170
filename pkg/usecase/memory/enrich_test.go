package memory_test

import (
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/recall/pkg/usecase/memory"
)

func fixedClock() func() time.Time {
	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func TestEnrich(t *testing.T) {
	uc := memory.New(&mockStore{}, memory.WithClock(fixedClock()))

	t.Run("preference without user gets prefix", func(t *testing.T) {
		enriched := uc.Enrich("I prefer tabs over spaces")

		gt.S(t, enriched).Contains("User preference: I prefer tabs over spaces")
		gt.S(t, enriched).Contains("[Captured: 2026-08-30T12:00:00Z]")
	})

	t.Run("preference already naming user is untouched", func(t *testing.T) {
		enriched := uc.Enrich("User prefers tabs over spaces")

		gt.False(t, strings.Contains(enriched, "User preference:"))
		gt.S(t, enriched).Contains("User prefers tabs over spaces")
	})

	t.Run("non-preference content only gets timestamp", func(t *testing.T) {
		enriched := uc.Enrich("Project deadline is Friday")

		gt.V(t, enriched).Equal("Project deadline is Friday\n[Captured: 2026-08-30T12:00:00Z]")
	})

	t.Run("timestamp footer is the final line", func(t *testing.T) {
		enriched := uc.Enrich("I prefer dark mode")

		lines := strings.Split(enriched, "\n")
		gt.S(t, lines[len(lines)-1]).Contains("[Captured:")
	})
}
