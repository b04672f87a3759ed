package scoring

import (
	"strings"

	"github.com/newthinker/insiderlog/internal/core"
)

// ClassifyRole maps a free-text officer title to a seniority tier.
// Titles are matched on whole words so "Vice President" does not land in
// the President tier. Unrecognized titles classify as generic insiders.
func ClassifyRole(role string) core.SeniorityTier {
	words := fieldWords(role)
	if len(words) == 0 {
		return core.TierInsider
	}

	joined := strings.Join(words, " ")

	switch {
	case hasWord(words, "ceo"),
		strings.Contains(joined, "chief executive officer"):
		return core.TierCEO
	case hasWord(words, "cfo"),
		strings.Contains(joined, "chief financial officer"):
		return core.TierCFO
	case hasWord(words, "president") && !strings.Contains(joined, "vice president"):
		return core.TierPresident
	case hasWord(words, "director"), hasWord(words, "chairman"), hasWord(words, "chair"):
		return core.TierDirector
	default:
		return core.TierInsider
	}
}

// fieldWords lowercases a title and splits it into alphanumeric words,
// treating punctuation like "CEO/Chairman" or "Pres." as separators.
func fieldWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		default:
			return true
		}
	})
}

func hasWord(words []string, want string) bool {
	for _, w := range words {
		if w == want {
			return true
		}
	}
	return false
}
