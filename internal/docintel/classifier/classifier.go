package classifier

import (
	"regexp"
	"strings"

	"github.com/fundflow/fundflow-backend/internal/docintel/domain"
)

const (
	// matchWeight is the confidence added per pattern occurrence
	matchWeight = 0.25
	// minConfidence is the threshold below which a document stays unknown
	minConfidence = 0.3
)

// rule maps a document category to its detection patterns.
// Rules are evaluated against the lower-cased document text.
type rule struct {
	category domain.DocumentType
	patterns []*regexp.Regexp
}

// Classifier assigns a document category and confidence score using
// weighted pattern matching. It holds no mutable state and is safe for
// concurrent use.
type Classifier struct {
	rules []rule
}

// New creates a classifier with the baseline rule table.
// Rule order matters: when two categories score equally, the
// earliest-declared one wins.
func New() *Classifier {
	return &Classifier{
		rules: []rule{
			{
				category: domain.DocumentTypeCapitalCall,
				patterns: compile(
					`capital\s+call`,
					`drawdown\s+notice`,
					`call\s+notice`,
					`contribution\s+request`,
				),
			},
			{
				category: domain.DocumentTypeDistribution,
				patterns: compile(
					`distribution\s+notice`,
					`return\s+of\s+capital`,
					`dividend\s+distribution`,
					`cash\s+distribution`,
				),
			},
			{
				category: domain.DocumentTypeValuation,
				patterns: compile(
					`valuation\s+report`,
					`fair\s+value`,
					`portfolio\s+valuation`,
					`asset\s+valuation`,
				),
			},
			{
				category: domain.DocumentTypeQuarterlyUpdate,
				patterns: compile(
					`quarterly\s+report`,
					`quarterly\s+update`,
					`q[1-4]\s+report`,
					`quarterly\s+statement`,
				),
			},
		},
	}
}

func compile(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(expr)
	}
	return patterns
}

// Classify maps document text to a category and a confidence score in [0, 1].
// Each pattern occurrence adds 0.25 to the category score, capped at 1.0.
// Below the 0.3 threshold the result is (unknown, 0.0).
func (c *Classifier) Classify(text string) (domain.DocumentType, float64) {
	lower := strings.ToLower(text)

	best := domain.DocumentTypeUnknown
	bestScore := 0.0

	// Linear scan keeping the first-seen maximum: a later category only
	// replaces the selection on a strictly greater score.
	for _, r := range c.rules {
		score := 0.0
		for _, p := range r.patterns {
			score += float64(len(p.FindAllStringIndex(lower, -1))) * matchWeight
		}
		if score > 1.0 {
			score = 1.0
		}
		if score > bestScore {
			best = r.category
			bestScore = score
		}
	}

	if bestScore >= minConfidence {
		return best, bestScore
	}

	return domain.DocumentTypeUnknown, 0.0
}
