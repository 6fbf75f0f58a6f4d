package classifier

import (
	"math"
	"strings"

	"github.com/pbaille/mindguard/internal/domain"
)

// Heuristic constants. They are kept verbatim for compatibility with existing
// histories; a trained model would replace them wholesale.
const (
	RiskConfidence    = 0.95
	NeutralConfidence = 0.6
	MaxConfidence     = 0.8

	NegativeWeight = 0.2
	PositiveWeight = 0.15

	// negatives must exceed positives by more than this to read as negative
	NegativeMargin = 2
	// negatives above this escalate the risk level to medium
	MediumRiskNegatives = 3
)

// Classifier maps journal text to a sentiment and risk level using keyword tables
type Classifier struct {
	keywords Keywords
}

// New creates a Classifier over the given tables
func New(kw Keywords) *Classifier {
	return &Classifier{keywords: kw}
}

// NewDefault creates a Classifier over the embedded tables
func NewDefault() *Classifier {
	return New(DefaultKeywords())
}

// Explanation is a classification plus the keywords that produced it
type Explanation struct {
	domain.ClassificationResult
	RiskMatches     []string `json:"riskMatches,omitempty"`
	NegativeMatches []string `json:"negativeMatches,omitempty"`
	PositiveMatches []string `json:"positiveMatches,omitempty"`
}

// Classify analyzes text and returns its classification. Never fails.
func (c *Classifier) Classify(text string) domain.ClassificationResult {
	return c.Explain(text).ClassificationResult
}

// Explain runs the same decision as Classify and reports the matched keywords
func (c *Classifier) Explain(text string) Explanation {
	lower := strings.ToLower(text)

	var ex Explanation
	ex.RiskMatches = matches(lower, c.keywords.Risk)
	if len(ex.RiskMatches) > 0 {
		ex.ClassificationResult = domain.ClassificationResult{
			Sentiment:  domain.SentimentConcerning,
			RiskLevel:  domain.RiskHigh,
			Confidence: RiskConfidence,
		}
		return ex
	}

	ex.NegativeMatches = matches(lower, c.keywords.Negative)
	ex.PositiveMatches = matches(lower, c.keywords.Positive)
	ex.ClassificationResult = decide(len(ex.NegativeMatches), len(ex.PositiveMatches))
	return ex
}

func decide(negative, positive int) domain.ClassificationResult {
	if negative > positive+NegativeMargin {
		risk := domain.RiskLow
		if negative > MediumRiskNegatives {
			risk = domain.RiskMedium
		}
		return domain.ClassificationResult{
			Sentiment:  domain.SentimentNegative,
			RiskLevel:  risk,
			Confidence: math.Min(MaxConfidence, float64(negative)*NegativeWeight),
		}
	}

	if positive > negative {
		return domain.ClassificationResult{
			Sentiment:  domain.SentimentPositive,
			RiskLevel:  domain.RiskLow,
			Confidence: math.Min(MaxConfidence, float64(positive)*PositiveWeight),
		}
	}

	return domain.ClassificationResult{
		Sentiment:  domain.SentimentNeutral,
		RiskLevel:  domain.RiskLow,
		Confidence: NeutralConfidence,
	}
}

// matches returns each keyword found in text, once, in table order
func matches(text string, keywords []string) []string {
	var found []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			found = append(found, kw)
		}
	}
	return found
}
