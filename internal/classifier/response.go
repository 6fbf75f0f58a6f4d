package classifier

import "github.com/pbaille/mindguard/internal/domain"

const (
	CrisisResponse = "I'm concerned about what you've shared. You're not alone, and there are people who want to help. " +
		"Please consider reaching out to a crisis helpline or trusted person right now."
	SupportiveResponse = "It sounds like you're going through a difficult time. Remember that these feelings are temporary, " +
		"and it's okay to ask for help. Would you like to try a breathing exercise or talk to someone?"
	AffirmingResponse = "I'm glad to hear you're feeling positive today! " +
		"These moments of happiness are important to acknowledge and celebrate."
	OpenResponse = "Thank you for sharing with me. How are you feeling right now? I'm here to listen and support you."
)

// Respond picks the supportive message for a classification.
// High risk always wins, regardless of sentiment.
func Respond(sentiment domain.Sentiment, risk domain.RiskLevel) string {
	switch {
	case risk == domain.RiskHigh:
		return CrisisResponse
	case sentiment == domain.SentimentNegative || risk == domain.RiskMedium:
		return SupportiveResponse
	case sentiment == domain.SentimentPositive:
		return AffirmingResponse
	default:
		return OpenResponse
	}
}
