package monitor

import "github.com/pbaille/mindguard/internal/domain"

// lowMood is the score below which an entry needs attention on its own
const lowMood = 4

// NeedsAttention reports whether the latest entry should trigger the crisis
// escalation view. A nil entry means there is no history yet.
func NeedsAttention(latest *domain.MoodEntry) bool {
	if latest == nil {
		return false
	}
	return latest.RiskLevel == domain.RiskHigh || latest.Mood < lowMood
}
