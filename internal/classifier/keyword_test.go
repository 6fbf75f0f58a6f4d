package classifier

import (
	"math"
	"strings"
	"testing"

	"github.com/pbaille/mindguard/internal/domain"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func assertResult(t *testing.T, got domain.ClassificationResult, sentiment domain.Sentiment, risk domain.RiskLevel, confidence float64) {
	t.Helper()
	if got.Sentiment != sentiment || got.RiskLevel != risk || !approx(got.Confidence, confidence) {
		t.Fatalf("got {%s %s %.4f}, want {%s %s %.4f}",
			got.Sentiment, got.RiskLevel, got.Confidence, sentiment, risk, confidence)
	}
}

func TestClassifyEmptyText(t *testing.T) {
	c := NewDefault()
	assertResult(t, c.Classify(""), domain.SentimentNeutral, domain.RiskLow, 0.6)
}

func TestClassifyPositive(t *testing.T) {
	c := NewDefault()
	assertResult(t, c.Classify("I am so happy and grateful"), domain.SentimentPositive, domain.RiskLow, 0.30)
}

func TestClassifyNegativeMedium(t *testing.T) {
	c := NewDefault()
	assertResult(t, c.Classify("sad depressed anxious worried"), domain.SentimentNegative, domain.RiskMedium, 0.80)
}

func TestClassifyRiskDominates(t *testing.T) {
	c := NewDefault()

	texts := []string{
		"I feel hopeless",
		"So HAPPY grateful excited proud loved but honestly there is no point",
		"sometimes I think everyone is better off dead without me",
		"I just want to give up, sad, tired, lonely",
	}
	for _, text := range texts {
		assertResult(t, c.Classify(text), domain.SentimentConcerning, domain.RiskHigh, 0.95)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		name       string
		text       string
		sentiment  domain.Sentiment
		risk       domain.RiskLevel
		confidence float64
	}{
		// 2 negative, 0 positive: margin of 2 is not enough
		{"two negatives stay neutral", "sad and tired", domain.SentimentNeutral, domain.RiskLow, 0.6},
		// 3 negative, 0 positive: negative, low risk
		{"three negatives", "sad, tired and lonely", domain.SentimentNegative, domain.RiskLow, 0.6},
		// 4 negative, 1 positive: 4 > 3, risk medium
		{"four negatives one positive", "sad tired lonely angry but loved", domain.SentimentNegative, domain.RiskMedium, 0.8},
		// 3 negative, 1 positive: 3 > 3 is false, positive not > negative
		{"margin not met", "sad tired lonely but loved", domain.SentimentNeutral, domain.RiskLow, 0.6},
		{"tie", "happy but sad", domain.SentimentNeutral, domain.RiskLow, 0.6},
		{"single positive", "feeling proud", domain.SentimentPositive, domain.RiskLow, 0.15},
		{"positive confidence caps", "happy grateful excited peaceful content hopeful proud", domain.SentimentPositive, domain.RiskLow, 0.8},
		{"no keywords", "went to the store and bought milk", domain.SentimentNeutral, domain.RiskLow, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertResult(t, c.Classify(tt.text), tt.sentiment, tt.risk, tt.confidence)
		})
	}
}

func TestClassifyCountsDistinctKeywords(t *testing.T) {
	c := NewDefault()

	// "sad" repeated is still one keyword
	got := c.Classify("sad sad sad sad sad")
	assertResult(t, got, domain.SentimentNeutral, domain.RiskLow, 0.6)
}

func TestClassifySubstringMatch(t *testing.T) {
	c := NewDefault()

	// "unhappy" contains "happy"; matching is not tokenized
	assertResult(t, c.Classify("UNHAPPY"), domain.SentimentPositive, domain.RiskLow, 0.15)
}

func TestExplainReportsMatches(t *testing.T) {
	c := NewDefault()

	ex := c.Explain("Sad, tired, lonely and a bit hopeful")
	if ex.Sentiment != domain.SentimentNeutral {
		t.Fatalf("sentiment=%s", ex.Sentiment)
	}
	if strings.Join(ex.NegativeMatches, ",") != "sad,lonely,tired" {
		t.Fatalf("negative matches=%v", ex.NegativeMatches)
	}
	if strings.Join(ex.PositiveMatches, ",") != "hopeful" {
		t.Fatalf("positive matches=%v", ex.PositiveMatches)
	}
	if len(ex.RiskMatches) != 0 {
		t.Fatalf("risk matches=%v", ex.RiskMatches)
	}
}

func TestClassifyUsesCustomTables(t *testing.T) {
	kw, err := ParseKeywords([]byte("version: 2\nrisk: [\"Red Flag\"]\nnegative: [meh]\npositive: [yay]\n"))
	if err != nil {
		t.Fatalf("ParseKeywords failed: %v", err)
	}
	c := New(kw)

	assertResult(t, c.Classify("that was a red flag"), domain.SentimentConcerning, domain.RiskHigh, 0.95)
	assertResult(t, c.Classify("yay"), domain.SentimentPositive, domain.RiskLow, 0.15)
	// default words mean nothing to this classifier
	assertResult(t, c.Classify("hopeless"), domain.SentimentNeutral, domain.RiskLow, 0.6)
}
