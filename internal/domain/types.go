package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// Sentiment is the coarse emotional tone of an entry
type Sentiment string

const (
	SentimentPositive   Sentiment = "positive"
	SentimentNeutral    Sentiment = "neutral"
	SentimentNegative   Sentiment = "negative"
	SentimentConcerning Sentiment = "concerning"
)

// RiskLevel is the escalation tier attached to an entry
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

const (
	MinMood = 1
	MaxMood = 10
)

var (
	ErrInvalidMood      = errors.New("mood must be between 1 and 10")
	ErrInvalidSentiment = errors.New("unknown sentiment")
	ErrInvalidRiskLevel = errors.New("unknown risk level")
)

// ClassificationResult is what the classifier derives from a piece of text
type ClassificationResult struct {
	Sentiment  Sentiment `json:"sentiment"`
	RiskLevel  RiskLevel `json:"riskLevel"`
	Confidence float64   `json:"confidence"`
}

// MoodEntry is one journal record. Entries are never edited after creation.
type MoodEntry struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Mood       int       `json:"mood"`
	Text       string    `json:"text"`
	Sentiment  Sentiment `json:"sentiment"`
	RiskLevel  RiskLevel `json:"riskLevel"`
	CreatedAt  time.Time `json:"createdAt"`
	Confidence float64   `json:"confidence"`
}

// NewMoodEntry freezes a classification into a new entry
func NewMoodEntry(id string, now time.Time, mood int, text string, c ClassificationResult) MoodEntry {
	return MoodEntry{
		ID:         id,
		Date:       now,
		Mood:       mood,
		Text:       text,
		Sentiment:  c.Sentiment,
		RiskLevel:  c.RiskLevel,
		Confidence: c.Confidence,
		CreatedAt:  now,
	}
}

// Classification returns the frozen classifier output of the entry
func (e MoodEntry) Classification() ClassificationResult {
	return ClassificationResult{
		Sentiment:  e.Sentiment,
		RiskLevel:  e.RiskLevel,
		Confidence: e.Confidence,
	}
}

// Validate checks the invariants a store expects on write
func (e MoodEntry) Validate() error {
	if e.Mood < MinMood || e.Mood > MaxMood {
		return fmt.Errorf("entry %s: %w (got %d)", e.ID, ErrInvalidMood, e.Mood)
	}
	if !e.Sentiment.Valid() {
		return fmt.Errorf("entry %s: %w %q", e.ID, ErrInvalidSentiment, e.Sentiment)
	}
	if !e.RiskLevel.Valid() {
		return fmt.Errorf("entry %s: %w %q", e.ID, ErrInvalidRiskLevel, e.RiskLevel)
	}
	return nil
}

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative, SentimentConcerning:
		return true
	}
	return false
}

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// EncodeEntries writes entries as the JSON array other tooling reads
func EncodeEntries(w io.Writer, entries []MoodEntry) error {
	if entries == nil {
		entries = []MoodEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}
	return nil
}

// DecodeEntries reads a JSON array of entries, preserving order
func DecodeEntries(r io.Reader) ([]MoodEntry, error) {
	var entries []MoodEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	if entries == nil {
		entries = []MoodEntry{}
	}
	return entries, nil
}
