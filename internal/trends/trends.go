package trends

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pbaille/mindguard/internal/domain"
)

// Window limits which entries feed the averages, distribution and chart
type Window string

const (
	WindowAll   Window = "all"
	WindowWeek  Window = "7d"
	WindowMonth Window = "30d"
)

const (
	// ChartSize is how many of the most recent entries the chart shows
	ChartSize = 14
	// RecentSize is how many entries the recent list shows
	RecentSize = 5
	// consistentCount is the number of entries above which tracking counts as consistent
	consistentCount = 7
)

// ParseWindow accepts the window names used by the API and the CLI
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return WindowAll, nil
	case "7d", "week", "last-7-days":
		return WindowWeek, nil
	case "30d", "month", "last-30-days":
		return WindowMonth, nil
	default:
		return "", fmt.Errorf("unknown window %q (want all, 7d or 30d)", s)
	}
}

// Duration returns the window length, or 0 for WindowAll
func (w Window) Duration() time.Duration {
	switch w {
	case WindowWeek:
		return 7 * 24 * time.Hour
	case WindowMonth:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Filter keeps entries with Date >= now - window, preserving order
func (w Window) Filter(history []domain.MoodEntry, now time.Time) []domain.MoodEntry {
	d := w.Duration()
	if d == 0 {
		return history
	}
	cutoff := now.Add(-d)

	out := make([]domain.MoodEntry, 0, len(history))
	for _, e := range history {
		if !e.Date.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// Band classifies a mood score into the three distribution buckets
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// BandOf returns high for mood >= 7, medium for 4..6 and low below 4
func BandOf(mood int) Band {
	switch {
	case mood >= 7:
		return BandHigh
	case mood >= 4:
		return BandMedium
	default:
		return BandLow
	}
}

// Color is the chart color for the band
func (b Band) Color() string {
	switch b {
	case BandHigh:
		return "#10b981"
	case BandMedium:
		return "#f59e0b"
	default:
		return "#ef4444"
	}
}

// Distribution counts entries per band
type Distribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// ChartPoint is one entry placed on a unit square
type ChartPoint struct {
	EntryID string    `json:"entryId"`
	Date    time.Time `json:"date"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Mood    int       `json:"mood"`
	Band    Band      `json:"band"`
	Color   string    `json:"color"`
}

// Category is a presentational tag on an insight
type Category string

const (
	CategoryInfo       Category = "info"
	CategoryPositive   Category = "positive"
	CategoryWarning    Category = "warning"
	CategoryConcerning Category = "concerning"
)

type Insight struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

// Report is the aggregated view of a history
type Report struct {
	Window       Window       `json:"window"`
	Count        int          `json:"count"`
	Average      float64      `json:"average"`
	Distribution Distribution `json:"distribution"`
	// Trend is the sign of the last mood change over the full history.
	// It ignores the window.
	Trend       int                `json:"trend"`
	HasTrend    bool               `json:"hasTrend"`
	ChartPoints []ChartPoint       `json:"chartPoints"`
	Insights    []Insight          `json:"insights"`
	Recent      []domain.MoodEntry `json:"recent"`
}

// Aggregate reduces history, ordered by insertion, into a Report.
// Entries are assumed valid; empty input yields zero values, never an error.
func Aggregate(history []domain.MoodEntry, window Window, now time.Time) Report {
	filtered := window.Filter(history, now)
	avg := Average(filtered)

	r := Report{
		Window:       window,
		Count:        len(filtered),
		Average:      avg,
		Distribution: Distribute(filtered),
		ChartPoints:  Chart(filtered),
		Insights:     Insights(len(filtered), avg),
		Recent:       recent(filtered),
	}
	r.Trend, r.HasTrend = Trend(history)
	return r
}

// Average is the mean mood rounded to one decimal, 0 for no entries
func Average(entries []domain.MoodEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.Mood
	}
	mean := float64(sum) / float64(len(entries))
	return math.Round(mean*10) / 10
}

func Distribute(entries []domain.MoodEntry) Distribution {
	var d Distribution
	for _, e := range entries {
		switch BandOf(e.Mood) {
		case BandHigh:
			d.High++
		case BandMedium:
			d.Medium++
		default:
			d.Low++
		}
	}
	return d
}

// Trend returns the sign of the mood change between the two most recent
// entries. ok is false when there are fewer than two.
func Trend(history []domain.MoodEntry) (sign int, ok bool) {
	n := len(history)
	if n < 2 {
		return 0, false
	}
	delta := history[n-1].Mood - history[n-2].Mood
	switch {
	case delta > 0:
		return 1, true
	case delta < 0:
		return -1, true
	default:
		return 0, true
	}
}

// Chart maps the last ChartSize entries to points, oldest first
func Chart(entries []domain.MoodEntry) []ChartPoint {
	if len(entries) > ChartSize {
		entries = entries[len(entries)-ChartSize:]
	}

	points := make([]ChartPoint, 0, len(entries))
	span := float64(max(len(entries)-1, 1))
	for i, e := range entries {
		band := BandOf(e.Mood)
		points = append(points, ChartPoint{
			EntryID: e.ID,
			Date:    e.Date,
			X:       float64(i) / span,
			Y:       float64(e.Mood) / domain.MaxMood,
			Mood:    e.Mood,
			Band:    band,
			Color:   band.Color(),
		})
	}
	return points
}

// Insights builds the tracking and progress insights
func Insights(count int, average float64) []Insight {
	patterns := Insight{
		Title:       "Mood Patterns",
		Description: "Try to log your mood daily for better insights.",
		Category:    CategoryInfo,
	}
	if count > consistentCount {
		patterns.Description = "You have consistent tracking habits!"
	}

	progress := Insight{Title: "Progress"}
	switch {
	case average >= 6:
		progress.Description = "Your overall mood has been positive!"
		progress.Category = CategoryPositive
	case average >= 4:
		progress.Description = "Your mood shows room for improvement."
		progress.Category = CategoryWarning
	default:
		progress.Description = "Consider reaching out for additional support."
		progress.Category = CategoryConcerning
	}

	return []Insight{patterns, progress}
}

// recent returns the last RecentSize entries, newest first
func recent(entries []domain.MoodEntry) []domain.MoodEntry {
	n := min(len(entries), RecentSize)
	out := make([]domain.MoodEntry, 0, n)
	for i := len(entries) - 1; i >= len(entries)-n; i-- {
		out = append(out, entries[i])
	}
	return out
}
