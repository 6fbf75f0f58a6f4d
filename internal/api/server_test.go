package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pbaille/mindguard/internal/api"
	"github.com/pbaille/mindguard/internal/classifier"
	"github.com/pbaille/mindguard/internal/domain"
	"github.com/pbaille/mindguard/internal/journal"
	"github.com/pbaille/mindguard/internal/store"
	"github.com/pbaille/mindguard/internal/trends"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (http.Handler, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	svc := journal.NewService(classifier.NewDefault(), mem).WithClock(func() time.Time { return testNow })
	return api.New(svc, ":0").Handler(), mem
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestAddEntry(t *testing.T) {
	srv, mem := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/entries", `{"text":"sad depressed anxious worried","mood":5}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp api.AddEntryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Entry.Sentiment != domain.SentimentNegative || resp.Entry.RiskLevel != domain.RiskMedium {
		t.Fatalf("entry=%+v", resp.Entry)
	}
	if resp.Response != classifier.SupportiveResponse || resp.NeedsAttention {
		t.Fatalf("resp=%+v", resp)
	}

	all, _ := mem.All(context.Background())
	if len(all) != 1 {
		t.Fatalf("expected 1 stored entry, got %d", len(all))
	}
}

func TestAddEntryValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := map[string]string{
		"bad json":   `{`,
		"empty text": `{"text":"  ","mood":5}`,
		"bad mood":   `{"text":"hello","mood":0}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/entries", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d, body=%s", w.Code, w.Body.String())
			}
		})
	}
}

func TestEntriesExportImportClear(t *testing.T) {
	srv, mem := newTestServer(t)
	ctx := context.Background()

	at := testNow.Add(-time.Hour)
	entries := []domain.MoodEntry{
		{ID: "a", Date: at, CreatedAt: at, Mood: 7, Text: "happy", Sentiment: domain.SentimentPositive, RiskLevel: domain.RiskLow, Confidence: 0.15},
		{ID: "b", Date: testNow, CreatedAt: testNow, Mood: 2, Text: "hopeless", Sentiment: domain.SentimentConcerning, RiskLevel: domain.RiskHigh, Confidence: 0.95},
	}
	var buf bytes.Buffer
	if err := domain.EncodeEntries(&buf, entries); err != nil {
		t.Fatalf("encode: %v", err)
	}

	w := do(t, srv, http.MethodPut, "/entries", buf.String())
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d, body=%s", w.Code, w.Body.String())
	}

	w = do(t, srv, http.MethodGet, "/entries", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	got, err := domain.DecodeEntries(w.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" || !got[1].Date.Equal(testNow) {
		t.Fatalf("entries=%+v", got)
	}

	w = do(t, srv, http.MethodPut, "/entries", `[{"id":"z","mood":42,"sentiment":"neutral","riskLevel":"low"}]`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid import, got %d", w.Code)
	}

	w = do(t, srv, http.MethodDelete, "/entries", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if all, _ := mem.All(ctx); len(all) != 0 {
		t.Fatalf("expected empty store, got %d", len(all))
	}
}

func TestTrends(t *testing.T) {
	srv, mem := newTestServer(t)
	ctx := context.Background()

	for i, mood := range []int{3, 6, 9} {
		at := testNow.Add(-time.Duration(2-i) * 24 * time.Hour)
		_ = mem.Append(ctx, domain.MoodEntry{ID: string(rune('a' + i)), Date: at, CreatedAt: at, Mood: mood,
			Sentiment: domain.SentimentNeutral, RiskLevel: domain.RiskLow})
	}

	w := do(t, srv, http.MethodGet, "/trends?window=7d", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	var report trends.Report
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Average != 6 || report.Count != 3 || report.Trend != 1 || !report.HasTrend {
		t.Fatalf("report=%+v", report)
	}
	if report.Distribution != (trends.Distribution{High: 1, Medium: 1, Low: 1}) {
		t.Fatalf("distribution=%+v", report.Distribution)
	}
	if len(report.ChartPoints) != 3 || report.ChartPoints[2].Mood != 9 {
		t.Fatalf("chart=%+v", report.ChartPoints)
	}

	w = do(t, srv, http.MethodGet, "/trends?window=decade", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAttention(t *testing.T) {
	srv, _ := newTestServer(t)

	var resp api.AttentionResponse
	w := do(t, srv, http.MethodGet, "/attention", "")
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.NeedsAttention || resp.Latest != nil || len(resp.Resources) != 0 {
		t.Fatalf("empty history attention=%+v", resp)
	}

	do(t, srv, http.MethodPost, "/entries", `{"text":"I want to give up","mood":6}`)

	w = do(t, srv, http.MethodGet, "/attention", "")
	resp = api.AttentionResponse{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.NeedsAttention || resp.Latest == nil || len(resp.Resources) == 0 {
		t.Fatalf("attention=%+v", resp)
	}
}

func TestClassifyDoesNotPersist(t *testing.T) {
	srv, mem := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/classify", `{"text":"I am so happy and grateful"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Sentiment       string   `json:"sentiment"`
		Confidence      float64  `json:"confidence"`
		PositiveMatches []string `json:"positiveMatches"`
		Response        string   `json:"response"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Sentiment != "positive" || len(resp.PositiveMatches) != 2 || resp.Response != classifier.AffirmingResponse {
		t.Fatalf("resp=%+v", resp)
	}
	if all, _ := mem.All(context.Background()); len(all) != 0 {
		t.Fatalf("classify stored %d entries", len(all))
	}
}

func TestResources(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/resources", "")

	var resp struct {
		Resources []struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
		} `json:"resources"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Resources) != 4 || resp.Resources[0].Phone != "988" {
		t.Fatalf("resources=%+v", resp.Resources)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, http.MethodOptions, "/entries", "")

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
}
