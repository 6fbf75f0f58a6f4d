package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pbaille/mindguard/internal/classifier"
	"github.com/pbaille/mindguard/internal/crisis"
	"github.com/pbaille/mindguard/internal/domain"
	"github.com/pbaille/mindguard/internal/journal"
	"github.com/pbaille/mindguard/internal/observability"
	"github.com/pbaille/mindguard/internal/trends"
)

// Server handles HTTP requests for the journal API
type Server struct {
	svc  *journal.Service
	addr string
}

// New creates a new API server
func New(svc *journal.Service, addr string) *Server {
	return &Server{svc: svc, addr: addr}
}

// Handler builds the routed handler with middlewares applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Entries
	mux.HandleFunc("GET /entries", s.listEntries)
	mux.HandleFunc("POST /entries", s.addEntry)
	mux.HandleFunc("PUT /entries", s.replaceEntries)
	mux.HandleFunc("DELETE /entries", s.clearEntries)

	// Analysis
	mux.HandleFunc("POST /classify", s.classify)
	mux.HandleFunc("GET /trends", s.trends)
	mux.HandleFunc("GET /attention", s.attention)
	mux.HandleFunc("GET /resources", s.resources)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// Run starts the HTTP server and shuts it down when ctx is done
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		observability.Logger().Info("server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AddEntryRequest is the request body for adding an entry
type AddEntryRequest struct {
	Text string `json:"text"`
	Mood int    `json:"mood"`
}

// AddEntryResponse is the response for adding an entry
type AddEntryResponse struct {
	Entry          domain.MoodEntry `json:"entry"`
	Response       string           `json:"response"`
	NeedsAttention bool             `json:"needsAttention"`
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := s.svc.Submit(r.Context(), journal.SubmitInput{Text: req.Text, Mood: req.Mood})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AddEntryResponse{
		Entry:          out.Entry,
		Response:       out.Response,
		NeedsAttention: out.NeedsAttention,
	})
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.History(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = domain.EncodeEntries(w, entries)
}

func (s *Server) replaceEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := domain.DecodeEntries(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.svc.Import(r.Context(), entries); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearEntries(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Clear(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClassifyRequest is the request body for a dry-run classification
type ClassifyRequest struct {
	Text string `json:"text"`
}

type ClassifyResponse struct {
	classifier.Explanation
	Response string `json:"response"`
}

func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ex, resp := s.svc.Preview(req.Text)
	writeJSON(w, http.StatusOK, ClassifyResponse{Explanation: ex, Response: resp})
}

func (s *Server) trends(w http.ResponseWriter, r *http.Request) {
	window, err := trends.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.svc.Trends(r.Context(), window)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// AttentionResponse tells a client whether to show the crisis view
type AttentionResponse struct {
	NeedsAttention bool              `json:"needsAttention"`
	Latest         *domain.MoodEntry `json:"latest"`
	Resources      []crisis.Resource `json:"resources,omitempty"`
}

func (s *Server) attention(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Status(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := AttentionResponse{NeedsAttention: st.NeedsAttention, Latest: st.Latest}
	if st.NeedsAttention {
		resp.Resources = crisis.Resources()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) resources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"resources": crisis.Resources(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps validation failures to 400 and hides the rest
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, journal.ErrEmptyText),
		errors.Is(err, domain.ErrInvalidMood),
		errors.Is(err, domain.ErrInvalidSentiment),
		errors.Is(err, domain.ErrInvalidRiskLevel),
		errors.Is(err, journal.ErrInvalidImport):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
