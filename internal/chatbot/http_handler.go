package chatbot

import (
	"encoding/json"
	"net/http"
	"strings"
)

// fallbackAnswer is returned when no knowledge base entry matches.
const fallbackAnswer = "Je n'ai pas compris votre question. Contactez-nous à contact@ccis.ma pour plus d'informations."

// Handler exposes the matcher as a single message endpoint.
type Handler struct {
	matcher *Matcher
}

// NewHTTPHandler wraps a matcher.
func NewHTTPHandler(matcher *Matcher) *Handler {
	return &Handler{matcher: matcher}
}

// Register mounts the chatbot route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chatbot/message", h.handleMessage)
}

type messageRequest struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Answer   string `json:"answer"`
	Matched  bool   `json:"matched"`
	Trigger  string `json:"trigger,omitempty"`
	Distance int    `json:"distance"`
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	resp := messageResponse{Answer: fallbackAnswer}
	if match, ok := h.matcher.Match(req.Message); ok {
		resp = messageResponse{
			Answer:   match.Answer,
			Matched:  true,
			Trigger:  match.Trigger,
			Distance: match.Distance,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
