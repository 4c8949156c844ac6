package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/slidetutor/slidetutor/internal/chat"
	"github.com/slidetutor/slidetutor/internal/lang"
)

// askRequest is the JSON body of POST /ask. History is decoded tolerantly:
// a malformed history degrades to an empty conversation.
type askRequest struct {
	Question string          `json:"question"`
	History  json.RawMessage `json:"history,omitempty"`
}

// askResponse is the answer payload shared by the text and voice endpoints.
type askResponse struct {
	Transcript string `json:"transcript"`
	Answer     string `json:"answer"`
	Citation   string `json:"citation"`
	Language   string `json:"language"`
	AudioURL   string `json:"audio_url,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if s.health != nil {
		if err := s.health.Health(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "vectorstore": "disconnected"})
			return
		}
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "vectorstore": "connected"})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}

	result := s.answerer.Answer(r.Context(), req.Question, chat.ParseHistory(req.History))
	writeJSON(w, askResponse{
		Transcript: req.Question,
		Answer:     result.Answer,
		Citation:   result.Citation,
		Language:   result.Language.String(),
	})
}

func (s *Server) handleAskVoice(w http.ResponseWriter, r *http.Request) {
	if s.transcriber == nil || s.speaker == nil {
		jsonError(w, "voice endpoint not configured", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("audio")
	if err != nil {
		jsonError(w, "audio file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	transcript, err := s.transcriber.Transcribe(r.Context(), file, header.Filename)
	if err != nil || transcript == "" {
		// A failed transcription still yields a spoken, valid answer.
		s.log.Warn("transcription failed", "error", err)
		s.respondVoice(w, r, chat.Result{
			Answer:   lang.Misheard(lang.English),
			Language: lang.English,
		}, "")
		return
	}

	history := chat.ParseHistory(json.RawMessage(r.FormValue("history")))
	result := s.answerer.Answer(r.Context(), transcript, history)
	s.respondVoice(w, r, result, transcript)
}

// respondVoice synthesizes the answer audio and writes the JSON payload.
// Synthesis failure degrades to a text-only response.
func (s *Server) respondVoice(w http.ResponseWriter, r *http.Request, result chat.Result, transcript string) {
	resp := askResponse{
		Transcript: transcript,
		Answer:     result.Answer,
		Citation:   result.Citation,
		Language:   result.Language.String(),
	}

	audio, err := s.speaker.Speak(r.Context(), result.Answer)
	if err != nil {
		s.log.Warn("speech synthesis failed", "error", err)
		writeJSON(w, resp)
		return
	}

	name := uuid.New().String() + ".mp3"
	if err := os.MkdirAll(s.cfg.AudioDir, 0o755); err == nil {
		if err := os.WriteFile(filepath.Join(s.cfg.AudioDir, name), audio, 0o644); err == nil {
			resp.AudioURL = "/audio/" + name
		} else {
			s.log.Warn("failed to write answer audio", "error", err)
		}
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
