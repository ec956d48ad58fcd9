package ingress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aurelabs/aura/internal/logger"
)

// Event types delivered by the voice platform.
const (
	EventCallStart        = "call-start"
	EventAssistantRequest = "assistant-request"
	EventCallEnd          = "call-end"
	EventSpeechUpdate     = "speech-update"
	EventStatusUpdate     = "status-update"
)

// CallHandler is the call-lifecycle surface the webhook dispatches into.
type CallHandler interface {
	HandleCallStart(ctx context.Context, callID string) string
	HandleUserUtterance(ctx context.Context, callID string, utterance string) string
	HandleCallEnd(ctx context.Context, callID string, directTranscript string)
}

// Timeouts carries the HTTP server deadlines.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

// HTTPServer exposes the webhook endpoint consumed by the voice platform.
type HTTPServer struct {
	handler CallHandler
	server  *http.Server
}

func NewHTTPServer(port int, handler CallHandler, timeouts Timeouts) *HTTPServer {
	mux := http.NewServeMux()
	s := &HTTPServer{
		handler: handler,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  timeouts.Read,
			WriteTimeout: timeouts.Write,
			IdleTimeout:  timeouts.Idle,
		},
	}

	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/healthz", s.handleHealth)
	return s
}

// Start starts the HTTP server in a goroutine.
func (s *HTTPServer) Start() {
	go func() {
		slog.Info("Starting webhook server", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
		}
	}()
}

// Stop stops the HTTP server gracefully.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type webhookEnvelope struct {
	Message webhookMessage `json:"message"`
}

type webhookMessage struct {
	Type string `json:"type"`
	Call struct {
		ID string `json:"id"`
	} `json:"call"`
	CallID         string `json:"callId"`
	Transcript     string `json:"transcript"`
	FullTranscript string `json:"fullTranscript"`
	Status         string `json:"status"`
}

func (m webhookMessage) callID() string {
	if m.Call.ID != "" {
		return m.Call.ID
	}
	return m.CallID
}

func (s *HTTPServer) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var envelope webhookEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg := envelope.Message
	ctx := logger.WithCallID(r.Context(), msg.callID())

	switch msg.Type {
	case EventCallStart:
		reply := s.handler.HandleCallStart(ctx, msg.callID())
		writeAssistantReply(w, http.StatusOK, reply)

	case EventAssistantRequest:
		if msg.callID() == "" || msg.Transcript == "" {
			slog.Warn("assistant-request missing call id or transcript")
			writeAssistantReply(w, http.StatusBadRequest, "I didn't get that. Could you please repeat?")
			return
		}
		reply := s.handler.HandleUserUtterance(ctx, msg.callID(), msg.Transcript)
		writeAssistantReply(w, http.StatusOK, reply)

	case EventCallEnd:
		direct := msg.FullTranscript
		if direct == "" {
			direct = msg.Transcript
		}
		s.handler.HandleCallEnd(ctx, msg.callID(), direct)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Call ended processed successfully."})

	case EventSpeechUpdate, EventStatusUpdate:
		w.WriteHeader(http.StatusOK)

	default:
		slog.Warn("Unclassified webhook event acknowledged", "type", msg.Type)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Event acknowledged."})
	}
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type assistantReply struct {
	Assistant struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"assistant"`
}

func writeAssistantReply(w http.ResponseWriter, status int, text string) {
	var reply assistantReply
	reply.Assistant.Type = "text"
	reply.Assistant.Text = text
	writeJSON(w, status, reply)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
