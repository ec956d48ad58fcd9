package ingress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCallHandler struct {
	startCalls []string
	utterances [][2]string
	endCalls   [][2]string
	reply      string
}

func (f *fakeCallHandler) HandleCallStart(ctx context.Context, callID string) string {
	f.startCalls = append(f.startCalls, callID)
	return f.reply
}

func (f *fakeCallHandler) HandleUserUtterance(ctx context.Context, callID string, utterance string) string {
	f.utterances = append(f.utterances, [2]string{callID, utterance})
	return f.reply
}

func (f *fakeCallHandler) HandleCallEnd(ctx context.Context, callID string, directTranscript string) {
	f.endCalls = append(f.endCalls, [2]string{callID, directTranscript})
}

func postWebhook(t *testing.T, s *HTTPServer, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleWebhook(rec, req)
	return rec
}

func decodeAssistantText(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var reply assistantReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "text", reply.Assistant.Type)
	return reply.Assistant.Text
}

func TestWebhookCallStart(t *testing.T) {
	handler := &fakeCallHandler{reply: "Good evening! How was your day?"}
	s := NewHTTPServer(0, handler, Timeouts{})

	rec := postWebhook(t, s, `{"message":{"type":"call-start","call":{"id":"c1"}}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Good evening! How was your day?", decodeAssistantText(t, rec))
	assert.Equal(t, []string{"c1"}, handler.startCalls)
}

func TestWebhookAssistantRequest(t *testing.T) {
	handler := &fakeCallHandler{reply: "Sounds fun!"}
	s := NewHTTPServer(0, handler, Timeouts{})

	rec := postWebhook(t, s, `{"message":{"type":"assistant-request","callId":"c1","transcript":"I'm going hiking"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sounds fun!", decodeAssistantText(t, rec))
	require.Len(t, handler.utterances, 1)
	assert.Equal(t, [2]string{"c1", "I'm going hiking"}, handler.utterances[0])
}

func TestWebhookAssistantRequestMissingFields(t *testing.T) {
	handler := &fakeCallHandler{reply: "unused"}
	s := NewHTTPServer(0, handler, Timeouts{})

	rec := postWebhook(t, s, `{"message":{"type":"assistant-request","transcript":"hello"}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decodeAssistantText(t, rec))
	assert.Empty(t, handler.utterances)
}

func TestWebhookCallEnd(t *testing.T) {
	handler := &fakeCallHandler{}
	s := NewHTTPServer(0, handler, Timeouts{})

	rec := postWebhook(t, s, `{"message":{"type":"call-end","call":{"id":"c1"},"fullTranscript":"USER: bye"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, handler.endCalls, 1)
	assert.Equal(t, [2]string{"c1", "USER: bye"}, handler.endCalls[0])
}

func TestWebhookAcksPassiveEvents(t *testing.T) {
	handler := &fakeCallHandler{}
	s := NewHTTPServer(0, handler, Timeouts{})

	for _, eventType := range []string{EventSpeechUpdate, EventStatusUpdate, "something-new"} {
		rec := postWebhook(t, s, `{"message":{"type":"`+eventType+`"}}`)
		assert.Equal(t, http.StatusOK, rec.Code, eventType)
	}
	assert.Empty(t, handler.startCalls)
	assert.Empty(t, handler.utterances)
	assert.Empty(t, handler.endCalls)
}

func TestWebhookRejectsBadPayload(t *testing.T) {
	s := NewHTTPServer(0, &fakeCallHandler{}, Timeouts{})

	rec := postWebhook(t, s, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookRejectsGet(t *testing.T) {
	s := NewHTTPServer(0, &fakeCallHandler{}, Timeouts{})

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	s.handleWebhook(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	s := NewHTTPServer(0, &fakeCallHandler{}, Timeouts{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
