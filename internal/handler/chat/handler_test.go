package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/calm-companion/backend/internal/analysis/sentiment"
	"github.com/zhouzirui/calm-companion/backend/internal/model/chat"
	chatservice "github.com/zhouzirui/calm-companion/backend/internal/service/chat"
	profileservice "github.com/zhouzirui/calm-companion/backend/internal/service/profile"
	"github.com/zhouzirui/calm-companion/backend/internal/service/response"
	"github.com/zhouzirui/calm-companion/backend/internal/service/schedule"
	"github.com/zhouzirui/calm-companion/backend/internal/storage/kv"
)

func setupRouter(t *testing.T, scheduler schedule.Scheduler) (*chi.Mux, *chatservice.Service) {
	t.Helper()
	picker := schedule.Fixed(0)
	selector, err := response.NewSelector(context.Background(), picker)
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	chatSvc := chatservice.NewService(profileservice.NewStore(kv.NewMemoryStore()), selector, chatservice.Options{
		Scheduler: scheduler,
		Picker:    picker,
	})

	r := chi.NewRouter()
	New(chatSvc).RegisterRoutes(r)
	NewWebSocketHandler(chatSvc).RegisterWebSocketRoutes(r)
	return r, chatSvc
}

func mountSession(t *testing.T, r http.Handler) sessionResponse {
	t.Helper()
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/chat/sessions", nil))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var payload sessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode mount response: %v", err)
	}
	return payload
}

func TestMountSessionWelcome(t *testing.T) {
	r, _ := setupRouter(t, schedule.Immediate{})

	payload := mountSession(t, r)
	if payload.Session.ID == "" {
		t.Fatal("expected session id")
	}
	if len(payload.Messages) != 1 || payload.Messages[0].Content != chatservice.FirstTimeWelcome {
		t.Fatalf("unexpected welcome messages: %+v", payload.Messages)
	}

	second := mountSession(t, r)
	if second.Messages[0].Content == chatservice.FirstTimeWelcome {
		t.Fatal("second mount should use the return greeting")
	}
}

func TestSubmitMessageDeliversReply(t *testing.T) {
	r, _ := setupRouter(t, schedule.Immediate{})
	session := mountSession(t, r).Session

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/chat/sessions/"+session.ID+"/messages",
		strings.NewReader(`{"text":"I feel so anxious and worried about work"}`)))
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}

	var msg chat.Message
	if err := json.Unmarshal(resp.Body.Bytes(), &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Sender != chat.SenderUser || msg.Emotion != sentiment.EmotionWorry {
		t.Fatalf("unexpected user message %+v", msg)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/chat/sessions/"+session.ID, nil))
	var transcript sessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &transcript); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(transcript.Messages) != 3 {
		t.Fatalf("expected welcome, user, reply; got %d messages", len(transcript.Messages))
	}
	if transcript.Messages[2].Sender != chat.SenderCompanion {
		t.Fatalf("expected companion reply last, got %+v", transcript.Messages[2])
	}
}

func TestSubmitBlankMessage(t *testing.T) {
	r, _ := setupRouter(t, schedule.Immediate{})
	session := mountSession(t, r).Session

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/chat/sessions/"+session.ID+"/messages", strings.NewReader(`{"text":"  "}`)))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestSubmitWhileAwaitingReply(t *testing.T) {
	manual := &schedule.Manual{}
	r, _ := setupRouter(t, manual)
	session := mountSession(t, r).Session
	path := "/chat/sessions/" + session.ID + "/messages"

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"text":"hello"}`)))
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"text":"are you there?"}`)))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}

	manual.Flush()

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"text":"are you there?"}`)))
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202 after reply, got %d", resp.Code)
	}
}

func TestSubmitUnknownSession(t *testing.T) {
	r, _ := setupRouter(t, schedule.Immediate{})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/chat/sessions/missing/messages", strings.NewReader(`{"text":"hi"}`)))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCloseSession(t *testing.T) {
	r, _ := setupRouter(t, schedule.Immediate{})
	session := mountSession(t, r).Session

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/chat/sessions/"+session.ID, nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/chat/sessions/"+session.ID, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after close, got %d", resp.Code)
	}
}

func TestClassify(t *testing.T) {
	r, _ := setupRouter(t, schedule.Immediate{})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/classify", strings.NewReader(`{"text":""}`)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/classify", strings.NewReader(`{"text":"I am so happy and grateful"}`)))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var result sentiment.Result
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Category != sentiment.Positive {
		t.Fatalf("expected positive, got %s", result.Category)
	}
}

func TestWebSocketRoundTrip(t *testing.T) {
	r, chatSvc := setupRouter(t, schedule.Immediate{})
	session := mountSession(t, r).Session

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws/" + session.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var frame outgoingMessage
	if err := conn.ReadJSON(&frame); err != nil || frame.Type != "connected" {
		t.Fatalf("expected connected frame, got %+v err=%v", frame, err)
	}

	if err := conn.WriteJSON(map[string]any{"type": "text", "data": map[string]string{"text": "I feel lonely"}}); err != nil {
		t.Fatalf("write: %v", err)
	}

	seen := map[string]bool{}
	for !seen["companion"] {
		frame = outgoingMessage{}
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read: %v (seen %v)", err, seen)
		}
		seen[frame.Type] = true
	}
	if !seen["user"] {
		t.Fatalf("expected user echo before companion reply, saw %v", seen)
	}

	chatSvc.Close(session.ID)
	for {
		frame = outgoingMessage{}
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("expected closed frame: %v", err)
		}
		if frame.Type == "closed" {
			return
		}
	}
}
