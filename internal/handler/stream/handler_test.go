package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/calm-companion/backend/internal/service/chat"
	profilesvc "github.com/zhouzirui/calm-companion/backend/internal/service/profile"
	"github.com/zhouzirui/calm-companion/backend/internal/service/response"
	"github.com/zhouzirui/calm-companion/backend/internal/service/schedule"
	"github.com/zhouzirui/calm-companion/backend/internal/storage/kv"
)

func newChatService(t *testing.T) *chat.Service {
	t.Helper()
	picker := schedule.Fixed(0)
	selector, err := response.NewSelector(context.Background(), picker)
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	return chat.NewService(profilesvc.NewStore(kv.NewMemoryStore()), selector, chat.Options{
		Scheduler: schedule.Immediate{},
		Picker:    picker,
	})
}

func TestStreamUnknownSession(t *testing.T) {
	r := chi.NewRouter()
	New(newChatService(t)).RegisterRoutes(r)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/chat/sessions/missing/stream", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestStreamReplaysTranscriptAndEndsOnClose(t *testing.T) {
	svc := newChatService(t)
	ctx := context.Background()
	session, _, err := svc.Mount(ctx)
	if err != nil {
		t.Fatalf("Mount err: %v", err)
	}

	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)

	go func() {
		time.Sleep(50 * time.Millisecond)
		svc.Close(session.ID)
	}()

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/chat/sessions/"+session.ID+"/stream", nil))

	body := resp.Body.String()
	if !strings.Contains(body, "event: message") || !strings.Contains(body, chat.FirstTimeWelcome) {
		t.Fatalf("expected welcome replay, got %q", body)
	}
	if !strings.Contains(body, "event: closed") {
		t.Fatalf("expected closed event, got %q", body)
	}
	if got := resp.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("unexpected content type %q", got)
	}
}
