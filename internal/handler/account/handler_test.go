package account

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/calm-companion/backend/internal/model/account"
	accountService "github.com/zhouzirui/calm-companion/backend/internal/service/account"
	"github.com/zhouzirui/calm-companion/backend/internal/storage/kv"
)

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	r := chi.NewRouter()
	New(accountService.NewService(kv.NewMemoryStore(), nil)).RegisterRoutes(r)
	return r
}

func TestAccountLifecycle(t *testing.T) {
	r := setupRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/account", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before sign up, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/account", strings.NewReader(`{"name":"Mia","email":"mia@example.com"}`)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/account", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var user account.DemoUser
	if err := json.Unmarshal(resp.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.Name != "Mia" || user.Email != "mia@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/account", nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/account", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after sign out, got %d", resp.Code)
	}
}

func TestSignUpMissingFields(t *testing.T) {
	r := setupRouter(t)

	for _, body := range []string{`{"name":"","email":"a@b.c"}`, `{"name":"Mia","email":" "}`, `not json`} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/account", strings.NewReader(body)))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, resp.Code)
		}
	}
}
