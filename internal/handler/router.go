package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/calm-companion/backend/internal/handler/account"
	"github.com/zhouzirui/calm-companion/backend/internal/handler/chat"
	"github.com/zhouzirui/calm-companion/backend/internal/handler/journal"
	"github.com/zhouzirui/calm-companion/backend/internal/handler/profile"
	"github.com/zhouzirui/calm-companion/backend/internal/handler/stream"
	middlewarePkg "github.com/zhouzirui/calm-companion/backend/internal/middleware"
	accountService "github.com/zhouzirui/calm-companion/backend/internal/service/account"
	chatService "github.com/zhouzirui/calm-companion/backend/internal/service/chat"
	journalService "github.com/zhouzirui/calm-companion/backend/internal/service/journal"
	"github.com/zhouzirui/calm-companion/backend/pkg/utils"
)

// Deps 路由依赖的服务集合
type Deps struct {
	Chat          *chatService.Service
	Journal       *journalService.Service
	Profiles      profile.Store
	Accounts      *accountService.Service
	AllowedOrigin string
	RecentLimit   int
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigin))

	r.Route("/api", func(api chi.Router) {
		api.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		chat.New(deps.Chat).RegisterRoutes(api)
		chat.NewWebSocketHandler(deps.Chat).RegisterWebSocketRoutes(api)
		stream.New(deps.Chat).RegisterRoutes(api)

		journal.New(deps.Journal, deps.RecentLimit).RegisterRoutes(api)
		profile.New(deps.Profiles).RegisterRoutes(api)
		account.New(deps.Accounts).RegisterRoutes(api)
	})

	return r
}
