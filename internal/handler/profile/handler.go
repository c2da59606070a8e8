package profile

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/calm-companion/backend/internal/model/profile"
	"github.com/zhouzirui/calm-companion/backend/pkg/utils"
)

// Store 暴露给处理器的画像读取与重置能力
type Store interface {
	Load(ctx context.Context) profile.UserProfile
	Reset(ctx context.Context) error
}

// Handler 用户画像的HTTP处理器
type Handler struct {
	store Store
}

// New 创建画像处理器
func New(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册画像相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.handleGet)
	r.Delete("/profile", h.handleReset)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Load(r.Context()))
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reset(r.Context()); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
