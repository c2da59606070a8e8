package account

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	accountService "github.com/zhouzirui/calm-companion/backend/internal/service/account"
	"github.com/zhouzirui/calm-companion/backend/pkg/utils"
)

// Handler 演示账号（无鉴权）的HTTP处理器
type Handler struct {
	accountSvc *accountService.Service
}

// New 创建账号处理器
func New(accountSvc *accountService.Service) *Handler {
	return &Handler{accountSvc: accountSvc}
}

// RegisterRoutes 注册账号相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/account", h.handleSignUp)
	r.Get("/account", h.handleCurrent)
	r.Delete("/account", h.handleSignOut)
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.accountSvc.SignUp(r.Context(), payload.Name, payload.Email)
	switch {
	case errors.Is(err, accountService.ErrNameRequired), errors.Is(err, accountService.ErrEmailRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	user, err := h.accountSvc.Current(r.Context())
	switch {
	case errors.Is(err, accountService.ErrNotSignedIn):
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.accountSvc.SignOut(r.Context()); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
