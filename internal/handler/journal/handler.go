package journal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/calm-companion/backend/internal/model/journal"
	journalService "github.com/zhouzirui/calm-companion/backend/internal/service/journal"
	"github.com/zhouzirui/calm-companion/backend/pkg/utils"
)

// Handler 日记服务的HTTP处理器
type Handler struct {
	journalSvc  *journalService.Service
	recentLimit int
}

// New 创建日记处理器
func New(journalSvc *journalService.Service, recentLimit int) *Handler {
	if recentLimit <= 0 {
		recentLimit = journalService.DefaultRecentLimit
	}
	return &Handler{journalSvc: journalSvc, recentLimit: recentLimit}
}

// RegisterRoutes 注册日记相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/journal/entries", h.handleSave)
	r.Get("/journal/entries", h.handleList)
}

type listResponse struct {
	Entries  []journal.Entry `json:"entries"`
	Total    int             `json:"total"`
	Feedback string          `json:"feedback,omitempty"`
	Pending  bool            `json:"pending"`
}

// handleSave 保存日记，反馈在延迟后生成
func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content string `json:"content"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.journalSvc.Save(r.Context(), payload.Content)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	utils.RespondJSON(w, http.StatusAccepted, entry)
}

// handleList 返回最近的日记以及最新一条反馈
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	feedback, _ := h.journalSvc.LatestFeedback()
	utils.RespondJSON(w, http.StatusOK, listResponse{
		Entries:  h.journalSvc.Recent(h.recentLimit),
		Total:    h.journalSvc.Count(),
		Feedback: feedback,
		Pending:  h.journalSvc.Pending(),
	})
}
