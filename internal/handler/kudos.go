package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/givemapp/givem/internal/model"
	"github.com/givemapp/givem/internal/realtime"
	"github.com/givemapp/givem/internal/session"
	"github.com/givemapp/givem/internal/store"
)

type KudosHandler struct {
	kudos  *store.KudosStore
	hub    *realtime.Hub
	logger *slog.Logger
}

func NewKudosHandler(ks *store.KudosStore, hub *realtime.Hub, logger *slog.Logger) *KudosHandler {
	return &KudosHandler{kudos: ks, hub: hub, logger: logger}
}

type kudosPatchRequest struct {
	Content         *string `json:"content"`
	BackgroundColor *string `json:"backgroundColor"`
	EmojisType      *string `json:"emojisType"`
}

// Update applies a partial edit to an author-owned kudos. Ownership is a
// predicate inside the store, so a wrong id and someone else's kudos are
// both a plain 404.
func (h *KudosHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := session.UserIDFromContext(r.Context())
	kudosID := r.PathValue("id")

	var req kudosPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var patch store.KudosPatch
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			writeError(w, http.StatusBadRequest, "Message is required.")
			return
		}
		if utf8.RuneCountInString(content) > maxContentLen {
			writeError(w, http.StatusBadRequest, "Message too long (max 500 chars).")
			return
		}
		patch.Content = &content
	}
	if req.BackgroundColor != nil {
		color := model.ParseBgColor(*req.BackgroundColor)
		patch.BackgroundColor = &color
	}
	if req.EmojisType != nil {
		emoji := model.ParseEmojiType(*req.EmojisType)
		patch.EmojisType = &emoji
	}

	k, err := h.kudos.Update(kudosID, userID, patch)
	if err != nil {
		h.logger.Error("update kudos", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if k == nil {
		writeError(w, http.StatusNotFound, "kudos not found")
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(realtime.KudosEvent("updated", k.ID))
	}
	writeJSON(w, http.StatusOK, k)
}
