package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/givemapp/givem/internal/model"
	"github.com/givemapp/givem/internal/realtime"
	"github.com/givemapp/givem/internal/session"
	"github.com/givemapp/givem/internal/store"
)

const (
	maxContentLen     = 500
	feedLimit         = 40
	notificationLimit = 20
	directoryLimit    = 200
)

type HomeHandler struct {
	users    *store.UserStore
	kudos    *store.KudosStore
	sessions *session.Manager
	hub      *realtime.Hub
	logger   *slog.Logger
}

func NewHomeHandler(us *store.UserStore, ks *store.KudosStore, sm *session.Manager, hub *realtime.Hub, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{users: us, kudos: ks, sessions: sm, hub: hub, logger: logger}
}

func (h *HomeHandler) broadcast(ev realtime.Event) {
	if h.hub != nil {
		h.hub.Broadcast(ev)
	}
}

type homePayload struct {
	Users         []model.DirectoryEntry `json:"users"`
	UserID        string                 `json:"user_id,omitempty"`
	Latest        []model.FeedItem       `json:"latest"`
	Notifications []model.Notification   `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}

// Home serves the feed payload. It works logged out too: the session is
// read directly, and the notification fields stay empty without one.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	userID := h.sessions.UserID(r)

	users, err := h.users.ListAll(directoryLimit)
	if err != nil {
		h.logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	latest, err := h.kudos.Latest(feedLimit)
	if err != nil {
		h.logger.Error("list feed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	payload := homePayload{
		Users:         users,
		UserID:        userID,
		Latest:        latest,
		Notifications: []model.Notification{},
	}
	if payload.Users == nil {
		payload.Users = []model.DirectoryEntry{}
	}
	if payload.Latest == nil {
		payload.Latest = []model.FeedItem{}
	}

	if userID != "" {
		notifs, err := h.kudos.NotificationsFor(userID, notificationLimit)
		if err != nil {
			h.logger.Error("list notifications", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal error")
			return
		}
		if notifs != nil {
			payload.Notifications = notifs
		}
		count, err := h.kudos.UnreadCount(userID)
		if err != nil {
			h.logger.Error("unread count", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal error")
			return
		}
		payload.UnreadCount = count
	}

	writeJSON(w, http.StatusOK, payload)
}

// Action dispatches the home form post on its _action discriminator.
// The auth gate has already run; the user id comes from the context.
func (h *HomeHandler) Action(w http.ResponseWriter, r *http.Request) {
	userID := session.UserIDFromContext(r.Context())

	switch r.FormValue("_action") {
	case "create":
		h.createKudos(w, r, userID)
	case "delete":
		h.deleteKudos(w, r, userID)
	case "mark-read":
		h.markRead(w, r, userID)
	default:
		writeError(w, http.StatusBadRequest, "Unknown action")
	}
}

func (h *HomeHandler) createKudos(w http.ResponseWriter, r *http.Request, userID string) {
	recipientID := r.FormValue("recipientId")
	content := strings.TrimSpace(r.FormValue("content"))
	color := model.ParseBgColor(r.FormValue("backgroundColor"))
	emoji := model.ParseEmojiType(r.FormValue("emojisType"))

	if recipientID == "" || content == "" {
		writeError(w, http.StatusBadRequest, "Recipient and message are required.")
		return
	}
	if recipientID == userID {
		writeError(w, http.StatusBadRequest, "You can't give kudos to yourself.")
		return
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		writeError(w, http.StatusBadRequest, "Message too long (max 500 chars).")
		return
	}

	k, err := h.kudos.Create(userID, recipientID, content, color, emoji)
	if err != nil {
		// Detail swallowed on purpose; the log has it
		h.logger.Error("create kudos", "error", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong, try again.")
		return
	}

	h.broadcast(realtime.KudosEvent("created", k.ID))
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *HomeHandler) deleteKudos(w http.ResponseWriter, r *http.Request, userID string) {
	kudosID := r.FormValue("kudosId")
	if kudosID == "" {
		writeError(w, http.StatusBadRequest, "Missing kudos id")
		return
	}

	deleted, err := h.kudos.Delete(kudosID, userID)
	if err != nil {
		h.logger.Error("delete kudos", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if deleted {
		h.broadcast(realtime.KudosEvent("deleted", kudosID))
	}
	// Wrong id and wrong author both land here silently
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *HomeHandler) markRead(w http.ResponseWriter, r *http.Request, userID string) {
	if _, err := h.kudos.MarkAllRead(userID); err != nil {
		h.logger.Error("mark read", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// ListUsers serves the directory for the compose form.
func (h *HomeHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAll(directoryLimit)
	if err != nil {
		h.logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if users == nil {
		users = []model.DirectoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}
