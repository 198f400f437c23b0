package handler

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/givemapp/givem/internal/password"
	"github.com/givemapp/givem/internal/session"
	"github.com/givemapp/givem/internal/store"
)

var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLen = 8

type AuthHandler struct {
	users    *store.UserStore
	sessions *session.Manager
	logger   *slog.Logger
}

func NewAuthHandler(us *store.UserStore, sm *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: us, sessions: sm, logger: logger}
}

// Signup creates an account and logs the user straight in. A duplicate
// email is a 409; the unique constraint decides, not a pre-check.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	pass := r.FormValue("password")

	if name == "" || email == "" || pass == "" {
		writeError(w, http.StatusBadRequest, "All fields are required.")
		return
	}
	if !emailRE.MatchString(email) {
		writeError(w, http.StatusBadRequest, "Please enter a valid email.")
		return
	}
	if len(pass) < minPasswordLen {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters.")
		return
	}

	userID, err := h.users.Create(name, email, pass)
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if userID == "" {
		writeError(w, http.StatusConflict, "That email is already taken.")
		return
	}

	if err := h.sessions.Issue(w, userID); err != nil {
		h.logger.Error("issue session", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// Login checks credentials. Wrong email and wrong password get the same
// 401 so the response does not reveal which one it was.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	pass := r.FormValue("password")

	if email == "" || pass == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	user, err := h.users.GetByEmail(email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	valid := user != nil && password.Verify(pass, user.Password)
	if !valid {
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	if err := h.sessions.Issue(w, user.ID); err != nil {
		h.logger.Error("issue session", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// Logout clears the session cookie and sends the client to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
