package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/givemapp/givem/internal/database"
	"github.com/givemapp/givem/internal/session"
	"github.com/givemapp/givem/internal/store"
)

func setupAuthHandler(t *testing.T) (*AuthHandler, *store.UserStore, *session.Manager) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	us := store.NewUserStore(db)
	sm := session.NewManager("test-secret", false)
	return NewAuthHandler(us, sm, slog.Default()), us, sm
}

func postForm(t *testing.T, h http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestSignupValidation(t *testing.T) {
	h, _, _ := setupAuthHandler(t)

	cases := []struct {
		name string
		form url.Values
	}{
		{"missing all", url.Values{}},
		{"missing name", url.Values{"email": {"a@b.co"}, "password": {"longenough"}}},
		{"bad email", url.Values{"name": {"A"}, "email": {"not-an-email"}, "password": {"longenough"}}},
		{"short password", url.Values{"name": {"A"}, "email": {"a@b.co"}, "password": {"short"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postForm(t, h.Signup, "/signup", tc.form)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestSignupSuccess(t *testing.T) {
	h, us, sm := setupAuthHandler(t)

	rec := postForm(t, h.Signup, "/signup", url.Values{
		"name":     {"Alice"},
		"email":    {"  Alice@Example.COM  "},
		"password": {"longenough"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303, body %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/home" {
		t.Errorf("Location = %q, want /home", loc)
	}

	// Email was normalized before the insert
	u, err := us.GetByEmail("alice@example.com")
	if err != nil || u == nil {
		t.Fatalf("normalized user lookup: user=%v err=%v", u, err)
	}

	// The session cookie round-trips to the new user's id
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	req := httptest.NewRequest("GET", "/home", nil)
	req.AddCookie(cookies[0])
	if got := sm.UserID(req); got != u.ID {
		t.Errorf("session user id = %q, want %q", got, u.ID)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	h, _, _ := setupAuthHandler(t)

	form := url.Values{
		"name":     {"Alice"},
		"email":    {"alice@example.com"},
		"password": {"longenough"},
	}
	if rec := postForm(t, h.Signup, "/signup", form); rec.Code != http.StatusSeeOther {
		t.Fatalf("first signup status = %d, want 303", rec.Code)
	}

	rec := postForm(t, h.Signup, "/signup", form)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already taken") {
		t.Errorf("body = %q, want duplicate-email message", rec.Body.String())
	}
}

func TestLogin(t *testing.T) {
	h, _, sm := setupAuthHandler(t)

	if rec := postForm(t, h.Signup, "/signup", url.Values{
		"name":     {"Alice"},
		"email":    {"alice@example.com"},
		"password": {"longenough"},
	}); rec.Code != http.StatusSeeOther {
		t.Fatalf("signup status = %d, want 303", rec.Code)
	}

	t.Run("missing fields", func(t *testing.T) {
		rec := postForm(t, h.Login, "/login", url.Values{"email": {"alice@example.com"}})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := postForm(t, h.Login, "/login", url.Values{
			"email": {"nobody@example.com"}, "password": {"longenough"},
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := postForm(t, h.Login, "/login", url.Values{
			"email": {"alice@example.com"}, "password": {"wrong-password"},
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		// Same message as unknown email; no hint which part was wrong
		if !strings.Contains(rec.Body.String(), "Invalid email or password.") {
			t.Errorf("body = %q, want generic credentials message", rec.Body.String())
		}
	})

	t.Run("success", func(t *testing.T) {
		rec := postForm(t, h.Login, "/login", url.Values{
			"email": {"ALICE@example.com"}, "password": {"longenough"},
		})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303, body %s", rec.Code, rec.Body.String())
		}
		cookies := rec.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("expected 1 cookie, got %d", len(cookies))
		}
		req := httptest.NewRequest("GET", "/home", nil)
		req.AddCookie(cookies[0])
		if sm.UserID(req) == "" {
			t.Error("login cookie did not round-trip to a user id")
		}
	})
}

func TestLogout(t *testing.T) {
	h, _, sm := setupAuthHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logout", nil)
	h.Logout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 clearing cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("clearing cookie MaxAge = %d, want -1", cookies[0].MaxAge)
	}

	verify := httptest.NewRequest("GET", "/home", nil)
	verify.AddCookie(cookies[0])
	if got := sm.UserID(verify); got != "" {
		t.Errorf("UserID after logout = %q, want empty", got)
	}
}
