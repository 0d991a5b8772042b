package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Thonzy/Inventory-App/internal/models"
)

type fakeResolver struct {
	user models.User
	err  error
}

func (f *fakeResolver) GetUserByID(id string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	return f.user, nil
}

func protectedHandler(t *testing.T, wantUserID string, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		user, ok := CurrentUser(r.Context())
		if !ok {
			t.Error("expected user in context")
			return
		}
		if user.ID != wantUserID {
			t.Errorf("context user ID: got %q want %q", user.ID, wantUserID)
		}
	})
}

func TestRequireAuth_Success(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret")
	tok, err := issuer.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	resolver := &fakeResolver{user: models.User{ID: "u1", Email: "a@x.com"}}
	called := false
	handler := RequireAuth(issuer, resolver)(protectedHandler(t, "u1", &called))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusOK)
	}
	if !called {
		t.Fatal("downstream handler was not called")
	}
}

func TestRequireAuth_BearerFallback(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret")
	tok, err := issuer.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	resolver := &fakeResolver{user: models.User{ID: "u1"}}
	called := false
	handler := RequireAuth(issuer, resolver)(protectedHandler(t, "u1", &called))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("downstream handler was not called")
	}
}

// Every rejection path must produce the same status and body.
func TestRequireAuth_UniformRejection(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret")
	goodToken, err := issuer.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	otherToken, err := NewTokenIssuer("other-secret").Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	tests := []struct {
		name     string
		token    string
		resolver *fakeResolver
	}{
		{"missing token", "", &fakeResolver{user: models.User{ID: "u1"}}},
		{"bad signature", otherToken, &fakeResolver{user: models.User{ID: "u1"}}},
		{"garbage token", "garbage", &fakeResolver{user: models.User{ID: "u1"}}},
		{"user deleted", goodToken, &fakeResolver{err: errors.New("no such user")}},
	}

	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := RequireAuth(issuer, tt.resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.token})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if called {
				t.Fatal("downstream handler must not run")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
			}
			bodies = append(bodies, rec.Body.String())
		})
	}

	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Fatalf("rejection bodies differ: %q vs %q", bodies[0], bodies[i])
		}
	}
}

func TestSessionCookie_AttachExtractClear(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	AttachSession(rec, "tok-value")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || c.Value != "tok-value" {
		t.Fatalf("unexpected cookie: %+v", c)
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteNoneMode || c.Path != "/" {
		t.Fatalf("cookie flags wrong: %+v", c)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	if got := ExtractSession(req); got != "tok-value" {
		t.Fatalf("ExtractSession: got %q", got)
	}

	rec = httptest.NewRecorder()
	ClearSession(rec)
	c = rec.Result().Cookies()[0]
	if c.Value != "" || c.MaxAge >= 0 {
		t.Fatalf("ClearSession must expire the cookie: %+v", c)
	}
}
