// internal/app/system/auth/auth_test.go
package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/clubhub/internal/domain/identity"
)

const testSessionKey = "0123456789abcdef0123456789abcdef"

// signInCookies writes an authenticated session the way a credential
// issuer sharing the session key would, and returns its cookies.
func signInCookies(t *testing.T, id identity.Identity) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signin", nil)
	sess, _ := Store.Get(req, SessionName)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = id.UserID.Hex()
	sess.Values[usernameKey] = id.Username
	sess.Values[emailKey] = id.Email
	sess.Values[adminKey] = id.IsAdmin
	if err := sess.Save(req, rec); err != nil {
		t.Fatalf("save session: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("session save set no cookies")
	}
	return cookies
}

func initTestStore(t *testing.T) {
	t.Helper()
	if err := InitSessionStore(testSessionKey, "", false, zap.NewNop()); err != nil {
		t.Fatalf("InitSessionStore: %v", err)
	}
	t.Cleanup(func() { Store = nil })
}

func TestSessionIdentityRoundTrip(t *testing.T) {
	initTestStore(t)

	id := identity.Identity{
		UserID:   primitive.NewObjectID(),
		Username: "lwade",
		Email:    "lwade@example.edu",
		IsAdmin:  true,
	}
	cookies := signInCookies(t, id)

	// Replay the cookie through the middleware.
	var got identity.Identity
	handler := LoadSessionIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CurrentIdentity(r)
	}))
	req2 := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req2)

	if got.Anonymous() {
		t.Fatal("identity not restored from session")
	}
	if got.UserID != id.UserID || got.Username != id.Username || got.Email != id.Email || !got.IsAdmin {
		t.Fatalf("restored identity mismatch: got %+v want %+v", got, id)
	}
}

func TestSignOutClearsSession(t *testing.T) {
	initTestStore(t)

	id := identity.Identity{UserID: primitive.NewObjectID(), Username: "lwade"}
	cookies := signInCookies(t, id)

	out := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/signout", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	if err := SignOut(out, req2); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	req3 := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range out.Result().Cookies() {
		req3.AddCookie(c)
	}
	var got identity.Identity
	handler := LoadSessionIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CurrentIdentity(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req3)

	if !got.Anonymous() {
		t.Fatalf("expected anonymous identity after sign-out, got %+v", got)
	}
}

func TestRequireSignedIn(t *testing.T) {
	initTestStore(t)

	called := false
	handler := RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/clubs", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous request: got status %d, want 401", rec.Code)
	}
	if called {
		t.Fatal("handler ran for anonymous request")
	}

	id := identity.Identity{UserID: primitive.NewObjectID()}
	req := httptest.NewRequest(http.MethodGet, "/clubs", nil)
	req = withIdentity(req, id)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req)
	if !called {
		t.Fatal("handler did not run for signed-in request")
	}
}

func TestLoadSessionIdentityNoStore(t *testing.T) {
	Store = nil

	handler := LoadSessionIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !CurrentIdentity(r).Anonymous() {
			t.Fatal("expected anonymous identity with no store")
		}
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
