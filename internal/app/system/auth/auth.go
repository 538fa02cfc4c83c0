// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/clubhub/internal/domain/identity"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants & globals                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	SessionName = "clubhub-session"

	isAuthKey   = "is_authenticated"
	userIDKey   = "user_id"
	usernameKey = "username"
	emailKey    = "user_email"
	adminKey    = "is_admin"
)

// Store is initialised once via InitSessionStore.
var Store *sessions.CookieStore

/*─────────────────────────────────────────────────────────────────────────────*
| Current-identity helpers                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentIdentityKey ctxKey = "currentIdentity"

// CurrentIdentity returns the verified caller from the request context.
// When the request carries no session, it returns the anonymous identity.
func CurrentIdentity(r *http.Request) identity.Identity {
	if id, ok := r.Context().Value(currentIdentityKey).(identity.Identity); ok {
		return id
	}
	return identity.Identity{}
}

// LoadSessionIdentity injects the caller's identity into context if they
// are signed in. If the session store has not been initialized yet, it is
// a no-op.
func LoadSessionIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Store == nil {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := Store.Get(r, SessionName)
		if err != nil {
			// A decode failure means a stale or tampered cookie (for
			// example after a session-key rotation); Get still returns a
			// fresh session, so the caller simply proceeds anonymous.
			if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
				zap.L().Warn("session cookie invalid, treating as anonymous", zap.Error(err))
			} else {
				zap.L().Error("session store error, treating as anonymous", zap.Error(err))
			}
		}

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			uid, err := primitive.ObjectIDFromHex(getString(sess, userIDKey))
			if err == nil {
				id := identity.Identity{
					UserID:   uid,
					Username: getString(sess, usernameKey),
					Email:    getString(sess, emailKey),
					IsAdmin:  getBool(sess, adminKey),
				}
				r = withIdentity(r, id)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is an identity in context (set by
// LoadSessionIdentity). Callers without one get a plain 401; this service
// speaks JSON, so there are no login redirects.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentIdentity(r).Anonymous() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SignOut clears the caller's session.
func SignOut(w http.ResponseWriter, r *http.Request) error {
	if Store == nil {
		return nil
	}
	sess, _ := Store.Get(r, SessionName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// InitSessionStore initializes the global session Store using the provided
// session key and domain. The `secure` flag controls whether cookies are
// marked Secure and which SameSite mode is used.
//
// In production (secure=true), cookies should be Secure + SameSite=None
// (for cross-site use with HTTPS).
// In local dev over http://localhost, use secure=false so cookies are accepted.
func InitSessionStore(sessionKey, domain string, secure bool, logger *zap.Logger) error {
	if sessionKey == "" {
		return fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}

	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}

	store.Options = opts
	Store = store

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return nil
}

// helpers

func withIdentity(r *http.Request, id identity.Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentIdentityKey, id))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func getBool(s *sessions.Session, key string) bool {
	v, _ := s.Values[key].(bool)
	return v
}
