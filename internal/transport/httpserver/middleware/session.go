package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cashbook-go/internal/config"
	"cashbook-go/pkg/logger"
)

const loginPath = "/auth/login"

// Prefixes outside the gate. Checked before the protected set so /auth and
// /api/auth can never be captured by the /api rule.
var publicPrefixes = []string{"/auth", "/api/auth", "/api/health", "/static", "/favicon.ico"}

// Prefixes that require a session. Page paths redirect to the login entry,
// API paths answer 401.
var protectedPrefixes = []string{"/app", "/api"}

type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

type SessionAuth struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	log        logger.Logger
}

func NewSessionAuth(cfg config.SessionConfig, log logger.Logger) *SessionAuth {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "session"
	}

	return &SessionAuth{
		secret:     []byte(cfg.Secret),
		ttl:        ttl,
		cookieName: cookieName,
		secure:     cfg.SecureCookie,
		log:        log,
	}
}

func (a *SessionAuth) IssueToken(userID string) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(a.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// verifyToken returns the user id carried by a token. Any parse or
// validation failure means no identity; the gate never fails open.
func (a *SessionAuth) verifyToken(raw string) (string, bool) {
	parsed, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", false
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}

func (a *SessionAuth) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *SessionAuth) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Gate runs once per inbound request, before any handler. Public prefixes
// pass through (with the session attached when one happens to be valid);
// protected prefixes require one; everything else is untouched.
func (a *SessionAuth) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if matchesAny(path, publicPrefixes) {
			if userID, ok := a.verifyToken(a.requestToken(r)); ok {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
			return
		}

		if !matchesAny(path, protectedPrefixes) {
			next.ServeHTTP(w, r)
			return
		}

		raw := a.requestToken(r)
		userID, ok := a.verifyToken(raw)
		if !ok {
			if raw != "" {
				a.log.Debug("gate: rejected invalid session token", "path", path)
			}
			if strings.HasPrefix(path, "/api") {
				unauthorized(w)
				return
			}
			a.redirectToLogin(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func (a *SessionAuth) requestToken(r *http.Request) string {
	if cookie, err := r.Cookie(a.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token
	}
	return ""
}

func (a *SessionAuth) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	callback := r.URL.Path
	if r.URL.RawQuery != "" {
		callback += "?" + r.URL.RawQuery
	}
	target := loginPath + "?callback_url=" + url.QueryEscape(callback)
	http.Redirect(w, r, target, http.StatusFound)
}

func matchesAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

type contextKey int

const userIDKey contextKey = iota

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    "invalid_token",
			"message": "invalid token",
		},
	})
}
