package security

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// SessionTokens issues and reads the signed cookie that names a browser
// session. The cookie carries only the session id; everything else lives
// in the session store.
type SessionTokens struct {
	Auth       *jwtauth.JWTAuth
	ttl        time.Duration
	cookieName string
	secure     bool
}

func NewSessionTokens(secret []byte, ttl time.Duration, cookieName string, secure bool) *SessionTokens {
	return &SessionTokens{
		Auth:       jwtauth.New("HS256", secret, nil),
		ttl:        ttl,
		cookieName: cookieName,
		secure:     secure,
	}
}

func (s *SessionTokens) TTL() time.Duration {
	return s.ttl
}

func (s *SessionTokens) CookieName() string {
	return s.cookieName
}

func (s *SessionTokens) GenerateToken(sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": time.Now().Add(s.ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	_, tokenString, err := s.Auth.Encode(claims)
	return tokenString, err
}

// TokenFromCookie is a jwtauth token finder for the session cookie.
func (s *SessionTokens) TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Verifier puts the verified session token, if any, into the request
// context for jwtauth.FromContext.
func (s *SessionTokens) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verify(s.Auth, s.TokenFromCookie)
}

func (s *SessionTokens) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *SessionTokens) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func GetSessionIDFromClaims(claims jwt.MapClaims) (string, error) {
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errors.New("sid claim is missing or not a string")
	}
	return sid, nil
}
