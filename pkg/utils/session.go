package utils

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	SessionCookieName   = "ai-travel-planning"
	ItineraryCookieName = "ai-travel-planning-itinerary"

	SessionTTL   = 7 * 24 * time.Hour
	ItineraryTTL = 24 * time.Hour
)

var ErrInvalidSession = errors.New("invalid session")

// SessionUser is the user record carried inside the session cookie.
type SessionUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type SessionClaims struct {
	User   *SessionUser `json:"user,omitempty"`
	TripID string       `json:"trip_id,omitempty"`
	jwt.RegisteredClaims
}

// SessionSealer signs claims as an HS256 JWT and encrypts the token with
// XChaCha20-Poly1305, so cookie contents are neither readable nor forgeable.
type SessionSealer struct {
	signingKey []byte
	aead       cipher.AEAD
}

func NewSessionSealer(secret string) (*SessionSealer, error) {
	if len(secret) < 32 {
		return nil, errors.New("session secret must be at least 32 characters")
	}

	encKey := sha256.Sum256([]byte("enc:" + secret))
	aead, err := chacha20poly1305.NewX(encKey[:])
	if err != nil {
		return nil, fmt.Errorf("init session cipher: %w", err)
	}
	signKey := sha256.Sum256([]byte("sig:" + secret))

	return &SessionSealer{signingKey: signKey[:], aead: aead}, nil
}

func (s *SessionSealer) Seal(claims *SessionClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(token)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(token), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (s *SessionSealer) Open(value string) (*SessionClaims, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, ErrInvalidSession
	}
	ns := s.aead.NonceSize()
	if len(raw) < ns+s.aead.Overhead() {
		return nil, ErrInvalidSession
	}

	plain, err := s.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return nil, ErrInvalidSession
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(string(plain), claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// WriteCookie sets an httpOnly, SameSite=Lax cookie on the response.
func WriteCookie(c *gin.Context, name, value string, ttl time.Duration, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearCookie(c *gin.Context, name string, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
