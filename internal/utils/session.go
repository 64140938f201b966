package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ekarabulut/vblog/internal/model"
)

// ErrInvalidSession is returned for tokens that are expired, tampered
// with or signed with an unexpected method.
var ErrInvalidSession = errors.New("invalid session token")

// Session is the authenticated identity carried by the session cookie.
type Session struct {
	UserID   uuid.UUID
	Username string
	Role     model.Role
	Expires  time.Time
}

// NewSessionToken signs an HS256 JWT for the given user. The token lives
// in an HTTP-only cookie; ttl controls both the claim expiry and the
// cookie lifetime.
func NewSessionToken(secret string, u model.User, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub":      u.ID.String(),
		"username": u.Username,
		"role":     string(u.Role),
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseSessionToken validates a session token and extracts its identity.
func ParseSessionToken(secret, raw string) (Session, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Session{}, ErrInvalidSession
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrInvalidSession
	}

	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return Session{}, ErrInvalidSession
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if !model.ValidRole(model.Role(role)) {
		return Session{}, ErrInvalidSession
	}
	var exp time.Time
	if v, ok := claims["exp"].(float64); ok {
		exp = time.Unix(int64(v), 0)
	}
	return Session{
		UserID:   id,
		Username: username,
		Role:     model.Role(role),
		Expires:  exp,
	}, nil
}
