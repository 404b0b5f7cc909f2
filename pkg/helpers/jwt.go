package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

var ErrTokenKind = errors.New("unexpected token kind")

// JWTManager signs and verifies the access/refresh pair. Each kind has its
// own secret and TTL, and carries its kind in the "typ" claim so a refresh
// token is never accepted as an access token even with shared secrets.
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

var defaultManager *JWTManager

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	m := &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
	defaultManager = m
	return m
}

// DefaultJWT returns the last constructed JWTManager.
func DefaultJWT() *JWTManager { return defaultManager }

type Claims struct {
	UserID      int64    `json:"uid"`
	Username    string   `json:"usr"`
	Authorities []string `json:"auth,omitempty"`
	SessionID   string   `json:"sid"`
	Kind        string   `json:"typ"`
	jwt.RegisteredClaims
}

func (m *JWTManager) GenerateAccessToken(userID int64, username string, authorities []string, sid string) (string, time.Time, error) {
	return m.issue(m.AccessSecret, m.AccessTTL, Claims{
		UserID: userID, Username: username, Authorities: authorities, SessionID: sid, Kind: tokenAccess,
	})
}

// GenerateRefreshToken omits authorities; they are re-resolved on refresh.
func (m *JWTManager) GenerateRefreshToken(userID int64, username, sid string) (string, time.Time, error) {
	return m.issue(m.RefreshSecret, m.RefreshTTL, Claims{
		UserID: userID, Username: username, SessionID: sid, Kind: tokenRefresh,
	})
}

func (m *JWTManager) ParseAccessToken(token string) (*Claims, error) {
	return m.verify(token, m.AccessSecret, tokenAccess)
}

func (m *JWTManager) ParseRefreshToken(token string) (*Claims, error) {
	return m.verify(token, m.RefreshSecret, tokenRefresh)
}

func (m *JWTManager) issue(secret []byte, ttl time.Duration, claims Claims) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", claims.Kind, err)
	}
	return signed, exp, nil
}

func (m *JWTManager) verify(token string, secret []byte, kind string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrTokenKind
	}
	return claims, nil
}
