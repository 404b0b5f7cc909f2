package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-management/internal/domain/entity"
	"github.com/oksasatya/user-management/pkg/helpers"
)

var ErrInvalidSession = errors.New("invalid session")

const sessionTTL = 24 * time.Hour

// AuthService authenticates credentials against the AuthorityResolver and
// manages token pairs backed by a Redis session.
type AuthService struct {
	Resolver *AuthorityResolver
	Encoder  PasswordEncoder
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Logger   *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewAuthService(resolver *AuthorityResolver, encoder PasswordEncoder, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Resolver: resolver,
		Encoder:  encoder,
		JWT:      jwt,
		Redis:    rdb,
		Logger:   logger,
	}
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Authenticate resolves the principal and verifies the password hash.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*entity.Principal, error) {
	p, err := s.Resolver.Resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	if !s.Encoder.Matches(p.Password, password) {
		return nil, InvalidCredential(MsgBadCredentials)
	}
	return p, nil
}

// Login authenticates and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*entity.Principal, TokenPair, error) {
	p, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, p)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return p, pair, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *AuthService) IssueTokens(ctx context.Context, p *entity.Principal) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.sign(p, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", p.UserID).Error("generate tokens failed")
		}
		return TokenPair{}, err
	}
	if s.Redis != nil {
		fields := map[string]any{
			"user_id":     p.UserID,
			"username":    p.Username,
			"authorities": strings.Join(p.Authorities, ","),
			"sid":         sid,
			"created_at":  nowRFC3339(),
		}
		key := helpers.SessionKey(p.UserID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return pair, nil
}

// Refresh validates a refresh token against the stored session, re-resolves
// the principal so role changes take effect, and rotates the session id.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entity.Principal, TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidSession
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, helpers.SessionKey(claims.UserID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return nil, TokenPair{}, ErrInvalidSession
		}
	}
	p, err := s.Resolver.Resolve(ctx, claims.Username)
	if err != nil || p.UserID != claims.UserID {
		return nil, TokenPair{}, ErrInvalidSession
	}
	pair, err := s.IssueTokens(ctx, p)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return p, pair, nil
}

// Logout drops the session so outstanding tokens stop working.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, helpers.SessionKey(userID)).Err()
}

func (s *AuthService) sign(p *entity.Principal, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(p.UserID, p.Username, p.Authorities, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(p.UserID, p.Username, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// PrincipalFromSession rebuilds a principal from the Redis session hash.
func PrincipalFromSession(data map[string]string) (*entity.Principal, bool) {
	id, err := strconv.ParseInt(data["user_id"], 10, 64)
	if err != nil {
		return nil, false
	}
	var auths []string
	if a := data["authorities"]; a != "" {
		auths = strings.Split(a, ",")
	}
	return &entity.Principal{
		UserID:      id,
		Username:    data["username"],
		Authorities: entity.NewAuthoritySet(auths...),
	}, true
}
