package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/tokens"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

type TokenRepo interface {
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error)
	RevokeRefreshByHash(ctx context.Context, tokenHash string) error
	RotateRefreshToken(ctx context.Context, oldJTI string, next *models.RefreshToken) error
}

type TokenService struct {
	Repo          TokenRepo
	Users         UserFinder
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL <= 0 {
		return 15 * time.Minute
	}
	return s.AccessTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.RefreshTTL
}

// sign builds a pair without persisting anything.
func (s *TokenService) sign(userID uint, role string) (*transport.TokenPair, *models.RefreshToken, error) {
	now := time.Now()
	subject := strconv.FormatUint(uint64(userID), 10)

	accessExp := now.Add(s.accessTTL())
	access, err := tokens.SignAccess(subject, role, accessExp, s.JWTSecret)
	if err != nil {
		return nil, nil, err
	}

	refreshExp := now.Add(s.refreshTTL())
	refresh, jti, err := tokens.SignRefresh(subject, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, nil, err
	}

	pair := &transport.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		IsAdmin:      role == models.RoleAdmin,
	}
	stored := &models.RefreshToken{
		JTI:       jti,
		Token:     tokens.Sha256Hex(refresh),
		UserID:    userID,
		Role:      role,
		ExpiresAt: refreshExp.Unix(),
	}
	return pair, stored, nil
}

func (s *TokenService) Issue(ctx context.Context, userID uint, role string) (*transport.TokenPair, error) {
	pair, stored, err := s.sign(userID, role)
	if err != nil {
		logging.FromContext(ctx).Error("issue_token_error", "status", 500, "user_id", userID, "error", err)
		return nil, err
	}
	if err := s.Repo.CreateRefreshToken(ctx, stored); err != nil {
		logging.FromContext(ctx).Error("issue_token_error", "status", 500, "reason", "cannot store refresh token", "error", err)
		return nil, err
	}
	return pair, nil
}

func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*transport.TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "token.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		l.Warn("refresh_error", "status", 401, "reason", "bad refresh token", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	stored, err := s.Repo.FindRefreshByJTI(ctx, claims.ID)
	if err != nil {
		l.Warn("refresh_error", "status", 401, "reason", "refresh token not found", "jti", claims.ID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}
	if stored.Token != tokens.Sha256Hex(refreshToken) {
		l.Warn("refresh_error", "status", 401, "reason", "refresh token mismatch", "jti", claims.ID)
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.Users.FindByID(ctx, stored.UserID)
	if err != nil {
		l.Warn("refresh_error", "status", 401, "reason", "user is gone", "user_id", stored.UserID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	pair, next, err := s.sign(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, next); err != nil {
		l.Warn("refresh_error", "status", 401, "reason", "rotation failed", "jti", claims.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	l.Info("refresh_success", "user_id", stored.UserID)
	return pair, nil
}

func (s *TokenService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshByHash(ctx, tokens.Sha256Hex(refreshToken))
}
