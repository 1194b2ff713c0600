package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/utils"
)

// AuthConfig holds token lifetimes and hashing cost.
type AuthConfig struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// Session is the result of a successful register, login or refresh.
type Session struct {
	User    model.User
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// AuthService registers owner accounts and issues token pairs. Every
// account is its own tenant; registration seeds the default labels.
type AuthService struct {
	users  repository.UserStore
	tokens repository.TokenStore
	labels *LabelService
	cfg    AuthConfig
	log    *zap.Logger
}

func NewAuthService(users repository.UserStore, tokens repository.TokenStore, labels *LabelService, cfg AuthConfig, log *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, labels: labels, cfg: cfg, log: orNop(log)}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if a, err := mail.ParseAddress(email); err != nil || a.Address != email {
		return nil, ErrValidation.withf("invalid email")
	}
	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if errors.Is(err, utils.ErrWeakPassword) {
		return nil, ErrValidation.withf("%v", err)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.users.CreateUser(ctx, email, hash, model.RoleOwner)
	if errors.Is(err, repository.ErrEmailExists) {
		return nil, ErrEmailRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if s.labels != nil {
		if err := s.labels.SeedDefaults(ctx, id); err != nil {
			return nil, err
		}
	}
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	s.log.Info("owner registered", zap.Uint64("owner_id", id))
	return s.issue(ctx, u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCreds
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCreds
	}
	return s.issue(ctx, u)
}

// Refresh exchanges a live refresh token for a new pair. The presented
// token is revoked.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*Session, error) {
	hash := utils.HashRefreshRaw(strings.TrimSpace(raw))
	userID, err := s.tokens.ValidateRefresh(ctx, hash)
	if errors.Is(err, repository.ErrInvalidRefresh) {
		return nil, ErrInvalidCreds.withf("invalid refresh token")
	}
	if err != nil {
		return nil, fmt.Errorf("validate refresh: %w", err)
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return nil, fmt.Errorf("revoke refresh: %w", err)
	}
	u, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !u.IsActive) {
		return nil, ErrInvalidCreds.withf("invalid refresh token")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return s.issue(ctx, u)
}

// Logout revokes one refresh token.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	hash := utils.HashRefreshRaw(strings.TrimSpace(raw))
	if _, err := s.tokens.ValidateRefresh(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrInvalidRefresh) {
			return ErrInvalidCreds.withf("invalid refresh token")
		}
		return fmt.Errorf("validate refresh: %w", err)
	}
	return s.tokens.RevokeByHash(ctx, hash)
}

// LogoutAll revokes every refresh token of the owner.
func (s *AuthService) LogoutAll(ctx context.Context, ownerID uint64) error {
	return s.tokens.RevokeAllForUser(ctx, ownerID)
}

func (s *AuthService) issue(ctx context.Context, u model.User) (*Session, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, u.Role, s.cfg.AccessTTLMin)
	if err != nil {
		return nil, fmt.Errorf("issue access: %w", err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return nil, fmt.Errorf("issue refresh: %w", err)
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return nil, fmt.Errorf("store refresh: %w", err)
	}
	return &Session{User: u, Access: access, Refresh: refresh}, nil
}
