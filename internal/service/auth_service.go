package service

import (
	"context"
	"errors"
	"time"

	"workforce/internal/dto"
	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/session"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const msgBadCredentials = "invalid username or password"

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, claims *session.Claims) (*dto.MeResponse, error)
	Refresh(ctx context.Context, claims *session.Claims) (*dto.LoginResponse, error)
	Logout(ctx context.Context, claims *session.Claims) error
}

type authService struct {
	users   repository.UserRepository
	issuer  *session.Issuer
	revoker TokenRevoker
}

func NewAuthService(users repository.UserRepository, issuer *session.Issuer, revoker TokenRevoker) AuthService {
	return &authService{users: users, issuer: issuer, revoker: revoker}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	username := NormalizeUsername(req.Username)
	if username == "" || req.Password == "" {
		return nil, badRequest("username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, unauthorized(msgBadCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(req.Password, user.PasswordHash) {
		log.Warn().Str("username", username).Msg("login: bad password")
		return nil, unauthorized(msgBadCredentials)
	}
	return s.issue(user)
}

func (s *authService) Me(ctx context.Context, claims *session.Claims) (*dto.MeResponse, error) {
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &dto.MeResponse{User: user, Session: sessionResponse(claims)}, nil
}

// Refresh re-reads the user so that role, company and flag changes made
// since login reach the new token. The old token is revoked.
func (s *authService) Refresh(ctx context.Context, claims *session.Claims) (*dto.LoginResponse, error) {
	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, err
	}
	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, claims *session.Claims) error {
	return s.revoke(ctx, claims)
}

func (s *authService) revoke(ctx context.Context, claims *session.Claims) error {
	if s.revoker == nil || claims.ID == "" {
		return nil
	}
	exp := time.Now().Add(s.issuer.TTL())
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return s.revoker.Revoke(ctx, claims.ID, exp)
}

func (s *authService) issue(user *model.User) (*dto.LoginResponse, error) {
	token, claims, err := s.issuer.Sign(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		User:      user,
		Session:   sessionResponse(claims),
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func sessionResponse(c *session.Claims) dto.SessionResponse {
	return dto.SessionResponse{
		UserID:       c.UserID,
		Username:     c.Username,
		Role:         c.Role,
		CompanyID:    c.CompanyID,
		CEOInterface: c.CEOInterface,
		FieldWorker:  c.FieldWorker,
	}
}
