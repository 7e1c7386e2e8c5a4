package service

import (
	"context"
	"errors"
	"strings"

	"workforce/internal/dto"
	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/session"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type UserService interface {
	List(ctx context.Context, claims *session.Claims, role, companyID string) ([]model.User, error)
	Create(ctx context.Context, claims *session.Claims, req dto.CreateUserRequest) (*model.User, error)
	Update(ctx context.Context, claims *session.Claims, req dto.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, claims *session.Claims, id int64) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context, claims *session.Claims, role, companyID string) ([]model.User, error) {
	f := repository.UserFilter{Role: role}
	switch {
	case claims.IsAdmin():
		if companyID != "" {
			f.CompanyID = &companyID
		}
	case claims.Company() == "":
		return []model.User{}, nil
	default:
		if companyID != "" && companyID != claims.Company() {
			return nil, forbidden()
		}
		own := claims.Company()
		f.CompanyID = &own
	}
	users, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if !claims.IsAdmin() && !claims.ActsAsCEO() {
		// Co-workers see each other's names, not their ID documents or contact details.
		for i := range users {
			if users[i].ID != claims.UserID {
				users[i].IDNumber = nil
				users[i].Email = nil
			}
		}
	}
	return users, nil
}

func (s *userService) Create(ctx context.Context, claims *session.Claims, req dto.CreateUserRequest) (*model.User, error) {
	if !claims.IsAdmin() && !claims.ActsAsCEO() {
		return nil, forbidden()
	}

	username := NormalizeUsername(req.Username)
	name := strings.TrimSpace(req.Name)
	if username == "" || req.Password == "" || name == "" || req.Role == "" {
		return nil, badRequest("username, password, name and role are required")
	}

	companyID := req.CompanyID
	if !claims.IsAdmin() {
		// A company-scoped creator may only add staff to their own company.
		if req.Role != model.RoleEmployee && req.Role != model.RoleWorker {
			return nil, forbidden()
		}
		if req.CEOInterface || req.FieldWorker {
			return nil, forbidden()
		}
		if companyID == nil {
			companyID = claims.CompanyID
		}
		if companyID == nil || *companyID != claims.Company() {
			return nil, forbidden()
		}
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, conflict("username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Role:         req.Role,
		CompanyID:    companyID,
		Avatar:       req.Avatar,
		AvatarColor:  req.AvatarColor,
		IDType:       req.IDType,
		IDNumber:     req.IDNumber,
		Email:        req.Email,
		CEOInterface: req.CEOInterface,
		FieldWorker:  req.FieldWorker,
	}
	if u.IDType == "" {
		u.IDType = "id"
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	log.Info().Int64("user_id", u.ID).Str("role", u.Role).Int64("by", claims.UserID).Msg("user created")
	return u, nil
}

func (s *userService) Update(ctx context.Context, claims *session.Claims, req dto.UpdateUserRequest) (*model.User, error) {
	target, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}

	if !claims.IsAdmin() {
		switch {
		case claims.ActsAsCEO():
			if !target.InCompany(claims.Company()) {
				return nil, forbidden()
			}
		case target.ID != claims.UserID:
			return nil, forbidden()
		}
		// Role, company and capability flags are admin-only.
		req.Role = nil
		req.CompanyID = nil
		req.CEOInterface = nil
		req.FieldWorker = nil
	}

	if req.Username != nil {
		username := NormalizeUsername(*req.Username)
		if username == "" {
			return nil, badRequest("username is required")
		}
		if username != target.Username {
			if _, err := s.repo.FindByUsername(ctx, username); err == nil {
				return nil, conflict("username already exists")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			target.Username = username
		}
	}
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		target.PasswordHash = hash
	}
	if req.Name != nil {
		target.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		target.Role = *req.Role
	}
	if req.CompanyID != nil {
		if *req.CompanyID == "" {
			target.CompanyID = nil
		} else {
			id := *req.CompanyID
			target.CompanyID = &id
		}
	}
	if req.Avatar != nil {
		target.Avatar = *req.Avatar
	}
	if req.AvatarColor != nil {
		target.AvatarColor = *req.AvatarColor
	}
	if req.IDType != nil {
		target.IDType = *req.IDType
	}
	if req.IDNumber != nil {
		target.IDNumber = req.IDNumber
	}
	if req.Email != nil {
		target.Email = req.Email
	}
	if req.CEOInterface != nil {
		target.CEOInterface = *req.CEOInterface
	}
	if req.FieldWorker != nil {
		target.FieldWorker = *req.FieldWorker
	}

	if err := s.repo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *userService) Delete(ctx context.Context, claims *session.Claims, id int64) error {
	if !claims.IsAdmin() && !claims.ActsAsCEO() {
		return forbidden()
	}
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "user")
	}
	if !claims.IsAdmin() && !target.InCompany(claims.Company()) {
		return forbidden()
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "user")
	}
	log.Info().Int64("user_id", id).Int64("by", claims.UserID).Msg("user deleted with dependent rows")
	return nil
}
