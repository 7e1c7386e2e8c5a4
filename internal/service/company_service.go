package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"workforce/internal/dto"
	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/session"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultCompanyEmoji = "🏢"
	defaultCompanyColor = "#6c63ff"
)

type CompanyService interface {
	List(ctx context.Context, claims *session.Claims) ([]model.Company, error)
	Create(ctx context.Context, claims *session.Claims, req dto.CreateCompanyRequest) (*model.Company, error)
	Update(ctx context.Context, claims *session.Claims, req dto.UpdateCompanyRequest) (*model.Company, error)
	Delete(ctx context.Context, claims *session.Claims, id string) error
}

type companyService struct {
	repo repository.CompanyRepository
}

func NewCompanyService(repo repository.CompanyRepository) CompanyService {
	return &companyService{repo: repo}
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonSlugRe    = regexp.MustCompile(`[^a-z0-9]`)
)

// Slugify derives a company id from its name: lower case with whitespace and
// anything outside [a-z0-9] removed. Names with no usable characters (for
// example Hebrew names) get a random "company-xxxxxxxx" id.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = whitespaceRe.ReplaceAllString(s, "")
	s = nonSlugRe.ReplaceAllString(s, "")
	if s == "" {
		return "company-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	return s
}

func (s *companyService) List(ctx context.Context, claims *session.Claims) ([]model.Company, error) {
	if claims.IsAdmin() {
		return s.repo.List(ctx)
	}
	if claims.Company() == "" {
		return []model.Company{}, nil
	}
	c, err := s.repo.FindByID(ctx, claims.Company())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []model.Company{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []model.Company{*c}, nil
}

func (s *companyService) Create(ctx context.Context, claims *session.Claims, req dto.CreateCompanyRequest) (*model.Company, error) {
	if !claims.IsAdmin() {
		return nil, forbidden()
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, badRequest("company name is required")
	}

	c := &model.Company{
		ID:    Slugify(name),
		Name:  name,
		Field: req.Field,
		Emoji: req.Emoji,
		Color: req.Color,
	}
	if c.Emoji == "" {
		c.Emoji = defaultCompanyEmoji
	}
	if c.Color == "" {
		c.Color = defaultCompanyColor
	}

	if _, err := s.repo.FindByID(ctx, c.ID); err == nil {
		return nil, conflict("a company with this name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if req.SigPassword != nil && *req.SigPassword != "" {
		hash, err := HashPassword(*req.SigPassword)
		if err != nil {
			return nil, err
		}
		c.SigPasswordHash = hash
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *companyService) Update(ctx context.Context, claims *session.Claims, req dto.UpdateCompanyRequest) (*model.Company, error) {
	if !claims.IsAdmin() {
		return nil, forbidden()
	}
	c, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, notFoundOr(err, "company")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, badRequest("company name is required")
		}
		c.Name = name
	}
	if req.Field != nil {
		c.Field = *req.Field
	}
	if req.Emoji != nil {
		c.Emoji = *req.Emoji
	}
	if req.Color != nil {
		c.Color = *req.Color
	}
	if req.SigPassword != nil {
		if *req.SigPassword == "" {
			c.SigPasswordHash = ""
		} else {
			hash, err := HashPassword(*req.SigPassword)
			if err != nil {
				return nil, err
			}
			c.SigPasswordHash = hash
		}
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *companyService) Delete(ctx context.Context, claims *session.Claims, id string) error {
	if !claims.IsAdmin() {
		return forbidden()
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "company")
	}
	n, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return conflict("company still has users; move or delete them first")
	}
	return notFoundOr(s.repo.Delete(ctx, id), "company")
}
