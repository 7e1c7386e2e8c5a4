package service

import (
	"context"
	"sort"
	"time"

	"workforce/internal/dto"
	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/session"

	"github.com/rs/zerolog/log"
)

type SignatureService interface {
	List(ctx context.Context, claims *session.Claims, q dto.SignatureQuery) ([]model.Signature, error)
	Sign(ctx context.Context, claims *session.Claims, req dto.SignMonthRequest) (*model.Signature, error)
	Delete(ctx context.Context, claims *session.Claims, req dto.DeleteSignatureRequest) error
}

type signatureService struct {
	sigs      repository.SignatureRepository
	users     repository.UserRepository
	companies repository.CompanyRepository
	now       func() time.Time
}

func NewSignatureService(
	sigs repository.SignatureRepository,
	users repository.UserRepository,
	companies repository.CompanyRepository,
) SignatureService {
	return &signatureService{sigs: sigs, users: users, companies: companies, now: time.Now}
}

func (s *signatureService) List(ctx context.Context, claims *session.Claims, q dto.SignatureQuery) ([]model.Signature, error) {
	f := repository.SignatureFilter{CompanyID: q.CompanyID, WorkerID: q.WorkerID, Year: q.Year, Month: q.Month}
	if !claims.IsAdmin() {
		if q.CompanyID != "" && q.CompanyID != claims.Company() {
			return nil, forbidden()
		}
		if claims.Company() == "" {
			return []model.Signature{}, nil
		}
		f.CompanyID = claims.Company()
	}
	if claims.IsWorker() || claims.IsPlainEmployee() {
		self := claims.UserID
		f.WorkerID = &self
	}
	return s.sigs.List(ctx, f)
}

func (s *signatureService) Sign(ctx context.Context, claims *session.Claims, req dto.SignMonthRequest) (*model.Signature, error) {
	if !claims.IsAdmin() && !claims.ActsAsCEO() {
		return nil, forbidden()
	}
	worker, err := s.users.FindByID(ctx, req.WorkerID)
	if err != nil {
		return nil, notFoundOr(err, "worker")
	}
	if worker.CompanyID == nil {
		return nil, badRequest("worker has no company")
	}
	if !claims.CanAccessCompany(*worker.CompanyID) {
		return nil, forbidden()
	}
	company, err := s.companies.FindByID(ctx, *worker.CompanyID)
	if err != nil {
		return nil, notFoundOr(err, "company")
	}
	if company.HasSigPassword() {
		if req.SigPassword == nil || !VerifyPassword(*req.SigPassword, company.SigPasswordHash) {
			log.Warn().Str("company_id", company.ID).Int64("by", claims.UserID).Msg("signature: wrong signature password")
			return nil, unauthorized("invalid signature password")
		}
	}

	sig := &model.Signature{
		WorkerID:  worker.ID,
		CompanyID: company.ID,
		Year:      req.Year,
		Month:     req.Month,
		Type:      req.Type,
		SignedAt:  s.now().UTC(),
	}
	if req.Type == "partial" {
		if len(req.Days) == 0 {
			return nil, badRequest("a partial signature needs at least one day")
		}
		sig.Days = normalizeDays(req.Days)
	}
	return s.sigs.Upsert(ctx, sig)
}

func (s *signatureService) Delete(ctx context.Context, claims *session.Claims, req dto.DeleteSignatureRequest) error {
	if claims.IsWorker() {
		return forbidden()
	}
	worker, err := s.users.FindByID(ctx, req.WorkerID)
	if err != nil {
		return notFoundOr(err, "worker")
	}
	if !claims.IsAdmin() && !worker.InCompany(claims.Company()) {
		return forbidden()
	}
	return s.sigs.Delete(ctx, worker.ID, req.Year, req.Month)
}

// normalizeDays sorts the days and drops duplicates.
func normalizeDays(days []int) model.DayList {
	out := append([]int(nil), days...)
	sort.Ints(out)
	j := 0
	for i, d := range out {
		if i > 0 && d == out[j-1] {
			continue
		}
		out[j] = d
		j++
	}
	return model.DayList(out[:j])
}
