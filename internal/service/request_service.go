package service

import (
	"context"
	"fmt"
	"strings"

	"workforce/internal/dto"
	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/session"

	"github.com/rs/zerolog/log"
)

type RequestService interface {
	List(ctx context.Context, claims *session.Claims, q dto.RequestQuery) ([]model.Request, error)
	Create(ctx context.Context, claims *session.Claims, req dto.CreateRequestRequest) (*model.Request, error)
	Update(ctx context.Context, claims *session.Claims, req dto.UpdateRequestRequest) (*model.Request, error)
	Delete(ctx context.Context, claims *session.Claims, id int64) error
}

type requestService struct {
	requests repository.RequestRepository
	users    repository.UserRepository
	notifier Notifier
}

func NewRequestService(requests repository.RequestRepository, users repository.UserRepository, notifier Notifier) RequestService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &requestService{requests: requests, users: users, notifier: notifier}
}

func (s *requestService) List(ctx context.Context, claims *session.Claims, q dto.RequestQuery) ([]model.Request, error) {
	f := repository.RequestFilter{Status: q.Status}
	switch {
	case claims.IsWorker():
		self := claims.UserID
		f.WorkerID = &self
	case claims.IsAdmin():
		if q.CompanyID != "" {
			f.CompanyID = &q.CompanyID
		}
	default:
		if q.CompanyID != "" && q.CompanyID != claims.Company() {
			return nil, forbidden()
		}
		if claims.CompanyID == nil {
			return []model.Request{}, nil
		}
		f.CompanyID = claims.CompanyID
	}
	return s.requests.List(ctx, f)
}

func (s *requestService) Create(ctx context.Context, claims *session.Claims, req dto.CreateRequestRequest) (*model.Request, error) {
	if !claims.IsWorker() {
		return nil, forbidden()
	}
	typ, text := strings.TrimSpace(req.Type), strings.TrimSpace(req.Text)
	if typ == "" || text == "" {
		return nil, badRequest("type and text are required")
	}
	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	r := &model.Request{
		WorkerID:   u.ID,
		WorkerName: u.Name,
		CompanyID:  u.CompanyID,
		Type:       typ,
		Text:       text,
		Status:     model.RequestPending,
	}
	if err := s.requests.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *requestService) Update(ctx context.Context, claims *session.Claims, req dto.UpdateRequestRequest) (*model.Request, error) {
	if claims.IsWorker() {
		return nil, forbidden()
	}
	r, err := s.load(ctx, claims, req.ID)
	if err != nil {
		return nil, err
	}
	if req.Status != nil {
		r.Status = *req.Status
	}
	replied := false
	if req.Reply != nil {
		reply := strings.TrimSpace(*req.Reply)
		if reply == "" {
			r.Reply = nil
		} else {
			replied = r.Reply == nil || *r.Reply != reply
			r.Reply = &reply
		}
	}
	if err := s.requests.Update(ctx, r); err != nil {
		return nil, err
	}
	if replied {
		s.notifyReply(ctx, r)
	}
	return r, nil
}

func (s *requestService) Delete(ctx context.Context, claims *session.Claims, id int64) error {
	if claims.IsFieldWorker() || (!claims.IsAdmin() && !claims.ActsAsCEO()) {
		return forbidden()
	}
	if _, err := s.load(ctx, claims, id); err != nil {
		return err
	}
	return notFoundOr(s.requests.Delete(ctx, id), "request")
}

func (s *requestService) load(ctx context.Context, claims *session.Claims, id int64) (*model.Request, error) {
	r, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "request")
	}
	if !claims.IsAdmin() && (r.CompanyID == nil || *r.CompanyID != claims.Company()) {
		return nil, forbidden()
	}
	return r, nil
}

func (s *requestService) notifyReply(ctx context.Context, r *model.Request) {
	u, err := s.users.FindByID(ctx, r.WorkerID)
	if err != nil || u.Email == nil || *u.Email == "" {
		return
	}
	subject := fmt.Sprintf("Your %s request was answered", r.Type)
	body := fmt.Sprintf("Hello %s,\n\nStatus: %s\nReply: %s\n\nYour request:\n%s", u.Name, r.Status, *r.Reply, r.Text)
	if err := s.notifier.EnqueueEmail(ctx, *u.Email, subject, body); err != nil {
		log.Warn().Err(err).Int64("request_id", r.ID).Msg("request: failed to enqueue reply email")
	}
}
