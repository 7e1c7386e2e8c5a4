package service

import (
	"context"
	"time"

	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/session"
)

type NoteService interface {
	Get(ctx context.Context, claims *session.Claims) (*model.Note, error)
	Save(ctx context.Context, claims *session.Claims, content string) (*model.Note, error)
}

type noteService struct {
	repo repository.NoteRepository
	now  func() time.Time
}

func NewNoteService(repo repository.NoteRepository) NoteService {
	return &noteService{repo: repo, now: time.Now}
}

// Get returns the caller's note, or an empty one when nothing was saved yet.
func (s *noteService) Get(ctx context.Context, claims *session.Claims) (*model.Note, error) {
	n, err := s.repo.FindByUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return &model.Note{UserID: claims.UserID}, nil
	}
	return n, nil
}

func (s *noteService) Save(ctx context.Context, claims *session.Claims, content string) (*model.Note, error) {
	return s.repo.Upsert(ctx, &model.Note{
		UserID:    claims.UserID,
		Content:   content,
		UpdatedAt: s.now().UTC(),
	})
}
