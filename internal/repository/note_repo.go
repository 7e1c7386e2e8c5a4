package repository

import (
	"context"
	"errors"

	"workforce/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoteRepository interface {
	// FindByUser returns nil, nil when the user has no note yet.
	FindByUser(ctx context.Context, userID int64) (*model.Note, error)
	Upsert(ctx context.Context, n *model.Note) (*model.Note, error)
}

type noteRepo struct{ db *gorm.DB }

func NewNoteRepository(db *gorm.DB) NoteRepository { return &noteRepo{db: db} }

func (r *noteRepo) FindByUser(ctx context.Context, userID int64) (*model.Note, error) {
	var n model.Note
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *noteRepo) Upsert(ctx context.Context, n *model.Note) (*model.Note, error) {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(n).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUser(ctx, n.UserID)
}
