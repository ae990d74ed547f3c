package note

import (
	"context"
	"errors"

	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNoteNotFound = errors.New("note not found")
)

type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*Note, error)
	FindAll(ctx context.Context, filter NoteFilter) ([]Note, int64, error)
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

type noteRepository struct {
	db *connection.Database
}

func NewNoteRepository(db *connection.Database) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*Note, error) {
	var note Note
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&note)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, result.Error
	}
	return &note, nil
}

func (r *noteRepository) FindAll(ctx context.Context, filter NoteFilter) ([]Note, int64, error) {
	var notes []Note
	var total int64

	query := r.db.WithContext(ctx).Model(&Note{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ContactID != nil {
		query = query.Where("contact_id = ?", *filter.ContactID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize == 0 {
		filter.PageSize = 10000
	}
	query = query.Offset(filter.Page * filter.PageSize).Limit(filter.PageSize)

	if err := query.Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

func (r *noteRepository) Update(ctx context.Context, note *Note) error {
	result := r.db.WithContext(ctx).Save(note)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&Note{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *noteRepository) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var note Note
	result := r.db.WithContext(ctx).Select("user_id").Where("id = ?", id).First(&note)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrNoteNotFound
		}
		return uuid.Nil, result.Error
	}
	return note.UserID, nil
}
