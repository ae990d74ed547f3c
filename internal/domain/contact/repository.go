package contact

import (
	"context"
	"errors"

	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrContactNotFound = errors.New("contact not found")
)

type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*Contact, error)
	FindAll(ctx context.Context, filter ContactFilter) ([]Contact, int64, error)
	Update(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	DeleteBatch(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error)
	OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

type contactRepository struct {
	db *connection.Database
}

func NewContactRepository(db *connection.Database) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*Contact, error) {
	var contact Contact
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&contact)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, result.Error
	}
	return &contact, nil
}

func (r *contactRepository) FindAll(ctx context.Context, filter ContactFilter) ([]Contact, int64, error) {
	var contacts []Contact
	var total int64

	query := r.db.WithContext(ctx).Model(&Contact{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.EventID != nil {
		query = query.Where("event_id = ?", *filter.EventID)
	}
	if filter.Company != nil {
		query = query.Where("company = ?", *filter.Company)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize == 0 {
		filter.PageSize = 10000
	}
	query = query.Offset(filter.Page * filter.PageSize).Limit(filter.PageSize)

	if err := query.Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

func (r *contactRepository) Update(ctx context.Context, contact *Contact) error {
	result := r.db.WithContext(ctx).Save(contact)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *contactRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&Contact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

// DeleteBatch removes the given contacts, constrained to the owner. It
// returns how many rows were actually deleted; callers treat partial
// deletion as best-effort.
func (r *contactRepository) DeleteBatch(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ? AND user_id = ?", ids, userID).Delete(&Contact{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *contactRepository) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var contact Contact
	result := r.db.WithContext(ctx).Select("user_id").Where("id = ?", id).First(&contact)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrContactNotFound
		}
		return uuid.Nil, result.Error
	}
	return contact.UserID, nil
}
