package actionitem

import (
	"context"
	"errors"

	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrActionItemNotFound = errors.New("action item not found")
)

type ActionItemRepository interface {
	Create(ctx context.Context, item *ActionItem) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*ActionItem, error)
	FindAll(ctx context.Context, filter ActionItemFilter) ([]ActionItem, int64, error)
	Update(ctx context.Context, item *ActionItem) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	PruneByReferences(ctx context.Context, userID uuid.UUID, eventID *uuid.UUID, contactIDs []uuid.UUID) (int64, error)
	OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

type actionItemRepository struct {
	db *connection.Database
}

func NewActionItemRepository(db *connection.Database) ActionItemRepository {
	return &actionItemRepository{db: db}
}

func (r *actionItemRepository) Create(ctx context.Context, item *ActionItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *actionItemRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*ActionItem, error) {
	var item ActionItem
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrActionItemNotFound
		}
		return nil, result.Error
	}
	return &item, nil
}

func (r *actionItemRepository) FindAll(ctx context.Context, filter ActionItemFilter) ([]ActionItem, int64, error) {
	var items []ActionItem
	var total int64

	query := r.db.WithContext(ctx).Model(&ActionItem{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ContactID != nil {
		query = query.Where("contact_id = ?", *filter.ContactID)
	}
	if filter.EventID != nil {
		query = query.Where("event_id = ?", *filter.EventID)
	}
	if filter.IsCompleted != nil {
		query = query.Where("is_completed = ?", *filter.IsCompleted)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize == 0 {
		filter.PageSize = 10000
	}
	query = query.Offset(filter.Page * filter.PageSize).Limit(filter.PageSize)

	if err := query.Order("due_date ASC NULLS LAST, created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *actionItemRepository) Update(ctx context.Context, item *ActionItem) error {
	result := r.db.WithContext(ctx).Save(item)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrActionItemNotFound
	}
	return nil
}

func (r *actionItemRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&ActionItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrActionItemNotFound
	}
	return nil
}

// PruneByReferences deletes the user's action items referencing the given
// event or any of the given contacts. Used after composite event deletion.
func (r *actionItemRepository) PruneByReferences(ctx context.Context, userID uuid.UUID, eventID *uuid.UUID, contactIDs []uuid.UUID) (int64, error) {
	if eventID == nil && len(contactIDs) == 0 {
		return 0, nil
	}

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	switch {
	case eventID != nil && len(contactIDs) > 0:
		query = query.Where("event_id = ? OR contact_id IN ?", *eventID, contactIDs)
	case eventID != nil:
		query = query.Where("event_id = ?", *eventID)
	default:
		query = query.Where("contact_id IN ?", contactIDs)
	}

	result := query.Delete(&ActionItem{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *actionItemRepository) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var item ActionItem
	result := r.db.WithContext(ctx).Select("user_id").Where("id = ?", id).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrActionItemNotFound
		}
		return uuid.Nil, result.Error
	}
	return item.UserID, nil
}
