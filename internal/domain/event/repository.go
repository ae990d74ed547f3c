package event

import (
	"context"
	"errors"

	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound = errors.New("event not found")
)

type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*Event, error)
	FindAll(ctx context.Context, filter EventFilter) ([]Event, int64, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

type eventRepository struct {
	db *connection.Database
}

func NewEventRepository(db *connection.Database) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*Event, error) {
	var event Event
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, result.Error
	}
	return &event, nil
}

func (r *eventRepository) FindAll(ctx context.Context, filter EventFilter) ([]Event, int64, error) {
	var events []Event
	var total int64

	query := r.db.WithContext(ctx).Model(&Event{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Company != nil {
		query = query.Where("company = ?", *filter.Company)
	}
	if filter.DateStart != nil {
		query = query.Where("date >= ?", *filter.DateStart)
	}
	if filter.DateEnd != nil {
		query = query.Where("date < ?", *filter.DateEnd)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize == 0 {
		filter.PageSize = 10000
	}
	query = query.Offset(filter.Page * filter.PageSize).Limit(filter.PageSize)

	if err := query.Order("date DESC NULLS LAST, created_at DESC").Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, event *Event) error {
	result := r.db.WithContext(ctx).Save(event)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var event Event
	result := r.db.WithContext(ctx).Select("user_id").Where("id = ?", id).First(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrEventNotFound
		}
		return uuid.Nil, result.Error
	}
	return event.UserID, nil
}
