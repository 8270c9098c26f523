package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/domain"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/log"
)

// GormMessageLedger implements MessageLedger using GORM.
type GormMessageLedger struct {
	db *gorm.DB
}

func NewGormMessageLedger(db *gorm.DB) *GormMessageLedger {
	return &GormMessageLedger{db: db}
}

func (r *GormMessageLedger) Append(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	l := log.Ctx(ctx)

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	model := domain.MessageToModel(msg)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		l.Error().Err(err).Msg("failed to append message to ledger")
		return nil, err
	}

	l.Debug().Str("message_id", msg.ID).Msg("message appended to ledger")
	return model.ToDomain(), nil
}

func (r *GormMessageLedger) MarkRead(ctx context.Context, id string) error {
	l := log.Ctx(ctx)

	result := r.db.WithContext(ctx).
		Model(&domain.MessageModel{}).
		Where("id = ?", id).
		Update("read", true)
	if result.Error != nil {
		l.Error().Err(result.Error).Str("message_id", id).Msg("failed to mark message read")
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either missing or already read; distinguish so callers can
		// treat the second mark as the idempotent success it is.
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&domain.MessageModel{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrMessageNotFound
		}
	}
	return nil
}

func (r *GormMessageLedger) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	var model domain.MessageModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormMessageLedger) ListRecent(ctx context.Context, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 100
	}

	// Take the newest N, then return them oldest-first for display.
	var models []domain.MessageModel
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, len(models))
	for i, model := range models {
		messages[len(models)-1-i] = *model.ToDomain()
	}
	return messages, nil
}
