package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/domain"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/log"
)

// GormPushSubscriptionRepository implements PushSubscriptionRepository
// using GORM.
type GormPushSubscriptionRepository struct {
	db *gorm.DB
}

func NewGormPushSubscriptionRepository(db *gorm.DB) *GormPushSubscriptionRepository {
	return &GormPushSubscriptionRepository{db: db}
}

func (r *GormPushSubscriptionRepository) Add(ctx context.Context, sub *domain.PushSubscription) error {
	l := log.Ctx(ctx)

	var existing domain.PushSubscriptionModel
	err := r.db.WithContext(ctx).
		First(&existing, "user_id = ? AND endpoint = ?", sub.UserID, sub.Endpoint).Error
	if err == nil {
		return nil // already subscribed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	model := domain.PushSubscriptionToModel(sub)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		l.Error().Err(err).Msg("failed to store push subscription")
		return err
	}

	l.Info().Str(log.FieldUserID, sub.UserID).Msg("push subscription added")
	return nil
}

func (r *GormPushSubscriptionRepository) RemoveAllForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.PushSubscriptionModel{}).Error
}

func (r *GormPushSubscriptionRepository) ListForUser(ctx context.Context, userID string) ([]domain.PushSubscription, error) {
	var models []domain.PushSubscriptionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	subs := make([]domain.PushSubscription, len(models))
	for i, model := range models {
		subs[i] = *model.ToDomain()
	}
	return subs, nil
}
