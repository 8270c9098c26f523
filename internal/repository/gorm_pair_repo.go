package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/domain"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/log"
)

// GormPairRepository implements PairRepository using GORM.
type GormPairRepository struct {
	db *gorm.DB
}

func NewGormPairRepository(db *gorm.DB) *GormPairRepository {
	return &GormPairRepository{db: db}
}

func (r *GormPairRepository) GetFor(ctx context.Context, userID string) (*domain.Pair, error) {
	var model domain.PairModel
	err := r.db.WithContext(ctx).
		First(&model, "user_a_id = ? OR user_b_id = ?", userID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPartner
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormPairRepository) EnsureFor(ctx context.Context, userID string) (*domain.Pair, error) {
	l := log.Ctx(ctx)

	pair, err := r.GetFor(ctx, userID)
	if err == nil {
		return pair, nil
	}
	if !errors.Is(err, ErrNoPartner) {
		return nil, err
	}

	// Pair with the first other user not already in a pair.
	var partner domain.UserModel
	err = r.db.WithContext(ctx).
		Where("id <> ?", userID).
		Where("id NOT IN (?)",
			r.db.Model(&domain.PairModel{}).Select("user_a_id"),
		).
		Where("id NOT IN (?)",
			r.db.Model(&domain.PairModel{}).Select("user_b_id"),
		).
		Order("created_at ASC").
		First(&partner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPartner
		}
		return nil, err
	}

	model := domain.PairModel{
		ID:      uuid.New().String(),
		UserAID: userID,
		UserBID: partner.ID,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		l.Error().Err(err).Msg("failed to create pair")
		return nil, err
	}

	l.Info().
		Str("pair_id", model.ID).
		Str(log.FieldUserID, userID).
		Str("partner_id", partner.ID).
		Msg("pair created")
	return model.ToDomain(), nil
}
