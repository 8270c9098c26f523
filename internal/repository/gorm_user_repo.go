package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/domain"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/log"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Upsert(ctx context.Context, name, loginID string) (*domain.User, error) {
	l := log.Ctx(ctx)

	var model domain.UserModel
	err := r.db.WithContext(ctx).First(&model, "login_id = ?", loginID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		model = domain.UserModel{
			ID:      uuid.New().String(),
			Name:    name,
			LoginID: loginID,
		}
		if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
			l.Error().Err(err).Msg("failed to create user")
			return nil, err
		}
		l.Info().Str(log.FieldUserID, model.ID).Msg("user created")

	case err != nil:
		return nil, err

	default:
		if model.Name != name {
			model.Name = name
			if err := r.db.WithContext(ctx).
				Model(&domain.UserModel{}).
				Where("id = ?", model.ID).
				Update("name", name).Error; err != nil {
				l.Error().Err(err).Msg("failed to update user name")
				return nil, err
			}
		}
	}

	return model.ToDomain(), nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var model domain.UserModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormUserRepository) SetOnline(ctx context.Context, id string, online bool) error {
	// RowsAffected is not checked: some drivers report zero when the
	// value is unchanged, and the projection write is best-effort anyway.
	return r.db.WithContext(ctx).
		Model(&domain.UserModel{}).
		Where("id = ?", id).
		Update("is_online", online).Error
}
