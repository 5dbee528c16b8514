package repository

import (
	"context"

	"doodh-waitlist/model"

	"gorm.io/gorm"
)

type WaitlistRepository interface {
	Create(ctx context.Context, entry *model.WaitlistEntry) error
	GetByPhone(ctx context.Context, phone string) (*model.WaitlistEntry, error)
	Update(ctx context.Context, entry *model.WaitlistEntry) error
	Count(ctx context.Context) (int64, error)
}

type pgWaitlistRepo struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &pgWaitlistRepo{db: db}
}

func (r *pgWaitlistRepo) Create(ctx context.Context, entry *model.WaitlistEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *pgWaitlistRepo) GetByPhone(ctx context.Context, phone string) (*model.WaitlistEntry, error) {
	var e model.WaitlistEntry
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *pgWaitlistRepo) Update(ctx context.Context, entry *model.WaitlistEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *pgWaitlistRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.WaitlistEntry{}).Count(&n).Error
	return n, err
}
