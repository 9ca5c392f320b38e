package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Anthanoess/task-app/internal/model"
)

type FlagRepository struct {
	db *gorm.DB
}

func NewFlagRepository(db *gorm.DB) *FlagRepository {
	return &FlagRepository{db: db}
}

// Claim inserts the flag and reports whether this call created it
func (r *FlagRepository) Claim(ctx context.Context, name string) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.LifecycleFlag{Name: name, SetAt: time.Now().UTC()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *FlagRepository) Release(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Delete(&model.LifecycleFlag{}, "name = ?", name).Error
}
