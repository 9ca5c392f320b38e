package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Anthanoess/task-app/internal/model"
)

type SprintRepository struct {
	db *gorm.DB
}

func NewSprintRepository(db *gorm.DB) *SprintRepository {
	return &SprintRepository{db: db}
}

func (r *SprintRepository) Create(ctx context.Context, sprint *model.Sprint) error {
	return r.db.WithContext(ctx).Create(sprint).Error
}

func (r *SprintRepository) List(ctx context.Context) ([]model.Sprint, error) {
	var sprints []model.Sprint
	err := r.db.WithContext(ctx).Order("end_date").Find(&sprints).Error
	return sprints, err
}

func (r *SprintRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sprint, error) {
	var sprint model.Sprint
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&sprint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sprint, nil
}

func (r *SprintRepository) Update(ctx context.Context, sprint *model.Sprint) error {
	result := r.db.WithContext(ctx).Model(&model.Sprint{}).
		Where("id = ?", sprint.ID).
		Updates(map[string]interface{}{
			"name":       sprint.Name,
			"start_date": sprint.StartDate,
			"end_date":   sprint.EndDate,
			"status":     sprint.Status,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSprintNotFound
	}
	return nil
}

// MarkCompleted completes the listed sprints that are not completed yet
func (r *SprintRepository) MarkCompleted(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Sprint{}).
		Where("id IN ? AND status <> ?", ids, model.SprintCompleted).
		Update("status", model.SprintCompleted).Error
}
