package widget

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, w *Widget) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Widget, error) {
	var w Widget
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *Repo) List(ctx context.Context) ([]Widget, error) {
	var ws []Widget
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&ws).Error; err != nil {
		return nil, err
	}
	return ws, nil
}

func (r *Repo) Save(ctx context.Context, w *Widget) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&Widget{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
