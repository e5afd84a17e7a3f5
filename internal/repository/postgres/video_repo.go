package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kshitij/vidtube/internal/domain"
)

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *videoRepository {
	return &videoRepository{db: db}
}

// GetByIDs returns the matching videos with their owners preloaded. The result
// order is unspecified; callers reorder against their own id sequence.
func (r *videoRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var videos []*domain.Video
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Find(&videos, "id IN ?", ids).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}
