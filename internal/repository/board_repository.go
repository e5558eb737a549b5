package repository

import (
	"context"
	"errors"

	"noteboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardRepository struct {
	db *gorm.DB
}

type BoardRepositoryInterface interface {
	Create(ctx context.Context, board *model.Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]model.Board, error)
	Update(ctx context.Context, board *model.Board) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ BoardRepositoryInterface = (*BoardRepository)(nil)

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}

func (r *BoardRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&boards).Error
	return boards, err
}

func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Save(board).Error
}

func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Board{}, "id = ?", id).Error
}
