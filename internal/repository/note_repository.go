package repository

import (
	"context"
	"errors"

	"noteboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepository struct {
	db *gorm.DB
}

type NoteRepositoryInterface interface {
	Create(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Note, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Note, error)
	Update(ctx context.Context, note *model.Note) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddItem(ctx context.Context, item *model.ChecklistItem) error
	GetItem(ctx context.Context, id uuid.UUID) (*model.ChecklistItem, error)
	UpdateItem(ctx context.Context, item *model.ChecklistItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

var _ NoteRepositoryInterface = (*NoteRepository)(nil)

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *NoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Note, error) {
	var note model.Note
	err := r.db.WithContext(ctx).
		Preload("ChecklistItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("checklist_items.sort_order ASC")
		}).
		Where("id = ?", id).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Note, error) {
	var notes []model.Note
	err := r.db.WithContext(ctx).
		Preload("ChecklistItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("checklist_items.sort_order ASC")
		}).
		Where("board_id = ?", boardID).
		Order("created_at ASC").
		Find(&notes).Error
	return notes, err
}

// Update persists the note's own fields. Checklist items are managed through
// the item methods below; concurrent note updates are last-write-wins.
func (r *NoteRepository) Update(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Omit("ChecklistItems").Save(note).Error
}

// Delete removes the note; checklist items go with it via ON DELETE CASCADE.
func (r *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Note{}, "id = ?", id).Error
}

func (r *NoteRepository) AddItem(ctx context.Context, item *model.ChecklistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *NoteRepository) GetItem(ctx context.Context, id uuid.UUID) (*model.ChecklistItem, error) {
	var item model.ChecklistItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *NoteRepository) UpdateItem(ctx context.Context, item *model.ChecklistItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *NoteRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ChecklistItem{}, "id = ?", id).Error
}
