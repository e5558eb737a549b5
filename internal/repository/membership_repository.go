package repository

import (
	"context"
	"errors"

	"noteboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

type MembershipRepositoryInterface interface {
	Create(ctx context.Context, membership *model.Membership) error
	Find(ctx context.Context, userID, organizationID uuid.UUID) (*model.Membership, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]model.Membership, error)
}

var _ MembershipRepositoryInterface = (*MembershipRepository)(nil)

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, membership *model.Membership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

// Find looks up the membership for a (user, organization) pair. The pair is
// unique, so at most one row exists.
func (r *MembershipRepository) Find(ctx context.Context, userID, organizationID uuid.UUID) (*model.Membership, error) {
	var membership model.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &membership, err
}

func (r *MembershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	err := r.db.WithContext(ctx).Preload("Organization").
		Where("user_id = ?", userID).
		Order("joined_at DESC").
		Find(&memberships).Error
	return memberships, err
}

func (r *MembershipRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	err := r.db.WithContext(ctx).Preload("User").
		Where("organization_id = ?", organizationID).
		Find(&memberships).Error
	return memberships, err
}
