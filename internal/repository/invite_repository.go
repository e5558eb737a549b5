package repository

import (
	"context"
	"errors"

	"noteboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InviteRepository struct {
	db *gorm.DB
}

type InviteRepositoryInterface interface {
	Create(ctx context.Context, invite *model.SelfServeInvite) error
	FindByToken(ctx context.Context, token string) (*model.SelfServeInvite, error)
	Redeem(ctx context.Context, invite *model.SelfServeInvite, userID uuid.UUID) error
}

var _ InviteRepositoryInterface = (*InviteRepository)(nil)

func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

func (r *InviteRepository) Create(ctx context.Context, invite *model.SelfServeInvite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *InviteRepository) FindByToken(ctx context.Context, token string) (*model.SelfServeInvite, error) {
	var invite model.SelfServeInvite
	err := r.db.WithContext(ctx).Preload("Organization").Where("token = ?", token).First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// Redeem creates the membership, activates the organization for the user and
// bumps the invite usage count in one transaction. The membership row is
// written before the user's active organization, so the invariant that a
// non-null organization_id always has a membership holds even mid-redeem.
// Returns ErrAlreadyMember if a membership for the pair already exists.
func (r *InviteRepository) Redeem(ctx context.Context, invite *model.SelfServeInvite, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Membership{}).
			Where("user_id = ? AND organization_id = ?", userID, invite.OrganizationID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyMember
		}

		membership := &model.Membership{
			UserID:         userID,
			OrganizationID: invite.OrganizationID,
			IsAdmin:        false,
		}
		if err := tx.Create(membership).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.User{}).Where("id = ?", userID).
			Updates(map[string]interface{}{
				"organization_id": invite.OrganizationID,
				"is_admin":        false,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&model.SelfServeInvite{}).Where("id = ?", invite.ID).
			UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
	})
}
