package repository

import (
	"context"
	"errors"

	"noteboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

type OrganizationRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	CreateWithAdmin(ctx context.Context, org *model.Organization, creatorID uuid.UUID) error
}

var _ OrganizationRepositoryInterface = (*OrganizationRepository)(nil)

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &org, err
}

// CreateWithAdmin creates the organization, an admin membership for the
// creator, and activates the organization for them, all in one transaction.
// The membership is created before the user's active organization is set,
// which keeps the active-organization invariant intact at every point.
func (r *OrganizationRepository) CreateWithAdmin(ctx context.Context, org *model.Organization, creatorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		membership := &model.Membership{
			UserID:         creatorID,
			OrganizationID: org.ID,
			IsAdmin:        true,
		}
		if err := tx.Create(membership).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", creatorID).
			Updates(map[string]interface{}{
				"organization_id": org.ID,
				"is_admin":        true,
			}).Error
	})
}
