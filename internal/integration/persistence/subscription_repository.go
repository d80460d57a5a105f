package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/persistence/model"
)

// subscriptionRepository implements the adapter.SubscriptionRepository interface.
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance.
func NewSubscriptionRepository(db *gorm.DB) adapter.SubscriptionRepository {
	return &subscriptionRepository{
		db: db,
	}
}

// Create creates a new subscription in the database.
func (r *subscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	subscriptionModel := model.SubscriptionFromEntity(subscription)
	result := r.db.WithContext(ctx).Create(subscriptionModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a subscription by its ID.
func (r *subscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	var subscriptionModel model.SubscriptionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&subscriptionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSubscriptionNotFound
		}
		return nil, result.Error
	}
	return subscriptionModel.ToEntity(), nil
}

// FindMostRecentByVendor retrieves the most recently created subscription for a vendor.
func (r *subscriptionRepository) FindMostRecentByVendor(ctx context.Context, vendorID uuid.UUID) (*entity.Subscription, error) {
	var subscriptionModel model.SubscriptionModel
	result := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		First(&subscriptionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSubscriptionNotFound
		}
		return nil, result.Error
	}
	return subscriptionModel.ToEntity(), nil
}

// FindMostRecentByVendors batch-retrieves the most recent subscription per vendor.
func (r *subscriptionRepository) FindMostRecentByVendors(ctx context.Context, vendorIDs []uuid.UUID) (map[uuid.UUID]*entity.Subscription, error) {
	if len(vendorIDs) == 0 {
		return map[uuid.UUID]*entity.Subscription{}, nil
	}

	var subscriptionModels []model.SubscriptionModel
	result := r.db.WithContext(ctx).
		Where("vendor_id IN ?", vendorIDs).
		Order("created_at ASC").
		Find(&subscriptionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	// Ascending order means the last write per vendor is the most recent.
	subscriptions := make(map[uuid.UUID]*entity.Subscription)
	for _, sm := range subscriptionModels {
		subscriptions[sm.VendorID] = sm.ToEntity()
	}
	return subscriptions, nil
}

// CountByVendor counts subscriptions belonging to a vendor.
func (r *subscriptionRepository) CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.SubscriptionModel{}).
		Where("vendor_id = ?", vendorID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// ReassignVendor moves all subscriptions from one vendor to another.
func (r *subscriptionRepository) ReassignVendor(ctx context.Context, fromVendorID, toVendorID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.SubscriptionModel{}).
		Where("vendor_id = ?", fromVendorID).
		Updates(map[string]interface{}{
			"vendor_id":  toVendorID,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UpdateBillingCycle persists an inferred billing cycle on a subscription.
func (r *subscriptionRepository) UpdateBillingCycle(ctx context.Context, id uuid.UUID, cycle entity.BillingCycle) error {
	result := r.db.WithContext(ctx).
		Model(&model.SubscriptionModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"billing_cycle": string(cycle),
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrSubscriptionNotFound
	}
	return nil
}
