package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/persistence/model"
)

// serviceRepository implements the adapter.ServiceRepository interface.
type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service repository instance.
func NewServiceRepository(db *gorm.DB) adapter.ServiceRepository {
	return &serviceRepository{
		db: db,
	}
}

// FindByID retrieves a service by its ID.
func (r *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	var serviceModel model.ServiceModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&serviceModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrServiceNotFound
		}
		return nil, result.Error
	}
	return serviceModel.ToEntity(), nil
}

// FindBySubscriptionAndName retrieves a service by its natural key.
func (r *serviceRepository) FindBySubscriptionAndName(ctx context.Context, subscriptionID uuid.UUID, name string) (*entity.Service, error) {
	var serviceModel model.ServiceModel
	result := r.db.WithContext(ctx).
		Where("subscription_id = ? AND name = ?", subscriptionID, name).
		First(&serviceModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrServiceNotFound
		}
		return nil, result.Error
	}
	return serviceModel.ToEntity(), nil
}

// BatchUpsert writes all service aggregates in one batched operation keyed by
// (subscription_id, name) and returns the key-to-ID map for the whole batch.
func (r *serviceRepository) BatchUpsert(ctx context.Context, upserts []adapter.ServiceUpsert) (map[adapter.ServiceKey]uuid.UUID, error) {
	ids := make(map[adapter.ServiceKey]uuid.UUID, len(upserts))
	if len(upserts) == 0 {
		return ids, nil
	}

	serviceModels := make([]model.ServiceModel, len(upserts))
	subscriptionIDs := make([]uuid.UUID, 0, len(upserts))
	for i, upsert := range upserts {
		serviceModels[i] = *model.ServiceFromEntity(
			entity.NewService(upsert.SubscriptionID, upsert.Name, upsert.Total, upsert.Currency))
		subscriptionIDs = append(subscriptionIDs, upsert.SubscriptionID)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subscription_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"current_unit_price", "currency", "updated_at"}),
		}).Create(&serviceModels).Error; err != nil {
			return err
		}

		// The conflict path keeps pre-existing IDs, so read them back.
		var persisted []model.ServiceModel
		if err := tx.Where("subscription_id IN ?", subscriptionIDs).Find(&persisted).Error; err != nil {
			return err
		}
		for _, sm := range persisted {
			ids[adapter.ServiceKey{SubscriptionID: sm.SubscriptionID, Name: sm.Name}] = sm.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Update updates an existing service in the database.
func (r *serviceRepository) Update(ctx context.Context, service *entity.Service) error {
	serviceModel := model.ServiceFromEntity(service)
	result := r.db.WithContext(ctx).Save(serviceModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete removes a service from the database.
func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.ServiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// CountByVendor counts services under any of the vendor's subscriptions.
func (r *serviceRepository) CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.ServiceModel{}).
		Where("subscription_id IN (?)",
			r.db.Model(&model.SubscriptionModel{}).Select("id").Where("vendor_id = ?", vendorID)).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
