package merge

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
)

// memStore backs the fake repositories for merge tests. Only the methods the
// merge use cases reach are implemented; the rest panic to catch accidental use.
type memStore struct {
	vendors       map[uuid.UUID]*entity.Vendor
	subscriptions map[uuid.UUID]*entity.Subscription
	services      map[uuid.UUID]*entity.Service
	invoices      map[uuid.UUID]*entity.Invoice
	lineItems     map[uuid.UUID]*entity.InvoiceLineItem
}

func newMemStore() *memStore {
	return &memStore{
		vendors:       make(map[uuid.UUID]*entity.Vendor),
		subscriptions: make(map[uuid.UUID]*entity.Subscription),
		services:      make(map[uuid.UUID]*entity.Service),
		invoices:      make(map[uuid.UUID]*entity.Invoice),
		lineItems:     make(map[uuid.UUID]*entity.InvoiceLineItem),
	}
}

type fakeVendorRepo struct{ store *memStore }

func (r *fakeVendorRepo) Create(_ context.Context, vendor *entity.Vendor) error {
	r.store.vendors[vendor.ID] = vendor
	return nil
}

func (r *fakeVendorRepo) Update(_ context.Context, vendor *entity.Vendor) error {
	r.store.vendors[vendor.ID] = vendor
	return nil
}

func (r *fakeVendorRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Vendor, error) {
	if vendor, ok := r.store.vendors[id]; ok {
		return vendor, nil
	}
	return nil, domainerror.ErrVendorNotFound
}

func (r *fakeVendorRepo) FindByName(_ context.Context, name string) (*entity.Vendor, error) {
	for _, vendor := range r.store.vendors {
		if strings.EqualFold(vendor.Name, name) {
			return vendor, nil
		}
	}
	return nil, domainerror.ErrVendorNotFound
}

func (r *fakeVendorRepo) FindByNames(context.Context, []string) ([]*entity.Vendor, error) {
	panic("not used by merge")
}

func (r *fakeVendorRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.vendors, id)
	return nil
}

type fakeSubscriptionRepo struct{ store *memStore }

func (r *fakeSubscriptionRepo) Create(_ context.Context, subscription *entity.Subscription) error {
	r.store.subscriptions[subscription.ID] = subscription
	return nil
}

func (r *fakeSubscriptionRepo) FindByID(context.Context, uuid.UUID) (*entity.Subscription, error) {
	panic("not used by merge")
}

func (r *fakeSubscriptionRepo) FindMostRecentByVendor(context.Context, uuid.UUID) (*entity.Subscription, error) {
	panic("not used by merge")
}

func (r *fakeSubscriptionRepo) FindMostRecentByVendors(context.Context, []uuid.UUID) (map[uuid.UUID]*entity.Subscription, error) {
	panic("not used by merge")
}

func (r *fakeSubscriptionRepo) CountByVendor(_ context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	for _, subscription := range r.store.subscriptions {
		if subscription.VendorID == vendorID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSubscriptionRepo) ReassignVendor(_ context.Context, fromVendorID, toVendorID uuid.UUID) (int64, error) {
	var moved int64
	for _, subscription := range r.store.subscriptions {
		if subscription.VendorID == fromVendorID {
			subscription.VendorID = toVendorID
			moved++
		}
	}
	return moved, nil
}

func (r *fakeSubscriptionRepo) UpdateBillingCycle(context.Context, uuid.UUID, entity.BillingCycle) error {
	panic("not used by merge")
}

type fakeServiceRepo struct{ store *memStore }

func (r *fakeServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Service, error) {
	if service, ok := r.store.services[id]; ok {
		return service, nil
	}
	return nil, domainerror.ErrServiceNotFound
}

func (r *fakeServiceRepo) FindBySubscriptionAndName(context.Context, uuid.UUID, string) (*entity.Service, error) {
	panic("not used by merge")
}

func (r *fakeServiceRepo) BatchUpsert(context.Context, []adapter.ServiceUpsert) (map[adapter.ServiceKey]uuid.UUID, error) {
	panic("not used by merge")
}

func (r *fakeServiceRepo) Update(_ context.Context, service *entity.Service) error {
	r.store.services[service.ID] = service
	return nil
}

func (r *fakeServiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.services, id)
	return nil
}

func (r *fakeServiceRepo) CountByVendor(_ context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	for _, service := range r.store.services {
		if subscription, ok := r.store.subscriptions[service.SubscriptionID]; ok && subscription.VendorID == vendorID {
			count++
		}
	}
	return count, nil
}

type fakeInvoiceRepo struct{ store *memStore }

func (r *fakeInvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	r.store.invoices[invoice.ID] = invoice
	return nil
}

func (r *fakeInvoiceRepo) Update(context.Context, *entity.Invoice) error { panic("not used by merge") }

func (r *fakeInvoiceRepo) FindByID(context.Context, uuid.UUID) (*entity.Invoice, error) {
	panic("not used by merge")
}

func (r *fakeInvoiceRepo) FindByIDs(context.Context, []uuid.UUID) ([]*entity.Invoice, error) {
	panic("not used by merge")
}

func (r *fakeInvoiceRepo) FindByVendorAndNumber(context.Context, uuid.UUID, string) (*entity.Invoice, error) {
	panic("not used by merge")
}

func (r *fakeInvoiceRepo) FindByVendorName(context.Context, string) ([]*entity.Invoice, error) {
	panic("not used by merge")
}

func (r *fakeInvoiceRepo) InvoiceDatesByVendor(context.Context, uuid.UUID) ([]time.Time, error) {
	panic("not used by merge")
}

func (r *fakeInvoiceRepo) CountByVendor(_ context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	for _, invoice := range r.store.invoices {
		if invoice.VendorID == vendorID {
			count++
		}
	}
	return count, nil
}

func (r *fakeInvoiceRepo) ReassignVendor(_ context.Context, fromVendorID, toVendorID uuid.UUID) (int64, error) {
	var moved int64
	for _, invoice := range r.store.invoices {
		if invoice.VendorID == fromVendorID {
			invoice.VendorID = toVendorID
			moved++
		}
	}
	return moved, nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.invoices, id)
	return nil
}

type fakeLineItemRepo struct{ store *memStore }

func (r *fakeLineItemRepo) FindByID(context.Context, uuid.UUID) (*entity.InvoiceLineItem, error) {
	panic("not used by merge")
}

func (r *fakeLineItemRepo) FindByInvoice(context.Context, uuid.UUID) ([]*entity.InvoiceLineItem, error) {
	panic("not used by merge")
}

func (r *fakeLineItemRepo) FindByDescriptionPattern(context.Context, string) ([]*entity.InvoiceLineItem, error) {
	panic("not used by merge")
}

func (r *fakeLineItemRepo) BulkCreate(_ context.Context, items []*entity.InvoiceLineItem) error {
	for _, item := range items {
		r.store.lineItems[item.ID] = item
	}
	return nil
}

func (r *fakeLineItemRepo) DeleteByInvoice(context.Context, uuid.UUID) (int64, error) {
	panic("not used by merge")
}

func (r *fakeLineItemRepo) SetOverride(context.Context, uuid.UUID, *time.Time) error {
	panic("not used by merge")
}

func (r *fakeLineItemRepo) SetOverrideByInvoice(context.Context, uuid.UUID, *time.Time) (int64, error) {
	panic("not used by merge")
}

func (r *fakeLineItemRepo) SetOverrideByIDs(context.Context, []uuid.UUID, *time.Time) (int64, error) {
	panic("not used by merge")
}

func (r *fakeLineItemRepo) CountByService(_ context.Context, serviceID uuid.UUID) (int64, error) {
	var count int64
	for _, item := range r.store.lineItems {
		if item.ServiceID != nil && *item.ServiceID == serviceID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLineItemRepo) CountByVendor(_ context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	for _, item := range r.store.lineItems {
		if invoice, ok := r.store.invoices[item.InvoiceID]; ok && invoice.VendorID == vendorID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLineItemRepo) ReassignService(_ context.Context, fromServiceID, toServiceID uuid.UUID) (int64, error) {
	var moved int64
	for _, item := range r.store.lineItems {
		if item.ServiceID != nil && *item.ServiceID == fromServiceID {
			serviceID := toServiceID
			item.ServiceID = &serviceID
			moved++
		}
	}
	return moved, nil
}

func newPreviewUseCase(store *memStore) *PreviewMergeUseCase {
	return NewPreviewMergeUseCase(
		&fakeVendorRepo{store: store},
		&fakeSubscriptionRepo{store: store},
		&fakeServiceRepo{store: store},
		&fakeInvoiceRepo{store: store},
		&fakeLineItemRepo{store: store},
	)
}

func newExecuteUseCase(store *memStore) *ExecuteMergeUseCase {
	return NewExecuteMergeUseCase(
		&fakeVendorRepo{store: store},
		&fakeSubscriptionRepo{store: store},
		&fakeServiceRepo{store: store},
		&fakeInvoiceRepo{store: store},
		&fakeLineItemRepo{store: store},
	)
}
