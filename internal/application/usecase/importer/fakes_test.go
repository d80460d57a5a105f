package importer

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
)

// memStore is an in-memory database shared by the fake repositories so the
// import use cases can be exercised end to end without a real database.
type memStore struct {
	mu            sync.Mutex
	vendors       map[uuid.UUID]*entity.Vendor
	subscriptions map[uuid.UUID]*entity.Subscription
	services      map[adapter.ServiceKey]*entity.Service
	invoices      map[uuid.UUID]*entity.Invoice
	lineItems     map[uuid.UUID]*entity.InvoiceLineItem
	importRuns    []*entity.ImportRun

	failInvoiceCreateFor string // vendor name whose invoice creates fail
}

func newMemStore() *memStore {
	return &memStore{
		vendors:       make(map[uuid.UUID]*entity.Vendor),
		subscriptions: make(map[uuid.UUID]*entity.Subscription),
		services:      make(map[adapter.ServiceKey]*entity.Service),
		invoices:      make(map[uuid.UUID]*entity.Invoice),
		lineItems:     make(map[uuid.UUID]*entity.InvoiceLineItem),
	}
}

func (s *memStore) invoiceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invoices)
}

func (s *memStore) lineItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lineItems)
}

type fakeVendorRepo struct{ store *memStore }

func (r *fakeVendorRepo) Create(_ context.Context, vendor *entity.Vendor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.vendors[vendor.ID] = vendor
	return nil
}

func (r *fakeVendorRepo) Update(_ context.Context, vendor *entity.Vendor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.vendors[vendor.ID] = vendor
	return nil
}

func (r *fakeVendorRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Vendor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if vendor, ok := r.store.vendors[id]; ok {
		return vendor, nil
	}
	return nil, domainerror.ErrVendorNotFound
}

func (r *fakeVendorRepo) FindByName(_ context.Context, name string) (*entity.Vendor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, vendor := range r.store.vendors {
		if strings.EqualFold(vendor.Name, name) {
			return vendor, nil
		}
	}
	return nil, domainerror.ErrVendorNotFound
}

func (r *fakeVendorRepo) FindByNames(_ context.Context, names []string) ([]*entity.Vendor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*entity.Vendor
	for _, vendor := range r.store.vendors {
		for _, name := range names {
			if strings.EqualFold(vendor.Name, name) {
				result = append(result, vendor)
				break
			}
		}
	}
	return result, nil
}

func (r *fakeVendorRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.vendors, id)
	return nil
}

type fakeSubscriptionRepo struct{ store *memStore }

func (r *fakeSubscriptionRepo) Create(_ context.Context, subscription *entity.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.subscriptions[subscription.ID] = subscription
	return nil
}

func (r *fakeSubscriptionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if subscription, ok := r.store.subscriptions[id]; ok {
		return subscription, nil
	}
	return nil, domainerror.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) FindMostRecentByVendor(_ context.Context, vendorID uuid.UUID) (*entity.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var best *entity.Subscription
	for _, subscription := range r.store.subscriptions {
		if subscription.VendorID != vendorID {
			continue
		}
		if best == nil || subscription.CreatedAt.After(best.CreatedAt) {
			best = subscription
		}
	}
	if best == nil {
		return nil, domainerror.ErrSubscriptionNotFound
	}
	return best, nil
}

func (r *fakeSubscriptionRepo) FindMostRecentByVendors(_ context.Context, vendorIDs []uuid.UUID) (map[uuid.UUID]*entity.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	result := make(map[uuid.UUID]*entity.Subscription)
	for _, id := range vendorIDs {
		for _, subscription := range r.store.subscriptions {
			if subscription.VendorID != id {
				continue
			}
			if best, ok := result[id]; !ok || subscription.CreatedAt.After(best.CreatedAt) {
				result[id] = subscription
			}
		}
	}
	return result, nil
}

func (r *fakeSubscriptionRepo) CountByVendor(_ context.Context, vendorID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, subscription := range r.store.subscriptions {
		if subscription.VendorID == vendorID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSubscriptionRepo) ReassignVendor(_ context.Context, fromVendorID, toVendorID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var moved int64
	for _, subscription := range r.store.subscriptions {
		if subscription.VendorID == fromVendorID {
			subscription.VendorID = toVendorID
			moved++
		}
	}
	return moved, nil
}

func (r *fakeSubscriptionRepo) UpdateBillingCycle(_ context.Context, id uuid.UUID, cycle entity.BillingCycle) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	subscription, ok := r.store.subscriptions[id]
	if !ok {
		return domainerror.ErrSubscriptionNotFound
	}
	subscription.BillingCycle = cycle
	return nil
}

type fakeServiceRepo struct{ store *memStore }

func (r *fakeServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Service, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, service := range r.store.services {
		if service.ID == id {
			return service, nil
		}
	}
	return nil, domainerror.ErrServiceNotFound
}

func (r *fakeServiceRepo) FindBySubscriptionAndName(_ context.Context, subscriptionID uuid.UUID, name string) (*entity.Service, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if service, ok := r.store.services[adapter.ServiceKey{SubscriptionID: subscriptionID, Name: name}]; ok {
		return service, nil
	}
	return nil, domainerror.ErrServiceNotFound
}

func (r *fakeServiceRepo) BatchUpsert(_ context.Context, upserts []adapter.ServiceUpsert) (map[adapter.ServiceKey]uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	result := make(map[adapter.ServiceKey]uuid.UUID, len(upserts))
	for _, upsert := range upserts {
		key := adapter.ServiceKey{SubscriptionID: upsert.SubscriptionID, Name: upsert.Name}
		service, ok := r.store.services[key]
		if !ok {
			service = entity.NewService(upsert.SubscriptionID, upsert.Name, upsert.Total, upsert.Currency)
			r.store.services[key] = service
		} else {
			service.CurrentUnitPrice = upsert.Total
			service.UpdatedAt = time.Now().UTC()
		}
		result[key] = service.ID
	}
	return result, nil
}

func (r *fakeServiceRepo) Update(_ context.Context, service *entity.Service) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.services[adapter.ServiceKey{SubscriptionID: service.SubscriptionID, Name: service.Name}] = service
	return nil
}

func (r *fakeServiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for key, service := range r.store.services {
		if service.ID == id {
			delete(r.store.services, key)
		}
	}
	return nil
}

func (r *fakeServiceRepo) CountByVendor(_ context.Context, vendorID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
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
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failInvoiceCreateFor != "" {
		if vendor, ok := r.store.vendors[invoice.VendorID]; ok &&
			strings.EqualFold(vendor.Name, r.store.failInvoiceCreateFor) {
			return domainerror.NewImportError(
				domainerror.ErrCodeImportInternal, "induced write failure", nil)
		}
	}
	r.store.invoices[invoice.ID] = invoice
	return nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, invoice *entity.Invoice) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.invoices[invoice.ID] = invoice
	return nil
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if invoice, ok := r.store.invoices[id]; ok {
		return invoice, nil
	}
	return nil, domainerror.ErrInvoiceNotFound
}

func (r *fakeInvoiceRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*entity.Invoice
	for _, id := range ids {
		if invoice, ok := r.store.invoices[id]; ok {
			result = append(result, invoice)
		}
	}
	return result, nil
}

func (r *fakeInvoiceRepo) FindByVendorAndNumber(_ context.Context, vendorID uuid.UUID, invoiceNumber string) (*entity.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, invoice := range r.store.invoices {
		if invoice.VendorID == vendorID && invoice.InvoiceNumber == invoiceNumber {
			return invoice, nil
		}
	}
	return nil, domainerror.ErrInvoiceNotFound
}

func (r *fakeInvoiceRepo) FindByVendorName(_ context.Context, vendorName string) ([]*entity.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var vendorID uuid.UUID
	found := false
	for _, vendor := range r.store.vendors {
		if strings.EqualFold(vendor.Name, vendorName) {
			vendorID = vendor.ID
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}
	var result []*entity.Invoice
	for _, invoice := range r.store.invoices {
		if invoice.VendorID == vendorID {
			result = append(result, invoice)
		}
	}
	return result, nil
}

func (r *fakeInvoiceRepo) InvoiceDatesByVendor(_ context.Context, vendorID uuid.UUID) ([]time.Time, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var dates []time.Time
	for _, invoice := range r.store.invoices {
		if invoice.VendorID == vendorID {
			dates = append(dates, invoice.InvoiceDate)
		}
	}
	return dates, nil
}

func (r *fakeInvoiceRepo) CountByVendor(_ context.Context, vendorID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, invoice := range r.store.invoices {
		if invoice.VendorID == vendorID {
			count++
		}
	}
	return count, nil
}

func (r *fakeInvoiceRepo) ReassignVendor(_ context.Context, fromVendorID, toVendorID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
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
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.invoices, id)
	return nil
}

type fakeLineItemRepo struct{ store *memStore }

func (r *fakeLineItemRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.InvoiceLineItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if item, ok := r.store.lineItems[id]; ok {
		return item, nil
	}
	return nil, domainerror.ErrLineItemNotFound
}

func (r *fakeLineItemRepo) FindByInvoice(_ context.Context, invoiceID uuid.UUID) ([]*entity.InvoiceLineItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*entity.InvoiceLineItem
	for _, item := range r.store.lineItems {
		if item.InvoiceID == invoiceID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *fakeLineItemRepo) FindByDescriptionPattern(_ context.Context, pattern string) ([]*entity.InvoiceLineItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*entity.InvoiceLineItem
	for _, item := range r.store.lineItems {
		if strings.Contains(strings.ToLower(item.Description), strings.ToLower(pattern)) {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *fakeLineItemRepo) BulkCreate(_ context.Context, items []*entity.InvoiceLineItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, item := range items {
		r.store.lineItems[item.ID] = item
	}
	return nil
}

func (r *fakeLineItemRepo) DeleteByInvoice(_ context.Context, invoiceID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var deleted int64
	for id, item := range r.store.lineItems {
		if item.InvoiceID == invoiceID {
			delete(r.store.lineItems, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeLineItemRepo) SetOverride(_ context.Context, id uuid.UUID, month *time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item, ok := r.store.lineItems[id]
	if !ok {
		return domainerror.ErrLineItemNotFound
	}
	item.BillingMonthOverride = month
	return nil
}

func (r *fakeLineItemRepo) SetOverrideByInvoice(_ context.Context, invoiceID uuid.UUID, month *time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var updated int64
	for _, item := range r.store.lineItems {
		if item.InvoiceID == invoiceID {
			item.BillingMonthOverride = month
			updated++
		}
	}
	return updated, nil
}

func (r *fakeLineItemRepo) SetOverrideByIDs(_ context.Context, ids []uuid.UUID, month *time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var updated int64
	for _, id := range ids {
		if item, ok := r.store.lineItems[id]; ok {
			item.BillingMonthOverride = month
			updated++
		}
	}
	return updated, nil
}

func (r *fakeLineItemRepo) CountByService(_ context.Context, serviceID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, item := range r.store.lineItems {
		if item.ServiceID != nil && *item.ServiceID == serviceID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLineItemRepo) CountByVendor(_ context.Context, vendorID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, item := range r.store.lineItems {
		if invoice, ok := r.store.invoices[item.InvoiceID]; ok && invoice.VendorID == vendorID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLineItemRepo) ReassignService(_ context.Context, fromServiceID, toServiceID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
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

type fakeImportRunRepo struct{ store *memStore }

func (r *fakeImportRunRepo) Create(_ context.Context, run *entity.ImportRun) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.importRuns = append(r.store.importRuns, run)
	return nil
}

func (r *fakeImportRunRepo) FindRecent(_ context.Context, limit int) ([]*entity.ImportRun, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	runs := r.store.importRuns
	if len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}
	return runs, nil
}

type fakeNotifier struct {
	configured bool
	notified   []*entity.ImportExecutionResult
}

func (n *fakeNotifier) NotifyImportCompleted(_ context.Context, result *entity.ImportExecutionResult) error {
	n.notified = append(n.notified, result)
	return nil
}

func (n *fakeNotifier) IsConfigured() bool { return n.configured }

func newExecuteUseCase(store *memStore, notifier adapter.ImportNotifier) *ExecuteBatchUseCase {
	return NewExecuteBatchUseCase(
		&fakeVendorRepo{store: store},
		&fakeSubscriptionRepo{store: store},
		&fakeServiceRepo{store: store},
		&fakeInvoiceRepo{store: store},
		&fakeLineItemRepo{store: store},
		&fakeImportRunRepo{store: store},
		notifier,
		50,
	)
}

func newReconcileUseCase(store *memStore) *ReconcileUseCase {
	return NewReconcileUseCase(
		&fakeInvoiceRepo{store: store},
		&fakeLineItemRepo{store: store},
	)
}
