// Package tracker implements the independent case-tracking managers:
// providers, check-ins, negotiation offers, demand, settlement and
// litigation. Each manager owns one namespaced record, persists the whole
// record on every mutation, and derives its statistics synchronously from
// the in-memory copy.
package tracker

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/halcyonlegal/casefile/internal/common"
	"github.com/halcyonlegal/casefile/internal/model"
	"github.com/halcyonlegal/casefile/internal/service"
)

// Providers manages the bills-and-records provider list.
type Providers struct {
	store service.Store
}

// NewProviders creates a provider manager.
func NewProviders(store service.Store) (*Providers, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &Providers{store: store}, nil
}

// List returns all tracked providers.
func (p *Providers) List(ctx context.Context) ([]model.Provider, error) {
	return p.store.GetProviders(ctx)
}

// Add tracks a new provider and returns it with its generated identity.
func (p *Providers) Add(ctx context.Context, name, phone string) (model.Provider, error) {
	if name == "" {
		return model.Provider{}, fmt.Errorf("provider name is required")
	}

	provider := model.Provider{
		ID:    uuid.NewString(),
		Name:  name,
		Phone: phone,
	}

	providers, err := p.store.GetProviders(ctx)
	if err != nil {
		return model.Provider{}, err
	}
	providers = append(providers, provider)
	if err := p.store.SaveProviders(ctx, providers); err != nil {
		return model.Provider{}, err
	}
	return provider, nil
}

// MarkRequested records that bills and records were requested from the provider.
func (p *Providers) MarkRequested(ctx context.Context, id string, now time.Time) error {
	return p.mutate(ctx, id, func(provider *model.Provider) {
		provider.Requested = true
		at := now
		provider.RequestedAt = &at
	})
}

// MarkRecordsReceived records arrival of the provider's medical records.
func (p *Providers) MarkRecordsReceived(ctx context.Context, id string, now time.Time) error {
	return p.mutate(ctx, id, func(provider *model.Provider) {
		provider.RecordsReceived = true
		at := now
		provider.ReceivedAt = &at
	})
}

// MarkBillsReceived records arrival of the provider's bills.
func (p *Providers) MarkBillsReceived(ctx context.Context, id string, now time.Time) error {
	return p.mutate(ctx, id, func(provider *model.Provider) {
		provider.BillsReceived = true
		at := now
		provider.ReceivedAt = &at
	})
}

// Remove deletes a provider by identity.
func (p *Providers) Remove(ctx context.Context, id string) error {
	providers, err := p.store.GetProviders(ctx)
	if err != nil {
		return err
	}

	kept := providers[:0]
	found := false
	for _, provider := range providers {
		if provider.ID == id {
			found = true
			continue
		}
		kept = append(kept, provider)
	}
	if !found {
		return fmt.Errorf("provider %q: %w", id, common.ErrNotFound)
	}
	return p.store.SaveProviders(ctx, kept)
}

func (p *Providers) mutate(ctx context.Context, id string, apply func(*model.Provider)) error {
	providers, err := p.store.GetProviders(ctx)
	if err != nil {
		return err
	}
	for i := range providers {
		if providers[i].ID == id {
			apply(&providers[i])
			return p.store.SaveProviders(ctx, providers)
		}
	}
	return fmt.Errorf("provider %q: %w", id, common.ErrNotFound)
}

// ProviderStats summarizes collection progress over the provider list.
func ProviderStats(providers []model.Provider) service.ProviderStats {
	stats := service.ProviderStats{Total: len(providers)}
	for i := range providers {
		if providers[i].Requested {
			stats.Requested++
		}
		if providers[i].RecordsReceived {
			stats.RecordsReceived++
		}
		if providers[i].BillsReceived {
			stats.BillsReceived++
		}
		if providers[i].Complete() {
			stats.Complete++
		}
	}
	if stats.Total > 0 {
		stats.Percent = int(math.Round(100 * float64(stats.Complete) / float64(stats.Total)))
	}
	return stats
}

// HasBillsOnFile reports whether any bills or documents are on file: a
// provider with bills received, or any intake upload. Records received
// alone does not open the gate.
func HasBillsOnFile(providers []model.Provider, uploads []model.Upload) bool {
	if len(uploads) > 0 {
		return true
	}
	for i := range providers {
		if providers[i].BillsReceived {
			return true
		}
	}
	return false
}
