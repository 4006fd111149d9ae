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

// Offers manages the negotiation history: insurer offers and client demands.
type Offers struct {
	store service.Store
}

// NewOffers creates an offer manager.
func NewOffers(store service.Store) (*Offers, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &Offers{store: store}, nil
}

// List returns the full negotiation history.
func (o *Offers) List(ctx context.Context) ([]model.Offer, error) {
	return o.store.GetOffers(ctx)
}

// Add appends an entry to the negotiation history.
func (o *Offers) Add(ctx context.Context, from model.OfferOrigin, amount float64, note string, date time.Time) (model.Offer, error) {
	offer := model.Offer{
		ID:      uuid.NewString(),
		DateISO: date.Format("2006-01-02"),
		From:    from,
		Amount:  amount,
		Note:    note,
	}
	if err := offer.Validate(); err != nil {
		return model.Offer{}, err
	}

	offers, err := o.store.GetOffers(ctx)
	if err != nil {
		return model.Offer{}, err
	}
	offers = append(offers, offer)
	if err := o.store.SaveOffers(ctx, offers); err != nil {
		return model.Offer{}, err
	}
	return offer, nil
}

// Remove deletes an entry by identity.
func (o *Offers) Remove(ctx context.Context, id string) error {
	offers, err := o.store.GetOffers(ctx)
	if err != nil {
		return err
	}

	kept := offers[:0]
	found := false
	for _, offer := range offers {
		if offer.ID == id {
			found = true
			continue
		}
		kept = append(kept, offer)
	}
	if !found {
		return fmt.Errorf("offer %q: %w", id, common.ErrNotFound)
	}
	return o.store.SaveOffers(ctx, kept)
}

// OfferStats derives the negotiation summary: counts per origin, the
// highest insurer offer, the client's latest position, and the gap between
// them. An empty history yields zeroes, not an error.
func OfferStats(offers []model.Offer) service.OfferStats {
	var stats service.OfferStats

	for _, offer := range offers {
		date, err := time.Parse("2006-01-02", offer.DateISO)
		if err == nil && date.After(stats.LatestDate) {
			stats.LatestDate = date
		}

		switch offer.From {
		case model.OriginInsurer:
			stats.InsurerCount++
			stats.HasInsurerOffer = true
			if offer.Amount > stats.HighestInsurer {
				stats.HighestInsurer = offer.Amount
			}
		case model.OriginClient:
			stats.ClientCount++
			stats.HasClientPosition = true
			// Entries are appended in order; the last client entry wins.
			stats.LatestClient = offer.Amount
		}
	}

	if stats.HasInsurerOffer && stats.HasClientPosition {
		stats.Gap = stats.LatestClient - stats.HighestInsurer
		if stats.LatestClient > 0 {
			stats.PercentOfDemand = int(math.Round(100 * stats.HighestInsurer / stats.LatestClient))
		}
	}

	return stats
}
