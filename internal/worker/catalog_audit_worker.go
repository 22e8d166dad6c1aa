package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/variant"
)

// CatalogSource lists every stored product.
type CatalogSource interface {
	ListAll() ([]models.Product, error)
}

// CatalogAuditWorker periodically re-checks stored products for variant
// inconsistencies that slipped past write-time validation (manual SQL edits,
// older imports) and logs each one.
type CatalogAuditWorker struct {
	source   CatalogSource
	interval time.Duration
}

// NewCatalogAuditWorker constructs a CatalogAuditWorker.
func NewCatalogAuditWorker(source CatalogSource, interval time.Duration) *CatalogAuditWorker {
	return &CatalogAuditWorker{
		source:   source,
		interval: interval,
	}
}

// Start runs an audit immediately and then on every tick until ctx is done.
func (w *CatalogAuditWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting catalog audit worker")

	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Catalog audit worker stopped")
			return
		}
	}
}

// run returns the number of anomalies found.
func (w *CatalogAuditWorker) run(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}

	start := time.Now()
	products, err := w.source.ListAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load catalog for audit")
		return 0
	}

	total, dirty := 0, 0
	for i := range products {
		p := &products[i]
		anomalies := variant.Validate(p)
		if len(anomalies) == 0 {
			continue
		}
		dirty++
		total += len(anomalies)
		for _, a := range anomalies {
			log.Warn().
				Str("product_id", p.ID).
				Str("slug", p.Slug).
				Str("kind", string(a.Kind)).
				Str("variant_id", a.VariantID).
				Msg(a.Detail)
		}
	}

	log.Info().
		Int("products", len(products)).
		Int("dirty_products", dirty).
		Int("anomalies", total).
		Dur("duration", time.Since(start)).
		Msg("Catalog audit completed")
	return total
}
