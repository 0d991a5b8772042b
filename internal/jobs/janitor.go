package jobs

import (
	"fmt"

	"github.com/Thonzy/Inventory-App/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Janitor runs periodic housekeeping: purging expired reset tokens and
// flagging low-stock products on the activity feed.
type Janitor struct {
	resetSvc   services.ResetServiceProvider
	productSvc services.ProductServiceProvider
	eventSvc   services.EventServiceProvider
	threshold  int
	cron       *cron.Cron
}

// NewJanitor creates a janitor with the given low-stock threshold.
func NewJanitor(resetSvc services.ResetServiceProvider, productSvc services.ProductServiceProvider, eventSvc services.EventServiceProvider, threshold int) *Janitor {
	return &Janitor{
		resetSvc:   resetSvc,
		productSvc: productSvc,
		eventSvc:   eventSvc,
		threshold:  threshold,
		cron:       cron.New(),
	}
}

// Start schedules the janitor on the given cron spec and runs one pass
// immediately.
func (j *Janitor) Start(spec string) error {
	if _, err := j.cron.AddFunc(spec, j.runOnce); err != nil {
		return fmt.Errorf("invalid janitor cron spec %q: %w", spec, err)
	}
	go j.runOnce()
	j.cron.Start()
	log.Info().Str("spec", spec).Msg("Janitor started")
	return nil
}

// Stop halts the janitor, waiting for a running pass to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	log.Info().Msg("Janitor stopped")
}

func (j *Janitor) runOnce() {
	purged, err := j.resetSvc.PurgeExpired()
	if err != nil {
		log.Error().Err(err).Msg("Janitor: failed to purge expired reset tokens")
	} else if purged > 0 {
		log.Info().Int64("purged", purged).Msg("Janitor: removed expired reset tokens")
	}

	products, err := j.productSvc.GetLowStock(j.threshold)
	if err != nil {
		log.Error().Err(err).Msg("Janitor: failed to scan for low stock")
		return
	}
	for _, p := range products {
		id := p.ID
		msg := fmt.Sprintf("Product '%s' is low on stock (%d left).", p.Name, p.Quantity)
		if err := j.eventSvc.CreateEvent("stock.low", "warn", msg, &id); err != nil {
			log.Error().Err(err).Str("product_id", p.ID).Msg("Janitor: failed to record low stock event")
		}
	}
}
