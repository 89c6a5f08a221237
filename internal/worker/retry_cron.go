package worker

// retry_cron.go
// Background goroutine that periodically re-enqueues invoices whose PDF
// export failed and whose next retry is due. The export worker itself
// parks an invoice in the DLQ once MaxExportAttempts is reached, so the
// cron only ever sees invoices still worth retrying.

import (
	"context"
	"time"

	"gammacrm/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds the dependencies for the retry goroutine.
type RetryCronConfig struct {
	Invoices   repository.InvoiceRepository
	Dispatcher *Dispatcher
}

// StartRetryCron launches a goroutine that ticks every 30s and
// re-dispatches due exports. Respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	due, err := cfg.Invoices.ListDueForExportRetry(ctx, time.Now(), MaxExportAttempts, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query due exports")
		return
	}
	if len(due) == 0 {
		return
	}

	log.Info().Int("count", len(due)).Msg("retry_cron: re-dispatching pending exports")
	for i := range due {
		inv := &due[i]
		if err := cfg.Dispatcher.EnqueueInvoiceExport(ctx, inv.ID); err != nil {
			log.Warn().Err(err).Str("invoice", inv.InvoiceNo).Msg("retry_cron: failed to enqueue export")
			continue
		}
		// Push the schedule forward so the next tick doesn't double-enqueue
		// while the job is still in flight.
		next := time.Now().Add(computeRetryBackoff(inv.ExportAttempts + 1))
		inv.NextRetryAt = &next
		if err := cfg.Invoices.Update(ctx, inv); err != nil {
			log.Warn().Err(err).Str("invoice", inv.InvoiceNo).Msg("retry_cron: failed to reschedule")
		}
	}
}
