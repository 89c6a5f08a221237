package worker

// export_worker.go
// Processes invoice export jobs from QueueExport: renders the invoice
// PDF and, when the customer left an email address, chains an email job.
// Failed exports are rescheduled with exponential backoff and end up in
// the DLQ after MaxExportAttempts.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gammacrm/internal/infra"
	"gammacrm/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MaxExportAttempts before an invoice export is parked in the DLQ.
const MaxExportAttempts = 5

// ExportJobPayload is the job envelope sent to QueueExport.
type ExportJobPayload struct {
	InvoiceID string `json:"invoice_id"`
}

type ExportWorker struct {
	invoices       repository.InvoiceRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	pdfStoragePath string
}

func NewExportWorker(invoices repository.InvoiceRepository, dispatcher *Dispatcher, rdb *redis.Client, pdfStoragePath string) *ExportWorker {
	return &ExportWorker{
		invoices:       invoices,
		dispatcher:     dispatcher,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single export job:
//  1. Load the invoice with items and payments
//  2. Render the PDF with in-process retries
//  3. Persist the outcome (path on success, schedule on failure)
//  4. Chain an email job when the customer left an address
func (w *ExportWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ExportJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("export_worker: invalid payload")
		return
	}

	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		log.Error().Str("invoice_id", payload.InvoiceID).Msg("export_worker: invalid invoice_id")
		return
	}

	inv, err := w.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("export_worker: invoice not found")
		return
	}

	var pdfPath string
	genErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerateInvoicePDF(inv, w.pdfStoragePath)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).
				Str("invoice", inv.InvoiceNo).
				Msg("export_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})

	if genErr != nil {
		inv.ExportAttempts++
		errMsg := genErr.Error()
		inv.LastExportError = &errMsg

		if inv.ExportAttempts >= MaxExportAttempts {
			inv.NextRetryAt = nil
			SendToDLQ(ctx, w.rdb, QueueExport, "export", raw,
				fmt.Sprintf("max attempts (%d) exceeded: %s", MaxExportAttempts, errMsg),
				inv.ExportAttempts)
		} else {
			next := time.Now().Add(computeRetryBackoff(inv.ExportAttempts))
			inv.NextRetryAt = &next
		}
		if err := w.invoices.Update(ctx, inv); err != nil {
			log.Error().Err(err).Str("invoice", inv.InvoiceNo).Msg("export_worker: failed to record export failure")
		}
		return
	}

	inv.PDFPath = &pdfPath
	inv.LastExportError = nil
	inv.NextRetryAt = nil
	if err := w.invoices.Update(ctx, inv); err != nil {
		log.Error().Err(err).Str("invoice", inv.InvoiceNo).Msg("export_worker: failed to store pdf path")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("invoice", inv.InvoiceNo).Msg("export_worker: PDF generated")

	if inv.CustomerEmail != nil && *inv.CustomerEmail != "" {
		emailJob := EmailJobPayload{
			ToEmail: *inv.CustomerEmail,
			Subject: fmt.Sprintf("%s - Invoice %s", inv.Business, inv.InvoiceNo),
			Body:    fmt.Sprintf("Dear %s,\n\nPlease find your invoice attached.\nTotal: %s\n", inv.CustomerName, inv.TotalAmount.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *inv.CustomerEmail).Msg("export_worker: failed to enqueue email")
		}
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// computeRetryBackoff spaces cross-job retries: 1m, 2m, 4m, 8m, ...
func computeRetryBackoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return time.Duration(1<<uint(attempts-1)) * time.Minute
}
