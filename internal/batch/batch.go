// Package batch drives one full pass over the invoice sheet: fetch rows,
// skip the invalid and already-sent ones, render + email the rest, and mark
// each delivered row in the status column.
package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skylineglobal/invoice-mailer/internal/config"
	"github.com/skylineglobal/invoice-mailer/internal/invoice"
	"github.com/skylineglobal/invoice-mailer/internal/logger"
)

// SheetClient reads the data range and writes status markers back.
type SheetClient interface {
	// FetchRows returns all data rows and the absolute row number of the first.
	FetchRows(ctx context.Context) ([][]string, int, error)
	WriteStatus(ctx context.Context, rowNumber int, status string) error
}

// Renderer produces the invoice PDF for one record.
type Renderer interface {
	Render(rec invoice.Record) (pdf []byte, logoDrawn bool, err error)
}

// Sender delivers one email with a PDF attachment.
type Sender interface {
	Send(ctx context.Context, to, subject, body, filename string, attachment []byte) error
}

// Summary aggregates the outcome counts of one run.
type Summary struct {
	RunID          string
	Processed      int
	SkippedInvalid int
	SkippedDone    int
	Failed         int
}

// Runner holds the collaborators for a batch run. Construct once, call Run once.
type Runner struct {
	Sheet    SheetClient
	Renderer Renderer
	Sender   Sender
	Config   *config.Config

	// Now is the clock used for date defaults and status markers.
	// Left nil it falls back to time.Now.
	Now func() time.Time
}

// Run processes every row in the data range sequentially. One row's failure
// never aborts the batch: the error is logged with the row number, the row is
// counted as failed, and the loop moves on. Rows are retried wholesale on the
// next run since a failed row gets no status marker.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	now := r.Now
	if now == nil {
		now = time.Now
	}

	summary := Summary{RunID: uuid.NewString()}
	log := logger.FromContext(ctx).With().Str("run_id", summary.RunID).Logger()

	rows, startRow, err := r.Sheet.FetchRows(ctx)
	if err != nil {
		return summary, fmt.Errorf("Run: fetch rows: %w", err)
	}
	if len(rows) == 0 {
		log.Info().Msg("No data rows found")
		return summary, nil
	}

	log.Info().Int("rows", len(rows)).Int("start_row", startRow).Msg("Starting invoice batch")

	for i, row := range rows {
		rowNum := startRow + i
		rec := invoice.ParseRow(row, r.Config.Columns, r.Config.Currency, now())

		if err := rec.Validate(); err != nil {
			log.Info().Int("row", rowNum).Str("reason", err.Error()).Msg("Skipping row")
			summary.SkippedInvalid++
			continue
		}
		if invoice.AlreadySent(rec.RawStatus) {
			log.Info().Int("row", rowNum).Str("invoice_no", rec.InvoiceNumber).Msg("Already sent, skipping")
			summary.SkippedDone++
			continue
		}

		if err := r.processRow(ctx, rowNum, rec, now); err != nil {
			log.Error().Err(err).Int("row", rowNum).Str("invoice_no", rec.InvoiceNumber).Msg("Row failed")
			summary.Failed++
			continue
		}

		log.Info().Int("row", rowNum).Str("invoice_no", rec.InvoiceNumber).Str("email", rec.Email).Msg("Invoice sent")
		summary.Processed++
	}

	log.Info().
		Int("processed", summary.Processed).
		Int("skipped_invalid", summary.SkippedInvalid).
		Int("skipped_done", summary.SkippedDone).
		Int("failed", summary.Failed).
		Msg("Batch finished")

	return summary, nil
}

// processRow renders, sends, then marks one valid row. The status write only
// happens after the send succeeded, so a failure anywhere leaves the row
// eligible for the next run.
func (r *Runner) processRow(ctx context.Context, rowNum int, rec invoice.Record, now func() time.Time) error {
	pdf, _, err := r.Renderer.Render(rec)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	subject := r.expand(r.Config.Email.SubjectTemplate, rec)
	body := r.expand(r.Config.Email.BodyTemplate, rec)

	if err := r.Sender.Send(ctx, rec.Email, subject, body, rec.Filename(), pdf); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	if err := r.Sheet.WriteStatus(ctx, rowNum, invoice.StatusMarker(now())); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}

	return nil
}

// expand substitutes the template placeholders from one record.
func (r *Runner) expand(template string, rec invoice.Record) string {
	due := rec.DueDate
	if due == "" {
		due = "N/A"
	}
	return strings.NewReplacer(
		"{client}", rec.Client,
		"{invoice_no}", rec.InvoiceNumber,
		"{invoice_date}", rec.InvoiceDate,
		"{due_date}", due,
		"{currency}", rec.Currency,
		"{amount}", fmt.Sprintf("%.2f", rec.Amount),
		"{business}", r.Config.Business.Name,
	).Replace(template)
}
