// Package applications maintains the append-only feed of development
// applications scraped from the council's eService portal.
package applications

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"councilwatch-backend/lib/scrapers/ecouncil"
	"councilwatch-backend/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/applications")

// the council's contact channel, attached uniformly to every record. it is
// configuration of the feed format, not something derived from the page.
const CommentUrl = "mailto:city@mountgambier.sa.gov.au"

type Service struct {
	store  Store
	client *ecouncil.Client
}

func NewService(database *sql.DB, client *ecouncil.Client) Service {
	return Service{
		store:  NewStore(database),
		client: client,
	}
}

type RecordOutcome struct {
	CouncilReference string
	Address          string
	Outcome          Outcome
}

type Report struct {
	Inserted       int
	AlreadyPresent int
	// listings dropped for missing an application number or address
	Skipped int
	Records []RecordOutcome
	// the full rows this run inserted, in insertion order. digests are
	// built from these rather than from a date query, so a rerun on the
	// same day (or one crossing midnight) never re-reports old rows
	New []DevelopmentApplication
}

// Scrape runs one pass over the portal: applications lodged within the last
// calendar month are fetched, extracted and written through InsertIfAbsent,
// so re-running against unchanged results never duplicates or alters rows.
// A transport or storage failure aborts the run; records committed before
// the failure stay committed.
func (s Service) Scrape(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "service:Scrape")
	defer span.End()

	now := timezone.Now()
	dateFrom := oneMonthBefore(now)
	span.SetAttributes(
		attribute.String("date_from", dateFrom.Format(time.DateOnly)),
		attribute.String("date_to", now.Format(time.DateOnly)),
	)

	doc, err := s.client.SearchByLodgementDate(ctx, dateFrom, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch search results")
		return Report{}, err
	}

	dateScraped := now.Format(time.DateOnly)
	var report Report
	for _, app := range ecouncil.Applications(doc) {
		if app.ApplicationNumber == "" || app.Address == "" {
			slog.DebugContext(ctx, "skipping incomplete listing",
				"application", app.ApplicationNumber, "address", app.Address)
			report.Skipped++
			continue
		}

		dateReceived := ""
		if lodged, ok := ecouncil.ParseLodgementDate(app.LodgedDate); ok {
			dateReceived = lodged.Format(time.DateOnly)
		}

		record := DevelopmentApplication{
			CouncilReference: app.ApplicationNumber,
			Address:          app.Address,
			Description:      app.Reason,
			InfoUrl:          s.client.EnquiryUrl(),
			CommentUrl:       CommentUrl,
			DateScraped:      dateScraped,
			DateReceived:     dateReceived,
		}
		outcome, err := s.store.InsertIfAbsent(ctx, record)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to write application")
			return report, err
		}

		switch outcome {
		case OutcomeInserted:
			report.Inserted++
			report.New = append(report.New, record)
			slog.InfoContext(ctx, "inserted application",
				"reference", app.ApplicationNumber,
				"address", app.Address,
				"reason", app.Reason)
		case OutcomeAlreadyPresent:
			report.AlreadyPresent++
			slog.InfoContext(ctx, "skipped application, already present",
				"reference", app.ApplicationNumber,
				"address", app.Address)
		}
		report.Records = append(report.Records, RecordOutcome{
			CouncilReference: app.ApplicationNumber,
			Address:          app.Address,
			Outcome:          outcome,
		})
	}

	return report, nil
}

// oneMonthBefore steps back one calendar month, clamping to the last day of
// the target month when the day does not exist there (31 May -> 30 Apr,
// not 1 May as AddDate normalization would give).
func oneMonthBefore(t time.Time) time.Time {
	d := t.AddDate(0, -1, 0)
	if d.Day() != t.Day() {
		d = d.AddDate(0, 0, -d.Day())
	}
	return d
}

// List returns the whole stored feed, newest first.
func (s Service) List(ctx context.Context) ([]DevelopmentApplication, error) {
	return s.store.List(ctx)
}

// ListSince returns records scraped on or after the given YYYY-MM-DD date.
// Stored rows never change, so records first seen today are exactly the
// rows with today's scrape date.
func (s Service) ListSince(ctx context.Context, dateScraped string) ([]DevelopmentApplication, error) {
	return s.store.ListSince(ctx, dateScraped)
}
