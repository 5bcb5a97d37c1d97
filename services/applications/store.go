package applications

import (
	"context"
	"database/sql"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DevelopmentApplication is one stored feed record. Dates are formatted
// YYYY-MM-DD; DateReceived is empty when the portal's lodgement date did
// not parse.
type DevelopmentApplication struct {
	CouncilReference string
	Address          string
	Description      string
	InfoUrl          string
	CommentUrl       string
	DateScraped      string
	DateReceived     string
}

type Outcome int

const (
	OutcomeInserted Outcome = iota
	OutcomeAlreadyPresent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeAlreadyPresent:
		return "already_present"
	}
	return "unknown"
}

// Store writes and reads the feed table. Rows are immutable: the only write
// is an insert that backs off when the council reference was seen before.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// InsertIfAbsent writes app unless a row with the same council reference
// exists, in which case the stored row is left untouched. The returned
// outcome reports which of the two happened; neither is an error.
func (s Store) InsertIfAbsent(ctx context.Context, app DevelopmentApplication) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "store:InsertIfAbsent")
	defer span.End()
	span.SetAttributes(attribute.String("council_reference", app.CouncilReference))

	res, err := s.db.ExecContext(ctx, `
		insert into data (
			council_reference, address, description, info_url, comment_url,
			date_scraped, date_received, on_notice_from, on_notice_to
		)
		values (?, ?, ?, ?, ?, ?, ?, null, null)
		on conflict (council_reference) do nothing`,
		app.CouncilReference,
		app.Address,
		app.Description,
		app.InfoUrl,
		app.CommentUrl,
		app.DateScraped,
		app.DateReceived,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to exec insert")
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read rows affected")
		return 0, err
	}
	if affected == 0 {
		return OutcomeAlreadyPresent, nil
	}
	return OutcomeInserted, nil
}

const selectColumns = `
	select council_reference, address, description, info_url, comment_url,
		date_scraped, date_received
	from data`

// List returns every stored record, most recently scraped first.
func (s Store) List(ctx context.Context) ([]DevelopmentApplication, error) {
	ctx, span := tracer.Start(ctx, "store:List")
	defer span.End()

	rows, err := s.db.QueryContext(ctx, selectColumns+`
		order by date_scraped desc, council_reference`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query feed")
		return nil, err
	}
	return scanApplications(rows)
}

// ListSince returns records scraped on or after the given YYYY-MM-DD date,
// most recently scraped first.
func (s Store) ListSince(ctx context.Context, dateScraped string) ([]DevelopmentApplication, error) {
	ctx, span := tracer.Start(ctx, "store:ListSince")
	defer span.End()
	span.SetAttributes(attribute.String("date_scraped", dateScraped))

	rows, err := s.db.QueryContext(ctx, selectColumns+`
		where date_scraped >= ?
		order by date_scraped desc, council_reference`, dateScraped)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query feed")
		return nil, err
	}
	return scanApplications(rows)
}

func scanApplications(rows *sql.Rows) ([]DevelopmentApplication, error) {
	defer rows.Close()

	var apps []DevelopmentApplication
	for rows.Next() {
		var app DevelopmentApplication
		err := rows.Scan(
			&app.CouncilReference,
			&app.Address,
			&app.Description,
			&app.InfoUrl,
			&app.CommentUrl,
			&app.DateScraped,
			&app.DateReceived,
		)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}
