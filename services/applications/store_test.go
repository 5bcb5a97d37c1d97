package applications

import (
	"context"
	"testing"

	"councilwatch-backend/lib/testutil"
	"councilwatch-backend/services/applications/db"

	"github.com/google/go-cmp/cmp"
	"github.com/mazen160/go-random"
	"github.com/stretchr/testify/require"
)

func randomApplication(t *testing.T, dateScraped string) DevelopmentApplication {
	reference, err := random.String(12)
	if err != nil {
		t.Fatal(err)
	}
	street, err := random.String(8)
	if err != nil {
		t.Fatal(err)
	}
	return DevelopmentApplication{
		CouncilReference: reference,
		Address:          "1 " + street + " Street",
		Description:      "Dwelling",
		InfoUrl:          "https://example.com/enquiry",
		CommentUrl:       CommentUrl,
		DateScraped:      dateScraped,
		DateReceived:     "2018-08-02",
	}
}

func TestInsertIfAbsent(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/applications/store",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx := context.Background()
	app := randomApplication(t, "2021-03-05")

	outcome, err := store.InsertIfAbsent(ctx, app)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, OutcomeInserted, outcome)

	// same reference again: no error, no second row
	outcome, err = store.InsertIfAbsent(ctx, app)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, OutcomeAlreadyPresent, outcome)

	rows, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, rows, 1)
	require.Empty(t, cmp.Diff(app, rows[0]))
}

func TestInsertIfAbsentNeverOverwrites(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/applications/store",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx := context.Background()
	original := randomApplication(t, "2021-03-05")

	_, err := store.InsertIfAbsent(ctx, original)
	if err != nil {
		t.Fatal(err)
	}

	changed := original
	changed.Address = "999 Somewhere Else"
	changed.Description = "Demolition"
	changed.DateScraped = "2022-01-01"
	outcome, err := store.InsertIfAbsent(ctx, changed)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, OutcomeAlreadyPresent, outcome)

	rows, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, rows, 1)
	require.Empty(t, cmp.Diff(original, rows[0]))
}

func TestListSince(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/applications/store",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx := context.Background()
	old := randomApplication(t, "2021-03-01")
	recent := randomApplication(t, "2021-03-08")
	for _, app := range []DevelopmentApplication{old, recent} {
		_, err := store.InsertIfAbsent(ctx, app)
		if err != nil {
			t.Fatal(err)
		}
	}

	rows, err := store.ListSince(ctx, "2021-03-05")
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, rows, 1)
	require.Equal(t, recent.CouncilReference, rows[0].CouncilReference)

	rows, err = store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, rows, 2)
	// newest scrape first
	require.Equal(t, recent.CouncilReference, rows[0].CouncilReference)
}
