package ecouncil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"councilwatch-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const sessionCookie = "JSESSIONID_live"

// portal mimics the eService portal's session behavior: the search endpoint
// only returns listings to sessions that visited the enquiry page first.
type portal struct {
	resultsPage string

	primes      atomic.Int32
	searchQuery url.Values
}

func (p *portal) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/eservice/daEnquiryInit.do", func(w http.ResponseWriter, r *http.Request) {
		p.primes.Add(1)
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "abc123", Path: "/"})
		w.Write([]byte("<html><body>enquiry form</body></html>"))
	})
	mux.HandleFunc("/eservice/daEnquiry.do", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || cookie.Value != "abc123" {
			// no session, the real portal serves an unrelated page
			w.Write([]byte("<html><body>Your session has expired.</body></html>"))
			return
		}
		p.searchQuery = r.URL.Query()
		w.Write([]byte(p.resultsPage))
	})
	return mux
}

func TestSearchByLodgementDate(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/ecouncil")
	defer cleanup()

	p := &portal{resultsPage: searchResultsPage}
	server := httptest.NewServer(p.handler())
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	dateFrom := time.Date(2018, 7, 2, 0, 0, 0, 0, time.UTC)
	dateTo := time.Date(2018, 8, 2, 0, 0, 0, 0, time.UTC)
	doc, err := client.SearchByLodgementDate(ctx, dateFrom, dateTo)
	if err != nil {
		t.Fatal(err)
	}

	// the enquiry page is visited exactly once, before the search
	require.Equal(t, int32(1), p.primes.Load())
	require.Equal(t, "02/07/2018", p.searchQuery.Get("dateFrom"))
	require.Equal(t, "02/08/2018", p.searchQuery.Get("dateTo"))
	require.Equal(t, "on", p.searchQuery.Get("lodgeRangeType"))
	require.Equal(t, "A", p.searchQuery.Get("searchMode"))

	apps := Applications(doc)
	require.Len(t, apps, 3)
	require.Equal(t, "123/45/18", apps[0].ApplicationNumber)
}

func TestSearchWithoutSessionReturnsNothing(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/ecouncil")
	defer cleanup()

	p := &portal{resultsPage: searchResultsPage}
	mux := http.NewServeMux()
	// an enquiry page that never issues a session cookie
	mux.HandleFunc("/eservice/daEnquiryInit.do", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>enquiry form</body></html>"))
	})
	mux.Handle("/eservice/daEnquiry.do", p.handler())
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	doc, err := client.SearchByLodgementDate(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, Applications(doc))
}

func TestSearchBadStatus(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/ecouncil")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.SearchByLodgementDate(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
}
