package ecouncil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const searchResultsPage = `
<html><body>
<h4 class="non_table_headers">123   Main
  St</h4>
<div>
	<p class="rowDataOnly"><span class="key">Application No.</span><span class="inputField"> 123/45/18 </span></p>
	<p class="rowDataOnly"><span class="key">Type of Work</span><span class="inputField">Shed</span></p>
	<p class="rowDataOnly"><span class="key">Date Lodged</span><span class="inputField">2/08/2018</span></p>
	<p class="rowDataOnly"><span class="key">Zone</span><span class="inputField">Residential</span></p>
</div>
<h4 class="non_table_headers">7 Commercial Street East</h4>
<div>
	<p class="rowDataOnly"><span class="key">Application No.</span><span class="inputField">99/1/21</span></p>
	<p class="rowDataOnly"><span class="key">Type of Work</span><span class="inputField">Carport</span></p>
	<p class="rowDataOnly"><span class="key">Type of Work</span><span class="inputField">Verandah</span></p>
</div>
<h4 class="non_table_headers">No detail block here</h4>
<p>something unrelated</p>
</body></html>`

func TestApplications(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(searchResultsPage))
	if err != nil {
		t.Fatal(err)
	}

	apps := Applications(doc)
	require.Len(t, apps, 3)

	require.Equal(t, Application{
		ApplicationNumber: "123/45/18",
		Address:           "123 Main St",
		Reason:            "Shed",
		LodgedDate:        "2/08/2018",
	}, apps[0])

	// a repeated label keeps its last occurrence, and a missing one stays empty
	require.Equal(t, Application{
		ApplicationNumber: "99/1/21",
		Address:           "7 Commercial Street East",
		Reason:            "Verandah",
	}, apps[1])

	// a listing without a detail block still surfaces its address
	require.Equal(t, Application{
		Address: "No detail block here",
	}, apps[2])
}

func TestApplicationsEmptyPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, Applications(doc))
}
