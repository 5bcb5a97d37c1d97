package ecouncil

import (
	"strings"

	"councilwatch-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Application is one listing as it appears on the search results page,
// before any validation or date normalization.
type Application struct {
	ApplicationNumber string
	Address           string
	Reason            string
	// lodgement date exactly as printed by the portal, see ParseLodgementDate
	LodgedDate string
}

// detail block labels recognized on a listing; any other label is ignored.
// a repeated label overwrites, the last occurrence wins.
var fieldSetters = map[string]func(*Application, string){
	"Type of Work":    func(a *Application, v string) { a.Reason = v },
	"Application No.": func(a *Application, v string) { a.ApplicationNumber = v },
	"Date Lodged":     func(a *Application, v string) { a.LodgedDate = v },
}

// Applications extracts every listing from a search results page. Each
// listing is an h4 heading whose own text is the address, followed by a div
// of labeled key/value rows. Listings with missing structure come back with
// empty fields rather than being dropped here, filtering is the caller's
// concern.
func Applications(doc *goquery.Document) []Application {
	var apps []Application
	doc.Find("h4.non_table_headers").Each(func(_ int, heading *goquery.Selection) {
		app := Application{
			Address: htmlutil.FieldText(heading),
		}
		heading.Next().Filter("div").Find("p.rowDataOnly").Each(func(_ int, row *goquery.Selection) {
			key := strings.TrimSpace(row.ChildrenFiltered("span.key").Text())
			value := strings.TrimSpace(row.ChildrenFiltered("span.inputField").Text())
			if set, ok := fieldSetters[key]; ok {
				set(&app, value)
			}
		})
		apps = append(apps, app)
	})
	return apps
}
