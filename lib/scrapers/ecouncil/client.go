// Package ecouncil scrapes development application listings from a council's
// eService portal (the "daEnquiry" application used by several South
// Australian councils, among them the City of Mount Gambier).
package ecouncil

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"councilwatch-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/ecouncil")

const DefaultBaseUrl = "https://ecouncil.mountgambier.sa.gov.au"

const (
	enquiryPath = "/eservice/daEnquiryInit.do?nodeNum=21461"
	searchPath  = "/eservice/daEnquiry.do"
)

// query parameter format the portal expects for date ranges
const searchDateLayout = "02/01/2006"

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl when empty
	BaseUrl string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/ecouncil/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// EnquiryUrl is the absolute address of the enquiry entry page. Scraped
// records carry it as their information url.
func (c *Client) EnquiryUrl() string {
	return c.BaseUrl.String() + enquiryPath
}

// prime visits the enquiry entry page so the portal binds a session to the
// cookie jar (a JSESSIONID_live cookie). The search endpoint returns an
// unrelated or empty page for sessions that never visited the entry page,
// so this must run before every search. The response body is discarded.
func (c *Client) prime(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:prime")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(enquiryPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch enquiry page")
		return err
	}
	if res.IsError() {
		err := fmt.Errorf("enquiry page returned status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// SearchByLodgementDate fetches the search results page for applications
// lodged between dateFrom and dateTo inclusive, at day granularity.
func (c *Client) SearchByLodgementDate(ctx context.Context, dateFrom, dateTo time.Time) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:SearchByLodgementDate")
	defer span.End()

	err := c.prime(ctx)
	if err != nil {
		return nil, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"number":            "",
			"lodgeRangeType":    "on",
			"dateFrom":          dateFrom.Format(searchDateLayout),
			"dateTo":            dateTo.Format(searchDateLayout),
			"detDateFromString": "",
			"detDateToString":   "",
			"streetName":        "",
			"suburb":            "0",
			"unitNum":           "",
			// the portal's own search form submits this exact value,
			// whitespace included
			"houseNum":     "0\r\n\t\t\t\t\t",
			"planNumber":   "",
			"strataPlan":   "",
			"lotNumber":    "",
			"propertyName": "",
			"searchMode":   "A",
			"submitButton": "Search",
		}).
		Get(searchPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch search results")
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("search returned status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse search results html")
		return nil, err
	}
	return doc, nil
}
