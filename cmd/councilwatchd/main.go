package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"councilwatch-backend/lib/configutil"
	"councilwatch-backend/lib/scrapers/ecouncil"
	"councilwatch-backend/lib/serviceutil"
	"councilwatch-backend/lib/sqliteutil"
	"councilwatch-backend/lib/telemetry"
	"councilwatch-backend/services/applications"
	applicationsdb "councilwatch-backend/services/applications/db"
)

type Config struct {
	// local sqlite file or remote libsql url
	Database string `json:"database"`
	// portal base url, defaults to the Mount Gambier portal
	BaseUrl             string                    `json:"base_url"`
	Port                int                       `json:"port"`
	ScrapeIntervalHours int                       `json:"scrape_interval_hours"`
	Notify              applications.NotifyConfig `json:"notify"`
	Verbose             bool                      `json:"verbose"`
}

func main() {
	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.Database == "" {
		config.Database = "data.sqlite"
	}
	if config.Port == 0 {
		config.Port = 8320
	}

	telemetry.InitSlog(config.Verbose)

	tel, err := telemetry.SetupFromEnv(ctx, "councilwatchd")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	db, err := sqliteutil.OpenDB(applicationsdb.Schema, config.Database)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}
	defer db.Close()

	client, err := ecouncil.NewClient(ecouncil.ClientOptions{BaseUrl: config.BaseUrl})
	if err != nil {
		serviceutil.Fatal("failed to initialize portal client", err)
	}
	service := applications.NewService(db, client)

	mux := http.NewServeMux()
	service.RegisterRoutes(mux)
	go serviceutil.StartHttpServer(config.Port, mux)

	go scrapeLoop(ctx, service, config)

	<-ctx.Done()
}

func scrapeLoop(ctx context.Context, service applications.Service, config Config) {
	interval := time.Duration(config.ScrapeIntervalHours) * time.Hour
	if interval == 0 {
		interval = time.Hour * 24
	}

	for {
		scrapeOnce(ctx, service, config)
		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return
		}
	}
}

func scrapeOnce(ctx context.Context, service applications.Service, config Config) {
	t1 := time.Now()
	report, err := service.Scrape(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "scrape failed", "err", err)
		return
	}
	slog.InfoContext(ctx, "scrape complete",
		"inserted", report.Inserted,
		"already_present", report.AlreadyPresent,
		"skipped", report.Skipped,
		"seconds", time.Since(t1).Seconds())

	// the digest covers the rows this run inserted, nothing more. a query
	// by scrape date would re-mail earlier runs from the same day.
	if len(report.New) == 0 {
		return
	}
	err = applications.SendDigest(ctx, config.Notify, report.New)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send digest", "err", err)
	}
}
