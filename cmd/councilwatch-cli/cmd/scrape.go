package cmd

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"councilwatch-backend/lib/configutil"
	"councilwatch-backend/lib/scrapers/ecouncil"
	"councilwatch-backend/lib/serviceutil"
	"councilwatch-backend/lib/sqliteutil"
	"councilwatch-backend/services/applications"
	applicationsdb "councilwatch-backend/services/applications/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type scrapeConfig struct {
	BaseUrl string `json:"base_url"`
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--db <path/to/feed.db>]",
	Short: "Runs one scrape pass over the portal and prints the per-record outcomes.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[scrapeConfig]("config.json5")
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			serviceutil.Fatal("failed to read config", err)
		}

		db, err := sqliteutil.OpenDB(applicationsdb.Schema, *dbPath)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer db.Close()

		client, err := ecouncil.NewClient(ecouncil.ClientOptions{BaseUrl: cfg.BaseUrl})
		if err != nil {
			serviceutil.Fatal("failed to initialize portal client", err)
		}
		service := applications.NewService(db, client)

		t1 := time.Now()
		report, err := service.Scrape(cmd.Context())
		if err != nil {
			serviceutil.Fatal("scrape failed", err)
		}
		slog.Info("scrape complete",
			"inserted", report.Inserted,
			"already_present", report.AlreadyPresent,
			"skipped", report.Skipped,
			"seconds", time.Since(t1).Seconds())

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Reference", "Address", "Outcome"})
		for _, record := range report.Records {
			t.AppendRow(table.Row{record.CouncilReference, record.Address, record.Outcome.String()})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
