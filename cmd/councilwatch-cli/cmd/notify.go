package cmd

import (
	"log/slog"
	"time"

	"councilwatch-backend/lib/configutil"
	"councilwatch-backend/lib/serviceutil"
	"councilwatch-backend/lib/sqliteutil"
	"councilwatch-backend/lib/timezone"
	"councilwatch-backend/services/applications"
	applicationsdb "councilwatch-backend/services/applications/db"

	"github.com/spf13/cobra"
)

type notifyConfig struct {
	Notify applications.NotifyConfig `json:"notify"`
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}

var notifyCmd = &cobra.Command{
	Use:   "notify [--db <path/to/feed.db>]",
	Short: "Emails the configured recipients a digest of records scraped today.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[notifyConfig]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		db, err := sqliteutil.OpenDB(applicationsdb.Schema, *dbPath)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer db.Close()
		store := applications.NewStore(db)

		today := timezone.Now().Format(time.DateOnly)
		apps, err := store.ListSince(cmd.Context(), today)
		if err != nil {
			serviceutil.Fatal("failed to list today's applications", err)
		}
		if len(apps) == 0 {
			slog.Info("no applications scraped today, nothing to send")
			return
		}

		err = applications.SendDigest(cmd.Context(), cfg.Notify, apps)
		if err != nil {
			serviceutil.Fatal("failed to send digest", err)
		}
		slog.Info("digest sent", "applications", len(apps), "recipients", len(cfg.Notify.Recipients))
	},
}
