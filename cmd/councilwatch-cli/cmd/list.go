package cmd

import (
	"os"

	"councilwatch-backend/lib/serviceutil"
	"councilwatch-backend/lib/sqliteutil"
	"councilwatch-backend/services/applications"
	applicationsdb "councilwatch-backend/services/applications/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listSince *string

func init() {
	listSince = listCmd.Flags().String("since", "", "Only show records scraped on or after this YYYY-MM-DD date.")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [--db <path/to/feed.db>] [--since YYYY-MM-DD]",
	Short: "Prints the stored development application feed.",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := sqliteutil.OpenDB(applicationsdb.Schema, *dbPath)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer db.Close()
		store := applications.NewStore(db)

		var apps []applications.DevelopmentApplication
		if *listSince != "" {
			apps, err = store.ListSince(cmd.Context(), *listSince)
		} else {
			apps, err = store.List(cmd.Context())
		}
		if err != nil {
			serviceutil.Fatal("failed to list applications", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Reference", "Address", "Description", "Scraped", "Received"})
		for _, app := range apps {
			t.AppendRow(table.Row{
				app.CouncilReference,
				app.Address,
				app.Description,
				app.DateScraped,
				app.DateReceived,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
