package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "councilwatch-cli",
	Short: "councilwatch-cli scrapes and inspects the development application feed.",
}

var dbPath *string

func init() {
	dbPath = rootCmd.PersistentFlags().String("db", "data.sqlite", "The feed database, a sqlite file or a libsql url.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
